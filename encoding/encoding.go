// Copyright 2025 The Vafast Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package encoding adapts the concrete compression algorithms (Brotli, gzip,
// deflate, zstd) behind a single Encoder interface, for both one-shot
// buffered payloads and incremental stream writing.
//
// Underlying writers are pooled per encoder instance to avoid re-allocating
// compressor state on every response.
package encoding

import "io"

// Content-Encoding tokens for the supported algorithms.
const (
	Brotli  = "br"
	Gzip    = "gzip"
	Deflate = "deflate"
	Zstd    = "zstd"
)

// Encoder compresses fully materialized payloads and wraps live byte
// streams for a single algorithm.
type Encoder interface {
	// Name returns the Content-Encoding token for the algorithm.
	Name() string

	// Encode compresses data in one shot.
	Encode(data []byte) ([]byte, error)

	// Decode wraps r with the algorithm's standard decoder.
	Decode(r io.Reader) (io.ReadCloser, error)

	// NewStreamWriter returns an incremental encoder writing compressed
	// output to w. The caller must Close it to flush trailing bytes and
	// release pooled state.
	NewStreamWriter(w io.Writer) StreamWriter
}

// StreamWriter is an incremental encoder over an underlying stream.
// Flush emits a complete fragment of the algorithm's stream format so the
// bytes written so far are decodable by the consumer.
type StreamWriter interface {
	io.WriteCloser
	Flush() error
}

// flushWriteCloser is satisfied by the brotli, gzip, zlib, and zstd writers.
type flushWriteCloser interface {
	io.WriteCloser
	Flush() error
}

// pooledStreamWriter returns its underlying writer to the owning pool on
// Close.
type pooledStreamWriter struct {
	w       flushWriteCloser
	release func()
}

func (p *pooledStreamWriter) Write(b []byte) (int, error) {
	return p.w.Write(b)
}

func (p *pooledStreamWriter) Flush() error {
	return p.w.Flush()
}

func (p *pooledStreamWriter) Close() error {
	err := p.w.Close()
	p.release()

	return err
}
