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

package encoding

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
)

// ZlibOptions are the tuning knobs shared by the gzip and deflate encoders
// (both are zlib-family formats over the same DEFLATE levels).
type ZlibOptions struct {
	// Level is the compression level: -1 for the encoder default,
	// 0 for no compression, 1 (fastest) through 9 (best), or -2 for
	// Huffman-only.
	Level int
}

// DefaultZlibOptions returns the defaults used when no options are set.
func DefaultZlibOptions() ZlibOptions {
	return ZlibOptions{Level: gzip.DefaultCompression}
}

// Validate reports whether the options are within the ranges the encoders
// accept.
func (o ZlibOptions) Validate() error {
	if o.Level < gzip.HuffmanOnly || o.Level > gzip.BestCompression {
		return fmt.Errorf("zlib level must be between %d and %d, got %d", gzip.HuffmanOnly, gzip.BestCompression, o.Level)
	}

	return nil
}

type gzipEncoder struct {
	pool sync.Pool
	opts ZlibOptions
}

// NewGzip returns an Encoder for the gzip encoding.
func NewGzip(opts ZlibOptions) (Encoder, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	e := &gzipEncoder{opts: opts}
	e.pool.New = func() any {
		w, _ := gzip.NewWriterLevel(io.Discard, opts.Level)
		return w
	}

	return e, nil
}

func (e *gzipEncoder) Name() string {
	return Gzip
}

func (e *gzipEncoder) Encode(data []byte) ([]byte, error) {
	var buf bytes.Buffer

	w := e.pool.Get().(*gzip.Writer)
	w.Reset(&buf)

	_, err := w.Write(data)
	if cerr := w.Close(); err == nil {
		err = cerr
	}

	w.Reset(nil)
	e.pool.Put(w)

	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (e *gzipEncoder) Decode(r io.Reader) (io.ReadCloser, error) {
	return gzip.NewReader(r)
}

func (e *gzipEncoder) NewStreamWriter(w io.Writer) StreamWriter {
	gw := e.pool.Get().(*gzip.Writer)
	gw.Reset(w)

	return &pooledStreamWriter{w: gw, release: func() {
		gw.Reset(nil)
		e.pool.Put(gw)
	}}
}

type deflateEncoder struct {
	pool sync.Pool
	opts ZlibOptions
}

// NewDeflate returns an Encoder for the deflate encoding. Output is the
// zlib-wrapped form of DEFLATE that HTTP's deflate token names.
func NewDeflate(opts ZlibOptions) (Encoder, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	e := &deflateEncoder{opts: opts}
	e.pool.New = func() any {
		w, _ := zlib.NewWriterLevel(io.Discard, opts.Level)
		return w
	}

	return e, nil
}

func (e *deflateEncoder) Name() string {
	return Deflate
}

func (e *deflateEncoder) Encode(data []byte) ([]byte, error) {
	var buf bytes.Buffer

	w := e.pool.Get().(*zlib.Writer)
	w.Reset(&buf)

	_, err := w.Write(data)
	if cerr := w.Close(); err == nil {
		err = cerr
	}

	e.pool.Put(w)

	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (e *deflateEncoder) Decode(r io.Reader) (io.ReadCloser, error) {
	return zlib.NewReader(r)
}

func (e *deflateEncoder) NewStreamWriter(w io.Writer) StreamWriter {
	zw := e.pool.Get().(*zlib.Writer)
	zw.Reset(w)

	return &pooledStreamWriter{w: zw, release: func() {
		e.pool.Put(zw)
	}}
}

var (
	_ Encoder = (*gzipEncoder)(nil)
	_ Encoder = (*deflateEncoder)(nil)
)
