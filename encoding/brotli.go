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

	"github.com/andybalholm/brotli"
)

// BrotliOptions are the tuning knobs for the Brotli encoder.
type BrotliOptions struct {
	// Quality is the compression quality, 0-11. For dynamic content
	// (JSON/text) 4-5 is a good trade; higher levels are CPU-expensive.
	Quality int

	// LGWin is the sliding window size as log2, 10-24, or 0 to let the
	// encoder choose.
	LGWin int
}

// DefaultBrotliOptions returns the defaults used when no options are set:
// quality 4, automatic window size.
func DefaultBrotliOptions() BrotliOptions {
	return BrotliOptions{Quality: 4}
}

// Validate reports whether the options are within the ranges the encoder
// accepts.
func (o BrotliOptions) Validate() error {
	if o.Quality < brotli.BestSpeed || o.Quality > brotli.BestCompression {
		return fmt.Errorf("brotli quality must be between %d and %d, got %d", brotli.BestSpeed, brotli.BestCompression, o.Quality)
	}

	if o.LGWin != 0 && (o.LGWin < 10 || o.LGWin > 24) {
		return fmt.Errorf("brotli lgwin must be 0 or between 10 and 24, got %d", o.LGWin)
	}

	return nil
}

type brotliEncoder struct {
	pool sync.Pool
	opts BrotliOptions
}

// NewBrotli returns an Encoder for the br encoding.
func NewBrotli(opts BrotliOptions) (Encoder, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	e := &brotliEncoder{opts: opts}
	e.pool.New = func() any {
		return brotli.NewWriterOptions(io.Discard, brotli.WriterOptions{
			Quality: opts.Quality,
			LGWin:   opts.LGWin,
		})
	}

	return e, nil
}

func (e *brotliEncoder) Name() string {
	return Brotli
}

func (e *brotliEncoder) Encode(data []byte) ([]byte, error) {
	var buf bytes.Buffer

	w := e.pool.Get().(*brotli.Writer)
	w.Reset(&buf)

	_, err := w.Write(data)
	if cerr := w.Close(); err == nil {
		err = cerr
	}

	// Reset before returning to pool to reduce holding references
	w.Reset(nil)
	e.pool.Put(w)

	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (e *brotliEncoder) Decode(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(brotli.NewReader(r)), nil
}

func (e *brotliEncoder) NewStreamWriter(w io.Writer) StreamWriter {
	bw := e.pool.Get().(*brotli.Writer)
	bw.Reset(w)

	return &pooledStreamWriter{w: bw, release: func() {
		bw.Reset(nil)
		e.pool.Put(bw)
	}}
}

var _ Encoder = (*brotliEncoder)(nil)
