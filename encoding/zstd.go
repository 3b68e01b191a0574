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
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// ZstdOptions are the tuning knobs for the zstd encoder.
type ZstdOptions struct {
	// Level is the zstd compression level, 1 (fastest) through 22 (best).
	Level int
}

// DefaultZstdOptions returns the defaults used when no options are set:
// level 3, the zstd reference default.
func DefaultZstdOptions() ZstdOptions {
	return ZstdOptions{Level: 3}
}

// Validate reports whether the options are within the ranges the encoder
// accepts.
func (o ZstdOptions) Validate() error {
	if o.Level < 1 || o.Level > 22 {
		return fmt.Errorf("zstd level must be between 1 and 22, got %d", o.Level)
	}

	return nil
}

type zstdEncoder struct {
	pool sync.Pool
	opts ZstdOptions
}

// NewZstd returns an Encoder for the zstd encoding.
func NewZstd(opts ZstdOptions) (Encoder, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	e := &zstdEncoder{opts: opts}
	e.pool.New = func() any {
		w, _ := zstd.NewWriter(io.Discard,
			zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(opts.Level)),
			zstd.WithEncoderConcurrency(1),
		)
		return w
	}

	return e, nil
}

func (e *zstdEncoder) Name() string {
	return Zstd
}

func (e *zstdEncoder) Encode(data []byte) ([]byte, error) {
	w := e.pool.Get().(*zstd.Encoder)
	out := w.EncodeAll(data, nil)
	e.pool.Put(w)

	return out, nil
}

func (e *zstdEncoder) Decode(r io.Reader) (io.ReadCloser, error) {
	d, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, err
	}

	return d.IOReadCloser(), nil
}

func (e *zstdEncoder) NewStreamWriter(w io.Writer) StreamWriter {
	zw := e.pool.Get().(*zstd.Encoder)
	zw.Reset(w)

	return &pooledStreamWriter{w: zw, release: func() {
		zw.Reset(nil)
		e.pool.Put(zw)
	}}
}

var _ Encoder = (*zstdEncoder)(nil)
