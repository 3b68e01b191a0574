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

package compress

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/vafast/vafast-compress/encoding"
	"github.com/vafast/vafast-compress/ttlcache"
)

// WithEncodings sets the supported encodings in priority order. Negotiation
// picks the first listed encoding the client accepts, regardless of the
// client's own ordering.
// Default: br, gzip, deflate. encoding.Zstd is supported but not a default.
//
// Example:
//
//	compress.New(
//	    compress.WithEncodings(encoding.Gzip, encoding.Zstd),
//	)
func WithEncodings(names ...string) Option {
	return func(cfg *config) {
		if len(names) == 0 {
			panic("compress: at least one encoding is required")
		}

		for _, name := range names {
			switch name {
			case encoding.Brotli, encoding.Gzip, encoding.Deflate, encoding.Zstd:
			default:
				panic(fmt.Sprintf("compress: unsupported encoding %q", name))
			}
		}

		cfg.encodings = names
	}
}

// WithThreshold sets the minimum buffered body size, in bytes, that gets
// compressed; smaller responses pass through untouched. Zero compresses
// every eligible response.
// Default: 1024.
//
// Example:
//
//	compress.New(compress.WithThreshold(2048))
func WithThreshold(bytes int) Option {
	return func(cfg *config) {
		if bytes < 0 {
			panic("compress: threshold must not be negative")
		}

		cfg.threshold = bytes
	}
}

// WithTTL sets how long cached compressed results stay reusable. A zero or
// negative duration disables the compressed-result cache entirely.
// Default: 24 hours.
//
// Example:
//
//	compress.New(compress.WithTTL(time.Hour))
func WithTTL(d time.Duration) Option {
	return func(cfg *config) {
		cfg.cacheTTL = d
	}
}

// WithCache injects an externally owned compressed-result cache instead of
// the private one the middleware would build. Useful for sharing one cache
// across several middleware instances and for test isolation. Entries are
// stored with the middleware's configured TTL.
//
// Example:
//
//	shared := ttlcache.New[[]byte](time.Hour)
//	compress.New(compress.WithCache(shared))
func WithCache(cache *ttlcache.Cache[[]byte]) Option {
	return func(cfg *config) {
		cfg.cache = cache
	}
}

// WithoutOptOutHeader stops honoring the x-no-compression request header.
// By default any request carrying that header with a non-empty value is
// passed through uncompressed.
func WithoutOptOutHeader() Option {
	return func(cfg *config) {
		cfg.disableByHeader = false
	}
}

// WithStreamCompression enables incremental compression of live streams
// (responses whose handler flushes before returning, such as server-sent
// events). Off by default: streams pass through uncompressed.
//
// Stream compression never buffers the whole stream and never touches the
// compressed-result cache.
func WithStreamCompression() Option {
	return func(cfg *config) {
		cfg.compressStream = true
	}
}

// WithBrotliOptions sets the Brotli tuning options. Invalid values panic at
// construction time.
//
// Example:
//
//	compress.New(
//	    compress.WithBrotliOptions(encoding.BrotliOptions{Quality: 5}),
//	)
func WithBrotliOptions(opts encoding.BrotliOptions) Option {
	return func(cfg *config) {
		if err := opts.Validate(); err != nil {
			panic("compress: " + err.Error())
		}

		cfg.brotli = opts
	}
}

// WithZlibOptions sets the tuning options shared by the gzip and deflate
// encoders. Invalid values panic at construction time.
//
// Example:
//
//	compress.New(
//	    compress.WithZlibOptions(encoding.ZlibOptions{Level: 9}),
//	)
func WithZlibOptions(opts encoding.ZlibOptions) Option {
	return func(cfg *config) {
		if err := opts.Validate(); err != nil {
			panic("compress: " + err.Error())
		}

		cfg.zlib = opts
	}
}

// WithZstdOptions sets the zstd tuning options. Invalid values panic at
// construction time.
func WithZstdOptions(opts encoding.ZstdOptions) Option {
	return func(cfg *config) {
		if err := opts.Validate(); err != nil {
			panic("compress: " + err.Error())
		}

		cfg.zstd = opts
	}
}

// WithCompressibleTypes replaces the default content-type classifier
// (IsCompressible) with a custom predicate over the raw Content-Type value.
//
// Example:
//
//	compress.New(
//	    compress.WithCompressibleTypes(func(ct string) bool {
//	        return strings.HasPrefix(ct, "application/json")
//	    }),
//	)
func WithCompressibleTypes(predicate func(contentType string) bool) Option {
	return func(cfg *config) {
		if predicate == nil {
			panic("compress: compressible-type predicate must not be nil")
		}

		cfg.compressible = predicate
	}
}

// WithLogger sets the structured logger used to report stream finalization
// failures. Silent by default.
//
// Example:
//
//	compress.New(compress.WithLogger(slog.Default()))
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}
