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
	"net/http"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/vafast/vafast-compress/encoding"
	"github.com/vafast/vafast-compress/ttlcache"
)

// DisableHeader is the request header that opts a single request out of
// compression. Any non-empty value disables compression for that request
// unless the middleware was built with WithoutOptOutHeader.
const DisableHeader = "x-no-compression"

const (
	defaultThreshold = 1024
	defaultCacheTTL  = 24 * time.Hour
)

// Option defines functional options for compression middleware configuration.
type Option func(*config)

// config holds the configuration for the compression middleware.
type config struct {
	// logger is the structured logger for stream finalization errors
	// (slog from standard library)
	logger *slog.Logger

	// compressible decides whether a Content-Type is worth compressing
	compressible func(contentType string) bool

	// cache is an externally injected compressed-result cache; when nil
	// the middleware owns a private one sized by cacheTTL
	cache *ttlcache.Cache[[]byte]

	// encodings is the supported encoding list in priority order
	encodings []string

	// brotli, zlib, and zstd are the per-algorithm tuning options,
	// passed through opaquely to the encoders
	brotli encoding.BrotliOptions
	zlib   encoding.ZlibOptions
	zstd   encoding.ZstdOptions

	// threshold is the minimum buffered body size to compress (in bytes)
	threshold int

	// cacheTTL is how long compressed results stay reusable; <= 0
	// disables the cache
	cacheTTL time.Duration

	// disableByHeader honors the x-no-compression request header
	disableByHeader bool

	// compressStream compresses live streams (server-sent events)
	// incrementally instead of passing them through uncompressed
	compressStream bool
}

// defaultConfig returns the default configuration for compression middleware.
func defaultConfig() *config {
	return &config{
		compressible:    IsCompressible,
		encodings:       []string{encoding.Brotli, encoding.Gzip, encoding.Deflate},
		brotli:          encoding.DefaultBrotliOptions(),
		zlib:            encoding.DefaultZlibOptions(),
		zstd:            encoding.DefaultZstdOptions(),
		threshold:       defaultThreshold,
		cacheTTL:        defaultCacheTTL,
		disableByHeader: true,
	}
}

// buildEncoders constructs one encoder per configured encoding.
// Tuning options were validated when set, so a constructor error here is a
// startup bug and fatal.
func (c *config) buildEncoders() map[string]encoding.Encoder {
	encoders := make(map[string]encoding.Encoder, len(c.encodings))
	for _, name := range c.encodings {
		var (
			enc encoding.Encoder
			err error
		)

		switch name {
		case encoding.Brotli:
			enc, err = encoding.NewBrotli(c.brotli)
		case encoding.Gzip:
			enc, err = encoding.NewGzip(c.zlib)
		case encoding.Deflate:
			enc, err = encoding.NewDeflate(c.zlib)
		case encoding.Zstd:
			enc, err = encoding.NewZstd(c.zstd)
		}

		if err != nil {
			panic(fmt.Sprintf("compress: %s encoder: %v", name, err))
		}

		encoders[name] = enc
	}

	return encoders
}

// New returns a middleware that compresses HTTP responses using Brotli,
// gzip, or deflate (and optionally zstd), negotiated against the client's
// Accept-Encoding tokens in the configured priority order.
//
// Responses are buffered, gated on status, size, and content type, and
// compressed results are cached by content hash so identical bodies are
// never compressed twice within the TTL window. Handlers that flush before
// returning are treated as live streams: with WithStreamCompression they are
// compressed incrementally without buffering or caching, otherwise they pass
// through untouched.
//
// Basic usage:
//
//	mux := http.NewServeMux()
//	handler := compress.New()(mux)
//	http.ListenAndServe(":8080", handler)
//
// With custom settings:
//
//	handler := compress.New(
//	    compress.WithEncodings(encoding.Gzip, encoding.Brotli),
//	    compress.WithThreshold(2048),
//	    compress.WithTTL(time.Hour),
//	)(mux)
//
// A request-side x-no-compression header skips compression for that request;
// a failing encoder panics out of the handler (there is no silent fallback
// to an uncompressed response).
func New(opts ...Option) func(http.Handler) http.Handler {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	encoders := cfg.buildEncoders()

	cache := cfg.cache
	if cache == nil && cfg.cacheTTL > 0 {
		cache = ttlcache.New[[]byte](cfg.cacheTTL)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Early exit: request opted out
			if cfg.disableByHeader && r.Header.Get(DisableHeader) != "" {
				next.ServeHTTP(w, r)
				return
			}

			// Early exit: no overlap with client support
			name := negotiate(r.Header.Get("Accept-Encoding"), cfg.encodings)
			if name == "" {
				next.ServeHTTP(w, r)
				return
			}

			cw := newResponseWriter(w, cfg, encoders[name], cache)
			next.ServeHTTP(cw, r)

			if err := cw.finalize(); err != nil {
				panic(fmt.Errorf("compress: %s: %w", name, err))
			}
		})
	}
}

// cacheKey derives the compressed-result cache key: a stable content hash
// over the encoding token and the exact body bytes. Identical
// (encoding, body) pairs map to the same key regardless of any other
// request attribute, across process restarts.
func cacheKey(encodingName string, body []byte) string {
	h := xxhash.New()
	_, _ = h.WriteString(encodingName)
	_, _ = h.Write(body)

	return strconv.FormatUint(h.Sum64(), 16)
}

// statusOK reports whether code is a success status worth compressing.
func statusOK(code int) bool {
	return code >= 200 && code < 300
}
