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

// This file contains integration tests for the compression middleware with a
// full router.
//
// These tests verify negotiation, caching, and streaming behavior under
// realistic concurrent traffic.

//go:build integration

package compress_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	kgzip "github.com/klauspost/compress/gzip"
	"rivaas.dev/router"

	compress "github.com/vafast/vafast-compress"
	"github.com/vafast/vafast-compress/ttlcache"
)

// newCompressibleRouter returns a router serving a body large enough to pass
// the default threshold on every route.
func newCompressibleRouter() *router.Router {
	body := strings.Repeat("integration test payload with repetitive content. ", 60)

	r := router.MustNew()
	r.GET("/text", func(c *router.Context) {
		//nolint:errcheck // Test handler
		c.String(http.StatusOK, body)
	})
	r.GET("/json", func(c *router.Context) {
		//nolint:errcheck // Test handler
		c.JSON(http.StatusOK, map[string]string{"payload": body})
	})

	return r
}

func decodeGzip(body io.Reader) string {
	zr, err := kgzip.NewReader(body)
	Expect(err).NotTo(HaveOccurred())
	defer zr.Close()

	decoded, err := io.ReadAll(zr)
	Expect(err).NotTo(HaveOccurred())

	return string(decoded)
}

var _ = Describe("Compress Integration", Label("integration", "compress"), func() {
	Describe("with a full router", func() {
		It("should compress large responses end to end", func() {
			handler := compress.New()(newCompressibleRouter())

			req := httptest.NewRequest(http.MethodGet, "/text", nil)
			req.Header.Set("Accept-Encoding", "gzip")
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Header().Get("Content-Encoding")).To(Equal("gzip"))
			Expect(w.Header().Get("Vary")).To(Equal("accept-encoding"))
			Expect(decodeGzip(w.Body)).To(ContainSubstring("integration test payload"))
		})

		It("should negotiate per request across mixed clients", func() {
			handler := compress.New()(newCompressibleRouter())

			cases := map[string]string{
				"br, gzip":      "br",
				"gzip, deflate": "gzip",
				"deflate":       "deflate",
				"identity":      "",
			}

			for accept, want := range cases {
				req := httptest.NewRequest(http.MethodGet, "/json", nil)
				req.Header.Set("Accept-Encoding", accept)
				w := httptest.NewRecorder()

				handler.ServeHTTP(w, req)

				Expect(w.Code).To(Equal(http.StatusOK))
				Expect(w.Header().Get("Content-Encoding")).To(Equal(want),
					"Accept-Encoding %q should negotiate %q", accept, want)
			}
		})

		It("should honor the opt-out header through the router", func() {
			handler := compress.New()(newCompressibleRouter())

			req := httptest.NewRequest(http.MethodGet, "/text", nil)
			req.Header.Set("Accept-Encoding", "gzip")
			req.Header.Set(compress.DisableHeader, "1")
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Header().Get("Content-Encoding")).To(BeEmpty())
			Expect(w.Body.String()).To(ContainSubstring("integration test payload"))
		})
	})

	Describe("shared cache under concurrent load", func() {
		It("should serve identical concurrent requests from one cache entry", func() {
			cache := ttlcache.New[[]byte](time.Hour)
			handler := compress.New(compress.WithCache(cache))(newCompressibleRouter())

			const clients = 16

			var wg sync.WaitGroup
			wg.Add(clients)

			bodies := make([]string, clients)
			for i := range clients {
				go func() {
					defer wg.Done()

					req := httptest.NewRequest(http.MethodGet, "/text", nil)
					req.Header.Set("Accept-Encoding", "gzip")
					w := httptest.NewRecorder()

					handler.ServeHTTP(w, req)

					Expect(w.Header().Get("Content-Encoding")).To(Equal("gzip"))
					bodies[i] = decodeGzip(w.Body)
				}()
			}
			wg.Wait()

			// Same body, same encoding: one hash, one entry.
			Expect(cache.Len()).To(Equal(1))
			for _, body := range bodies {
				Expect(body).To(Equal(bodies[0]))
			}
		})

		It("should keep separate entries per negotiated encoding", func() {
			cache := ttlcache.New[[]byte](time.Hour)
			handler := compress.New(compress.WithCache(cache))(newCompressibleRouter())

			for _, accept := range []string{"br", "gzip", "deflate"} {
				req := httptest.NewRequest(http.MethodGet, "/text", nil)
				req.Header.Set("Accept-Encoding", accept)
				w := httptest.NewRecorder()

				handler.ServeHTTP(w, req)

				Expect(w.Header().Get("Content-Encoding")).To(Equal(accept))
			}

			Expect(cache.Len()).To(Equal(3))
		})
	})

	Describe("streaming", func() {
		It("should compress server-sent events without caching them", func() {
			cache := ttlcache.New[[]byte](time.Hour)

			r := router.MustNew()
			r.GET("/events", func(c *router.Context) {
				c.Response.Header().Set("Content-Type", "text/event-stream")
				c.Response.WriteHeader(http.StatusOK)

				flusher, ok := c.Response.(http.Flusher)
				Expect(ok).To(BeTrue())

				for _, event := range []string{"one", "two", "three"} {
					_, err := c.Response.Write([]byte("data: " + event + "\n\n"))
					Expect(err).NotTo(HaveOccurred())
					flusher.Flush()
				}
			})

			handler := compress.New(
				compress.WithCache(cache),
				compress.WithStreamCompression(),
			)(r)

			req := httptest.NewRequest(http.MethodGet, "/events", nil)
			req.Header.Set("Accept-Encoding", "gzip")
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Header().Get("Content-Encoding")).To(Equal("gzip"))
			Expect(cache.Len()).To(Equal(0), "streamed responses should bypass the cache")

			decoded := decodeGzip(w.Body)
			Expect(decoded).To(Equal("data: one\n\ndata: two\n\ndata: three\n\n"))
		})
	})
})
