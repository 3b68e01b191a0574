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

// Package main demonstrates the compression middleware wrapping a
// rivaas/router application.
package main

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"rivaas.dev/router"

	compress "github.com/vafast/vafast-compress"
	"github.com/vafast/vafast-compress/encoding"
)

func main() {
	r := router.MustNew()

	// A JSON payload large enough to clear the 1KB threshold. Repeated
	// requests are served from the compressed-result cache.
	r.GET("/api/users", func(c *router.Context) {
		users := make([]map[string]any, 0, 50)
		for i := range 50 {
			users = append(users, map[string]any{
				"id":    i,
				"name":  fmt.Sprintf("user-%d", i),
				"email": fmt.Sprintf("user-%d@example.com", i),
			})
		}
		_ = c.JSON(http.StatusOK, map[string]any{"users": users})
	})

	// Small responses pass through untouched.
	r.GET("/ping", func(c *router.Context) {
		_ = c.String(http.StatusOK, "pong")
	})

	// Binary content types are never compressed.
	r.GET("/image.png", func(c *router.Context) {
		_ = c.Data(http.StatusOK, "image/png", fakePNG())
	})

	// Server-sent events, compressed incrementally because the middleware
	// below enables stream compression.
	r.GET("/events", func(c *router.Context) {
		c.Response.Header().Set("Content-Type", "text/event-stream")
		c.Response.Header().Set("Cache-Control", "no-cache")

		flusher, ok := c.Response.(http.Flusher)
		if !ok {
			c.Response.WriteHeader(http.StatusInternalServerError)
			return
		}

		for i := range 10 {
			fmt.Fprintf(c.Response, "data: tick %d at %s\n\n", i, time.Now().Format(time.RFC3339))
			flusher.Flush()
			time.Sleep(500 * time.Millisecond)
		}
	})

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	handler := compress.New(
		compress.WithEncodings(encoding.Brotli, encoding.Gzip, encoding.Deflate, encoding.Zstd),
		compress.WithThreshold(1024),
		compress.WithTTL(24*time.Hour),
		compress.WithStreamCompression(),
		compress.WithBrotliOptions(encoding.BrotliOptions{Quality: 5}),
		compress.WithLogger(logger),
	)(r)

	log.Println("Server starting on http://localhost:8080")
	log.Println("Try: curl -H 'Accept-Encoding: br' -sD- http://localhost:8080/api/users -o /dev/null")
	log.Println("     curl -H 'Accept-Encoding: gzip' -N http://localhost:8080/events | gunzip")
	log.Println("     curl -H 'Accept-Encoding: gzip' -H 'x-no-compression: 1' -sD- http://localhost:8080/api/users -o /dev/null")
	log.Fatal(http.ListenAndServe(":8080", handler))
}

// fakePNG returns bytes that only pretend to be an image; enough to show
// the content-type gate skipping them.
func fakePNG() []byte {
	return []byte("\x89PNG\r\n\x1a\n" + strings.Repeat("not really pixels ", 128))
}
