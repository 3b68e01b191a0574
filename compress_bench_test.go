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

package compress_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	compress "github.com/vafast/vafast-compress"
	"github.com/vafast/vafast-compress/encoding"
)

func benchRequest(acceptEncoding string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if acceptEncoding != "" {
		req.Header.Set("Accept-Encoding", acceptEncoding)
	}

	return req
}

func BenchmarkCompress_GzipCached(b *testing.B) {
	h := compress.New(compress.WithEncodings(encoding.Gzip))(textHandler(http.StatusOK, "text/plain", largeText))
	req := benchRequest("gzip")

	b.ResetTimer()
	b.ReportAllocs()

	for b.Loop() {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
	}
}

func BenchmarkCompress_GzipUncached(b *testing.B) {
	// TTL 0 disables the result cache: every request pays for compression.
	h := compress.New(
		compress.WithEncodings(encoding.Gzip),
		compress.WithTTL(0),
	)(textHandler(http.StatusOK, "text/plain", largeText))
	req := benchRequest("gzip")

	b.ResetTimer()
	b.ReportAllocs()

	for b.Loop() {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
	}
}

func BenchmarkCompress_Brotli(b *testing.B) {
	h := compress.New(compress.WithTTL(time.Hour))(textHandler(http.StatusOK, "text/plain", largeText))
	req := benchRequest("br")

	b.ResetTimer()
	b.ReportAllocs()

	for b.Loop() {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
	}
}

func BenchmarkCompress_Disabled(b *testing.B) {
	h := compress.New()(textHandler(http.StatusOK, "text/plain", largeText))
	req := benchRequest("")

	b.ResetTimer()
	b.ReportAllocs()

	for b.Loop() {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
	}
}

func BenchmarkCompress_BelowThreshold(b *testing.B) {
	h := compress.New()(textHandler(http.StatusOK, "text/plain", "tiny"))
	req := benchRequest("gzip")

	b.ResetTimer()
	b.ReportAllocs()

	for b.Loop() {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
	}
}
