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

/*
Package compress provides response-compression middleware for net/http.

The middleware negotiates an encoding from the client's Accept-Encoding
tokens against a configured priority list (br, gzip, deflate by default,
zstd opt-in), gates compression on response status, body size, content
type, and an explicit per-request opt-out header, and caches compressed
results by content hash so identical bodies are compressed once per TTL
window.

# Pipeline

For every response the middleware runs:

  - Gate: skip when the request carries x-no-compression, when no
    configured encoding matches the client's tokens, when the status is not
    2xx, when the buffered body is below the size threshold, or when the
    Content-Type is not compressible (see IsCompressible).
  - Buffered compression: the handler's output is materialized, compressed
    once per distinct (encoding, body) pair, and served from an in-memory
    TTL cache on repeats.
  - Stream compression: handlers that flush before returning (server-sent
    events) are compressed incrementally with WithStreamCompression,
    preserving chunk order and flush timing, bypassing the cache; without
    it they pass through uncompressed.
  - Rewrite: Content-Encoding is set to the chosen token and
    accept-encoding is merged into Vary (a Vary of "*" is left alone).

# Usage

	mux := http.NewServeMux()
	mux.HandleFunc("/api", apiHandler)

	handler := compress.New(
	    compress.WithThreshold(1024),
	    compress.WithTTL(24*time.Hour),
	)(mux)

	log.Fatal(http.ListenAndServe(":8080", handler))

The middleware wraps any http.Handler, so it composes with routers the same
way (wrap the router, or mount it wherever the host framework accepts
net/http middleware).

The compressed-result cache is owned by the middleware instance returned by
New; it has no size bound beyond entry expiry, which is the deliberate
trade of the TTL design. Deployments serving many distinct large bodies
should size the TTL down or inject a shared cache via WithCache.
*/
package compress
