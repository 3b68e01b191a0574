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
	"net/http"
	"strings"
)

// varyAcceptEncoding is the token a compressed response must carry in Vary
// so intermediaries key their caches on the request's Accept-Encoding.
const varyAcceptEncoding = "accept-encoding"

// mergeVary appends token to the response's Vary header. An absent header
// is set to the token; a header containing the "*" wildcard anywhere is
// left byte-for-byte untouched (it already covers all request headers).
// Otherwise existing tokens keep their case and relative order, comparison
// is case-insensitive, and the new token is appended once at the end,
// re-joined with ", ".
func mergeVary(h http.Header, token string) {
	existing := h.Get("Vary")
	if existing == "" {
		h.Set("Vary", token)
		return
	}

	parts := strings.Split(existing, ",")
	tokens := make([]string, 0, len(parts)+1)
	found := false

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if part == "*" {
			return
		}

		if strings.EqualFold(part, token) {
			found = true
		}

		tokens = append(tokens, part)
	}

	if !found {
		tokens = append(tokens, token)
	}

	h.Set("Vary", strings.Join(tokens, ", "))
}
