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

import "strings"

// negotiate selects an encoding from the configured priority-ordered list
// given the client's raw Accept-Encoding header. The header is treated as a
// comma-separated token list; tokens are trimmed and lowercased but matched
// literally, with no q-value parsing and no wildcard semantics (a client
// sending only "*" gets no compression). The result is the first configured
// encoding the client accepts, or "" when there is none.
func negotiate(acceptEncoding string, configured []string) string {
	if acceptEncoding == "" {
		return ""
	}

	accepted := make(map[string]bool, 4)
	for _, token := range strings.Split(acceptEncoding, ",") {
		token = strings.ToLower(strings.TrimSpace(token))
		if token != "" {
			accepted[token] = true
		}
	}

	// Configured order wins, not the client's listing order.
	for _, name := range configured {
		if accepted[name] {
			return name
		}
	}

	return ""
}
