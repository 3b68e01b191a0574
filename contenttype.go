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
	"regexp"
	"strings"
)

// compressibleSubtypeRE matches MIME strings whose subtype or suffix marks
// textual content: "+json", "/json", "+text", "/text", "+xml", "/xml", or
// an octet-stream anywhere. Unanchored, so parameters like "; charset=utf-8"
// do not defeat the match.
var compressibleSubtypeRE = regexp.MustCompile(`(?i)(?:\+|/)(?:json|text|xml)|octet-stream`)

// IsCompressible is the default compressible-content classifier: text/*
// (excluding text/event-stream), JSON, XML, textual suffixes, and
// octet-stream. An absent Content-Type is assumed text/plain and therefore
// compressible. Image, video, and other binary types are excluded.
func IsCompressible(contentType string) bool {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if ct == "" {
		return true
	}

	if strings.HasPrefix(ct, "text/") && !strings.HasPrefix(ct, "text/event-stream") {
		return true
	}

	return compressibleSubtypeRE.MatchString(ct)
}
