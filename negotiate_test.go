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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNegotiate(t *testing.T) {
	t.Parallel()

	defaults := []string{"br", "gzip", "deflate"}

	tests := []struct {
		name           string
		acceptEncoding string
		configured     []string
		want           string
	}{
		{"empty header", "", defaults, ""},
		{"exact single token", "gzip", defaults, "gzip"},
		{"configured priority beats client order", "deflate, gzip, br", defaults, "br"},
		{"first configured match wins", "gzip, deflate", defaults, "gzip"},
		{"case insensitive tokens", "GZip", defaults, "gzip"},
		{"whitespace tolerated", "  gzip ,  br ", defaults, "br"},
		{"wildcard alone matches nothing", "*", defaults, ""},
		{"wildcard among tokens ignored", "*, gzip", defaults, "gzip"},
		{"q-values defeat literal match", "gzip;q=1.0", defaults, ""},
		{"unknown tokens only", "snappy, lz4", defaults, ""},
		{"custom priority", "br, gzip", []string{"gzip", "br"}, "gzip"},
		{"identity is not configured", "identity", defaults, ""},
		{"empty tokens skipped", ",,gzip,", defaults, "gzip"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, negotiate(tt.acceptEncoding, tt.configured))
		})
	}
}
