// Copyright 2025 Poiesic Systems
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


package report

import (
	"strings"
	"unicode"
)

// keyPrefix namespaces artifact keys in the store.
const keyPrefix = "results/"

// maxQuerySlugLen caps the query-derived portion of the filename.
const maxQuerySlugLen = 40

// Filename derives the artifact's download filename from the job's query
// and id.
func Filename(query, jobID string) string {
	slug := sanitizeQuery(query)
	if slug == "" {
		slug = "results"
	}
	return slug + "_" + jobID + ".xlsx"
}

// Key derives the artifact store key for a job.
func Key(query, jobID string) string {
	return keyPrefix + Filename(query, jobID)
}

// sanitizeQuery reduces a free-text query to a filesystem- and URL-safe
// slug: lowercased, runs of non-alphanumerics collapsed to single
// underscores, capped in length. Only ASCII letters and digits survive,
// which keeps the byte-indexed cap below safe.
func sanitizeQuery(query string) string {
	var b strings.Builder
	lastUnderscore := true
	for _, r := range strings.ToLower(query) {
		if unicode.IsLetter(r) && r < unicode.MaxASCII || r >= '0' && r <= '9' {
			b.WriteRune(r)
			lastUnderscore = false
			continue
		}
		if !lastUnderscore {
			b.WriteByte('_')
			lastUnderscore = true
		}
		if b.Len() >= maxQuerySlugLen {
			break
		}
	}
	slug := b.String()
	if len(slug) > maxQuerySlugLen {
		slug = slug[:maxQuerySlugLen]
	}
	return strings.Trim(slug, "_")
}
