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


package enrich

import (
	"encoding/json"
	"fmt"
	"strings"
)

// extractObject pulls the outermost JSON object out of a model response,
// tolerating markdown code fences and surrounding prose.
func extractObject(text string) (string, error) {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return "", ErrNoJSONObject
	}
	return text[start : end+1], nil
}

// parseFields extracts the object from a model response and maps it onto the
// kind's field schema. Schema keys the model omitted, or set to JSON null,
// come back as nil values. Non-string values are stringified.
func parseFields(response string, keys []string) (map[string]*string, error) {
	objText, err := extractObject(response)
	if err != nil {
		return nil, err
	}
	objText = repairJSON(objText)

	var raw map[string]any
	if err := json.Unmarshal([]byte(objText), &raw); err != nil {
		return nil, fmt.Errorf("parsing enrichment response: %w", err)
	}

	fields := make(map[string]*string, len(keys))
	for _, key := range keys {
		value, ok := raw[key]
		if !ok || value == nil {
			fields[key] = nil
			continue
		}
		var s string
		switch v := value.(type) {
		case string:
			s = v
		default:
			s = fmt.Sprint(v)
		}
		fields[key] = &s
	}
	return fields, nil
}

// repairJSON attempts to fix common JSON formatting issues from LLM
// responses. It specifically handles missing opening quotes before keys in
// JSON objects, e.g. `, Deal Type":` becomes `, "Deal Type":`.
func repairJSON(s string) string {
	result := []rune(s)
	fixed := make([]rune, 0, len(result)+100)

	i := 0
	for i < len(result) {
		ch := result[i]

		// After { or , look for unquoted keys
		if ch == '{' || ch == ',' {
			fixed = append(fixed, ch)
			i++

			for i < len(result) && (result[i] == ' ' || result[i] == '\n' || result[i] == '\t') {
				fixed = append(fixed, result[i])
				i++
			}

			// Unquoted keys start with a letter instead of a quote
			if i < len(result) && result[i] != '"' && isLetter(result[i]) {
				keyStart := i
				for i < len(result) && (isLetter(result[i]) || result[i] == '_' || result[i] == ' ' || result[i] == '/') {
					i++
				}
				keyEnd := i

				// A bare closing quote before ':' marks the missing opener
				if i+1 < len(result) && result[i] == '"' && result[i+1] == ':' {
					fixed = append(fixed, '"')
					for j := keyStart; j < keyEnd; j++ {
						if result[j] != ' ' || (j > keyStart && j < keyEnd-1) {
							fixed = append(fixed, result[j])
						}
					}
					continue
				}

				// Not an unquoted key, copy what we skipped
				for j := keyStart; j < i; j++ {
					fixed = append(fixed, result[j])
				}
			}
		} else {
			fixed = append(fixed, ch)
			i++
		}
	}

	return string(fixed)
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
