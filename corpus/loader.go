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


package corpus

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/poiesic/bioscout/core"
)

// LoadRecords parses the corpus records file: a JSON array of objects, each
// carrying a "type" discriminator and a "combined_text" field. This is the
// ingestion boundary where unknown kinds surface; past it every record is
// one of the closed union's variants.
func LoadRecords(path string) ([]core.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("corpus: reading records file: %w", err)
	}

	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("corpus: parsing records file: %w", err)
	}

	records := make([]core.Record, len(raw))
	for i, obj := range raw {
		rec, err := decodeRecord(obj)
		if err != nil {
			return nil, fmt.Errorf("corpus: record %d: %w", i, err)
		}
		records[i] = rec
	}
	return records, nil
}

func decodeRecord(obj map[string]any) (core.Record, error) {
	discriminator, _ := obj["type"].(string)
	kind, err := core.ParseKind(discriminator)
	if err != nil {
		return nil, err
	}

	text, _ := obj["combined_text"].(string)
	if text == "" {
		return nil, core.ErrEmptyText
	}

	switch kind {
	case core.KindCompany:
		name, _ := obj["company"].(string)
		return &core.Company{Name: name, Text: text}, nil
	case core.KindDeal:
		acquirer, _ := obj["acquirer"].(string)
		acquired, _ := obj["acquired"].(string)
		return &core.Deal{Acquirer: acquirer, Acquired: acquired, Text: text}, nil
	case core.KindTrial:
		return &core.Trial{Text: text, Fields: passFields(obj)}, nil
	case core.KindAward:
		return &core.Award{Text: text, Fields: passFields(obj)}, nil
	default:
		return &core.Asset{Text: text, Fields: passFields(obj)}, nil
	}
}

// passFields keeps the ingested columns of a pass-through record, dropping
// the bookkeeping fields ("type" and "combined_text") that exist only for
// dispatch and indexing.
func passFields(obj map[string]any) map[string]string {
	fields := make(map[string]string, len(obj))
	for key, value := range obj {
		if key == "type" || key == "combined_text" {
			continue
		}
		fields[key] = stringify(value)
	}
	return fields
}

func stringify(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case nil:
		return ""
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(data)
	}
}
