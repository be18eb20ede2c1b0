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
	"bytes"
	"fmt"

	"github.com/poiesic/bioscout/core"
	"github.com/xuri/excelize/v2"
)

// ContentType is the MIME type of the assembled artifact.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// maxSheetNameLen is the xlsx format's sheet name limit.
const maxSheetNameLen = 31

// sheetLabels maps each kind to its workbook sheet name.
var sheetLabels = map[core.Kind]string{
	core.KindCompany: "Companies",
	core.KindDeal:    "Deals",
	core.KindTrial:   "Trials",
	core.KindAward:   "Awards",
	core.KindAsset:   "Assets",
}

// SheetLabel returns the workbook sheet name for a kind, truncated to the
// xlsx limit.
func SheetLabel(k core.Kind) string {
	label, ok := sheetLabels[k]
	if !ok {
		label = k.String()
	}
	if len(label) > maxSheetNameLen {
		label = label[:maxSheetNameLen]
	}
	return label
}

// BuildWorkbook assembles the result artifact: one sheet per requested kind,
// in canonical kind order, each holding that kind's records under its column
// schema. Kinds with no records still get a sheet so the artifact's shape
// reflects the request. Returns the workbook as xlsx bytes.
func BuildWorkbook(kinds []core.Kind, enriched map[core.Kind][]*core.EnrichedRecord) ([]byte, error) {
	ordered := canonicalOrder(kinds)
	if len(ordered) == 0 {
		return nil, ErrNoKinds
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, kind := range ordered {
		label := SheetLabel(kind)
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), label); err != nil {
				return nil, fmt.Errorf("naming sheet %q: %w", label, err)
			}
		} else {
			if _, err := f.NewSheet(label); err != nil {
				return nil, fmt.Errorf("adding sheet %q: %w", label, err)
			}
		}

		records := enriched[kind]
		columns := kindColumns(kind, records)
		if err := writeSheet(f, label, columns, records); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// canonicalOrder filters AllKinds down to the requested set, deduplicating
// and fixing sheet order regardless of request order.
func canonicalOrder(kinds []core.Kind) []core.Kind {
	requested := make(map[core.Kind]bool, len(kinds))
	for _, k := range kinds {
		requested[k] = true
	}
	var ordered []core.Kind
	for _, k := range core.AllKinds {
		if requested[k] {
			ordered = append(ordered, k)
		}
	}
	return ordered
}

// kindColumns returns the column schema for a kind. Company and deal sheets
// use their fixed enrichment schemas; pass-through sheets use the union of
// field names across the records, in the order they first appear.
func kindColumns(kind core.Kind, records []*core.EnrichedRecord) []string {
	if schema := core.EnrichmentKeys(kind); schema != nil {
		return schema
	}

	seen := make(map[string]bool)
	var columns []string
	for _, rec := range records {
		for _, key := range core.PassFieldOrder(rec.Record) {
			if !seen[key] {
				seen[key] = true
				columns = append(columns, key)
			}
		}
	}
	return columns
}

func writeSheet(f *excelize.File, sheet string, columns []string, records []*core.EnrichedRecord) error {
	if len(columns) == 0 {
		return nil
	}

	header := make([]any, len(columns))
	for i, col := range columns {
		header[i] = col
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("writing header on %q: %w", sheet, err)
	}

	for rowIdx, rec := range records {
		row := make([]any, len(columns))
		for i, col := range columns {
			if value := rec.Fields[col]; value != nil {
				row[i] = *value
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, rowIdx+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing row %d on %q: %w", rowIdx+2, sheet, err)
		}
	}
	return nil
}
