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
	"fmt"
	"sort"

	"github.com/poiesic/bioscout/core"
)

// Index is the immutable, process-wide view of the corpus: the ordered
// record sequence (position = row id), the kind partition over rows, and the
// memory-mapped embedding matrix. It is built once and shared read-only by
// all concurrent jobs.
type Index struct {
	records []core.Record
	byKind  map[core.Kind][]int
	matrix  *Matrix
}

// NewIndex builds an index over records and their embedding matrix.
// The matrix must have exactly one row per record.
func NewIndex(records []core.Record, matrix *Matrix) (*Index, error) {
	if matrix.Rows() != len(records) {
		return nil, fmt.Errorf("%w: %d rows, %d records", ErrRowCountMismatch, matrix.Rows(), len(records))
	}

	byKind := make(map[core.Kind][]int)
	for row, rec := range records {
		byKind[rec.Kind()] = append(byKind[rec.Kind()], row)
	}

	return &Index{
		records: records,
		byKind:  byKind,
		matrix:  matrix,
	}, nil
}

// Len returns the number of records.
func (ix *Index) Len() int { return len(ix.records) }

// Record returns the record at row.
func (ix *Index) Record(row int) core.Record { return ix.records[row] }

// RowsFor returns the row ids of all records whose kind is in kinds, in
// ascending row order. Duplicate kinds are ignored. An empty result is a
// valid outcome, not an error.
func (ix *Index) RowsFor(kinds []core.Kind) []int {
	seen := make(map[core.Kind]bool, len(kinds))
	var rows []int
	for _, kind := range kinds {
		if seen[kind] {
			continue
		}
		seen[kind] = true
		rows = append(rows, ix.byKind[kind]...)
	}
	sort.Ints(rows)
	return rows
}

// Dot computes the dot product of the embedding at row and vec.
func (ix *Index) Dot(row int, vec []float32) (float64, error) {
	return ix.matrix.Dot(row, vec)
}

// Dims returns the embedding dimension.
func (ix *Index) Dims() int { return ix.matrix.Cols() }

// Close releases the memory mapping.
func (ix *Index) Close() error {
	return ix.matrix.Close()
}
