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


package core

import "sort"

// Record is the closed union of corpus record variants. Exactly five types
// implement it: Company, Deal, Trial, Award, and Asset. Records are immutable
// once loaded into the corpus index.
type Record interface {
	// Kind returns the variant discriminator.
	Kind() Kind

	// CombinedText returns the canonical text used for both lexical and
	// semantic indexing.
	CombinedText() string

	record()
}

// Company is a biopharmaceutical company record.
type Company struct {
	Name string
	Text string
}

func (c *Company) Kind() Kind           { return KindCompany }
func (c *Company) CombinedText() string { return c.Text }
func (c *Company) record()              {}

// Deal is an acquisition or licensing deal record.
type Deal struct {
	Acquirer string
	Acquired string
	Text     string
}

func (d *Deal) Kind() Kind           { return KindDeal }
func (d *Deal) CombinedText() string { return d.Text }
func (d *Deal) record()              {}

// Trial is a clinical trial record. Fields holds the ingested columns minus
// bookkeeping (the kind discriminator and the combined text), preserved for
// pass-through output.
type Trial struct {
	Text   string
	Fields map[string]string
}

func (t *Trial) Kind() Kind           { return KindTrial }
func (t *Trial) CombinedText() string { return t.Text }
func (t *Trial) record()              {}

// Award is a grant or award record.
type Award struct {
	Text   string
	Fields map[string]string
}

func (a *Award) Kind() Kind           { return KindAward }
func (a *Award) CombinedText() string { return a.Text }
func (a *Award) record()              {}

// Asset is a therapeutic asset record.
type Asset struct {
	Text   string
	Fields map[string]string
}

func (a *Asset) Kind() Kind           { return KindAsset }
func (a *Asset) CombinedText() string { return a.Text }
func (a *Asset) record()              {}

// PassFields returns the pass-through field map for trial, award, and asset
// records, or nil for kinds that require enrichment.
func PassFields(r Record) map[string]string {
	switch rec := r.(type) {
	case *Trial:
		return rec.Fields
	case *Award:
		return rec.Fields
	case *Asset:
		return rec.Fields
	default:
		return nil
	}
}

// PassFieldOrder returns the pass-through field names in deterministic
// (sorted) order. Ingestion decodes fields from JSON objects, so no source
// order survives to preserve.
func PassFieldOrder(r Record) []string {
	fields := PassFields(r)
	if len(fields) == 0 {
		return nil
	}
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Candidate pairs a corpus record with a retrieval score. Scores live in a
// stage-local space; candidates from different pipeline stages must not be
// compared without renormalization.
type Candidate struct {
	// Row is the record's row id in the corpus index.
	Row int

	// Record is a reference into the shared corpus index.
	Record Record

	// Score is the candidate's score in the producing stage's space.
	Score float64

	// Reranked is true when Score came from the cross-encoder. Tail
	// candidates past the rerank window keep their stage-1 score and
	// stage-1 order, and are marked false.
	Reranked bool
}
