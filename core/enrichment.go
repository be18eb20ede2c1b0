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

// CompanyEnrichmentKeys is the fixed field schema the enrichment service is
// asked to fill for company records, in output column order.
var CompanyEnrichmentKeys = []string{
	"Company",
	"Asset",
	"Asset Target",
	"Asset Type",
	"Modality",
	"Disease",
	"Global Highest Phase",
	"Indication",
	"Mechanism/Technology",
}

// DealEnrichmentKeys is the fixed field schema for deal records, in output
// column order.
var DealEnrichmentKeys = []string{
	"Acquirer",
	"Target Company",
	"Deal Type",
	"Deal Value",
	"Payment Structure",
	"Financial Advisors",
	"Announcement Date",
	"Deal Terms",
	"Strategic Rationale",
	"Additional Details",
}

// EnrichmentKeys returns the enrichment field schema for a kind, or nil for
// pass-through kinds.
func EnrichmentKeys(k Kind) []string {
	switch k {
	case KindCompany:
		return CompanyEnrichmentKeys
	case KindDeal:
		return DealEnrichmentKeys
	default:
		return nil
	}
}

// EnrichedRecord is a record plus its enrichment field values, keyed by the
// kind's schema. A nil value means the service could not determine the field.
// Every enrichment-eligible record yields exactly one EnrichedRecord: fully
// populated, partially populated, or degraded (all values nil except the
// identifying fields).
type EnrichedRecord struct {
	Record Record
	Fields map[string]*string
}

// NewDegradedEnrichment builds the all-null fallback for a record whose
// enrichment attempts were exhausted. Identifying fields from the record
// itself are preserved; everything else is nil.
func NewDegradedEnrichment(r Record) *EnrichedRecord {
	fields := make(map[string]*string, len(EnrichmentKeys(r.Kind())))
	for _, key := range EnrichmentKeys(r.Kind()) {
		fields[key] = nil
	}
	switch rec := r.(type) {
	case *Company:
		name := rec.Name
		fields["Company"] = &name
	case *Deal:
		acquirer := rec.Acquirer
		acquired := rec.Acquired
		fields["Acquirer"] = &acquirer
		fields["Target Company"] = &acquired
	}
	return &EnrichedRecord{Record: r, Fields: fields}
}
