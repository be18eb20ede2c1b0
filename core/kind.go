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

import "fmt"

// Kind identifies the variant of a corpus record.
type Kind int

const (
	// KindCompany represents a biopharmaceutical company record.
	KindCompany Kind = iota + 1
	// KindDeal represents an acquisition or licensing deal record.
	KindDeal
	// KindTrial represents a clinical trial record.
	KindTrial
	// KindAward represents a grant or award record.
	KindAward
	// KindAsset represents a therapeutic asset record.
	KindAsset
)

// AllKinds lists every kind in canonical output order.
var AllKinds = []Kind{KindCompany, KindDeal, KindTrial, KindAward, KindAsset}

// String returns the wire name of the kind, as used in the corpus record
// discriminator field.
func (k Kind) String() string {
	switch k {
	case KindCompany:
		return "company"
	case KindDeal:
		return "deal"
	case KindTrial:
		return "trial"
	case KindAward:
		return "award"
	case KindAsset:
		return "asset"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind converts a corpus discriminator string into a Kind.
// This is the only place an unknown kind can surface; past the ingestion
// boundary all dispatch is over the closed set of variants.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "company":
		return KindCompany, nil
	case "deal":
		return KindDeal, nil
	case "trial":
		return KindTrial, nil
	case "award":
		return KindAward, nil
	case "asset":
		return KindAsset, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// PassThrough reports whether records of this kind are emitted into results
// directly, without calling the enrichment service.
func (k Kind) PassThrough() bool {
	switch k {
	case KindTrial, KindAward, KindAsset:
		return true
	default:
		return false
	}
}
