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


// Package search implements hybrid retrieval over the corpus index.
//
// The Searcher type implements a two-stage ranking algorithm that combines:
//   - Semantic similarity between the query embedding and record embeddings
//   - BM25-style lexical scoring over the semantic head
//
// Both signals are min-max normalized and blended with a configurable
// weight. A cross-encoder rerank stage rescores the highest-confidence head
// of the combined ranking, and a per-kind selector applies caps and score
// floors to produce the final candidate set.
package search
