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

import "errors"

var (
	// ErrGeneratorRequired is returned when creating an orchestrator without
	// a text generator.
	ErrGeneratorRequired = errors.New("text generator is required")

	// ErrNoJSONObject is returned when a model response contains no JSON
	// object to extract.
	ErrNoJSONObject = errors.New("no JSON object found in response")
)
