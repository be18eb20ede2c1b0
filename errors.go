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


package bioscout

import "errors"

var (
	// ErrManagerRequired is returned when creating a service without a
	// corpus manager.
	ErrManagerRequired = errors.New("corpus manager is required")

	// ErrProviderRequired is returned when creating a service without an AI
	// provider.
	ErrProviderRequired = errors.New("AI provider is required")

	// ErrArtifactStoreRequired is returned when creating a service without
	// an artifact store.
	ErrArtifactStoreRequired = errors.New("artifact store is required")
)
