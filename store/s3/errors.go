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


package s3

import "errors"

var (
	// ErrBucketRequired is returned when no bucket name is configured.
	ErrBucketRequired = errors.New("bucket name is required")

	// ErrClientRequired is returned when no S3 client is provided.
	ErrClientRequired = errors.New("s3 client is required")
)
