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


package search

import "errors"

var (
	// ErrStoreRequired is returned when a store is not provided.
	ErrStoreRequired = errors.New("store required")

	// ErrInvalidScoring is returned for a scoring configuration that fails
	// validation.
	ErrInvalidScoring = errors.New("invalid scoring configuration")

	// ErrInvalidPage is returned for a negative limit or offset.
	ErrInvalidPage = errors.New("invalid limit or offset")

	// ErrTimeout is returned when the caller-supplied deadline expires
	// before ranking completes. Queries are read-only, so the abandoned
	// search had no side effects and is always safe to retry.
	ErrTimeout = errors.New("query timed out")
)
