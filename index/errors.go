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


package index

import (
	"errors"

	"github.com/poiesic/stickerdex/core"
	"github.com/poiesic/stickerdex/storage"
)

var (
	// ErrStoreRequired is returned when a store is not provided.
	ErrStoreRequired = errors.New("store required")

	// ErrInvalidWeights is returned for a field weighting that is negative
	// or breaks the caption <= emoji <= pack-title ordering.
	ErrInvalidWeights = errors.New("invalid field weights")
)

// The operational error taxonomy is shared with the storage layer, so a
// single errors.Is check works no matter which layer produced the failure.
var (
	// ErrStoreUnavailable indicates an I/O or commit failure; the attempted
	// mutation rolled back entirely. Retryable with backoff.
	ErrStoreUnavailable = storage.ErrUnavailable

	// ErrConflict indicates concurrent-write contention on the same record;
	// the attempted mutation rolled back entirely. Retryable immediately.
	ErrConflict = storage.ErrConflict

	// ErrInvalidRecord indicates input that can never index successfully;
	// the caller must fix the record. Not retryable.
	ErrInvalidRecord = core.ErrInvalidRecord

	// ErrNotFound indicates the record to remove or update doesn't exist.
	ErrNotFound = storage.ErrNotFound
)
