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

import (
	"fmt"
	"strings"
	"time"
)

// ValidateStickerRecord validates a StickerRecord according to domain rules.
//
// Validation rules:
//   - Id must be non-zero
//   - PackId must not be empty and must not contain the NUL separator byte,
//     which the store reserves for composite index keys
//   - CreatedAt must not be in the future
//
// NOT validated:
//   - Caption and Emoji (both may legitimately be empty)
//   - Popularity (any value is valid; the Indexer only ever increments it)
func ValidateStickerRecord(record *StickerRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidRecord)
	}

	if record.Id == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrMissingID)
	}

	if record.PackId == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrMissingPackID)
	}

	if strings.ContainsRune(record.PackId, 0) {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrInvalidPackID)
	}

	if !IsValidTimestamp(record.CreatedAt) {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrInvalidTimestamp)
	}

	return nil
}

// IsValidTimestamp checks if a timestamp is valid (not in the future).
func IsValidTimestamp(ts time.Time) bool {
	return !ts.After(time.Now())
}
