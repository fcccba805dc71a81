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

import "errors"

// Domain validation errors
var (
	// ErrInvalidRecord indicates a StickerRecord failed validation.
	ErrInvalidRecord = errors.New("invalid sticker record")

	// ErrMissingID indicates the record Id field is zero.
	ErrMissingID = errors.New("record id is required")

	// ErrMissingPackID indicates the PackId field is empty.
	ErrMissingPackID = errors.New("pack id is required")

	// ErrInvalidPackID indicates the PackId contains the reserved separator byte.
	ErrInvalidPackID = errors.New("pack id contains reserved byte")

	// ErrInvalidTimestamp indicates a timestamp is in the future.
	ErrInvalidTimestamp = errors.New("timestamp cannot be in the future")
)
