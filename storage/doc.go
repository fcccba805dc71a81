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


// Package storage provides the storage abstraction layer for stickerdex.
//
// This package defines the Store and Tx interfaces that decouple the sticker
// index from its physical storage. The persisted state consists of two
// logical tables: Records (keyed by sticker id) and Postings (keyed by term,
// holding ordered (id, weight) pairs). All mutations that belong to one
// logical ingestion event happen inside a single transaction, so a concurrent
// reader never observes a record whose postings are partially updated.
//
// # Constructor Return Type Pattern
//
// Public constructors return the storage.Store interface to keep consumers
// decoupled from the BadgerDB implementation:
//
//	store, err := badger.OpenStore(path, false)  // returns storage.Store
//
// # Transactions
//
// Store.View and Store.Update run a function against a transaction-scoped Tx.
// The transaction is discarded on every exit path; Update commits only when
// the function returns nil. Update surfaces ErrConflict when the underlying
// store detects write contention, which callers may retry immediately, and
// ErrUnavailable for I/O failures, which callers may retry with backoff.
//
// # Thread Safety
//
// Store implementations must be safe for concurrent use. A Tx is only valid
// inside the View/Update callback that produced it and must not escape.
package storage
