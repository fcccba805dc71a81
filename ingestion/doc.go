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


// Package ingestion is the boundary through which upstream sticker packs
// and metadata reach the indexer.
//
// The pipeline accepts batches of StickerUpdate tuples, rejects malformed
// ones (a missing sticker id can never index) before any indexing starts,
// and fans the rest out over a worker pool. Each record indexes in its own
// transaction: a batch may apply partially across distinct records, but a
// single record's mutation is always atomic. Write conflicts are retried
// immediately a bounded number of times, per the store's optimistic
// concurrency model.
//
// Selection feedback (a user picked a result) arrives through
// RecordSelection and is applied asynchronously; feedback failures are
// logged, not surfaced, since losing one popularity bump is harmless.
package ingestion
