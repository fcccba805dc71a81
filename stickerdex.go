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


// Package stickerdex maintains a persistent, searchable index of sticker
// metadata: emoji tags, captions, and pack titles, queried by keyword with
// ranked results.
package stickerdex

import (
	"log/slog"

	"github.com/poiesic/stickerdex/index"
	"github.com/poiesic/stickerdex/ingestion"
	"github.com/poiesic/stickerdex/search"
	"github.com/poiesic/stickerdex/storage"
	"github.com/poiesic/stickerdex/storage/badger"
)

// Database is the process-wide handle to one sticker index: the open store
// plus the indexer bound to it. There is no ambient singleton; everything
// that touches the index goes through a Database.
type Database struct {
	store   storage.Store
	indexer *index.Indexer
	scoring search.ScoringConfig
	logger  *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	scoring  search.ScoringConfig
	inMemory bool
}

// WithScoringConfig sets the ranking policy. The field-weight slice of the
// policy is shared with the indexer, so postings and query scoring agree.
func WithScoringConfig(cfg search.ScoringConfig) DatabaseOption {
	return func(o *databaseOptions) {
		o.scoring = cfg
	}
}

// WithInMemory opens a non-durable, memory-only store. Used by tests.
func WithInMemory() DatabaseOption {
	return func(o *databaseOptions) {
		o.inMemory = true
	}
}

// Open opens (or creates) the sticker database at filePath.
func Open(filePath string, opts ...DatabaseOption) (*Database, error) {
	options := &databaseOptions{
		scoring: search.DefaultScoringConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	store, err := badger.OpenStore(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	indexer, err := index.NewIndexer(store,
		index.WithFieldWeights(options.scoring.FieldWeights()))
	if err != nil {
		store.Close()
		return nil, err
	}

	return &Database{
		store:   store,
		indexer: indexer,
		scoring: options.scoring,
		logger:  slog.Default(),
	}, nil
}

// Close flushes and closes the underlying store.
func (db *Database) Close() error {
	if err := db.store.Close(); err != nil {
		db.logger.Error("error closing store", "err", err)
		return err
	}
	return nil
}

// Store returns the storage handle.
func (db *Database) Store() storage.Store {
	return db.store
}

// Indexer returns the indexer bound to this database.
func (db *Database) Indexer() *index.Indexer {
	return db.indexer
}

// NewSearcher creates a query engine over this database. The database's
// scoring policy applies unless overridden by an explicit option.
func (db *Database) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	opts = append([]search.Option{search.WithScoring(db.scoring)}, opts...)
	return search.NewSearcher(db.store, opts...)
}

// NewPipeline creates an ingestion pipeline feeding this database's indexer.
func (db *Database) NewPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(db.indexer, opts...)
}
