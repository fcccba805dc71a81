package index

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/poiesic/stickerdex/core"
	"github.com/poiesic/stickerdex/storage"
)

// Indexer maintains the inverted index incrementally as sticker records are
// added, updated, or removed. Every operation performs its record mutation
// and all posting-list mutations in one transaction, so the index is always
// consistent with the record store: no dangling postings, no stale terms.
type Indexer struct {
	store   storage.Store
	weights FieldWeights
	logger  *slog.Logger
}

// Option configures an Indexer.
type Option func(*Indexer) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(i *Indexer) error {
		if logger == nil {
			logger = slog.Default()
		}
		i.logger = logger
		return nil
	}
}

// WithFieldWeights sets the field weighting policy baked into postings.
// Changing weights on an existing index requires Reindex.
func WithFieldWeights(weights FieldWeights) Option {
	return func(i *Indexer) error {
		if err := weights.Validate(); err != nil {
			return err
		}
		i.weights = weights
		return nil
	}
}

// NewIndexer creates a new Indexer on top of a store.
func NewIndexer(store storage.Store, opts ...Option) (*Indexer, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}

	i := &Indexer{
		store:   store,
		weights: DefaultFieldWeights(),
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(i); err != nil {
			return nil, err
		}
	}

	return i, nil
}

// FieldWeights returns the weighting policy the indexer writes into postings.
func (i *Indexer) FieldWeights() FieldWeights {
	return i.weights
}

// Ingest writes or updates a sticker record and keeps the inverted index in
// step. For an existing record only the symmetric difference of the old and
// new term sets touches posting lists; creation timestamp and popularity are
// preserved across metadata updates. On any failure the transaction rolls
// back entirely, so partial application is never observable.
func (i *Indexer) Ingest(ctx context.Context, record *core.StickerRecord) error {
	if err := core.ValidateStickerRecord(record); err != nil {
		return err
	}

	terms := termWeights(record, i.weights)
	now := time.Now().UTC()

	err := i.store.Update(ctx, func(tx storage.Tx) error {
		prev, err := tx.GetRecord(record.Id)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return err
		}

		if prev != nil {
			record.CreatedAt = prev.CreatedAt
			record.Popularity = prev.Popularity

			prevTerms := termWeights(prev, i.weights)
			for term := range prevTerms {
				if _, keep := terms[term]; !keep {
					if err := removePosting(tx, term, record.Id); err != nil {
						return err
					}
				}
			}
			for term, weight := range terms {
				if prevTerms[term] == weight {
					continue
				}
				if err := upsertPosting(tx, term, record.Id, weight); err != nil {
					return err
				}
			}

			if prev.PackId != record.PackId {
				if err := tx.DeletePackMember(prev.PackId, record.Id); err != nil {
					return err
				}
				if err := tx.AddPackMember(record.PackId, record.Id); err != nil {
					return err
				}
			}
		} else {
			if record.CreatedAt.IsZero() {
				record.CreatedAt = now
			}
			for term, weight := range terms {
				if err := upsertPosting(tx, term, record.Id, weight); err != nil {
					return err
				}
			}
			if err := tx.AddPackMember(record.PackId, record.Id); err != nil {
				return err
			}
		}

		record.UpdatedAt = now
		return tx.PutRecord(record)
	})
	if err != nil {
		i.logger.Error("ingest failed", "id", record.Id, "err", err)
	}
	return err
}

// Remove deletes a sticker record, removes its id from every term it was
// posted under, and drops posting lists that become empty, all in one
// transaction. Returns ErrNotFound if the record doesn't exist.
func (i *Indexer) Remove(ctx context.Context, id core.ID) error {
	return i.store.Update(ctx, func(tx storage.Tx) error {
		record, err := tx.GetRecord(id)
		if err != nil {
			return err
		}
		return i.removeInTx(tx, record)
	})
}

// RemovePack performs the administrative removal of a retracted pack: every
// member record and all of its postings go away in a single transaction.
// Removing an unknown pack is a no-op.
func (i *Indexer) RemovePack(ctx context.Context, packId string) error {
	return i.store.Update(ctx, func(tx storage.Tx) error {
		ids, err := tx.PackMembers(packId)
		if err != nil {
			return err
		}
		for _, id := range ids {
			record, err := tx.GetRecord(id)
			if err != nil {
				return err
			}
			if err := i.removeInTx(tx, record); err != nil {
				return err
			}
		}
		i.logger.Info("removed pack", "pack", packId, "stickers", len(ids))
		return nil
	})
}

// IncrementPopularity bumps a record's selection counter. Popularity is not
// a term source, so posting lists are untouched.
func (i *Indexer) IncrementPopularity(ctx context.Context, id core.ID) error {
	return i.store.Update(ctx, func(tx storage.Tx) error {
		record, err := tx.GetRecord(id)
		if err != nil {
			return err
		}
		record.Popularity++
		record.UpdatedAt = time.Now().UTC()
		return tx.PutRecord(record)
	})
}

// Reindex drops every posting list and rebuilds the inverted index from the
// record store. Used after a tokenizer or weighting change.
func (i *Indexer) Reindex(ctx context.Context) error {
	return i.store.Update(ctx, func(tx storage.Tx) error {
		// Collect first; mutating under an open iterator is unsafe.
		var stale []string
		err := tx.IterTerms(func(term string, _ core.PostingList) error {
			stale = append(stale, term)
			return nil
		})
		if err != nil {
			return err
		}
		for _, term := range stale {
			if err := tx.DeletePostings(term); err != nil {
				return err
			}
		}

		rebuilt := make(map[string]core.PostingList)
		err = tx.IterRecords(func(record *core.StickerRecord) error {
			for term, weight := range termWeights(record, i.weights) {
				rebuilt[term] = rebuilt[term].Upsert(core.Posting{
					RecordId: record.Id,
					Weight:   weight,
				})
			}
			return nil
		})
		if err != nil {
			return err
		}

		for term, list := range rebuilt {
			if err := tx.PutPostings(term, list); err != nil {
				return err
			}
		}
		i.logger.Info("reindexed", "terms", len(rebuilt))
		return nil
	})
}

// removeInTx deletes one record plus all of its postings and its pack index
// entry inside an already-open transaction.
func (i *Indexer) removeInTx(tx storage.Tx, record *core.StickerRecord) error {
	for term := range termWeights(record, i.weights) {
		if err := removePosting(tx, term, record.Id); err != nil {
			return err
		}
	}
	if err := tx.DeletePackMember(record.PackId, record.Id); err != nil {
		return err
	}
	return tx.DeleteRecord(record.Id)
}

// removePosting deletes one id from a term's posting list, dropping the list
// when it becomes empty.
func removePosting(tx storage.Tx, term string, id core.ID) error {
	list, err := tx.GetPostings(term)
	if err != nil {
		return err
	}
	list = list.Delete(id)
	if len(list) == 0 {
		return tx.DeletePostings(term)
	}
	return tx.PutPostings(term, list)
}

// upsertPosting inserts or refreshes one id in a term's posting list.
func upsertPosting(tx storage.Tx, term string, id core.ID, weight float64) error {
	list, err := tx.GetPostings(term)
	if err != nil {
		return err
	}
	list = list.Upsert(core.Posting{RecordId: id, Weight: weight})
	return tx.PutPostings(term, list)
}
