package badger

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/stickerdex/core"
	"github.com/poiesic/stickerdex/storage"
)

// Store implements storage.Store on top of BadgerDB. Crash safety is
// delegated to Badger's write-ahead value log: a transaction is either
// committed fully or not at all, surviving process restart.
type Store struct {
	backend *backend
}

var _ storage.Store = (*Store)(nil)

// OpenStore opens (or creates) a sticker store at the given path. With
// inMemory set, the store lives in memory only, which is what the tests use.
func OpenStore(filePath string, inMemory bool) (storage.Store, error) {
	b, err := openBackend(filePath, inMemory)
	if err != nil {
		return nil, err
	}
	return &Store{backend: b}, nil
}

// Close closes the underlying BadgerDB database.
func (s *Store) Close() error {
	return s.backend.close()
}

// IsClosed returns true if the database is closed.
func (s *Store) IsClosed() bool {
	return s.backend.isClosed()
}

// View executes fn within a read-only snapshot transaction.
func (s *Store) View(ctx context.Context, fn func(tx storage.Tx) error) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	return s.backend.withTx(func(btx *badger.Txn) error {
		return fn(&txn{btx: btx})
	}, false)
}

// Update executes fn within a read-write transaction and commits it if fn
// returns nil. The deferred discard inside withTx guarantees rollback on
// every other exit path.
func (s *Store) Update(ctx context.Context, fn func(tx storage.Tx) error) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	err := s.backend.withTx(func(btx *badger.Txn) error {
		if err := fn(&txn{btx: btx}); err != nil {
			return err
		}
		return btx.Commit()
	}, true)
	return mapBadgerErr(err)
}

// GetRecord retrieves a single sticker record by ID.
func (s *Store) GetRecord(ctx context.Context, id core.ID) (*core.StickerRecord, error) {
	var record *core.StickerRecord
	err := s.View(ctx, func(tx storage.Tx) error {
		var err error
		record, err = tx.GetRecord(id)
		return err
	})
	return record, err
}

// GetPostings retrieves the posting list for a term.
func (s *Store) GetPostings(ctx context.Context, term string) (core.PostingList, error) {
	var list core.PostingList
	err := s.View(ctx, func(tx storage.Tx) error {
		var err error
		list, err = tx.GetPostings(term)
		return err
	})
	return list, err
}

// txn implements storage.Tx over a badger transaction.
type txn struct {
	btx *badger.Txn
}

var _ storage.Tx = (*txn)(nil)

func (t *txn) GetRecord(id core.ID) (*core.StickerRecord, error) {
	item, err := t.btx.Get(makeRecordKey(id))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}

	var record *core.StickerRecord
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		record, unmarshalErr = storage.UnmarshalStickerRecord(val)
		return unmarshalErr
	})
	return record, err
}

func (t *txn) PutRecord(record *core.StickerRecord) error {
	return t.btx.Set(makeRecordKey(record.Id), storage.MarshalStickerRecord(record))
}

func (t *txn) DeleteRecord(id core.ID) error {
	return t.btx.Delete(makeRecordKey(id))
}

func (t *txn) GetPostings(term string) (core.PostingList, error) {
	item, err := t.btx.Get(makePostingKey(term))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var list core.PostingList
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		list, unmarshalErr = storage.UnmarshalPostingList(val)
		return unmarshalErr
	})
	return list, err
}

func (t *txn) PutPostings(term string, list core.PostingList) error {
	if len(list) == 0 {
		return t.DeletePostings(term)
	}
	return t.btx.Set(makePostingKey(term), storage.MarshalPostingList(list))
}

func (t *txn) DeletePostings(term string) error {
	return t.btx.Delete(makePostingKey(term))
}

func (t *txn) AddPackMember(packId string, id core.ID) error {
	return t.btx.Set(makePackKey(packId, id), nil)
}

func (t *txn) DeletePackMember(packId string, id core.ID) error {
	return t.btx.Delete(makePackKey(packId, id))
}

func (t *txn) PackMembers(packId string) ([]core.ID, error) {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = makePartialPackKey(packId)
	opts.PrefetchValues = false
	iter := t.btx.NewIterator(opts)
	defer iter.Close()

	var ids []core.ID
	for iter.Rewind(); iter.Valid(); iter.Next() {
		ids = append(ids, packKeyID(iter.Item().Key()))
	}
	return ids, nil
}

func (t *txn) IterRecords(fn func(record *core.StickerRecord) error) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(recordPrefix + ":")
	iter := t.btx.NewIterator(opts)
	defer iter.Close()

	for iter.Rewind(); iter.Valid(); iter.Next() {
		var record *core.StickerRecord
		err := iter.Item().Value(func(val []byte) error {
			var unmarshalErr error
			record, unmarshalErr = storage.UnmarshalStickerRecord(val)
			return unmarshalErr
		})
		if err != nil {
			return err
		}
		if err := fn(record); err != nil {
			return err
		}
	}
	return nil
}

func (t *txn) IterTerms(fn func(term string, list core.PostingList) error) error {
	prefix := postingPrefix + ":"
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(prefix)
	iter := t.btx.NewIterator(opts)
	defer iter.Close()

	for iter.Rewind(); iter.Valid(); iter.Next() {
		term := string(iter.Item().Key()[len(prefix):])
		var list core.PostingList
		err := iter.Item().Value(func(val []byte) error {
			var unmarshalErr error
			list, unmarshalErr = storage.UnmarshalPostingList(val)
			return unmarshalErr
		})
		if err != nil {
			return err
		}
		if err := fn(term, list); err != nil {
			return err
		}
	}
	return nil
}
