package badger

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/poiesic/stickerdex/core"
	"github.com/poiesic/stickerdex/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecord(content, packId string) *core.StickerRecord {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &core.StickerRecord{
		Id:        core.IDFromContent(content),
		PackId:    packId,
		PackTitle: "Test Pack",
		Emoji:     []string{"😀"},
		Caption:   "caption for " + content,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestOpenStore_OnDisk(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "sticker_db")
	store, err := OpenStore(dir, false)
	require.NoError(t, err)

	ctx := context.Background()
	record := testRecord("persist-me", "pack1")
	err = store.Update(ctx, func(tx storage.Tx) error {
		return tx.PutRecord(record)
	})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Committed data must survive reopening.
	store, err = OpenStore(dir, false)
	require.NoError(t, err)
	defer store.Close()

	got, err := store.GetRecord(ctx, record.Id)
	require.NoError(t, err)
	assert.Equal(t, record.Caption, got.Caption)
}

func TestStore_RecordCRUD(t *testing.T) {
	store, err := NewMemoryStore()
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	record := testRecord("crud", "pack1")

	t.Run("get missing record", func(t *testing.T) {
		_, err := store.GetRecord(ctx, record.Id)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("put and get", func(t *testing.T) {
		err := store.Update(ctx, func(tx storage.Tx) error {
			return tx.PutRecord(record)
		})
		require.NoError(t, err)

		got, err := store.GetRecord(ctx, record.Id)
		require.NoError(t, err)
		assert.Equal(t, record.Id, got.Id)
		assert.Equal(t, record.PackId, got.PackId)
		assert.Equal(t, record.Emoji, got.Emoji)
	})

	t.Run("delete", func(t *testing.T) {
		err := store.Update(ctx, func(tx storage.Tx) error {
			return tx.DeleteRecord(record.Id)
		})
		require.NoError(t, err)

		_, err = store.GetRecord(ctx, record.Id)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("delete missing record is not an error", func(t *testing.T) {
		err := store.Update(ctx, func(tx storage.Tx) error {
			return tx.DeleteRecord(core.ID(999999))
		})
		assert.NoError(t, err)
	})
}

func TestStore_Postings(t *testing.T) {
	store, err := NewMemoryStore()
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()

	t.Run("missing term yields empty list", func(t *testing.T) {
		list, err := store.GetPostings(ctx, "nothing")
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("put and get", func(t *testing.T) {
		list := core.PostingList{
			{RecordId: 1, Weight: 1.0},
			{RecordId: 2, Weight: 3.0},
		}
		err := store.Update(ctx, func(tx storage.Tx) error {
			return tx.PutPostings("cat", list)
		})
		require.NoError(t, err)

		got, err := store.GetPostings(ctx, "cat")
		require.NoError(t, err)
		assert.Equal(t, list, got)
	})

	t.Run("emoji terms work as keys", func(t *testing.T) {
		list := core.PostingList{{RecordId: 7, Weight: 2.0}}
		err := store.Update(ctx, func(tx storage.Tx) error {
			return tx.PutPostings("😀", list)
		})
		require.NoError(t, err)

		got, err := store.GetPostings(ctx, "😀")
		require.NoError(t, err)
		assert.Equal(t, list, got)
	})

	t.Run("putting an empty list deletes the term", func(t *testing.T) {
		err := store.Update(ctx, func(tx storage.Tx) error {
			return tx.PutPostings("cat", core.PostingList{})
		})
		require.NoError(t, err)

		got, err := store.GetPostings(ctx, "cat")
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestStore_PackMembers(t *testing.T) {
	store, err := NewMemoryStore()
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()

	err = store.Update(ctx, func(tx storage.Tx) error {
		// Insert out of order; iteration must come back ascending.
		for _, id := range []core.ID{300, 100, 200} {
			if err := tx.AddPackMember("cats", id); err != nil {
				return err
			}
		}
		// A pack whose id shares a prefix must not bleed into the scan.
		return tx.AddPackMember("cats_extra", core.ID(400))
	})
	require.NoError(t, err)

	err = store.View(ctx, func(tx storage.Tx) error {
		ids, err := tx.PackMembers("cats")
		require.NoError(t, err)
		assert.Equal(t, []core.ID{100, 200, 300}, ids)

		ids, err = tx.PackMembers("unknown")
		require.NoError(t, err)
		assert.Empty(t, ids)
		return nil
	})
	require.NoError(t, err)

	err = store.Update(ctx, func(tx storage.Tx) error {
		return tx.DeletePackMember("cats", core.ID(200))
	})
	require.NoError(t, err)

	err = store.View(ctx, func(tx storage.Tx) error {
		ids, err := tx.PackMembers("cats")
		require.NoError(t, err)
		assert.Equal(t, []core.ID{100, 300}, ids)
		return nil
	})
	require.NoError(t, err)
}

func TestStore_Iteration(t *testing.T) {
	store, err := NewMemoryStore()
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	records := []*core.StickerRecord{
		testRecord("iter1", "pack1"),
		testRecord("iter2", "pack1"),
		testRecord("iter3", "pack2"),
	}

	err = store.Update(ctx, func(tx storage.Tx) error {
		for _, r := range records {
			if err := tx.PutRecord(r); err != nil {
				return err
			}
		}
		if err := tx.PutPostings("cat", core.PostingList{{RecordId: 1, Weight: 1.0}}); err != nil {
			return err
		}
		return tx.PutPostings("dog", core.PostingList{{RecordId: 2, Weight: 1.0}})
	})
	require.NoError(t, err)

	err = store.View(ctx, func(tx storage.Tx) error {
		seen := make(map[core.ID]bool)
		err := tx.IterRecords(func(record *core.StickerRecord) error {
			seen[record.Id] = true
			return nil
		})
		require.NoError(t, err)
		assert.Len(t, seen, len(records))
		for _, r := range records {
			assert.True(t, seen[r.Id], "record %d not seen", r.Id)
		}

		terms := make(map[string]int)
		err = tx.IterTerms(func(term string, list core.PostingList) error {
			terms[term] = len(list)
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, map[string]int{"cat": 1, "dog": 1}, terms)
		return nil
	})
	require.NoError(t, err)
}

func TestStore_UpdateRollback(t *testing.T) {
	store, err := NewMemoryStore()
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	record := testRecord("rollback", "pack1")
	boom := errors.New("boom")

	err = store.Update(ctx, func(tx storage.Tx) error {
		if err := tx.PutRecord(record); err != nil {
			return err
		}
		if err := tx.PutPostings("cat", core.PostingList{{RecordId: record.Id, Weight: 1.0}}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	// Neither write may be visible.
	_, err = store.GetRecord(ctx, record.Id)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	list, err := store.GetPostings(ctx, "cat")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestStore_ContextCancellation(t *testing.T) {
	store, err := NewMemoryStore()
	require.NoError(t, err)
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = store.View(ctx, func(tx storage.Tx) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStore_ClosedStore(t *testing.T) {
	store, err := NewMemoryStore()
	require.NoError(t, err)
	require.NoError(t, store.Close())

	err = store.Update(context.Background(), func(tx storage.Tx) error { return nil })
	assert.Error(t, err)
}
