package index

import (
	"context"
	"testing"
	"time"

	"github.com/poiesic/stickerdex/core"
	"github.com/poiesic/stickerdex/storage"
	"github.com/poiesic/stickerdex/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIndexer(t *testing.T, opts ...Option) (*Indexer, storage.Store) {
	t.Helper()
	store, err := badger.NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	indexer, err := NewIndexer(store, opts...)
	require.NoError(t, err)
	return indexer, store
}

func newRecord(content string) *core.StickerRecord {
	return &core.StickerRecord{
		Id:        core.IDFromContent(content),
		PackId:    "happy_cats",
		PackTitle: "Happy Cats",
		Emoji:     []string{"😀"},
		Caption:   "happy cat",
		CreatedAt: time.Now().UTC().Add(-time.Hour).Truncate(time.Microsecond),
	}
}

// postingsFor snapshots every term whose posting list contains id.
func postingsFor(t *testing.T, store storage.Store, id core.ID) map[string]float64 {
	t.Helper()
	found := make(map[string]float64)
	err := store.View(context.Background(), func(tx storage.Tx) error {
		return tx.IterTerms(func(term string, list core.PostingList) error {
			if i, ok := list.Find(id); ok {
				found[term] = list[i].Weight
			}
			return nil
		})
	})
	require.NoError(t, err)
	return found
}

func TestNewIndexer(t *testing.T) {
	t.Run("nil store", func(t *testing.T) {
		_, err := NewIndexer(nil)
		assert.Equal(t, ErrStoreRequired, err)
	})

	t.Run("invalid weights", func(t *testing.T) {
		store, err := badger.NewMemoryStore()
		require.NoError(t, err)
		defer store.Close()

		// Emoji may not outweigh pack title.
		_, err = NewIndexer(store, WithFieldWeights(FieldWeights{
			Caption: 1.0, Emoji: 5.0, PackTitle: 3.0,
		}))
		assert.ErrorIs(t, err, ErrInvalidWeights)
	})
}

func TestIngest_CreatesPostings(t *testing.T) {
	indexer, store := newTestIndexer(t)
	ctx := context.Background()

	record := newRecord("cat-grin")
	require.NoError(t, indexer.Ingest(ctx, record))

	// "happy" appears in both caption (1.0) and pack title (3.0); a term in
	// several fields takes the combined weight.
	want := map[string]float64{
		"happy": 4.0,
		"cat":   1.0,
		"cats":  3.0,
		"😀":     2.0,
	}
	assert.Equal(t, want, postingsFor(t, store, record.Id))

	// The record itself landed, with lifecycle timestamps set.
	stored, err := store.GetRecord(ctx, record.Id)
	require.NoError(t, err)
	assert.Equal(t, record.PackId, stored.PackId)
	assert.False(t, stored.UpdatedAt.IsZero())

	// Pack membership is indexed too.
	err = store.View(ctx, func(tx storage.Tx) error {
		ids, err := tx.PackMembers("happy_cats")
		require.NoError(t, err)
		assert.Equal(t, []core.ID{record.Id}, ids)
		return nil
	})
	require.NoError(t, err)
}

func TestIngest_InvalidRecord(t *testing.T) {
	indexer, store := newTestIndexer(t)
	ctx := context.Background()

	record := newRecord("no-pack")
	record.PackId = ""
	err := indexer.Ingest(ctx, record)
	assert.ErrorIs(t, err, core.ErrInvalidRecord)

	// Nothing may have been written.
	assert.Empty(t, postingsFor(t, store, record.Id))
}

func TestIngest_Idempotent(t *testing.T) {
	indexer, store := newTestIndexer(t)
	ctx := context.Background()

	record := newRecord("cat-grin")
	require.NoError(t, indexer.Ingest(ctx, record))
	first := postingsFor(t, store, record.Id)

	again := newRecord("cat-grin")
	require.NoError(t, indexer.Ingest(ctx, again))

	assert.Equal(t, first, postingsFor(t, store, record.Id))

	// Still exactly one posting per term, not duplicates.
	list, err := store.GetPostings(ctx, "cat")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestIngest_UpdateReplacesTerms(t *testing.T) {
	indexer, store := newTestIndexer(t)
	ctx := context.Background()

	record := newRecord("cat-grin")
	require.NoError(t, indexer.Ingest(ctx, record))

	stored, err := store.GetRecord(ctx, record.Id)
	require.NoError(t, err)
	createdAt := stored.CreatedAt

	require.NoError(t, indexer.IncrementPopularity(ctx, record.Id))

	updated := newRecord("cat-grin")
	updated.Caption = "sleepy kitten"
	require.NoError(t, indexer.Ingest(ctx, updated))

	got := postingsFor(t, store, record.Id)
	assert.NotContains(t, got, "cat", "dropped caption term must be unindexed")
	assert.Contains(t, got, "sleepy")
	assert.Contains(t, got, "kitten")
	assert.Equal(t, 3.0, got["happy"], "happy now comes from the pack title only")
	assert.Equal(t, 2.0, got["😀"])

	// Creation time and popularity survive metadata updates.
	stored, err = store.GetRecord(ctx, record.Id)
	require.NoError(t, err)
	assert.True(t, createdAt.Equal(stored.CreatedAt))
	assert.Equal(t, uint64(1), stored.Popularity)
}

func TestIngest_PackChangeMovesMembership(t *testing.T) {
	indexer, store := newTestIndexer(t)
	ctx := context.Background()

	record := newRecord("cat-grin")
	require.NoError(t, indexer.Ingest(ctx, record))

	moved := newRecord("cat-grin")
	moved.PackId = "other_pack"
	require.NoError(t, indexer.Ingest(ctx, moved))

	err := store.View(ctx, func(tx storage.Tx) error {
		ids, err := tx.PackMembers("happy_cats")
		require.NoError(t, err)
		assert.Empty(t, ids)

		ids, err = tx.PackMembers("other_pack")
		require.NoError(t, err)
		assert.Equal(t, []core.ID{record.Id}, ids)
		return nil
	})
	require.NoError(t, err)
}

func TestRemove(t *testing.T) {
	indexer, store := newTestIndexer(t)
	ctx := context.Background()

	keeper := newRecord("keeper")
	keeper.Caption = "happy cat too"
	goner := newRecord("goner")
	require.NoError(t, indexer.Ingest(ctx, keeper))
	require.NoError(t, indexer.Ingest(ctx, goner))

	require.NoError(t, indexer.Remove(ctx, goner.Id))

	// Removal completeness: no posting list anywhere still holds the id.
	assert.Empty(t, postingsFor(t, store, goner.Id))
	_, err := store.GetRecord(ctx, goner.Id)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	// The sibling sharing terms is untouched.
	assert.NotEmpty(t, postingsFor(t, store, keeper.Id))

	err = store.View(ctx, func(tx storage.Tx) error {
		ids, err := tx.PackMembers("happy_cats")
		require.NoError(t, err)
		assert.Equal(t, []core.ID{keeper.Id}, ids)
		return nil
	})
	require.NoError(t, err)
}

func TestRemove_EmptyListsAreDropped(t *testing.T) {
	indexer, store := newTestIndexer(t)
	ctx := context.Background()

	record := newRecord("only-one")
	require.NoError(t, indexer.Ingest(ctx, record))
	require.NoError(t, indexer.Remove(ctx, record.Id))

	// The sole member is gone, so its terms must not linger as empty lists.
	err := store.View(ctx, func(tx storage.Tx) error {
		return tx.IterTerms(func(term string, list core.PostingList) error {
			t.Errorf("term %q survived with %d postings", term, len(list))
			return nil
		})
	})
	require.NoError(t, err)
}

func TestRemove_NotFound(t *testing.T) {
	indexer, _ := newTestIndexer(t)
	err := indexer.Remove(context.Background(), core.ID(12345))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemovePack(t *testing.T) {
	indexer, store := newTestIndexer(t)
	ctx := context.Background()

	cats := []*core.StickerRecord{newRecord("cat1"), newRecord("cat2")}
	dog := newRecord("dog1")
	dog.PackId = "sad_dogs"
	dog.PackTitle = "Sad Dogs"
	dog.Caption = "left out in the rain"
	dog.Emoji = []string{"😢"}

	for _, r := range append(cats, dog) {
		require.NoError(t, indexer.Ingest(ctx, r))
	}

	require.NoError(t, indexer.RemovePack(ctx, "happy_cats"))

	for _, r := range cats {
		_, err := store.GetRecord(ctx, r.Id)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		assert.Empty(t, postingsFor(t, store, r.Id))
	}

	// The other pack is untouched.
	_, err := store.GetRecord(ctx, dog.Id)
	require.NoError(t, err)
	assert.NotEmpty(t, postingsFor(t, store, dog.Id))

	// Removing an unknown pack is a no-op.
	assert.NoError(t, indexer.RemovePack(ctx, "never_existed"))
}

func TestIncrementPopularity(t *testing.T) {
	indexer, store := newTestIndexer(t)
	ctx := context.Background()

	record := newRecord("popular")
	require.NoError(t, indexer.Ingest(ctx, record))

	before := postingsFor(t, store, record.Id)

	require.NoError(t, indexer.IncrementPopularity(ctx, record.Id))
	require.NoError(t, indexer.IncrementPopularity(ctx, record.Id))

	stored, err := store.GetRecord(ctx, record.Id)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), stored.Popularity)

	// Popularity is not a term source; postings stay as they were.
	assert.Equal(t, before, postingsFor(t, store, record.Id))

	err = indexer.IncrementPopularity(ctx, core.ID(404))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReindex(t *testing.T) {
	indexer, store := newTestIndexer(t)
	ctx := context.Background()

	record := newRecord("cat-grin")
	require.NoError(t, indexer.Ingest(ctx, record))

	// Plant a stale term, as if the tokenizer used to produce it.
	err := store.Update(ctx, func(tx storage.Tx) error {
		return tx.PutPostings("obsolete", core.PostingList{{RecordId: record.Id, Weight: 1.0}})
	})
	require.NoError(t, err)

	// A new weighting policy only takes effect through a rebuild.
	reweighted, err := NewIndexer(store, WithFieldWeights(FieldWeights{
		Caption: 0.5, Emoji: 1.0, PackTitle: 2.0,
	}))
	require.NoError(t, err)
	require.NoError(t, reweighted.Reindex(ctx))

	got := postingsFor(t, store, record.Id)
	want := map[string]float64{
		"happy": 2.5,
		"cat":   0.5,
		"cats":  2.0,
		"😀":     1.0,
	}
	assert.Equal(t, want, got)

	list, err := store.GetPostings(ctx, "obsolete")
	require.NoError(t, err)
	assert.Empty(t, list, "stale terms must not survive a rebuild")
}
