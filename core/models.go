package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for a sticker record.
// Upstream sources identify stickers by opaque strings; IDFromContent maps
// those onto the uint64 key space deterministically.
type ID uint64

// IDFromContent generates a deterministic ID from an upstream sticker
// identifier using BLAKE2b hashing. Identical input always produces the
// same ID.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Field identifies which part of a sticker's metadata a term was derived from.
// Matches in different fields carry different weights when scoring.
type Field int

const (
	// FieldCaption is the free-text caption attached to a sticker.
	FieldCaption Field = iota + 1
	// FieldEmoji is the ordered emoji tag sequence of a sticker.
	FieldEmoji
	// FieldPackTitle is the title of the pack the sticker belongs to.
	FieldPackTitle
)

// StickerRecord is the canonical stored form of one sticker's metadata.
// Records are owned by the store and mutated only through Indexer-mediated
// transactions.
type StickerRecord struct {
	Id         ID
	PackId     string    // Owning pack identifier, assigned by the source
	PackTitle  string    // Human-readable pack title, indexed
	Emoji      []string  // Ordered emoji tags, indexed atomically
	Caption    string    // Optional free-text caption, indexed
	CreatedAt  time.Time // When the source first produced the sticker
	UpdatedAt  time.Time // When the record was last written
	Popularity uint64    // Times the sticker was selected; monotonic non-decreasing
}

// Posting is one entry of a posting list: a record containing the term,
// together with the combined field weight of the match.
type Posting struct {
	RecordId ID
	Weight   float64
}

// PostingList is the ordered set of postings for one term, sorted by
// ascending RecordId. An empty list is never stored; the term key is
// deleted instead.
type PostingList []Posting

// Find returns the index of the posting for id, or the insertion point and
// false if no such posting exists. The list must be sorted by RecordId.
func (pl PostingList) Find(id ID) (int, bool) {
	lo, hi := 0, len(pl)
	for lo < hi {
		mid := (lo + hi) / 2
		if pl[mid].RecordId < id {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo, lo < len(pl) && pl[lo].RecordId == id
}

// Upsert inserts or replaces the posting for p.RecordId, keeping the list
// sorted by RecordId.
func (pl PostingList) Upsert(p Posting) PostingList {
	i, ok := pl.Find(p.RecordId)
	if ok {
		pl[i] = p
		return pl
	}
	pl = append(pl, Posting{})
	copy(pl[i+1:], pl[i:])
	pl[i] = p
	return pl
}

// Delete removes the posting for id, if present.
func (pl PostingList) Delete(id ID) PostingList {
	i, ok := pl.Find(id)
	if !ok {
		return pl
	}
	return append(pl[:i], pl[i+1:]...)
}

// ScoredResult is one ranked hit returned by the query engine.
type ScoredResult struct {
	Record *StickerRecord
	Score  float64
}
