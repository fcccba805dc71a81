package core

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// Hand-written MUS serializers for the types that cross the storage boundary.
// The encoding is plain field-order MUS: varints for integers, length-prefixed
// strings, and Unix-microsecond int64 timestamps.

var (
	// IDMUS serializes record IDs.
	IDMUS = idMUS{}

	// PostingMUS serializes a single posting entry.
	PostingMUS = postingMUS{}

	// PostingListMUS serializes a whole posting list.
	PostingListMUS = ord.NewSliceSer[Posting](PostingMUS)

	// StickerRecordMUS serializes sticker records.
	StickerRecordMUS = stickerRecordMUS{}

	emojiMUS = ord.NewSliceSer[string](ord.String)
)

type idMUS struct{}

func (idMUS) Marshal(id ID, bs []byte) int {
	return varint.Uint64.Marshal(uint64(id), bs)
}

func (idMUS) Unmarshal(bs []byte) (ID, int, error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return ID(v), n, err
}

func (idMUS) Size(id ID) int {
	return varint.Uint64.Size(uint64(id))
}

func (idMUS) Skip(bs []byte) (int, error) {
	return varint.Uint64.Skip(bs)
}

type postingMUS struct{}

func (postingMUS) Marshal(p Posting, bs []byte) (n int) {
	n = varint.Uint64.Marshal(uint64(p.RecordId), bs)
	n += varint.Float64.Marshal(p.Weight, bs[n:])
	return n
}

func (postingMUS) Unmarshal(bs []byte) (p Posting, n int, err error) {
	id, n, err := varint.Uint64.Unmarshal(bs)
	if err != nil {
		return p, n, err
	}
	p.RecordId = ID(id)
	var n1 int
	p.Weight, n1, err = varint.Float64.Unmarshal(bs[n:])
	return p, n + n1, err
}

func (postingMUS) Size(p Posting) int {
	return varint.Uint64.Size(uint64(p.RecordId)) + varint.Float64.Size(p.Weight)
}

func (postingMUS) Skip(bs []byte) (n int, err error) {
	n, err = varint.Uint64.Skip(bs)
	if err != nil {
		return n, err
	}
	n1, err := varint.Float64.Skip(bs[n:])
	return n + n1, err
}

type stickerRecordMUS struct{}

func (stickerRecordMUS) Marshal(r StickerRecord, bs []byte) (n int) {
	n = varint.Uint64.Marshal(uint64(r.Id), bs)
	n += ord.String.Marshal(r.PackId, bs[n:])
	n += ord.String.Marshal(r.PackTitle, bs[n:])
	n += emojiMUS.Marshal(r.Emoji, bs[n:])
	n += ord.String.Marshal(r.Caption, bs[n:])
	n += varint.Int64.Marshal(r.CreatedAt.UnixMicro(), bs[n:])
	n += varint.Int64.Marshal(r.UpdatedAt.UnixMicro(), bs[n:])
	n += varint.Uint64.Marshal(r.Popularity, bs[n:])
	return n
}

func (stickerRecordMUS) Unmarshal(bs []byte) (r StickerRecord, n int, err error) {
	var n1 int
	id, n, err := varint.Uint64.Unmarshal(bs)
	if err != nil {
		return r, n, err
	}
	r.Id = ID(id)
	if r.PackId, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return r, n + n1, err
	}
	n += n1
	if r.PackTitle, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return r, n + n1, err
	}
	n += n1
	if r.Emoji, n1, err = emojiMUS.Unmarshal(bs[n:]); err != nil {
		return r, n + n1, err
	}
	n += n1
	if r.Caption, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return r, n + n1, err
	}
	n += n1
	var micros int64
	if micros, n1, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return r, n + n1, err
	}
	r.CreatedAt = time.UnixMicro(micros).UTC()
	n += n1
	if micros, n1, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return r, n + n1, err
	}
	r.UpdatedAt = time.UnixMicro(micros).UTC()
	n += n1
	if r.Popularity, n1, err = varint.Uint64.Unmarshal(bs[n:]); err != nil {
		return r, n + n1, err
	}
	return r, n + n1, nil
}

func (stickerRecordMUS) Size(r StickerRecord) (size int) {
	size = varint.Uint64.Size(uint64(r.Id))
	size += ord.String.Size(r.PackId)
	size += ord.String.Size(r.PackTitle)
	size += emojiMUS.Size(r.Emoji)
	size += ord.String.Size(r.Caption)
	size += varint.Int64.Size(r.CreatedAt.UnixMicro())
	size += varint.Int64.Size(r.UpdatedAt.UnixMicro())
	size += varint.Uint64.Size(r.Popularity)
	return size
}

func (s stickerRecordMUS) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return n, err
}
