package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/poiesic/stickerdex/core"
)

// Key prefixes for the two logical tables plus the pack membership index.
const (
	recordPrefix  = "stkrec"
	postingPrefix = "stkpost"
	packPrefix    = "stkpack"
)

// packSep separates the pack id from the member id in pack index keys.
// core.ValidateStickerRecord rejects pack ids containing this byte.
const packSep = 0x00

// makeRecordKey generates a key for a sticker record by ID.
func makeRecordKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", recordPrefix, id))
}

// makePostingKey generates a key for a term's posting list.
// Terms are arbitrary UTF-8 and are appended verbatim.
func makePostingKey(term string) []byte {
	prefix := postingPrefix + ":"
	buf := make([]byte, len(prefix)+len(term))
	offset := copy(buf, prefix)
	copy(buf[offset:], term)
	return buf
}

// makePackKey generates a composite key for the pack membership index.
// Format: prefix:packId\x00id, with the ID in BigEndian order so
// lexicographic iteration yields ascending IDs.
func makePackKey(packId string, id core.ID) []byte {
	buf := makePartialPackKey(packId)
	idBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(idBytes, uint64(id))
	return append(buf, idBytes...)
}

// makePartialPackKey generates the iteration prefix for one pack's members.
func makePartialPackKey(packId string) []byte {
	prefix := packPrefix + ":"
	buf := make([]byte, 0, len(prefix)+len(packId)+1+8)
	buf = append(buf, prefix...)
	buf = append(buf, packId...)
	return append(buf, packSep)
}

// packKeyID extracts the member ID from a pack index key.
func packKeyID(key []byte) core.ID {
	return core.ID(binary.BigEndian.Uint64(key[len(key)-8:]))
}
