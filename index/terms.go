package index

import (
	"github.com/poiesic/stickerdex/core"
	"github.com/poiesic/stickerdex/tokenize"
)

// FieldWeights assigns the relative importance of a term match per metadata
// field. The ordering caption <= emoji <= pack-title is enforced: captions
// are free text with the loosest signal, pack titles the strongest.
type FieldWeights struct {
	Caption   float64
	Emoji     float64
	PackTitle float64
}

// DefaultFieldWeights returns the default weighting policy.
func DefaultFieldWeights() FieldWeights {
	return FieldWeights{
		Caption:   1.0,
		Emoji:     2.0,
		PackTitle: 3.0,
	}
}

// Validate checks that the weights are non-negative and properly ordered.
func (w FieldWeights) Validate() error {
	if w.Caption < 0 || w.Emoji < 0 || w.PackTitle < 0 {
		return ErrInvalidWeights
	}
	if w.Caption > w.Emoji || w.Emoji > w.PackTitle {
		return ErrInvalidWeights
	}
	return nil
}

// weight returns the weight for a field.
func (w FieldWeights) weight(f core.Field) float64 {
	switch f {
	case core.FieldCaption:
		return w.Caption
	case core.FieldEmoji:
		return w.Emoji
	case core.FieldPackTitle:
		return w.PackTitle
	}
	return 0
}

// termWeights derives the weighted term set of a record: every normalized
// term of the caption, emoji tags, and pack title, mapped to the sum of the
// weights of the fields that produced it. A term repeated within one field
// counts once; a term present in several fields takes their combined weight,
// matching the additive scoring model.
func termWeights(record *core.StickerRecord, weights FieldWeights) map[string]float64 {
	fields := []struct {
		field core.Field
		texts []string
	}{
		{core.FieldCaption, []string{record.Caption}},
		{core.FieldEmoji, record.Emoji},
		{core.FieldPackTitle, []string{record.PackTitle}},
	}

	terms := make(map[string]float64)
	for _, f := range fields {
		w := weights.weight(f.field)
		seen := make(map[string]bool)
		for _, text := range f.texts {
			for term := range tokenize.TermSet(text) {
				if seen[term] {
					continue
				}
				seen[term] = true
				terms[term] += w
			}
		}
	}
	return terms
}
