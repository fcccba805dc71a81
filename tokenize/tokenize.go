package tokenize

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Sentinel replaces malformed byte sequences in the input. It is a valid
// term like any other, so broken input degrades instead of erroring.
const Sentinel = "�"

// foldTransform compatibility-folds text and strips diacritics: NFKC to
// collapse compatibility variants, NFD to split base letters from combining
// marks, removal of the marks, then NFC recomposition.
var foldTransform = transform.Chain(
	norm.NFKC,
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// emojiRanges covers the Unicode blocks that hold pictographic characters.
// A grapheme cluster whose first rune falls in one of these ranges is
// treated as an atomic emoji token.
var emojiRanges = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x231A, Hi: 0x231B, Stride: 1}, // Watch, hourglass
		{Lo: 0x23E9, Hi: 0x23F3, Stride: 1}, // Media controls, alarm clock, timers
		{Lo: 0x23F8, Hi: 0x23FA, Stride: 1}, // Pause, stop, record
		{Lo: 0x25AA, Hi: 0x25FE, Stride: 1}, // Geometric shapes
		{Lo: 0x2600, Hi: 0x27BF, Stride: 1}, // Misc symbols, dingbats
		{Lo: 0x2934, Hi: 0x2935, Stride: 1}, // Arrows with hook
		{Lo: 0x2B00, Hi: 0x2BFF, Stride: 1}, // Misc symbols and arrows
		{Lo: 0x3030, Hi: 0x3030, Stride: 1}, // Wavy dash
		{Lo: 0x303D, Hi: 0x303D, Stride: 1}, // Part alternation mark
		{Lo: 0x3297, Hi: 0x3297, Stride: 1}, // Circled congratulations
		{Lo: 0x3299, Hi: 0x3299, Stride: 1}, // Circled secret
	},
	R32: []unicode.Range32{
		{Lo: 0x1F000, Hi: 0x1F0FF, Stride: 1}, // Mahjong, dominoes, cards
		{Lo: 0x1F18E, Hi: 0x1F18E, Stride: 1}, // AB button
		{Lo: 0x1F191, Hi: 0x1F19A, Stride: 1}, // Squared CL through VS
		{Lo: 0x1F1E6, Hi: 0x1F1FF, Stride: 1}, // Regional indicators (flags)
		{Lo: 0x1F201, Hi: 0x1F2FF, Stride: 1}, // Enclosed ideographic supplement
		{Lo: 0x1F300, Hi: 0x1F5FF, Stride: 1}, // Misc symbols and pictographs
		{Lo: 0x1F600, Hi: 0x1F64F, Stride: 1}, // Emoticons
		{Lo: 0x1F680, Hi: 0x1F6FF, Stride: 1}, // Transport and map
		{Lo: 0x1F900, Hi: 0x1F9FF, Stride: 1}, // Supplemental symbols
		{Lo: 0x1FA70, Hi: 0x1FAFF, Stride: 1}, // Symbols and pictographs extended
	},
}

// Normalize turns raw text into an ordered sequence of index terms.
//
// The result preserves input order and may contain duplicates; callers that
// need set semantics collapse it themselves (see TermSet). Terms are never
// empty and never contain NUL, which the store reserves as a key separator.
func Normalize(text string) []string {
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, Sentinel)
	}

	var (
		terms []string
		word  strings.Builder
	)
	flush := func() {
		if word.Len() == 0 {
			return
		}
		if t := foldWord(word.String()); t != "" {
			terms = append(terms, t)
		}
		word.Reset()
	}

	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		cluster := gr.Runes()
		switch {
		case isEmoji(cluster):
			flush()
			terms = append(terms, gr.Str())
		case cluster[0] == '�':
			flush()
			terms = append(terms, Sentinel)
		case unicode.IsLetter(cluster[0]) || unicode.IsDigit(cluster[0]):
			// Combining marks ride along inside the cluster and are
			// stripped later by foldWord.
			word.WriteString(gr.Str())
		default:
			// Whitespace, punctuation, controls: token boundary.
			flush()
		}
	}
	flush()

	return terms
}

// TermSet collapses Normalize output into term counts. Callers that treat
// the result as a plain set ignore the counts.
func TermSet(text string) map[string]int {
	set := make(map[string]int)
	for _, term := range Normalize(text) {
		set[term]++
	}
	return set
}

// foldWord case-folds a word token and strips its diacritics. Returns ""
// for tokens that fold away entirely.
func foldWord(w string) string {
	folded, _, err := transform.String(foldTransform, w)
	if err != nil {
		// Transform failures only happen on invalid UTF-8, which was
		// already replaced. Keep the lowercased original if it happens.
		folded = w
	}
	folded = strings.ToLower(folded)
	return strings.ReplaceAll(folded, "\x00", "")
}

// isEmoji reports whether a grapheme cluster is a pictographic token.
// Keycap sequences like "1️⃣" start with a digit, so the variation selector
// and combining enclosing keycap are checked too.
func isEmoji(cluster []rune) bool {
	if unicode.In(cluster[0], emojiRanges) {
		return true
	}
	for _, r := range cluster {
		if r == 0x20E3 || r == 0xFE0F { // combining keycap, emoji presentation selector
			return true
		}
	}
	return false
}
