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


// Package tokenize turns raw sticker metadata (captions, pack titles, emoji
// sequences) into canonical index terms.
//
// Normalization is a pure function: the same input always yields the same
// ordered term sequence, there are no side effects, and there are no failure
// modes. Malformed byte sequences degrade to a sentinel token instead of
// erroring.
//
// Text tokens are split on whitespace/punctuation boundaries, compatibility
// folded (NFKC), lowercased, and stripped of diacritics. Emoji are kept as
// atomic tokens: a multi-codepoint emoji sequence (ZWJ families, skin tones,
// flags) is one term, never its constituent codepoints. Grapheme cluster
// segmentation follows Unicode UAX #29 via github.com/rivo/uniseg.
package tokenize
