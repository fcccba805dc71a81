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


// Package search implements the query engine over the sticker index.
//
// A query is normalized into a deduplicated term set and matched with OR
// semantics: a sticker matching any term is a candidate. Short emoji and
// keyword queries dominate this domain, so over-filtering is the bigger
// quality risk than over-matching.
//
// The score of a candidate is additive: the field-weight contributions of
// every matched term, plus a logarithmic popularity boost, plus a recency
// boost that decays with age since creation. A single strong match can
// therefore still surface against candidates matching more terms weakly.
// Ties break on the smaller record id so pagination is reproducible.
//
// The constants of the policy live in ScoringConfig and can be loaded from
// YAML; the shape of the score is not configurable.
package search
