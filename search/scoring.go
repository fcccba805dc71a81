package search

import (
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/poiesic/stickerdex/index"
)

// ScoringConfig is the tunable ranking policy. The shape of the score is
// fixed (additive field weights, sub-linear popularity, decaying recency,
// deterministic id tie-break); only the constants are configuration.
type ScoringConfig struct {
	// Field weights baked into postings at index time.
	CaptionWeight   float64 `yaml:"captionWeight"`
	EmojiWeight     float64 `yaml:"emojiWeight"`
	PackTitleWeight float64 `yaml:"packTitleWeight"`

	// PopularityWeight scales log1p(popularity), so heavily selected
	// stickers rise without permanently dominating every query.
	PopularityWeight float64 `yaml:"popularityWeight"`

	// RecencyWeight scales a boost that halves every RecencyHalfLife
	// since the record's creation.
	RecencyWeight   float64       `yaml:"recencyWeight"`
	RecencyHalfLife time.Duration `yaml:"recencyHalfLife"`
}

// DefaultScoringConfig returns the default ranking policy.
func DefaultScoringConfig() ScoringConfig {
	fw := index.DefaultFieldWeights()
	return ScoringConfig{
		CaptionWeight:    fw.Caption,
		EmojiWeight:      fw.Emoji,
		PackTitleWeight:  fw.PackTitle,
		PopularityWeight: 0.5,
		RecencyWeight:    0.25,
		RecencyHalfLife:  30 * 24 * time.Hour,
	}
}

// LoadScoringConfig reads a ScoringConfig from a YAML file. Fields absent
// from the file keep their defaults.
func LoadScoringConfig(path string) (ScoringConfig, error) {
	cfg := DefaultScoringConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: %w", ErrInvalidScoring, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// UnmarshalYAML decodes the policy, accepting human-readable durations
// ("720h", "30m") for the half-life. Absent fields keep whatever values the
// target already holds, so decoding over defaults behaves as an overlay.
func (c *ScoringConfig) UnmarshalYAML(value *yaml.Node) error {
	aux := struct {
		CaptionWeight    *float64 `yaml:"captionWeight"`
		EmojiWeight      *float64 `yaml:"emojiWeight"`
		PackTitleWeight  *float64 `yaml:"packTitleWeight"`
		PopularityWeight *float64 `yaml:"popularityWeight"`
		RecencyWeight    *float64 `yaml:"recencyWeight"`
		RecencyHalfLife  *string  `yaml:"recencyHalfLife"`
	}{}
	if err := value.Decode(&aux); err != nil {
		return err
	}

	if aux.CaptionWeight != nil {
		c.CaptionWeight = *aux.CaptionWeight
	}
	if aux.EmojiWeight != nil {
		c.EmojiWeight = *aux.EmojiWeight
	}
	if aux.PackTitleWeight != nil {
		c.PackTitleWeight = *aux.PackTitleWeight
	}
	if aux.PopularityWeight != nil {
		c.PopularityWeight = *aux.PopularityWeight
	}
	if aux.RecencyWeight != nil {
		c.RecencyWeight = *aux.RecencyWeight
	}
	if aux.RecencyHalfLife != nil {
		d, err := time.ParseDuration(*aux.RecencyHalfLife)
		if err != nil {
			return fmt.Errorf("recencyHalfLife: %w", err)
		}
		c.RecencyHalfLife = d
	}
	return nil
}

// Validate checks the policy invariants: non-negative weights, the
// caption <= emoji <= pack-title field ordering, and a positive half-life.
func (c ScoringConfig) Validate() error {
	if err := c.FieldWeights().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidScoring, err)
	}
	if c.PopularityWeight < 0 || c.RecencyWeight < 0 {
		return fmt.Errorf("%w: negative weight", ErrInvalidScoring)
	}
	if c.RecencyHalfLife <= 0 {
		return fmt.Errorf("%w: half-life must be positive", ErrInvalidScoring)
	}
	return nil
}

// FieldWeights returns the index-side slice of the policy.
func (c ScoringConfig) FieldWeights() index.FieldWeights {
	return index.FieldWeights{
		Caption:   c.CaptionWeight,
		Emoji:     c.EmojiWeight,
		PackTitle: c.PackTitleWeight,
	}
}

// popularityBoost is a monotonic, sub-linear transform of the selection
// counter.
func (c ScoringConfig) popularityBoost(popularity uint64) float64 {
	return c.PopularityWeight * math.Log1p(float64(popularity))
}

// recencyBoost decays exponentially with age, halving every RecencyHalfLife.
// Future-dated records are clamped to zero age.
func (c ScoringConfig) recencyBoost(createdAt, now time.Time) float64 {
	if c.RecencyWeight == 0 || createdAt.IsZero() {
		return 0
	}
	age := now.Sub(createdAt)
	if age < 0 {
		age = 0
	}
	halfLives := float64(age) / float64(c.RecencyHalfLife)
	return c.RecencyWeight * math.Exp2(-halfLives)
}
