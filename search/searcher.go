package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/poiesic/stickerdex/core"
	"github.com/poiesic/stickerdex/storage"
	"github.com/poiesic/stickerdex/tokenize"
)

// Searcher answers ranked multi-term queries against the sticker index.
// Queries run in a read-only snapshot and never block writers; two identical
// queries against an unchanged index return identical ordered results.
type Searcher struct {
	store   storage.Store
	scoring ScoringConfig
	now     func() time.Time
	logger  *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithScoring sets the ranking policy.
// Default is DefaultScoringConfig().
func WithScoring(cfg ScoringConfig) Option {
	return func(s *Searcher) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		s.scoring = cfg
		return nil
	}
}

// WithClock injects the time source used for the recency boost.
// Default is time.Now. Tests pin it to make scores reproducible.
func WithClock(now func() time.Time) Option {
	return func(s *Searcher) error {
		if now != nil {
			s.now = now
		}
		return nil
	}
}

// NewSearcher creates a new searcher on top of a store.
func NewSearcher(store storage.Store, opts ...Option) (*Searcher, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}

	s := &Searcher{
		store:   store,
		scoring: DefaultScoringConfig(),
		now:     time.Now,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Search ranks every sticker matching any query term and returns the page
// [offset, offset+limit) of the full ranking. An empty or whitespace-only
// query is a valid low-information request and yields an empty result.
func (s *Searcher) Search(ctx context.Context, query string, limit, offset int) ([]core.ScoredResult, error) {
	return s.SearchWithMonitor(ctx, query, limit, offset, nil)
}

// SearchWithMonitor is Search with per-stage observation callbacks.
func (s *Searcher) SearchWithMonitor(ctx context.Context, query string, limit, offset int, monitor SearchMonitor) ([]core.ScoredResult, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	if limit < 0 || offset < 0 {
		return nil, fmt.Errorf("%w: limit %d, offset %d", ErrInvalidPage, limit, offset)
	}

	monitor.Start(query)

	// Collapse duplicate query terms: boolean OR matching is set-based.
	seen := make(map[string]bool)
	var terms []string
	for _, term := range tokenize.Normalize(query) {
		if !seen[term] {
			seen[term] = true
			terms = append(terms, term)
		}
	}
	monitor.AfterNormalize(terms)

	if len(terms) == 0 {
		monitor.Finish(nil)
		return []core.ScoredResult{}, nil
	}

	// One snapshot for posting fetch, candidate retrieval, and scoring, so
	// a concurrent ingest can't tear the view.
	var results []core.ScoredResult
	err := s.store.View(ctx, func(tx storage.Tx) error {
		// OR-union of posting lists, accumulating per-term contributions.
		matched := make(map[core.ID]float64)
		for _, term := range terms {
			if err := checkDeadline(ctx); err != nil {
				return err
			}
			list, err := tx.GetPostings(term)
			if err != nil {
				return err
			}
			monitor.AfterPostingFetch(term, len(list))
			for _, posting := range list {
				matched[posting.RecordId] += posting.Weight
			}
		}
		monitor.AfterCandidateRetrieval(len(matched))

		now := s.now().UTC()
		results = make([]core.ScoredResult, 0, len(matched))
		for id, termScore := range matched {
			if err := checkDeadline(ctx); err != nil {
				return err
			}
			record, err := tx.GetRecord(id)
			if err != nil {
				// A dangling posting would be an index invariant
				// violation; surface it rather than mask it.
				return fmt.Errorf("posting for missing record %d: %w", id, err)
			}
			score := termScore +
				s.scoring.popularityBoost(record.Popularity) +
				s.scoring.recencyBoost(record.CreatedAt, now)
			results = append(results, core.ScoredResult{Record: record, Score: score})
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			s.logger.Warn("search deadline exceeded", "query", query, "terms", len(terms))
			return nil, fmt.Errorf("%w: %w", ErrTimeout, err)
		}
		s.logger.Error("search failed", "query", query, "error", err)
		return nil, err
	}

	// Full ranking before pagination; ties break on smaller id so paging
	// is reproducible.
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Record.Id < results[j].Record.Id
	})

	if offset >= len(results) {
		results = results[:0]
	} else {
		results = results[offset:]
	}
	if len(results) > limit {
		results = results[:limit]
	}
	monitor.Finish(results)

	return results, nil
}

// checkDeadline polls for caller cancellation between store reads.
func checkDeadline(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
