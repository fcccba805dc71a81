package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/stickerdex/core"
	"github.com/poiesic/stickerdex/index"
)

// conflictRetries bounds immediate retries of optimistic-concurrency
// conflicts before the error is surfaced to the caller.
const conflictRetries = 3

// StickerUpdate is one tuple of the ingestion boundary: the metadata of a
// sticker as the upstream source currently sees it.
type StickerUpdate struct {
	StickerId       string    // Upstream sticker identifier, required
	PackId          string    // Owning pack identifier
	PackTitle       string    // Pack title
	Emoji           []string  // Emoji tags
	Caption         string    // Optional free-text caption
	SourceTimestamp time.Time // When the source produced the sticker
}

// record converts the update into its canonical stored form. Unknown
// upstream fields were already dropped by not being part of the tuple.
func (u StickerUpdate) record() *core.StickerRecord {
	return &core.StickerRecord{
		Id:        core.IDFromContent(u.StickerId),
		PackId:    u.PackId,
		PackTitle: u.PackTitle,
		Emoji:     u.Emoji,
		Caption:   u.Caption,
		CreatedAt: u.SourceTimestamp,
	}
}

// Pipeline feeds sticker metadata into the Indexer, fanning batches out
// over worker pools.
type Pipeline struct {
	indexer      *index.Indexer
	indexPool    *ants.Pool
	feedbackPool *ants.Pool
	logger       *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent indexing.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		// Release old pools
		if p.indexPool != nil {
			p.indexPool.Release()
		}
		if p.feedbackPool != nil {
			p.feedbackPool.Release()
		}

		indexPool, err := ants.NewPool(size)
		if err != nil {
			return err
		}

		feedbackPool, err := ants.NewPool(size)
		if err != nil {
			indexPool.Release()
			return err
		}

		p.indexPool = indexPool
		p.feedbackPool = feedbackPool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline on top of an indexer.
func NewPipeline(indexer *index.Indexer, opts ...Option) (*Pipeline, error) {
	if indexer == nil {
		return nil, ErrIndexerRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	indexPool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	feedbackPool, err := ants.NewPool(poolSize)
	if err != nil {
		indexPool.Release()
		return nil, err
	}

	p := &Pipeline{
		indexer:      indexer,
		indexPool:    indexPool,
		feedbackPool: feedbackPool,
		logger:       slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Ingest validates a batch of updates and indexes them concurrently,
// returning after the whole batch has been applied. Malformed updates fail
// the batch before any indexing starts. Each record commits in its own
// transaction; failures are joined and reported per batch.
func (p *Pipeline) Ingest(ctx context.Context, updates ...StickerUpdate) error {
	for i, update := range updates {
		if update.StickerId == "" {
			return fmt.Errorf("update %d: %w", i, ErrMissingStickerID)
		}
	}

	var wg sync.WaitGroup
	errs := make([]error, len(updates))
	for i, update := range updates {
		record := update.record()
		idx := i
		wg.Add(1)
		err := p.indexPool.Submit(func() {
			defer wg.Done()
			errs[idx] = p.ingestWithRetry(ctx, record)
		})
		if err != nil {
			wg.Done()
			errs[idx] = fmt.Errorf("%w: %w", ErrPipelineReleased, err)
		}
	}
	wg.Wait()

	return errors.Join(errs...)
}

// RecordSelection applies popularity feedback asynchronously: the user
// picked this sticker from a result list. Errors are logged, not returned.
func (p *Pipeline) RecordSelection(id core.ID) error {
	err := p.feedbackPool.Submit(func() {
		err := retryConflict(func() error {
			return p.indexer.IncrementPopularity(context.Background(), id)
		})
		if err != nil {
			p.logger.Error("error recording selection", "id", id, "err", err)
		}
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPipelineReleased, err)
	}
	return nil
}

// Release releases the worker pools.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.indexPool != nil {
		p.indexPool.Release()
	}
	if p.feedbackPool != nil {
		p.feedbackPool.Release()
	}
}

func (p *Pipeline) ingestWithRetry(ctx context.Context, record *core.StickerRecord) error {
	return retryConflict(func() error {
		return p.indexer.Ingest(ctx, record)
	})
}

// retryConflict retries optimistic-concurrency conflicts immediately,
// bounded by conflictRetries. Everything else surfaces on first failure.
func retryConflict(fn func() error) error {
	var err error
	for attempt := 0; attempt <= conflictRetries; attempt++ {
		err = fn()
		if !errors.Is(err, index.ErrConflict) {
			return err
		}
	}
	return err
}
