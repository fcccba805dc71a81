package ingestion

import "errors"

var (
	// ErrIndexerRequired is returned when an indexer is not provided.
	ErrIndexerRequired = errors.New("indexer required")

	// ErrMissingStickerID is returned for an update without a sticker id.
	// Such updates are rejected before they reach the indexer.
	ErrMissingStickerID = errors.New("sticker id is required")

	// ErrPipelineReleased is returned when work is submitted after Release.
	ErrPipelineReleased = errors.New("pipeline released")
)
