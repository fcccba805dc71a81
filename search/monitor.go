package search

import "github.com/poiesic/stickerdex/core"

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps during a query.
type SearchMonitor interface {
	Start(query string)
	AfterNormalize(terms []string)
	AfterPostingFetch(term string, postings int)
	AfterCandidateRetrieval(candidates int)
	Finish(results []core.ScoredResult)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                    {}
func (n *noopMonitor) AfterNormalize(_ []string)         {}
func (n *noopMonitor) AfterPostingFetch(_ string, _ int) {}
func (n *noopMonitor) AfterCandidateRetrieval(_ int)     {}
func (n *noopMonitor) Finish(_ []core.ScoredResult)      {}
