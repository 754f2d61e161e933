package search

import "github.com/loreweave/loreweave/core"

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate rankings and fusion during
// a query.
type SearchMonitor interface {
	Start(query string)
	AfterQueryEmbedding(dimensions int)
	AfterVectorRanking(ranked []core.RankedDocument)
	AfterLexicalRanking(ranked []core.RankedDocument)
	Finish(results []*core.SearchResult)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                              {}
func (n *noopMonitor) AfterQueryEmbedding(_ int)                   {}
func (n *noopMonitor) AfterVectorRanking(_ []core.RankedDocument)  {}
func (n *noopMonitor) AfterLexicalRanking(_ []core.RankedDocument) {}
func (n *noopMonitor) Finish(_ []*core.SearchResult)               {}
