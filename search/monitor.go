package search

import "github.com/poiesic/bioscout/core"

// Monitor provides hooks to observe the retrieval pipeline.
// Implement this interface to track intermediate stages during a search.
type Monitor interface {
	Start(query string, kinds []core.Kind)
	AfterSemantic(rows []int, normalized []float64)
	AfterLexical(rows []int, normalized []float64)
	AfterCombine(candidates []core.Candidate)
	Finish(candidates []core.Candidate)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string, _ []core.Kind)        {}
func (n *noopMonitor) AfterSemantic(_ []int, _ []float64)   {}
func (n *noopMonitor) AfterLexical(_ []int, _ []float64)    {}
func (n *noopMonitor) AfterCombine(_ []core.Candidate)      {}
func (n *noopMonitor) Finish(_ []core.Candidate)            {}
