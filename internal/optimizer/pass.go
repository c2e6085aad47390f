// Package optimizer applies a registered list of pattern-rewrite passes
// bottom-up over the block tree produced by the parser. Passes never
// mutate their input; each returns either a rewritten Block or declines.
package optimizer

import "brainfc/internal/ir"

// Pass rewrites a single Block. Apply returns (rewritten, true) to accept,
// or (ir.Block{}, false) to decline and let later passes (or the original
// block) stand.
type Pass interface {
	Apply(block ir.Block) (ir.Block, bool)
	Name() string
}

// Manager holds an ordered list of passes. Pass order matters: more
// specific rewrites should precede more general ones, since only a single
// bottom-up sweep is run; it is not repeated to a fixpoint.
type Manager struct {
	passes []Pass
}

// NewManager returns the default pass pipeline: ResetVal before Multiply,
// so the general multiply-loop matcher never has to special-case the
// clear-cell idiom it would otherwise subsume less precisely.
func NewManager() *Manager {
	return &Manager{passes: []Pass{
		ResetVal{},
		Multiply{},
	}}
}

// WithPasses builds a Manager from an explicit pass list, for tests that
// want to exercise a single pass in isolation.
func WithPasses(passes ...Pass) *Manager {
	return &Manager{passes: passes}
}

// Optimize runs the pass pipeline over every top-level block of p and
// returns the rewritten program.
func (m *Manager) Optimize(p ir.Program) ir.Program {
	out := make(ir.Program, len(p))
	for i, b := range p {
		out[i] = m.optimizeBlock(b)
	}
	return out
}

func (m *Manager) optimizeBlock(b ir.Block) ir.Block {
	// Recurse into children first (post-order / bottom-up) so inner loops
	// are already simplified by the time outer matchers inspect them.
	if b.Kind == ir.Loop {
		b = ir.NewLoop(m.Optimize(b.Body))
	}

	for _, pass := range m.passes {
		if rewritten, ok := pass.Apply(b); ok {
			return rewritten
		}
	}
	return b
}
