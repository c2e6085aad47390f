// Package parser converts a folded operation stream into a tree of blocks:
// straight-line Simple sequences and nested Loop bodies. It uses an
// explicit stack of partially built programs rather than recursion, so
// pathologically deep loop nesting cannot exhaust the host stack.
package parser

import (
	"brainfc/internal/errors"
	"brainfc/internal/ir"
	"brainfc/internal/lexer"
)

// builder holds the stack of partially-built programs used while folding
// the flat Op stream into nested Loop blocks.
type builder struct {
	stack []ir.Program
}

func newBuilder() *builder {
	return &builder{stack: []ir.Program{{}}}
}

func (b *builder) startLoop() {
	b.stack = append(b.stack, ir.Program{})
}

func (b *builder) finishLoop() error {
	if len(b.stack) <= 1 {
		return errors.New(errors.UnbalancedClose, "unexpected ']' with no matching '['")
	}
	finished := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	top := &b.stack[len(b.stack)-1]
	*top = append(*top, ir.NewLoop(finished))
	return nil
}

func (b *builder) addToLatest(op lexer.Op) {
	top := &b.stack[len(b.stack)-1]

	if len(*top) == 0 || (*top)[len(*top)-1].Kind == ir.Loop {
		*top = append(*top, ir.NewSimple(nil))
	}

	last := &(*top)[len(*top)-1]
	last.Ops = append(last.Ops, op)
}

func (b *builder) add(op lexer.Op) error {
	switch op.Kind {
	case lexer.LBr:
		b.startLoop()
	case lexer.RBr:
		return b.finishLoop()
	default:
		b.addToLatest(op)
	}
	return nil
}

func (b *builder) finalize() (ir.Program, error) {
	if len(b.stack) != 1 {
		return nil, errors.New(errors.UnclosedLoop, "unclosed '[' at end of input")
	}
	return b.stack[0], nil
}

// Parse converts a folded Op stream into a Program, or fails with
// *errors.CompileError{Kind: UnbalancedClose} or {Kind: UnclosedLoop}.
func Parse(ops []lexer.Op) (ir.Program, error) {
	b := newBuilder()
	for _, op := range ops {
		if err := b.add(op); err != nil {
			return nil, err
		}
	}
	return b.finalize()
}
