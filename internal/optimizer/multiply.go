package optimizer

import (
	"brainfc/internal/ir"
	"brainfc/internal/lexer"
)

// Multiply rewrites a balanced linear loop — net pointer movement zero,
// base cell decrementing by exactly 1 per iteration, no negative-offset
// destination — into a straight-line Multiply block. See spec §4.4 for
// the derivation: such a loop runs b times (b = the base cell's initial
// value), so every destination cell accumulates base*factor and the base
// itself ends at zero.
type Multiply struct{}

func (Multiply) Name() string { return "multiply" }

func (Multiply) Apply(block ir.Block) (ir.Block, bool) {
	if block.Kind != ir.Loop || len(block.Body) != 1 {
		return ir.Block{}, false
	}

	body := block.Body[0]
	if body.Kind != ir.Simple {
		return ir.Block{}, false
	}
	ops := body.Ops

	var sumOfMoves int32
	for _, op := range ops {
		if op.Kind == lexer.Move {
			sumOfMoves += op.Payload
		}
	}
	if sumOfMoves != 0 {
		return ir.Block{}, false
	}

	for _, op := range ops {
		if op.Kind != lexer.Move && op.Kind != lexer.Modify {
			return ir.Block{}, false // I/O or nested control flow present
		}
	}

	var reach int32
	for _, op := range ops {
		if op.Kind == lexer.Move {
			if op.Payload < 0 {
				reach += -op.Payload
			} else {
				reach += op.Payload
			}
		}
	}

	buf := make([]int32, 2*reach+1)
	cursor := reach
	for _, op := range ops {
		switch op.Kind {
		case lexer.Modify:
			buf[cursor] += op.Payload
		case lexer.Move:
			cursor += op.Payload
		}
	}

	if buf[reach] != -1 {
		return ir.Block{}, false // base delta must be exactly -1
	}

	var muls []ir.MulOp
	for i, v := range buf {
		if int32(i) == reach || v == 0 {
			continue
		}
		offset := int32(i) - reach
		if offset < 0 {
			return ir.Block{}, false // conservative: only forward-offset copies
		}
		muls = append(muls, ir.MulOp{Offset: offset, Factor: v})
	}

	return ir.NewMultiply(muls), true
}
