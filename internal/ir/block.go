// Package ir is the shared algebraic data model that flows between the
// parser, the optimizer, and the code generator: a Block is a closed sum
// of Simple | Loop | Reset | Multiply, and a Program is an ordered
// sequence of Blocks. Values of this type are immutable once produced —
// each pipeline stage consumes a Program and builds a new one.
package ir

import (
	"fmt"
	"strings"

	"brainfc/internal/lexer"
)

// Kind discriminates the Block sum type, mirroring lexer.Kind's string-tag
// style.
type Kind string

const (
	Simple   Kind = "SIMPLE"
	Loop     Kind = "LOOP"
	Reset    Kind = "RESET"
	Multiply Kind = "MULTIPLY"

	// JmpLoop and LoopModifyAndGoBack are reserved tags; no pass in
	// internal/optimizer produces them.
	JmpLoop            Kind = "JMP_LOOP"
	LoopModifyAndGoBack Kind = "LOOP_MODIFY_AND_GO_BACK"
)

// MulOp is one destination of a linearized multiply loop: cell[pos+Offset]
// += cell[pos] * Factor. Offset is never 0 and Factor is never 0.
type MulOp struct {
	Offset int32
	Factor int32
}

func (m MulOp) String() string {
	return fmt.Sprintf("(%d, %d)", m.Offset, m.Factor)
}

// Block is a node of the IR tree. Exactly one field group is meaningful
// per Kind:
//
//	Simple:   Ops
//	Loop:     Body
//	Reset:    Offset
//	Multiply: Muls
type Block struct {
	Kind Kind

	Ops  []lexer.Op // Simple
	Body Program    // Loop

	Offset int32 // Reset

	Muls []MulOp // Multiply
}

// Program is an ordered sequence of Blocks.
type Program []Block

// NewSimple builds a Simple block. ops must be non-empty — every Simple
// block produced by the parser is non-empty by construction.
func NewSimple(ops []lexer.Op) Block {
	return Block{Kind: Simple, Ops: ops}
}

// NewLoop builds a Loop block wrapping a nested, balanced Program.
func NewLoop(body Program) Block {
	return Block{Kind: Loop, Body: body}
}

// NewReset builds a Reset block: zero the cell at offset from tape_pos.
func NewReset(offset int32) Block {
	return Block{Kind: Reset, Offset: offset}
}

// NewMultiply builds a Multiply block from a set of (offset, factor)
// pairs, none of which may have offset 0 or factor 0.
func NewMultiply(muls []MulOp) Block {
	return Block{Kind: Multiply, Muls: muls}
}

func (b Block) String() string {
	switch b.Kind {
	case Simple:
		parts := make([]string, len(b.Ops))
		for i, op := range b.Ops {
			parts[i] = op.String()
		}
		return "Simple[" + strings.Join(parts, ", ") + "]"
	case Loop:
		return "Loop(" + b.Body.String() + ")"
	case Reset:
		return fmt.Sprintf("Reset{offset: %d}", b.Offset)
	case Multiply:
		parts := make([]string, len(b.Muls))
		for i, m := range b.Muls {
			parts[i] = m.String()
		}
		return "Multiply{ops: [" + strings.Join(parts, ", ") + "]}"
	default:
		return string(b.Kind)
	}
}

func (p Program) String() string {
	parts := make([]string, len(p))
	for i, b := range p {
		parts[i] = b.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Flatten reconstructs the flat Op stream a Program would lex to, by
// replacing every Loop(body) with LBr, flatten(body), RBr. It is used by
// the parser round-trip test and has no role in compilation.
func (p Program) Flatten() []lexer.Op {
	var out []lexer.Op
	for _, b := range p {
		switch b.Kind {
		case Simple:
			out = append(out, b.Ops...)
		case Loop:
			out = append(out, lexer.Op{Kind: lexer.LBr})
			out = append(out, b.Body.Flatten()...)
			out = append(out, lexer.Op{Kind: lexer.RBr})
		default:
			// Reset/Multiply are post-optimization forms with no direct
			// token rendering; round-trip only applies to parser output.
		}
	}
	return out
}
