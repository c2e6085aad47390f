// Package lexer turns raw tape-machine source into a folded operation
// stream: the eight recognized characters are mapped to tagged Ops and
// adjacent identical reducible ops are merged by summing their payloads.
// Everything else in the input is a comment and is discarded.
package lexer

import "fmt"

// Kind tags an Op the way TokenType tags a scanner token.
type Kind string

const (
	Modify Kind = "MODIFY" // cell += payload
	Move   Kind = "MOVE"   // tape_pos += payload
	Out    Kind = "OUT"    // emit current cell payload-many times
	In     Kind = "IN"     // read into current cell payload-many times
	LBr    Kind = "LBR"    // loop open
	RBr    Kind = "RBR"    // loop close
)

// Op is the lexer's output unit: a tag plus a signed accumulator payload.
// Modify/Move payloads are interpreted as signed 16-bit; Out/In payloads
// are interpreted as unsigned 16-bit. Both wrap silently on overflow, same
// as the target cell's integer-modulo arithmetic.
type Op struct {
	Kind    Kind
	Payload int32
}

func (o Op) String() string {
	return fmt.Sprintf("%s(%d)", o.Kind, o.Payload)
}

// Reducible reports whether ops of this kind accumulate when adjacent.
func (k Kind) Reducible() bool {
	switch k {
	case Modify, Move, Out, In:
		return true
	default:
		return false
	}
}

func wrap(k Kind, v int32) int32 {
	switch k {
	case Modify, Move:
		return int32(int16(v))
	case Out, In:
		return int32(uint16(v))
	default:
		return v
	}
}

func fromRune(r rune) (Kind, int32, bool) {
	switch r {
	case '+':
		return Modify, 1, true
	case '-':
		return Modify, -1, true
	case '>':
		return Move, 1, true
	case '<':
		return Move, -1, true
	case ',':
		return In, 1, true
	case '.':
		return Out, 1, true
	case '[':
		return LBr, 0, true
	case ']':
		return RBr, 0, true
	default:
		return "", 0, false
	}
}

// Lex folds src into an Op stream. Lexing is total: unrecognized runes are
// comments and are silently skipped, so Lex never fails.
func Lex(src string) []Op {
	var ops []Op
	for _, r := range src {
		kind, delta, ok := fromRune(r)
		if !ok {
			continue
		}

		if kind.Reducible() && len(ops) > 0 {
			last := &ops[len(ops)-1]
			if last.Kind == kind {
				last.Payload = wrap(kind, last.Payload+delta)
				continue
			}
		}

		ops = append(ops, Op{Kind: kind, Payload: wrap(kind, delta)})
	}
	return ops
}
