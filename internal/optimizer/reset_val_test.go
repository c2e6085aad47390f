package optimizer

import (
	"testing"

	"brainfc/internal/ir"
	"brainfc/internal/lexer"
)

func TestResetValMatchesClearCellIdiom(t *testing.T) {
	loop := ir.NewLoop(ir.Program{
		ir.NewSimple([]lexer.Op{{Kind: lexer.Modify, Payload: -1}}),
	})

	got, ok := ResetVal{}.Apply(loop)
	if !ok {
		t.Fatalf("expected ResetVal to accept [-]")
	}
	if got.Kind != ir.Reset || got.Offset != 0 {
		t.Errorf("got %v, want Reset{offset: 0}", got)
	}
}

func TestResetValDeclinesNonMatchingShapes(t *testing.T) {
	cases := []struct {
		name  string
		block ir.Block
	}{
		{"not a loop", ir.NewSimple([]lexer.Op{{Kind: lexer.Modify, Payload: -1}})},
		{"loop with multiple blocks", ir.NewLoop(ir.Program{
			ir.NewSimple([]lexer.Op{{Kind: lexer.Modify, Payload: -1}}),
			ir.NewSimple([]lexer.Op{{Kind: lexer.Move, Payload: 1}}),
		})},
		{"modify by -2", ir.NewLoop(ir.Program{
			ir.NewSimple([]lexer.Op{{Kind: lexer.Modify, Payload: -2}}),
		})},
		{"move instead of modify", ir.NewLoop(ir.Program{
			ir.NewSimple([]lexer.Op{{Kind: lexer.Move, Payload: -1}}),
		})},
		{"nested loop body", ir.NewLoop(ir.Program{
			ir.NewLoop(ir.Program{}),
		})},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, ok := (ResetVal{}).Apply(tc.block); ok {
				t.Errorf("expected ResetVal to decline %v", tc.block)
			}
		})
	}
}
