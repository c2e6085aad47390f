package optimizer

import (
	"reflect"
	"testing"

	"brainfc/internal/ir"
	"brainfc/internal/lexer"
)

func loopOf(ops ...lexer.Op) ir.Block {
	return ir.NewLoop(ir.Program{ir.NewSimple(ops)})
}

func TestMultiplyAcceptsBalancedLoops(t *testing.T) {
	cases := []struct {
		name string
		loop ir.Block
		want []ir.MulOp
	}{
		{
			name: "[->+<]",
			loop: loopOf(
				lexer.Op{Kind: lexer.Modify, Payload: -1},
				lexer.Op{Kind: lexer.Move, Payload: 1},
				lexer.Op{Kind: lexer.Modify, Payload: 1},
				lexer.Op{Kind: lexer.Move, Payload: -1},
			),
			want: []ir.MulOp{{Offset: 1, Factor: 1}},
		},
		{
			name: "[->++<]",
			loop: loopOf(
				lexer.Op{Kind: lexer.Modify, Payload: -1},
				lexer.Op{Kind: lexer.Move, Payload: 1},
				lexer.Op{Kind: lexer.Modify, Payload: 2},
				lexer.Op{Kind: lexer.Move, Payload: -1},
			),
			want: []ir.MulOp{{Offset: 1, Factor: 2}},
		},
		{
			name: "[->>+++<<]",
			loop: loopOf(
				lexer.Op{Kind: lexer.Modify, Payload: -1},
				lexer.Op{Kind: lexer.Move, Payload: 1},
				lexer.Op{Kind: lexer.Move, Payload: 1},
				lexer.Op{Kind: lexer.Modify, Payload: 3},
				lexer.Op{Kind: lexer.Move, Payload: -1},
				lexer.Op{Kind: lexer.Move, Payload: -1},
			),
			want: []ir.MulOp{{Offset: 2, Factor: 3}},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Multiply{}.Apply(tc.loop)
			if !ok {
				t.Fatalf("expected Multiply to accept %s", tc.name)
			}
			if got.Kind != ir.Multiply || !reflect.DeepEqual(got.Muls, tc.want) {
				t.Errorf("got %v, want Multiply{%v}", got, tc.want)
			}
		})
	}
}

func TestMultiplyDeclinesUnsuitableLoops(t *testing.T) {
	cases := []struct {
		name string
		loop ir.Block
	}{
		{
			name: "[<+>] negative offset",
			loop: loopOf(
				lexer.Op{Kind: lexer.Move, Payload: -1},
				lexer.Op{Kind: lexer.Modify, Payload: 1},
				lexer.Op{Kind: lexer.Move, Payload: 1},
			),
		},
		{
			name: "[->+>+<] unbalanced net move",
			loop: loopOf(
				lexer.Op{Kind: lexer.Modify, Payload: -1},
				lexer.Op{Kind: lexer.Move, Payload: 1},
				lexer.Op{Kind: lexer.Modify, Payload: 1},
				lexer.Op{Kind: lexer.Move, Payload: 1},
				lexer.Op{Kind: lexer.Modify, Payload: 1},
				lexer.Op{Kind: lexer.Move, Payload: -1},
			),
		},
		{
			name: "[-.] contains I/O",
			loop: loopOf(
				lexer.Op{Kind: lexer.Modify, Payload: -1},
				lexer.Op{Kind: lexer.Out, Payload: 1},
			),
		},
		{
			name: "[--] base delta is -2",
			loop: loopOf(
				lexer.Op{Kind: lexer.Modify, Payload: -2},
			),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, ok := (Multiply{}).Apply(tc.loop); ok {
				t.Errorf("expected Multiply to decline %s", tc.name)
			}
		})
	}
}

func TestManagerRunsResetValBeforeMultiply(t *testing.T) {
	p := ir.Program{loopOf(lexer.Op{Kind: lexer.Modify, Payload: -1})}
	out := NewManager().Optimize(p)
	if len(out) != 1 || out[0].Kind != ir.Reset {
		t.Errorf("Optimize([-]) = %v, want a single Reset block", out)
	}
}

func TestManagerRecursesIntoNestedLoopsBottomUp(t *testing.T) {
	inner := loopOf(lexer.Op{Kind: lexer.Modify, Payload: -1})
	outer := ir.NewLoop(ir.Program{
		ir.NewSimple([]lexer.Op{{Kind: lexer.Move, Payload: 1}}),
		inner,
	})

	out := NewManager().Optimize(ir.Program{outer})
	if len(out) != 1 || out[0].Kind != ir.Loop {
		t.Fatalf("expected top-level Loop to survive, got %v", out)
	}
	body := out[0].Body
	if len(body) != 2 || body[1].Kind != ir.Reset {
		t.Errorf("expected nested [-] to become Reset, got %v", body)
	}
}
