// Package codegen lowers an optimized ir.Program to an LLVM module built
// with github.com/llir/llvm: one global tape array, one global tape
// position, a single main function (so the linked object has the C entry
// symbol cc expects), a pair of basic blocks per loop nest, and calls to
// externally declared getchar/putchar. Object emission from the resulting
// module is the responsibility of internal/toolchain.
package codegen

import (
	"fmt"

	bfir "brainfc/internal/ir"
	"brainfc/internal/lexer"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// TapeSize is the fixed cell count of the runtime tape (spec §3).
const TapeSize = 30_000

// Codegen owns the LLVM module under construction and the single piece of
// mutable state the lowering needs: a monotonically increasing per-compile
// loop-label counter.
type Codegen struct {
	module *ir.Module

	entry   *ir.Func
	tape    *ir.Global
	tapePos *ir.Global
	getchar *ir.Func
	putchar *ir.Func
	calloc  *ir.Func

	cur    *ir.Block
	loopID int
}

// New builds the module-level declarations (globals, libc externals, the
// main function and its first block, named entry) and returns a Codegen
// positioned at the start of entry.
func New() *Codegen {
	m := ir.NewModule()

	i32 := types.I32
	tapeType := types.NewArray(TapeSize, i32)

	tape := m.NewGlobalDef("tape", constant.NewZeroInitializer(tapeType))
	tapePos := m.NewGlobalDef("tape_pos", constant.NewInt(i32, 0))

	getchar := m.NewFunc("getchar", i32)
	putchar := m.NewFunc("putchar", i32, ir.NewParam("c", i32))
	calloc := m.NewFunc(
		"calloc",
		types.NewPointer(types.I8),
		ir.NewParam("nmemb", types.I64),
		ir.NewParam("size", types.I64),
	)

	entry := m.NewFunc("main", i32)
	block := entry.NewBlock("entry")

	return &Codegen{
		module:  m,
		entry:   entry,
		tape:    tape,
		tapePos: tapePos,
		getchar: getchar,
		putchar: putchar,
		calloc:  calloc,
		cur:     block,
	}
}

// Module returns the module under construction, for inspection before or
// instead of calling Compile.
func (c *Codegen) Module() *ir.Module {
	return c.module
}

// Compile lowers the optimized program into the entry block and terminates
// it with `ret i32 0`, returning the finished module.
func (c *Codegen) Compile(p bfir.Program) *ir.Module {
	c.lowerProgram(p)
	c.cur.NewRet(constant.NewInt(types.I32, 0))
	return c.module
}

func (c *Codegen) lowerProgram(p bfir.Program) {
	for _, b := range p {
		c.lowerBlock(b)
	}
}

func (c *Codegen) lowerBlock(b bfir.Block) {
	switch b.Kind {
	case bfir.Simple:
		for _, op := range b.Ops {
			c.lowerOp(op)
		}
	case bfir.Loop:
		c.lowerLoop(b.Body)
	case bfir.Reset:
		ptr := c.cellPtrAtOffset(b.Offset)
		c.cur.NewStore(constant.NewInt(types.I32, 0), ptr)
	case bfir.Multiply:
		c.lowerMultiply(b.Muls)
	}
}

func (c *Codegen) lowerOp(op lexer.Op) {
	switch op.Kind {
	case lexer.Modify:
		ptr := c.currentCellPtr()
		val := c.cur.NewLoad(types.I32, ptr)
		sum := c.cur.NewAdd(val, constant.NewInt(types.I32, int64(op.Payload)))
		c.cur.NewStore(sum, ptr)
	case lexer.Move:
		pos := c.loadTapePos()
		next := c.cur.NewAdd(pos, constant.NewInt(types.I32, int64(op.Payload)))
		c.cur.NewStore(next, c.tapePos)
	case lexer.In:
		// Each read is independent and observable: op.Payload reads are
		// issued, and only the last one's value survives in the cell —
		// see spec §9 "read widening".
		for i := int32(0); i < op.Payload; i++ {
			ptr := c.currentCellPtr()
			input := c.cur.NewCall(c.getchar)
			c.cur.NewStore(input, ptr)
		}
	case lexer.Out:
		for i := int32(0); i < op.Payload; i++ {
			ptr := c.currentCellPtr()
			val := c.cur.NewLoad(types.I32, ptr)
			c.cur.NewCall(c.putchar, val)
		}
	}
}

func (c *Codegen) lowerMultiply(muls []bfir.MulOp) {
	basePtr := c.currentCellPtr()
	base := c.cur.NewLoad(types.I32, basePtr)

	for _, mul := range muls {
		destPtr := c.cellPtrAtOffset(mul.Offset)
		destVal := c.cur.NewLoad(types.I32, destPtr)
		contribution := c.cur.NewMul(base, constant.NewInt(types.I32, int64(mul.Factor)))
		newVal := c.cur.NewAdd(destVal, contribution)
		c.cur.NewStore(newVal, destPtr)
	}

	c.cur.NewStore(constant.NewInt(types.I32, 0), basePtr)
}

// lowerLoop implements spec §4.5's loop lowering: allocate loop_N/cont_N,
// test-and-branch at entry, lower the body, test-and-branch again at the
// tail (from wherever the body lowering left the builder positioned — a
// nested loop's own cont block, for a nested loop body), then continue at
// cont_N.
func (c *Codegen) lowerLoop(body bfir.Program) {
	c.loopID++
	id := c.loopID

	loopBlock := c.entry.NewBlock(fmt.Sprintf("loop_%d", id))
	contBlock := c.entry.NewBlock(fmt.Sprintf("cont_%d", id))

	c.emitLoopTest(loopBlock, contBlock)

	c.cur = loopBlock
	c.lowerProgram(body)

	c.emitLoopTest(loopBlock, contBlock)

	c.cur = contBlock
}

func (c *Codegen) emitLoopTest(loopBlock, contBlock *ir.Block) {
	val := c.cur.NewLoad(types.I32, c.currentCellPtr())
	cmp := c.cur.NewICmp(enum.IPredNE, val, constant.NewInt(types.I32, 0))
	c.cur.NewCondBr(cmp, loopBlock, contBlock)
}

func (c *Codegen) loadTapePos() value.Value {
	return c.cur.NewLoad(types.I32, c.tapePos)
}

func (c *Codegen) currentCellPtr() value.Value {
	return c.cellPtrAtIndex(c.loadTapePos())
}

func (c *Codegen) cellPtrAtOffset(offset int32) value.Value {
	if offset == 0 {
		return c.currentCellPtr()
	}
	idx := c.cur.NewAdd(c.loadTapePos(), constant.NewInt(types.I32, int64(offset)))
	return c.cellPtrAtIndex(idx)
}

func (c *Codegen) cellPtrAtIndex(idx value.Value) value.Value {
	zero := constant.NewInt(types.I32, 0)
	return c.cur.NewGetElementPtr(c.tape.ContentType, c.tape, zero, idx)
}
