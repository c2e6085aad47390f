// Package compiler sequences the lexer, parser, optimizer and code
// generator into one call, and owns handing the result to
// internal/toolchain for object emission. It is the "external collaborators
// out of scope" boundary from spec.md §1: Compile takes a source string,
// Result.WriteObject takes the output path, and neither touches argv, env,
// or the linker.
package compiler

import (
	"log/slog"
	"os"

	"brainfc/internal/codegen"
	"brainfc/internal/errors"
	"brainfc/internal/ir"
	"brainfc/internal/lexer"
	"brainfc/internal/optimizer"
	"brainfc/internal/parser"
	"brainfc/internal/toolchain"

	llvmir "github.com/llir/llvm/ir"
)

// Options configures one Compile call.
type Options struct {
	Logger *slog.Logger
}

// Result carries every intermediate form the CLI's --show-* flags can
// request. The LLVM module itself is kept unexported: callers request
// object emission through WriteObject so the textual IR can be inspected
// (--show-llvm-ir) before llc is invoked, matching the ordering the
// original implementation's create_binary used.
type Result struct {
	Parsed    ir.Program
	Optimized ir.Program
	LLVMIR    string

	module *llvmir.Module
}

// WriteObject emits Result's module as a relocatable object at path, using
// tc (defaulting to toolchain.LLC{} when nil).
func (r *Result) WriteObject(tc toolchain.Toolchain, path string) error {
	if tc == nil {
		tc = toolchain.LLC{}
	}
	return tc.WriteObject(r.module, path)
}

// Compile runs Lex -> Parse -> Optimize -> Codegen over source. Object
// emission is a separate step via Result.WriteObject, so the caller can
// inspect any intermediate form first.
func Compile(source string, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}

	logger.Info("lexing")
	ops := lexer.Lex(source)

	logger.Info("parsing", "ops", len(ops))
	parsed, err := parser.Parse(ops)
	if err != nil {
		return nil, err
	}

	logger.Info("optimizing", "blocks", len(parsed))
	optimized := optimizer.NewManager().Optimize(parsed)

	logger.Info("generating code")
	module := codegen.New().Compile(optimized)

	return &Result{
		Parsed:    parsed,
		Optimized: optimized,
		LLVMIR:    toolchain.EmitIR(module),
		module:    module,
	}, nil
}

// ReadSource loads a source file, tagging a missing/unreadable file as
// InputUnavailable (spec.md §7).
func ReadSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrap(errors.InputUnavailable, "reading "+path, err)
	}
	return string(data), nil
}
