// Package toolchain is the compiler's only point of contact with the host
// LLVM installation. github.com/llir/llvm can construct and print modules
// but carries no target-machine or object-writer backend of its own, so
// object emission is done by handing the module's textual IR to an external
// llc process — the host-capability boundary spec.md §9 sanctions for
// languages without LLVM bindings.
package toolchain

import (
	"os"
	"os/exec"
	"path/filepath"

	"brainfc/internal/errors"

	"github.com/llir/llvm/ir"
)

// Toolchain emits object files from a finished LLVM module.
type Toolchain interface {
	// WriteObject renders module to textual IR and compiles it to a
	// relocatable object at path, via llc.
	WriteObject(module *ir.Module, path string) error
}

// LLC shells out to the `llc` binary found on PATH (or at Path, if set).
type LLC struct {
	// Path overrides the llc binary name/location. Empty means "llc" on
	// PATH.
	Path string
}

// EmitIR renders module to its textual LLVM IR form. Exposed separately
// from WriteObject so cmd/bfc can print it under --show-llvm-ir without
// also invoking llc.
func EmitIR(module *ir.Module) string {
	return module.String()
}

// WriteObject writes module's object code to path. It writes to a sibling
// temp file first and renames into place, so a failing or interrupted llc
// invocation never leaves a partial object at path (spec.md §5).
func (l LLC) WriteObject(module *ir.Module, path string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".bfc-obj-*.tmp")
	if err != nil {
		return errors.Wrap(errors.ObjectWriteFailure, "creating temp object file", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	irPath := tmpPath + ".ll"
	if err := os.WriteFile(irPath, []byte(EmitIR(module)), 0o644); err != nil {
		tmp.Close()
		return errors.Wrap(errors.ObjectWriteFailure, "writing textual IR", err)
	}
	defer os.Remove(irPath)
	tmp.Close()

	llc := l.Path
	if llc == "" {
		llc = "llc"
	}

	cmd := exec.Command(llc, "-filetype=obj", "-o", tmpPath, irPath)
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return errors.Wrap(errors.ObjectWriteFailure, "invoking llc", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return errors.Wrap(errors.ObjectWriteFailure, "installing object file", err)
	}
	return nil
}

// Available reports whether llc can be located on PATH (or at l.Path).
func (l LLC) Available() bool {
	llc := l.Path
	if llc == "" {
		llc = "llc"
	}
	_, err := exec.LookPath(llc)
	return err == nil
}
