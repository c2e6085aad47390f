// Package link invokes the system C compiler to turn a relocatable object
// file produced by internal/toolchain into a runnable executable, linked
// against libc for the getchar/putchar/calloc symbols the generated module
// calls. This is the "external collaborators are out of scope for the
// compiler core" boundary from spec.md §1: linking is glue, not compiler.
package link

import (
	"os"
	"os/exec"

	"brainfc/internal/errors"
)

// Linker links a single object file into an executable.
type Linker struct {
	// CC overrides the C compiler invoked. Empty means "cc" on PATH.
	CC string
}

// Link runs `cc objectPath -o outputPath`.
func (l Linker) Link(objectPath, outputPath string) error {
	cc := l.CC
	if cc == "" {
		cc = "cc"
	}

	cmd := exec.Command(cc, objectPath, "-o", outputPath)
	cmd.Stderr = os.Stderr
	cmd.Stdout = os.Stdout
	if err := cmd.Run(); err != nil {
		return errors.Wrap(errors.ObjectWriteFailure, "linking with "+cc, err)
	}
	return nil
}

// Available reports whether the configured C compiler can be located.
func (l Linker) Available() bool {
	cc := l.CC
	if cc == "" {
		cc = "cc"
	}
	_, err := exec.LookPath(cc)
	return err == nil
}
