// Command bfc is the ahead-of-time compiler's CLI: read a source file, run
// it through internal/compiler, then link the resulting object with
// internal/link into a runnable executable.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"brainfc/internal/compiler"
	bferrors "brainfc/internal/errors"
	"brainfc/internal/link"

	"github.com/fatih/color"
)

var (
	errColor  = color.New(color.FgRed, color.Bold)
	infoColor = color.New(color.Bold)
)

func reportError(msg string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", errColor.Sprint("error:"), msg)
}

func reportInfo(msg string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", infoColor.Sprint("info:"), msg)
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("bfc", flag.ContinueOnError)
	output := fs.String("o", "", "output executable path (default: out)")
	fs.StringVar(output, "output", "", "output executable path (default: out)")
	showParsed := fs.Bool("show-parsed", false, "print the parsed program")
	showOptimized := fs.Bool("show-optimized", false, "print the optimized program")
	showLLVMIR := fs.Bool("show-llvm-ir", false, "print the generated LLVM IR")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: bfc [flags] <input>")
		fs.PrintDefaults()
		return 2
	}
	input := fs.Arg(0)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	logger.Debug("parsed args", "input", input, "output", *output, "show-parsed", *showParsed,
		"show-optimized", *showOptimized, "show-llvm-ir", *showLLVMIR)

	outputPath := *output
	if outputPath == "" {
		outputPath = "out"
	}
	objectPath := strings.TrimSuffix(outputPath, filepath.Ext(outputPath)) + ".o"

	source, err := compiler.ReadSource(input)
	if err != nil {
		reportError(fmt.Sprintf("could not open %q", input))
		return 1
	}

	reportInfo("Parsing...")
	reportInfo("Optimizing...")
	reportInfo("Compiling...")

	result, err := compiler.Compile(source, compiler.Options{Logger: logger})
	if err != nil {
		var ce *bferrors.CompileError
		if errors.As(err, &ce) {
			reportError(ce.Error())
		} else {
			reportError(err.Error())
		}
		return 1
	}

	if *showParsed {
		fmt.Println(result.Parsed.String())
	}
	if *showOptimized {
		fmt.Println(result.Optimized.String())
	}
	if *showLLVMIR {
		fmt.Fprintln(os.Stderr, result.LLVMIR)
	}

	if err := result.WriteObject(nil, objectPath); err != nil {
		reportError(err.Error())
		return 1
	}

	linker := link.Linker{}
	reportInfo("Linking with cc...")
	if err := linker.Link(objectPath, outputPath); err != nil {
		reportError(err.Error())
		return 1
	}

	reportInfo(fmt.Sprintf("Done (%s)", outputPath))
	return 0
}
