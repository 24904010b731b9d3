// Package main is the minicc command-line front end: read a source file,
// parse it, lower it to IR, and print the result.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"

	"minicc/internal/ast"
	cerrors "minicc/internal/errors"
	"minicc/internal/ir"
	"minicc/internal/lowering"
	"minicc/internal/parser"
	"minicc/repl"
)

func main() {
	emitAST := flag.Bool("emit-ast", false, "print the parsed AST instead of lowering it")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: minicc [-emit-ast] [file.c]\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		repl.Start(os.Stdin, os.Stdout)
		return
	}
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}

	path := flag.Arg(0)
	source, err := os.ReadFile(path)
	if err != nil {
		color.Red("failed to read %s: %s", path, err)
		os.Exit(1)
	}

	prog, parseErrs, scanErrs := parser.ParseSource(path, string(source))
	reporter := cerrors.NewErrorReporter(path, string(source))

	if len(scanErrs) > 0 || len(parseErrs) > 0 {
		for _, se := range scanErrs {
			fmt.Print(reporter.FormatError(scanError(se.Message, se.Position)))
		}
		for _, pe := range parseErrs {
			fmt.Print(reporter.FormatError(parseError(pe.Message, pe.Position)))
		}
		os.Exit(1)
	}

	if *emitAST {
		var buf bytes.Buffer
		ast.NewPrinter(&buf).Print(prog)
		fmt.Print(buf.String())
		return
	}

	mod, compileErrs := lowering.Lower(prog)
	if len(compileErrs) > 0 {
		for _, ce := range compileErrs {
			fmt.Print(reporter.FormatError(ce))
		}
		os.Exit(1)
	}

	fmt.Print(ir.Print(mod))
}

func scanError(message string, pos parser.Position) cerrors.CompilerError {
	return cerrors.CompilerError{
		Level:   cerrors.Error,
		Code:    "E0101",
		Message: message,
		Position: astPosition(pos),
		Length:  1,
	}
}

func parseError(message string, pos parser.Position) cerrors.CompilerError {
	return cerrors.CompilerError{
		Level:   cerrors.Error,
		Code:    "E0100",
		Message: message,
		Position: astPosition(pos),
		Length:  1,
	}
}

func astPosition(pos parser.Position) ast.Position {
	return ast.Position{Offset: pos.Offset, Line: pos.Line, Column: pos.Column}
}
