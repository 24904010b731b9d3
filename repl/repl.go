// Package repl is a minimal interactive front end for minicc: it buffers
// lines until a blank line is entered, parses the buffer as a whole
// program, and prints the lowered IR.
package repl

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"minicc/internal/ast"
	cerrors "minicc/internal/errors"
	"minicc/internal/ir"
	"minicc/internal/lowering"
	"minicc/internal/parser"
)

const PROMPT = ">> "
const CONT = ".. "

// Start runs the REPL loop over in, writing prompts and output to out.
func Start(in io.Reader, out io.Writer) {
	scanner := bufio.NewScanner(in)
	var buf bytes.Buffer

	prompt := PROMPT
	for {
		fmt.Fprint(out, prompt)
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()

		if strings.TrimSpace(line) == "" {
			if buf.Len() > 0 {
				run(out, buf.String())
				buf.Reset()
			}
			prompt = PROMPT
			continue
		}

		buf.WriteString(line)
		buf.WriteString("\n")
		prompt = CONT
	}
}

func run(out io.Writer, source string) {
	prog, parseErrs, scanErrs := parser.ParseSource("<repl>", source)
	reporter := cerrors.NewErrorReporter("<repl>", source)

	if len(scanErrs) > 0 || len(parseErrs) > 0 {
		for _, se := range scanErrs {
			fmt.Fprint(out, reporter.FormatError(cerrors.CompilerError{
				Level: cerrors.Error, Message: se.Message,
				Position: ast.Position{Line: se.Position.Line, Column: se.Position.Column},
				Length:   1,
			}))
		}
		for _, pe := range parseErrs {
			fmt.Fprint(out, reporter.FormatError(cerrors.CompilerError{
				Level: cerrors.Error, Message: pe.Message,
				Position: ast.Position{Line: pe.Position.Line, Column: pe.Position.Column},
				Length:   1,
			}))
		}
		return
	}

	mod, compileErrs := lowering.Lower(prog)
	if len(compileErrs) > 0 {
		for _, ce := range compileErrs {
			fmt.Fprint(out, reporter.FormatError(ce))
		}
		return
	}

	fmt.Fprint(out, ir.Print(mod))
}
