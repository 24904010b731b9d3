package ir

import (
	"fmt"
	"strings"
)

// Printer renders a Module in an LLVM-like textual form.
type Printer struct {
	indent int
	output strings.Builder
}

// NewPrinter creates a new IR printer.
func NewPrinter() *Printer {
	return &Printer{}
}

// Print returns the textual form of mod.
func Print(mod *Module) string {
	p := NewPrinter()
	p.printModule(mod)
	return p.output.String()
}

func (p *Printer) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.output.WriteString("  ")
	}
}

func (p *Printer) writeLine(format string, args ...any) {
	p.writeIndent()
	p.output.WriteString(fmt.Sprintf(format, args...))
	p.output.WriteString("\n")
}

func (p *Printer) printModule(mod *Module) {
	p.writeLine("; Module: %s", mod.Name)
	p.writeLine("")

	for _, g := range mod.Globals {
		kind := "global"
		if g.IsConst {
			kind = "constant"
		}
		if g.Value != nil {
			p.writeLine("@%s = %s %s %d", g.Name, kind, g.Type.String(), *g.Value)
		} else {
			p.writeLine("@%s = %s %s", g.Name, kind, g.Type.String())
		}
	}
	if len(mod.Globals) > 0 {
		p.writeLine("")
	}

	for i, fn := range mod.Functions {
		if i > 0 {
			p.writeLine("")
		}
		p.printFunction(fn)
	}
}

func (p *Printer) printFunction(fn *Function) {
	params := ""
	for i, t := range fn.ParamTypes {
		if i > 0 {
			params += ", "
		}
		name := ""
		if i < len(fn.ParamNames) {
			name = " %" + fn.ParamNames[i]
		}
		params += t.String() + name
	}
	p.writeLine("define %s @%s(%s) {", fn.RetType.String(), fn.Name, params)
	p.indent++
	for _, b := range fn.Blocks {
		p.printBlock(b)
	}
	p.indent--
	p.writeLine("}")
}

func (p *Printer) printBlock(b *BasicBlock) {
	p.writeIndent()
	p.output.WriteString(b.Label)
	p.output.WriteString(":")
	if len(b.Preds) > 0 {
		preds := make([]string, len(b.Preds))
		for i, pr := range b.Preds {
			preds[i] = pr.Label
		}
		p.output.WriteString("    ; preds: " + strings.Join(preds, ", "))
	}
	p.output.WriteString("\n")

	p.indent++
	for _, inst := range b.Instructions {
		p.writeLine("%s", inst.String())
	}
	p.indent--
}
