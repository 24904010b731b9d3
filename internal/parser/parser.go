// Package parser implements minicc's hand-rolled recursive-descent and
// Pratt-precedence parser: a Scanner produces a flat token stream, and
// Parser walks it to build a plain, unresolved internal/ast.Program (every
// Sym field left nil) for minicc/internal/lowering to resolve and
// typecheck. There is no separate symbol table here; name resolution is
// entirely the lowering pass's job.
package parser

import (
	"minicc/internal/ast"
)

// ParseError is a syntax error recovered from by skipping to the next
// plausible statement boundary, so a single file can report more than one.
type ParseError struct {
	Message  string
	Position Position
}

// Parser consumes a fixed token slice with a single lookahead cursor; there
// is no backtracking; ambiguous constructs (assignment vs. a bare call
// expression statement) are resolved by parsing the full expression first
// and inspecting the next token, never by re-parsing.
type Parser struct {
	filename string
	tokens   []Token
	current  int
	errors   []ParseError
}

// NewParser returns a Parser over tokens, tagging every position it builds
// with filename.
func NewParser(filename string, tokens []Token) *Parser {
	return &Parser{filename: filename, tokens: tokens}
}

// ParseSource scans and parses source, returning the parsed program
// alongside any lexical and syntax errors encountered. A non-nil Program
// is still returned when errors occurred, best-effort, so that callers
// that want to keep going (e.g. an LSP) have something to work with.
func ParseSource(filename, source string) (*ast.Program, []ParseError, []ScanError) {
	scanner := NewScanner(source)
	tokens := scanner.ScanTokens()

	p := NewParser(filename, tokens)
	prog := p.parseProgram()

	return prog, p.errors, scanner.errors
}
