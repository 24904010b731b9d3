package lsp

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	cerrors "minicc/internal/errors"
	"minicc/internal/parser"
)

// convertScanErrors turns lexical errors into LSP diagnostics. Scan errors
// carry no span, so each gets a small fixed-width underline.
func convertScanErrors(scanErrors []parser.ScanError) []protocol.Diagnostic {
	var diagnostics []protocol.Diagnostic
	for _, se := range scanErrors {
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range:    lineRange(se.Position.Line, se.Position.Column, 1),
			Severity: ptrSeverity(protocol.DiagnosticSeverityError),
			Source:   ptrString("minicc-scanner"),
			Message:  se.Message,
		})
	}
	return diagnostics
}

// convertParseErrors turns syntax errors into LSP diagnostics.
func convertParseErrors(parseErrors []parser.ParseError) []protocol.Diagnostic {
	var diagnostics []protocol.Diagnostic
	for _, pe := range parseErrors {
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range:    lineRange(pe.Position.Line, pe.Position.Column, 1),
			Severity: ptrSeverity(protocol.DiagnosticSeverityError),
			Source:   ptrString("minicc-parser"),
			Message:  pe.Message,
		})
	}
	return diagnostics
}

// convertCompilerErrors turns type-checking and lowering errors into LSP
// diagnostics, reusing each CompilerError's reported span.
func convertCompilerErrors(errs []cerrors.CompilerError) []protocol.Diagnostic {
	var diagnostics []protocol.Diagnostic
	for _, ce := range errs {
		length := ce.Length
		if length <= 0 {
			length = 1
		}
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range:    lineRange(ce.Position.Line, ce.Position.Column, length),
			Severity: ptrSeverity(severityOf(ce.Level)),
			Source:   ptrString("minicc [" + ce.Code + "]"),
			Message:  ce.Message,
		})
	}
	return diagnostics
}

func severityOf(level cerrors.ErrorLevel) protocol.DiagnosticSeverity {
	switch level {
	case cerrors.Warning:
		return protocol.DiagnosticSeverityWarning
	case cerrors.Note:
		return protocol.DiagnosticSeverityInformation
	case cerrors.Help:
		return protocol.DiagnosticSeverityHint
	default:
		return protocol.DiagnosticSeverityError
	}
}

func lineRange(line, column, length int) protocol.Range {
	startChar := uint32(0)
	if column > 0 {
		startChar = uint32(column - 1)
	}
	return protocol.Range{
		Start: protocol.Position{Line: uint32(line - 1), Character: startChar},
		End:   protocol.Position{Line: uint32(line - 1), Character: startChar + uint32(length)},
	}
}
