package errors

import (
	"fmt"

	"minicc/internal/ast"
)

// SemanticErrorBuilder provides a fluent interface for creating semantic errors with suggestions.
type SemanticErrorBuilder struct {
	err CompilerError
}

// NewSemanticError creates a new semantic error builder.
func NewSemanticError(code, message string, pos ast.Position) *SemanticErrorBuilder {
	return &SemanticErrorBuilder{
		err: CompilerError{
			Level:    Error,
			Code:     code,
			Message:  message,
			Position: pos,
			Length:   1,
		},
	}
}

// WithLength sets the length of the error span.
func (b *SemanticErrorBuilder) WithLength(length int) *SemanticErrorBuilder {
	b.err.Length = length
	return b
}

// WithSuggestion adds a suggestion to the error.
func (b *SemanticErrorBuilder) WithSuggestion(message string) *SemanticErrorBuilder {
	b.err.Suggestions = append(b.err.Suggestions, Suggestion{Message: message})
	return b
}

// WithNote adds a note to the error.
func (b *SemanticErrorBuilder) WithNote(note string) *SemanticErrorBuilder {
	b.err.Notes = append(b.err.Notes, note)
	return b
}

// WithHelp adds help text to the error.
func (b *SemanticErrorBuilder) WithHelp(help string) *SemanticErrorBuilder {
	b.err.HelpText = help
	return b
}

// Build returns the completed compiler error.
func (b *SemanticErrorBuilder) Build() CompilerError {
	return b.err
}

// The constructors below are the §7 error kinds, one per documented case.

// UndeclaredIdentifier reports a name with no visible declaration.
func UndeclaredIdentifier(name string, pos ast.Position) CompilerError {
	return NewSemanticError(ErrorUndeclaredIdentifier, fmt.Sprintf("undeclared identifier '%s'", name), pos).
		WithLength(len(name)).
		WithSuggestion("make sure the identifier is declared before use in this scope").
		Build()
}

// Redeclaration reports a name already declared in the innermost scope.
func Redeclaration(name string, pos ast.Position) CompilerError {
	return NewSemanticError(ErrorRedeclaration, fmt.Sprintf("redeclaration of '%s'", name), pos).
		WithLength(len(name)).
		WithSuggestion(fmt.Sprintf("rename this '%s' or remove the earlier declaration", name)).
		WithNote("identifiers must be unique within their innermost scope").
		Build()
}

// TypeMismatch reports operands that cannot be unified by widening.
func TypeMismatch(site, got, expected string, pos ast.Position) CompilerError {
	return NewSemanticError(ErrorTypeMismatch,
		fmt.Sprintf("type mismatch in %s: got %s, expected %s", site, got, expected), pos).
		WithNote("only int-to-int widening is performed implicitly").
		Build()
}

// InvalidLValue reports an assignment whose target is not a plain identifier.
func InvalidLValue(pos ast.Position) CompilerError {
	return NewSemanticError(ErrorInvalidLValue, "invalid assignment target", pos).
		WithHelp("only a plain identifier may appear on the left of '='").
		Build()
}

// NonConstantInitializer reports a global/const initializer that didn't fold.
func NonConstantInitializer(name string, pos ast.Position) CompilerError {
	return NewSemanticError(ErrorNonConstantInitializer,
		fmt.Sprintf("initializer for '%s' is not a compile-time constant", name), pos).
		WithNote("global and const initializers may only reference literals and other constants").
		Build()
}

// DivisionByZero reports a division or modulus by a folded zero.
func DivisionByZero(pos ast.Position) CompilerError {
	return NewSemanticError(ErrorDivisionByZero, "division or modulus by zero in constant expression", pos).
		Build()
}

// BreakOutsideLoop reports a break with no enclosing while loop.
func BreakOutsideLoop(pos ast.Position) CompilerError {
	return NewSemanticError(ErrorBreakOutsideLoop, "break outside of a loop", pos).
		Build()
}

// ContinueOutsideLoop reports a continue with no enclosing while loop.
func ContinueOutsideLoop(pos ast.Position) CompilerError {
	return NewSemanticError(ErrorContinueOutsideLoop, "continue outside of a loop", pos).
		Build()
}

// ReturnTypeMismatch reports a return statement disagreeing with the function signature.
func ReturnTypeMismatch(functionName string, pos ast.Position) CompilerError {
	return NewSemanticError(ErrorReturnTypeMismatch,
		fmt.Sprintf("return statement does not match the return type of '%s'", functionName), pos).
		Build()
}

// InvalidArguments reports an arity mismatch at a call site.
func InvalidArguments(functionName string, expected, actual int, pos ast.Position) CompilerError {
	return NewSemanticError(ErrorInvalidArguments,
		fmt.Sprintf("function '%s' expects %d argument(s), got %d", functionName, expected, actual), pos).
		Build()
}
