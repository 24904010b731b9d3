package ast

import "fmt"

// Expr is any expression node.
type Expr interface {
	Node
	exprNode()
}

// BinOp enumerates the binary operators the grammar recognizes. Precedence
// is not encoded by this enum; the parser's binaryPrecedence table assigns
// it.
type BinOp int

const (
	OpAdd BinOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpLt
	OpLe
	OpGt
	OpGe
	OpEq
	OpNe
	OpAnd // &&
	OpOr  // ||
)

func (op BinOp) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpMod:
		return "%"
	case OpLt:
		return "<"
	case OpLe:
		return "<="
	case OpGt:
		return ">"
	case OpGe:
		return ">="
	case OpEq:
		return "=="
	case OpNe:
		return "!="
	case OpAnd:
		return "&&"
	case OpOr:
		return "||"
	default:
		return "?"
	}
}

// IsComparison reports whether op produces an i1 result directly comparable
// to zero/one, as opposed to an arithmetic i32 result.
func (op BinOp) IsComparison() bool {
	switch op {
	case OpLt, OpLe, OpGt, OpGe, OpEq, OpNe:
		return true
	default:
		return false
	}
}

// IsLogical reports whether op is a short-circuiting boolean connective.
func (op BinOp) IsLogical() bool {
	return op == OpAnd || op == OpOr
}

// BinaryExpr is a binary operator application. Typechecking may rewrite a
// BinaryExpr's operands in place (wrapping one side in an Ext) to widen i1
// to i32 before lowering ever sees the tree; lowering itself performs no
// widening.
type BinaryExpr struct {
	Pos, EndPos Position
	Op          BinOp
	Left, Right Expr
	metadata    *Metadata
}

func (e *BinaryExpr) NodePos() Position     { return e.Pos }
func (e *BinaryExpr) NodeEndPos() Position  { return e.EndPos }
func (*BinaryExpr) NodeType() NodeType      { return BINARY_EXPR }
func (*BinaryExpr) exprNode()               {}
func (e *BinaryExpr) GetMetadata() *Metadata  { return e.metadata }
func (e *BinaryExpr) SetMetadata(m *Metadata) { e.metadata = m }
func (e *BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", e.Left.String(), e.Op.String(), e.Right.String())
}

// UnaryOp enumerates the prefix operators: arithmetic negation and logical
// not.
type UnaryOp int

const (
	OpNeg UnaryOp = iota // unary -
	OpNot                // !
)

func (op UnaryOp) String() string {
	if op == OpNot {
		return "!"
	}
	return "-"
}

// UnaryExpr is a prefix operator application.
type UnaryExpr struct {
	Pos, EndPos Position
	Op          UnaryOp
	X           Expr
	metadata    *Metadata
}

func (e *UnaryExpr) NodePos() Position     { return e.Pos }
func (e *UnaryExpr) NodeEndPos() Position  { return e.EndPos }
func (*UnaryExpr) NodeType() NodeType      { return UNARY_EXPR }
func (*UnaryExpr) exprNode()               {}
func (e *UnaryExpr) GetMetadata() *Metadata  { return e.metadata }
func (e *UnaryExpr) SetMetadata(m *Metadata) { e.metadata = m }
func (e *UnaryExpr) String() string          { return e.Op.String() + e.X.String() }

// ExtExpr is never produced by the parser: typechecking inserts it in place
// of a bare i1-typed subexpression wherever an i32 is required, so that
// lowering can emit a plain sext instruction without re-deriving the need
// for one. ToWidth is always 32 in this language (i1 -> i32).
type ExtExpr struct {
	Pos, EndPos Position
	X           Expr
	ToWidth     int
	metadata    *Metadata
}

func (e *ExtExpr) NodePos() Position     { return e.Pos }
func (e *ExtExpr) NodeEndPos() Position  { return e.EndPos }
func (*ExtExpr) NodeType() NodeType      { return UNARY_EXPR }
func (*ExtExpr) exprNode()               {}
func (e *ExtExpr) GetMetadata() *Metadata  { return e.metadata }
func (e *ExtExpr) SetMetadata(m *Metadata) { e.metadata = m }
func (e *ExtExpr) String() string          { return fmt.Sprintf("sext(%s)", e.X.String()) }

// CallExpr invokes a declared function with a fixed argument list. minicc
// has no varargs and no first-class function values.
type CallExpr struct {
	Pos, EndPos Position
	Callee      *Ident
	Args        []Expr
	metadata    *Metadata
}

func (e *CallExpr) NodePos() Position     { return e.Pos }
func (e *CallExpr) NodeEndPos() Position  { return e.EndPos }
func (*CallExpr) NodeType() NodeType      { return CALL_EXPR }
func (*CallExpr) exprNode()               {}
func (e *CallExpr) GetMetadata() *Metadata  { return e.metadata }
func (e *CallExpr) SetMetadata(m *Metadata) { e.metadata = m }
func (e *CallExpr) String() string {
	s := e.Callee.String() + "("
	for i, a := range e.Args {
		if i > 0 {
			s += ", "
		}
		s += a.String()
	}
	return s + ")"
}

// LiteralExpr is an integer literal. minicc has no float, string, or
// character literals.
type LiteralExpr struct {
	Pos, EndPos Position
	Value       int64
	metadata    *Metadata
}

func (e *LiteralExpr) NodePos() Position     { return e.Pos }
func (e *LiteralExpr) NodeEndPos() Position  { return e.EndPos }
func (*LiteralExpr) NodeType() NodeType      { return LITERAL_EXPR }
func (*LiteralExpr) exprNode()               {}
func (e *LiteralExpr) GetMetadata() *Metadata  { return e.metadata }
func (e *LiteralExpr) SetMetadata(m *Metadata) { e.metadata = m }
func (e *LiteralExpr) String() string          { return fmt.Sprintf("%d", e.Value) }

// IdentExpr is a name used in expression position. Sym is nil after
// parsing and holds the *symbols.Entry bound by the lowering pass's
// typechecking (name resolution happens there, not in the parser); it is typed
// any here (rather than *symbols.Entry) so this package never imports
// minicc/internal/symbols, which in turn imports this package for
// ast.Position.
type IdentExpr struct {
	Pos, EndPos Position
	Name        string
	Sym         any
	metadata    *Metadata
}

func (e *IdentExpr) NodePos() Position     { return e.Pos }
func (e *IdentExpr) NodeEndPos() Position  { return e.EndPos }
func (*IdentExpr) NodeType() NodeType      { return IDENT_EXPR }
func (*IdentExpr) exprNode()               {}
func (e *IdentExpr) GetMetadata() *Metadata  { return e.metadata }
func (e *IdentExpr) SetMetadata(m *Metadata) { e.metadata = m }
func (e *IdentExpr) String() string          { return e.Name }
