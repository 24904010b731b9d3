package ast

import "strings"

// Program is the root of a parsed source file: a sequence of global
// variable/const declarations and function definitions, in source order.
type Program struct {
	Pos, EndPos Position
	Decls       []Decl
	metadata    *Metadata
}

func (p *Program) NodePos() Position     { return p.Pos }
func (p *Program) NodeEndPos() Position  { return p.EndPos }
func (*Program) NodeType() NodeType      { return PROGRAM }
func (p *Program) GetMetadata() *Metadata  { return p.metadata }
func (p *Program) SetMetadata(m *Metadata) { p.metadata = m }
func (p *Program) String() string {
	var b strings.Builder
	for _, d := range p.Decls {
		b.WriteString(d.String())
		b.WriteString("\n")
	}
	return b.String()
}

// Decl is any top-level declaration: a function definition or a global
// variable/const declaration.
type Decl interface {
	Node
	declNode()
}

// TypeName is the source-level type spelling: "int" or "void". minicc has
// no user-declared types, so a bare string is sufficient here; the actual
// *types.Type is resolved during lowering.
type TypeName string

const (
	TypeInt  TypeName = "int"
	TypeVoid TypeName = "void"
)

// Param is a single function parameter: a type and a name.
type Param struct {
	Pos, EndPos Position
	Type        TypeName
	Name        *Ident
	metadata    *Metadata
}

func (p *Param) NodePos() Position     { return p.Pos }
func (p *Param) NodeEndPos() Position  { return p.EndPos }
func (*Param) NodeType() NodeType      { return FUNC_PARAM }
func (p *Param) GetMetadata() *Metadata  { return p.metadata }
func (p *Param) SetMetadata(m *Metadata) { p.metadata = m }
func (p *Param) String() string          { return string(p.Type) + " " + p.Name.String() }

// FuncDecl is a function definition: return type, name, parameters, body.
// minicc has no separate prototype/definition split; every FuncDecl carries
// a body.
type FuncDecl struct {
	Pos, EndPos Position
	ReturnType  TypeName
	Name        *Ident
	Params      []*Param
	Body        *Block
	metadata    *Metadata
}

func (f *FuncDecl) NodePos() Position     { return f.Pos }
func (f *FuncDecl) NodeEndPos() Position  { return f.EndPos }
func (*FuncDecl) NodeType() NodeType      { return FUNC_DECL }
func (*FuncDecl) declNode()               {}
func (f *FuncDecl) GetMetadata() *Metadata  { return f.metadata }
func (f *FuncDecl) SetMetadata(m *Metadata) { f.metadata = m }
func (f *FuncDecl) String() string {
	var b strings.Builder
	b.WriteString(string(f.ReturnType))
	b.WriteString(" ")
	b.WriteString(f.Name.String())
	b.WriteString("(")
	for i, p := range f.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.String())
	}
	b.WriteString(") ")
	b.WriteString(f.Body.String())
	return b.String()
}

// VarDecl is a global or local variable declaration, with an optional
// initializer. At global scope the initializer must fold to a compile-time
// constant; at local scope it may not (locals are never constant-folded).
type VarDecl struct {
	Pos, EndPos Position
	Type        TypeName
	Name        *Ident
	Init        Expr // may be nil
	IsGlobal    bool
	metadata    *Metadata
}

func (v *VarDecl) NodePos() Position     { return v.Pos }
func (v *VarDecl) NodeEndPos() Position  { return v.EndPos }
func (*VarDecl) NodeType() NodeType      { return VAR_DECL }
func (*VarDecl) declNode()               {}
func (*VarDecl) stmtNode()               {}
func (v *VarDecl) GetMetadata() *Metadata  { return v.metadata }
func (v *VarDecl) SetMetadata(m *Metadata) { v.metadata = m }
func (v *VarDecl) String() string {
	s := string(v.Type) + " " + v.Name.String()
	if v.Init != nil {
		s += " = " + v.Init.String()
	}
	return s + ";"
}

// ConstDecl is a global or local const declaration. Its initializer must
// fold to a compile-time constant regardless of scope.
type ConstDecl struct {
	Pos, EndPos Position
	Type        TypeName
	Name        *Ident
	Init        Expr
	IsGlobal    bool
	metadata    *Metadata
}

func (c *ConstDecl) NodePos() Position     { return c.Pos }
func (c *ConstDecl) NodeEndPos() Position  { return c.EndPos }
func (*ConstDecl) NodeType() NodeType      { return CONST_DECL }
func (*ConstDecl) declNode()               {}
func (*ConstDecl) stmtNode()               {}
func (c *ConstDecl) GetMetadata() *Metadata  { return c.metadata }
func (c *ConstDecl) SetMetadata(m *Metadata) { c.metadata = m }
func (c *ConstDecl) String() string {
	return "const " + string(c.Type) + " " + c.Name.String() + " = " + c.Init.String() + ";"
}
