// ast.go: typed syntax tree produced by the parser.
//
// Expressions and statements are small structs behind the Expr and Stmt
// interfaces. Children are owned by their parent; trees are finite and
// acyclic. Every node records the position of its first token so runtime
// diagnostics can point at source.
package weave

// Pos is a 1-based source position.
type Pos struct {
	Line int
	Col  int
}

func posOf(t Token) Pos { return Pos{Line: t.Line, Col: t.Col} }

// Node is implemented by every expression and statement.
type Node interface {
	Position() Pos
}

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Program is the top-level statement list (no braces).
type Program struct {
	Stmts []Stmt
}

// ─────────────────────────────── types ───────────────────────────────

// TypeKind discriminates TypeAnn.
type TypeKind int

const (
	TypeStr TypeKind = iota
	TypeNumber
	TypeBool
	TypeCustom // struct or union alias, resolved at evaluation time
)

// TypeAnn is a parameter, return or field type annotation.
type TypeAnn struct {
	Kind TypeKind
	Name string // only for TypeCustom
}

func (t TypeAnn) String() string {
	switch t.Kind {
	case TypeStr:
		return "str"
	case TypeNumber:
		return "number"
	case TypeBool:
		return "bool"
	default:
		return t.Name
	}
}

// ───────────────────────────── expressions ─────────────────────────────

// LiteralKind discriminates Literal.
type LiteralKind int

const (
	LitNil LiteralKind = iota
	LitBool
	LitNumber
	LitString
)

type Literal struct {
	Pos
	Kind  LiteralKind
	Value interface{} // bool, float64 or string; nil for LitNil
}

type Ident struct {
	Pos
	Name string
}

// BinaryOp is one of the infix operators.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpEq
	OpNeq
	OpLess
	OpLessEq
	OpGreater
	OpGreaterEq
)

var binaryOpText = [...]string{
	OpAdd:       "+",
	OpSub:       "-",
	OpMul:       "*",
	OpDiv:       "/",
	OpEq:        "==",
	OpNeq:       "!=",
	OpLess:      "<",
	OpLessEq:    "<=",
	OpGreater:   ">",
	OpGreaterEq: ">=",
}

func (op BinaryOp) String() string { return binaryOpText[op] }

type Binary struct {
	Pos
	Left  Expr
	Op    BinaryOp
	Right Expr
}

// UnaryOp is a prefix operator.
type UnaryOp int

const (
	OpNeg UnaryOp = iota
	OpNot
)

func (op UnaryOp) String() string {
	if op == OpNeg {
		return "-"
	}
	return "!"
}

type Unary struct {
	Pos
	Op      UnaryOp
	Operand Expr
}

// Call is `callee(args...)`. Method syntax `obj.m(a)` is parsed into a Call
// whose callee is Ident{m} and whose first argument is obj.
type Call struct {
	Pos
	Callee Expr
	Args   []Expr
}

type Grouping struct {
	Pos
	Inner Expr
}

// FieldInit is one `name: expr` entry of a struct literal.
type FieldInit struct {
	Pos
	Name  string
	Value Expr
}

type StructLit struct {
	Pos
	Name   string
	Fields []FieldInit
}

type FieldAccess struct {
	Pos
	Object Expr
	Field  string
}

func (*Literal) exprNode()     {}
func (*Ident) exprNode()       {}
func (*Binary) exprNode()      {}
func (*Unary) exprNode()       {}
func (*Call) exprNode()        {}
func (*Grouping) exprNode()    {}
func (*StructLit) exprNode()   {}
func (*FieldAccess) exprNode() {}

// ───────────────────────────── statements ─────────────────────────────

type ExprStmt struct {
	Pos
	X Expr
}

type LetStmt struct {
	Pos
	Name  string
	Value Expr
}

// Param is a function parameter with an optional type.
type Param struct {
	Name string
	Type *TypeAnn
}

type FnDecl struct {
	Pos
	Name    string
	Params  []Param
	RetType *TypeAnn
	Body    []Stmt
}

type IfStmt struct {
	Pos
	Cond Expr
	Then []Stmt
	Else []Stmt // nil when absent
}

type WhileStmt struct {
	Pos
	Cond Expr
	Body []Stmt
}

type ReturnStmt struct {
	Pos
	Value Expr // nil for a bare return
}

type BlockStmt struct {
	Pos
	Stmts []Stmt
}

// FieldDecl is one `name: type` entry of a struct declaration.
type FieldDecl struct {
	Name string
	Type TypeAnn
}

type StructDecl struct {
	Pos
	Name   string
	Fields []FieldDecl
}

type TypeAlias struct {
	Pos
	Name     string
	Variants []string
}

func (*ExprStmt) stmtNode()   {}
func (*LetStmt) stmtNode()    {}
func (*FnDecl) stmtNode()     {}
func (*IfStmt) stmtNode()     {}
func (*WhileStmt) stmtNode()  {}
func (*ReturnStmt) stmtNode() {}
func (*BlockStmt) stmtNode()  {}
func (*StructDecl) stmtNode() {}
func (*TypeAlias) stmtNode()  {}

// Position implements Node for every embedded Pos.
func (p Pos) Position() Pos { return p }
