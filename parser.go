// parser.go: recursive-descent parser for Weave.
//
// OVERVIEW
// --------
// The parser consumes the token slice produced by lexer.go and builds the
// typed tree defined in ast.go. Statements are dispatched on their first
// token; expressions use an explicit precedence ladder:
//
//	equality    ==  !=                 (lowest, left-assoc)
//	comparison  <  <=  >  >=           (left-assoc)
//	additive    +  -                   (left-assoc)
//	multiplic.  *  /                   (left-assoc)
//	unary       !  -                   (prefix, right-assoc)
//	postfix     f(args)  obj.name  obj.name(args)
//	primary     number string true false nil ident (expr)
//
// Method syntax is pure sugar: `obj.m(a, b)` becomes the call `m(obj, a, b)`.
//
// Struct literal vs block
// -----------------------
// `Name {` is ambiguous: `P { x: 1 }` is a struct literal, while in
// `if cond { print(1) }` the brace opens the then-block. After an identifier
// primary the parser looks two tokens past the `{`: only `IDENT :` makes it a
// struct literal. Otherwise the brace is left for the enclosing statement.
//
// Errors
// ------
// Every rejection is an *Error{Kind: DiagParse} naming the offending token.
// In interactive mode (REPL) a rejection at end of input is reported as
// DiagIncomplete instead, so the caller can read another line.
//
// Dependencies
// ------------
//   - lexer.go  (Token, TokenType, Tokenize)
//   - ast.go    (node types)
//   - errors.go (*Error, DiagParse, DiagIncomplete)
package weave

import (
	"fmt"
)

////////////////////////////////////////////////////////////////////////////////
//                                  PUBLIC API
////////////////////////////////////////////////////////////////////////////////

// Parse scans and parses a complete Weave program.
func Parse(src []byte) (*Program, error) {
	return ParseTokens(Tokenize(src))
}

// ParseTokens parses an already-scanned token slice. A missing trailing EOF
// is tolerated.
func ParseTokens(toks []Token) (*Program, error) {
	p := &parser{toks: toks}
	return p.program()
}

// ParseInteractive parses in REPL-friendly mode: unterminated constructs at
// end of input produce *Error{Kind: DiagIncomplete}.
func ParseInteractive(src []byte) (*Program, error) {
	p := &parser{toks: Tokenize(src), interactive: true}
	return p.program()
}

//// END_OF_PUBLIC

////////////////////////////////////////////////////////////////////////////////
///////////////////////////// PRIVATE IMPLEMENTATION ///////////////////////////
////////////////////////////////////////////////////////////////////////////////

type parser struct {
	toks        []Token
	i           int
	interactive bool
}

// ─────────────────────────── token basics & helpers ─────────────────────────

// current returns the token at the cursor, or EOF past the end.
func (p *parser) current() Token { return p.peekAt(0) }

func (p *parser) peekAt(k int) Token {
	if j := p.i + k; j < len(p.toks) {
		return p.toks[j]
	}
	if n := len(p.toks); n > 0 && p.toks[n-1].Type == EOF {
		return p.toks[n-1]
	}
	return p.eofAfterLast()
}

func (p *parser) eofAfterLast() Token {
	if n := len(p.toks); n > 0 {
		last := p.toks[n-1]
		return Token{Type: EOF, Line: last.Line, Col: last.Col + len(last.Lexeme), StartByte: last.EndByte, EndByte: last.EndByte}
	}
	return Token{Type: EOF, Line: 1, Col: 1}
}

func (p *parser) check(tt TokenType) bool { return p.current().Type == tt }

// advance moves the cursor forward, saturating at the end.
func (p *parser) advance() Token {
	t := p.current()
	if p.i < len(p.toks) {
		p.i++
	}
	return t
}

func (p *parser) match(tt TokenType) bool {
	if p.check(tt) {
		p.advance()
		return true
	}
	return false
}

func (p *parser) need(tt TokenType, what string) (Token, error) {
	if p.check(tt) {
		return p.advance(), nil
	}
	return Token{}, p.errExpected(what)
}

func (p *parser) needIdent(what string) (Token, error) {
	return p.need(ID, what)
}

func (p *parser) errAt(t Token, msg string) error {
	kind := DiagParse
	if p.interactive && t.Type == EOF {
		kind = DiagIncomplete
	}
	return &Error{Kind: kind, Msg: msg, Line: t.Line, Col: t.Col}
}

func (p *parser) errExpected(what string) error {
	g := p.current()
	return p.errAt(g, fmt.Sprintf("expected %s, got %s", what, tokDesc(g)))
}

func (p *parser) errUnexpected() error {
	g := p.current()
	return p.errAt(g, "unexpected "+tokDesc(g))
}

// tokDesc names a token for error messages: its kind plus its text.
func tokDesc(t Token) string {
	switch t.Type {
	case EOF:
		return "end of input"
	case ID:
		if t.Text() == unknownIdent {
			return fmt.Sprintf("unknown character %q", t.Lexeme)
		}
		return fmt.Sprintf("identifier %q", t.Text())
	case STRING:
		return fmt.Sprintf("string %q", t.Text())
	case NUMBER:
		return fmt.Sprintf("number %s", t.Lexeme)
	default:
		return fmt.Sprintf("token %s '%s'", t.Type, t.Lexeme)
	}
}

// ─────────────────────────────── statements ────────────────────────────────

func (p *parser) program() (*Program, error) {
	prog := &Program{}
	for !p.check(EOF) {
		s, err := p.statement()
		if err != nil {
			return nil, err
		}
		prog.Stmts = append(prog.Stmts, s)
	}
	return prog, nil
}

func (p *parser) statement() (Stmt, error) {
	switch p.current().Type {
	case LET:
		return p.letStmt()
	case FN:
		return p.fnDecl()
	case IF:
		return p.ifStmt()
	case WHILE:
		return p.whileStmt()
	case RETURN:
		return p.returnStmt()
	case LBRACE:
		pos := posOf(p.current())
		body, err := p.block()
		if err != nil {
			return nil, err
		}
		return &BlockStmt{Pos: pos, Stmts: body}, nil
	case STRUCT:
		return p.structDecl()
	case TYPE:
		return p.typeAlias()
	default:
		return p.exprStmt()
	}
}

// let NAME = expr [;]
func (p *parser) letStmt() (Stmt, error) {
	kw := p.advance()
	name, err := p.needIdent("variable name after 'let'")
	if err != nil {
		return nil, err
	}
	if _, err := p.need(ASSIGN, "'=' in let statement"); err != nil {
		return nil, err
	}
	val, err := p.expression()
	if err != nil {
		return nil, err
	}
	p.match(SEMICOLON)
	return &LetStmt{Pos: posOf(kw), Name: name.Text(), Value: val}, nil
}

// fn NAME ( params? ) [-> type] { body }
func (p *parser) fnDecl() (Stmt, error) {
	kw := p.advance()
	name, err := p.needIdent("function name")
	if err != nil {
		return nil, err
	}
	if _, err := p.need(LPAREN, "'(' after function name"); err != nil {
		return nil, err
	}

	var params []Param
	for !p.check(RPAREN) {
		pn, err := p.needIdent("parameter name")
		if err != nil {
			return nil, err
		}
		prm := Param{Name: pn.Text()}
		if p.match(COLON) {
			t, err := p.typeAnn()
			if err != nil {
				return nil, err
			}
			prm.Type = &t
		}
		params = append(params, prm)
		p.match(COMMA)
	}
	p.advance() // ')'

	var ret *TypeAnn
	if p.match(ARROW) {
		t, err := p.typeAnn()
		if err != nil {
			return nil, err
		}
		ret = &t
	}

	if !p.check(LBRACE) {
		return nil, p.errExpected("'{' to open function body")
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return &FnDecl{Pos: posOf(kw), Name: name.Text(), Params: params, RetType: ret, Body: body}, nil
}

// if expr { ... } [else { ... }]
func (p *parser) ifStmt() (Stmt, error) {
	kw := p.advance()
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if !p.check(LBRACE) {
		return nil, p.errExpected("'{' after if condition")
	}
	then, err := p.block()
	if err != nil {
		return nil, err
	}
	s := &IfStmt{Pos: posOf(kw), Cond: cond, Then: then}
	if p.match(ELSE) {
		if !p.check(LBRACE) {
			return nil, p.errExpected("'{' after else")
		}
		els, err := p.block()
		if err != nil {
			return nil, err
		}
		if els == nil {
			els = []Stmt{}
		}
		s.Else = els
	}
	return s, nil
}

// while expr { ... }
func (p *parser) whileStmt() (Stmt, error) {
	kw := p.advance()
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if !p.check(LBRACE) {
		return nil, p.errExpected("'{' after while condition")
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return &WhileStmt{Pos: posOf(kw), Cond: cond, Body: body}, nil
}

// return [expr] [;]
func (p *parser) returnStmt() (Stmt, error) {
	kw := p.advance()
	s := &ReturnStmt{Pos: posOf(kw)}
	switch p.current().Type {
	case SEMICOLON, RBRACE, EOF:
	default:
		v, err := p.expression()
		if err != nil {
			return nil, err
		}
		s.Value = v
	}
	p.match(SEMICOLON)
	return s, nil
}

// block parses `{ stmt* }`; the cursor must be on '{'.
func (p *parser) block() ([]Stmt, error) {
	p.advance() // '{'
	var out []Stmt
	for !p.check(RBRACE) && !p.check(EOF) {
		s, err := p.statement()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if _, err := p.need(RBRACE, "'}' at end of block"); err != nil {
		return nil, err
	}
	return out, nil
}

// struct NAME { field: type [,] ... }
func (p *parser) structDecl() (Stmt, error) {
	kw := p.advance()
	name, err := p.needIdent("struct name")
	if err != nil {
		return nil, err
	}
	if _, err := p.need(LBRACE, "'{' after struct name"); err != nil {
		return nil, err
	}
	var fields []FieldDecl
	for !p.check(RBRACE) && !p.check(EOF) {
		fn, err := p.needIdent("field name")
		if err != nil {
			return nil, err
		}
		if _, err := p.need(COLON, "':' after field name"); err != nil {
			return nil, err
		}
		t, err := p.typeAnn()
		if err != nil {
			return nil, err
		}
		fields = append(fields, FieldDecl{Name: fn.Text(), Type: t})
		p.match(COMMA)
	}
	if _, err := p.need(RBRACE, "'}' at end of struct"); err != nil {
		return nil, err
	}
	return &StructDecl{Pos: posOf(kw), Name: name.Text(), Fields: fields}, nil
}

// type NAME = "v1" | "v2" | ...
func (p *parser) typeAlias() (Stmt, error) {
	kw := p.advance()
	name, err := p.needIdent("type alias name")
	if err != nil {
		return nil, err
	}
	if _, err := p.need(ASSIGN, "'=' in type alias"); err != nil {
		return nil, err
	}
	var variants []string
	for {
		s, err := p.need(STRING, "string literal in type union")
		if err != nil {
			return nil, err
		}
		variants = append(variants, s.Text())
		if !p.match(PIPE) {
			break
		}
	}
	return &TypeAlias{Pos: posOf(kw), Name: name.Text(), Variants: variants}, nil
}

func (p *parser) exprStmt() (Stmt, error) {
	pos := posOf(p.current())
	x, err := p.expression()
	if err != nil {
		return nil, err
	}
	p.match(SEMICOLON)
	return &ExprStmt{Pos: pos, X: x}, nil
}

// typeAnn consumes exactly one token: str, number, bool or an identifier.
func (p *parser) typeAnn() (TypeAnn, error) {
	t := p.current()
	switch t.Type {
	case TSTR:
		p.advance()
		return TypeAnn{Kind: TypeStr}, nil
	case TNUMBER:
		p.advance()
		return TypeAnn{Kind: TypeNumber}, nil
	case TBOOL:
		p.advance()
		return TypeAnn{Kind: TypeBool}, nil
	case ID:
		p.advance()
		return TypeAnn{Kind: TypeCustom, Name: t.Text()}, nil
	}
	return TypeAnn{}, p.errExpected("type annotation")
}

// ────────────────────────────── expressions ────────────────────────────────

func (p *parser) expression() (Expr, error) { return p.equality() }

// binaryLevel parses a left-associative level: next (op next)*.
func (p *parser) binaryLevel(next func() (Expr, error), ops map[TokenType]BinaryOp) (Expr, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := ops[p.current().Type]
		if !ok {
			return left, nil
		}
		opTok := p.advance()
		right, err := next()
		if err != nil {
			return nil, err
		}
		left = &Binary{Pos: posOf(opTok), Left: left, Op: op, Right: right}
	}
}

var (
	equalityOps   = map[TokenType]BinaryOp{EQ: OpEq, NEQ: OpNeq}
	comparisonOps = map[TokenType]BinaryOp{LESS: OpLess, LESS_EQ: OpLessEq, GREATER: OpGreater, GREATER_EQ: OpGreaterEq}
	additiveOps   = map[TokenType]BinaryOp{PLUS: OpAdd, MINUS: OpSub}
	multOps       = map[TokenType]BinaryOp{STAR: OpMul, SLASH: OpDiv}
)

func (p *parser) equality() (Expr, error)   { return p.binaryLevel(p.comparison, equalityOps) }
func (p *parser) comparison() (Expr, error) { return p.binaryLevel(p.additive, comparisonOps) }
func (p *parser) additive() (Expr, error)   { return p.binaryLevel(p.factor, additiveOps) }
func (p *parser) factor() (Expr, error)     { return p.binaryLevel(p.unary, multOps) }

func (p *parser) unary() (Expr, error) {
	t := p.current()
	var op UnaryOp
	switch t.Type {
	case BANG:
		op = OpNot
	case MINUS:
		op = OpNeg
	default:
		return p.postfix()
	}
	p.advance()
	operand, err := p.unary()
	if err != nil {
		return nil, err
	}
	return &Unary{Pos: posOf(t), Op: op, Operand: operand}, nil
}

func (p *parser) postfix() (Expr, error) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}

	// IDENT { IDENT : ... } is a struct literal; any other brace belongs to
	// the enclosing statement.
	if id, ok := expr.(*Ident); ok && p.check(LBRACE) &&
		p.peekAt(1).Type == ID && p.peekAt(2).Type == COLON {
		expr, err = p.structLit(id)
		if err != nil {
			return nil, err
		}
	}

	for {
		switch p.current().Type {
		case LPAREN:
			p.advance()
			args, err := p.arguments(nil)
			if err != nil {
				return nil, err
			}
			expr = &Call{Pos: expr.Position(), Callee: expr, Args: args}
		case DOT:
			p.advance()
			name, err := p.needIdent("field name after '.'")
			if err != nil {
				return nil, err
			}
			if p.match(LPAREN) {
				args, err := p.arguments([]Expr{expr})
				if err != nil {
					return nil, err
				}
				callee := &Ident{Pos: posOf(name), Name: name.Text()}
				expr = &Call{Pos: posOf(name), Callee: callee, Args: args}
			} else {
				expr = &FieldAccess{Pos: posOf(name), Object: expr, Field: name.Text()}
			}
		default:
			return expr, nil
		}
	}
}

// arguments parses `expr (, expr)* )` after the opening paren, appending to
// the given prefix (the receiver for method calls).
func (p *parser) arguments(args []Expr) ([]Expr, error) {
	if !p.check(RPAREN) {
		for {
			a, err := p.expression()
			if err != nil {
				return nil, err
			}
			args = append(args, a)
			if !p.match(COMMA) {
				break
			}
		}
	}
	if _, err := p.need(RPAREN, "')' after arguments"); err != nil {
		return nil, err
	}
	return args, nil
}

// structLit parses `{ field: expr [,] ... }` after the type name.
func (p *parser) structLit(name *Ident) (Expr, error) {
	p.advance() // '{'
	lit := &StructLit{Pos: name.Pos, Name: name.Name}
	for !p.check(RBRACE) && !p.check(EOF) {
		fn, err := p.needIdent("field name")
		if err != nil {
			return nil, err
		}
		if _, err := p.need(COLON, "':' after field name in struct literal"); err != nil {
			return nil, err
		}
		v, err := p.expression()
		if err != nil {
			return nil, err
		}
		lit.Fields = append(lit.Fields, FieldInit{Pos: posOf(fn), Name: fn.Text(), Value: v})
		p.match(COMMA)
	}
	if _, err := p.need(RBRACE, "'}' at end of struct literal"); err != nil {
		return nil, err
	}
	return lit, nil
}

func (p *parser) primary() (Expr, error) {
	t := p.current()
	pos := posOf(t)
	switch t.Type {
	case NUMBER:
		p.advance()
		return &Literal{Pos: pos, Kind: LitNumber, Value: t.Literal.(float64)}, nil
	case STRING:
		p.advance()
		return &Literal{Pos: pos, Kind: LitString, Value: t.Text()}, nil
	case TRUE:
		p.advance()
		return &Literal{Pos: pos, Kind: LitBool, Value: true}, nil
	case FALSE:
		p.advance()
		return &Literal{Pos: pos, Kind: LitBool, Value: false}, nil
	case NIL:
		p.advance()
		return &Literal{Pos: pos, Kind: LitNil}, nil
	case ID:
		p.advance()
		return &Ident{Pos: pos, Name: t.Text()}, nil
	case LPAREN:
		p.advance()
		inner, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.need(RPAREN, "')' after expression"); err != nil {
			return nil, err
		}
		return &Grouping{Pos: pos, Inner: inner}, nil
	}
	return nil, p.errUnexpected()
}
