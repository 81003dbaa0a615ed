// lexer.go: single-pass scanner for Weave source.
//
// The scanner walks the input one byte at a time with one byte of lookahead
// and produces a finite token slice that always ends in EOF. It never fails:
// bytes it does not understand become ID tokens whose literal text is
// "UNKNOWN", and the parser rejects them (or not) like any other identifier.
//
// Tokens carry 1-based Line/Col and byte offsets so that parse and runtime
// errors can point at source.
package weave

import (
	"strconv"
)

// TokenType represents the kind of token.
type TokenType int

const (
	// Special
	EOF TokenType = iota

	// Literals & identifiers
	ID
	STRING
	NUMBER

	// Punctuation
	LPAREN    // "("
	RPAREN    // ")"
	LBRACE    // "{"
	RBRACE    // "}"
	LBRACKET  // "["
	RBRACKET  // "]"
	COMMA     // ","
	DOT       // "."
	SEMICOLON // ";"
	COLON     // ":"
	PIPE      // "|"

	// Operators
	PLUS
	MINUS
	STAR
	SLASH
	ASSIGN // "="
	EQ     // "=="
	BANG   // "!"
	NEQ    // "!="
	LESS
	LESS_EQ
	GREATER
	GREATER_EQ
	ARROW // "->"

	// Keywords
	LET
	FN
	IF
	ELSE
	WHILE
	FOR
	RETURN
	TRUE
	FALSE
	NIL
	STRUCT
	TYPE

	// Type keywords
	TSTR
	TNUMBER
	TBOOL
)

var tokenNames = [...]string{
	EOF:        "EOF",
	ID:         "ID",
	STRING:     "STRING",
	NUMBER:     "NUMBER",
	LPAREN:     "LPAREN",
	RPAREN:     "RPAREN",
	LBRACE:     "LBRACE",
	RBRACE:     "RBRACE",
	LBRACKET:   "LBRACKET",
	RBRACKET:   "RBRACKET",
	COMMA:      "COMMA",
	DOT:        "DOT",
	SEMICOLON:  "SEMICOLON",
	COLON:      "COLON",
	PIPE:       "PIPE",
	PLUS:       "PLUS",
	MINUS:      "MINUS",
	STAR:       "STAR",
	SLASH:      "SLASH",
	ASSIGN:     "ASSIGN",
	EQ:         "EQ",
	BANG:       "BANG",
	NEQ:        "NEQ",
	LESS:       "LESS",
	LESS_EQ:    "LESS_EQ",
	GREATER:    "GREATER",
	GREATER_EQ: "GREATER_EQ",
	ARROW:      "ARROW",
	LET:        "LET",
	FN:         "FN",
	IF:         "IF",
	ELSE:       "ELSE",
	WHILE:      "WHILE",
	FOR:        "FOR",
	RETURN:     "RETURN",
	TRUE:       "TRUE",
	FALSE:      "FALSE",
	NIL:        "NIL",
	STRUCT:     "STRUCT",
	TYPE:       "TYPE",
	TSTR:       "TSTR",
	TNUMBER:    "TNUMBER",
	TBOOL:      "TBOOL",
}

func (t TokenType) String() string {
	if int(t) >= 0 && int(t) < len(tokenNames) && tokenNames[t] != "" {
		return tokenNames[t]
	}
	return "TokenType(" + strconv.Itoa(int(t)) + ")"
}

// Token is a lexical token with optional literal value.
//
// Literal holds the identifier name (string), the string literal text
// (string) or the number (float64). Keywords and punctuation carry no literal.
type Token struct {
	Type      TokenType
	Lexeme    string // raw source slice
	Literal   interface{}
	Line      int // 1-based
	Col       int // 1-based, in bytes
	StartByte int // inclusive
	EndByte   int // exclusive
}

// Text returns the identifier name or string literal text, falling back to
// the raw lexeme.
func (t Token) Text() string {
	if s, ok := t.Literal.(string); ok {
		return s
	}
	return t.Lexeme
}

// unknownIdent is the identifier text produced for bytes the scanner does
// not recognise.
const unknownIdent = "UNKNOWN"

var keywords = map[string]TokenType{
	"let":    LET,
	"fn":     FN,
	"if":     IF,
	"else":   ELSE,
	"while":  WHILE,
	"for":    FOR,
	"return": RETURN,
	"true":   TRUE,
	"false":  FALSE,
	"nil":    NIL,
	"struct": STRUCT,
	"type":   TYPE,
	"str":    TSTR,
	"number": TNUMBER,
	"bool":   TBOOL,
}

// Lexer scans a Weave source buffer into tokens.
type Lexer struct {
	src   []byte
	start int // start index of current token
	cur   int // current index
	line  int // 1-based
	col   int // 0-based column within line

	tokStartLine int
	tokStartCol  int
	tokens       []Token
}

// NewLexer creates a new lexer for the given source.
func NewLexer(src []byte) *Lexer {
	return &Lexer{src: src, line: 1}
}

// Tokenize is shorthand for NewLexer(src).Scan().
func Tokenize(src []byte) []Token {
	return NewLexer(src).Scan()
}

// Scan tokenizes the entire source and returns tokens (EOF included).
func (l *Lexer) Scan() []Token {
	for {
		tok := l.scanToken()
		if tok.Type == EOF {
			return l.tokens
		}
	}
}

func (l *Lexer) isAtEnd() bool { return l.cur >= len(l.src) }

func (l *Lexer) peek() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	return l.src[l.cur], true
}

func (l *Lexer) advance() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	ch := l.src[l.cur]
	l.cur++
	if ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
	return ch, true
}

// match consumes the next byte if it equals want.
func (l *Lexer) match(want byte) bool {
	if b, ok := l.peek(); ok && b == want {
		l.advance()
		return true
	}
	return false
}

func (l *Lexer) addToken(tt TokenType, lit interface{}) Token {
	tok := Token{
		Type:      tt,
		Lexeme:    string(l.src[l.start:l.cur]),
		Literal:   lit,
		Line:      l.tokStartLine,
		Col:       l.tokStartCol + 1,
		StartByte: l.start,
		EndByte:   l.cur,
	}
	l.tokens = append(l.tokens, tok)
	l.start = l.cur
	return tok
}

func (l *Lexer) skipWhitespace() {
	for {
		b, ok := l.peek()
		if !ok || !isSpace(b) {
			return
		}
		l.advance()
	}
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isAlpha(b byte) bool { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_' }
func isAlphaNum(b byte) bool {
	return isAlpha(b) || isDigit(b)
}

// ----- scanners -----

// scanString reads up to the next '"'. There are no escapes: backslashes
// pass through verbatim. An unterminated string ends at EOF.
func (l *Lexer) scanString() string {
	from := l.cur
	for {
		b, ok := l.peek()
		if !ok {
			return string(l.src[from:l.cur])
		}
		if b == '"' {
			text := string(l.src[from:l.cur])
			l.advance()
			return text
		}
		l.advance()
	}
}

// scanNumber greedily consumes digits and dots. A lexeme such as "1.2.3"
// does not parse and collapses to 0.
func (l *Lexer) scanNumber() float64 {
	for {
		b, ok := l.peek()
		if !ok || !(isDigit(b) || b == '.') {
			break
		}
		l.advance()
	}
	v, err := strconv.ParseFloat(string(l.src[l.start:l.cur]), 64)
	if err != nil {
		return 0
	}
	return v
}

// scanIdentifier parses [A-Za-z_][A-Za-z0-9_]*
func (l *Lexer) scanIdentifier() string {
	for {
		b, ok := l.peek()
		if !ok || !isAlphaNum(b) {
			break
		}
		l.advance()
	}
	return string(l.src[l.start:l.cur])
}

// ----- main scanner -----

func (l *Lexer) scanToken() Token {
	l.skipWhitespace()
	l.tokStartLine = l.line
	l.tokStartCol = l.col
	l.start = l.cur

	ch, ok := l.advance()
	if !ok {
		return l.addToken(EOF, nil)
	}

	switch ch {
	case '(':
		return l.addToken(LPAREN, nil)
	case ')':
		return l.addToken(RPAREN, nil)
	case '{':
		return l.addToken(LBRACE, nil)
	case '}':
		return l.addToken(RBRACE, nil)
	case '[':
		return l.addToken(LBRACKET, nil)
	case ']':
		return l.addToken(RBRACKET, nil)
	case ',':
		return l.addToken(COMMA, nil)
	case '.':
		return l.addToken(DOT, nil)
	case ';':
		return l.addToken(SEMICOLON, nil)
	case ':':
		return l.addToken(COLON, nil)
	case '|':
		return l.addToken(PIPE, nil)
	case '+':
		return l.addToken(PLUS, nil)
	case '*':
		return l.addToken(STAR, nil)
	case '/':
		return l.addToken(SLASH, nil)
	case '-':
		if l.match('>') {
			return l.addToken(ARROW, nil)
		}
		return l.addToken(MINUS, nil)
	case '=':
		if l.match('=') {
			return l.addToken(EQ, nil)
		}
		return l.addToken(ASSIGN, nil)
	case '!':
		if l.match('=') {
			return l.addToken(NEQ, nil)
		}
		return l.addToken(BANG, nil)
	case '<':
		if l.match('=') {
			return l.addToken(LESS_EQ, nil)
		}
		return l.addToken(LESS, nil)
	case '>':
		if l.match('=') {
			return l.addToken(GREATER_EQ, nil)
		}
		return l.addToken(GREATER, nil)
	case '"':
		return l.addToken(STRING, l.scanString())
	}

	if isDigit(ch) {
		return l.addToken(NUMBER, l.scanNumber())
	}

	if isAlpha(ch) {
		lex := l.scanIdentifier()
		if tt, ok := keywords[lex]; ok {
			return l.addToken(tt, nil)
		}
		return l.addToken(ID, lex)
	}

	return l.addToken(ID, unknownIdent)
}
