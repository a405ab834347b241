package filter

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// TokenType identifies lexical token kinds.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenWord
	TokenString
	TokenOperator
	TokenLeftParen
	TokenRightParen
	TokenComma
	TokenSemicolon
	TokenError
)

func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "end of input"
	case TokenWord:
		return "word"
	case TokenString:
		return "quoted string"
	case TokenOperator:
		return "operator"
	case TokenLeftParen:
		return "'('"
	case TokenRightParen:
		return "')'"
	case TokenComma:
		return "','"
	case TokenSemicolon:
		return "';'"
	default:
		return "invalid token"
	}
}

// Token is a lexical token with its byte offset in the input.
type Token struct {
	Type  TokenType
	Value string
	Pos   int
}

// Lexer tokenizes filter text.
type Lexer struct {
	input string
	pos   int  // byte offset of ch
	next  int  // byte offset after ch
	ch    rune // current rune, 0 at end of input
}

// NewLexer creates a new lexer
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

// readChar advances to the next rune
func (l *Lexer) readChar() {
	l.pos = l.next
	if l.next >= len(l.input) {
		l.ch = 0
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.next:])
	l.ch = r
	l.next += size
}

// peekChar looks at the next rune without advancing
func (l *Lexer) peekChar() rune {
	if l.next >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.next:])
	return r
}

func (l *Lexer) skipWhitespace() {
	for l.ch != 0 && unicode.IsSpace(l.ch) {
		l.readChar()
	}
}

// readString reads a quoted string. The second result is false when the
// closing quote is missing.
func (l *Lexer) readString(quote rune) (string, bool) {
	var result strings.Builder
	l.readChar() // skip opening quote

	for l.ch != quote {
		if l.ch == 0 {
			return result.String(), false
		}
		if l.ch == '\\' {
			l.readChar()
			if l.ch == 0 {
				return result.String(), false
			}
		}
		result.WriteRune(l.ch)
		l.readChar()
	}

	l.readChar() // skip closing quote
	return result.String(), true
}

// readWord reads a run of unreserved characters.
func (l *Lexer) readWord() string {
	start := l.pos
	for l.ch != 0 && !isReserved(l.ch) {
		l.readChar()
	}
	return l.input[start:l.pos]
}

// readOperator reads "==", "!=" or "=name=". Returns false for a malformed
// operator; the caller reports what was consumed.
func (l *Lexer) readOperator() (string, bool) {
	start := l.pos
	if l.ch == '!' {
		if l.peekChar() != '=' {
			l.readChar()
			return l.input[start:l.pos], false
		}
		l.readChar()
		l.readChar()
		return "!=", true
	}

	// l.ch == '='
	l.readChar()
	if l.ch == '=' {
		l.readChar()
		return "==", true
	}
	for l.ch != 0 && l.ch != '=' && !unicode.IsSpace(l.ch) && l.ch != '(' && l.ch != ')' &&
		l.ch != '"' && l.ch != '\'' {
		l.readChar()
	}
	if l.ch != '=' {
		return l.input[start:l.pos], false
	}
	l.readChar()
	return l.input[start:l.pos], true
}

// NextToken returns the next token
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	pos := l.pos
	switch l.ch {
	case 0:
		return Token{Type: TokenEOF, Pos: pos}
	case '(':
		l.readChar()
		return Token{Type: TokenLeftParen, Value: "(", Pos: pos}
	case ')':
		l.readChar()
		return Token{Type: TokenRightParen, Value: ")", Pos: pos}
	case ',':
		l.readChar()
		return Token{Type: TokenComma, Value: ",", Pos: pos}
	case ';':
		l.readChar()
		return Token{Type: TokenSemicolon, Value: ";", Pos: pos}
	case '"', '\'':
		value, ok := l.readString(l.ch)
		if !ok {
			return Token{Type: TokenError, Value: "unterminated quoted string", Pos: pos}
		}
		return Token{Type: TokenString, Value: value, Pos: pos}
	case '=', '!':
		symbol, ok := l.readOperator()
		if !ok {
			return Token{Type: TokenError, Value: "malformed operator " + symbol, Pos: pos}
		}
		return Token{Type: TokenOperator, Value: symbol, Pos: pos}
	}

	if isReserved(l.ch) {
		ch := l.ch
		l.readChar()
		return Token{Type: TokenError, Value: "unexpected character " + string(ch), Pos: pos}
	}
	return Token{Type: TokenWord, Value: l.readWord(), Pos: pos}
}

// Tokenize converts the whole input into tokens, ending with TokenEOF or
// the first TokenError.
func Tokenize(input string) []Token {
	l := NewLexer(input)
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF || tok.Type == TokenError {
			return tokens
		}
	}
}

// isReserved reports whether r may not appear in a bare token.
func isReserved(r rune) bool {
	switch r {
	case '"', '\'', '(', ')', ';', ',', '=', '!', '~', '<', '>':
		return true
	}
	return unicode.IsSpace(r)
}
