package filter

import (
	"fmt"
	"strings"
)

// Parser turns a token stream into a Node tree.
type Parser struct {
	tokens []Token
	pos    int
}

// NewParser creates a new parser
func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

// current returns the current token
func (p *Parser) current() Token {
	if p.pos >= len(p.tokens) {
		end := 0
		if n := len(p.tokens); n > 0 {
			end = p.tokens[n-1].Pos
		}
		return Token{Type: TokenEOF, Pos: end}
	}
	return p.tokens[p.pos]
}

// advance moves to the next token
func (p *Parser) advance() {
	p.pos++
}

// expect checks if current token matches expected type and advances
func (p *Parser) expect(tokType TokenType) (Token, error) {
	tok := p.current()
	if tok.Type != tokType {
		return tok, p.unexpected(tok, "expected "+tokType.String())
	}
	p.advance()
	return tok, nil
}

func (p *Parser) unexpected(tok Token, context string) *ParseError {
	switch tok.Type {
	case TokenError:
		return &ParseError{Pos: tok.Pos, Message: tok.Value}
	case TokenEOF:
		return &ParseError{Pos: tok.Pos, Message: context + ", got end of input"}
	default:
		return &ParseError{Pos: tok.Pos, Message: fmt.Sprintf("%s, got %q", context, tok.Value)}
	}
}

// Parse parses filter text into a Node.
//
// Errors are always *ParseError. An operator symbol outside the closed
// Operator set is reported as a *ParseError wrapping
// *UnsupportedOperatorError.
func Parse(text string) (Node, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &ParseError{Pos: 0, Message: "empty filter"}
	}

	parser := NewParser(Tokenize(text))
	node, err := parser.parseOr()
	if err != nil {
		return nil, err
	}

	// Validate that we consumed all tokens
	if tok := parser.current(); tok.Type != TokenEOF {
		return nil, parser.unexpected(tok, "unexpected trailing input")
	}
	return node, nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// package-level fixtures.
func MustParse(text string) Node {
	node, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return node
}

// parseOr parses: andExpr (("," | "or") andExpr)*
func (p *Parser) parseOr() (Node, error) {
	first, err := p.parseAnd()
	if err != nil {
		return nil, err
	}

	children := []Node{first}
	for p.isOr() {
		p.advance()
		next, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		children = append(children, next)
	}

	if len(children) == 1 {
		return first, nil
	}
	return Or{Children: children}, nil
}

// parseAnd parses: term ((";" | "and") term)*
func (p *Parser) parseAnd() (Node, error) {
	first, err := p.parseTerm()
	if err != nil {
		return nil, err
	}

	children := []Node{first}
	for p.isAnd() {
		p.advance()
		next, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		children = append(children, next)
	}

	if len(children) == 1 {
		return first, nil
	}
	return And{Children: children}, nil
}

func (p *Parser) isOr() bool {
	tok := p.current()
	return tok.Type == TokenComma || (tok.Type == TokenWord && strings.EqualFold(tok.Value, "or"))
}

func (p *Parser) isAnd() bool {
	tok := p.current()
	return tok.Type == TokenSemicolon || (tok.Type == TokenWord && strings.EqualFold(tok.Value, "and"))
}

// parseTerm parses: "(" orExpr ")" | comparison
func (p *Parser) parseTerm() (Node, error) {
	if p.current().Type != TokenLeftParen {
		return p.parseComparison()
	}

	p.advance() // consume (
	node, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenRightParen); err != nil {
		return nil, err
	}
	return node, nil
}

// parseComparison parses: SELECTOR OPERATOR args
func (p *Parser) parseComparison() (Node, error) {
	selector, err := p.expect(TokenWord)
	if err != nil {
		return nil, p.unexpected(selector, "expected selector")
	}

	opTok, err := p.expect(TokenOperator)
	if err != nil {
		return nil, p.unexpected(opTok, fmt.Sprintf("expected operator after %q", selector.Value))
	}

	args, err := p.parseArgs()
	if err != nil {
		return nil, err
	}

	op, ok := LookupOperator(opTok.Value)
	if !ok {
		return nil, &ParseError{
			Pos:     opTok.Pos,
			Message: "unknown operator",
			Err: &UnsupportedOperatorError{
				Symbol: opTok.Value,
				Node:   formatComparison(selector.Value, opTok.Value, args),
			},
		}
	}

	if len(args) > 1 && !op.MultiValued() {
		return nil, &ParseError{
			Pos:     opTok.Pos,
			Message: fmt.Sprintf("operator %s accepts a single argument, got %d", op.Symbol(), len(args)),
		}
	}

	return Comparison{Selector: selector.Value, Operator: op, Arguments: args}, nil
}

// parseArgs parses: ARG | "(" ARG ("," ARG)* ")"
func (p *Parser) parseArgs() ([]string, error) {
	if p.current().Type != TokenLeftParen {
		arg, err := p.parseArg()
		if err != nil {
			return nil, err
		}
		return []string{arg}, nil
	}

	p.advance() // consume (
	var args []string
	for {
		arg, err := p.parseArg()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)

		if p.current().Type != TokenComma {
			break
		}
		p.advance()
	}

	if _, err := p.expect(TokenRightParen); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *Parser) parseArg() (string, error) {
	tok := p.current()
	switch tok.Type {
	case TokenWord, TokenString:
		p.advance()
		return tok.Value, nil
	default:
		return "", p.unexpected(tok, "expected argument")
	}
}
