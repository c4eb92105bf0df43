package syntax

import (
	"strconv"

	"github.com/ardnew/onels/lang/value"
)

// Parser builds an AST from the tokens of one expression.
//
// Precedence, loosest first:
//
//	??  ||  &&  == === != !==  < > <= >=  + -  * / %  unary ! -
//	postfix chain (.name  .name(args)  [i]  [a:b]  []  .{op}  ..  ?.  ?)
//	primary (literal, arrow function, parenthesized expression)
type Parser struct {
	toks []Token
	pos  int
}

// Parse tokenizes and parses src. Any error aborts the whole expression.
func Parse(src string) (*Root, error) {
	toks, err := Tokenize(src)
	if err != nil {
		return nil, err
	}

	return NewParser(toks).Parse()
}

// NewParser returns a parser over toks, which must end with [TokenEOF].
func NewParser(toks []Token) *Parser {
	if len(toks) == 0 || toks[len(toks)-1].Kind != TokenEOF {
		toks = append(toks, Token{Kind: TokenEOF})
	}

	return &Parser{toks: toks}
}

// Parse parses the complete token stream. An empty stream is the identity
// expression.
func (p *Parser) Parse() (*Root, error) {
	if p.peek().Kind == TokenEOF {
		return &Root{}, nil
	}

	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if tok := p.peek(); tok.Kind != TokenEOF {
		return nil, p.errorf("end of input", tok)
	}

	return &Root{Expr: expr}, nil
}

func (p *Parser) peek() Token { return p.toks[p.pos] }

func (p *Parser) peekAt(n int) Token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}

	return p.toks[p.pos+n]
}

func (p *Parser) advance() Token {
	tok := p.toks[p.pos]
	if tok.Kind != TokenEOF {
		p.pos++
	}

	return tok
}

func (p *Parser) accept(kind TokenKind) bool {
	if p.peek().Kind == kind {
		p.advance()

		return true
	}

	return false
}

func (p *Parser) expect(kind TokenKind) (Token, error) {
	tok := p.peek()
	if tok.Kind != kind {
		return tok, p.errorf(kind.String(), tok)
	}

	return p.advance(), nil
}

func (p *Parser) errorf(expected string, found Token) error {
	return &ParseError{Expected: expected, Found: found.String(), Pos: found.Pos}
}

func (p *Parser) parseExpr() (Node, error) {
	left, err := p.parseBinary(0)
	if err != nil {
		return nil, err
	}

	for p.accept(TokenCoalesce) {
		right, err := p.parseBinary(0)
		if err != nil {
			return nil, err
		}

		left = &NullCoalescing{Left: left, Right: right}
	}

	return left, nil
}

// binaryLevels lists binary operators from loosest to tightest binding.
var binaryLevels = [][]Operator{
	{OpOr},
	{OpAnd},
	{OpEq, OpStrictEq, OpNe, OpStrictNe},
	{OpGt, OpLt, OpGe, OpLe},
	{OpAdd, OpSub},
	{OpMul, OpDiv, OpMod},
}

// parseBinary parses a left-associative chain at the given level.
func (p *Parser) parseBinary(level int) (Node, error) {
	if level == len(binaryLevels) {
		return p.parseUnary()
	}

	left, err := p.parseBinary(level + 1)
	if err != nil {
		return nil, err
	}

	for {
		tok := p.peek()
		if tok.Kind != TokenOperator {
			return left, nil
		}

		op, ok := binaryOperator(tok.Lexeme)
		if !ok || !hasOperator(binaryLevels[level], op) {
			return left, nil
		}

		p.advance()

		right, err := p.parseBinary(level + 1)
		if err != nil {
			return nil, err
		}

		left = &MethodCall{Object: left, Op: op, Args: []Node{right}, Pos: tok.Pos}
	}
}

func hasOperator(ops []Operator, op Operator) bool {
	for _, o := range ops {
		if o == op {
			return true
		}
	}

	return false
}

func (p *Parser) parseUnary() (Node, error) {
	tok := p.peek()

	switch {
	case tok.Is("!"):
		p.advance()

		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		return &MethodCall{Object: operand, Op: OpNot, Pos: tok.Pos}, nil

	case tok.Is("-"):
		p.advance()

		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		if lit, ok := operand.(*Literal); ok {
			if n, ok := lit.Value.AsNumber(); ok {
				return &Literal{Value: value.Number(-n)}, nil
			}
		}

		return &MethodCall{Object: operand, Op: OpNeg, Pos: tok.Pos}, nil
	}

	return p.parsePostfix()
}

func (p *Parser) parsePostfix() (Node, error) {
	node, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	optional := false

	for {
		switch p.peek().Kind {
		case TokenDot:
			p.advance()

			node, err = p.parseMember(node, false)

		case TokenOptional:
			p.advance()

			optional = true
			node, err = p.parseMember(node, false)

		case TokenDotDot:
			p.advance()

			node = &RecursiveDescent{Object: node}
			if p.peek().Kind == TokenIdent {
				node, err = p.parseMember(node, false)
			}

		case TokenBracketOpen:
			node, err = p.parseBracket(node)

		case TokenQuestion:
			p.advance()

			node = &OptionalAccess{Expr: node}

		default:
			if optional {
				node = &OptionalAccess{Expr: node}
			}

			return node, nil
		}

		if err != nil {
			return nil, err
		}
	}
}

// parseMember parses what follows a dot. When leading is true the dot began
// the expression and a bare dot is the identity.
func (p *Parser) parseMember(obj Node, leading bool) (Node, error) {
	tok := p.peek()

	switch tok.Kind {
	case TokenIdent:
		p.advance()

		if p.peek().Kind == TokenParenOpen {
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}

			return &MethodCall{Object: obj, Method: tok.Lexeme, Args: args, Pos: tok.Pos}, nil
		}

		return &PropertyAccess{Object: obj, Property: tok.Lexeme, Pos: tok.Pos}, nil

	case TokenString:
		p.advance()

		return &PropertyAccess{Object: obj, Property: tok.Lexeme, Pos: tok.Pos}, nil

	case TokenBracketOpen:
		return p.parseBracket(obj)

	case TokenBraceOpen:
		return p.parseObjectOperation(obj)
	}

	if leading {
		return &Root{}, nil
	}

	return nil, p.errorf("property name", tok)
}

func (p *Parser) parseObjectOperation(obj Node) (Node, error) {
	p.advance() // {

	tok := p.peek()

	op, ok := objectOps[tok.Lexeme]
	if tok.Kind != TokenIdent || !ok {
		return nil, p.errorf("keys, values, entries or length", tok)
	}

	p.advance()

	if _, err := p.expect(TokenBraceClose); err != nil {
		return nil, err
	}

	return &ObjectOperation{Object: obj, Op: op}, nil
}

// parseBracket parses `[]`, `[i]`, `[a:b]` and their partial slice forms.
func (p *Parser) parseBracket(obj Node) (Node, error) {
	p.advance() // [

	if p.accept(TokenBracketClose) {
		return &ArraySpread{Object: obj}, nil
	}

	var (
		start Node
		err   error
	)

	if p.peek().Kind != TokenColon {
		start, err = p.parseExpr()
		if err != nil {
			return nil, err
		}

		if p.accept(TokenBracketClose) {
			return &IndexAccess{Object: obj, Index: start}, nil
		}
	}

	if _, err := p.expect(TokenColon); err != nil {
		return nil, err
	}

	var end Node

	if p.peek().Kind != TokenBracketClose {
		end, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(TokenBracketClose); err != nil {
		return nil, err
	}

	return &SliceAccess{Object: obj, Start: start, End: end}, nil
}

func (p *Parser) parseArgs() ([]Node, error) {
	p.advance() // (

	args := []Node{}

	if p.accept(TokenParenClose) {
		return args, nil
	}

	for {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		args = append(args, arg)

		if p.accept(TokenParenClose) {
			return args, nil
		}

		if tok := p.peek(); tok.Kind != TokenComma {
			return nil, p.errorf("',' or ')'", tok)
		}

		p.advance()
	}
}

func (p *Parser) parsePrimary() (Node, error) {
	tok := p.peek()

	switch tok.Kind {
	case TokenDot:
		p.advance()

		return p.parseMember(nil, true)

	case TokenDotDot:
		p.advance()

		var node Node = &RecursiveDescent{}
		if p.peek().Kind == TokenIdent {
			return p.parseMember(node, false)
		}

		return node, nil

	case TokenIdent:
		return p.parseIdent()

	case TokenNumber:
		p.advance()

		n, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			return nil, p.errorf("number", tok)
		}

		return &Literal{Value: value.Number(n)}, nil

	case TokenString:
		p.advance()

		return &Literal{Value: value.String(tok.Lexeme)}, nil

	case TokenParenOpen:
		if params, ok := p.arrowParams(); ok {
			return p.parseArrowBody(params)
		}

		p.advance()

		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(TokenParenClose); err != nil {
			return nil, err
		}

		return expr, nil

	case TokenBracketOpen:
		return p.parseListLiteral()

	case TokenBraceOpen:
		return p.parseObjectLiteral()
	}

	return nil, p.errorf("expression", tok)
}

// keywords are identifiers that denote constants.
var keywords = map[string]value.Value{
	"true":      value.True,
	"false":     value.False,
	"null":      value.Null,
	"undefined": value.Undefined,
}

func (p *Parser) parseIdent() (Node, error) {
	tok := p.advance()

	switch p.peek().Kind {
	case TokenArrow:
		return p.parseArrowBody([]string{tok.Lexeme})

	case TokenParenOpen:
		args, err := p.parseArgs()
		if err != nil {
			return nil, err
		}

		return &MethodCall{Method: tok.Lexeme, Args: args, Pos: tok.Pos}, nil
	}

	if v, ok := keywords[tok.Lexeme]; ok {
		return &Literal{Value: v}, nil
	}

	return &PropertyAccess{Property: tok.Lexeme, Pos: tok.Pos}, nil
}

// arrowParams reports whether the tokens at the current position form a
// parenthesized parameter list followed by an arrow. On success the list
// and the arrow are consumed.
func (p *Parser) arrowParams() ([]string, bool) {
	params := []string{}

	i := 1
	if p.peekAt(i).Kind != TokenParenClose {
		for {
			tok := p.peekAt(i)
			if tok.Kind != TokenIdent {
				return nil, false
			}

			params = append(params, tok.Lexeme)
			i++

			if p.peekAt(i).Kind == TokenParenClose {
				break
			}

			if p.peekAt(i).Kind != TokenComma {
				return nil, false
			}

			i++
		}
	}

	if p.peekAt(i+1).Kind != TokenArrow {
		return nil, false
	}

	p.pos += i + 1 // stop on the arrow

	return params, true
}

func (p *Parser) parseArrowBody(params []string) (Node, error) {
	if _, err := p.expect(TokenArrow); err != nil {
		return nil, err
	}

	if tok := p.peek(); tok.Kind == TokenEOF {
		return nil, p.errorf("arrow function body", tok)
	}

	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	return &ArrowFunction{Params: params, Body: body}, nil
}

// constant parses an expression that must reduce to a literal.
func (p *Parser) constant() (value.Value, error) {
	tok := p.peek()

	node, err := p.parseExpr()
	if err != nil {
		return value.Undefined, err
	}

	lit, ok := node.(*Literal)
	if !ok {
		return value.Undefined, p.errorf("constant", tok)
	}

	return lit.Value, nil
}

func (p *Parser) parseListLiteral() (Node, error) {
	p.advance() // [

	elems := []value.Value{}

	for !p.accept(TokenBracketClose) {
		v, err := p.constant()
		if err != nil {
			return nil, err
		}

		elems = append(elems, v)

		if p.accept(TokenBracketClose) {
			break
		}

		if _, err := p.expect(TokenComma); err != nil {
			return nil, err
		}
	}

	return &Literal{Value: value.List(elems...)}, nil
}

func (p *Parser) parseObjectLiteral() (Node, error) {
	p.advance() // {

	obj := value.NewObject()

	for !p.accept(TokenBraceClose) {
		key := p.peek()

		switch key.Kind {
		case TokenIdent, TokenString, TokenNumber:
			p.advance()
		default:
			return nil, p.errorf("object key", key)
		}

		if _, err := p.expect(TokenColon); err != nil {
			return nil, err
		}

		v, err := p.constant()
		if err != nil {
			return nil, err
		}

		obj.Set(key.Lexeme, v)

		if p.accept(TokenBraceClose) {
			break
		}

		if _, err := p.expect(TokenComma); err != nil {
			return nil, err
		}
	}

	return &Literal{Value: value.FromObject(obj)}, nil
}
