package parser

// Expression precedence cascade. All binary operators are left-associative
// and lower flatly: each reduction allocates one fresh temporary holding the
// result, with no jump-based short-circuiting for || and &&.
//
// Precedence (lowest to highest):
//
//	logical_or     → logical_and ("||" logical_and)*
//	logical_and    → equality    ("&&" equality)*
//	equality       → relational  (("=="|"!=") relational)*
//	relational     → additive    (("<"|"<="|">"|">=") additive)*
//	additive       → multiplicative (("+"|"-") multiplicative)*
//	multiplicative → unary_prefix   (("*"|"/"|"%") unary_prefix)*
//	unary_prefix   → ("+"|"-")? element
//	element        → "(" expr ")" | IDENT [call] | true | false | INT | FLOAT

import (
	"strings"

	"github.com/mauriciogardini/arduino-c-compiler/pkg/c3e"
	"github.com/mauriciogardini/arduino-c-compiler/pkg/token"
)

// parseRightSideExpression parses a full value expression.
func (p *Parser) parseRightSideExpression(scope string) (Production, error) {
	return p.parseLogicalOr(scope)
}

// reduceBinary emits one binary reduction into a fresh temporary.
func (p *Parser) reduceBinary(scope string, left, right Production, operator, resultType string) Production {
	place := p.nextTemp()
	next := Production{Place: place, Type: resultType}
	next.Code.AppendCode(left.Code)
	next.Code.AppendCode(right.Code)
	next.Code.Append(c3e.Binary(place,
		p.localized(left.Place, scope), operator, p.localized(right.Place, scope)))
	return next
}

// parseLogicalOr parses "||" chains. The logical result is int regardless of
// the operand types.
func (p *Parser) parseLogicalOr(scope string) (Production, error) {
	left, err := p.parseLogicalAnd(scope)
	if err != nil {
		return Production{}, err
	}
	for {
		tok, ok := p.cur()
		if !ok {
			return Production{}, p.eofError("T_OR operator")
		}
		if tok.Kind != token.T_OR {
			return left, nil
		}
		p.trace(tok)
		p.advance()
		right, err := p.parseLogicalAnd(scope)
		if err != nil {
			return Production{}, err
		}
		left = p.reduceBinary(scope, left, right, tok.Lexeme, "int")
	}
}

// parseLogicalAnd parses "&&" chains; the result is int.
func (p *Parser) parseLogicalAnd(scope string) (Production, error) {
	left, err := p.parseEquality(scope)
	if err != nil {
		return Production{}, err
	}
	for {
		tok, ok := p.cur()
		if !ok {
			return Production{}, p.eofError("logical_and operator")
		}
		if tok.Kind != token.T_AND {
			return left, nil
		}
		p.trace(tok)
		p.advance()
		right, err := p.parseEquality(scope)
		if err != nil {
			return Production{}, err
		}
		left = p.reduceBinary(scope, left, right, tok.Lexeme, "int")
	}
}

// parseEquality parses "==" and "!=" chains.
func (p *Parser) parseEquality(scope string) (Production, error) {
	left, err := p.parseRelational(scope)
	if err != nil {
		return Production{}, err
	}
	for {
		tok, ok := p.cur()
		if !ok {
			return Production{}, p.eofError("equality operator")
		}
		if tok.Lexeme != "==" && tok.Lexeme != "!=" {
			return left, nil
		}
		p.trace(tok)
		p.advance()
		right, err := p.parseRelational(scope)
		if err != nil {
			return Production{}, err
		}
		resultType, err := p.resultType(left, right)
		if err != nil {
			return Production{}, err
		}
		left = p.reduceBinary(scope, left, right, tok.Lexeme, resultType)
	}
}

// parseRelational parses "<", "<=", ">", ">=" chains.
func (p *Parser) parseRelational(scope string) (Production, error) {
	left, err := p.parseAdditive(scope)
	if err != nil {
		return Production{}, err
	}
	for {
		tok, ok := p.cur()
		if !ok {
			return Production{}, p.eofError("relational operator")
		}
		switch tok.Lexeme {
		case "<", ">", "<=", ">=":
		default:
			return left, nil
		}
		p.trace(tok)
		p.advance()
		right, err := p.parseAdditive(scope)
		if err != nil {
			return Production{}, err
		}
		resultType, err := p.resultType(left, right)
		if err != nil {
			return Production{}, err
		}
		left = p.reduceBinary(scope, left, right, tok.Lexeme, resultType)
	}
}

// parseAdditive parses "+" and "-" chains.
func (p *Parser) parseAdditive(scope string) (Production, error) {
	left, err := p.parseMultiplicative(scope)
	if err != nil {
		return Production{}, err
	}
	for {
		tok, ok := p.cur()
		if !ok {
			return Production{}, p.eofError("additive operator")
		}
		if tok.Lexeme != "+" && tok.Lexeme != "-" {
			return left, nil
		}
		p.trace(tok)
		p.advance()
		right, err := p.parseMultiplicative(scope)
		if err != nil {
			return Production{}, err
		}
		resultType, err := p.resultType(left, right)
		if err != nil {
			return Production{}, err
		}
		left = p.reduceBinary(scope, left, right, tok.Lexeme, resultType)
	}
}

// parseMultiplicative parses "*", "/", "%" chains. The remainder operator
// requires both operands to be int.
func (p *Parser) parseMultiplicative(scope string) (Production, error) {
	left, err := p.parseUnaryPrefix(scope)
	if err != nil {
		return Production{}, err
	}
	for {
		tok, ok := p.cur()
		if !ok {
			return Production{}, p.eofError("multiplicative operator")
		}
		switch tok.Lexeme {
		case "*", "/", "%":
		default:
			return left, nil
		}
		p.trace(tok)
		p.advance()
		right, err := p.parseUnaryPrefix(scope)
		if err != nil {
			return Production{}, err
		}
		if tok.Lexeme == "%" && (left.Type != "int" || right.Type != "int") {
			return Production{}, p.invalidOperandsError(left.Type, right.Type, tok)
		}
		resultType, err := p.resultType(left, right)
		if err != nil {
			return Production{}, err
		}
		left = p.reduceBinary(scope, left, right, tok.Lexeme, resultType)
	}
}

// parseUnaryPrefix parses an optional leading "+" or "-". The result lands
// in a fresh temporary and keeps the element's type.
func (p *Parser) parseUnaryPrefix(scope string) (Production, error) {
	tok, ok := p.cur()
	if !ok {
		return Production{}, p.eofError("unary operator or expression element")
	}
	if tok.Lexeme != "+" && tok.Lexeme != "-" {
		return p.parseElement(scope)
	}
	p.trace(tok)
	p.advance()
	if _, ok := p.cur(); !ok {
		return Production{}, p.eofError("T_ID or T_PARENTHESES_OPEN or T_INTEGER or T_FLOAT")
	}
	element, err := p.parseElement(scope)
	if err != nil {
		return Production{}, err
	}
	prefix := Production{Place: p.nextTemp(), Type: element.Type}
	prefix.Code.AppendCode(element.Code)
	prefix.Code.Append(c3e.Unary(prefix.Place, tok.Lexeme, p.localized(element.Place, scope)))
	return prefix, nil
}

// parseElement parses an expression atom: a parenthesized expression, an
// identifier (possibly a call), a boolean literal, or a numeric literal.
//
// Boolean literals lower to the bare literals 1 and 0 with no temporary;
// numeric literals load into a fresh temporary.
func (p *Parser) parseElement(scope string) (Production, error) {
	tok, ok := p.cur()
	if !ok {
		return Production{}, p.eofError("T_ID or T_PARENTHESES_OPEN or T_INTEGER or T_FLOAT")
	}
	switch {
	case tok.Kind == token.T_PARENTHESES_OPEN:
		p.trace(tok)
		p.advance()
		expr, err := p.parseRightSideExpression(scope)
		if err != nil {
			return Production{}, err
		}
		if _, err := p.expect(token.T_PARENTHESES_CLOSE); err != nil {
			return Production{}, err
		}
		return expr, nil

	case tok.Kind == token.T_ID:
		p.trace(tok)
		p.advance()
		call, err := p.parseFunctionCall(scope, tok)
		if err != nil {
			return Production{}, err
		}
		element := Production{Code: call.Code}
		if call.Place != "" {
			element.Place = call.Place
		} else {
			element.Place = tok.Lexeme
		}
		if !p.symbols.Exists(tok.Lexeme, scope, true) {
			return Production{}, p.undeclaredError(tok)
		}
		element.Type = elementType(p.symbols.Get(tok.Lexeme, scope).Type())
		return element, nil

	case isReserved(tok, "true") || isReserved(tok, "false"):
		p.trace(tok)
		p.advance()
		place := "0"
		if tok.Lexeme == "true" {
			place = "1"
		}
		return Production{Place: place, Type: "int"}, nil

	case tok.Kind == token.T_INTEGER || tok.Kind == token.T_FLOAT:
		p.trace(tok)
		p.advance()
		element := Production{Place: p.nextTemp(), Type: "int"}
		if tok.Kind == token.T_FLOAT {
			element.Type = "float"
		}
		element.Code.Append(c3e.Assign(element.Place, tok.Lexeme))
		return element, nil
	}
	return Production{}, p.syntacticError("T_ID or T_PARENTHESES_OPEN or T_INTEGER or T_FLOAT", tok)
}

// elementType maps a declared type onto the numeric lattice: any declared
// type mentioning int, float, or double (so "unsigned int" is int) collapses
// to that lattice point; anything else passes through as-is.
func elementType(definedType string) string {
	switch {
	case strings.Contains(definedType, "int"):
		return "int"
	case strings.Contains(definedType, "float"):
		return "float"
	case strings.Contains(definedType, "double"):
		return "double"
	}
	return definedType
}
