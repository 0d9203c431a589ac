package parser

// Function calls. Arguments are evaluated in source order, each followed by
// its "param" push; the call instruction carries the declared parameter
// count and lands in a fresh temporary.

import (
	"github.com/mauriciogardini/arduino-c-compiler/pkg/c3e"
	"github.com/mauriciogardini/arduino-c-compiler/pkg/symtab"
	"github.com/mauriciogardini/arduino-c-compiler/pkg/token"
)

// parseFunctionCall parses "( args )" after an identifier. When the next
// token is not an opening parenthesis the identifier is a plain reference
// and an empty production is returned.
func (p *Parser) parseFunctionCall(scope string, idTok token.Token) (Production, error) {
	tok, ok := p.cur()
	if !ok {
		return Production{}, p.eofError("T_PARENTHESES_OPEN")
	}
	if tok.Kind != token.T_PARENTHESES_OPEN {
		return Production{}, nil
	}
	p.trace(tok)
	p.advance()

	callee := p.symbols.Scope(idTok.Lexeme)
	if callee == nil {
		return Production{}, p.undeclaredError(idTok)
	}

	argument, err := p.parseFunctionArgument(scope, callee, 0)
	if err != nil {
		return Production{}, err
	}
	if _, err := p.expect(token.T_PARENTHESES_CLOSE); err != nil {
		return Production{}, err
	}
	call := Production{Place: p.nextTemp()}
	call.Code.AppendCode(argument.Code)
	call.Code.Append(c3e.Call(call.Place, idTok.Lexeme, callee.ParametersLen()))
	return call, nil
}

// parseFunctionArgument parses one argument. Before parsing, the call site
// is checked against the declared parameter count; a surplus argument is
// fatal. An argument whose type differs from the declared parameter type
// records an implicit-conversion warning.
func (p *Parser) parseFunctionArgument(scope string, callee *symtab.Symbol, argumentIndex int) (Production, error) {
	if tok, ok := p.cur(); ok && tok.Kind == token.T_PARENTHESES_CLOSE {
		return Production{}, nil
	}
	if callee.ParametersLen() == argumentIndex {
		return Production{}, p.unexpectedParameterError(callee.Identifier, argumentIndex)
	}

	left, err := p.parseLeftSideExpression(scope)
	if err != nil {
		return Production{}, err
	}
	right, err := p.parseRightSideExpression(scope)
	if err != nil {
		return Production{}, err
	}
	tok, ok := p.cur()
	if !ok {
		return Production{}, p.eofError("T_COMMA")
	}

	argument := Production{Place: right.Place}
	argument.Code.AppendCode(right.Code)
	if left.Place != "" {
		// An assignment in argument position assigns first, then passes the
		// assigned variable.
		argument.Code.Append(c3e.Assign(
			p.localized(left.Place, scope), p.localized(right.Place, scope)))
		argument.Place = left.Place
	}
	argument.Code.Append(c3e.Param(p.localized(argument.Place, scope)))

	if parameter := callee.Parameters.ByIndex(argumentIndex); parameter != nil &&
		parameter.DefinedType != right.Type {
		p.warnImplicitConversion(parameter.DefinedType, right.Type, tok)
	}

	if tok.Kind == token.T_COMMA {
		more, err := p.parseMoreFunctionArguments(scope, callee, argumentIndex+1)
		if err != nil {
			return Production{}, err
		}
		argument.Code.AppendCode(more.Code)
	}
	return argument, nil
}

// parseMoreFunctionArguments parses ", argument" continuations.
func (p *Parser) parseMoreFunctionArguments(scope string, callee *symtab.Symbol, argumentIndex int) (Production, error) {
	tok, ok := p.cur()
	if !ok {
		return Production{}, p.eofError("T_COMMA")
	}
	if tok.Kind != token.T_COMMA {
		return Production{}, nil
	}
	p.trace(tok)
	p.advance()
	argument, err := p.parseFunctionArgument(scope, callee, argumentIndex)
	if err != nil {
		return Production{}, err
	}
	if argument.Place == "" {
		tok, _ := p.cur()
		return Production{}, p.syntacticError("expression", tok)
	}
	more, err := p.parseMoreFunctionArguments(scope, callee, argumentIndex+1)
	if err != nil {
		return Production{}, err
	}
	var list Production
	list.Code.AppendCode(argument.Code)
	list.Code.AppendCode(more.Code)
	return list, nil
}
