package parser

// Top-level definitions: functions, global variables, parameter lists,
// declaration lists, and the modifier/specifier/type reserved-word classes.

import (
	"strings"

	"github.com/mauriciogardini/arduino-c-compiler/pkg/c3e"
	"github.com/mauriciogardini/arduino-c-compiler/pkg/token"
)

// parseDefinitionsList consumes definitions until the token stream ends.
func (p *Parser) parseDefinitionsList(scope string) (Production, error) {
	var list Production
	for {
		def, ok, err := p.parseDefinition(scope)
		if err != nil {
			return Production{}, err
		}
		if !ok {
			return list, nil
		}
		list.Code.AppendCode(def.Code)
	}
}

// parseDefinition parses one top-level definition. It reports ok=false when
// the stream is exhausted.
func (p *Parser) parseDefinition(scope string) (Production, bool, error) {
	if _, ok := p.cur(); !ok {
		return Production{}, false, nil
	}

	modifiers, err := p.parseModifiersList()
	if err != nil {
		return Production{}, false, err
	}
	baseType, err := p.parseReturnType()
	if err != nil {
		return Production{}, false, err
	}
	returnType := joinType(modifiers, baseType)

	idTok, ok := p.cur()
	if !ok {
		return Production{}, false, p.eofError("T_ID or T_RESERVED_WORD")
	}
	if idTok.Kind != token.T_ID && idTok.Kind != token.T_RESERVED_WORD {
		return Production{}, false, p.syntacticError("T_ID or T_RESERVED_WORD", idTok)
	}
	p.trace(idTok)
	p.advance()

	next, ok := p.cur()
	if !ok {
		return Production{}, false, p.eofError("T_PARENTHESES_OPEN or T_ASSIGN or T_SEMICOLON")
	}

	switch next.Kind {
	case token.T_PARENTHESES_OPEN:
		// Function definition. The entry is added before the body is parsed
		// so recursive calls and parameter insertion resolve.
		if !p.symbols.Add(idTok.Lexeme, returnType, scope, true) {
			return Production{}, false, p.multipleDeclarationError(idTok)
		}
		body, err := p.parseDefinitionParentheses(idTok.Lexeme)
		if err != nil {
			return Production{}, false, err
		}
		var def Production
		def.Code.Append(c3e.Label(idTok.Lexeme))
		def.Code.AppendCode(body.Code)
		if !strings.Contains(def.Code[len(def.Code)-1], "return") {
			place := p.nextTemp()
			count := p.symbols.Scope(idTok.Lexeme).ParametersLen()
			def.Code.Append(c3e.Assign(place, "0"))
			def.Code.Append(c3e.Return(place, count))
		}
		return def, true, nil

	case token.T_ASSIGN:
		// Global declaration with an initializer. Its code runs before
		// "goto main", so it is routed to the definitions fragment.
		if !p.symbols.Add(idTok.Lexeme, returnType, scope, false) {
			return Production{}, false, p.multipleDeclarationError(idTok)
		}
		assigned, err := p.parseDefinitionAssign(returnType, scope, idTok)
		if err != nil {
			return Production{}, false, err
		}
		p.globals.AppendCode(assigned.Code)
		return Production{}, true, nil

	case token.T_SEMICOLON:
		p.trace(next)
		if !p.symbols.Add(idTok.Lexeme, returnType, scope, false) {
			return Production{}, false, p.multipleDeclarationError(idTok)
		}
		p.advance()
		return Production{}, true, nil

	case token.T_COMMA:
		if !p.symbols.Add(idTok.Lexeme, returnType, scope, false) {
			return Production{}, false, p.multipleDeclarationError(idTok)
		}
		more, err := p.parseMoreDeclarations(returnType, scope)
		if err != nil {
			return Production{}, false, err
		}
		if _, err := p.expect(token.T_SEMICOLON); err != nil {
			return Production{}, false, err
		}
		p.globals.AppendCode(more.Code)
		return Production{}, true, nil
	}

	return Production{}, false, p.syntacticError(
		"T_PARENTHESES_OPEN or T_ASSIGN or T_SEMICOLON", next)
}

// parseDefinitionAssign parses "= expr (, declaration)* ;" after a global
// identifier.
func (p *Parser) parseDefinitionAssign(returnType, scope string, idTok token.Token) (Production, error) {
	declared, err := p.parseRightSideDeclaration(returnType, scope, idTok)
	if err != nil {
		return Production{}, err
	}
	more, err := p.parseMoreDeclarations(returnType, scope)
	if err != nil {
		return Production{}, err
	}
	if _, err := p.expect(token.T_SEMICOLON); err != nil {
		return Production{}, err
	}
	assigned := Production{Place: declared.Place}
	assigned.Code.AppendCode(declared.Code)
	assigned.Code.AppendCode(more.Code)
	return assigned, nil
}

// parseDefinitionParentheses parses "( params ) { commands }" of a function
// whose name is the scope.
func (p *Parser) parseDefinitionParentheses(scope string) (Production, error) {
	if _, err := p.expect(token.T_PARENTHESES_OPEN); err != nil {
		return Production{}, err
	}
	params, err := p.parseParametersList(scope)
	if err != nil {
		return Production{}, err
	}
	if _, err := p.expect(token.T_PARENTHESES_CLOSE); err != nil {
		return Production{}, err
	}
	if _, err := p.expect(token.T_CURLY_BRACKET_OPEN); err != nil {
		return Production{}, err
	}
	commands, err := p.parseCommandsList(scope)
	if err != nil {
		return Production{}, err
	}
	if _, err := p.expect(token.T_CURLY_BRACKET_CLOSE); err != nil {
		return Production{}, err
	}
	var def Production
	def.Code.AppendCode(params.Code)
	def.Code.AppendCode(commands.Code)
	return def, nil
}

// parseParametersList parses the parameter declarations of a function,
// emitting the "name := param[i]" binding prologue in order.
func (p *Parser) parseParametersList(scope string) (Production, error) {
	param, ok, err := p.parseParameter(scope, 0)
	if err != nil || !ok {
		return Production{}, err
	}
	more, err := p.parseMoreParameters(scope, 1)
	if err != nil {
		return Production{}, err
	}
	var list Production
	list.Code.AppendCode(param.Code)
	list.Code.AppendCode(more.Code)
	return list, nil
}

// parseMoreParameters parses ", param" continuations.
func (p *Parser) parseMoreParameters(scope string, parameterIndex int) (Production, error) {
	tok, ok := p.cur()
	if !ok || tok.Kind != token.T_COMMA {
		return Production{}, nil
	}
	p.trace(tok)
	p.advance()
	param, okParam, err := p.parseParameter(scope, parameterIndex)
	if err != nil {
		return Production{}, err
	}
	if !okParam {
		tok, _ := p.cur()
		return Production{}, p.syntacticError("parameter", tok)
	}
	more, err := p.parseMoreParameters(scope, parameterIndex+1)
	if err != nil {
		return Production{}, err
	}
	var list Production
	list.Code.AppendCode(param.Code)
	list.Code.AppendCode(more.Code)
	return list, nil
}

// parseParameter parses one "modifiers type name" parameter. ok=false means
// no parameter starts here (an empty parameter list).
func (p *Parser) parseParameter(scope string, parameterIndex int) (Production, bool, error) {
	modifiers, err := p.parseModifiersList()
	if err != nil {
		return Production{}, false, err
	}
	baseType, err := p.parseType()
	if err != nil {
		return Production{}, false, err
	}
	if baseType == "" {
		return Production{}, false, nil
	}
	parameterType := joinType(modifiers, baseType)

	idTok, err := p.expect(token.T_ID)
	if err != nil {
		return Production{}, false, err
	}
	owner := p.symbols.Scope(scope)
	if !owner.AddParameter(idTok.Lexeme, parameterType) {
		return Production{}, false, p.multipleDeclarationError(idTok)
	}
	var param Production
	param.Code.Append(c3e.BindParam(p.localized(idTok.Lexeme, scope), parameterIndex))
	return param, true, nil
}

// parseModifiersList collects consecutive declaration modifiers.
func (p *Parser) parseModifiersList() (string, error) {
	var parts []string
	for {
		tok, ok := p.cur()
		if !ok {
			return "", p.eofError("T_RESERVED_WORD")
		}
		if tok.Kind != token.T_RESERVED_WORD || !token.IsModifier(tok.Lexeme) {
			return strings.Join(parts, " "), nil
		}
		p.trace(tok)
		p.advance()
		parts = append(parts, tok.Lexeme)
	}
}

// parseSpecifiersList collects consecutive type specifiers.
func (p *Parser) parseSpecifiersList() (string, error) {
	var parts []string
	for {
		tok, ok := p.cur()
		if !ok {
			return "", p.eofError("T_RESERVED_WORD")
		}
		if tok.Kind != token.T_RESERVED_WORD || !token.IsSpecifier(tok.Lexeme) {
			return strings.Join(parts, " "), nil
		}
		p.trace(tok)
		p.advance()
		parts = append(parts, tok.Lexeme)
	}
}

// parseType parses "specifiers type". Empty means no type starts here.
func (p *Parser) parseType() (string, error) {
	specifiers, err := p.parseSpecifiersList()
	if err != nil {
		return "", err
	}
	tok, ok := p.cur()
	if !ok {
		return "", p.eofError("T_RESERVED_WORD")
	}
	if tok.Kind != token.T_RESERVED_WORD || !token.IsType(tok.Lexeme) {
		return "", nil
	}
	p.trace(tok)
	p.advance()
	return joinType(specifiers, tok.Lexeme), nil
}

// parseReturnType parses "specifiers return_type"; unlike parseType a missing
// type is a syntactic error.
func (p *Parser) parseReturnType() (string, error) {
	specifiers, err := p.parseSpecifiersList()
	if err != nil {
		return "", err
	}
	tok, ok := p.cur()
	if !ok {
		return "", p.eofError("T_RESERVED_WORD")
	}
	if tok.Kind != token.T_RESERVED_WORD || !token.IsReturnType(tok.Lexeme) {
		return "", p.syntacticError("T_RESERVED_WORD", tok)
	}
	p.trace(tok)
	p.advance()
	return joinType(specifiers, tok.Lexeme), nil
}

// parseStandaloneDeclaration parses a local declaration command after its
// declared type. ok=false means the stream ended.
func (p *Parser) parseStandaloneDeclaration(returnType, scope string) (Production, bool, error) {
	idTok, ok := p.cur()
	if !ok {
		return Production{}, false, nil
	}
	if idTok.Kind != token.T_ID && idTok.Kind != token.T_RESERVED_WORD {
		return Production{}, false, p.syntacticError("T_ID or T_RESERVED_WORD", idTok)
	}
	p.trace(idTok)
	p.advance()

	next, ok := p.cur()
	if !ok {
		return Production{}, false, p.eofError("T_ASSIGN or T_COMMA")
	}

	switch next.Kind {
	case token.T_ASSIGN:
		if !p.symbols.Add(idTok.Lexeme, returnType, scope, false) {
			return Production{}, false, p.multipleDeclarationError(idTok)
		}
		declared, err := p.parseRightSideDeclaration(returnType, scope, idTok)
		if err != nil {
			return Production{}, false, err
		}
		if declared.Place == "" {
			return Production{}, true, nil
		}
		more, err := p.parseMoreDeclarations(returnType, scope)
		if err != nil {
			return Production{}, false, err
		}
		if _, err := p.expect(token.T_SEMICOLON); err != nil {
			return Production{}, false, err
		}
		var decl Production
		decl.Code.AppendCode(declared.Code)
		decl.Code.AppendCode(more.Code)
		return decl, true, nil

	case token.T_COMMA:
		if !p.symbols.Add(idTok.Lexeme, returnType, scope, false) {
			return Production{}, false, p.multipleDeclarationError(idTok)
		}
		more, err := p.parseMoreDeclarations(returnType, scope)
		if err != nil {
			return Production{}, false, err
		}
		if _, err := p.expect(token.T_SEMICOLON); err != nil {
			return Production{}, false, err
		}
		return more, true, nil

	case token.T_SEMICOLON:
		if !p.symbols.Add(idTok.Lexeme, returnType, scope, false) {
			return Production{}, false, p.multipleDeclarationError(idTok)
		}
		p.trace(next)
		p.advance()
		return Production{}, true, nil
	}

	return Production{}, false, p.syntacticError("T_ASSIGN or T_COMMA", next)
}

// parseMoreDeclarations parses ", declaration" continuations. A comma not
// followed by an identifier simply ends the list.
func (p *Parser) parseMoreDeclarations(returnType, scope string) (Production, error) {
	tok, ok := p.cur()
	if !ok || tok.Kind != token.T_COMMA {
		return Production{}, nil
	}
	p.trace(tok)
	p.advance()
	declared, okDecl, err := p.parseDeclaration(returnType, scope)
	if err != nil {
		return Production{}, err
	}
	if !okDecl {
		return Production{}, nil
	}
	more, err := p.parseMoreDeclarations(returnType, scope)
	if err != nil {
		return Production{}, err
	}
	var list Production
	list.Code.AppendCode(declared.Code)
	list.Code.AppendCode(more.Code)
	return list, nil
}

// parseDeclaration parses "identifier [= expr]" inside a declaration list.
func (p *Parser) parseDeclaration(returnType, scope string) (Production, bool, error) {
	idTok, ok := p.cur()
	if !ok {
		return Production{}, false, p.eofError("T_ID")
	}
	if idTok.Kind != token.T_ID {
		return Production{}, false, nil
	}
	p.trace(idTok)
	if !p.symbols.Add(idTok.Lexeme, returnType, scope, false) {
		return Production{}, false, p.multipleDeclarationError(idTok)
	}
	p.advance()
	declared, err := p.parseRightSideDeclaration(returnType, scope, idTok)
	if err != nil {
		return Production{}, false, err
	}
	return declared, true, nil
}

// parseRightSideDeclaration parses the optional "= expr" initializer of a
// declaration and emits the initializing assignment. A declared/supplied
// type mismatch records an implicit-conversion warning on the identifier.
func (p *Parser) parseRightSideDeclaration(returnType, scope string, idTok token.Token) (Production, error) {
	tok, ok := p.cur()
	if !ok {
		return Production{}, p.eofError("T_ASSIGN")
	}
	if tok.Kind != token.T_ASSIGN {
		return Production{}, nil
	}
	p.trace(tok)
	p.advance()
	expr, err := p.parseRightSideExpression(scope)
	if err != nil {
		return Production{}, err
	}
	declared := Production{Place: expr.Place}
	declared.Code.AppendCode(expr.Code)
	if expr.Place != "" {
		if returnType != expr.Type {
			p.warnImplicitConversion(returnType, expr.Type, idTok)
		}
		left := p.localized(idTok.Lexeme, scope)
		declared.Code.Append(c3e.Assign(left, p.localized(expr.Place, scope)))
	}
	return declared, nil
}
