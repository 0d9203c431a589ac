package parser

// Commands and control flow: expression statements, while, do/while, for,
// if/else chains, break/continue, and return. Loops install their break and
// continue labels before descending into the body; nested conditionals pass
// them through unchanged, nested loops shadow them.

import (
	"strings"

	"github.com/mauriciogardini/arduino-c-compiler/pkg/c3e"
	"github.com/mauriciogardini/arduino-c-compiler/pkg/symtab"
	"github.com/mauriciogardini/arduino-c-compiler/pkg/token"
)

// parseCommandsList consumes the commands of a function body.
func (p *Parser) parseCommandsList(scope string) (Production, error) {
	var list Production
	for {
		command, ok, err := p.parseCommand(scope)
		if err != nil {
			return Production{}, err
		}
		if !ok {
			return list, nil
		}
		list.Code.AppendCode(command.Code)
	}
}

// parseCommand dispatches one function-body command. Local declarations are
// allowed here; break and continue are not, since no loop labels exist yet.
func (p *Parser) parseCommand(scope string) (Production, bool, error) {
	tok, ok := p.cur()
	if !ok {
		return Production{}, false, nil
	}
	switch {
	case tok.Kind == token.T_ID:
		command, err := p.parseExpressionStatement(scope)
		return command, err == nil, err
	case isReserved(tok, "while"):
		command, err := p.parseWhile(scope)
		return command, err == nil, err
	case isReserved(tok, "do"):
		command, err := p.parseDoWhile(scope)
		return command, err == nil, err
	case isReserved(tok, "for"):
		command, err := p.parseFor(scope)
		return command, err == nil, err
	case isReserved(tok, "if"):
		command, err := p.parseIf(scope, "", "")
		return command, err == nil, err
	case isReserved(tok, "return"):
		command, err := p.parseReturn(scope)
		return command, err == nil, err
	case tok.Kind != token.T_CURLY_BRACKET_CLOSE:
		modifiers, err := p.parseModifiersList()
		if err != nil {
			return Production{}, false, err
		}
		baseType, err := p.parseReturnType()
		if err != nil {
			return Production{}, false, err
		}
		return p.parseStandaloneDeclaration(joinType(modifiers, baseType), scope)
	}
	return Production{}, false, nil
}

// parseBlockCommandsList consumes the commands of a loop (or nested) block,
// threading the inherited break and continue labels.
func (p *Parser) parseBlockCommandsList(scope, breakLabel, continueLabel string) (Production, error) {
	var list Production
	for {
		command, ok, err := p.parseBlockCommand(scope, breakLabel, continueLabel)
		if err != nil {
			return Production{}, err
		}
		if !ok {
			return list, nil
		}
		list.Code.AppendCode(command.Code)
	}
}

// parseBlockCommand dispatches one block command.
func (p *Parser) parseBlockCommand(scope, breakLabel, continueLabel string) (Production, bool, error) {
	tok, ok := p.cur()
	if !ok {
		return Production{}, false, nil
	}
	switch {
	case tok.Kind == token.T_ID:
		command, err := p.parseExpressionStatement(scope)
		return command, err == nil, err
	case isReserved(tok, "while"):
		command, err := p.parseWhile(scope)
		return command, err == nil, err
	case isReserved(tok, "do"):
		command, err := p.parseDoWhile(scope)
		return command, err == nil, err
	case isReserved(tok, "for"):
		command, err := p.parseFor(scope)
		return command, err == nil, err
	case isReserved(tok, "if"):
		command, err := p.parseIf(scope, breakLabel, continueLabel)
		return command, err == nil, err
	case isReserved(tok, "break") || isReserved(tok, "continue"):
		command, err := p.parseSingleWordCommand(scope, breakLabel, continueLabel)
		return command, err == nil, err
	case isReserved(tok, "return"):
		command, err := p.parseReturn(scope)
		return command, err == nil, err
	case tok.Kind != token.T_CURLY_BRACKET_CLOSE:
		modifiers, err := p.parseModifiersList()
		if err != nil {
			return Production{}, false, err
		}
		baseType, err := p.parseReturnType()
		if err != nil {
			return Production{}, false, err
		}
		return p.parseStandaloneDeclaration(joinType(modifiers, baseType), scope)
	}
	return Production{}, false, nil
}

// parseSingleWordCommand parses "break ;" or "continue ;", lowering to a
// jump to the inherited label. Without an enclosing loop there is no label
// to jump to and the command is rejected.
func (p *Parser) parseSingleWordCommand(scope, breakLabel, continueLabel string) (Production, error) {
	tok, ok := p.cur()
	if !ok {
		return Production{}, p.eofError("T_RESERVED_WORD")
	}
	if !isReserved(tok, "break") && !isReserved(tok, "continue") {
		return Production{}, p.syntacticError("T_RESERVED_WORD", tok)
	}
	p.trace(tok)
	p.advance()
	if _, err := p.expect(token.T_SEMICOLON); err != nil {
		return Production{}, err
	}
	label := continueLabel
	if tok.Lexeme == "break" {
		label = breakLabel
	}
	if label == "" {
		return Production{}, p.loopControlError(tok)
	}
	var command Production
	command.Code.Append(c3e.Jump(label))
	return command, nil
}

// parseReturn parses "return expr ;". The emitted instruction carries the
// parameter count of the enclosing function.
func (p *Parser) parseReturn(scope string) (Production, error) {
	tok, ok := p.cur()
	if !ok {
		return Production{}, p.eofError("T_RESERVED_WORD")
	}
	if scope == symtab.GlobalScope {
		return Production{}, p.returnOutOfFunctionError()
	}
	p.trace(tok)
	p.advance()
	expr, err := p.parseRightSideExpression(scope)
	if err != nil {
		return Production{}, err
	}
	if _, err := p.expect(token.T_SEMICOLON); err != nil {
		return Production{}, err
	}
	owner := p.symbols.Scope(scope)
	var command Production
	command.Code.AppendCode(expr.Code)
	command.Code.Append(c3e.Return(p.localized(expr.Place, scope), owner.ParametersLen()))
	return command, nil
}

// parseExpressionStatement parses "[lhs assign_op] expr ;". Without a
// left-hand side the expression value is discarded; its code is kept only
// when it performs a call, since only calls have effects.
func (p *Parser) parseExpressionStatement(scope string) (Production, error) {
	left, err := p.parseLeftSideExpression(scope)
	if err != nil {
		return Production{}, err
	}
	right, err := p.parseRightSideExpression(scope)
	if err != nil {
		return Production{}, err
	}
	if _, err := p.expect(token.T_SEMICOLON); err != nil {
		return Production{}, err
	}
	var command Production
	if left.Place != "" {
		command.Code.AppendCode(right.Code)
		command.Code.Append(c3e.Op(
			p.localized(left.Place, scope),
			left.Operator,
			p.localized(right.Place, scope)))
		return command, nil
	}
	if containsCall(right.Code) {
		command.Code.AppendCode(right.Code)
	}
	return command, nil
}

func containsCall(code c3e.Code) bool {
	for _, line := range code {
		if strings.Contains(line, "call") {
			return true
		}
	}
	return false
}

// parseLeftSideExpression recognizes "identifier assign_op" and captures the
// operator; when the identifier is not followed by an assignment operator it
// backtracks and yields an empty production.
func (p *Parser) parseLeftSideExpression(scope string) (Production, error) {
	tok, ok := p.cur()
	if !ok {
		return Production{}, p.eofError("T_ID")
	}
	if tok.Kind != token.T_ID {
		return Production{}, nil
	}
	if !p.symbols.Exists(tok.Lexeme, scope, true) {
		return Production{}, p.undeclaredError(tok)
	}
	p.advance()
	operator, err := p.parseAssignmentOperator()
	if err != nil {
		return Production{}, err
	}
	if operator == "" {
		p.backtrack()
		return Production{}, nil
	}
	return Production{Place: tok.Lexeme, Operator: operator}, nil
}

// parseAssignmentOperator consumes an assignment operator, or returns empty.
func (p *Parser) parseAssignmentOperator() (string, error) {
	tok, ok := p.cur()
	if !ok {
		return "", p.eofError("assignment operator")
	}
	if !token.IsAssignmentOperator(tok.Lexeme) {
		return "", nil
	}
	p.trace(tok)
	p.advance()
	return tok.Lexeme, nil
}

// parseBlockArgument parses the parenthesized condition of a loop or if.
// A leading assignment is performed before the value is used.
func (p *Parser) parseBlockArgument(scope string) (Production, error) {
	left, err := p.parseLeftSideExpression(scope)
	if err != nil {
		return Production{}, err
	}
	right, err := p.parseRightSideExpression(scope)
	if err != nil {
		return Production{}, err
	}
	if left.Place == "" {
		return right, nil
	}
	leftName := p.localized(left.Place, scope)
	argument := Production{Place: leftName, Type: right.Type}
	argument.Code.AppendCode(right.Code)
	argument.Code.Append(c3e.Op(leftName, left.Operator, p.localized(right.Place, scope)))
	return argument, nil
}

// parseWhile lowers
//
//	start:
//	  <condition>
//	  if cond = 0 goto end
//	  <body with break=end, continue=start>
//	  goto start
//	end:
func (p *Parser) parseWhile(scope string) (Production, error) {
	if _, err := p.expectReserved("while"); err != nil {
		return Production{}, err
	}
	if _, err := p.expect(token.T_PARENTHESES_OPEN); err != nil {
		return Production{}, err
	}
	condition, err := p.parseBlockArgument(scope)
	if err != nil {
		return Production{}, err
	}
	startLabel := p.nextLabel()
	endLabel := p.nextLabel()
	if _, err := p.expect(token.T_PARENTHESES_CLOSE); err != nil {
		return Production{}, err
	}
	if _, err := p.expect(token.T_CURLY_BRACKET_OPEN); err != nil {
		return Production{}, err
	}
	body, err := p.parseBlockCommandsList(scope, endLabel, startLabel)
	if err != nil {
		return Production{}, err
	}
	if _, err := p.expect(token.T_CURLY_BRACKET_CLOSE); err != nil {
		return Production{}, err
	}
	var loop Production
	loop.Code.Append(c3e.Label(startLabel))
	loop.Code.AppendCode(condition.Code)
	loop.Code.Append(c3e.JumpIfZero(p.localized(condition.Place, scope), endLabel))
	loop.Code.AppendCode(body.Code)
	loop.Code.Append(c3e.Jump(startLabel))
	loop.Code.Append(c3e.Label(endLabel))
	return loop, nil
}

// parseDoWhile lowers
//
//	start:
//	  <body with break=end, continue=start>
//	  <condition>
//	  if cond = 0 goto end
//	  goto start
//	end:
func (p *Parser) parseDoWhile(scope string) (Production, error) {
	if _, err := p.expectReserved("do"); err != nil {
		return Production{}, err
	}
	startLabel := p.nextLabel()
	endLabel := p.nextLabel()
	if _, err := p.expect(token.T_CURLY_BRACKET_OPEN); err != nil {
		return Production{}, err
	}
	body, err := p.parseBlockCommandsList(scope, endLabel, startLabel)
	if err != nil {
		return Production{}, err
	}
	if _, err := p.expect(token.T_CURLY_BRACKET_CLOSE); err != nil {
		return Production{}, err
	}
	if _, err := p.expectReserved("while"); err != nil {
		return Production{}, err
	}
	if _, err := p.expect(token.T_PARENTHESES_OPEN); err != nil {
		return Production{}, err
	}
	condition, err := p.parseBlockArgument(scope)
	if err != nil {
		return Production{}, err
	}
	if _, err := p.expect(token.T_PARENTHESES_CLOSE); err != nil {
		return Production{}, err
	}
	if _, err := p.expect(token.T_SEMICOLON); err != nil {
		return Production{}, err
	}
	var loop Production
	loop.Code.Append(c3e.Label(startLabel))
	loop.Code.AppendCode(body.Code)
	loop.Code.AppendCode(condition.Code)
	loop.Code.Append(c3e.JumpIfZero(p.localized(condition.Place, scope), endLabel))
	loop.Code.Append(c3e.Jump(startLabel))
	loop.Code.Append(c3e.Label(endLabel))
	return loop, nil
}

// parseFor lowers
//
//	<init>
//	start:
//	  <condition>
//	  if cond = 0 goto end
//	  <body with break=end, continue=start>
//	  <step>
//	  goto start
//	end:
func (p *Parser) parseFor(scope string) (Production, error) {
	if _, err := p.expectReserved("for"); err != nil {
		return Production{}, err
	}
	return p.parseForParentheses(scope)
}

func (p *Parser) parseForParentheses(scope string) (Production, error) {
	startLabel := p.nextLabel()
	endLabel := p.nextLabel()
	if _, err := p.expect(token.T_PARENTHESES_OPEN); err != nil {
		return Production{}, err
	}
	header, err := p.parseForParameters(scope)
	if err != nil {
		return Production{}, err
	}
	if _, err := p.expect(token.T_PARENTHESES_CLOSE); err != nil {
		return Production{}, err
	}
	body, err := p.parseBlockCurlyBrackets(scope, endLabel, startLabel)
	if err != nil {
		return Production{}, err
	}
	var loop Production
	loop.Code.AppendCode(header.Code)
	loop.Code.Append(c3e.Label(startLabel))
	loop.Code.AppendCode(header.CondCode)
	loop.Code.Append(c3e.JumpIfZero(p.localized(header.Place, scope), endLabel))
	loop.Code.AppendCode(body.Code)
	loop.Code.AppendCode(header.StepCode)
	loop.Code.Append(c3e.Jump(startLabel))
	loop.Code.Append(c3e.Label(endLabel))
	return loop, nil
}

// parseForParameters parses "init ; cond ; step" of a for header. The three
// fragments stay separate: init in Code, condition in CondCode, step in
// StepCode.
func (p *Parser) parseForParameters(scope string) (Production, error) {
	initializer, err := p.parseForFirstParameter(scope)
	if err != nil {
		return Production{}, err
	}
	if _, err := p.expect(token.T_SEMICOLON); err != nil {
		return Production{}, err
	}
	condition, err := p.parseForParameterExpression(scope)
	if err != nil {
		return Production{}, err
	}
	if _, err := p.expect(token.T_SEMICOLON); err != nil {
		return Production{}, err
	}
	step, err := p.parseForParameterExpression(scope)
	if err != nil {
		return Production{}, err
	}
	header := Production{Place: condition.Place}
	header.Code = initializer.Code
	header.CondCode = condition.Code
	header.StepCode = step.Code
	return header, nil
}

// parseForFirstParameter parses the (possibly empty) comma-separated
// initializer list.
func (p *Parser) parseForFirstParameter(scope string) (Production, error) {
	tok, ok := p.cur()
	if !ok {
		return Production{}, p.eofError("T_SEMICOLON")
	}
	if tok.Kind == token.T_SEMICOLON {
		return Production{}, nil
	}
	expr, err := p.parseForExpression(scope)
	if err != nil {
		return Production{}, err
	}
	more, err := p.parseMoreForExpressions(scope)
	if err != nil {
		return Production{}, err
	}
	var initializer Production
	initializer.Code.AppendCode(expr.Code)
	initializer.Code.AppendCode(more.Code)
	return initializer, nil
}

// parseForExpression parses one initializer item: an assignment or a bare
// expression (kept only when it calls).
func (p *Parser) parseForExpression(scope string) (Production, error) {
	left, err := p.parseLeftSideExpression(scope)
	if err != nil {
		return Production{}, err
	}
	right, err := p.parseRightSideExpression(scope)
	if err != nil {
		return Production{}, err
	}
	if left.Place != "" {
		if right.Place == "" {
			return Production{Place: left.Place}, nil
		}
		expr := Production{Place: left.Place}
		expr.Code.AppendCode(right.Code)
		expr.Code.Append(c3e.Op(
			p.localized(left.Place, scope),
			left.Operator,
			p.localized(right.Place, scope)))
		return expr, nil
	}
	var expr Production
	if right.Place != "" && containsCall(right.Code) {
		expr.Code.AppendCode(right.Code)
	}
	return expr, nil
}

// parseMoreForExpressions parses ", expr" initializer continuations.
func (p *Parser) parseMoreForExpressions(scope string) (Production, error) {
	tok, ok := p.cur()
	if !ok || tok.Kind != token.T_COMMA {
		return Production{}, nil
	}
	p.trace(tok)
	p.advance()
	expr, err := p.parseForExpression(scope)
	if err != nil {
		return Production{}, err
	}
	more, err := p.parseMoreForExpressions(scope)
	if err != nil {
		return Production{}, err
	}
	var list Production
	list.Code.AppendCode(expr.Code)
	list.Code.AppendCode(more.Code)
	return list, nil
}

// parseForParameterExpression parses the condition or step slot. An empty
// condition is constant true; an empty step is a no-op.
func (p *Parser) parseForParameterExpression(scope string) (Production, error) {
	tok, ok := p.cur()
	if !ok {
		return Production{}, p.eofError("T_PARENTHESES_CLOSE or T_SEMICOLON")
	}
	switch tok.Kind {
	case token.T_SEMICOLON:
		return p.constantTrue(), nil
	case token.T_PARENTHESES_CLOSE:
		return Production{}, nil
	}
	left, err := p.parseLeftSideExpression(scope)
	if err != nil {
		return Production{}, err
	}
	right, err := p.parseRightSideExpression(scope)
	if err != nil {
		return Production{}, err
	}
	if left.Place != "" {
		leftName := p.localized(left.Place, scope)
		expr := Production{Place: leftName}
		expr.Code.AppendCode(right.Code)
		expr.Code.Append(c3e.Op(leftName, left.Operator, p.localized(right.Place, scope)))
		return expr, nil
	}
	if right.Place != "" {
		return right, nil
	}
	return p.constantTrue(), nil
}

// constantTrue yields a fresh temporary holding 1.
func (p *Parser) constantTrue() Production {
	expr := Production{Place: p.nextTemp(), Type: "int"}
	expr.Code.Append(c3e.Assign(expr.Place, "1"))
	return expr
}

// parseIf lowers an if/else-if/else chain. The whole chain shares a single
// end label, allocated by the outermost if and inherited by nested else-if
// productions, which never re-emit it.
func (p *Parser) parseIf(scope, breakLabel, continueLabel string) (Production, error) {
	if _, err := p.expectReserved("if"); err != nil {
		return Production{}, err
	}
	return p.parseIfParentheses(scope, "", breakLabel, continueLabel)
}

func (p *Parser) parseIfParentheses(scope, inheritedEndLabel, breakLabel, continueLabel string) (Production, error) {
	if _, err := p.expect(token.T_PARENTHESES_OPEN); err != nil {
		return Production{}, err
	}
	condition, err := p.parseBlockArgument(scope)
	if err != nil {
		return Production{}, err
	}
	if _, err := p.expect(token.T_PARENTHESES_CLOSE); err != nil {
		return Production{}, err
	}

	tok, ok := p.cur()
	if !ok {
		return Production{}, p.eofError("T_CURLY_BRACKETS_OPEN or an one line block")
	}
	var thenBody Production
	if tok.Kind == token.T_CURLY_BRACKET_OPEN {
		thenBody, err = p.parseBlockCurlyBrackets(scope, breakLabel, continueLabel)
	} else {
		thenBody, err = p.parseOneLineIfBlock(scope, breakLabel, continueLabel)
	}
	if err != nil {
		return Production{}, err
	}

	endLabel := inheritedEndLabel
	if endLabel == "" {
		endLabel = p.nextLabel()
	}
	elseBody, err := p.parseElse(scope, endLabel, breakLabel, continueLabel)
	if err != nil {
		return Production{}, err
	}

	condPlace := p.localized(condition.Place, scope)
	var chain Production
	chain.Code.AppendCode(condition.Code)
	if len(elseBody.Code) > 0 {
		elseLabel := p.nextLabel()
		chain.Code.Append(c3e.JumpIfZero(condPlace, elseLabel))
		chain.Code.AppendCode(thenBody.Code)
		chain.Code.Append(c3e.Jump(endLabel))
		chain.Code.Append(c3e.Label(elseLabel))
		chain.Code.AppendCode(elseBody.Code)
	} else {
		chain.Code.Append(c3e.JumpIfZero(condPlace, endLabel))
		chain.Code.AppendCode(thenBody.Code)
	}
	if inheritedEndLabel == "" {
		chain.Code.Append(c3e.Label(endLabel))
	}
	return chain, nil
}

// parseOneLineIfBlock parses a braceless if or else body: a single
// expression statement, break/continue, or return.
func (p *Parser) parseOneLineIfBlock(scope, breakLabel, continueLabel string) (Production, error) {
	tok, ok := p.cur()
	if !ok {
		return Production{}, p.eofError("T_ID or T_RESERVED_WORD")
	}
	switch {
	case tok.Kind == token.T_ID:
		return p.parseExpressionStatement(scope)
	case isReserved(tok, "break") || isReserved(tok, "continue"):
		return p.parseSingleWordCommand(scope, breakLabel, continueLabel)
	case isReserved(tok, "return"):
		return p.parseReturn(scope)
	}
	return Production{}, p.syntacticError("T_ID or T_RESERVED_WORD", tok)
}

// parseBlockCurlyBrackets parses "{ block_commands }".
func (p *Parser) parseBlockCurlyBrackets(scope, breakLabel, continueLabel string) (Production, error) {
	if _, err := p.expect(token.T_CURLY_BRACKET_OPEN); err != nil {
		return Production{}, err
	}
	block, err := p.parseBlockCommandsList(scope, breakLabel, continueLabel)
	if err != nil {
		return Production{}, err
	}
	if _, err := p.expect(token.T_CURLY_BRACKET_CLOSE); err != nil {
		return Production{}, err
	}
	return block, nil
}

// parseElse parses an optional else branch: another if (chaining the end
// label), a block, or a one-line body. No else yields an empty production.
func (p *Parser) parseElse(scope, inheritedEndLabel, breakLabel, continueLabel string) (Production, error) {
	tok, ok := p.cur()
	if !ok {
		return Production{}, p.eofError("else")
	}
	if !isReserved(tok, "else") {
		return Production{}, nil
	}
	p.trace(tok)
	p.advance()

	tok, ok = p.cur()
	if !ok {
		return Production{}, p.eofError("if")
	}
	switch {
	case isReserved(tok, "if"):
		p.trace(tok)
		p.advance()
		return p.parseIfParentheses(scope, inheritedEndLabel, breakLabel, continueLabel)
	case tok.Kind == token.T_CURLY_BRACKET_OPEN:
		return p.parseBlockCurlyBrackets(scope, breakLabel, continueLabel)
	}
	return p.parseOneLineIfBlock(scope, breakLabel, continueLabel)
}
