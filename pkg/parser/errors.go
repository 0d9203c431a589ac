package parser

import (
	"fmt"

	"github.com/mauriciogardini/arduino-c-compiler/pkg/token"
)

// Error is a fatal diagnostic. The first one raised terminates compilation.
type Error struct {
	Message string
	Token   *token.Token
}

func (e *Error) Error() string {
	if e.Token != nil {
		return fmt.Sprintf("Error - %s [%dL - %dC]",
			e.Message, e.Token.Line+1, e.Token.Column+1)
	}
	return fmt.Sprintf("Error - %s", e.Message)
}

// Warning is a non-fatal diagnostic. Warnings accumulate and are reported
// after a successful compilation.
type Warning struct {
	Message string
	Token   *token.Token
}

func (w *Warning) String() string {
	if w.Token != nil {
		return fmt.Sprintf("Warning - %s [%dL - %dC]",
			w.Message, w.Token.Line+1, w.Token.Column+1)
	}
	return fmt.Sprintf("Warning - %s", w.Message)
}

// eofError reports running out of tokens while expecting something. The last
// token of the stream anchors the position.
func (p *Parser) eofError(expected string) error {
	return &Error{
		Message: fmt.Sprintf("Expected a %s, got EOF", expected),
		Token:   p.lastToken(),
	}
}

// syntacticError reports an unexpected token kind.
func (p *Parser) syntacticError(expected string, got token.Token) error {
	return &Error{
		Message: fmt.Sprintf("Expected a %s, got %s", expected, got.Kind),
		Token:   &got,
	}
}

// multipleDeclarationError reports a duplicate declaration in the same scope.
func (p *Parser) multipleDeclarationError(identifier token.Token) error {
	return &Error{
		Message: fmt.Sprintf("Previous declaration of %q was found", identifier.Lexeme),
		Token:   &identifier,
	}
}

// undeclaredError reports a reference that resolves in no visible scope.
func (p *Parser) undeclaredError(identifier token.Token) error {
	return &Error{
		Message: fmt.Sprintf("%q undeclared.", identifier.Lexeme),
		Token:   &identifier,
	}
}

// invalidTypeError reports a type-incompatible operand.
func (p *Parser) invalidTypeError(productionType string) error {
	return &Error{
		Message: fmt.Sprintf("%q is an invalid type for this operation", productionType),
	}
}

// invalidOperandsError reports non-integral operands to the remainder operator.
func (p *Parser) invalidOperandsError(leftType, rightType string, operator token.Token) error {
	return &Error{
		Message: fmt.Sprintf("Invalid operands for remainder operation: %q and %q",
			leftType, rightType),
		Token: &operator,
	}
}

// returnOutOfFunctionError reports a return statement at global scope.
func (p *Parser) returnOutOfFunctionError() error {
	return &Error{Message: "Return out of function"}
}

// loopControlError reports break or continue outside of a loop-bearing block.
func (p *Parser) loopControlError(keyword token.Token) error {
	return &Error{
		Message: fmt.Sprintf("%q used outside of a loop", keyword.Lexeme),
		Token:   &keyword,
	}
}

// unexpectedParameterError reports a call site passing more arguments than
// the function declares.
func (p *Parser) unexpectedParameterError(functionIdentifier string, parameterCount int) error {
	if parameterCount == 0 {
		return &Error{
			Message: fmt.Sprintf("The function %s didn't expect any parameters",
				functionIdentifier),
		}
	}
	return &Error{
		Message: fmt.Sprintf("The function %s only expected %d parameters",
			functionIdentifier, parameterCount),
	}
}

// warnImplicitConversion records a numeric conversion between a declared type
// and the supplied expression type.
func (p *Parser) warnImplicitConversion(leftType, rightType string, tok token.Token) {
	p.warnings = append(p.warnings, &Warning{
		Message: fmt.Sprintf("implicit conversion from %q to %q", rightType, leftType),
		Token:   &tok,
	})
}
