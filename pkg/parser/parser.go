// Package parser implements the syntactic-semantic analyzer for the Arduino C
// dialect: a recursive-descent parser interleaved with scope and type
// analysis, generating three-address intermediary code as it reduces.
//
// The parser is split across multiple files:
//
//   - parser.go (this file): Parser struct, public API, token helpers
//   - parser_def.go: top-level definitions, parameters, declarations, types
//   - parser_stmt.go: commands, loops, conditionals, break/continue/return
//   - parser_expr.go: expression precedence cascade and elements
//   - parser_call.go: function calls and argument lists
//   - errors.go: diagnostics
//   - production.go: the attribute record
//
// # Grammar overview
//
//	program         → definition*
//	definition      → modifiers return_type name ( "(" params ")" "{" command* "}"
//	                                             | ["=" expr] ("," declaration)* ";" )
//	command         → expression_stmt | while | do_while | for | if | return | local_decl
//	block_command   → command | "break" ";" | "continue" ";"
//	expression_stmt → [IDENT assign_op] right_expr ";"
//	right_expr      → logical_or (flat left-associative cascade down to element)
//
// Compilation is single-pass and stops at the first error.
package parser

import (
	"log/slog"
	"strings"

	"github.com/mauriciogardini/arduino-c-compiler/pkg/c3e"
	"github.com/mauriciogardini/arduino-c-compiler/pkg/symtab"
	"github.com/mauriciogardini/arduino-c-compiler/pkg/token"
)

// Parser walks the token sequence once, populating the symbol table and
// synthesizing intermediary code. One instance serves one compilation.
type Parser struct {
	tokens   []token.Token
	pos      int
	symbols  *symtab.Table
	globals  c3e.Code // code of global declarations, printed before "goto main"
	warnings []*Warning

	tempIndex  int
	labelIndex int

	log *slog.Logger
}

// Result is a successful compilation.
type Result struct {
	Symbols  *symtab.Table
	Globals  []string // global-initializer code
	Code     []string // program code, executed after "goto main"
	Warnings []*Warning
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger makes the parser trace matched tokens at debug level.
func WithLogger(log *slog.Logger) Option {
	return func(p *Parser) { p.log = log }
}

// New creates a parser over a token sequence.
func New(tokens []token.Token, opts ...Option) *Parser {
	p := &Parser{
		tokens:  tokens,
		symbols: symtab.New(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse analyzes the whole token sequence. The returned error is the first
// (and only) fatal diagnostic; warnings ride along on the result.
func (p *Parser) Parse() (*Result, error) {
	program, err := p.parseDefinitionsList(symtab.GlobalScope)
	if err != nil {
		return nil, err
	}
	return &Result{
		Symbols:  p.symbols,
		Globals:  []string(p.globals),
		Code:     []string(program.Code),
		Warnings: p.warnings,
	}, nil
}

// ---------- Token helpers ----------

// cur returns the current token, reporting whether one remains.
func (p *Parser) cur() (token.Token, bool) {
	if p.pos >= len(p.tokens) {
		return token.Token{}, false
	}
	return p.tokens[p.pos], true
}

// advance moves to the next token.
func (p *Parser) advance() { p.pos++ }

// backtrack steps back one token.
func (p *Parser) backtrack() { p.pos-- }

// lastToken returns the final token of the stream, anchoring EOF diagnostics.
func (p *Parser) lastToken() *token.Token {
	if len(p.tokens) == 0 {
		return nil
	}
	return &p.tokens[len(p.tokens)-1]
}

// expect consumes the current token if it has the given kind, otherwise
// raises a syntactic (or EOF) error naming the expectation.
func (p *Parser) expect(kind token.Kind) (token.Token, error) {
	return p.expectNamed(kind, kind.String())
}

// expectNamed is expect with an explicit expectation name for diagnostics.
func (p *Parser) expectNamed(kind token.Kind, expected string) (token.Token, error) {
	tok, ok := p.cur()
	if !ok {
		return token.Token{}, p.eofError(expected)
	}
	if tok.Kind != kind {
		return token.Token{}, p.syntacticError(expected, tok)
	}
	p.trace(tok)
	p.advance()
	return tok, nil
}

// expectReserved consumes the current token if it is the given reserved word.
func (p *Parser) expectReserved(lexeme string) (token.Token, error) {
	tok, ok := p.cur()
	if !ok {
		return token.Token{}, p.eofError(lexeme)
	}
	if tok.Kind != token.T_RESERVED_WORD || tok.Lexeme != lexeme {
		return token.Token{}, p.syntacticError(lexeme, tok)
	}
	p.trace(tok)
	p.advance()
	return tok, nil
}

// isReserved reports whether tok is the given reserved word.
func isReserved(tok token.Token, lexeme string) bool {
	return tok.Kind == token.T_RESERVED_WORD && tok.Lexeme == lexeme
}

// trace logs a matched token when debug tracing is on.
func (p *Parser) trace(tok token.Token) {
	if p.log != nil {
		p.log.Debug("matched token",
			slog.String("kind", tok.Kind.String()),
			slog.String("lexeme", tok.Lexeme),
			slog.Int("line", tok.Line),
			slog.Int("column", tok.Column))
	}
}

// ---------- Temporaries, labels, localization ----------

// nextTemp allocates a fresh temporary. Numbering is monotonic for the whole
// compilation; the textual order of first use is externally observable.
func (p *Parser) nextTemp() string {
	name := "#T" + itoa(p.tempIndex)
	p.tempIndex++
	return name
}

// nextLabel allocates a fresh label.
func (p *Parser) nextLabel() string {
	name := "#LB" + itoa(p.labelIndex)
	p.labelIndex++
	return name
}

// localized rewrites a place for emission: temporaries and labels (anything
// carrying '#') pass through, resolvable identifiers get their scope prefix,
// and literals pass through unchanged.
func (p *Parser) localized(place, scope string) string {
	if strings.Contains(place, "#") {
		return place
	}
	if name := p.symbols.LocalizedIdentifier(place, scope); name != "" {
		return name
	}
	return place
}

// ---------- Type lattice ----------

func isNumericType(t string) bool {
	return t == "int" || t == "float" || t == "double"
}

// isValidOperation reports whether the operand pair is acceptable: either
// both sides are numeric values, or at least the left side is.
func isValidOperation(p1, p2 Production) bool {
	v1 := p1.Place != "" && isNumericType(p1.Type)
	v2 := p2.Place != "" && isNumericType(p2.Type)
	if v1 && v2 {
		return true
	}
	return p1.Place != "" && isNumericType(p1.Type)
}

// operationType combines operand types: equal types pass through, a double
// operand widens to double, any other mix widens to float. With only one
// operand present the left type passes through.
func operationType(p1, p2 Production) string {
	if p1.Place != "" && p2.Place != "" {
		if p2.Type != p1.Type {
			if p1.Type == "double" || p2.Type == "double" {
				return "double"
			}
			return "float"
		}
	}
	return p1.Type
}

// resultType type-checks a binary reduction and yields the result type.
func (p *Parser) resultType(p1, p2 Production) (string, error) {
	if !isValidOperation(p1, p2) {
		return "", p.invalidTypeError(p1.Type)
	}
	return operationType(p1, p2), nil
}

// joinType concatenates an optional prefix (modifiers or specifiers) with the
// base type.
func joinType(prefix, base string) string {
	if prefix == "" {
		return base
	}
	return prefix + " " + base
}

// itoa avoids fmt for the two hot counters.
func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
