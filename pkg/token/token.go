// Package token defines the lexical token kinds for the Arduino C dialect.
package token

import "fmt"

// Kind identifies the lexical class of a token.
type Kind int32

//nolint:revive // T_* names are intentionally ALL_CAPS; they appear verbatim in diagnostics.
const (
	T_EOF Kind = iota
	T_ILLEGAL

	// Atoms
	T_ID
	T_RESERVED_WORD
	T_INTEGER
	T_FLOAT

	// Brackets
	T_PARENTHESES_OPEN
	T_PARENTHESES_CLOSE
	T_SQUARE_BRACKET_OPEN
	T_SQUARE_BRACKET_CLOSE
	T_CURLY_BRACKET_OPEN
	T_CURLY_BRACKET_CLOSE

	// Punctuation
	T_COMMA
	T_SEMICOLON
	T_COLON
	T_DOT
	T_QUESTION_MARK
	T_ARROW

	// Assignment and comparison
	T_ASSIGN
	T_EQUAL_TO
	T_DIFFERENT
	T_GREATER_THAN
	T_GREATER_THAN_OR_EQUAL_TO
	T_LOWER_THAN
	T_LOWER_THAN_OR_EQUAL_TO

	// Arithmetic
	T_ADDITION
	T_SUBTRACTION
	T_MULTIPLICATION
	T_DIVISION
	T_MODULO
	T_INCREMENT
	T_DECREMENT

	// Compound assignment
	T_COMPOUND_ADDITION
	T_COMPOUND_SUBTRACTION
	T_COMPOUND_MULTIPLICATION
	T_COMPOUND_DIVISION
	T_COMPOUND_MODULO

	// Logical
	T_AND
	T_OR
	T_NOT

	// Bitwise
	T_BITWISE_AND
	T_BITWISE_OR
	T_BITWISE_XOR
	T_BITWISE_NOT
	T_BITWISE_LEFT_SHIFT
	T_BITWISE_RIGHT_SHIFT
	T_BITWISE_AND_ASSIGNMENT
	T_BITWISE_OR_ASSIGNMENT
	T_BITWISE_XOR_ASSIGNMENT
	T_BITWISE_LEFT_ASSIGNMENT
	T_BITWISE_RIGHT_ASSIGNMENT

	// Comments (suppressed by the lexer, kept for completeness)
	T_SINGLE_LINE_COMMENT
	T_MULTI_LINE_COMMENT_START
	T_MULTI_LINE_COMMENT_END
)

// kindNames maps kinds to the names used in diagnostics.
var kindNames = map[Kind]string{
	T_EOF:     "EOF",
	T_ILLEGAL: "T_ILLEGAL",

	T_ID:            "T_ID",
	T_RESERVED_WORD: "T_RESERVED_WORD",
	T_INTEGER:       "T_INTEGER",
	T_FLOAT:         "T_FLOAT",

	T_PARENTHESES_OPEN:     "T_PARENTHESES_OPEN",
	T_PARENTHESES_CLOSE:    "T_PARENTHESES_CLOSE",
	T_SQUARE_BRACKET_OPEN:  "T_SQUARE_BRACKET_OPEN",
	T_SQUARE_BRACKET_CLOSE: "T_SQUARE_BRACKET_CLOSE",
	T_CURLY_BRACKET_OPEN:   "T_CURLY_BRACKET_OPEN",
	T_CURLY_BRACKET_CLOSE:  "T_CURLY_BRACKET_CLOSE",

	T_COMMA:         "T_COMMA",
	T_SEMICOLON:     "T_SEMICOLON",
	T_COLON:         "T_COLON",
	T_DOT:           "T_DOT",
	T_QUESTION_MARK: "T_QUESTION_MARK",
	T_ARROW:         "T_ARROW",

	T_ASSIGN:                   "T_ASSIGN",
	T_EQUAL_TO:                 "T_EQUAL_TO",
	T_DIFFERENT:                "T_DIFFERENT",
	T_GREATER_THAN:             "T_GREATER_THAN",
	T_GREATER_THAN_OR_EQUAL_TO: "T_GREATER_THAN_OR_EQUAL_TO",
	T_LOWER_THAN:               "T_LOWER_THAN",
	T_LOWER_THAN_OR_EQUAL_TO:   "T_LOWER_THAN_OR_EQUAL_TO",

	T_ADDITION:       "T_ADDITION",
	T_SUBTRACTION:    "T_SUBTRACTION",
	T_MULTIPLICATION: "T_MULTIPLICATION",
	T_DIVISION:       "T_DIVISION",
	T_MODULO:         "T_MODULO",
	T_INCREMENT:      "T_INCREMENT",
	T_DECREMENT:      "T_DECREMENT",

	T_COMPOUND_ADDITION:       "T_COMPOUND_ADDITION",
	T_COMPOUND_SUBTRACTION:    "T_COMPOUND_SUBTRACTION",
	T_COMPOUND_MULTIPLICATION: "T_COMPOUND_MULTIPLICATION",
	T_COMPOUND_DIVISION:       "T_COMPOUND_DIVISION",
	T_COMPOUND_MODULO:         "T_COMPOUND_MODULO",

	T_AND: "T_AND",
	T_OR:  "T_OR",
	T_NOT: "T_NOT",

	T_BITWISE_AND:              "T_BITWISE_AND",
	T_BITWISE_OR:               "T_BITWISE_OR",
	T_BITWISE_XOR:              "T_BITWISE_XOR",
	T_BITWISE_NOT:              "T_BITWISE_NOT",
	T_BITWISE_LEFT_SHIFT:       "T_BITWISE_LEFT_SHIFT",
	T_BITWISE_RIGHT_SHIFT:      "T_BITWISE_RIGHT_SHIFT",
	T_BITWISE_AND_ASSIGNMENT:   "T_BITWISE_AND_ASSIGNMENT",
	T_BITWISE_OR_ASSIGNMENT:    "T_BITWISE_OR_ASSIGNMENT",
	T_BITWISE_XOR_ASSIGNMENT:   "T_BITWISE_XOR_ASSIGNMENT",
	T_BITWISE_LEFT_ASSIGNMENT:  "T_BITWISE_LEFT_ASSIGNMENT",
	T_BITWISE_RIGHT_ASSIGNMENT: "T_BITWISE_RIGHT_ASSIGNMENT",

	T_SINGLE_LINE_COMMENT:      "T_SINGLE_LINE_COMMENT",
	T_MULTI_LINE_COMMENT_START: "T_MULTI_LINE_COMMENT_START",
	T_MULTI_LINE_COMMENT_END:   "T_MULTI_LINE_COMMENT_END",
}

// String returns the diagnostic name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("KIND(%d)", k)
}

// Token is a lexical token with its source position.
// Line and Column are 0-based; diagnostics render them 1-based.
type Token struct {
	Kind   Kind
	Lexeme string
	Line   int
	Column int
}

// String renders the token the way the lexer dump prints it.
func (t Token) String() string {
	return fmt.Sprintf("%s - %q (%d, %d)", t.Kind, t.Lexeme, t.Line, t.Column)
}

// reservedWords is the closed set of lexemes classified as T_RESERVED_WORD.
var reservedWords = map[string]bool{}

func init() {
	for _, group := range [][]string{
		// Arduino constants
		{"HIGH", "LOW", "INPUT", "OUTPUT", "INPUT_PULLUP"},
		// Keywords
		{"auto", "boolean", "break", "case", "char", "const", "continue",
			"default", "do", "double", "else", "enum", "extern", "false",
			"float", "for", "goto", "if", "int", "long", "register", "return",
			"short", "signed", "sizeof", "static", "struct", "switch", "true",
			"typedef", "union", "unsigned", "void", "volatile", "word", "while"},
		// Alternative operator spellings
		{"and", "and_eq", "bitand", "bitor", "compl", "not", "or", "or_eq",
			"typeid", "xor", "xor_eq"},
		// Arduino entry points, accepted as function names
		{"loop", "setup"},
	} {
		for _, w := range group {
			reservedWords[w] = true
		}
	}
}

// LookupIdent classifies an identifier lexeme as T_RESERVED_WORD or T_ID.
func LookupIdent(lexeme string) Kind {
	if reservedWords[lexeme] {
		return T_RESERVED_WORD
	}
	return T_ID
}

// Reserved-word classes that participate in declared types.
var (
	// Modifiers prefix a declaration.
	Modifiers = []string{"auto", "extern", "register", "static"}
	// Specifiers qualify the base type.
	Specifiers = []string{"long", "short", "signed", "unsigned"}
	// Types are valid variable base types.
	Types = []string{"boolean", "char", "double", "float", "int", "word"}
	// ReturnTypes additionally admit void.
	ReturnTypes = []string{"boolean", "char", "double", "float", "int", "void", "word"}
)

func contains(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

// IsModifier reports whether the lexeme is a declaration modifier.
func IsModifier(lexeme string) bool { return contains(Modifiers, lexeme) }

// IsSpecifier reports whether the lexeme is a type specifier.
func IsSpecifier(lexeme string) bool { return contains(Specifiers, lexeme) }

// IsType reports whether the lexeme is a variable base type.
func IsType(lexeme string) bool { return contains(Types, lexeme) }

// IsReturnType reports whether the lexeme is a valid return type.
func IsReturnType(lexeme string) bool { return contains(ReturnTypes, lexeme) }

// AssignmentOperators is the closed set of assignment operator lexemes.
var AssignmentOperators = []string{
	"=", "*=", "/=", "%=", "+=", "-=", "<<=", ">>=", "&=", "^=", "|=",
}

// IsAssignmentOperator reports whether the lexeme assigns.
func IsAssignmentOperator(lexeme string) bool {
	return contains(AssignmentOperators, lexeme)
}
