// Package c3e builds the textual three-address intermediary code. Every
// instruction is a plain line; fragments are ordered line slices stitched
// together by the analyzer's productions.
package c3e

import "fmt"

// Code is an ordered fragment of instructions.
type Code []string

// Append adds lines to the end of the fragment.
func (c *Code) Append(lines ...string) {
	*c = append(*c, lines...)
}

// AppendCode adds another fragment to the end of this one.
func (c *Code) AppendCode(other Code) {
	*c = append(*c, other...)
}

// Label renders "name:".
func Label(name string) string {
	return name + ":"
}

// Assign renders "dst := src".
func Assign(dst, src string) string {
	return fmt.Sprintf("%s := %s", dst, src)
}

// Op renders an assignment statement with the source operator, e.g.
// "x = #T0" or "x += #T1".
func Op(dst, operator, src string) string {
	return fmt.Sprintf("%s %s %s", dst, operator, src)
}

// Binary renders "dst := left op right".
func Binary(dst, left, operator, right string) string {
	return fmt.Sprintf("%s := %s %s %s", dst, left, operator, right)
}

// Unary renders "dst := op operand".
func Unary(dst, operator, operand string) string {
	return fmt.Sprintf("%s := %s %s", dst, operator, operand)
}

// JumpIfZero renders "if place = 0 goto label".
func JumpIfZero(place, label string) string {
	return fmt.Sprintf("if %s = 0 goto %s", place, label)
}

// Jump renders "goto label".
func Jump(label string) string {
	return "goto " + label
}

// Call renders "dst := call fn, n" where n is the declared parameter count.
func Call(dst, fn string, n int) string {
	return fmt.Sprintf("%s := call %s, %d", dst, fn, n)
}

// Param renders "param place".
func Param(place string) string {
	return "param " + place
}

// BindParam renders the prologue binding "dst := param[i]".
func BindParam(dst string, i int) string {
	return fmt.Sprintf("%s := param[%d]", dst, i)
}

// Return renders "return place, n" where n is the parameter count of the
// enclosing function.
func Return(place string, n int) string {
	return fmt.Sprintf("return %s, %d", place, n)
}
