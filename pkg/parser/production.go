package parser

import "github.com/mauriciogardini/arduino-c-compiler/pkg/c3e"

// Production is the attribute record carried by every grammar symbol.
//
// Place names the value the production computed: a source identifier, a
// generated temporary like "#T3", or a literal. Operator is set only by
// left-hand-side assignment productions. Type is the production's value type
// on the coarse numeric lattice. Code is the intermediary-code fragment
// synthesized so far.
//
// CondCode and StepCode are used only by the for-header production, which
// must hold the condition and step fragments apart so the loop template can
// interleave them with the body.
type Production struct {
	Place    string
	Operator string
	Type     string
	Code     c3e.Code
	CondCode c3e.Code
	StepCode c3e.Code
}
