package c3e

import (
	"reflect"
	"testing"
)

func TestInstructionForms(t *testing.T) {
	tests := []struct {
		got  string
		want string
	}{
		{Label("main"), "main:"},
		{Assign("x", "3"), "x := 3"},
		{Op("x", "+=", "#T1"), "x += #T1"},
		{Binary("#T2", "a", "+", "b"), "#T2 := a + b"},
		{Unary("#T3", "-", "#T2"), "#T3 := - #T2"},
		{JumpIfZero("#T4", "#LB1"), "if #T4 = 0 goto #LB1"},
		{Jump("#LB0"), "goto #LB0"},
		{Call("#T5", "foo", 2), "#T5 := call foo, 2"},
		{Param("x"), "param x"},
		{BindParam("foo_a", 0), "foo_a := param[0]"},
		{Return("#T7", 1), "return #T7, 1"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}

func TestCodeAppend(t *testing.T) {
	var code Code
	code.Append("a := 1")
	code.AppendCode(Code{"b := 2", "c := 3"})
	code.Append("goto #LB0")

	want := Code{"a := 1", "b := 2", "c := 3", "goto #LB0"}
	if !reflect.DeepEqual(code, want) {
		t.Errorf("code = %v, want %v", code, want)
	}
}
