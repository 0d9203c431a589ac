package parser_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/mauriciogardini/arduino-c-compiler/internal/testutil"
	"github.com/mauriciogardini/arduino-c-compiler/pkg/lexer"
	"github.com/mauriciogardini/arduino-c-compiler/pkg/parser"
)

func compile(t *testing.T, source string) *parser.Result {
	t.Helper()
	p := parser.New(lexer.Tokenize(source), parser.WithLogger(testutil.NewTestLogger(t)))
	result, err := p.Parse()
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}
	return result
}

func compileErr(t *testing.T, source string) error {
	t.Helper()
	p := parser.New(lexer.Tokenize(source))
	_, err := p.Parse()
	if err == nil {
		t.Fatal("expected a compile error, got none")
	}
	return err
}

func TestEmptyMain(t *testing.T) {
	result := compile(t, "void main(){}")

	expected := []string{
		"main:",
		"#T0 := 0",
		"return #T0, 0",
	}
	if !reflect.DeepEqual(result.Code, expected) {
		t.Errorf("code = %v, want %v", result.Code, expected)
	}
	if len(result.Globals) != 0 {
		t.Errorf("unexpected global code: %v", result.Globals)
	}
}

func TestDeclarationImplicitConversionWarning(t *testing.T) {
	result := compile(t, "int main(){ float x = 1; return 0; }")

	if len(result.Warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(result.Warnings))
	}
	warning := result.Warnings[0]
	if warning.Message != `implicit conversion from "int" to "float"` {
		t.Errorf("warning message = %q", warning.Message)
	}
	if warning.Token == nil || warning.Token.Lexeme != "x" || warning.Token.Column != 18 {
		t.Errorf("warning anchored at %v, want the x token at column 18", warning.Token)
	}
}

func TestWhileWithBreak(t *testing.T) {
	result := compile(t, `void main(){ int i=0; while(i<10){ i = i+1; if(i==5) break; } }`)

	expected := []string{
		"main:",
		"#T0 := 0",
		"main_i := #T0",
		"#LB0:",
		"#T1 := 10",
		"#T2 := main_i < #T1",
		"if #T2 = 0 goto #LB1",
		"#T3 := 1",
		"#T4 := main_i + #T3",
		"main_i = #T4",
		"#T5 := 5",
		"#T6 := main_i == #T5",
		"if #T6 = 0 goto #LB2",
		"goto #LB1",
		"#LB2:",
		"goto #LB0",
		"#LB1:",
		"#T7 := 0",
		"return #T7, 0",
	}
	if !reflect.DeepEqual(result.Code, expected) {
		t.Errorf("code = %v, want %v", result.Code, expected)
	}
}

func TestRemainderInvalidOperands(t *testing.T) {
	err := compileErr(t, "void main(){ float a=1; int b=2; int c=a%b; }")
	if !strings.Contains(err.Error(), `Invalid operands for remainder operation: "float" and "int"`) {
		t.Errorf("error = %v", err)
	}
}

func TestUndeclaredIdentifier(t *testing.T) {
	err := compileErr(t, "void main(){ y = 1; }")
	if !strings.Contains(err.Error(), `"y" undeclared.`) {
		t.Errorf("error = %v", err)
	}
}

func TestCallArity(t *testing.T) {
	err := compileErr(t, "int f(int a){ return a; } void main(){ f(1, 2); }")
	if !strings.Contains(err.Error(), "The function f only expected 1 parameters") {
		t.Errorf("error = %v", err)
	}

	err = compileErr(t, "int f(){ return 0; } void main(){ f(1); }")
	if !strings.Contains(err.Error(), "The function f didn't expect any parameters") {
		t.Errorf("error = %v", err)
	}
}

func TestNestedForLoops(t *testing.T) {
	result := compile(t, `
void main(){
	int i, j;
	for(i = 0; i < 2; i = i + 1){
		for(j = 0; j < 2; j = j + 1){
			break;
		}
	}
}`)

	expected := []string{
		"main:",
		"#T0 := 0",
		"main_i = #T0",
		"#LB0:",
		"#T1 := 2",
		"#T2 := main_i < #T1",
		"if #T2 = 0 goto #LB1",
		"#T5 := 0",
		"main_j = #T5",
		"#LB2:",
		"#T6 := 2",
		"#T7 := main_j < #T6",
		"if #T7 = 0 goto #LB3",
		"goto #LB3",
		"#T8 := 1",
		"#T9 := main_j + #T8",
		"main_j = #T9",
		"goto #LB2",
		"#LB3:",
		"#T3 := 1",
		"#T4 := main_i + #T3",
		"main_i = #T4",
		"goto #LB0",
		"#LB1:",
		"#T10 := 0",
		"return #T10, 0",
	}
	if !reflect.DeepEqual(result.Code, expected) {
		t.Errorf("code = %v, want %v", result.Code, expected)
	}
}

func TestForEmptyHeaderSlots(t *testing.T) {
	result := compile(t, `void main(){ for(;;){ break; } }`)

	expected := []string{
		"main:",
		"#LB0:",
		"#T0 := 1",
		"if #T0 = 0 goto #LB1",
		"goto #LB1",
		"goto #LB0",
		"#LB1:",
		"#T1 := 0",
		"return #T1, 0",
	}
	if !reflect.DeepEqual(result.Code, expected) {
		t.Errorf("code = %v, want %v", result.Code, expected)
	}
}

func TestDoWhile(t *testing.T) {
	result := compile(t, `void main(){ int i = 0; do { i = i + 1; } while(i < 3); }`)

	expected := []string{
		"main:",
		"#T0 := 0",
		"main_i := #T0",
		"#LB0:",
		"#T1 := 1",
		"#T2 := main_i + #T1",
		"main_i = #T2",
		"#T3 := 3",
		"#T4 := main_i < #T3",
		"if #T4 = 0 goto #LB1",
		"goto #LB0",
		"#LB1:",
		"#T5 := 0",
		"return #T5, 0",
	}
	if !reflect.DeepEqual(result.Code, expected) {
		t.Errorf("code = %v, want %v", result.Code, expected)
	}
}

func TestIfElseIfElseSharesOneEndLabel(t *testing.T) {
	result := compile(t, `
void main(){
	int a = 1;
	if(a == 1){
		a = 2;
	} else if(a == 2){
		a = 3;
	} else {
		a = 4;
	}
}`)

	expected := []string{
		"main:",
		"#T0 := 1",
		"main_a := #T0",
		"#T1 := 1",
		"#T2 := main_a == #T1",
		"if #T2 = 0 goto #LB2",
		"#T3 := 2",
		"main_a = #T3",
		"goto #LB0",
		"#LB2:",
		"#T4 := 2",
		"#T5 := main_a == #T4",
		"if #T5 = 0 goto #LB1",
		"#T6 := 3",
		"main_a = #T6",
		"goto #LB0",
		"#LB1:",
		"#T7 := 4",
		"main_a = #T7",
		"#LB0:",
		"#T8 := 0",
		"return #T8, 0",
	}
	if !reflect.DeepEqual(result.Code, expected) {
		t.Errorf("code = %v, want %v", result.Code, expected)
	}

	endLabels := 0
	for _, line := range result.Code {
		if line == "#LB0:" {
			endLabels++
		}
	}
	if endLabels != 1 {
		t.Errorf("the chain end label was emitted %d times, want 1", endLabels)
	}
}

func TestIfWithoutElse(t *testing.T) {
	result := compile(t, `void main(){ int a = 1; if(a == 1){ a = 2; } }`)

	expected := []string{
		"main:",
		"#T0 := 1",
		"main_a := #T0",
		"#T1 := 1",
		"#T2 := main_a == #T1",
		"if #T2 = 0 goto #LB0",
		"#T3 := 2",
		"main_a = #T3",
		"#LB0:",
		"#T4 := 0",
		"return #T4, 0",
	}
	if !reflect.DeepEqual(result.Code, expected) {
		t.Errorf("code = %v, want %v", result.Code, expected)
	}
}

func TestFunctionParametersAndReturn(t *testing.T) {
	result := compile(t, `int add(int a, int b){ return a + b; }`)

	expected := []string{
		"add:",
		"add_a := param[0]",
		"add_b := param[1]",
		"#T0 := add_a + add_b",
		"return #T0, 2",
	}
	if !reflect.DeepEqual(result.Code, expected) {
		t.Errorf("code = %v, want %v", result.Code, expected)
	}
}

func TestFunctionCallCode(t *testing.T) {
	result := compile(t, `
int twice(int n){ return n + n; }
void main(){ int r = twice(3); }`)

	var mainCode []string
	for i, line := range result.Code {
		if line == "main:" {
			mainCode = result.Code[i:]
			break
		}
	}
	expected := []string{
		"main:",
		"#T1 := 3",
		"param #T1",
		"#T2 := call twice, 1",
		"main_r := #T2",
		"#T3 := 0",
		"return #T3, 0",
	}
	if !reflect.DeepEqual(mainCode, expected) {
		t.Errorf("main code = %v, want %v", mainCode, expected)
	}
}

func TestCallArgumentConversionWarning(t *testing.T) {
	result := compile(t, `void f(float a){} void main(){ f(1); }`)

	if len(result.Warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d: %v", len(result.Warnings), result.Warnings)
	}
	if result.Warnings[0].Message != `implicit conversion from "int" to "float"` {
		t.Errorf("warning = %q", result.Warnings[0].Message)
	}
}

func TestGlobalInitializersPrecedeProgram(t *testing.T) {
	result := compile(t, `int threshold = 40; void main(){ threshold = 50; }`)

	expectedGlobals := []string{
		"#T0 := 40",
		"threshold := #T0",
	}
	if !reflect.DeepEqual(result.Globals, expectedGlobals) {
		t.Errorf("globals = %v, want %v", result.Globals, expectedGlobals)
	}
	expectedCode := []string{
		"main:",
		"#T1 := 50",
		"threshold = #T1",
		"#T2 := 0",
		"return #T2, 0",
	}
	if !reflect.DeepEqual(result.Code, expectedCode) {
		t.Errorf("code = %v, want %v", result.Code, expectedCode)
	}
}

func TestBooleanLiteralsLowerWithoutTemporaries(t *testing.T) {
	result := compile(t, `void main(){ int a = true; int b = false; }`)

	expected := []string{
		"main:",
		"main_a := 1",
		"main_b := 0",
		"#T0 := 0",
		"return #T0, 0",
	}
	if !reflect.DeepEqual(result.Code, expected) {
		t.Errorf("code = %v, want %v", result.Code, expected)
	}
}

func TestLogicalOperatorsYieldInt(t *testing.T) {
	result := compile(t, `void main(){ float a = 1.5; int b = a && a; int c = a || b; }`)

	if len(result.Warnings) != 0 {
		t.Errorf("logical results are int; unexpected warnings: %v", result.Warnings)
	}
	joined := strings.Join(result.Code, "\n")
	if !strings.Contains(joined, ":= main_a && main_a") {
		t.Errorf("missing flat && reduction in:\n%s", joined)
	}
	if !strings.Contains(joined, "|| main_b") {
		t.Errorf("missing flat || reduction in:\n%s", joined)
	}
}

func TestUnaryPrefix(t *testing.T) {
	result := compile(t, `void main(){ int a = 1; int b = - a; }`)

	joined := strings.Join(result.Code, "\n")
	if !strings.Contains(joined, ":= - main_a") {
		t.Errorf("missing unary reduction in:\n%s", joined)
	}
}

func TestCompoundAssignment(t *testing.T) {
	result := compile(t, `void main(){ int a = 1; a += 2; a <<= 1; }`)

	joined := strings.Join(result.Code, "\n")
	if !strings.Contains(joined, "main_a += #T1") {
		t.Errorf("missing compound addition in:\n%s", joined)
	}
	if !strings.Contains(joined, "main_a <<= #T2") {
		t.Errorf("missing compound shift in:\n%s", joined)
	}
}

func TestPureExpressionStatementIsDiscarded(t *testing.T) {
	result := compile(t, `void main(){ int a = 1; a + 2; }`)

	for _, line := range result.Code {
		if strings.Contains(line, "+") {
			t.Errorf("value-less expression statement leaked code: %q", line)
		}
	}
}

func TestCallStatementIsKept(t *testing.T) {
	result := compile(t, `void beep(){} void main(){ beep(); }`)

	joined := strings.Join(result.Code, "\n")
	if !strings.Contains(joined, ":= call beep, 0") {
		t.Errorf("call statement missing from:\n%s", joined)
	}
}

func TestReservedWordFunctionNames(t *testing.T) {
	result := compile(t, `void setup(){} void loop(){}`)

	joined := strings.Join(result.Code, "\n")
	if !strings.Contains(joined, "setup:") || !strings.Contains(joined, "loop:") {
		t.Errorf("reserved-word function labels missing from:\n%s", joined)
	}
}

func TestMultipleDeclarationErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"global", "int x; float x;"},
		{"local", "void main(){ int a; int a; }"},
		{"parameter clash", "void f(int a, int a){}"},
		{"local vs parameter", "void f(int a){ int a; }"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := compileErr(t, tt.source)
			if !strings.Contains(err.Error(), "Previous declaration of") {
				t.Errorf("error = %v", err)
			}
		})
	}
}

func TestShadowingGlobalIsAllowed(t *testing.T) {
	result := compile(t, `int x; void main(){ int x = 1; x = 2; }`)

	joined := strings.Join(result.Code, "\n")
	if !strings.Contains(joined, "main_x := #T0") || !strings.Contains(joined, "main_x = #T1") {
		t.Errorf("local shadow should be localized:\n%s", joined)
	}
}

func TestBreakOutsideLoop(t *testing.T) {
	err := compileErr(t, `void main(){ if(1 == 1){ break; } }`)
	if !strings.Contains(err.Error(), `"break" used outside of a loop`) {
		t.Errorf("error = %v", err)
	}
}

func TestSyntacticErrorMessages(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		message string
	}{
		{"missing semicolon", "void main(){ int a = 1 }", "Expected a T_SEMICOLON"},
		{"missing close paren", "void main(){ while(1 { } }", "Expected a T_PARENTHESES_CLOSE"},
		{"eof", "void main(){", "got EOF"},
		{"bad definition", "void main);", "Expected a T_PARENTHESES_OPEN or T_ASSIGN or T_SEMICOLON"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := compileErr(t, tt.source)
			if !strings.Contains(err.Error(), tt.message) {
				t.Errorf("error = %v, want substring %q", err, tt.message)
			}
		})
	}
}

func TestErrorRendersOneBasedPosition(t *testing.T) {
	err := compileErr(t, "void main(){ y = 1; }")
	// y sits at line 0, column 13; diagnostics render 1-based.
	if !strings.Contains(err.Error(), "[1L - 14C]") {
		t.Errorf("error = %v, want position [1L - 14C]", err)
	}
}

func TestTemporariesAndLabelsMonotonic(t *testing.T) {
	result := compile(t, `void main(){ int i=0; while(i<10){ i = i+1; } int k = i * 2; }`)

	lastTemp, lastLabel := -1, -1
	seenTemp := map[string]bool{}
	seenLabel := map[string]bool{}
	for _, line := range result.Code {
		for _, field := range strings.Fields(line) {
			field = strings.TrimRight(field, ",:")
			switch {
			case strings.HasPrefix(field, "#T"):
				if seenTemp[field] {
					continue
				}
				seenTemp[field] = true
				n := atoi(t, field[2:])
				if n <= lastTemp {
					t.Errorf("temporary %s out of order (after #T%d)", field, lastTemp)
				}
				lastTemp = n
			case strings.HasPrefix(field, "#LB"):
				if seenLabel[field] {
					continue
				}
				seenLabel[field] = true
				n := atoi(t, field[3:])
				if n <= lastLabel {
					t.Errorf("label %s out of order (after #LB%d)", field, lastLabel)
				}
				lastLabel = n
			}
		}
	}
}

func atoi(t *testing.T, s string) int {
	t.Helper()
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			t.Fatalf("not a number: %q", s)
		}
		n = n*10 + int(r-'0')
	}
	return n
}

func TestCompileTwiceIsIdentical(t *testing.T) {
	source := `
int counter = 0;
int bump(int by){ counter = counter + by; return counter; }
void main(){
	int i;
	for(i = 0; i < 3; i = i + 1){
		bump(i);
	}
}`
	first := compile(t, source)
	second := compile(t, source)

	if !reflect.DeepEqual(first.Code, second.Code) {
		t.Error("program code differs between identical compilations")
	}
	if !reflect.DeepEqual(first.Globals, second.Globals) {
		t.Error("global code differs between identical compilations")
	}
}

func TestRecursionResolves(t *testing.T) {
	result := compile(t, `int fact(int n){ if(n == 0){ return 1; } return n * fact(n - 1); }`)

	joined := strings.Join(result.Code, "\n")
	if !strings.Contains(joined, ":= call fact, 1") {
		t.Errorf("recursive call missing from:\n%s", joined)
	}
}

func TestDeclaredTypeModifiers(t *testing.T) {
	result := compile(t, `void main(){ static unsigned int ticks = 1; }`)

	// "static unsigned int" differs from the expression type "int" as a
	// string, so the coarse comparison records a conversion warning.
	if len(result.Warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(result.Warnings))
	}
	sym := result.Symbols.Functions()[0].Locals.Variables()[0]
	if sym.DefinedType != "static unsigned int" {
		t.Errorf("declared type = %q", sym.DefinedType)
	}
}

func TestOneLineIfConsumesItsSemicolon(t *testing.T) {
	result := compile(t, `void main(){ int a = 1; if(a == 1) a = 2; a = 3; }`)

	joined := strings.Join(result.Code, "\n")
	if !strings.Contains(joined, "main_a = #T3") || !strings.Contains(joined, "main_a = #T4") {
		t.Errorf("one-line if body or trailing statement missing:\n%s", joined)
	}
}
