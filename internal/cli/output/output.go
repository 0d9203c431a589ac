// Package output renders compilation results and diagnostics for the CLI.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/mauriciogardini/arduino-c-compiler/pkg/parser"
	"github.com/mauriciogardini/arduino-c-compiler/pkg/token"
)

// Styles holds the lipgloss styles used for diagnostics.
type Styles struct {
	Error   lipgloss.Style
	Warning lipgloss.Style
	Header  lipgloss.Style
}

// NewStyles builds the style set. With colorize false every style is a
// no-op passthrough.
func NewStyles(colorize bool) *Styles {
	if !colorize {
		plain := lipgloss.NewStyle()
		return &Styles{Error: plain, Warning: plain, Header: plain}
	}
	return &Styles{
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		Header:  lipgloss.NewStyle().Bold(true),
	}
}

// ShouldColorize decides color use from the configured mode ("auto",
// "always", "never") and the destination writer.
func ShouldColorize(mode string, w io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	if !term.IsTerminal(int(f.Fd())) {
		return false
	}
	return termenv.NewOutput(f).Profile != termenv.Ascii
}

// Renderer writes compiler output.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	styles *Styles
}

// NewRenderer creates a renderer over the given writers.
func NewRenderer(out, errOut io.Writer, styles *Styles) *Renderer {
	return &Renderer{out: out, errOut: errOut, styles: styles}
}

// OK prints the terse success marker.
func (r *Renderer) OK() {
	fmt.Fprintln(r.out, "OK.")
}

// Error prints a fatal diagnostic.
func (r *Renderer) Error(err error) {
	fmt.Fprintln(r.errOut, r.styles.Error.Render(err.Error()))
}

const separator = "----------------------------------------"

// section prints an underlined section heading.
func (r *Renderer) section(title string) {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, r.styles.Header.Render(title))
	fmt.Fprintln(r.out, strings.Repeat("-", len(title)))
	fmt.Fprintln(r.out)
}

// Result prints the full verbose report: symbol table, intermediary code
// behind "goto main", and any warnings.
func (r *Renderer) Result(res *parser.Result, format string) {
	r.section("Symbols' Table")
	if format == "table" {
		r.symbolTable(res)
	} else {
		for _, sym := range res.Symbols.Functions() {
			fmt.Fprintln(r.out, sym)
		}
		for _, sym := range res.Symbols.Variables() {
			fmt.Fprintln(r.out, sym)
		}
	}
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, separator)

	r.section("Intermediary Code")
	for _, line := range res.Globals {
		fmt.Fprintln(r.out, line)
	}
	fmt.Fprintln(r.out, "goto main")
	for _, line := range res.Code {
		fmt.Fprintln(r.out, line)
	}
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, separator)

	if len(res.Warnings) > 0 {
		r.section("Warning(s)")
		for _, warning := range res.Warnings {
			fmt.Fprintln(r.out, r.styles.Warning.Render(warning.String()))
		}
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, separator)
	}
}

// symbolTable renders the symbol table with go-pretty.
func (r *Renderer) symbolTable(res *parser.Result) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Identifier", "Type", "Kind", "Parameters", "Locals"})
	for _, sym := range res.Symbols.Functions() {
		locals := make([]string, 0)
		for _, local := range sym.Locals.Variables() {
			locals = append(locals, fmt.Sprintf("%s %s", local.DefinedType, local.Identifier))
		}
		t.AppendRow(table.Row{
			sym.Identifier, sym.DefinedType, "function",
			sym.Parameters.String(), strings.Join(locals, ", "),
		})
	}
	for _, sym := range res.Symbols.Variables() {
		t.AppendRow(table.Row{sym.Identifier, sym.DefinedType, "variable", "", ""})
	}
	t.Render()
}

// Tokens renders a lexed token stream.
func (r *Renderer) Tokens(tokens []token.Token, format string) {
	if format != "table" {
		for _, tok := range tokens {
			fmt.Fprintln(r.out, tok)
		}
		return
	}
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Kind", "Lexeme", "Line", "Column"})
	for _, tok := range tokens {
		t.AppendRow(table.Row{tok.Kind.String(), tok.Lexeme, tok.Line, tok.Column})
	}
	t.Render()
}
