// Package main provides tests for the compiler CLI.
package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mauriciogardini/arduino-c-compiler/internal/cli"
)

func writeSource(t *testing.T, source string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sketch.c")
	require.NoError(t, os.WriteFile(path, []byte(source), 0o600))
	return path
}

func runCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := cli.NewRootCmd()
	out := new(bytes.Buffer)
	errOut := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, _, err := runCommand(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "arduinocc")
}

func TestHelpListsCommands(t *testing.T) {
	out, _, err := runCommand(t, "--help")
	require.NoError(t, err)
	for _, expected := range []string{"build", "tokens", "watch", "repl", "version"} {
		assert.Contains(t, out, expected)
	}
}

func TestBuildOK(t *testing.T) {
	path := writeSource(t, "void main(){}")
	out, _, err := runCommand(t, "build", path)
	require.NoError(t, err)
	assert.Contains(t, out, "OK.")
}

func TestBuildVerbose(t *testing.T) {
	path := writeSource(t, `int main(){ float x = 1; return 0; }`)
	out, _, err := runCommand(t, "build", "-v", path)
	require.NoError(t, err)

	assert.Contains(t, out, "Symbols' Table")
	assert.Contains(t, out, "int main () {float x}")
	assert.Contains(t, out, "Intermediary Code")
	assert.Contains(t, out, "goto main")
	assert.Contains(t, out, "main_x := #T0")
	assert.Contains(t, out, `implicit conversion from "int" to "float"`)
}

func TestBuildVerboseTableFormat(t *testing.T) {
	path := writeSource(t, "void main(){}")
	out, _, err := runCommand(t, "build", "-v", "--format", "table", path)
	require.NoError(t, err)
	assert.Contains(t, out, "IDENTIFIER")
	assert.Contains(t, out, "main")
}

func TestBuildError(t *testing.T) {
	path := writeSource(t, "void main(){ y = 1; }")
	_, errOut, err := runCommand(t, "build", path)
	require.Error(t, err)
	assert.Contains(t, errOut, `"y" undeclared.`)
}

func TestBuildMultipleFiles(t *testing.T) {
	good := writeSource(t, "void main(){}")
	alsoGood := writeSource(t, "void setup(){}")
	out, _, err := runCommand(t, "build", good, alsoGood)
	require.NoError(t, err)
	assert.Contains(t, out, good)
	assert.Contains(t, out, alsoGood)
}

func TestTokensCommand(t *testing.T) {
	path := writeSource(t, "int a;")
	out, _, err := runCommand(t, "tokens", path)
	require.NoError(t, err)
	assert.Contains(t, out, "T_RESERVED_WORD")
	assert.Contains(t, out, "T_ID")
	assert.Contains(t, out, "T_SEMICOLON")
}

func TestBuildMissingFile(t *testing.T) {
	_, _, err := runCommand(t, "build", filepath.Join(t.TempDir(), "missing.c"))
	require.Error(t, err)
}
