package frontend

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.c")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func renderSource(t *testing.T, src string) string {
	t.Helper()
	prog, err := Parse([]byte(src), "t.c")
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, prog.Render(&buf))
	return buf.String()
}

func TestParse_ReturnOnly(t *testing.T) {
	got := renderSource(t, "int f() { return 0 ; }")

	want := "/*--- program: t.c ---*/\n" +
		"@f_entry {\n" +
		"   name: f\n" +
		"   ret_type: int \n" +
		"   args: -\n" +
		"}\n" +
		"Predecessors: -\n" +
		"Successors: f_B0\n" +
		"\n" +
		"@f_B0 {\n" +
		"    return 0 ; \n" +
		"}\n" +
		"Predecessors: f_entry\n" +
		"Successors: f_exit\n" +
		"\n" +
		"@f_exit {\n" +
		"}\n" +
		"Predecessors: f_B0\n" +
		"Successors: -\n" +
		"\n"
	assert.Equal(t, want, got)
}

func TestParse_IfElse(t *testing.T) {
	got := renderSource(t,
		"int f(int x) { if (x) { a = 1 ; } else { b = 2 ; } return c ; }")

	want := "/*--- program: t.c ---*/\n" +
		"@f_entry {\n" +
		"   name: f\n" +
		"   ret_type: int \n" +
		"   args: int x \n" +
		"}\n" +
		"Predecessors: -\n" +
		"Successors: f_B0\n" +
		"\n" +
		"@f_B0 {\n" +
		"    if( x )     # then: f_B1\n" +
		"                # else: f_B2\n" +
		"}\n" +
		"Predecessors: f_entry\n" +
		"Successors: f_B1, f_B2\n" +
		"\n" +
		"@f_B1 {\n" +
		"    a = 1 ; \n" +
		"}\n" +
		"Predecessors: f_B0\n" +
		"Successors: f_B3\n" +
		"\n" +
		"@f_B2 {\n" +
		"    b = 2 ; \n" +
		"}\n" +
		"Predecessors: f_B0\n" +
		"Successors: f_B3\n" +
		"\n" +
		"@f_B3 {\n" +
		"    return c ; \n" +
		"}\n" +
		"Predecessors: f_B1, f_B2\n" +
		"Successors: f_exit\n" +
		"\n" +
		"@f_exit {\n" +
		"}\n" +
		"Predecessors: f_B3\n" +
		"Successors: -\n" +
		"\n"
	assert.Equal(t, want, got)
}

func TestParse_EmptyIfElse(t *testing.T) {
	got := renderSource(t, "int f(int x) { if (x) { } else { } return 0 ; }")

	want := "/*--- program: t.c ---*/\n" +
		"@f_entry {\n" +
		"   name: f\n" +
		"   ret_type: int \n" +
		"   args: int x \n" +
		"}\n" +
		"Predecessors: -\n" +
		"Successors: f_B0\n" +
		"\n" +
		"@f_B0 {\n" +
		"    if( x ) { }\n" +
		"    return 0 ; \n" +
		"}\n" +
		"Predecessors: f_entry\n" +
		"Successors: f_exit\n" +
		"\n" +
		"@f_exit {\n" +
		"}\n" +
		"Predecessors: f_B0\n" +
		"Successors: -\n" +
		"\n"
	assert.Equal(t, want, got)
}

func TestParse_While(t *testing.T) {
	got := renderSource(t,
		"int g(int n) { while (n) { n = n - 1 ; } return n ; }")

	want := "/*--- program: t.c ---*/\n" +
		"@g_entry {\n" +
		"   name: g\n" +
		"   ret_type: int \n" +
		"   args: int n \n" +
		"}\n" +
		"Predecessors: -\n" +
		"Successors: g_B0\n" +
		"\n" +
		"@g_B0 {\n" +
		"    while( n )     # loop_end: g_B2\n" +
		"}\n" +
		"Predecessors: g_B1, g_entry\n" +
		"Successors: g_B1, g_B2\n" +
		"\n" +
		"@g_B1 {\n" +
		"    n = n - 1 ; \n" +
		"}\n" +
		"Predecessors: g_B0\n" +
		"Successors: g_B0\n" +
		"\n" +
		"@g_B2 {\n" +
		"    return n ; \n" +
		"}\n" +
		"Predecessors: g_B0\n" +
		"Successors: g_exit\n" +
		"\n" +
		"@g_exit {\n" +
		"}\n" +
		"Predecessors: g_B2\n" +
		"Successors: -\n" +
		"\n"
	assert.Equal(t, want, got)
}

func TestParse_For(t *testing.T) {
	got := renderSource(t,
		"int h(int n) { for (i = 0 ; i < n ; i = i + 1) { n = n - 1 ; } return n ; }")

	want := "/*--- program: t.c ---*/\n" +
		"@h_entry {\n" +
		"   name: h\n" +
		"   ret_type: int \n" +
		"   args: int n \n" +
		"}\n" +
		"Predecessors: -\n" +
		"Successors: h_B0\n" +
		"\n" +
		"@h_B0 {\n" +
		"    i = 0 ; \n" +
		"}\n" +
		"Predecessors: h_entry\n" +
		"Successors: h_B1\n" +
		"\n" +
		"@h_B1 {\n" +
		"    for( ; i < n ; )     # loop_end: h_B3\n" +
		"}\n" +
		"Predecessors: h_B0, h_B2\n" +
		"Successors: h_B2, h_B3\n" +
		"\n" +
		"@h_B2 {\n" +
		"    n = n - 1 ; \n" +
		"    i = i + 1 ; \n" +
		"}\n" +
		"Predecessors: h_B1\n" +
		"Successors: h_B1\n" +
		"\n" +
		"@h_B3 {\n" +
		"    return n ; \n" +
		"}\n" +
		"Predecessors: h_B1\n" +
		"Successors: h_exit\n" +
		"\n" +
		"@h_exit {\n" +
		"}\n" +
		"Predecessors: h_B3\n" +
		"Successors: -\n" +
		"\n"
	assert.Equal(t, want, got)
}

func TestParse_GlobalsAndComments(t *testing.T) {
	got := renderSource(t, "/* state */\nint g ;\n\nvoid f() { g = 1 ; }\n")

	want := "/*--- program: t.c ---*/\n" +
		"@Globals {\n" +
		"    int g ; \n" +
		"}\n" +
		"Predecessors: -\n" +
		"Successors: -\n" +
		"\n" +
		"@f_entry {\n" +
		"   name: f\n" +
		"   ret_type: void \n" +
		"   args: -\n" +
		"}\n" +
		"Predecessors: -\n" +
		"Successors: f_B0\n" +
		"\n" +
		"@f_B0 {\n" +
		"    g = 1 ; \n" +
		"}\n" +
		"Predecessors: f_entry\n" +
		"Successors: f_exit\n" +
		"\n" +
		"@f_exit {\n" +
		"}\n" +
		"Predecessors: f_B0\n" +
		"Successors: -\n" +
		"\n"
	assert.Equal(t, want, got)
}

func TestParse_DeadCodeAfterReturn(t *testing.T) {
	// Statements behind an unconditional return never reach the output,
	// and neither do blocks only they would lead to.
	got := renderSource(t, "int f() { return 0 ; x = 1 ; }")

	want := "/*--- program: t.c ---*/\n" +
		"@f_entry {\n" +
		"   name: f\n" +
		"   ret_type: int \n" +
		"   args: -\n" +
		"}\n" +
		"Predecessors: -\n" +
		"Successors: f_B0\n" +
		"\n" +
		"@f_B0 {\n" +
		"    return 0 ; \n" +
		"}\n" +
		"Predecessors: f_entry\n" +
		"Successors: f_exit\n" +
		"\n" +
		"@f_exit {\n" +
		"}\n" +
		"Predecessors: f_B0\n" +
		"Successors: -\n" +
		"\n"
	assert.Equal(t, want, got)
}

func TestListFunctions(t *testing.T) {
	path := writeTempFile(t,
		"int add(int a, int b) { return a + b ; }\nvoid reset() { c = 0 ; }\n")

	funcs, err := ListFunctions(path)
	require.NoError(t, err)
	require.Len(t, funcs, 2)

	assert.Equal(t, FunctionInfo{Name: "add", RetType: "int", Params: "int a , int b"}, funcs[0])
	assert.Equal(t, FunctionInfo{Name: "reset", RetType: "void", Params: ""}, funcs[1])
}

func TestParseFile_MissingFile(t *testing.T) {
	_, err := ParseFile("no/such/file.c")
	assert.Error(t, err)
}
