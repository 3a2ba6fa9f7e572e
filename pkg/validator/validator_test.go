package validator_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thomasrohde/vela/pkg/diagnostics"
	"github.com/thomasrohde/vela/pkg/parser"
	"github.com/thomasrohde/vela/pkg/validator"
)

// mustParseAndValidate parses source and returns the validator's diagnostics.
// Parse errors fail the test so cases focus on validation.
func mustParseAndValidate(t *testing.T, source string) []diagnostics.Diagnostic {
	t.Helper()
	mod, parseDiags := parser.Parse(source, "test.vl")
	require.Empty(t, parseDiags, "unexpected parse diagnostics")
	require.NotNil(t, mod)
	return validator.Validate(mod)
}

func describe(diags []diagnostics.Diagnostic) string {
	var msgs []string
	for _, d := range diags {
		msgs = append(msgs, d.Kind.String()+": "+d.Message)
	}
	return strings.Join(msgs, "\n  ")
}

func assertNoDiags(t *testing.T, diags []diagnostics.Diagnostic) {
	t.Helper()
	assert.Empty(t, diags, "expected no diagnostics, got:\n  %s", describe(diags))
}

// assertKinds asserts the exact sequence of diagnostic kinds.
func assertKinds(t *testing.T, diags []diagnostics.Diagnostic, kinds ...diagnostics.Kind) {
	t.Helper()
	got := make([]diagnostics.Kind, len(diags))
	for i, d := range diags {
		got[i] = d.Kind
	}
	if len(kinds) == 0 {
		kinds = []diagnostics.Kind{}
	}
	assert.Equal(t, kinds, got, "diagnostics:\n  %s", describe(diags))
}

func TestValidate_NilModule(t *testing.T) {
	assert.Empty(t, validator.Validate(nil))
}

func TestValidate_ValidProgram(t *testing.T) {
	src := `
import math.vector as vec;
from "util" import clamp, lerp;

enum Color { Red, Green = 2, Blue }

interface Shape {
	int sides;
	function float area(float scale);
}

class Square extends Base implements Shape {
	public int sides = 4;
	private float size;
	constructor(float size) { this.size = size; }
	@override
	function float area(float scale) { return size * size * scale; }
}

@entry
public static function void main() {
	int total = 0;
	for (int i in range(10)) {
		if (i == 3) { continue; }
		switch (i) {
			case 7: break;
			default: total += i;
		}
	}
	while (total > 0) { total -= 1; if (total == 5) break; }
	try { throw err("x"); } catch (e) { print(e); }
	var sq = function(x) => x ** 2;
}
`
	assertNoDiags(t, mustParseAndValidate(t, src))
}

func TestValidate_Redeclaration(t *testing.T) {
	diags := mustParseAndValidate(t, "int x = 1;\nint x = 2;")
	assertKinds(t, diags, diagnostics.Redeclaration)
	d := diags[0]
	assert.Equal(t, diagnostics.PhaseSemantic, d.Phase)
	assert.Equal(t, "x", d.Token.Text)
	assert.Equal(t, 2, d.Token.Span.StartLine)
	assert.Equal(t, 1, d.Token.Span.StartCol)
	assert.Contains(t, d.Message, "'x'")
	assert.Equal(t, "previous declaration at test.vl:1:1", d.Hint)
}

func TestValidate_Scoping(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		kinds []diagnostics.Kind
	}{
		{"shadowing in block", "int x = 1; { int x = 2; }", nil},
		{"sibling blocks", "{ int x = 1; } { int x = 2; }", nil},
		{"shadowing in function", "int x = 1; function f() { int x = 2; }", nil},
		{"function redeclared", "function f() {} function f() {}", []diagnostics.Kind{diagnostics.Redeclaration}},
		{"class and variable", "class A {} int A = 1;", []diagnostics.Kind{diagnostics.Redeclaration}},
		{"param redeclared in body", "function f(int a) { int a = 1; }", []diagnostics.Kind{diagnostics.Redeclaration}},
		{"loop variable shadowed in body", "for (x in xs) { int x = 1; }", nil},
		{"catch variable", "try {} catch (e) { int e = 1; }", []diagnostics.Kind{diagnostics.Redeclaration}},
		{"import alias clash", "import a.b as c; int c = 1;", []diagnostics.Kind{diagnostics.Redeclaration}},
		{"dotted import binds last segment", "import a.b; int b = 1;", []diagnostics.Kind{diagnostics.Redeclaration}},
		{"from import names", "from m import a, a;", []diagnostics.Kind{diagnostics.Redeclaration}},
		{"quoted import binds nothing", `import "lib/io"; int io = 1;`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertKinds(t, mustParseAndValidate(t, tt.src), tt.kinds...)
		})
	}
}

func TestValidate_DuplicateParameter(t *testing.T) {
	diags := mustParseAndValidate(t, "function f(int a, int b, int a) {}")
	assertKinds(t, diags, diagnostics.DuplicateParameter)
	assert.Equal(t, 26, diags[0].Token.Span.StartCol)

	assertKinds(t, mustParseAndValidate(t, "var g = function(a, a) => a;"), diagnostics.DuplicateParameter)
	assertKinds(t, mustParseAndValidate(t, "interface I { function f(int a, int a); }"), diagnostics.DuplicateParameter)
}

func TestValidate_DuplicateMember(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"class fields", "class A { int x; int x; }"},
		{"field and method", "class A { int x; function x() {} }"},
		{"methods", "class A { function f() {} function f() {} }"},
		{"enum members", "enum E { A, B, A }"},
		{"interface fields", "interface I { int x; function x(); }"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertKinds(t, mustParseAndValidate(t, tt.src), diagnostics.DuplicateMember)
		})
	}
}

func TestValidate_ControlFlowPlacement(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		kinds []diagnostics.Kind
	}{
		{"return at top level", "return 1;", []diagnostics.Kind{diagnostics.ReturnOutsideFunction}},
		{"return in lambda", "var f = function() { return 1; };", nil},
		{"return in method", "class A { function f() { return; } }", nil},
		{"break at top level", "break;", []diagnostics.Kind{diagnostics.BreakOutsideLoop}},
		{"continue at top level", "continue;", []diagnostics.Kind{diagnostics.ContinueOutsideLoop}},
		{"break in switch", "switch (x) { case 1: break; }", nil},
		{"continue in switch", "switch (x) { case 1: continue; }", []diagnostics.Kind{diagnostics.ContinueOutsideLoop}},
		{"continue in switch in loop", "while (true) { switch (x) { default: continue; } }", nil},
		{"break in nested if", "for (x in xs) { if (x) { break; } }", nil},
		{"break in lambda in loop", "while (true) { var f = function() { break; }; }", []diagnostics.Kind{diagnostics.BreakOutsideLoop}},
		{"break in function in loop", "while (true) { function f() { continue; } }", []diagnostics.Kind{diagnostics.ContinueOutsideLoop}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertKinds(t, mustParseAndValidate(t, tt.src), tt.kinds...)
		})
	}
}

func TestValidate_ConflictingModifiers(t *testing.T) {
	diags := mustParseAndValidate(t, "public private int x = 1;")
	assertKinds(t, diags, diagnostics.ConflictingModifiers)
	assert.Equal(t, "private", diags[0].Token.Text)
	assert.Contains(t, diags[0].Message, "'public'")

	assertKinds(t, mustParseAndValidate(t, "static static function f() {}"), diagnostics.ConflictingModifiers)
	assertKinds(t, mustParseAndValidate(t, "class A { public protected int x; }"), diagnostics.ConflictingModifiers)
	assertNoDiags(t, mustParseAndValidate(t, "public static const int x = 1;"))
}

func TestValidate_InvalidDecoratorTarget(t *testing.T) {
	diags := mustParseAndValidate(t, "@override\nfunction f() {}")
	assertKinds(t, diags, diagnostics.InvalidDecoratorTarget)
	assert.Equal(t, "@override", diags[0].Token.Text)
	assert.Equal(t, 1, diags[0].Token.Span.StartLine)

	assertKinds(t, mustParseAndValidate(t, "@override class A {}"), diagnostics.InvalidDecoratorTarget)
	assertNoDiags(t, mustParseAndValidate(t, "class A { @override function f() {} }"))
	assertNoDiags(t, mustParseAndValidate(t, "@deprecated function f() {}"))
}

func TestValidate_Conditionals(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		kinds []diagnostics.Kind
	}{
		{"balanced", "#ifdef DEBUG\nint x = 1;\n#else\nint y = 2;\n#endif", nil},
		{"nested", "#if A\n#ifndef B\n#endif\n#elif C\n#endif", nil},
		{"unclosed", "#ifdef DEBUG\nint x = 1;", []diagnostics.Kind{diagnostics.UnbalancedConditional}},
		{"stray endif", "#endif", []diagnostics.Kind{diagnostics.UnbalancedConditional}},
		{"stray else", "#else\n#endif", []diagnostics.Kind{diagnostics.UnbalancedConditional, diagnostics.UnbalancedConditional}},
		{"inside function body", "function f() {\n#if X\n}\n", []diagnostics.Kind{diagnostics.UnbalancedConditional}},
		{"error directive", "#error unsupported platform", []diagnostics.Kind{diagnostics.UserError}},
		{"error inside conditional", "#ifdef OLD\n#error too old\n#endif", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertKinds(t, mustParseAndValidate(t, tt.src), tt.kinds...)
		})
	}
}

func TestValidate_ConditionalDiagnostics(t *testing.T) {
	diags := mustParseAndValidate(t, "#ifdef DEBUG\nint x = 1;")
	require.Len(t, diags, 1)
	assert.Equal(t, diagnostics.PhasePreprocessor, diags[0].Phase)
	assert.Equal(t, "#ifdef", diags[0].Token.Text)
	assert.Equal(t, 1, diags[0].Token.Span.StartLine)

	diags = mustParseAndValidate(t, "#error unsupported platform")
	require.Len(t, diags, 1)
	assert.Equal(t, "unsupported platform", diags[0].Message)
}

func TestValidate_OrderAndDeterminism(t *testing.T) {
	src := "return;\nint a;\nint a;\nbreak;\n#endif"
	first := mustParseAndValidate(t, src)
	assertKinds(t, first,
		diagnostics.ReturnOutsideFunction,
		diagnostics.Redeclaration,
		diagnostics.BreakOutsideLoop,
		diagnostics.UnbalancedConditional,
	)
	assert.Equal(t, first, mustParseAndValidate(t, src))
}
