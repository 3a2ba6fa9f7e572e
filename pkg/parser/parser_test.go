package parser_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thomasrohde/vela/pkg/ast"
	"github.com/thomasrohde/vela/pkg/diagnostics"
	"github.com/thomasrohde/vela/pkg/lexer"
	"github.com/thomasrohde/vela/pkg/parser"
)

// helper: parse source and assert no diagnostics
func mustParse(t *testing.T, source string) *ast.Module {
	t.Helper()
	mod, diags := parser.Parse(source, "test.vl")
	require.Empty(t, diags, "unexpected diagnostics")
	require.NotNil(t, mod)
	return mod
}

// helper: parse source and return the diagnostics; the module must be nil
func mustFail(t *testing.T, source string) []diagnostics.Diagnostic {
	t.Helper()
	mod, diags := parser.Parse(source, "test.vl")
	require.NotEmpty(t, diags, "expected parse to fail with diagnostics")
	assert.Nil(t, mod)
	return diags
}

// helper: the single top-level item of source
func single(t *testing.T, source string) ast.Node {
	t.Helper()
	mod := mustParse(t, source)
	require.Len(t, mod.Body, 1)
	return mod.Body[0]
}

func narrow[T ast.Node](t *testing.T, n ast.Node) T {
	t.Helper()
	v, ok := ast.As[T](n)
	require.True(t, ok, "got %T", n)
	return v
}

func TestModuleName(t *testing.T) {
	mod := mustParse(t, "")
	assert.Equal(t, "test", mod.Name)
	assert.Empty(t, mod.Body)
	assert.Equal(t, "main", parser.ModuleName("src/app/main.vl"))
}

func TestPrecedence(t *testing.T) {
	bin := narrow[*ast.BinaryOperation](t, single(t, "1 + 2 * 3;"))
	assert.Equal(t, "+", bin.Op)
	right := narrow[*ast.BinaryOperation](t, bin.Right)
	assert.Equal(t, "*", right.Op)
	assert.Equal(t, "2", narrow[*ast.Literal](t, right.Left).Value)
	assert.Equal(t, "3", narrow[*ast.Literal](t, right.Right).Value)

	bin = narrow[*ast.BinaryOperation](t, single(t, "(1 + 2) * 3;"))
	assert.Equal(t, "*", bin.Op)
	left := narrow[*ast.BinaryOperation](t, bin.Left)
	assert.Equal(t, "+", left.Op)
}

func TestPrecedenceLadder(t *testing.T) {
	src := "a || b && c == d < e + f * g ** h;"
	want := `Module(test)
  BinaryOperation(||)
    Variable(a)
    BinaryOperation(&&)
      Variable(b)
      BinaryOperation(==)
        Variable(c)
        BinaryOperation(<)
          Variable(d)
          BinaryOperation(+)
            Variable(e)
            BinaryOperation(*)
              Variable(f)
              BinaryOperation(**)
                Variable(g)
                Variable(h)
`
	assert.Equal(t, want, ast.Dump(mustParse(t, src)))
}

func TestAssociativity(t *testing.T) {
	sub := narrow[*ast.BinaryOperation](t, single(t, "a - b - c"))
	assert.Equal(t, "-", narrow[*ast.BinaryOperation](t, sub.Left).Op)
	assert.Equal(t, "c", narrow[*ast.Variable](t, sub.Right).Name)

	pow := narrow[*ast.BinaryOperation](t, single(t, "2 ** 3 ** 2"))
	assert.Equal(t, "2", narrow[*ast.Literal](t, pow.Left).Value)
	assert.Equal(t, "**", narrow[*ast.BinaryOperation](t, pow.Right).Op)
}

func TestWordOperatorsNormalize(t *testing.T) {
	or := narrow[*ast.BinaryOperation](t, single(t, "not a and b or c"))
	assert.Equal(t, "||", or.Op)
	and := narrow[*ast.BinaryOperation](t, or.Left)
	assert.Equal(t, "&&", and.Op)
	not := narrow[*ast.UnaryOperation](t, and.Left)
	assert.Equal(t, "!", not.Op)
}

func TestUnaryBindsTighterThanBinary(t *testing.T) {
	bin := narrow[*ast.BinaryOperation](t, single(t, "-x * 2"))
	neg := narrow[*ast.UnaryOperation](t, bin.Left)
	assert.Equal(t, "-", neg.Op)
}

func TestBalancedDelimiters(t *testing.T) {
	ifs := narrow[*ast.IfStatement](t, single(t, "if (true) { x = 1; }"))
	then := narrow[*ast.Block](t, ifs.Then)
	require.Len(t, then.Statements, 1)
	assign := narrow[*ast.Assignment](t, then.Statements[0])
	assert.Equal(t, "=", assign.Op)
	assert.False(t, ifs.HasElse())

	diags := mustFail(t, "if (true) { x = 1;")
	require.Len(t, diags, 1)
	assert.Equal(t, diagnostics.MissingToken, diags[0].Kind)
	assert.Equal(t, diagnostics.PhaseSyntax, diags[0].Phase)
}

func TestAddFunctionScenario(t *testing.T) {
	mod := mustParse(t, "function int add(int a, int b) { return a + b; }")
	want := `Module(test)
  Function(add) returns=int
    Parameter(a) type=int
    Parameter(b) type=int
    Block
      Return
        BinaryOperation(+)
          Variable(a)
          Variable(b)
`
	assert.Equal(t, want, ast.Dump(mod))

	fn := narrow[*ast.Function](t, mod.Body[0])
	require.Len(t, fn.Params, 2)
	assert.Equal(t, "int", fn.Params[0].Type)
	ret := narrow[*ast.Return](t, fn.Body.Statements[0])
	assert.Equal(t, "+", narrow[*ast.BinaryOperation](t, ret.Value).Op)
}

func TestForLoopScenario(t *testing.T) {
	loop := narrow[*ast.ForLoop](t, single(t, "for (x in items) { print(x); }"))
	assert.Equal(t, "x", loop.Var)
	assert.Empty(t, loop.VarType)
	assert.Equal(t, "items", narrow[*ast.Variable](t, loop.Iterable).Name)

	body := narrow[*ast.Block](t, loop.Body)
	require.Len(t, body.Statements, 1)
	call := narrow[*ast.CallExpression](t, body.Statements[0])
	assert.Equal(t, "print", narrow[*ast.Variable](t, call.Callee).Name)
	require.Len(t, call.Args, 1)
	assert.Equal(t, "x", narrow[*ast.Variable](t, call.Args[0]).Name)
}

func TestForLoopVariants(t *testing.T) {
	loop := narrow[*ast.ForLoop](t, single(t, "for (int i : range(3)) total += i;"))
	assert.Equal(t, "int", loop.VarType)
	assign := narrow[*ast.Assignment](t, loop.Body)
	assert.Equal(t, "+=", assign.Op)

	diags := mustFail(t, "for (x of items) {}")
	assert.Equal(t, diagnostics.MissingToken, diags[0].Kind)
}

func TestIfElseChain(t *testing.T) {
	ifs := narrow[*ast.IfStatement](t, single(t, "if (a) b(); else if (c) { d(); } else e();"))
	elif := narrow[*ast.IfStatement](t, ifs.Else)
	narrow[*ast.CallExpression](t, ifs.Then)
	narrow[*ast.Block](t, elif.Then)
	narrow[*ast.CallExpression](t, elif.Else)
}

func TestSwitch(t *testing.T) {
	src := `switch (x) {
  case 1: a(); break;
  case 2:
  default: b();
}`
	sw := narrow[*ast.Switch](t, single(t, src))
	require.Len(t, sw.Cases, 2)
	assert.Len(t, sw.Cases[0].Body, 2)
	assert.Empty(t, sw.Cases[1].Body)
	require.True(t, sw.HasDefault())
	assert.Len(t, sw.Default.Body, 1)

	diags := mustFail(t, "switch (x) { default: a(); default: b(); }")
	assert.Equal(t, diagnostics.InvalidStatement, diags[0].Kind)
}

func TestWhileTryThrow(t *testing.T) {
	mod := mustParse(t, `while (running) step()
try { risky(); } catch (e) { throw err(e); }`)
	require.Len(t, mod.Body, 2)
	narrow[*ast.WhileLoop](t, mod.Body[0])
	tc := narrow[*ast.TryCatch](t, mod.Body[1])
	assert.Equal(t, "e", tc.CatchVar)
	thr := narrow[*ast.Throw](t, tc.Catch.Statements[0])
	res := narrow[*ast.Result](t, thr.Value)
	assert.True(t, res.IsErr)
}

func TestReturnForms(t *testing.T) {
	fn := narrow[*ast.Function](t, single(t, "function f() { return; return void; return ok(1) }"))
	require.Len(t, fn.Body.Statements, 3)
	assert.Nil(t, narrow[*ast.Return](t, fn.Body.Statements[0]).Value)
	narrow[*ast.Void](t, narrow[*ast.Return](t, fn.Body.Statements[1]).Value)
	res := narrow[*ast.Result](t, narrow[*ast.Return](t, fn.Body.Statements[2]).Value)
	assert.False(t, res.IsErr)
	assert.Empty(t, fn.ReturnType)
}

func TestDeclarations(t *testing.T) {
	mod := mustParse(t, "int x = 1; string[] names; var y = x; const std.Map m = {};")
	require.Len(t, mod.Body, 4)

	x := narrow[*ast.Declaration](t, mod.Body[0])
	assert.Equal(t, "int", x.Type)
	assert.Equal(t, "x", x.Name)

	names := narrow[*ast.Declaration](t, mod.Body[1])
	assert.Equal(t, "string[]", names.Type)
	assert.Nil(t, names.Value)

	y := narrow[*ast.Declaration](t, mod.Body[2])
	assert.Empty(t, y.Type)

	m := narrow[*ast.Declaration](t, mod.Body[3])
	assert.Equal(t, "std.Map", m.Type)
	require.Len(t, m.Modifiers, 1)
	narrow[*ast.DictLiteral](t, m.Value)
}

func TestAssignments(t *testing.T) {
	mod := mustParse(t, "x = 1; this.count += 2; a.b.c *= 3;")
	require.Len(t, mod.Body, 3)
	member := narrow[*ast.Assignment](t, mod.Body[1])
	assert.Equal(t, "+=", member.Op)
	target := narrow[*ast.MemberAccess](t, member.Target)
	assert.Equal(t, "count", target.Member)
	assert.Equal(t, "this", narrow[*ast.Variable](t, target.Object).Name)

	diags := mustFail(t, "f() = 1;")
	assert.Equal(t, diagnostics.InvalidStatement, diags[0].Kind)
}

func TestChainedAssignment(t *testing.T) {
	outer := narrow[*ast.Assignment](t, single(t, "a = b.c = 1;"))
	assert.Equal(t, "a", narrow[*ast.Variable](t, outer.Target).Name)
	inner := narrow[*ast.Assignment](t, outer.Value)
	assert.Equal(t, "c", narrow[*ast.MemberAccess](t, inner.Target).Member)
	assert.Equal(t, "1", narrow[*ast.Literal](t, inner.Value).Value)
	assert.Equal(t, 1, outer.Span.StartCol)
	assert.Equal(t, 12, outer.Span.EndCol)

	call := narrow[*ast.CallExpression](t, single(t, "f(x = 2);"))
	narrow[*ast.Assignment](t, call.Args[0])

	decl := narrow[*ast.Declaration](t, single(t, "int x = y += 1;"))
	assert.Equal(t, "+=", narrow[*ast.Assignment](t, decl.Value).Op)

	diags := mustFail(t, "a = b + c = 1;")
	require.Len(t, diags, 1)
	assert.Equal(t, diagnostics.InvalidStatement, diags[0].Kind)
	assert.Equal(t, 11, diags[0].Token.Span.StartCol)
}

func TestBraceStatements(t *testing.T) {
	mod := mustParse(t, `{1, 2}; {"k": 1}; { x(); } {} { f(a, b); }`)
	require.Len(t, mod.Body, 5)
	set := narrow[*ast.SetLiteral](t, mod.Body[0])
	assert.Len(t, set.Elements, 2)
	narrow[*ast.DictLiteral](t, mod.Body[1])
	narrow[*ast.Block](t, mod.Body[2])
	assert.Empty(t, narrow[*ast.Block](t, mod.Body[3]).Statements)
	block := narrow[*ast.Block](t, mod.Body[4])
	narrow[*ast.CallExpression](t, block.Statements[0])
}

func TestLineBreaksEndStatements(t *testing.T) {
	mod := mustParse(t, "x\ny = 1")
	require.Len(t, mod.Body, 2)
	assert.Equal(t, "x", narrow[*ast.Variable](t, mod.Body[0]).Name)
	narrow[*ast.Assignment](t, mod.Body[1])

	mod = mustParse(t, "foo()\n(bar)")
	require.Len(t, mod.Body, 2)
	narrow[*ast.CallExpression](t, mod.Body[0])
	assert.Equal(t, "bar", narrow[*ast.Variable](t, mod.Body[1]).Name)

	fn := narrow[*ast.Function](t, single(t, "function f() {\n  return\n  foo()\n}"))
	require.Len(t, fn.Body.Statements, 2)
	assert.Nil(t, narrow[*ast.Return](t, fn.Body.Statements[0]).Value)
	narrow[*ast.CallExpression](t, fn.Body.Statements[1])

	mod = mustParse(t, "x = a\n-1")
	require.Len(t, mod.Body, 2)
	narrow[*ast.UnaryOperation](t, mod.Body[1])
}

func TestLineBreaksInsideBrackets(t *testing.T) {
	call := narrow[*ast.CallExpression](t, single(t, "f(a,\n  b\n  + c)"))
	require.Len(t, call.Args, 2)
	narrow[*ast.BinaryOperation](t, call.Args[1])

	decl := narrow[*ast.Declaration](t, single(t, "var xs = [\n  1,\n  2\n]"))
	assert.Len(t, narrow[*ast.ArrayLiteral](t, decl.Value).Elements, 2)

	ifs := narrow[*ast.IfStatement](t, single(t, "if (a\n  && b) {\n}"))
	narrow[*ast.BinaryOperation](t, ifs.Cond)

	member := narrow[*ast.CallExpression](t, single(t, "list\n  .filter(f)\n  .first()"))
	assert.Equal(t, "first", narrow[*ast.MemberAccess](t, member.Callee).Member)

	call = narrow[*ast.CallExpression](t, single(t, "run(function() {\n  a()\n  b()\n})"))
	lambda := narrow[*ast.Lambda](t, call.Args[0])
	assert.Len(t, narrow[*ast.Block](t, lambda.Body).Statements, 2)
}

func TestStatementsNeedSeparator(t *testing.T) {
	tests := []struct {
		name string
		src  string
		col  int
	}{
		{"index after declaration", "int x = a[0];", 10},
		{"two declarations", "int x = 1 int y = 2;", 11},
		{"two calls", "f() g()", 5},
		{"value after break", "while (a) { break x; }", 19},
		{"trailing name after return", "function f() { return a b; }", 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := mustFail(t, tt.src)
			require.Len(t, diags, 1)
			assert.Equal(t, diagnostics.InvalidStatement, diags[0].Kind)
			assert.Equal(t, tt.col, diags[0].Token.Span.StartCol)
			assert.Contains(t, diags[0].Message, "expected ';' or a new line")
		})
	}
}

func TestReservedWordAsDeclarationName(t *testing.T) {
	tests := []struct {
		name string
		src  string
		word string
		col  int
	}{
		{"declaration", "int ok = 1;", "ok", 5},
		{"declaration without value", "string err;", "err", 8},
		{"parameter", "function f(int this) {}", "this", 16},
		{"function name after return type", "function int ok() {}", "ok", 14},
		{"field", "class A { int null = 1; }", "null", 15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := mustFail(t, tt.src)
			require.Len(t, diags, 1)
			d := diags[0]
			assert.Equal(t, diagnostics.MissingToken, d.Kind)
			assert.Equal(t, tt.col, d.Token.Span.StartCol)
			assert.Contains(t, d.Message, "expected identifier")
			assert.Equal(t, "'"+tt.word+"' is a reserved word", d.Hint)
		})
	}

	// 'in' continues a for header, not a declaration.
	loop := narrow[*ast.ForLoop](t, single(t, "for (x in xs) {}"))
	assert.Empty(t, loop.VarType)
}

func TestCollectionLiterals(t *testing.T) {
	mod := mustParse(t, `var a = [1, 2, 3,]; var s = {1, 2}; var d = {"k": 1, "j": 2,}; var e = {};`)
	arr := narrow[*ast.ArrayLiteral](t, narrow[*ast.Declaration](t, mod.Body[0]).Value)
	assert.Len(t, arr.Elements, 3)
	set := narrow[*ast.SetLiteral](t, narrow[*ast.Declaration](t, mod.Body[1]).Value)
	assert.Len(t, set.Elements, 2)
	dict := narrow[*ast.DictLiteral](t, narrow[*ast.Declaration](t, mod.Body[2]).Value)
	assert.Len(t, dict.Entries, 2)
	empty := narrow[*ast.DictLiteral](t, narrow[*ast.Declaration](t, mod.Body[3]).Value)
	assert.Empty(t, empty.Entries)
}

func TestLambdas(t *testing.T) {
	mod := mustParse(t, "var inc = function(int n) => n + 1; function(x) { return x; };")
	require.Len(t, mod.Body, 2)
	inc := narrow[*ast.Lambda](t, narrow[*ast.Declaration](t, mod.Body[0]).Value)
	narrow[*ast.BinaryOperation](t, inc.Body)
	block := narrow[*ast.Lambda](t, mod.Body[1])
	narrow[*ast.Block](t, block.Body)
	assert.Empty(t, block.Params[0].Type)
}

func TestAnnotatedFunction(t *testing.T) {
	fn := narrow[*ast.Function](t, single(t, "@entry @retry(3) public static function void main(string[] args) {}"))
	require.Len(t, fn.Decorators, 2)
	assert.Equal(t, "entry", fn.Decorators[0].Name)
	assert.Equal(t, "retry", fn.Decorators[1].Name)
	assert.Len(t, fn.Decorators[1].Args, 1)
	require.Len(t, fn.Modifiers, 2)
	assert.Equal(t, "void", fn.ReturnType)
	assert.Equal(t, "string[]", fn.Params[0].Type)
	assert.Equal(t, 1, fn.Span.StartCol)
}

func TestDecoratorTargets(t *testing.T) {
	diags := mustFail(t, "@entry x = 1;")
	assert.Equal(t, diagnostics.InvalidStatement, diags[0].Kind)

	diags = mustFail(t, "@entry int x = 1;")
	assert.Equal(t, diagnostics.InvalidStatement, diags[0].Kind)
}

func TestClass(t *testing.T) {
	src := `class Point extends Shape implements Printable, Comparable {
  private int x = 0;
  var y;
  constructor(int x) { this.x = x; }
  @override public function string toString() { return "p"; }
}`
	want := `Module(test)
  Class(Point) extends=Shape implements=Printable,Comparable
    Declaration(x) type=int modifiers=private
      Literal(0)
    Declaration(y)
    constructor: Function(constructor)
      Parameter(x) type=int
      Block
        Assignment(=)
          target: MemberAccess(x)
            Variable(this)
          value: Variable(x)
    Function(toString) returns=string modifiers=public
      Decorator(override)
      Block
        Return
          Literal("p")
`
	assert.Equal(t, want, ast.Dump(mustParse(t, src)))

	diags := mustFail(t, "class A { constructor() {} constructor() {} }")
	assert.Equal(t, diagnostics.InvalidStatement, diags[0].Kind)
}

func TestEnumInterfaceDecorator(t *testing.T) {
	src := `enum Color { Red, Green = 2, Blue, }
interface Shape extends Named { float area; function float scale(float by); }
decorator trace(string label) { log(label); }`
	mod := mustParse(t, src)
	require.Len(t, mod.Body, 3)

	enum := narrow[*ast.Enum](t, mod.Body[0])
	require.Len(t, enum.Members, 3)
	assert.NotNil(t, enum.Members[1].Value)

	iface := narrow[*ast.Interface](t, mod.Body[1])
	assert.Equal(t, []string{"Named"}, iface.Extends)
	require.Len(t, iface.Fields, 2)
	assert.False(t, iface.Fields[0].Method)
	assert.True(t, iface.Fields[1].Method)
	assert.Equal(t, "float", iface.Fields[1].Type)

	deco := narrow[*ast.DecoratorDecl](t, mod.Body[2])
	assert.Equal(t, "trace", deco.Name)
}

func TestImports(t *testing.T) {
	mod := mustParse(t, `import std.io as io
import "lib/util.vl"
from std.math import sqrt, pow`)
	require.Len(t, mod.Body, 3)

	a := narrow[*ast.Import](t, mod.Body[0])
	assert.Equal(t, "std.io", a.Path)
	assert.Equal(t, "io", a.Alias)

	b := narrow[*ast.Import](t, mod.Body[1])
	assert.True(t, b.Quoted)
	assert.Equal(t, "lib/util.vl", b.Path)

	c := narrow[*ast.Import](t, mod.Body[2])
	assert.Equal(t, []string{"sqrt", "pow"}, c.Names)

	diags := mustFail(t, "function f() { import std.io; }")
	assert.Equal(t, diagnostics.InvalidStatement, diags[0].Kind)
}

func TestPreprocessorDirectives(t *testing.T) {
	mod := mustParse(t, "#define DEBUG 1\n#ifdef DEBUG\nlog();\n#endif\n")
	require.Len(t, mod.Body, 4)
	def := narrow[*ast.PreprocessorDirective](t, mod.Body[0])
	assert.Equal(t, []string{"DEBUG", "1"}, def.Args)
	end := narrow[*ast.PreprocessorDirective](t, mod.Body[3])
	assert.Empty(t, end.Args)
}

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		name string
		src  string
		kind diagnostics.Kind
		line int
		col  int
	}{
		{"mismatched bracket", "f(1, 2];", diagnostics.MismatchedBrackets, 1, 7},
		{"missing paren", "if (x { }", diagnostics.MissingToken, 1, 7},
		{"end of file", "x = ", diagnostics.UnexpectedEndOfFile, 1, 5},
		{"unexpected token", "x = );", diagnostics.UnexpectedToken, 1, 5},
		{"constructor outside class", "constructor() {}", diagnostics.InvalidStatement, 1, 1},
		{"reserved word as name", "function if() {}", diagnostics.MissingToken, 1, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := mustFail(t, tt.src)
			require.Len(t, diags, 1)
			assert.Equal(t, tt.kind, diags[0].Kind)
			assert.Equal(t, tt.line, diags[0].Token.Span.StartLine)
			assert.Equal(t, tt.col, diags[0].Token.Span.StartCol)
		})
	}
}

func TestUnknownTokenReportedOnce(t *testing.T) {
	diags := mustFail(t, "x = $;")
	require.Len(t, diags, 1)
	assert.Equal(t, diagnostics.UnexpectedToken, diags[0].Kind)
	assert.Equal(t, 5, diags[0].Token.Span.StartCol)
}

func TestLexicalErrorsStopParse(t *testing.T) {
	diags := mustFail(t, "x = \"abc")
	require.Len(t, diags, 1)
	assert.Equal(t, diagnostics.UnterminatedString, diags[0].Kind)
}

func TestParseModuleFailsFast(t *testing.T) {
	sink := diagnostics.NewManager()
	tokens, err := lexer.Tokenize("test.vl", "int x = ;\nint y = ;", sink)
	require.NoError(t, err)

	mod, err := parser.ParseModule(tokens, "test", sink)
	require.Error(t, err)
	assert.Nil(t, mod)
	assert.Equal(t, 1, sink.Len())

	var de *diagnostics.Error
	require.True(t, errors.As(err, &de))
	assert.Equal(t, diagnostics.UnexpectedToken, de.Diag.Kind)
}

func TestRecovery(t *testing.T) {
	src := `int x = ;
function f() { return 1; }
if (a) { b( } else { c(); }
int y = 2;
class Broken { int }
enum E { A }`
	sink := diagnostics.NewManager()
	tokens, err := lexer.Tokenize("test.vl", src, sink)
	require.NoError(t, err)

	mod, err := parser.ParseModule(tokens, "test", sink, parser.WithRecovery())
	require.Error(t, err)
	require.NotNil(t, mod)

	var kinds []ast.NodeKind
	for _, n := range mod.Body {
		kinds = append(kinds, n.Kind())
	}
	assert.Equal(t, []ast.NodeKind{ast.KindFunction, ast.KindDeclaration, ast.KindEnum}, kinds)
	assert.Equal(t, 3, sink.Len())
	assert.Len(t, diagnostics.Collect(err), 3)
}

func TestParseWithRecoveryKeepsModule(t *testing.T) {
	mod, diags := parser.Parse("int x = ;\nint y = 2;", "test.vl", parser.WithRecovery())
	require.NotNil(t, mod)
	assert.Len(t, mod.Body, 1)
	assert.Len(t, diags, 1)
}

func TestParseIsDeterministic(t *testing.T) {
	src := "class A { function int f(int x) { return x ** 2; } }\nfor (v in A().f(2)) print(v);"
	assert.Equal(t, ast.Dump(mustParse(t, src)), ast.Dump(mustParse(t, src)))
}
