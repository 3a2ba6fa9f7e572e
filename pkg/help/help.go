// Package help holds the built-in Vela language reference printed by
// `vela doc`.
package help

import (
	"fmt"
	"sort"
	"strings"

	"github.com/thomasrohde/vela/pkg/diagnostics"
	"github.com/thomasrohde/vela/pkg/token"
)

// QUICKREF is printed when no topic is given.
const QUICKREF = `Vela quick reference

  from math import sqrt, pi;
  int x = 1;                       // typed declaration
  var y = [1, 2, 3];               // inferred declaration
  function int add(int a, int b) { return a + b; }
  var f = function(n) => n * 2;    // lambda
  if (x > 0) { y = f(x); } else { y = []; }
  for (item in y) { print(item); }
  while (x < 10) { x += 1; }
  switch (x) { case 1: print("one"); default: print("many"); }
  try { risky(); } catch (e) { print(e); }

Statements end at a ';' or at the end of the line. Comments are // line
and /* block */.

Topics (vela doc <topic>):
  syntax         statements and expressions
  declarations   variables, functions, enums, imports
  classes        classes, interfaces, modifiers, decorators
  operators      operators and precedence (--index for the table)
  preprocessor   #define, #if and friends
  diagnostics    how errors are reported (--index for all codes)
  config         vela.toml and vela.yaml
`

// Topics maps topic names to their text.
var Topics = map[string]string{
	"syntax": `Syntax

Statements end at a ';' or at the end of the line. Inside parentheses and
brackets a line break is plain whitespace, so long calls can span lines.
Two statements on one line need a ';' between them.

Statements
  print("hello");                  // expression statement
  count = count + 1;               // assignment, also += -= *= /= %=
  a = b = 0;                       // assignments chain to the right
  { var local = 1; }               // block with its own scope
  if (ready) start(); else wait();
  for (name in names) print(name);
  while (running) step();
  switch (code) { case 1: break; default: retry(); }
  function void stop() { return; }
  try { risky(); } catch (e) { throw e; }

Expressions
  var n = 42 + 3.14;               // numbers
  var s = "text" + 'text';         // strings
  var flags = [true, false, null];
  var r = ok(n);                   // results: ok(value) and err(value)
  var xs = [1, 2, 3];              // array
  var unique = {1, 2, 3};          // set
  var d = {"a": 1, "b": 2};        // dict, {} is an empty dict
  var size = xs.length;            // member access
  var m = max(xs, 0);              // call
  var add = function(a, b) => a + b;
  var id = function(a) { return a; };
  var nothing = void;              // 'this' refers to the object in methods

A statement that starts with '{' is a block unless a ',' or ':' follows its
first element, which makes it a set or dict literal.
`,
	"declarations": `Declarations

  int count = 0;                   // typed variable
  var name = "vela";               // inferred variable
  const int limit = 10;            // modifiers precede the type
  string[] names = [];             // array types

  function int add(int a, int b = 1) { return a + b; }
  async function void run() { print(name); }

  enum Color { Red, Green, Blue = 4 }

  import math;
  import math.trig as t;
  from math import sqrt, pi;
  import "lib/util.vl";

A name may be declared once per scope. Parameters and the top-level body
of a function share one scope; blocks, loop bodies and branches open new
ones. Reserved words such as ok, err and this cannot be used as names.
`,
	"classes": `Classes and interfaces

  @serializable
  public class Point extends Shape implements Printable {
    private int x = 0;
    private int y = 0;

    constructor(int x, int y) {
      this.x = x;
      this.y = y;
    }

    @override
    public function string toString() { return "point"; }
  }

  interface Printable {
    function string toString();
    string name;
  }

Modifiers: public private protected static const override async.
A modifier may appear once, and at most one access modifier is allowed.
@override only applies to methods.

  decorator trace(string label) { print(label); }
`,
	"operators": `Operators

From lowest to highest precedence:

  = += -= *= /= %=     assignment (right associative)
  || or                logical or
  && and               logical and
  == !=                equality
  < > <= >=            relational
  + -                  additive
  * / %                multiplicative
  **                   power (right associative)
  ! not -              unary prefix
  . ()                 member, call

Prefix operators bind tighter than '**', so -2 ** 2 is (-2) ** 2.
`,
	"preprocessor": `Preprocessor directives

  #define DEBUG 1
  #include "file.vl"
  #ifdef DEBUG
  print("debug build");
  #elif VERBOSE
  print("verbose build");
  #else
  print("release build");
  #endif
  #undef DEBUG

#if, #ifndef, #pragma, #warning and #error take the rest of their line.
Directives run to the end of their line and are kept in the syntax tree.
Every #if, #ifdef and #ifndef needs a matching #endif. #elif, #else and
#endif without an open region are reported, as is #error outside of any
conditional region.
`,
	"diagnostics": `Diagnostics

Every diagnostic has a phase, a kind, a stable code, a message, an optional
hint and the span of the offending token:

  syntax error[MissingToken]: expected ')' to close the parenthesized expression, found ';'
   --> main.vl:1:15
  int x = (1 + 2;
                ^

vela check exits with status 2 when diagnostics were found and 1 on usage
or I/O errors. --json prints the diagnostics as a JSON array instead.
Parsing stops at the first syntax error unless build.recover is set.
`,
	"config": `Configuration

vela looks for vela.toml, vela.yaml or vela.yml in the working directory and
its parents, then ~/.vela/config.toml.

  [project]
  name = "demo"
  version = "0.1.0"

  [build]
  source_dir = "src"      # scanned for *.vl when sources is empty
  sources = []            # explicit file list, relative to the project
  recover = false         # keep parsing after syntax errors
  semantic = true         # run the semantic checks

  [diagnostics]
  color = "auto"          # auto, always or never
  format = "pretty"       # pretty, short (one line each) or json
`,
}

// TopicList is the display order of Topics.
var TopicList = []string{"syntax", "declarations", "classes", "operators", "preprocessor", "diagnostics", "config"}

// MatchTopic resolves an exact topic name or a unique prefix of one.
func MatchTopic(query string) (name, content string, err error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if content, ok := Topics[q]; ok {
		return q, content, nil
	}
	var matches []string
	if q != "" {
		for _, t := range TopicList {
			if strings.HasPrefix(t, q) {
				matches = append(matches, t)
			}
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], Topics[matches[0]], nil
	case 0:
		return "", "", fmt.Errorf("unknown topic %q", query)
	default:
		return "", "", fmt.Errorf("ambiguous topic %q: %s", query, strings.Join(matches, ", "))
	}
}

// Index returns the generated table for topics that have one.
func Index(topic string) (string, error) {
	switch topic {
	case "diagnostics":
		return DiagnosticIndex(), nil
	case "operators":
		return OperatorIndex(), nil
	}
	return "", fmt.Errorf("--index is only supported for the diagnostics and operators topics")
}

// DiagnosticIndex lists every diagnostic kind grouped by phase.
func DiagnosticIndex() string {
	var b strings.Builder
	b.WriteString("Diagnostic kinds\n")
	var phase diagnostics.Phase = -1
	all := diagnostics.Kinds()
	for _, k := range all {
		if k.Phase() != phase {
			phase = k.Phase()
			fmt.Fprintf(&b, "\n%s:\n", phase)
		}
		fmt.Fprintf(&b, "  %-30s %s\n", k, k.Code())
	}
	fmt.Fprintf(&b, "\nTotal: %d kinds\n", len(all))
	return b.String()
}

// OperatorIndex lists the binary operators by precedence, highest first.
func OperatorIndex() string {
	byPrec := map[int][]string{}
	for _, op := range token.Operators() {
		if p := op.Precedence(); p >= 0 {
			byPrec[p] = append(byPrec[p], op.String())
		}
	}
	levels := make([]int, 0, len(byPrec))
	for p := range byPrec {
		levels = append(levels, p)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(levels)))

	var b strings.Builder
	b.WriteString("Binary operators by precedence\n\n")
	for _, p := range levels {
		assoc := "left"
		if op, _ := token.LookupOperator(byPrec[p][0]); op.RightAssoc() {
			assoc = "right"
		}
		fmt.Fprintf(&b, "  %d  %-5s  %s\n", p, assoc, strings.Join(byPrec[p], " "))
	}
	return b.String()
}
