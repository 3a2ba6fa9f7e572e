// Package formatter implements the Vela source code formatter.
package formatter

import (
	"strings"

	"github.com/thomasrohde/vela/pkg/ast"
	"github.com/thomasrohde/vela/pkg/token"
)

const indent = "  "

func precedence(op string) (int, bool) {
	o, ok := token.LookupOperator(op)
	if !ok {
		return 0, false
	}
	return o.Precedence(), o.RightAssoc()
}

// needsParens reports whether child must be parenthesized as an operand of
// the binary operator parentOp.
func needsParens(child ast.Expr, parentOp string, isRight bool) bool {
	switch c := child.(type) {
	case *ast.Lambda, *ast.Assignment:
		return true
	case *ast.BinaryOperation:
		childPrec, _ := precedence(c.Op)
		parentPrec, rightAssoc := precedence(parentOp)
		if childPrec < parentPrec {
			return true
		}
		if childPrec == parentPrec {
			return isRight != rightAssoc
		}
	}
	return false
}

// Format pretty-prints a Vela module back to source code. Comments are not
// part of the AST and are dropped; see HasComments.
func Format(module *ast.Module) string {
	if module == nil || len(module.Body) == 0 {
		return ""
	}
	var lines []string
	for i, item := range module.Body {
		if i > 0 && separated(module.Body[i-1], item) {
			lines = append(lines, "")
		}
		lines = append(lines, formatStmt(item, 0))
	}
	return strings.Join(lines, "\n") + "\n"
}

// separated reports whether a blank line goes between two top-level items.
func separated(prev, next ast.Node) bool {
	if isBlockDecl(prev) || isBlockDecl(next) {
		return true
	}
	_, prevImport := prev.(*ast.Import)
	_, nextImport := next.(*ast.Import)
	return prevImport != nextImport
}

func isBlockDecl(n ast.Node) bool {
	switch n.(type) {
	case *ast.Function, *ast.Class, *ast.Enum, *ast.Interface, *ast.DecoratorDecl:
		return true
	}
	return false
}

// HasComments checks if a source string contains Vela comments ('//' or
// '/*' outside string literals).
func HasComments(source string) bool {
	var quote byte
	for i := 0; i < len(source); i++ {
		c := source[i]
		if quote != 0 {
			switch c {
			case '\\':
				i++
			case quote, '\n':
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '/':
			if i+1 < len(source) && (source[i+1] == '/' || source[i+1] == '*') {
				return true
			}
		}
	}
	return false
}

func formatStmt(s ast.Node, depth int) string {
	prefix := strings.Repeat(indent, depth)
	switch stmt := s.(type) {
	case *ast.Declaration:
		return prefix + formatDeclaration(stmt, depth) + ";"
	case *ast.Block:
		return prefix + formatBlock(stmt.Statements, depth)
	case *ast.IfStatement:
		return prefix + formatIf(stmt, depth)
	case *ast.Switch:
		return prefix + formatSwitch(stmt, depth)
	case *ast.ForLoop:
		header := "for ("
		if stmt.VarType != "" {
			header += stmt.VarType + " "
		}
		header += stmt.Var + " in " + formatExpr(stmt.Iterable, depth) + ")"
		return prefix + header + formatBody(stmt.Body, depth)
	case *ast.WhileLoop:
		return prefix + "while (" + formatExpr(stmt.Cond, depth) + ")" + formatBody(stmt.Body, depth)
	case *ast.TryCatch:
		return prefix + "try " + formatBlock(stmt.Try.Statements, depth) +
			" catch (" + stmt.CatchVar + ") " + formatBlock(stmt.Catch.Statements, depth)
	case *ast.Break:
		return prefix + "break;"
	case *ast.Continue:
		return prefix + "continue;"
	case *ast.Return:
		if stmt.Value == nil {
			return prefix + "return;"
		}
		return prefix + "return " + formatExpr(stmt.Value, depth) + ";"
	case *ast.Throw:
		return prefix + "throw " + formatExpr(stmt.Value, depth) + ";"
	case *ast.Function:
		return formatFunction(stmt, depth)
	case *ast.DecoratorDecl:
		return formatDecorators(stmt.Decorators, prefix) + prefix + formatModifiers(stmt.Modifiers) +
			"decorator " + stmt.Name + formatParams(stmt.Params, depth) + " " + formatBlock(stmt.Body.Statements, depth)
	case *ast.Class:
		return formatClass(stmt, depth)
	case *ast.Enum:
		return formatEnum(stmt, depth)
	case *ast.Interface:
		return formatInterface(stmt, depth)
	case *ast.Import:
		return prefix + formatImport(stmt)
	case *ast.PreprocessorDirective:
		out := stmt.Directive.String()
		if len(stmt.Args) > 0 {
			out += " " + strings.Join(stmt.Args, " ")
		}
		return prefix + out
	case ast.Expr:
		out := formatExpr(stmt, depth)
		if strings.HasPrefix(out, "{") {
			out = "(" + out + ")"
		}
		return prefix + out + ";"
	}
	return ""
}

// formatBlock renders '{ ... }' opening on the current line and closing at
// depth.
func formatBlock(stmts []ast.Node, depth int) string {
	if len(stmts) == 0 {
		return "{}"
	}
	lines := make([]string, 0, len(stmts)+2)
	lines = append(lines, "{")
	for _, s := range stmts {
		lines = append(lines, formatStmt(s, depth+1))
	}
	lines = append(lines, strings.Repeat(indent, depth)+"}")
	return strings.Join(lines, "\n")
}

// formatBody renders a control-flow body after its header: a block on the
// same line, a single statement on the next line one level deeper.
func formatBody(body ast.Node, depth int) string {
	if b, ok := body.(*ast.Block); ok {
		return " " + formatBlock(b.Statements, depth)
	}
	return "\n" + formatStmt(body, depth+1)
}

func formatIf(stmt *ast.IfStatement, depth int) string {
	out := "if (" + formatExpr(stmt.Cond, depth) + ")" + formatBody(stmt.Then, depth)
	if !stmt.HasElse() {
		return out
	}
	if _, ok := stmt.Then.(*ast.Block); ok {
		out += " else"
	} else {
		out += "\n" + strings.Repeat(indent, depth) + "else"
	}
	if elif, ok := stmt.Else.(*ast.IfStatement); ok {
		return out + " " + formatIf(elif, depth)
	}
	return out + formatBody(stmt.Else, depth)
}

func formatSwitch(stmt *ast.Switch, depth int) string {
	prefix := strings.Repeat(indent, depth+1)
	lines := []string{"switch (" + formatExpr(stmt.Subject, depth) + ") {"}
	for _, c := range stmt.Cases {
		lines = append(lines, prefix+"case "+formatExpr(c.Cond, depth+1)+":")
		for _, s := range c.Body {
			lines = append(lines, formatStmt(s, depth+2))
		}
	}
	if stmt.HasDefault() {
		lines = append(lines, prefix+"default:")
		for _, s := range stmt.Default.Body {
			lines = append(lines, formatStmt(s, depth+2))
		}
	}
	lines = append(lines, strings.Repeat(indent, depth)+"}")
	return strings.Join(lines, "\n")
}

func formatDeclaration(d *ast.Declaration, depth int) string {
	typ := d.Type
	if typ == "" {
		typ = "var"
	}
	out := formatModifiers(d.Modifiers) + typ + " " + d.Name
	if d.Value != nil {
		out += " = " + formatExpr(d.Value, depth)
	}
	return out
}

func formatModifiers(mods []*ast.Modifier) string {
	var b strings.Builder
	for _, m := range mods {
		b.WriteString(m.Keyword.String())
		b.WriteByte(' ')
	}
	return b.String()
}

// formatDecorators puts each decorator on its own line.
func formatDecorators(decos []*ast.Decorator, prefix string) string {
	var b strings.Builder
	for _, d := range decos {
		b.WriteString(prefix)
		b.WriteByte('@')
		b.WriteString(d.Name)
		if len(d.Args) > 0 {
			b.WriteString("(" + formatExprList(d.Args, 0) + ")")
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func formatParams(params []*ast.Parameter, depth int) string {
	parts := make([]string, len(params))
	for i, p := range params {
		s := p.Name
		if p.Type != "" {
			s = p.Type + " " + s
		}
		if p.Default != nil {
			s += " = " + formatExpr(p.Default, depth)
		}
		parts[i] = s
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func formatSignature(returnType, name string, params []*ast.Parameter, depth int) string {
	out := "function "
	if returnType != "" {
		out += returnType + " "
	}
	return out + name + formatParams(params, depth)
}

func formatFunction(fn *ast.Function, depth int) string {
	prefix := strings.Repeat(indent, depth)
	return formatDecorators(fn.Decorators, prefix) + prefix + formatModifiers(fn.Modifiers) +
		formatSignature(fn.ReturnType, fn.Name, fn.Params, depth) + " " + formatBlock(fn.Body.Statements, depth)
}

func formatClass(c *ast.Class, depth int) string {
	prefix := strings.Repeat(indent, depth)
	header := formatDecorators(c.Decorators, prefix) + prefix + formatModifiers(c.Modifiers) + "class " + c.Name
	if c.Superclass != "" {
		header += " extends " + c.Superclass
	}
	if len(c.Interfaces) > 0 {
		header += " implements " + strings.Join(c.Interfaces, ", ")
	}
	if len(c.Fields) == 0 && len(c.Methods) == 0 && c.Constructor == nil {
		return header + " {}"
	}

	inner := strings.Repeat(indent, depth+1)
	lines := []string{header + " {"}
	for _, f := range c.Fields {
		lines = append(lines, inner+formatDeclaration(f, depth+1)+";")
	}
	if ctor := c.Constructor; ctor != nil {
		if len(lines) > 1 {
			lines = append(lines, "")
		}
		lines = append(lines, formatDecorators(ctor.Decorators, inner)+inner+formatModifiers(ctor.Modifiers)+
			"constructor"+formatParams(ctor.Params, depth+1)+" "+formatBlock(ctor.Body.Statements, depth+1))
	}
	for _, m := range c.Methods {
		if len(lines) > 1 {
			lines = append(lines, "")
		}
		lines = append(lines, formatFunction(m, depth+1))
	}
	lines = append(lines, prefix+"}")
	return strings.Join(lines, "\n")
}

func formatEnum(e *ast.Enum, depth int) string {
	prefix := strings.Repeat(indent, depth)
	header := formatDecorators(e.Decorators, prefix) + prefix + formatModifiers(e.Modifiers) + "enum " + e.Name
	if len(e.Members) == 0 {
		return header + " {}"
	}
	lines := []string{header + " {"}
	for _, m := range e.Members {
		s := strings.Repeat(indent, depth+1) + m.Name
		if m.Value != nil {
			s += " = " + formatExpr(m.Value, depth+1)
		}
		lines = append(lines, s+",")
	}
	lines = append(lines, prefix+"}")
	return strings.Join(lines, "\n")
}

func formatInterface(it *ast.Interface, depth int) string {
	prefix := strings.Repeat(indent, depth)
	header := formatDecorators(it.Decorators, prefix) + prefix + formatModifiers(it.Modifiers) + "interface " + it.Name
	if len(it.Extends) > 0 {
		header += " extends " + strings.Join(it.Extends, ", ")
	}
	if len(it.Fields) == 0 {
		return header + " {}"
	}
	inner := strings.Repeat(indent, depth+1)
	lines := []string{header + " {"}
	for _, f := range it.Fields {
		if f.Method {
			lines = append(lines, inner+formatSignature(f.Type, f.Name, f.Params, depth+1)+";")
		} else {
			lines = append(lines, inner+f.Type+" "+f.Name+";")
		}
	}
	lines = append(lines, prefix+"}")
	return strings.Join(lines, "\n")
}

func formatImport(imp *ast.Import) string {
	path := imp.Path
	if imp.Quoted {
		path = quotePath(imp.Path)
	}
	if len(imp.Names) > 0 {
		return "from " + path + " import " + strings.Join(imp.Names, ", ") + ";"
	}
	if imp.Alias != "" {
		return "import " + path + " as " + imp.Alias + ";"
	}
	return "import " + path + ";"
}

// quotePath prefers double quotes. A path holding an unescaped double quote
// came from a single-quoted literal and keeps single quotes.
func quotePath(path string) string {
	for i := 0; i < len(path); i++ {
		switch path[i] {
		case '\\':
			i++
		case '"':
			return "'" + path + "'"
		}
	}
	return `"` + path + `"`
}

func formatExprList(es []ast.Expr, depth int) string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = formatExpr(e, depth)
	}
	return strings.Join(parts, ", ")
}

// formatPostfixTarget renders the object of a member access or the callee of
// a call, parenthesized unless it is already a postfix chain.
func formatPostfixTarget(e ast.Expr, depth int) string {
	switch e.(type) {
	case *ast.Variable, *ast.MemberAccess, *ast.CallExpression:
		return formatExpr(e, depth)
	}
	return "(" + formatExpr(e, depth) + ")"
}

func formatExpr(e ast.Expr, depth int) string {
	switch expr := e.(type) {
	case *ast.Literal:
		return expr.Value
	case *ast.Assignment:
		return formatExpr(expr.Target, depth) + " " + expr.Op + " " + formatExpr(expr.Value, depth)
	case *ast.Variable:
		return expr.Name
	case *ast.MemberAccess:
		return formatPostfixTarget(expr.Object, depth) + "." + expr.Member
	case *ast.CallExpression:
		return formatPostfixTarget(expr.Callee, depth) + "(" + formatExprList(expr.Args, depth) + ")"
	case *ast.UnaryOperation:
		operand := formatExpr(expr.Operand, depth)
		switch expr.Operand.(type) {
		case *ast.BinaryOperation, *ast.Lambda, *ast.UnaryOperation, *ast.Assignment:
			operand = "(" + operand + ")"
		}
		return expr.Op + operand
	case *ast.BinaryOperation:
		left := formatExpr(expr.Left, depth)
		if needsParens(expr.Left, expr.Op, false) {
			left = "(" + left + ")"
		}
		right := formatExpr(expr.Right, depth)
		if needsParens(expr.Right, expr.Op, true) {
			right = "(" + right + ")"
		}
		return left + " " + expr.Op + " " + right
	case *ast.ArrayLiteral:
		return "[" + formatExprList(expr.Elements, depth) + "]"
	case *ast.SetLiteral:
		return "{" + formatExprList(expr.Elements, depth) + "}"
	case *ast.DictLiteral:
		parts := make([]string, len(expr.Entries))
		for i, entry := range expr.Entries {
			parts[i] = formatExpr(entry.Key, depth) + ": " + formatExpr(entry.Value, depth)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case *ast.Void:
		return "void"
	case *ast.Result:
		name := "ok"
		if expr.IsErr {
			name = "err"
		}
		return name + "(" + formatExpr(expr.Value, depth) + ")"
	case *ast.Lambda:
		head := "function" + formatParams(expr.Params, depth)
		if b, ok := expr.Body.(*ast.Block); ok {
			return head + " " + formatBlock(b.Statements, depth)
		}
		body, _ := expr.Body.(ast.Expr)
		return head + " => " + formatExpr(body, depth)
	}
	return ""
}
