// Package validator implements semantic validation of Vela modules.
package validator

import (
	"fmt"
	"strings"

	"github.com/thomasrohde/vela/pkg/ast"
	"github.com/thomasrohde/vela/pkg/diagnostics"
	"github.com/thomasrohde/vela/pkg/token"
)

type scope struct {
	bindings map[string]token.Span
	parent   *scope
}

func newScope(parent *scope) *scope {
	return &scope{bindings: make(map[string]token.Span), parent: parent}
}

func (s *scope) has(name string) bool {
	if _, ok := s.bindings[name]; ok {
		return true
	}
	if s.parent != nil {
		return s.parent.has(name)
	}
	return false
}

func (s *scope) add(name string, span token.Span) {
	s.bindings[name] = span
}

func (s *scope) lookupLocal(name string) (token.Span, bool) {
	span, ok := s.bindings[name]
	return span, ok
}

// flow tracks which control-flow statements are legal at a point.
type flow struct {
	function bool
	loop     bool
	breakOK  bool
}

type validator struct {
	diags []diagnostics.Diagnostic
}

// Validate performs semantic analysis on a parsed module and returns the
// diagnostics in traversal order. Undefined names are not reported.
func Validate(module *ast.Module) []diagnostics.Diagnostic {
	v := &validator{}
	if module == nil {
		return nil
	}
	v.validateStatements(module.Body, newScope(nil), flow{})
	v.validateConditionals(module)
	return v.diags
}

func (v *validator) addDiag(kind diagnostics.Kind, span token.Span, text, msg, hint string) {
	tok := token.Token{Kind: token.Ident, Text: text, Span: span}
	v.diags = append(v.diags, diagnostics.MakeDiag(kind, tok, msg, hint))
}

// declare binds name in sc, reporting kind when sc already binds it.
func (v *validator) declare(sc *scope, name string, span token.Span, kind diagnostics.Kind) {
	if name == "" {
		return
	}
	if prev, ok := sc.lookupLocal(name); ok {
		v.addDiag(kind, span, name,
			fmt.Sprintf("'%s' is already declared in this scope", name),
			fmt.Sprintf("previous declaration at %s", prev))
		return
	}
	sc.add(name, span)
}

func (v *validator) validateStatements(stmts []ast.Node, sc *scope, c flow) {
	for _, stmt := range stmts {
		v.validateStatement(stmt, sc, c)
	}
}

func (v *validator) validateStatement(n ast.Node, sc *scope, c flow) {
	switch n := n.(type) {
	case *ast.Declaration:
		v.checkModifiers(n.Modifiers)
		v.validateExpr(n.Value, sc)
		v.declare(sc, n.Name, n.Span, diagnostics.Redeclaration)
	case *ast.Assignment:
		v.validateExpr(n.Target, sc)
		v.validateExpr(n.Value, sc)
	case *ast.Block:
		v.validateStatements(n.Statements, newScope(sc), c)
	case *ast.IfStatement:
		v.validateExpr(n.Cond, sc)
		v.validateBranch(n.Then, sc, c)
		if n.HasElse() {
			v.validateBranch(n.Else, sc, c)
		}
	case *ast.Switch:
		v.validateExpr(n.Subject, sc)
		arm := c
		arm.breakOK = true
		for _, cs := range n.Cases {
			v.validateExpr(cs.Cond, sc)
			v.validateStatements(cs.Body, newScope(sc), arm)
		}
		if n.HasDefault() {
			v.validateStatements(n.Default.Body, newScope(sc), arm)
		}
	case *ast.ForLoop:
		v.validateExpr(n.Iterable, sc)
		loopScope := newScope(sc)
		loopScope.add(n.Var, n.Span)
		v.validateBranch(n.Body, loopScope, loopFlow(c))
	case *ast.WhileLoop:
		v.validateExpr(n.Cond, sc)
		v.validateBranch(n.Body, sc, loopFlow(c))
	case *ast.TryCatch:
		if n.Try != nil {
			v.validateStatements(n.Try.Statements, newScope(sc), c)
		}
		if n.Catch != nil {
			catchScope := newScope(sc)
			catchScope.add(n.CatchVar, n.Span)
			v.validateStatements(n.Catch.Statements, catchScope, c)
		}
	case *ast.Break:
		if !c.breakOK {
			v.addDiag(diagnostics.BreakOutsideLoop, n.Span, "break",
				"'break' outside of a loop or switch", "")
		}
	case *ast.Continue:
		if !c.loop {
			v.addDiag(diagnostics.ContinueOutsideLoop, n.Span, "continue",
				"'continue' outside of a loop", "")
		}
	case *ast.Return:
		if !c.function {
			v.addDiag(diagnostics.ReturnOutsideFunction, n.Span, "return",
				"'return' outside of a function", "")
		}
		v.validateExpr(n.Value, sc)
	case *ast.Throw:
		v.validateExpr(n.Value, sc)
	case *ast.Function:
		v.checkModifiers(n.Modifiers)
		v.checkDecorators(n.Decorators, false)
		v.declare(sc, n.Name, n.Span, diagnostics.Redeclaration)
		v.validateCallable(n.Params, n.Body, sc)
	case *ast.DecoratorDecl:
		v.checkModifiers(n.Modifiers)
		v.checkDecorators(n.Decorators, false)
		v.declare(sc, n.Name, n.Span, diagnostics.Redeclaration)
		v.validateCallable(n.Params, n.Body, sc)
	case *ast.Class:
		v.checkModifiers(n.Modifiers)
		v.checkDecorators(n.Decorators, false)
		v.declare(sc, n.Name, n.Span, diagnostics.Redeclaration)
		v.validateClass(n, sc)
	case *ast.Enum:
		v.checkModifiers(n.Modifiers)
		v.checkDecorators(n.Decorators, false)
		v.declare(sc, n.Name, n.Span, diagnostics.Redeclaration)
		members := newScope(nil)
		for _, m := range n.Members {
			v.validateExpr(m.Value, sc)
			v.declare(members, m.Name, m.Span, diagnostics.DuplicateMember)
		}
	case *ast.Interface:
		v.checkModifiers(n.Modifiers)
		v.checkDecorators(n.Decorators, false)
		v.declare(sc, n.Name, n.Span, diagnostics.Redeclaration)
		members := newScope(nil)
		for _, f := range n.Fields {
			v.declare(members, f.Name, f.Span, diagnostics.DuplicateMember)
			v.checkParams(f.Params, newScope(nil), sc)
		}
	case *ast.Import:
		v.validateImport(n, sc)
	case *ast.PreprocessorDirective:
		// checked by validateConditionals
	case ast.Expr:
		v.validateExpr(n, sc)
	}
}

func loopFlow(c flow) flow {
	c.loop = true
	c.breakOK = true
	return c
}

// validateBranch validates a control-flow body in its own scope.
func (v *validator) validateBranch(n ast.Node, sc *scope, c flow) {
	if b, ok := n.(*ast.Block); ok {
		v.validateStatements(b.Statements, newScope(sc), c)
		return
	}
	v.validateStatement(n, newScope(sc), c)
}

// validateExpr checks the lambdas nested in an expression.
func (v *validator) validateExpr(e ast.Node, sc *scope) {
	if e == nil {
		return
	}
	if l, ok := e.(*ast.Lambda); ok {
		v.validateCallable(l.Params, l.Body, sc)
		return
	}
	for _, child := range ast.Children(e) {
		v.validateExpr(child, sc)
	}
}

// checkParams binds params in fs, reporting duplicates. Default values are
// evaluated in the enclosing scope.
func (v *validator) checkParams(params []*ast.Parameter, fs, outer *scope) {
	for _, p := range params {
		v.validateExpr(p.Default, outer)
		v.declare(fs, p.Name, p.Span, diagnostics.DuplicateParameter)
	}
}

// validateCallable validates a function, method, lambda or decorator body.
// Parameters and top-level body declarations share a scope.
func (v *validator) validateCallable(params []*ast.Parameter, body ast.Node, sc *scope) {
	fs := newScope(sc)
	v.checkParams(params, fs, sc)
	c := flow{function: true}
	switch b := body.(type) {
	case *ast.Block:
		if b != nil {
			v.validateStatements(b.Statements, fs, c)
		}
	case nil:
	default:
		v.validateExpr(b, fs)
	}
}

func (v *validator) validateClass(n *ast.Class, sc *scope) {
	members := newScope(nil)
	classScope := newScope(sc)
	for _, f := range n.Fields {
		v.checkModifiers(f.Modifiers)
		v.validateExpr(f.Value, classScope)
		v.declare(members, f.Name, f.Span, diagnostics.DuplicateMember)
	}
	if n.Constructor != nil {
		v.checkModifiers(n.Constructor.Modifiers)
		v.checkDecorators(n.Constructor.Decorators, false)
		v.validateCallable(n.Constructor.Params, n.Constructor.Body, classScope)
	}
	for _, m := range n.Methods {
		v.checkModifiers(m.Modifiers)
		v.checkDecorators(m.Decorators, true)
		v.declare(members, m.Name, m.Span, diagnostics.DuplicateMember)
		v.validateCallable(m.Params, m.Body, classScope)
	}
}

func (v *validator) validateImport(n *ast.Import, sc *scope) {
	if len(n.Names) > 0 {
		for _, name := range n.Names {
			v.declare(sc, name, n.Span, diagnostics.Redeclaration)
		}
		return
	}
	switch {
	case n.Alias != "":
		v.declare(sc, n.Alias, n.Span, diagnostics.Redeclaration)
	case !n.Quoted:
		parts := strings.Split(n.Path, ".")
		v.declare(sc, parts[len(parts)-1], n.Span, diagnostics.Redeclaration)
	}
}

var accessModifiers = map[token.Kw]bool{
	token.KwPublic:    true,
	token.KwPrivate:   true,
	token.KwProtected: true,
}

// checkModifiers reports repeated modifiers and more than one access
// modifier.
func (v *validator) checkModifiers(mods []*ast.Modifier) {
	seen := make(map[token.Kw]bool)
	var access *ast.Modifier
	for _, m := range mods {
		name := m.Keyword.String()
		switch {
		case seen[m.Keyword]:
			v.addDiag(diagnostics.ConflictingModifiers, m.Span, name,
				fmt.Sprintf("duplicate modifier '%s'", name), "")
		case accessModifiers[m.Keyword] && access != nil:
			v.addDiag(diagnostics.ConflictingModifiers, m.Span, name,
				fmt.Sprintf("modifier '%s' conflicts with '%s'", name, access.Keyword),
				"use a single access modifier")
		}
		seen[m.Keyword] = true
		if accessModifiers[m.Keyword] && access == nil {
			access = m
		}
	}
}

// checkDecorators reports @override anywhere but on a class method.
func (v *validator) checkDecorators(decos []*ast.Decorator, method bool) {
	if method {
		return
	}
	for _, d := range decos {
		if d.Builtin == token.DecoOverride {
			v.addDiag(diagnostics.InvalidDecoratorTarget, d.Span, "@"+d.Name,
				"'@override' can only be applied to class methods", "")
		}
	}
}

// validateConditionals checks that #if/#ifdef/#ifndef regions are closed by
// #endif and that #elif, #else and #endif have an open region. An #error
// outside any conditional region is reported as a user error.
func (v *validator) validateConditionals(module *ast.Module) {
	var open []*ast.PreprocessorDirective
	ast.Walk(module, func(n ast.Node) bool {
		d, ok := n.(*ast.PreprocessorDirective)
		if !ok {
			return true
		}
		name := d.Directive.String()
		switch {
		case d.Directive.OpensConditional():
			open = append(open, d)
		case d.Directive == token.DirElif || d.Directive == token.DirElse:
			if len(open) == 0 {
				v.addDiag(diagnostics.UnbalancedConditional, d.Span, name,
					fmt.Sprintf("'%s' without a matching '#if'", name), "")
			}
		case d.Directive == token.DirEndif:
			if len(open) == 0 {
				v.addDiag(diagnostics.UnbalancedConditional, d.Span, name,
					"'#endif' without a matching '#if'", "")
			} else {
				open = open[:len(open)-1]
			}
		case d.Directive == token.DirError:
			if len(open) == 0 {
				v.addDiag(diagnostics.UserError, d.Span, name, strings.Join(d.Args, " "), "")
			}
		}
		return true
	})
	for _, d := range open {
		name := d.Directive.String()
		v.addDiag(diagnostics.UnbalancedConditional, d.Span, name,
			fmt.Sprintf("'%s' is never closed", name), "add a matching '#endif'")
	}
}
