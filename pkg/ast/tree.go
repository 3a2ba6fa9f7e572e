package ast

import (
	"fmt"
	"strings"
)

// Attr is a named scalar property of a TreeNode.
type Attr struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// TreeNode is a span-free, renderer-neutral view of an AST node.
type TreeNode struct {
	Kind     NodeKind    `json:"kind" yaml:"kind"`
	Value    string      `json:"value,omitempty" yaml:"value,omitempty"`
	Label    string      `json:"label,omitempty" yaml:"label,omitempty"`
	Attrs    []Attr      `json:"attrs,omitempty" yaml:"attrs,omitempty"`
	Children []*TreeNode `json:"children,omitempty" yaml:"children,omitempty"`
}

type treeBuilder struct {
	t *TreeNode
}

func newTree(kind NodeKind, value string) *treeBuilder {
	return &treeBuilder{t: &TreeNode{Kind: kind, Value: value}}
}

func (b *treeBuilder) attr(key, value string) *treeBuilder {
	if value != "" {
		b.t.Attrs = append(b.t.Attrs, Attr{Key: key, Value: value})
	}
	return b
}

func (b *treeBuilder) child(label string, n Node) *treeBuilder {
	if n == nil {
		return b
	}
	c := Tree(n)
	c.Label = label
	b.t.Children = append(b.t.Children, c)
	return b
}

func (b *treeBuilder) exprs(es []Expr) *treeBuilder {
	for _, e := range es {
		b.child("", e)
	}
	return b
}

func (b *treeBuilder) nodes(ns []Node) *treeBuilder {
	for _, n := range ns {
		b.child("", n)
	}
	return b
}

func (b *treeBuilder) params(ps []*Parameter) *treeBuilder {
	for _, p := range ps {
		b.child("", p)
	}
	return b
}

func (b *treeBuilder) decorators(ds []*Decorator) *treeBuilder {
	for _, d := range ds {
		b.child("", d)
	}
	return b
}

func (b *treeBuilder) modifiers(ms []*Modifier) *treeBuilder {
	names := make([]string, len(ms))
	for i, m := range ms {
		names[i] = m.Keyword.String()
	}
	return b.attr("modifiers", strings.Join(names, ","))
}

// Tree converts n into a TreeNode. Modifiers and type names become
// attributes; every child node becomes a child TreeNode.
func Tree(n Node) *TreeNode {
	switch n := n.(type) {
	case *Literal:
		return newTree(n.Kind(), n.Value).t
	case *Variable:
		return newTree(n.Kind(), n.Name).t
	case *MemberAccess:
		return newTree(n.Kind(), n.Member).child("", n.Object).t
	case *CallExpression:
		return newTree(n.Kind(), "").child("callee", n.Callee).exprs(n.Args).t
	case *UnaryOperation:
		return newTree(n.Kind(), n.Op).child("", n.Operand).t
	case *BinaryOperation:
		return newTree(n.Kind(), n.Op).child("", n.Left).child("", n.Right).t
	case *ArrayLiteral:
		return newTree(n.Kind(), "").exprs(n.Elements).t
	case *SetLiteral:
		return newTree(n.Kind(), "").exprs(n.Elements).t
	case *DictLiteral:
		b := newTree(n.Kind(), "")
		for _, e := range n.Entries {
			b.child("key", e.Key).child("value", e.Value)
		}
		return b.t
	case *Void:
		return newTree(n.Kind(), "").t
	case *Result:
		v := "ok"
		if n.IsErr {
			v = "err"
		}
		return newTree(n.Kind(), v).child("", n.Value).t
	case *Lambda:
		return newTree(n.Kind(), "").params(n.Params).child("body", n.Body).t
	case *Declaration:
		return newTree(n.Kind(), n.Name).attr("type", n.Type).modifiers(n.Modifiers).child("", n.Value).t
	case *Assignment:
		return newTree(n.Kind(), n.Op).child("target", n.Target).child("value", n.Value).t
	case *Block:
		return newTree(n.Kind(), "").nodes(n.Statements).t
	case *IfStatement:
		return newTree(n.Kind(), "").child("cond", n.Cond).child("then", n.Then).child("else", n.Else).t
	case *Switch:
		b := newTree(n.Kind(), "").child("subject", n.Subject)
		for _, c := range n.Cases {
			b.child("", c)
		}
		if n.Default != nil {
			b.child("", n.Default)
		}
		return b.t
	case *Case:
		return newTree(n.Kind(), "").child("cond", n.Cond).nodes(n.Body).t
	case *DefaultCase:
		return newTree(n.Kind(), "").nodes(n.Body).t
	case *ForLoop:
		return newTree(n.Kind(), n.Var).attr("type", n.VarType).child("in", n.Iterable).child("body", n.Body).t
	case *WhileLoop:
		return newTree(n.Kind(), "").child("cond", n.Cond).child("body", n.Body).t
	case *TryCatch:
		b := newTree(n.Kind(), n.CatchVar)
		if n.Try != nil {
			b.child("try", n.Try)
		}
		if n.Catch != nil {
			b.child("catch", n.Catch)
		}
		return b.t
	case *Break:
		return newTree(n.Kind(), "").t
	case *Continue:
		return newTree(n.Kind(), "").t
	case *Return:
		return newTree(n.Kind(), "").child("", n.Value).t
	case *Throw:
		return newTree(n.Kind(), "").child("", n.Value).t
	case *Function:
		b := newTree(n.Kind(), n.Name).attr("returns", n.ReturnType).modifiers(n.Modifiers).
			decorators(n.Decorators).params(n.Params)
		if n.Body != nil {
			b.child("", n.Body)
		}
		return b.t
	case *Class:
		b := newTree(n.Kind(), n.Name).attr("extends", n.Superclass).
			attr("implements", strings.Join(n.Interfaces, ",")).modifiers(n.Modifiers).
			decorators(n.Decorators)
		for _, f := range n.Fields {
			b.child("", f)
		}
		if n.Constructor != nil {
			b.child("constructor", n.Constructor)
		}
		for _, m := range n.Methods {
			b.child("", m)
		}
		return b.t
	case *Decorator:
		return newTree(n.Kind(), n.Name).exprs(n.Args).t
	case *DecoratorDecl:
		b := newTree(n.Kind(), n.Name).modifiers(n.Modifiers).decorators(n.Decorators).params(n.Params)
		if n.Body != nil {
			b.child("", n.Body)
		}
		return b.t
	case *Parameter:
		return newTree(n.Kind(), n.Name).attr("type", n.Type).child("default", n.Default).t
	case *Modifier:
		return newTree(n.Kind(), n.Keyword.String()).t
	case *Import:
		path := n.Path
		if n.Quoted {
			path = `"` + n.Path + `"`
		}
		return newTree(n.Kind(), path).attr("as", n.Alias).attr("names", strings.Join(n.Names, ",")).t
	case *PreprocessorDirective:
		return newTree(n.Kind(), n.Directive.String()).attr("args", strings.Join(n.Args, " ")).t
	case *Enum:
		b := newTree(n.Kind(), n.Name).modifiers(n.Modifiers).decorators(n.Decorators)
		for _, m := range n.Members {
			b.child("", m)
		}
		return b.t
	case *EnumMember:
		return newTree(n.Kind(), n.Name).child("", n.Value).t
	case *Interface:
		b := newTree(n.Kind(), n.Name).attr("extends", strings.Join(n.Extends, ",")).
			modifiers(n.Modifiers).decorators(n.Decorators)
		for _, f := range n.Fields {
			b.child("", f)
		}
		return b.t
	case *InterfaceField:
		if n.Method {
			return newTree(n.Kind(), n.Name).attr("returns", n.Type).attr("method", "true").params(n.Params).t
		}
		return newTree(n.Kind(), n.Name).attr("type", n.Type).t
	case *Module:
		return newTree(n.Kind(), n.Name).nodes(n.Body).t
	case *Program:
		b := newTree(n.Kind(), "")
		for _, m := range n.Modules {
			b.child("", m)
		}
		return b.t
	case nil:
		return &TreeNode{}
	default:
		return newTree(n.Kind(), "").t
	}
}

// Dump renders n as an indented text tree, two spaces per level. Each line is
// "[label: ]Kind[(value)] [key=value ...]".
func Dump(n Node) string {
	var b strings.Builder
	writeTree(&b, Tree(n), 0)
	return b.String()
}

func writeTree(b *strings.Builder, t *TreeNode, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
	if t.Label != "" {
		b.WriteString(t.Label)
		b.WriteString(": ")
	}
	b.WriteString(string(t.Kind))
	if t.Value != "" {
		fmt.Fprintf(b, "(%s)", t.Value)
	}
	for _, a := range t.Attrs {
		fmt.Fprintf(b, " %s=%s", a.Key, a.Value)
	}
	b.WriteByte('\n')
	for _, c := range t.Children {
		writeTree(b, c, depth+1)
	}
}
