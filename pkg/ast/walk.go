package ast

// Children returns the direct child nodes of n in source order. Absent
// optional children are omitted.
func Children(n Node) []Node {
	var out []Node
	add := func(c Node) {
		if c != nil {
			out = append(out, c)
		}
	}
	addExprs := func(es []Expr) {
		for _, e := range es {
			add(e)
		}
	}
	addParams := func(ps []*Parameter) {
		for _, p := range ps {
			out = append(out, p)
		}
	}
	addDecorators := func(ds []*Decorator) {
		for _, d := range ds {
			out = append(out, d)
		}
	}

	switch n := n.(type) {
	case *Literal, *Variable, *Void, *Break, *Continue, *Modifier, *Import, *PreprocessorDirective:
	case *MemberAccess:
		add(n.Object)
	case *CallExpression:
		add(n.Callee)
		addExprs(n.Args)
	case *UnaryOperation:
		add(n.Operand)
	case *BinaryOperation:
		add(n.Left)
		add(n.Right)
	case *ArrayLiteral:
		addExprs(n.Elements)
	case *SetLiteral:
		addExprs(n.Elements)
	case *DictLiteral:
		for _, e := range n.Entries {
			add(e.Key)
			add(e.Value)
		}
	case *Result:
		add(n.Value)
	case *Lambda:
		addParams(n.Params)
		add(n.Body)
	case *Declaration:
		for _, m := range n.Modifiers {
			out = append(out, m)
		}
		add(n.Value)
	case *Assignment:
		add(n.Target)
		add(n.Value)
	case *Block:
		out = append(out, n.Statements...)
	case *IfStatement:
		add(n.Cond)
		add(n.Then)
		add(n.Else)
	case *Switch:
		add(n.Subject)
		for _, c := range n.Cases {
			out = append(out, c)
		}
		if n.Default != nil {
			out = append(out, n.Default)
		}
	case *Case:
		add(n.Cond)
		out = append(out, n.Body...)
	case *DefaultCase:
		out = append(out, n.Body...)
	case *ForLoop:
		add(n.Iterable)
		add(n.Body)
	case *WhileLoop:
		add(n.Cond)
		add(n.Body)
	case *TryCatch:
		if n.Try != nil {
			out = append(out, n.Try)
		}
		if n.Catch != nil {
			out = append(out, n.Catch)
		}
	case *Return:
		add(n.Value)
	case *Throw:
		add(n.Value)
	case *Function:
		addDecorators(n.Decorators)
		for _, m := range n.Modifiers {
			out = append(out, m)
		}
		addParams(n.Params)
		if n.Body != nil {
			out = append(out, n.Body)
		}
	case *Class:
		addDecorators(n.Decorators)
		for _, m := range n.Modifiers {
			out = append(out, m)
		}
		for _, f := range n.Fields {
			out = append(out, f)
		}
		if n.Constructor != nil {
			out = append(out, n.Constructor)
		}
		for _, m := range n.Methods {
			out = append(out, m)
		}
	case *Decorator:
		addExprs(n.Args)
	case *DecoratorDecl:
		addDecorators(n.Decorators)
		for _, m := range n.Modifiers {
			out = append(out, m)
		}
		addParams(n.Params)
		if n.Body != nil {
			out = append(out, n.Body)
		}
	case *Parameter:
		add(n.Default)
	case *Enum:
		addDecorators(n.Decorators)
		for _, m := range n.Modifiers {
			out = append(out, m)
		}
		for _, m := range n.Members {
			out = append(out, m)
		}
	case *EnumMember:
		add(n.Value)
	case *Interface:
		addDecorators(n.Decorators)
		for _, m := range n.Modifiers {
			out = append(out, m)
		}
		for _, f := range n.Fields {
			out = append(out, f)
		}
	case *InterfaceField:
		addParams(n.Params)
	case *Module:
		out = append(out, n.Body...)
	case *Program:
		for _, m := range n.Modules {
			out = append(out, m)
		}
	}
	return out
}

// Walk traverses the tree rooted at n in pre-order. When fn returns false the
// children of that node are skipped.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range Children(n) {
		Walk(c, fn)
	}
}
