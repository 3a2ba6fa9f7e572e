// Package ast defines the Vela language AST node types.
package ast

import "github.com/thomasrohde/vela/pkg/token"

// NodeKind names a node variant.
type NodeKind string

const (
	KindLiteral               NodeKind = "Literal"
	KindVariable              NodeKind = "Variable"
	KindMemberAccess          NodeKind = "MemberAccess"
	KindCallExpression        NodeKind = "CallExpression"
	KindUnaryOperation        NodeKind = "UnaryOperation"
	KindBinaryOperation       NodeKind = "BinaryOperation"
	KindArrayLiteral          NodeKind = "ArrayLiteral"
	KindSetLiteral            NodeKind = "SetLiteral"
	KindDictLiteral           NodeKind = "DictLiteral"
	KindVoid                  NodeKind = "Void"
	KindResult                NodeKind = "Result"
	KindLambda                NodeKind = "Lambda"
	KindDeclaration           NodeKind = "Declaration"
	KindAssignment            NodeKind = "Assignment"
	KindBlock                 NodeKind = "Block"
	KindIfStatement           NodeKind = "IfStatement"
	KindSwitch                NodeKind = "Switch"
	KindCase                  NodeKind = "Case"
	KindDefaultCase           NodeKind = "DefaultCase"
	KindForLoop               NodeKind = "ForLoop"
	KindWhileLoop             NodeKind = "WhileLoop"
	KindTryCatch              NodeKind = "TryCatch"
	KindBreak                 NodeKind = "Break"
	KindContinue              NodeKind = "Continue"
	KindReturn                NodeKind = "Return"
	KindThrow                 NodeKind = "Throw"
	KindFunction              NodeKind = "Function"
	KindClass                 NodeKind = "Class"
	KindDecorator             NodeKind = "Decorator"
	KindDecoratorDecl         NodeKind = "DecoratorDecl"
	KindParameter             NodeKind = "Parameter"
	KindModifier              NodeKind = "Modifier"
	KindImport                NodeKind = "Import"
	KindPreprocessorDirective NodeKind = "PreprocessorDirective"
	KindEnum                  NodeKind = "Enum"
	KindEnumMember            NodeKind = "EnumMember"
	KindInterface             NodeKind = "Interface"
	KindInterfaceField        NodeKind = "InterfaceField"
	KindModule                NodeKind = "Module"
	KindProgram               NodeKind = "Program"
)

// Node is the interface implemented by all AST nodes.
type Node interface {
	Kind() NodeKind
	NodeSpan() token.Span
}

// --- Expr is the interface for all expression nodes ---

// Blocks and module bodies hold []Node: an expression used as a statement
// appears there directly.
type Expr interface {
	Node
	exprNode() // sealed marker
}

// --- Expressions ---

// LiteralKind classifies a Literal.
type LiteralKind int

const (
	LitNumber LiteralKind = iota
	LitString
	LitBool
	LitNull
)

// Literal holds the raw source text of a number, string, boolean or null.
// String values keep their quotes.
type Literal struct {
	Span    token.Span
	LitKind LiteralKind
	Value   string
}

func (n *Literal) Kind() NodeKind       { return KindLiteral }
func (n *Literal) NodeSpan() token.Span { return n.Span }
func (n *Literal) exprNode()            {}

// Variable is a bare name reference, including 'this'.
type Variable struct {
	Span token.Span
	Name string
}

func (n *Variable) Kind() NodeKind       { return KindVariable }
func (n *Variable) NodeSpan() token.Span { return n.Span }
func (n *Variable) exprNode()            {}

type MemberAccess struct {
	Span   token.Span
	Object Expr
	Member string
}

func (n *MemberAccess) Kind() NodeKind       { return KindMemberAccess }
func (n *MemberAccess) NodeSpan() token.Span { return n.Span }
func (n *MemberAccess) exprNode()            {}

type CallExpression struct {
	Span   token.Span
	Callee Expr
	Args   []Expr
}

func (n *CallExpression) Kind() NodeKind       { return KindCallExpression }
func (n *CallExpression) NodeSpan() token.Span { return n.Span }
func (n *CallExpression) exprNode()            {}

// UnaryOperation carries the operator spelling; 'not' is normalized to '!'.
type UnaryOperation struct {
	Span    token.Span
	Op      string
	Operand Expr
}

func (n *UnaryOperation) Kind() NodeKind       { return KindUnaryOperation }
func (n *UnaryOperation) NodeSpan() token.Span { return n.Span }
func (n *UnaryOperation) exprNode()            {}

// BinaryOperation carries the operator spelling; 'and' and 'or' are
// normalized to '&&' and '||'.
type BinaryOperation struct {
	Span  token.Span
	Op    string
	Left  Expr
	Right Expr
}

func (n *BinaryOperation) Kind() NodeKind       { return KindBinaryOperation }
func (n *BinaryOperation) NodeSpan() token.Span { return n.Span }
func (n *BinaryOperation) exprNode()            {}

type ArrayLiteral struct {
	Span     token.Span
	Elements []Expr
}

func (n *ArrayLiteral) Kind() NodeKind       { return KindArrayLiteral }
func (n *ArrayLiteral) NodeSpan() token.Span { return n.Span }
func (n *ArrayLiteral) exprNode()            {}

type SetLiteral struct {
	Span     token.Span
	Elements []Expr
}

func (n *SetLiteral) Kind() NodeKind       { return KindSetLiteral }
func (n *SetLiteral) NodeSpan() token.Span { return n.Span }
func (n *SetLiteral) exprNode()            {}

type DictEntry struct {
	Key   Expr
	Value Expr
}

// DictLiteral is '{}' or '{k: v, ...}'. An empty '{}' is always a dict.
type DictLiteral struct {
	Span    token.Span
	Entries []DictEntry
}

func (n *DictLiteral) Kind() NodeKind       { return KindDictLiteral }
func (n *DictLiteral) NodeSpan() token.Span { return n.Span }
func (n *DictLiteral) exprNode()            {}

type Void struct {
	Span token.Span
}

func (n *Void) Kind() NodeKind       { return KindVoid }
func (n *Void) NodeSpan() token.Span { return n.Span }
func (n *Void) exprNode()            {}

// Result is ok(value) or err(value).
type Result struct {
	Span  token.Span
	IsErr bool
	Value Expr
}

func (n *Result) Kind() NodeKind       { return KindResult }
func (n *Result) NodeSpan() token.Span { return n.Span }
func (n *Result) exprNode()            {}

// Lambda is an anonymous function. Body is either an Expr or a *Block.
type Lambda struct {
	Span   token.Span
	Params []*Parameter
	Body   Node
}

func (n *Lambda) Kind() NodeKind       { return KindLambda }
func (n *Lambda) NodeSpan() token.Span { return n.Span }
func (n *Lambda) exprNode()            {}

// --- Statements ---

// Declaration is 'Type name [= value]' or 'var name [= value]'. Type is empty
// for 'var'.
type Declaration struct {
	Span      token.Span
	Modifiers []*Modifier
	Type      string
	Name      string
	Value     Expr
}

func (n *Declaration) Kind() NodeKind       { return KindDeclaration }
func (n *Declaration) NodeSpan() token.Span { return n.Span }

// Assignment targets a Variable or MemberAccess with '=' or a compound
// operator. It is an expression whose value is the assigned value.
type Assignment struct {
	Span   token.Span
	Target Expr
	Op     string
	Value  Expr
}

func (n *Assignment) Kind() NodeKind       { return KindAssignment }
func (n *Assignment) NodeSpan() token.Span { return n.Span }
func (n *Assignment) exprNode()            {}

type Block struct {
	Span       token.Span
	Statements []Node
}

func (n *Block) Kind() NodeKind       { return KindBlock }
func (n *Block) NodeSpan() token.Span { return n.Span }

// IfStatement's Else is nil, a *Block, another *IfStatement, or a single
// statement.
type IfStatement struct {
	Span token.Span
	Cond Expr
	Then Node
	Else Node
}

func (n *IfStatement) Kind() NodeKind       { return KindIfStatement }
func (n *IfStatement) NodeSpan() token.Span { return n.Span }

// HasElse reports whether the statement has an else branch.
func (n *IfStatement) HasElse() bool { return n.Else != nil }

type Switch struct {
	Span    token.Span
	Subject Expr
	Cases   []*Case
	Default *DefaultCase
}

func (n *Switch) Kind() NodeKind       { return KindSwitch }
func (n *Switch) NodeSpan() token.Span { return n.Span }

// HasDefault reports whether the switch has a default arm.
func (n *Switch) HasDefault() bool { return n.Default != nil }

type Case struct {
	Span token.Span
	Cond Expr
	Body []Node
}

func (n *Case) Kind() NodeKind       { return KindCase }
func (n *Case) NodeSpan() token.Span { return n.Span }

type DefaultCase struct {
	Span token.Span
	Body []Node
}

func (n *DefaultCase) Kind() NodeKind       { return KindDefaultCase }
func (n *DefaultCase) NodeSpan() token.Span { return n.Span }

// ForLoop is 'for ([Type] name in|: iterable) body'.
type ForLoop struct {
	Span     token.Span
	VarType  string
	Var      string
	Iterable Expr
	Body     Node
}

func (n *ForLoop) Kind() NodeKind       { return KindForLoop }
func (n *ForLoop) NodeSpan() token.Span { return n.Span }

type WhileLoop struct {
	Span token.Span
	Cond Expr
	Body Node
}

func (n *WhileLoop) Kind() NodeKind       { return KindWhileLoop }
func (n *WhileLoop) NodeSpan() token.Span { return n.Span }

type TryCatch struct {
	Span     token.Span
	Try      *Block
	CatchVar string
	Catch    *Block
}

func (n *TryCatch) Kind() NodeKind       { return KindTryCatch }
func (n *TryCatch) NodeSpan() token.Span { return n.Span }

type Break struct {
	Span token.Span
}

func (n *Break) Kind() NodeKind       { return KindBreak }
func (n *Break) NodeSpan() token.Span { return n.Span }

type Continue struct {
	Span token.Span
}

func (n *Continue) Kind() NodeKind       { return KindContinue }
func (n *Continue) NodeSpan() token.Span { return n.Span }

// Return's Value is nil for a bare 'return'.
type Return struct {
	Span  token.Span
	Value Expr
}

func (n *Return) Kind() NodeKind       { return KindReturn }
func (n *Return) NodeSpan() token.Span { return n.Span }

type Throw struct {
	Span  token.Span
	Value Expr
}

func (n *Throw) Kind() NodeKind       { return KindThrow }
func (n *Throw) NodeSpan() token.Span { return n.Span }

// --- Declarations ---

// Function is a named function or method. ReturnType is empty when omitted.
// A class constructor is a Function named "constructor".
type Function struct {
	Span       token.Span
	Decorators []*Decorator
	Modifiers  []*Modifier
	ReturnType string
	Name       string
	Params     []*Parameter
	Body       *Block
}

func (n *Function) Kind() NodeKind       { return KindFunction }
func (n *Function) NodeSpan() token.Span { return n.Span }

// Class references its superclass and interfaces by name only.
type Class struct {
	Span        token.Span
	Decorators  []*Decorator
	Modifiers   []*Modifier
	Name        string
	Superclass  string
	Interfaces  []string
	Fields      []*Declaration
	Methods     []*Function
	Constructor *Function
}

func (n *Class) Kind() NodeKind       { return KindClass }
func (n *Class) NodeSpan() token.Span { return n.Span }

// Decorator is an application such as '@entry' or '@retry(3)'. Name excludes
// the '@'; Builtin is DecoUser for decorators declared in source.
type Decorator struct {
	Span    token.Span
	Name    string
	Builtin token.Deco
	Args    []Expr
}

func (n *Decorator) Kind() NodeKind       { return KindDecorator }
func (n *Decorator) NodeSpan() token.Span { return n.Span }

// DecoratorDecl declares a user decorator.
type DecoratorDecl struct {
	Span       token.Span
	Decorators []*Decorator
	Modifiers  []*Modifier
	Name       string
	Params     []*Parameter
	Body       *Block
}

func (n *DecoratorDecl) Kind() NodeKind       { return KindDecoratorDecl }
func (n *DecoratorDecl) NodeSpan() token.Span { return n.Span }

// Parameter's Type is empty when omitted; Default is nil when absent.
type Parameter struct {
	Span    token.Span
	Type    string
	Name    string
	Default Expr
}

func (n *Parameter) Kind() NodeKind       { return KindParameter }
func (n *Parameter) NodeSpan() token.Span { return n.Span }

type Modifier struct {
	Span    token.Span
	Keyword token.Kw
}

func (n *Modifier) Kind() NodeKind       { return KindModifier }
func (n *Modifier) NodeSpan() token.Span { return n.Span }

// Import is 'import path [as alias]' or 'from path import a, b'. Names is
// non-empty only for the second form.
type Import struct {
	Span   token.Span
	Path   string
	Quoted bool
	Alias  string
	Names  []string
}

func (n *Import) Kind() NodeKind       { return KindImport }
func (n *Import) NodeSpan() token.Span { return n.Span }

// PreprocessorDirective keeps the texts of the tokens that follow the
// directive on its line.
type PreprocessorDirective struct {
	Span      token.Span
	Directive token.Directive
	Args      []string
}

func (n *PreprocessorDirective) Kind() NodeKind       { return KindPreprocessorDirective }
func (n *PreprocessorDirective) NodeSpan() token.Span { return n.Span }

type Enum struct {
	Span       token.Span
	Decorators []*Decorator
	Modifiers  []*Modifier
	Name       string
	Members    []*EnumMember
}

func (n *Enum) Kind() NodeKind       { return KindEnum }
func (n *Enum) NodeSpan() token.Span { return n.Span }

type EnumMember struct {
	Span  token.Span
	Name  string
	Value Expr
}

func (n *EnumMember) Kind() NodeKind       { return KindEnumMember }
func (n *EnumMember) NodeSpan() token.Span { return n.Span }

type Interface struct {
	Span       token.Span
	Decorators []*Decorator
	Modifiers  []*Modifier
	Name       string
	Extends    []string
	Fields     []*InterfaceField
}

func (n *Interface) Kind() NodeKind       { return KindInterface }
func (n *Interface) NodeSpan() token.Span { return n.Span }

// InterfaceField is a field 'Type name' or, when Method is set, a method
// signature whose Type is the return type.
type InterfaceField struct {
	Span   token.Span
	Name   string
	Type   string
	Method bool
	Params []*Parameter
}

func (n *InterfaceField) Kind() NodeKind       { return KindInterfaceField }
func (n *InterfaceField) NodeSpan() token.Span { return n.Span }

// --- Roots ---

// Module is the AST of one source file.
type Module struct {
	Span token.Span
	Name string
	Body []Node
}

func (n *Module) Kind() NodeKind       { return KindModule }
func (n *Module) NodeSpan() token.Span { return n.Span }

// Program aggregates the modules of a multi-file build in input order.
type Program struct {
	Span    token.Span
	Modules []*Module
}

func (n *Program) Kind() NodeKind       { return KindProgram }
func (n *Program) NodeSpan() token.Span { return n.Span }

// As narrows n to the concrete variant T. It reports false, never panics,
// when n is nil or of another variant.
func As[T Node](n Node) (T, bool) {
	t, ok := n.(T)
	return t, ok
}
