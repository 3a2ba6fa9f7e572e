package token

// The classification tables below are array literals indexed by symbol; the
// spelling -> symbol maps are derived from them once during package
// initialization and are never written afterwards, so concurrent readers need
// no synchronization.

// Kw identifies a reserved word.
type Kw int

const (
	KwIf Kw = iota
	KwElse
	KwSwitch
	KwCase
	KwDefault
	KwFor
	KwIn
	KwWhile
	KwBreak
	KwContinue
	KwReturn
	KwThrow
	KwTry
	KwCatch
	KwFunction
	KwClass
	KwExtends
	KwImplements
	KwInterface
	KwEnum
	KwDecorator
	KwConstructor
	KwImport
	KwFrom
	KwAs
	KwVar
	KwPublic
	KwPrivate
	KwProtected
	KwStatic
	KwConst
	KwOverride
	KwAsync
	KwTrue
	KwFalse
	KwNull
	KwNot
	KwAnd
	KwOr
	KwVoid
	KwOk
	KwErr
	KwThis
)

var keywordSpellings = [...]string{
	KwIf:          "if",
	KwElse:        "else",
	KwSwitch:      "switch",
	KwCase:        "case",
	KwDefault:     "default",
	KwFor:         "for",
	KwIn:          "in",
	KwWhile:       "while",
	KwBreak:       "break",
	KwContinue:    "continue",
	KwReturn:      "return",
	KwThrow:       "throw",
	KwTry:         "try",
	KwCatch:       "catch",
	KwFunction:    "function",
	KwClass:       "class",
	KwExtends:     "extends",
	KwImplements:  "implements",
	KwInterface:   "interface",
	KwEnum:        "enum",
	KwDecorator:   "decorator",
	KwConstructor: "constructor",
	KwImport:      "import",
	KwFrom:        "from",
	KwAs:          "as",
	KwVar:         "var",
	KwPublic:      "public",
	KwPrivate:     "private",
	KwProtected:   "protected",
	KwStatic:      "static",
	KwConst:       "const",
	KwOverride:    "override",
	KwAsync:       "async",
	KwTrue:        "true",
	KwFalse:       "false",
	KwNull:        "null",
	KwNot:         "not",
	KwAnd:         "and",
	KwOr:          "or",
	KwVoid:        "void",
	KwOk:          "ok",
	KwErr:         "err",
	KwThis:        "this",
}

func (k Kw) String() string {
	if k < 0 || int(k) >= len(keywordSpellings) {
		return "?"
	}
	return keywordSpellings[k]
}

// IsModifier reports whether k may prefix a declaration as a modifier.
func (k Kw) IsModifier() bool {
	switch k {
	case KwPublic, KwPrivate, KwProtected, KwStatic, KwConst, KwOverride, KwAsync:
		return true
	}
	return false
}

// Op identifies an operator.
type Op int

const (
	OpPlus Op = iota
	OpMinus
	OpStar
	OpSlash
	OpPercent
	OpPower
	OpAssign
	OpPlusAssign
	OpMinusAssign
	OpStarAssign
	OpSlashAssign
	OpPercentAssign
	OpEq
	OpNotEq
	OpLt
	OpGt
	OpLtEq
	OpGtEq
	OpAnd
	OpOr
	OpNot
	OpArrow
)

var operatorSpellings = [...]string{
	OpPlus:          "+",
	OpMinus:         "-",
	OpStar:          "*",
	OpSlash:         "/",
	OpPercent:       "%",
	OpPower:         "**",
	OpAssign:        "=",
	OpPlusAssign:    "+=",
	OpMinusAssign:   "-=",
	OpStarAssign:    "*=",
	OpSlashAssign:   "/=",
	OpPercentAssign: "%=",
	OpEq:            "==",
	OpNotEq:         "!=",
	OpLt:            "<",
	OpGt:            ">",
	OpLtEq:          "<=",
	OpGtEq:          ">=",
	OpAnd:           "&&",
	OpOr:            "||",
	OpNot:           "!",
	OpArrow:         "=>",
}

// MaxOperatorLen is the length of the longest operator spelling.
const MaxOperatorLen = 2

// Binary operator precedence levels, lowest to highest.
const (
	PrecAssignment = iota
	PrecOr
	PrecAnd
	PrecEquality
	PrecRelational
	PrecAdditive
	PrecMultiplicative
	PrecPower
)

func (o Op) String() string {
	if o < 0 || int(o) >= len(operatorSpellings) {
		return "?"
	}
	return operatorSpellings[o]
}

// Precedence returns the binding strength of o as a binary operator, or -1
// when o is not a binary operator.
func (o Op) Precedence() int {
	switch o {
	case OpAssign, OpPlusAssign, OpMinusAssign, OpStarAssign, OpSlashAssign, OpPercentAssign:
		return PrecAssignment
	case OpOr:
		return PrecOr
	case OpAnd:
		return PrecAnd
	case OpEq, OpNotEq:
		return PrecEquality
	case OpLt, OpGt, OpLtEq, OpGtEq:
		return PrecRelational
	case OpPlus, OpMinus:
		return PrecAdditive
	case OpStar, OpSlash, OpPercent:
		return PrecMultiplicative
	case OpPower:
		return PrecPower
	}
	return -1
}

// IsAssignment reports whether o is '=' or a compound assignment.
func (o Op) IsAssignment() bool {
	return o.Precedence() == PrecAssignment
}

// RightAssoc reports whether o groups right to left.
func (o Op) RightAssoc() bool {
	return o == OpPower || o.IsAssignment()
}

// Delim identifies a single-character delimiter.
type Delim int

const (
	DelimLParen Delim = iota
	DelimRParen
	DelimLBrace
	DelimRBrace
	DelimLBracket
	DelimRBracket
	DelimComma
	DelimSemicolon
	DelimColon
	DelimDot
)

var delimiterSpellings = [...]string{
	DelimLParen:    "(",
	DelimRParen:    ")",
	DelimLBrace:    "{",
	DelimRBrace:    "}",
	DelimLBracket:  "[",
	DelimRBracket:  "]",
	DelimComma:     ",",
	DelimSemicolon: ";",
	DelimColon:     ":",
	DelimDot:       ".",
}

func (d Delim) String() string {
	if d < 0 || int(d) >= len(delimiterSpellings) {
		return "?"
	}
	return delimiterSpellings[d]
}

// Closer returns the closing delimiter for an opening bracket.
func (d Delim) Closer() (Delim, bool) {
	switch d {
	case DelimLParen:
		return DelimRParen, true
	case DelimLBrace:
		return DelimRBrace, true
	case DelimLBracket:
		return DelimRBracket, true
	}
	return 0, false
}

// IsCloser reports whether d closes a bracket pair.
func (d Delim) IsCloser() bool {
	return d == DelimRParen || d == DelimRBrace || d == DelimRBracket
}

// Deco identifies a decorator. DecoUser covers decorators declared in source.
type Deco int

const (
	DecoUser Deco = iota
	DecoEntry
	DecoInline
	DecoDeprecated
	DecoTest
	DecoPure
	DecoOverride
)

var decoratorSpellings = [...]string{
	DecoUser:       "",
	DecoEntry:      "@entry",
	DecoInline:     "@inline",
	DecoDeprecated: "@deprecated",
	DecoTest:       "@test",
	DecoPure:       "@pure",
	DecoOverride:   "@override",
}

func (d Deco) String() string {
	if d < 0 || int(d) >= len(decoratorSpellings) {
		return "?"
	}
	return decoratorSpellings[d]
}

// Directive identifies a preprocessor directive.
type Directive int

const (
	DirDefine Directive = iota
	DirUndef
	DirInclude
	DirIf
	DirIfdef
	DirIfndef
	DirElif
	DirElse
	DirEndif
	DirPragma
	DirError
	DirWarning
)

var directiveSpellings = [...]string{
	DirDefine:  "#define",
	DirUndef:   "#undef",
	DirInclude: "#include",
	DirIf:      "#if",
	DirIfdef:   "#ifdef",
	DirIfndef:  "#ifndef",
	DirElif:    "#elif",
	DirElse:    "#else",
	DirEndif:   "#endif",
	DirPragma:  "#pragma",
	DirError:   "#error",
	DirWarning: "#warning",
}

func (d Directive) String() string {
	if d < 0 || int(d) >= len(directiveSpellings) {
		return "?"
	}
	return directiveSpellings[d]
}

// OpensConditional reports whether d starts a conditional region.
func (d Directive) OpensConditional() bool {
	return d == DirIf || d == DirIfdef || d == DirIfndef
}

var (
	keywords   = invert(keywordSpellings[:], func(i int) Kw { return Kw(i) })
	operators  = invert(operatorSpellings[:], func(i int) Op { return Op(i) })
	delimiters = invert(delimiterSpellings[:], func(i int) Delim { return Delim(i) })
	decorators = invert(decoratorSpellings[:], func(i int) Deco { return Deco(i) })
	directives = invert(directiveSpellings[:], func(i int) Directive { return Directive(i) })
)

func invert[T any](spellings []string, sym func(int) T) map[string]T {
	m := make(map[string]T, len(spellings))
	for i, s := range spellings {
		if s == "" {
			continue
		}
		m[s] = sym(i)
	}
	return m
}

// LookupKeyword classifies an identifier-shaped spelling.
func LookupKeyword(s string) (Kw, bool) {
	k, ok := keywords[s]
	return k, ok
}

// LookupOperator classifies an operator spelling.
func LookupOperator(s string) (Op, bool) {
	o, ok := operators[s]
	return o, ok
}

// LookupDelimiter classifies a delimiter spelling.
func LookupDelimiter(s string) (Delim, bool) {
	d, ok := delimiters[s]
	return d, ok
}

// LookupDecorator classifies a decorator spelling including the '@'. Unknown
// names are reported as DecoUser with ok == false.
func LookupDecorator(s string) (Deco, bool) {
	d, ok := decorators[s]
	return d, ok
}

// LookupDirective classifies a directive spelling including the '#'.
func LookupDirective(s string) (Directive, bool) {
	d, ok := directives[s]
	return d, ok
}

// Keywords returns every keyword symbol in declaration order.
func Keywords() []Kw {
	out := make([]Kw, len(keywordSpellings))
	for i := range out {
		out[i] = Kw(i)
	}
	return out
}

// Operators returns every operator symbol in declaration order.
func Operators() []Op {
	out := make([]Op, len(operatorSpellings))
	for i := range out {
		out[i] = Op(i)
	}
	return out
}

// Delimiters returns every delimiter symbol in declaration order.
func Delimiters() []Delim {
	out := make([]Delim, len(delimiterSpellings))
	for i := range out {
		out[i] = Delim(i)
	}
	return out
}

// Directives returns every directive symbol in declaration order.
func Directives() []Directive {
	out := make([]Directive, len(directiveSpellings))
	for i := range out {
		out[i] = Directive(i)
	}
	return out
}
