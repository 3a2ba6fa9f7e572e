package diagnostics

import "fmt"

// Phase is the compiler phase that raised a diagnostic.
type Phase int

const (
	PhaseSyntax Phase = iota
	PhaseSemantic
	PhaseType
	PhasePreprocessor
	PhaseCodegen
	PhaseRuntime
)

var phaseNames = [...]string{
	PhaseSyntax:       "syntax",
	PhaseSemantic:     "semantic",
	PhaseType:         "type",
	PhasePreprocessor: "preprocessor",
	PhaseCodegen:      "codegen",
	PhaseRuntime:      "runtime",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("Phase(%d)", int(p))
	}
	return phaseNames[p]
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Kind is the fine-grained diagnostic kind. Every kind belongs to exactly one
// phase. The front end only raises Syntax kinds and the validator's Semantic
// and Preprocessor kinds; the rest are reserved for downstream passes.
type Kind int

const (
	// Syntax
	UnexpectedToken Kind = iota
	MissingToken
	InvalidStatement
	InvalidPreprocessorDirective
	UnterminatedString
	UnterminatedComment
	InvalidNumberFormat
	UnexpectedEndOfFile
	MismatchedBrackets

	// Semantic
	UndefinedSymbol
	Redeclaration
	ReturnOutsideFunction
	BreakOutsideLoop
	ContinueOutsideLoop
	DuplicateParameter
	DuplicateMember
	ConflictingModifiers
	InvalidDecoratorTarget

	// Type
	TypeMismatch
	UnknownType
	InvalidOperandType
	ArgumentCountMismatch

	// Preprocessor
	UnbalancedConditional
	UnknownMacro
	IncludeNotFound
	UserError

	// Codegen
	UnsupportedFeature
	InternalCodegenError

	// Runtime
	DivisionByZero
	NullReference
	IndexOutOfBounds
	UncaughtException
)

type kindInfo struct {
	name  string
	code  string
	phase Phase
}

var kinds = [...]kindInfo{
	UnexpectedToken:              {"UnexpectedToken", "E_UNEXPECTED_TOKEN", PhaseSyntax},
	MissingToken:                 {"MissingToken", "E_MISSING_TOKEN", PhaseSyntax},
	InvalidStatement:             {"InvalidStatement", "E_INVALID_STATEMENT", PhaseSyntax},
	InvalidPreprocessorDirective: {"InvalidPreprocessorDirective", "E_INVALID_DIRECTIVE", PhaseSyntax},
	UnterminatedString:           {"UnterminatedString", "E_UNTERMINATED_STRING", PhaseSyntax},
	UnterminatedComment:          {"UnterminatedComment", "E_UNTERMINATED_COMMENT", PhaseSyntax},
	InvalidNumberFormat:          {"InvalidNumberFormat", "E_INVALID_NUMBER", PhaseSyntax},
	UnexpectedEndOfFile:          {"UnexpectedEndOfFile", "E_UNEXPECTED_EOF", PhaseSyntax},
	MismatchedBrackets:           {"MismatchedBrackets", "E_MISMATCHED_BRACKETS", PhaseSyntax},

	UndefinedSymbol:        {"UndefinedSymbol", "E_UNDEFINED_SYMBOL", PhaseSemantic},
	Redeclaration:          {"Redeclaration", "E_REDECLARATION", PhaseSemantic},
	ReturnOutsideFunction:  {"ReturnOutsideFunction", "E_RETURN_OUTSIDE_FUNCTION", PhaseSemantic},
	BreakOutsideLoop:       {"BreakOutsideLoop", "E_BREAK_OUTSIDE_LOOP", PhaseSemantic},
	ContinueOutsideLoop:    {"ContinueOutsideLoop", "E_CONTINUE_OUTSIDE_LOOP", PhaseSemantic},
	DuplicateParameter:     {"DuplicateParameter", "E_DUPLICATE_PARAMETER", PhaseSemantic},
	DuplicateMember:        {"DuplicateMember", "E_DUPLICATE_MEMBER", PhaseSemantic},
	ConflictingModifiers:   {"ConflictingModifiers", "E_CONFLICTING_MODIFIERS", PhaseSemantic},
	InvalidDecoratorTarget: {"InvalidDecoratorTarget", "E_INVALID_DECORATOR_TARGET", PhaseSemantic},

	TypeMismatch:          {"TypeMismatch", "E_TYPE_MISMATCH", PhaseType},
	UnknownType:           {"UnknownType", "E_UNKNOWN_TYPE", PhaseType},
	InvalidOperandType:    {"InvalidOperandType", "E_INVALID_OPERAND_TYPE", PhaseType},
	ArgumentCountMismatch: {"ArgumentCountMismatch", "E_ARGUMENT_COUNT", PhaseType},

	UnbalancedConditional: {"UnbalancedConditional", "E_UNBALANCED_CONDITIONAL", PhasePreprocessor},
	UnknownMacro:          {"UnknownMacro", "E_UNKNOWN_MACRO", PhasePreprocessor},
	IncludeNotFound:       {"IncludeNotFound", "E_INCLUDE_NOT_FOUND", PhasePreprocessor},
	UserError:             {"UserError", "E_USER_ERROR", PhasePreprocessor},

	UnsupportedFeature:   {"UnsupportedFeature", "E_UNSUPPORTED_FEATURE", PhaseCodegen},
	InternalCodegenError: {"InternalCodegenError", "E_CODEGEN_INTERNAL", PhaseCodegen},

	DivisionByZero:    {"DivisionByZero", "E_DIVISION_BY_ZERO", PhaseRuntime},
	NullReference:     {"NullReference", "E_NULL_REFERENCE", PhaseRuntime},
	IndexOutOfBounds:  {"IndexOutOfBounds", "E_INDEX_OUT_OF_BOUNDS", PhaseRuntime},
	UncaughtException: {"UncaughtException", "E_UNCAUGHT_EXCEPTION", PhaseRuntime},
}

func (k Kind) valid() bool {
	return k >= 0 && int(k) < len(kinds)
}

func (k Kind) String() string {
	if !k.valid() {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kinds[k].name
}

// Code returns the stable machine-readable code, e.g. "E_MISSING_TOKEN".
func (k Kind) Code() string {
	if !k.valid() {
		return "E_UNKNOWN"
	}
	return kinds[k].code
}

// Phase returns the phase k belongs to.
func (k Kind) Phase() Phase {
	if !k.valid() {
		return PhaseSyntax
	}
	return kinds[k].phase
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Kinds returns every diagnostic kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, len(kinds))
	for i := range out {
		out[i] = Kind(i)
	}
	return out
}
