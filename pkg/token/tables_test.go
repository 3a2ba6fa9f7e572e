package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeywordTableIsBijective(t *testing.T) {
	for _, kw := range Keywords() {
		spelling := kw.String()
		require.NotEmpty(t, spelling, "keyword %d has no spelling", kw)
		got, ok := LookupKeyword(spelling)
		require.True(t, ok, "spelling %q not found", spelling)
		assert.Equal(t, kw, got)
	}
	assert.Len(t, keywords, len(keywordSpellings))
}

func TestOperatorTableIsBijective(t *testing.T) {
	for _, op := range Operators() {
		got, ok := LookupOperator(op.String())
		require.True(t, ok, "operator %q not found", op.String())
		assert.Equal(t, op, got)
		assert.LessOrEqual(t, len(op.String()), MaxOperatorLen)
	}
}

func TestDelimiterAndDirectiveTables(t *testing.T) {
	for _, d := range Delimiters() {
		got, ok := LookupDelimiter(d.String())
		require.True(t, ok)
		assert.Equal(t, d, got)
	}
	for _, d := range Directives() {
		got, ok := LookupDirective(d.String())
		require.True(t, ok)
		assert.Equal(t, d, got)
	}
}

func TestLookupDecorator(t *testing.T) {
	d, ok := LookupDecorator("@entry")
	assert.True(t, ok)
	assert.Equal(t, DecoEntry, d)

	d, ok = LookupDecorator("@memoize")
	assert.False(t, ok)
	assert.Equal(t, DecoUser, d)
}

func TestOperatorPrecedence(t *testing.T) {
	tests := []struct {
		op   Op
		want int
	}{
		{OpAssign, PrecAssignment},
		{OpPlusAssign, PrecAssignment},
		{OpOr, PrecOr},
		{OpAnd, PrecAnd},
		{OpEq, PrecEquality},
		{OpGtEq, PrecRelational},
		{OpMinus, PrecAdditive},
		{OpPercent, PrecMultiplicative},
		{OpPower, PrecPower},
		{OpNot, -1},
		{OpArrow, -1},
	}
	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.op.Precedence())
		})
	}
	assert.True(t, OpPower.RightAssoc())
	assert.False(t, OpPlus.RightAssoc())
	assert.True(t, OpSlashAssign.IsAssignment())
	assert.False(t, OpEq.IsAssignment())
}

func TestModifiers(t *testing.T) {
	mods := map[Kw]bool{
		KwPublic: true, KwPrivate: true, KwProtected: true, KwStatic: true,
		KwConst: true, KwOverride: true, KwAsync: true,
	}
	for _, kw := range Keywords() {
		assert.Equal(t, mods[kw], kw.IsModifier(), kw.String())
	}
}

func TestSpanString(t *testing.T) {
	s := Span{File: "main.vl", StartLine: 3, StartCol: 7, EndLine: 3, EndCol: 9}
	assert.Equal(t, "main.vl:3:7", s.String())

	joined := s.To(Span{File: "main.vl", StartLine: 4, StartCol: 1, EndLine: 4, EndCol: 2})
	assert.Equal(t, 3, joined.StartLine)
	assert.Equal(t, 4, joined.EndLine)
	assert.Equal(t, 2, joined.EndCol)
}

func TestTokenPredicates(t *testing.T) {
	tok := Token{Kind: Keyword, Text: "if", Sub: int(KwIf)}
	assert.True(t, tok.IsKeyword(KwIf))
	assert.False(t, tok.IsKeyword(KwElse))
	assert.False(t, tok.IsOperator(Op(KwIf)))

	eof := Token{Kind: EOF}
	assert.Equal(t, "end of file", eof.Describe())
	assert.Equal(t, "'if'", tok.Describe())
	assert.Equal(t, "EndOfFile", EOF.String())
}
