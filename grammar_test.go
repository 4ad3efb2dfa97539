package parsec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrammarSingleLiteralRule(t *testing.T) {
	refs := map[string]*Parser{"greeting": New("greeting")}
	defer Cleanup([]*Parser{refs["greeting"]})

	start, err := Grammar(GDefault, `greeting: "hello";`, refs)
	require.NoError(t, err)

	v, err := Parse("t", []byte("hello"), start)
	require.Nil(t, err)
	n := v.(*Node)
	assert.True(t, n.HasTag("greeting"))
	assert.True(t, n.HasTag("string"))
}

func TestGrammarAlternationAndRuleRef(t *testing.T) {
	refs := map[string]*Parser{
		"animal": New("animal"),
		"pet":    New("pet"),
	}
	defer Cleanup([]*Parser{refs["animal"], refs["pet"]})

	src := `
		animal : "cat" | "dog" ;
		pet : <animal> ;
	`
	start, err := Grammar(GDefault, src, refs)
	require.NoError(t, err)
	assert.Same(t, refs["animal"], start, "Grammar's return is the first rule defined in the source")

	v, err := Parse("t", []byte("dog"), refs["pet"])
	require.Nil(t, err)
	n := v.(*Node)
	assert.True(t, n.HasTag("pet"))
	assert.True(t, n.HasTag("animal"))
}

func TestGrammarQuantifiersSpliceSiblings(t *testing.T) {
	refs := map[string]*Parser{"digits": New("digits")}
	defer Cleanup([]*Parser{refs["digits"]})

	start, err := Grammar(GDefault, `digits: /[0-9]/+;`, refs)
	require.NoError(t, err)

	v, err := Parse("t", []byte("123"), start)
	require.Nil(t, err)
	n := v.(*Node)
	assert.True(t, n.HasTag("digits"))
	assert.Len(t, n.Children, 3)
}

func TestGrammarImplicitWhitespaceBetweenFactors(t *testing.T) {
	refs := map[string]*Parser{"pair": New("pair")}
	defer Cleanup([]*Parser{refs["pair"]})

	start, err := Grammar(GDefault, `pair: "a" "b";`, refs)
	require.NoError(t, err)

	_, err = Parse("t", []byte("a b"), start)
	assert.Nil(t, err, "adjacent factors skip whitespace by default")
}

func TestGrammarWhitespaceSensitiveDisablesImplicitSkip(t *testing.T) {
	refs := map[string]*Parser{"pair": New("pair")}
	defer Cleanup([]*Parser{refs["pair"]})

	start, err := Grammar(GWhitespaceSensitive, `pair: "a" "b";`, refs)
	require.NoError(t, err)

	_, err = Parse("t", []byte("a b"), start)
	assert.NotNil(t, err, "whitespace sensitivity disables the default skip-between-factors")

	_, err = Parse("t", []byte("ab"), start)
	assert.Nil(t, err)
}

func TestGrammarPredictiveFlagWrapsAlternation(t *testing.T) {
	refs := map[string]*Parser{
		"expr": New("expr"),
	}
	defer Cleanup([]*Parser{refs["expr"]})

	src := `expr: "ab" "x" | "ab" "y";`
	start, err := Grammar(GPredictive, src, refs)
	require.NoError(t, err)

	_, err = Parse("t", []byte("aby"), start)
	assert.NotNil(t, err, "Predict should commit to the first alternative's consumption and not retry")
}

func TestGrammarLabelOverridesErrorExpectation(t *testing.T) {
	refs := map[string]*Parser{"ident": New("ident")}
	defer Cleanup([]*Parser{refs["ident"]})

	start, err := Grammar(GDefault, `ident "identifier": /[a-z]+/;`, refs)
	require.NoError(t, err)

	_, perr := Parse("t", []byte("123"), start)
	require.NotNil(t, perr)
	assert.Equal(t, []string{"identifier"}, perr.(*Error).Expected)
}

func TestGrammarOptionalFactor(t *testing.T) {
	refs := map[string]*Parser{"greeting": New("greeting")}
	defer Cleanup([]*Parser{refs["greeting"]})

	start, err := Grammar(GDefault, `greeting: "hi" "!"?;`, refs)
	require.NoError(t, err)

	_, err = Parse("t", []byte("hi"), start)
	assert.Nil(t, err)
	_, err = Parse("t", []byte("hi !"), start)
	assert.Nil(t, err)
}

func TestGrammarUndeclaredRuleNameIsUsageError(t *testing.T) {
	refs := map[string]*Parser{"a": New("a")}
	defer Cleanup([]*Parser{refs["a"]})

	defer func() {
		r := recover()
		_, ok := r.(*UsageError)
		assert.True(t, ok)
	}()
	Grammar(GDefault, `a: "x"; b: "y";`, refs)
}

func TestGrammarUndeclaredRuleRefIsUsageError(t *testing.T) {
	refs := map[string]*Parser{"a": New("a")}
	defer Cleanup([]*Parser{refs["a"]})

	defer func() {
		r := recover()
		_, ok := r.(*UsageError)
		assert.True(t, ok)
	}()
	Grammar(GDefault, `a: <nope>;`, refs)
}

func TestLanguageDiscardsReturnValue(t *testing.T) {
	refs := map[string]*Parser{"a": New("a")}
	defer Cleanup([]*Parser{refs["a"]})

	err := Language(GDefault, `a: "x";`, refs)
	require.NoError(t, err)

	_, perr := Parse("t", []byte("x"), refs["a"])
	assert.Nil(t, perr)
}

func TestGrammarSyntaxErrorIsGrammarError(t *testing.T) {
	refs := map[string]*Parser{"a": New("a")}
	defer Cleanup([]*Parser{refs["a"]})

	_, err := Grammar(GDefault, `a: "x" ;;`, refs)
	require.Error(t, err)
}

func TestGrammarArithmeticExpressionProducesNestedAST(t *testing.T) {
	refs := map[string]*Parser{
		"expr":   New("expr"),
		"term":   New("term"),
		"factor": New("factor"),
	}
	defer Cleanup([]*Parser{refs["expr"], refs["term"], refs["factor"]})

	src := `
		expr   : <term> ("+" <term>)* ;
		term   : <factor> ("*" <factor>)* ;
		factor : /[0-9]+/ | "(" <expr> ")" ;
	`
	start, err := Grammar(GDefault, src, refs)
	require.NoError(t, err)

	v, err := Parse("t", []byte("2+3*4"), start)
	require.Nil(t, err)
	n := v.(*Node)
	assert.True(t, n.HasTag("expr"))
	assert.NotEmpty(t, n.Text())
}
