package parsec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	c := NewConfig()
	assert.False(t, c.Bool("grammar.predictive"))
	assert.False(t, c.Bool("grammar.whitespace_sensitive"))
	assert.Equal(t, 64, c.Int("input.buffer.min_window"))
}

func TestConfigSettersOverrideDefaults(t *testing.T) {
	c := NewConfig()
	c.SetBool("grammar.predictive", true)
	c.SetInt("input.buffer.min_window", 256)
	c.SetString("grammar.source", "arith.peg")

	assert.True(t, c.Bool("grammar.predictive"))
	assert.Equal(t, 256, c.Int("input.buffer.min_window"))
	assert.Equal(t, "arith.peg", c.String("grammar.source"))
}

func TestConfigMissingKeyReturnsZeroValue(t *testing.T) {
	c := NewConfig()
	assert.False(t, c.Bool("does.not.exist"))
	assert.Equal(t, 0, c.Int("does.not.exist"))
	assert.Equal(t, "", c.String("does.not.exist"))
}

func TestConfigWrongTypeReturnsZeroValue(t *testing.T) {
	c := NewConfig()
	c.SetString("grammar.predictive", "yes")
	assert.False(t, c.Bool("grammar.predictive"))
}

func TestGFlagsFromConfigTranslatesBothKeys(t *testing.T) {
	c := NewConfig()
	assert.Equal(t, GDefault, GFlagsFromConfig(c))

	c.SetBool("grammar.predictive", true)
	c.SetBool("grammar.whitespace_sensitive", true)
	assert.Equal(t, GPredictive|GWhitespaceSensitive, GFlagsFromConfig(c))
}

func TestGrammarWithConfigHonorsPredictiveKey(t *testing.T) {
	c := NewConfig()
	c.SetBool("grammar.predictive", true)
	refs := map[string]*Parser{"expr": New("expr")}
	defer Cleanup([]*Parser{refs["expr"]})

	start, err := GrammarWithConfig(c, `expr: "ab" "x" | "ab" "y";`, refs)
	require.NoError(t, err)

	_, perr := Parse("t", []byte("aby"), start)
	assert.NotNil(t, perr, "predictive key should commit to the first alternative after it consumes \"ab\"")
}
