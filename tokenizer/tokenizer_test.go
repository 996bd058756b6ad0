package tokenizer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"text2phenotype.com/postag/types"
)

func texts(tokens []types.Token) []string {
	res := make([]string, len(tokens))
	for i, token := range tokens {
		res[i] = token.Text
	}
	return res
}

func TestTokenize(t *testing.T) {
	cases := []struct {
		name string
		text string
		want []string
	}{
		{"empty", "", []string{}},
		{"words", "foo bar", []string{"foo", "bar"}},
		{"punctuation", "Hello, world!", []string{"Hello", ",", "world", "!"}},
		{"identifier", "get_value(x1)", []string{"get_value", "(", "x1", ")"}},
		{"ellipsis", "wait... what", []string{"wait", "...", "what"}},
		{"newline", "a\nb", []string{"a", "\n", "b"}},
		{"double space", "a  b", []string{"a", " ", "b"}},
		{"leading space", " a", []string{" ", "a"}},
		{"trailing space", "a ", []string{"a"}},
		{"unicode", "naïve café", []string{"naïve", "café"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, texts(Tokenize(tc.text))); diff != "" {
				t.Errorf("Tokenize(%q) mismatch (-want +got):\n%s", tc.text, diff)
			}
		})
	}
}

func TestTokenizeOffsets(t *testing.T) {
	text := "émigré 42,\n\tok"
	runes := []rune(text)
	for _, token := range Tokenize(text) {
		assert.Equal(t, token.Text, string(runes[token.Begin:token.End]))
	}
}

func TestTokenizeFlags(t *testing.T) {
	tokens := Tokenize("Run 42 +\n")
	assert.True(t, tokens[0].IsWord)
	assert.Equal(t, "Xxx", tokens[0].Shape)
	assert.True(t, tokens[1].IsNumber)
	assert.False(t, tokens[1].IsWord)
	assert.True(t, tokens[2].IsSymbol)
	assert.True(t, tokens[3].IsSpace)
	assert.Equal(t, types.PosSpace, tokens[3].Pos)
}

func TestTokenizeKeepsSpaceJoinedWords(t *testing.T) {
	words := []string{"foo", "bar_baz", "x1", "Ünïcode"}
	tokens := Tokenize("foo bar_baz x1 Ünïcode")
	assert.Equal(t, words, texts(tokens))
}
