package types

import (
	"strings"
	"unicode"
)

// PosSpace is the coarse tag of whitespace tokens.
const PosSpace = "SPACE"

type Token struct {
	Span
	// Tag is the fine-grained tag predicted by the model.
	Tag string
	// Pos is the coarse, universal part of speech.
	Pos      string
	IsPunct  bool
	IsWord   bool
	IsNumber bool
	IsSymbol bool
	IsSpace  bool
	Shape    string
}

func (token Token) IsWhitespace() bool {
	return token.IsSpace || token.Pos == PosSpace
}

func (token *Token) GetShapedText() string {
	var sb strings.Builder
	runes := []rune(token.Text)
	if len(runes) > len(token.Shape) {
		return token.Text
	}
	for i, ch := range runes {
		if token.Shape[i] == 'X' {
			sb.WriteRune(unicode.ToUpper(ch))
		} else {
			sb.WriteRune(ch)
		}
	}
	return sb.String()
}

func GetShape(txt string) string {
	var sb strings.Builder
	for _, r := range txt {
		switch {
		case unicode.IsDigit(r):
			sb.WriteRune('d')
		case unicode.IsUpper(r):
			sb.WriteRune('X')
		default:
			sb.WriteRune('x')
		}
	}

	return sb.String()
}

// Tags returns the coarse tags of tokens in order.
func Tags(tokens []Token) []string {
	tags := make([]string, len(tokens))
	for i, token := range tokens {
		tags[i] = token.Pos
	}
	return tags
}
