package tokenizer

import (
	"unicode"

	"text2phenotype.com/postag/types"
	"text2phenotype.com/postag/utils"
)

const (
	space  = ' '
	period = '.'
)

// Tokenize splits text into word, number, punctuation and whitespace tokens.
// A single space between two tokens is not a token; any other whitespace run
// is. Runs of word characters are never split.
func Tokenize(text string) []types.Token {
	runes := []rune(text)
	runesLen := len(runes)

	tokens := make([]types.Token, 0, runesLen/4+1)

	currentPosition := 0
	for currentPosition < runesLen {
		ch := runes[currentPosition]

		switch {
		case unicode.IsSpace(ch):
			end := findEndOfRun(runes, currentPosition, unicode.IsSpace)
			begin := currentPosition
			if begin > 0 && ch == space {
				// the first space belongs to the previous token
				begin++
			}
			if begin < end {
				token := createToken(runes, begin, end)
				token.IsSpace = true
				token.Pos = types.PosSpace
				tokens = append(tokens, token)
			}
			currentPosition = end

		case utils.IsWordRune(ch):
			end := findEndOfRun(runes, currentPosition, utils.IsWordRune)
			token := createToken(runes, currentPosition, end)
			token.IsNumber = utils.IsDigits(runes[currentPosition:end])
			token.IsWord = !token.IsNumber
			tokens = append(tokens, token)
			currentPosition = end

		case ch == period:
			end := findEndOfRun(runes, currentPosition, func(r rune) bool { return r == period })
			token := createToken(runes, currentPosition, end)
			token.IsPunct = true
			tokens = append(tokens, token)
			currentPosition = end

		default:
			token := createToken(runes, currentPosition, currentPosition+1)
			token.IsPunct = unicode.IsPunct(ch)
			token.IsSymbol = !token.IsPunct
			tokens = append(tokens, token)
			currentPosition++
		}
	}

	return tokens
}

func findEndOfRun(runes []rune, fromIndex int, inRun func(rune) bool) int {
	for i := fromIndex; i < len(runes); i++ {
		if !inRun(runes[i]) {
			return i
		}
	}
	return len(runes)
}

func createToken(runes []rune, begin int, end int) types.Token {
	txt := string(runes[begin:end])
	return types.Token{
		Span: types.Span{
			Begin: begin,
			End:   end,
			Text:  txt,
		},
		Shape: types.GetShape(txt),
	}
}
