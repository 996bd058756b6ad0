package pipeline

import (
	"strings"

	"github.com/dlclark/regexp2"
	"github.com/pkg/errors"

	"text2phenotype.com/postag/types"
)

// wordClass is a word character: a letter, any number or '_'. Marks,
// joiners and other connector punctuation are not word characters.
const wordClass = `[\p{L}\p{N}_]`

// wordPattern matches maximal word character runs that are not purely
// ASCII digits.
var wordPattern = regexp2.MustCompile(
	`(?<!`+wordClass+`)(?![0-9]+(?!`+wordClass+`))`+wordClass+`+(?!`+wordClass+`)`,
	regexp2.None,
)

// ExtractWordPositions returns the words of code with their 1-indexed line
// and the rune offsets of the word within that line.
func ExtractWordPositions(code string) ([]types.WordPosition, error) {
	positions := make([]types.WordPosition, 0)
	for i, line := range strings.Split(code, "\n") {
		m, err := wordPattern.FindStringMatch(line)
		for m != nil && err == nil {
			positions = append(positions, types.WordPosition{
				Word:  m.String(),
				Line:  i + 1,
				Start: m.Index,
				End:   m.Index + m.Length,
			})
			m, err = wordPattern.FindNextMatch(m)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "match words on line %d", i+1)
		}
	}
	return positions, nil
}
