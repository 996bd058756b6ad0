package pos

import (
	"strings"

	"text2phenotype.com/postag/types"
	"text2phenotype.com/postag/utils"
)

type SequenceValidator interface {
	ValidSequence(i int, inputSequence []types.Token, outcome string) bool
}

// TagDictionary restricts the tags a known word may receive.
// Keys are lower cased words.
type TagDictionary map[string]map[string]bool

// Words returns the set of words present in the dictionary.
func (d TagDictionary) Words() map[string]bool {
	words := make(map[string]bool, len(d))
	for word := range d {
		words[word] = true
	}
	return words
}

// LoadTagDictionary reads lines of the form "word|TAG TAG ...".
func LoadTagDictionary(path string) (TagDictionary, error) {
	rows, err := utils.ReadBSV(path)
	if err != nil {
		return nil, err
	}
	dict := make(TagDictionary, len(rows))
	for _, columns := range rows {
		if len(columns) < 2 {
			continue
		}
		word := strings.ToLower(strings.TrimSpace(columns[0]))
		tags, ok := dict[word]
		if !ok {
			tags = make(map[string]bool)
			dict[word] = tags
		}
		for _, tag := range strings.Fields(columns[1]) {
			tags[tag] = true
		}
	}
	return dict, nil
}

type defaultSequenceValidator struct {
	tagDictionary TagDictionary
}

func (g defaultSequenceValidator) ValidSequence(i int, inputSequence []types.Token, outcome string) bool {
	if g.tagDictionary == nil {
		return true
	}

	tags, res := g.tagDictionary[strings.ToLower(inputSequence[i].Text)]
	if !res {
		return true
	}
	return tags[outcome]
}

func NewSequenceValidator(dict TagDictionary) SequenceValidator {
	return defaultSequenceValidator{tagDictionary: dict}
}
