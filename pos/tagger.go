package pos

import "text2phenotype.com/postag/types"

const DefaultBeamSize = 3

// Tagger returns one tag per token, or an empty slice when no valid
// sequence was found.
type Tagger func(tokens []types.Token) []string

func NewTagger(model Model, beamSize int, dict TagDictionary) Tagger {
	search := NewBeamSearch(model, beamSize)
	ctx := NewContextGenerator(dict.Words())
	validator := NewSequenceValidator(dict)

	return func(tokens []types.Token) []string {
		if len(tokens) == 0 {
			return []string{}
		}
		res, isOk := search(tokens, ctx, validator)
		if !isOk {
			return []string{}
		}
		return res.Outcomes
	}
}
