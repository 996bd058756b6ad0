package annotate

import (
	"context"

	"text2phenotype.com/postag/pos"
	"text2phenotype.com/postag/tokenizer"
	"text2phenotype.com/postag/types"
)

// spaceTag is the fine tag given to whitespace tokens.
const spaceTag = "_SP"

// Maxent tags tokens with a maximum entropy model and splits sentences
// with a punkt segmenter. It holds no per call state.
type Maxent struct {
	tagger    pos.Tagger
	tagMap    TagMap
	segmenter *Segmenter
}

func NewMaxent(tagger pos.Tagger, tagMap TagMap, segmenter *Segmenter) *Maxent {
	return &Maxent{tagger: tagger, tagMap: tagMap, segmenter: segmenter}
}

func (m *Maxent) Tag(ctx context.Context, text string) ([]types.Token, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tokens := tokenizer.Tokenize(text)
	words := make([]types.Token, 0, len(tokens))
	for _, token := range tokens {
		if !token.IsSpace {
			words = append(words, token)
		}
	}

	var tags []string
	if len(words) > 0 {
		tags = m.tagger(words)
	}

	w := 0
	for i := range tokens {
		if tokens[i].IsSpace {
			tokens[i].Tag = spaceTag
			tokens[i].Pos = types.PosSpace
			continue
		}
		if w < len(tags) {
			tokens[i].Tag = tags[w]
		}
		tokens[i].Pos = m.tagMap.Coarse(tokens[i], tokens[i].Tag)
		w++
	}
	return tokens, nil
}

func (m *Maxent) Segment(ctx context.Context, text string) ([]types.Span, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return m.segmenter.Segment(text), nil
}
