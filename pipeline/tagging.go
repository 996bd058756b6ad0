package pipeline

import (
	"context"
	"strings"

	"text2phenotype.com/postag/logger"
	"text2phenotype.com/postag/types"
)

var pipelineLogger = logger.NewLogger("Pipeline")

// Annotator tags text with parts of speech and splits it into sentences.
type Annotator interface {
	Tag(ctx context.Context, text string) ([]types.Token, error)
	Segment(ctx context.Context, text string) ([]types.Span, error)
}

// TagWords tags the words as one space separated text and copies the tag
// of the i-th token onto the i-th position. Words paired with a whitespace
// token are left untagged.
func TagWords(ctx context.Context, ann Annotator, positions []types.WordPosition) error {
	if len(positions) == 0 {
		return nil
	}

	words := make([]string, len(positions))
	for i, p := range positions {
		words[i] = p.Word
	}
	tokens, err := ann.Tag(ctx, strings.Join(words, " "))
	if err != nil {
		return err
	}
	if len(tokens) != len(positions) {
		pipelineLogger.Debug().
			Int("words", len(positions)).
			Int("tokens", len(tokens)).
			Msg("Token count differs from word count")
	}

	for i := range positions {
		if i >= len(tokens) {
			break
		}
		if !tokens[i].IsWhitespace() {
			positions[i].Pos = tokens[i].Pos
		}
	}
	return nil
}

// TagSentences annotates every sentence of text with its space separated
// coarse tags.
func TagSentences(ctx context.Context, ann Annotator, text string) ([]types.SentenceAnnotation, error) {
	annotations := make([]types.SentenceAnnotation, 0)
	if strings.TrimSpace(text) == "" {
		return annotations, nil
	}

	spans, err := ann.Segment(ctx, text)
	if err != nil {
		return nil, err
	}
	for _, span := range spans {
		tokens, err := ann.Tag(ctx, span.Text)
		if err != nil {
			return nil, err
		}
		annotations = append(annotations, types.SentenceAnnotation{
			Sentence: span.Text,
			PosTags:  strings.Join(types.Tags(tokens), " "),
		})
	}
	return annotations, nil
}
