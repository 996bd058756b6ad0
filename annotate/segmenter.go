package annotate

import (
	"os"
	"strings"
	"unicode/utf8"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
	"github.com/pkg/errors"

	"text2phenotype.com/postag/types"
)

// Segmenter splits text into sentences with a punkt model.
type Segmenter struct {
	tokenizer *sentences.DefaultSentenceTokenizer
}

// NewSegmenter loads punkt training data from trainingPath, or the
// built-in English model when trainingPath is empty.
func NewSegmenter(trainingPath string) (*Segmenter, error) {
	if trainingPath == "" {
		tokenizer, err := english.NewSentenceTokenizer(nil)
		if err != nil {
			return nil, errors.Wrap(err, "load english sentence model")
		}
		return &Segmenter{tokenizer: tokenizer}, nil
	}

	data, err := os.ReadFile(trainingPath)
	if err != nil {
		return nil, errors.Wrap(err, "read sentence model")
	}
	storage, err := sentences.LoadTraining(data)
	if err != nil {
		return nil, errors.Wrapf(err, "decode sentence model %s", trainingPath)
	}
	return &Segmenter{tokenizer: sentences.NewSentenceTokenizer(storage)}, nil
}

// Segment returns the sentences of text without surrounding whitespace.
// Begin and End are rune offsets into text.
func (s *Segmenter) Segment(text string) []types.Span {
	spans := make([]types.Span, 0)

	byteCursor, runeCursor := 0, 0
	for _, sent := range s.tokenizer.Tokenize(text) {
		sentText := strings.TrimSpace(sent.Text)
		if sentText == "" {
			continue
		}

		begin := runeCursor
		if idx := strings.Index(text[byteCursor:], sentText); idx >= 0 {
			begin += utf8.RuneCountInString(text[byteCursor : byteCursor+idx])
			byteCursor += idx + len(sentText)
		}
		end := begin + utf8.RuneCountInString(sentText)
		runeCursor = end

		spans = append(spans, types.Span{Begin: begin, End: end, Text: sentText})
	}
	return spans
}
