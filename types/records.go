package types

// WordPosition is a word of a source file and where it was found.
// Line is 1-indexed, Start and End are rune offsets within the line.
type WordPosition struct {
	Word  string `json:"word"`
	Line  int    `json:"line"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Pos   string `json:"pos,omitempty"`
}

type SentenceAnnotation struct {
	Sentence string `json:"sentence"`
	PosTags  string `json:"pos_tags"`
}

// CodeRecord is the output of the word position pipeline for one row.
type CodeRecord struct {
	OriginalCode string         `json:"original_code"`
	TaggedWords  []WordPosition `json:"tagged_words"`
}
