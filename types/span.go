package types

// Span is a piece of a text. Begin and End are rune offsets, End exclusive.
type Span struct {
	Begin int
	End   int
	Text  string
}
