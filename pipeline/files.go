package pipeline

import (
	"context"
	"io"

	"github.com/pkg/errors"

	"text2phenotype.com/postag/columnar"
	"text2phenotype.com/postag/output"
	"text2phenotype.com/postag/types"
)

const (
	CodeColumn = "content"
	TextColumn = "text"
)

var ErrEmptyFile = errors.New("file has no rows")

// Progress receives per file progress.
type Progress interface {
	Start(total int64)
	Add(n int)
	Done()
}

type nopProgress struct{}

func (nopProgress) Start(int64) {}
func (nopProgress) Add(int)     {}
func (nopProgress) Done()       {}

// FileResult describes a written output file.
type FileResult struct {
	Input  string
	Output string
	// Rows is the number of input rows read.
	Rows int64
	// Records is the number of output records written.
	Records int
}

// TagCodeFile writes the tagged words of every non-null content value
// of input to output as JSON lines.
func TagCodeFile(ctx context.Context, ann Annotator, input, outputPath string, batchSize int, progress Progress) (result FileResult, err error) {
	reader, err := openInput(input, CodeColumn, batchSize)
	if err != nil {
		return result, err
	}
	defer reader.Close()

	writer, err := output.NewCodeWriter(outputPath)
	if err != nil {
		return result, err
	}
	// removes the partial output on errors and panics; no-op after Close
	defer writer.Abort()

	result = FileResult{Input: input, Output: outputPath}
	err = eachBatch(ctx, reader, progress, func(row columnar.Row) error {
		if row.Text == nil {
			return nil
		}
		positions, err := ExtractWordPositions(*row.Text)
		if err != nil {
			return err
		}
		if err := TagWords(ctx, ann, positions); err != nil {
			return err
		}
		return writer.Write(types.CodeRecord{OriginalCode: *row.Text, TaggedWords: positions})
	})
	if err != nil {
		return result, err
	}

	result.Rows = reader.NumRows()
	result.Records = writer.Count()
	return result, writer.Close()
}

// TagTextFile writes every row of input with its sentence annotations to
// output in the given format.
func TagTextFile(ctx context.Context, ann Annotator, input, outputPath string, format output.Format, batchSize int, progress Progress) (result FileResult, err error) {
	reader, err := openInput(input, TextColumn, batchSize)
	if err != nil {
		return result, err
	}
	defer reader.Close()

	writer, err := output.NewTextWriter(outputPath, format, LayoutOf(reader))
	if err != nil {
		return result, err
	}
	defer writer.Abort()

	result = FileResult{Input: input, Output: outputPath}
	err = eachBatch(ctx, reader, progress, func(row columnar.Row) error {
		sentences := make([]types.SentenceAnnotation, 0)
		if row.Text != nil {
			var err error
			if sentences, err = TagSentences(ctx, ann, *row.Text); err != nil {
				return err
			}
		}
		return writer.Write(output.TextRecord{Row: row, Sentences: sentences})
	})
	if err != nil {
		return result, err
	}

	result.Rows = reader.NumRows()
	result.Records = writer.Count()
	return result, writer.Close()
}

// LayoutOf copies every input column except the text column and any
// column the annotations replace.
func LayoutOf(reader *columnar.Reader) output.Layout {
	layout := output.Layout{Schema: reader.Schema()}
	for _, col := range reader.Columns() {
		if col.Path[0] == TextColumn || col.Path[0] == output.SentencesColumn {
			continue
		}
		layout.Columns = append(layout.Columns, col)
	}
	return layout
}

func openInput(input, column string, batchSize int) (*columnar.Reader, error) {
	reader, err := columnar.Open(input, column, batchSize)
	if err != nil {
		return nil, err
	}
	if reader.NumRows() == 0 {
		reader.Close()
		return nil, ErrEmptyFile
	}
	return reader, nil
}

func eachBatch(ctx context.Context, reader *columnar.Reader, progress Progress, fn func(columnar.Row) error) error {
	if progress == nil {
		progress = nopProgress{}
	}
	progress.Start(reader.NumRows())
	defer progress.Done()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		batch, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		for _, row := range batch {
			if err := fn(row); err != nil {
				return err
			}
		}
		progress.Add(len(batch))
	}
}
