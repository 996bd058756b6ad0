package output

import (
	"sort"

	"github.com/parquet-go/parquet-go"
	"github.com/pkg/errors"
)

const defaultSchemaName = "pos_tagged"

// parquetTextWriter copies passthrough values as they were read and adds
// the sentence annotations as a repeated group.
type parquetTextWriter struct {
	file   *atomicFile
	writer *parquet.Writer
	// remap translates input leaf indexes to output leaf indexes.
	remap       map[int]int
	sentenceCol int
	posTagsCol  int
	count       int
}

func newParquetTextWriter(path string, layout Layout) (*parquetTextWriter, error) {
	schema, err := textSchema(layout)
	if err != nil {
		return nil, err
	}

	w := &parquetTextWriter{remap: make(map[int]int, len(layout.Columns))}
	for _, col := range layout.Columns {
		leaf, ok := schema.Lookup(col.Path...)
		if !ok {
			return nil, errors.Errorf("column %s missing from output schema", col.Name)
		}
		w.remap[col.Index] = leaf.ColumnIndex
	}
	sentence, _ := schema.Lookup(SentencesColumn, sentenceHeader)
	posTags, _ := schema.Lookup(SentencesColumn, posTagsHeader)
	w.sentenceCol, w.posTagsCol = sentence.ColumnIndex, posTags.ColumnIndex

	file, err := createAtomic(path)
	if err != nil {
		return nil, err
	}
	w.file = file
	w.writer = parquet.NewWriter(file, schema)
	return w, nil
}

// textSchema keeps every top level input field holding a passthrough column.
func textSchema(layout Layout) (*parquet.Schema, error) {
	if layout.Schema == nil {
		return nil, errors.New("parquet output needs the input schema")
	}

	keep := make(map[string]bool, len(layout.Columns))
	for _, col := range layout.Columns {
		keep[col.Path[0]] = true
	}

	group := parquet.Group{}
	for _, field := range layout.Schema.Fields() {
		if keep[field.Name()] && field.Name() != SentencesColumn {
			group[field.Name()] = field
		}
	}
	group[SentencesColumn] = parquet.Repeated(parquet.Group{
		sentenceHeader: parquet.String(),
		posTagsHeader:  parquet.String(),
	})

	name := layout.Schema.Name()
	if name == "" {
		name = defaultSchemaName
	}
	return parquet.NewSchema(name, group), nil
}

func (w *parquetTextWriter) Write(rec TextRecord) error {
	row := make(parquet.Row, 0, len(rec.Row.Raw)+2*len(rec.Sentences)+2)
	for _, v := range rec.Row.Raw {
		col, ok := w.remap[v.Column()]
		if !ok {
			continue
		}
		row = append(row, v.Level(v.RepetitionLevel(), v.DefinitionLevel(), col))
	}

	if len(rec.Sentences) == 0 {
		row = append(row,
			parquet.NullValue().Level(0, 0, w.sentenceCol),
			parquet.NullValue().Level(0, 0, w.posTagsCol))
	}
	for i, s := range rec.Sentences {
		rep := 0
		if i > 0 {
			rep = 1
		}
		row = append(row,
			parquet.ValueOf(s.Sentence).Level(rep, 1, w.sentenceCol),
			parquet.ValueOf(s.PosTags).Level(rep, 1, w.posTagsCol))
	}
	// values must be grouped by column, keeping repetition order
	sort.SliceStable(row, func(i, j int) bool { return row[i].Column() < row[j].Column() })

	if _, err := w.writer.WriteRows([]parquet.Row{row}); err != nil {
		return errors.Wrap(err, "write parquet row")
	}
	w.count++
	return nil
}

func (w *parquetTextWriter) Count() int {
	return w.count
}

func (w *parquetTextWriter) Close() error {
	if err := w.writer.Close(); err != nil {
		w.file.abort()
		return errors.Wrap(err, "finish parquet output")
	}
	return w.file.commit()
}

func (w *parquetTextWriter) Abort() error {
	return w.file.abort()
}
