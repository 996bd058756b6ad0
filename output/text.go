package output

import (
	"bufio"
	"bytes"
	"encoding/json"
	"math"

	"github.com/parquet-go/parquet-go"
	"github.com/pkg/errors"

	"text2phenotype.com/postag/columnar"
	"text2phenotype.com/postag/types"
)

// TextRecord is an input row together with its sentence annotations.
type TextRecord struct {
	Row       columnar.Row
	Sentences []types.SentenceAnnotation
}

// Layout describes the columns copied from the input into text records.
type Layout struct {
	// Columns are the passthrough columns in output order.
	Columns []columnar.Column
	// Schema is the input schema; only the parquet format needs it.
	Schema *parquet.Schema
}

type TextWriter interface {
	Write(rec TextRecord) error
	// Count is the number of output rows written so far.
	Count() int
	Close() error
	Abort() error
}

func NewTextWriter(path string, format Format, layout Layout) (TextWriter, error) {
	switch format {
	case FormatJSON:
		return newJSONTextWriter(path, layout)
	case FormatCSV:
		return newCSVTextWriter(path, layout)
	case FormatParquet:
		return newParquetTextWriter(path, layout)
	}
	return nil, errors.Wrapf(ErrUnsupportedFormat, "%q", format)
}

func sentencesOf(rec TextRecord) []types.SentenceAnnotation {
	if rec.Sentences == nil {
		return []types.SentenceAnnotation{}
	}
	return rec.Sentences
}

type jsonTextWriter struct {
	file   *atomicFile
	buf    *bufio.Writer
	layout Layout
	line   bytes.Buffer
	count  int
}

func newJSONTextWriter(path string, layout Layout) (*jsonTextWriter, error) {
	file, err := createAtomic(path)
	if err != nil {
		return nil, err
	}
	return &jsonTextWriter{file: file, buf: bufio.NewWriter(file), layout: layout}, nil
}

// Write emits the record as one object with keys in column order.
func (w *jsonTextWriter) Write(rec TextRecord) error {
	w.line.Reset()
	w.line.WriteByte('{')
	for _, col := range w.layout.Columns {
		if err := w.writeField(col.Name, jsonValue(rec.Row.Values[col.Index])); err != nil {
			return err
		}
		w.line.WriteByte(',')
	}
	if err := w.writeField(SentencesColumn, sentencesOf(rec)); err != nil {
		return err
	}
	w.line.WriteString("}\n")

	if _, err := w.buf.Write(w.line.Bytes()); err != nil {
		return errors.Wrap(err, "write json record")
	}
	w.count++
	return nil
}

func (w *jsonTextWriter) writeField(name string, value interface{}) error {
	key, err := marshalJSON(name)
	if err != nil {
		return err
	}
	val, err := marshalJSON(value)
	if err != nil {
		return errors.Wrapf(err, "encode column %s", name)
	}
	w.line.Write(key)
	w.line.WriteByte(':')
	w.line.Write(val)
	return nil
}

func (w *jsonTextWriter) Count() int {
	return w.count
}

func (w *jsonTextWriter) Close() error {
	if err := w.buf.Flush(); err != nil {
		w.file.abort()
		return errors.Wrap(err, "flush output")
	}
	return w.file.commit()
}

func (w *jsonTextWriter) Abort() error {
	return w.file.abort()
}

func marshalJSON(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// jsonValue replaces floats JSON cannot represent with null.
func jsonValue(v interface{}) interface{} {
	switch x := v.(type) {
	case float32:
		if math.IsNaN(float64(x)) || math.IsInf(float64(x), 0) {
			return nil
		}
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil
		}
	case []interface{}:
		out := make([]interface{}, len(x))
		for i, e := range x {
			out[i] = jsonValue(e)
		}
		return out
	}
	return v
}
