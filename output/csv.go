package output

import (
	"bufio"
	"encoding/csv"
	"strconv"

	"github.com/pkg/errors"
)

const (
	sentenceHeader = "sentence"
	posTagsHeader  = "pos_tags"
)

// csvTextWriter writes one row per sentence. Records without sentences
// produce no rows.
type csvTextWriter struct {
	file   *atomicFile
	buf    *bufio.Writer
	csv    *csv.Writer
	layout Layout
	count  int
}

func newCSVTextWriter(path string, layout Layout) (*csvTextWriter, error) {
	file, err := createAtomic(path)
	if err != nil {
		return nil, err
	}
	buf := bufio.NewWriter(file)
	w := &csvTextWriter{file: file, buf: buf, csv: csv.NewWriter(buf), layout: layout}

	header := make([]string, 0, len(layout.Columns)+2)
	for _, col := range layout.Columns {
		header = append(header, col.Name)
	}
	header = append(header, sentenceHeader, posTagsHeader)
	if err := w.csv.Write(header); err != nil {
		file.abort()
		return nil, errors.Wrap(err, "write csv header")
	}
	return w, nil
}

func (w *csvTextWriter) Write(rec TextRecord) error {
	if len(rec.Sentences) == 0 {
		return nil
	}

	prefix := make([]string, len(w.layout.Columns))
	for i, col := range w.layout.Columns {
		cell, err := csvValue(rec.Row.Values[col.Index])
		if err != nil {
			return errors.Wrapf(err, "format column %s", col.Name)
		}
		prefix[i] = cell
	}

	for _, sentence := range rec.Sentences {
		record := make([]string, 0, len(prefix)+2)
		record = append(record, prefix...)
		record = append(record, sentence.Sentence, sentence.PosTags)
		if err := w.csv.Write(record); err != nil {
			return errors.Wrap(err, "write csv row")
		}
		w.count++
	}
	return nil
}

func csvValue(v interface{}) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		return x, nil
	case bool:
		return strconv.FormatBool(x), nil
	case int32:
		return strconv.FormatInt(int64(x), 10), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32), nil
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64), nil
	}
	buf, err := marshalJSON(jsonValue(v))
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

func (w *csvTextWriter) Count() int {
	return w.count
}

func (w *csvTextWriter) Close() error {
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		w.file.abort()
		return errors.Wrap(err, "flush csv")
	}
	if err := w.buf.Flush(); err != nil {
		w.file.abort()
		return errors.Wrap(err, "flush output")
	}
	return w.file.commit()
}

func (w *csvTextWriter) Abort() error {
	return w.file.abort()
}
