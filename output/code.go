package output

import (
	"bufio"
	"encoding/json"

	"github.com/pkg/errors"

	"text2phenotype.com/postag/types"
)

// CodeWriter writes one JSON object per line.
type CodeWriter struct {
	file  *atomicFile
	buf   *bufio.Writer
	enc   *json.Encoder
	count int
}

func NewCodeWriter(path string) (*CodeWriter, error) {
	file, err := createAtomic(path)
	if err != nil {
		return nil, err
	}
	buf := bufio.NewWriter(file)
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	return &CodeWriter{file: file, buf: buf, enc: enc}, nil
}

func (w *CodeWriter) Write(rec types.CodeRecord) error {
	if rec.TaggedWords == nil {
		rec.TaggedWords = []types.WordPosition{}
	}
	if err := w.enc.Encode(rec); err != nil {
		return errors.Wrap(err, "encode code record")
	}
	w.count++
	return nil
}

// Count is the number of records written so far.
func (w *CodeWriter) Count() int {
	return w.count
}

func (w *CodeWriter) Close() error {
	if err := w.buf.Flush(); err != nil {
		w.file.abort()
		return errors.Wrap(err, "flush output")
	}
	return w.file.commit()
}

func (w *CodeWriter) Abort() error {
	return w.file.abort()
}
