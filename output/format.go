package output

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

type Format string

const (
	FormatJSON    Format = "json"
	FormatCSV     Format = "csv"
	FormatParquet Format = "parquet"

	// SentencesColumn holds the sentence annotations of a text record.
	SentencesColumn = "sentences_with_pos"

	filePrefix = "pos_tagged_"
)

var ErrUnsupportedFormat = errors.New("unsupported output format")

var Formats = []Format{FormatCSV, FormatJSON, FormatParquet}

func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", errors.Wrapf(ErrUnsupportedFormat, "%q, expected one of csv, json, parquet", s)
}

func (f Format) Extension() string {
	return string(f)
}

// FileName names the output of input, e.g. data.parquet -> pos_tagged_data.csv.
func FileName(input string, f Format) string {
	base := filepath.Base(input)
	return filePrefix + strings.TrimSuffix(base, filepath.Ext(base)) + "." + f.Extension()
}
