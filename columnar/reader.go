package columnar

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/parquet-go/parquet-go"
	"github.com/pkg/errors"
)

// Column is a leaf column of the input schema.
type Column struct {
	// Name is the dotted path of the column.
	Name string
	Path []string
	// Index is the leaf column index in the file schema.
	Index    int
	Repeated bool
	Node     parquet.Node
}

// Row is one record of the input file.
type Row struct {
	// Text is nil when the text column is null.
	Text *string
	// Values holds the decoded value of every column, aligned with Reader.Columns.
	Values []interface{}
	// Raw keeps the original parquet values for lossless copies.
	Raw parquet.Row
}

type MissingColumnError struct {
	Path      string
	Column    string
	Available []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("%s: column %q not found, available columns: %s",
		e.Path, e.Column, strings.Join(e.Available, ", "))
}

// Reader streams rows of a parquet file in batches.
type Reader struct {
	path      string
	file      *os.File
	pf        *parquet.File
	columns   []Column
	text      Column
	batchSize int

	rowGroups []parquet.RowGroup
	group     int
	rows      parquet.Rows
	buf       []parquet.Row
}

// Open opens path and checks that textColumn is a top level string column.
func Open(path string, textColumn string, batchSize int) (*Reader, error) {
	if batchSize <= 0 {
		return nil, errors.Errorf("invalid batch size %d", batchSize)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open parquet file")
	}
	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errors.Wrap(err, "stat parquet file")
	}
	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "read parquet metadata of %s", path)
	}

	columns, err := leafColumns(pf.Schema())
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "inspect schema of %s", path)
	}

	r := &Reader{
		path:      path,
		file:      f,
		pf:        pf,
		columns:   columns,
		batchSize: batchSize,
		rowGroups: pf.RowGroups(),
		buf:       make([]parquet.Row, batchSize),
	}

	found := false
	for _, col := range columns {
		if len(col.Path) == 1 && col.Path[0] == textColumn && !col.Repeated {
			r.text, found = col, true
			break
		}
	}
	if !found {
		f.Close()
		return nil, &MissingColumnError{Path: path, Column: textColumn, Available: fieldNames(pf.Schema())}
	}
	if kind := r.text.Node.Type().Kind(); kind != parquet.ByteArray {
		f.Close()
		return nil, errors.Errorf("%s: column %q holds %s values, not strings", path, textColumn, kind)
	}
	return r, nil
}

func leafColumns(schema *parquet.Schema) ([]Column, error) {
	paths := schema.Columns()
	columns := make([]Column, len(paths))
	for _, path := range paths {
		leaf, ok := schema.Lookup(path...)
		if !ok {
			return nil, errors.Errorf("leaf column %s not found", strings.Join(path, "."))
		}
		if leaf.ColumnIndex < 0 || leaf.ColumnIndex >= len(columns) {
			return nil, errors.Errorf("leaf column %s has index %d", strings.Join(path, "."), leaf.ColumnIndex)
		}
		columns[leaf.ColumnIndex] = Column{
			Name:     strings.Join(path, "."),
			Path:     path,
			Index:    leaf.ColumnIndex,
			Repeated: leaf.MaxRepetitionLevel > 0,
			Node:     leaf.Node,
		}
	}
	return columns, nil
}

func fieldNames(schema *parquet.Schema) []string {
	fields := schema.Fields()
	names := make([]string, len(fields))
	for i, field := range fields {
		names[i] = field.Name()
	}
	return names
}

func (r *Reader) Path() string {
	return r.path
}

// NumRows is the row count recorded in the file metadata.
func (r *Reader) NumRows() int64 {
	return r.pf.NumRows()
}

func (r *Reader) Columns() []Column {
	return r.columns
}

func (r *Reader) TextColumn() Column {
	return r.text
}

func (r *Reader) Schema() *parquet.Schema {
	return r.pf.Schema()
}

// Next returns up to batchSize rows in file order, or io.EOF once every
// row has been returned.
func (r *Reader) Next() ([]Row, error) {
	batch := make([]Row, 0, r.batchSize)
	for len(batch) < r.batchSize {
		if r.rows == nil {
			if r.group >= len(r.rowGroups) {
				break
			}
			r.rows = r.rowGroups[r.group].Rows()
			r.group++
		}

		n, err := r.rows.ReadRows(r.buf[:r.batchSize-len(batch)])
		for _, raw := range r.buf[:n] {
			batch = append(batch, r.decode(raw.Clone()))
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, errors.Wrapf(err, "read rows of %s", r.path)
		}
		if err != nil || n == 0 {
			r.rows.Close()
			r.rows = nil
		}
	}

	if len(batch) == 0 {
		return nil, io.EOF
	}
	return batch, nil
}

func (r *Reader) decode(raw parquet.Row) Row {
	values := make([]interface{}, len(r.columns))
	for i, col := range r.columns {
		if col.Repeated {
			values[i] = []interface{}{}
		}
	}

	for _, v := range raw {
		idx := v.Column()
		if idx < 0 || idx >= len(values) {
			continue
		}
		if r.columns[idx].Repeated {
			if !v.IsNull() {
				values[idx] = append(values[idx].([]interface{}), decodeValue(v))
			}
			continue
		}
		values[idx] = decodeValue(v)
	}

	row := Row{Values: values, Raw: raw}
	if s, ok := values[r.text.Index].(string); ok {
		row.Text = &s
	}
	return row
}

func decodeValue(v parquet.Value) interface{} {
	if v.IsNull() {
		return nil
	}
	switch v.Kind() {
	case parquet.Boolean:
		return v.Boolean()
	case parquet.Int32:
		return v.Int32()
	case parquet.Int64:
		return v.Int64()
	case parquet.Float:
		return v.Float()
	case parquet.Double:
		return v.Double()
	case parquet.ByteArray, parquet.FixedLenByteArray:
		return string(v.ByteArray())
	default:
		return v.String()
	}
}

func (r *Reader) Close() error {
	if r.rows != nil {
		r.rows.Close()
		r.rows = nil
	}
	return r.file.Close()
}
