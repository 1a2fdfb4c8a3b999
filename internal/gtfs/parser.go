package gtfs

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
)

// MissingFiles returns the required tables absent from dir, in RequiredFiles order.
// It returns os.ErrNotExist when dir itself does not exist.
func MissingFiles(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory: %w", dir, os.ErrNotExist)
	}

	var missing []string
	for _, name := range RequiredFiles {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				missing = append(missing, name)
				continue
			}
			return nil, fmt.Errorf("stat %s: %w", name, err)
		}
	}
	return missing, nil
}

// ParseFile reads a whole CSV table from path and decodes it into a Table of T.
func ParseFile[T any](path string) (*Table[T], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	return Parse[T](f)
}

// Parse decodes a CSV stream with a header row into a Table of T.
// Columns are matched to struct fields by their csv tag.
func Parse[T any](r io.Reader) (*Table[T], error) {
	reader, header, err := newReader(r)
	if err != nil {
		return nil, err
	}

	fieldMap := buildFieldMap[T](header)
	table := &Table[T]{Columns: columnSet(header)}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		table.Rows = append(table.Rows, decodeRecord[T](record, fieldMap))
	}

	return table, nil
}

// CSVStreamer yields one decoded record at a time.
// Used for stop_times.txt, which is by far the largest table of a feed.
type CSVStreamer[T any] struct {
	rc       io.ReadCloser
	reader   *csv.Reader
	fieldMap []fieldMapping
	columns  map[string]bool
}

type fieldMapping struct {
	csvIndex   int
	fieldIndex int
}

// OpenCSVStream opens the CSV file at path for streaming.
func OpenCSVStream[T any](path string) (*CSVStreamer[T], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}

	reader, header, err := newReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	return &CSVStreamer[T]{
		rc:       f,
		reader:   reader,
		fieldMap: buildFieldMap[T](header),
		columns:  columnSet(header),
	}, nil
}

// Next reads the next record. Returns io.EOF when done.
func (s *CSVStreamer[T]) Next() (T, error) {
	record, err := s.reader.Read()
	if err != nil {
		var zero T
		return zero, err
	}
	return decodeRecord[T](record, s.fieldMap), nil
}

// Has reports whether the stream's header declared the named column.
func (s *CSVStreamer[T]) Has(column string) bool {
	return s.columns[column]
}

// Close releases the underlying file.
func (s *CSVStreamer[T]) Close() error {
	return s.rc.Close()
}

func newReader(r io.Reader) (*csv.Reader, []string, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}

	// Strip BOM from first field if present
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\xef\xbb\xbf")
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	return reader, header, nil
}

func columnSet(header []string) map[string]bool {
	cols := make(map[string]bool, len(header))
	for _, h := range header {
		cols[h] = true
	}
	return cols
}

// buildFieldMap creates a mapping from CSV column positions to struct field positions.
func buildFieldMap[T any](header []string) []fieldMapping {
	var t T
	typ := reflect.TypeOf(t)

	tagToField := make(map[string]int)
	for i := 0; i < typ.NumField(); i++ {
		tag := typ.Field(i).Tag.Get("csv")
		if tag != "" {
			tagToField[tag] = i
		}
	}

	var mappings []fieldMapping
	for csvIdx, colName := range header {
		if fieldIdx, ok := tagToField[colName]; ok {
			mappings = append(mappings, fieldMapping{csvIndex: csvIdx, fieldIndex: fieldIdx})
		}
	}
	return mappings
}

// decodeRecord fills a struct T from a CSV record using the field mapping.
// Short rows leave the trailing fields empty.
func decodeRecord[T any](record []string, fieldMap []fieldMapping) T {
	var t T
	v := reflect.ValueOf(&t).Elem()
	for _, fm := range fieldMap {
		if fm.csvIndex < len(record) {
			v.Field(fm.fieldIndex).SetString(record[fm.csvIndex])
		}
	}
	return t
}
