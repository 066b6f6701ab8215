package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/trialscan/ctri-extract/internal/extract"
)

// utf8BOM is prepended so spreadsheet tools pick up the encoding; the
// registry data is full of non-ASCII names and addresses.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// serialColumn numbers the rows of one export run.
const serialColumn = "Sl_No"

// Header returns the CSV header: the serial column followed by every
// record field in schema order.
func Header() []string {
	header := make([]string, 0, len(extract.FieldSchema)+1)
	header = append(header, serialColumn)
	header = append(header, extract.FieldSchema...)
	return header
}

// Writer streams trial records to a CSV file. Rows are numbered from 1
// in write order.
type Writer struct {
	file *os.File
	csv  *csv.Writer
	seq  int
}

// NewWriter creates the output file, writes the byte order mark and the
// header row, and returns a writer ready for records. An existing file is
// truncated.
func NewWriter(path string) (*Writer, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create export file: %w", err)
	}
	if _, err := file.Write(utf8BOM); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to write BOM: %w", err)
	}

	w := &Writer{file: file, csv: csv.NewWriter(file)}
	if err := w.csv.Write(Header()); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	return w, nil
}

// OpenAppend opens an existing export for appending, or creates it when
// missing. Used by resumed batch runs; the serial numbers continue from
// the existing row count.
func OpenAppend(path string) (*Writer, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) || (err == nil && info.Size() == 0) {
		return NewWriter(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat export file: %w", err)
	}

	existing, err := countRows(path)
	if err != nil {
		return nil, err
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open export file: %w", err)
	}
	return &Writer{file: file, csv: csv.NewWriter(file), seq: existing}, nil
}

// countRows counts the data rows of an existing export.
func countRows(path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open export file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(skipBOM(file))
	reader.FieldsPerRecord = -1

	n := -1 // do not count the header
	for {
		if _, err := reader.Read(); err != nil {
			if err == io.EOF {
				break
			}
			return 0, fmt.Errorf("failed to read export file: %w", err)
		}
		n++
	}
	if n < 0 {
		n = 0
	}
	return n, nil
}

// Write appends one record as a row.
func (w *Writer) Write(record *extract.Record) error {
	w.seq++
	row := make([]string, 0, len(extract.FieldSchema)+1)
	row = append(row, strconv.Itoa(w.seq))
	row = append(row, record.Row()...)
	if err := w.csv.Write(row); err != nil {
		return fmt.Errorf("failed to write record row: %w", err)
	}
	return nil
}

// Count returns how many records have been written.
func (w *Writer) Count() int {
	return w.seq
}

// Flush forces buffered rows to disk. The batch runner calls it on its
// progress-save interval so an interrupted run loses little work.
func (w *Writer) Flush() error {
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		return fmt.Errorf("failed to flush export file: %w", err)
	}
	return w.file.Sync()
}

// Close flushes and closes the output file.
func (w *Writer) Close() error {
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		w.file.Close()
		return fmt.Errorf("failed to flush export file: %w", err)
	}
	return w.file.Close()
}

// WriteAll writes a complete record set to path in one call.
func WriteAll(path string, records []*extract.Record) error {
	w, err := NewWriter(path)
	if err != nil {
		return err
	}
	for _, record := range records {
		if err := w.Write(record); err != nil {
			w.Close()
			return err
		}
	}
	return w.Close()
}

// ReadCTRINumbers reads a previous export and returns the set of CTRI
// numbers it already contains. A missing file is not an error; the batch
// runner treats it as a fresh start.
func ReadCTRINumbers(path string) (map[string]bool, error) {
	file, err := os.Open(path)
	if os.IsNotExist(err) {
		return map[string]bool{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open export file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(skipBOM(file))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return map[string]bool{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read export header: %w", err)
	}

	col := -1
	for i, name := range header {
		if name == extract.FieldCTRINumber {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("export file has no %s column", extract.FieldCTRINumber)
	}

	seen := make(map[string]bool)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read export row: %w", err)
		}
		if col < len(row) && row[col] != "" {
			seen[row[col]] = true
		}
	}
	return seen, nil
}

// skipBOM strips a leading UTF-8 byte order mark from a reader.
func skipBOM(r io.Reader) io.Reader {
	buf := make([]byte, len(utf8BOM))
	n, _ := io.ReadFull(r, buf)
	if n == len(utf8BOM) && bytes.Equal(buf, utf8BOM) {
		return r
	}
	return io.MultiReader(bytes.NewReader(buf[:n]), r)
}
