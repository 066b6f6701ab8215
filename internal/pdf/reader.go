package pdf

import (
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/trialscan/ctri-extract/internal/extract"
)

// wordGap is the horizontal gap, in PDF points, above which two text runs
// in the same cell are joined with a space instead of concatenated.
const wordGap = 1.0

// maxLines caps the line stream per document as a guard against
// pathological PDFs.
const maxLines = 50000

// Reader extracts the line stream and table grids from trial registration
// PDF files.
type Reader struct {
	maxFileSize int64
}

// NewReader creates a new PDF reader with the specified constraints
func NewReader(maxFileSize int64) *Reader {
	return &Reader{
		maxFileSize: maxFileSize,
	}
}

// ReadFile extracts the ordered text lines and detected table grids from a
// PDF file. Pages that fail to parse are skipped; the result carries
// whatever the remaining pages yielded.
func (r *Reader) ReadFile(req PDFReadFileRequest) (*PDFReadFileResult, error) {
	if req.Path == "" {
		return nil, fmt.Errorf("path cannot be empty")
	}

	fileInfo, err := os.Stat(req.Path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("file does not exist: %s", req.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot access file: %w", err)
	}

	if err := r.validatePDFFile(req.Path, fileInfo); err != nil {
		return nil, err
	}

	f, pdfReader, err := pdf.Open(req.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	lines, grids, err := r.extractContent(pdfReader)
	if err != nil {
		return nil, fmt.Errorf("failed to extract content: %w", err)
	}

	return &PDFReadFileResult{
		Lines: lines,
		Grids: grids,
		Path:  req.Path,
		Pages: pdfReader.NumPage(),
		Size:  fileInfo.Size(),
	}, nil
}

// validatePDFFile performs basic validation on a PDF file
func (r *Reader) validatePDFFile(filePath string, fileInfo os.FileInfo) error {
	if fileInfo.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", filePath)
	}

	if !strings.HasSuffix(strings.ToLower(filePath), ".pdf") {
		return fmt.Errorf("file is not a PDF: %s", filePath)
	}

	if fileInfo.Size() > r.maxFileSize {
		return fmt.Errorf("file too large: %d bytes (max: %d bytes)",
			fileInfo.Size(), r.maxFileSize)
	}

	return nil
}

// extractContent walks the document page by page, converts each page's
// positioned text rows into cells, and splits them into the plain line
// stream and the table grids.
func (r *Reader) extractContent(pdfReader *pdf.Reader) ([]string, []extract.TableGrid, error) {
	var lines []string
	var grids []extract.TableGrid

	for pageNum := 1; pageNum <= pdfReader.NumPage(); pageNum++ {
		page := pdfReader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		rows, err := r.pageRows(page)
		if err != nil {
			// Continue with other pages even if one fails
			continue
		}

		pageLines, pageGrids := splitRows(rows)
		lines = append(lines, pageLines...)
		grids = append(grids, pageGrids...)

		if len(lines) > maxLines {
			lines = lines[:maxLines]
			break
		}
	}

	if len(lines) == 0 && len(grids) == 0 {
		return nil, nil, fmt.Errorf("no text content could be extracted from PDF")
	}

	return lines, grids, nil
}

// pageRows reads one page's text in row order and groups each row's text
// runs into cells by horizontal gap.
func (r *Reader) pageRows(page pdf.Page) (rows []textRow, err error) {
	defer func() {
		// The underlying parser panics on some malformed content streams.
		if rec := recover(); rec != nil {
			rows = nil
			err = fmt.Errorf("page parse panic: %v", rec)
		}
	}()

	pdfRows, err := page.GetTextByRow()
	if err != nil {
		return nil, fmt.Errorf("failed to read page rows: %w", err)
	}

	for _, pdfRow := range pdfRows {
		row := buildRow(pdfRow.Content)
		if len(row.Cells) > 0 {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// buildRow concatenates a row's text runs left to right, starting a new
// cell whenever the horizontal gap exceeds cellGap.
func buildRow(texts []pdf.Text) textRow {
	var row textRow
	var cell strings.Builder
	var cellX, cursor float64
	open := false

	flush := func() {
		if open && strings.TrimSpace(cell.String()) != "" {
			row.Cells = append(row.Cells, textCell{X: cellX, Text: cell.String()})
		}
		cell.Reset()
		open = false
	}

	for _, t := range texts {
		if t.S == "" {
			continue
		}
		gap := t.X - cursor
		switch {
		case !open:
			flush()
			cellX = t.X
			open = true
		case gap > cellGap:
			flush()
			cellX = t.X
			open = true
		case gap > wordGap:
			cell.WriteByte(' ')
		}
		cell.WriteString(t.S)
		cursor = t.X + t.W
	}
	flush()
	return row
}
