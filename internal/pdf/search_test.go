package pdf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makePDFTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := []string{
		"CTRI-2020-01-000123.pdf",
		"CTRI-2021-05-033456.pdf",
		filepath.Join("archive", "CTRI-2019-12-099999.pdf"),
		"notes.txt",
	}
	for _, name := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o644))
	}
	// Empty PDFs fail quick validation and are skipped.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty.pdf"), nil, 0o644))
	return dir
}

func TestSearchDirectoryFindsAllPDFs(t *testing.T) {
	s := NewSearch(1024 * 1024)
	result, err := s.SearchDirectory(PDFSearchDirectoryRequest{Directory: makePDFTree(t)})
	require.NoError(t, err)
	assert.Equal(t, 3, result.TotalCount)

	names := make([]string, len(result.Files))
	for i, f := range result.Files {
		names[i] = f.Name
	}
	assert.Contains(t, names, "CTRI-2019-12-099999.pdf")
	assert.NotContains(t, names, "notes.txt")
	assert.NotContains(t, names, "empty.pdf")
}

func TestSearchDirectorySortedByPath(t *testing.T) {
	s := NewSearch(1024 * 1024)
	result, err := s.SearchDirectory(PDFSearchDirectoryRequest{Directory: makePDFTree(t)})
	require.NoError(t, err)
	require.Len(t, result.Files, 3)
	for i := 1; i < len(result.Files); i++ {
		assert.Less(t, result.Files[i-1].Path, result.Files[i].Path)
	}
}

func TestSearchDirectoryQueryFilter(t *testing.T) {
	s := NewSearch(1024 * 1024)
	result, err := s.SearchDirectory(PDFSearchDirectoryRequest{
		Directory: makePDFTree(t),
		Query:     "2021",
	})
	require.NoError(t, err)
	require.Equal(t, 1, result.TotalCount)
	assert.Equal(t, "CTRI-2021-05-033456.pdf", result.Files[0].Name)
}

func TestSearchDirectoryWordQuery(t *testing.T) {
	s := NewSearch(1024 * 1024)
	result, err := s.SearchDirectory(PDFSearchDirectoryRequest{
		Directory: makePDFTree(t),
		Query:     "ctri 000123",
	})
	require.NoError(t, err)
	require.Equal(t, 1, result.TotalCount)
	assert.Equal(t, "CTRI-2020-01-000123.pdf", result.Files[0].Name)
}

func TestSearchDirectoryMissing(t *testing.T) {
	s := NewSearch(1024 * 1024)
	_, err := s.SearchDirectory(PDFSearchDirectoryRequest{
		Directory: filepath.Join(t.TempDir(), "absent"),
	})
	assert.Error(t, err)
}

func TestSearchDirectoryEmptyArgument(t *testing.T) {
	s := NewSearch(1024 * 1024)
	_, err := s.SearchDirectory(PDFSearchDirectoryRequest{})
	assert.Error(t, err)
}

func TestCountPDFsInDirectory(t *testing.T) {
	s := NewSearch(1024 * 1024)
	count, err := s.CountPDFsInDirectory(makePDFTree(t))
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestMatchesQuery(t *testing.T) {
	s := NewSearch(1024 * 1024)
	tests := []struct {
		filename string
		query    string
		want     bool
	}{
		{"CTRI-2020-01-000123.pdf", "000123", true},
		{"CTRI-2020-01-000123.pdf", "ctri 2020", true},
		{"CTRI-2020-01-000123.pdf", "2021", false},
		{"trial_record.pdf", "record", true},
		{"trial_record.pdf", "", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, s.matchesQuery(tt.filename, tt.query), "%s / %s", tt.filename, tt.query)
	}
}
