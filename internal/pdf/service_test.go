package pdf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServicePathConfinement(t *testing.T) {
	dir := t.TempDir()
	outside := filepath.Join(t.TempDir(), "outside.pdf")
	require.NoError(t, os.WriteFile(outside, []byte("%PDF-1.4"), 0o644))

	svc, err := NewService(1024*1024, dir)
	require.NoError(t, err)

	_, err = svc.PDFReadFile(PDFReadFileRequest{Path: outside})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "security validation failed")

	_, err = svc.PDFValidateFile(PDFValidateFileRequest{Path: outside})
	assert.Error(t, err)
}

func TestServiceSearchDefaultsToConfiguredDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.pdf"), []byte("%PDF-1.4"), 0o644))

	svc, err := NewService(1024*1024, dir)
	require.NoError(t, err)

	result, err := svc.PDFSearchDirectory(PDFSearchDirectoryRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.TotalCount)
}

func TestServiceSearchRejectsOutsideDirectory(t *testing.T) {
	svc, err := NewService(1024*1024, t.TempDir())
	require.NoError(t, err)

	_, err = svc.PDFSearchDirectory(PDFSearchDirectoryRequest{Directory: t.TempDir()})
	assert.Error(t, err)
}

func TestServiceEmptyPathRejected(t *testing.T) {
	svc, err := NewService(1024*1024, t.TempDir())
	require.NoError(t, err)

	_, err = svc.PDFReadFile(PDFReadFileRequest{})
	assert.Error(t, err)
}

func TestServiceAccessors(t *testing.T) {
	dir := t.TempDir()
	svc, err := NewService(512, dir)
	require.NoError(t, err)
	assert.Equal(t, int64(512), svc.GetMaxFileSize())
	assert.Equal(t, dir, svc.GetConfiguredDirectory())
}
