package batch

import (
	"github.com/trialscan/ctri-extract/internal/extract"
	"github.com/trialscan/ctri-extract/internal/pdf"
)

// PDFSource adapts the PDF service to the batch runner's document
// source: the document set is every valid PDF under one directory.
type PDFSource struct {
	service   *pdf.Service
	directory string
}

// NewPDFSource creates a source over the PDFs in directory.
func NewPDFSource(service *pdf.Service, directory string) *PDFSource {
	return &PDFSource{service: service, directory: directory}
}

// List returns the paths of the directory's PDF files in stable order.
func (s *PDFSource) List() ([]string, error) {
	files, err := s.service.FindPDFsInDirectory(s.directory)
	if err != nil {
		return nil, err
	}
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	return paths, nil
}

// Read extracts one PDF's line stream and table grids.
func (s *PDFSource) Read(path string) ([]string, []extract.TableGrid, error) {
	result, err := s.service.PDFReadFile(pdf.PDFReadFileRequest{Path: path})
	if err != nil {
		return nil, nil, err
	}
	return result.Lines, result.Grids, nil
}
