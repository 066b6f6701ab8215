package pdf

import (
	"fmt"
	"path/filepath"
)

// Service handles trial PDF operations by orchestrating the reader,
// validator and search components. All file access is confined to the
// configured directory.
type Service struct {
	maxFileSize         int64
	configuredDirectory string
	reader              *Reader
	validator           *Validator
	search              *Search
}

// NewService creates a new PDF service with all components
func NewService(maxFileSize int64, configuredDirectory string) (*Service, error) {
	absDir, err := filepath.Abs(configuredDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve configured directory: %w", err)
	}

	return &Service{
		maxFileSize:         maxFileSize,
		configuredDirectory: absDir,
		reader:              NewReader(maxFileSize),
		validator:           NewValidator(maxFileSize),
		search:              NewSearch(maxFileSize),
	}, nil
}

// PDFReadFile extracts the line stream and table grids from a PDF file
func (s *Service) PDFReadFile(req PDFReadFileRequest) (*PDFReadFileResult, error) {
	if err := s.validatePath(req.Path); err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	return s.reader.ReadFile(req)
}

// PDFValidateFile performs validation on a PDF file
func (s *Service) PDFValidateFile(req PDFValidateFileRequest) (*PDFValidateFileResult, error) {
	if err := s.validatePath(req.Path); err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	return s.validator.ValidateFile(req)
}

// PDFSearchDirectory searches for PDF files in a directory
func (s *Service) PDFSearchDirectory(req PDFSearchDirectoryRequest) (*PDFSearchDirectoryResult, error) {
	// If no directory specified, use configured directory
	if req.Directory == "" {
		req.Directory = s.configuredDirectory
	}

	within, err := s.search.isPathWithinDirectory(req.Directory, s.configuredDirectory)
	if err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	if !within {
		return nil, fmt.Errorf("directory is outside the configured directory: %s", req.Directory)
	}

	return s.search.SearchDirectory(req)
}

// IsValidPDF performs a quick validation check on a file
func (s *Service) IsValidPDF(filePath string) bool {
	return s.validator.IsValidPDF(filePath)
}

// CountPDFsInDirectory counts the number of valid PDF files in a directory
func (s *Service) CountPDFsInDirectory(directory string) (int, error) {
	return s.search.CountPDFsInDirectory(directory)
}

// FindPDFsInDirectory finds all PDF files in a directory without filtering
func (s *Service) FindPDFsInDirectory(directory string) ([]FileInfo, error) {
	return s.search.FindPDFsInDirectory(directory)
}

// GetMaxFileSize returns the maximum file size limit
func (s *Service) GetMaxFileSize() int64 {
	return s.maxFileSize
}

// GetConfiguredDirectory returns the directory the service is confined to
func (s *Service) GetConfiguredDirectory() string {
	return s.configuredDirectory
}

// validatePath ensures a requested file path stays inside the configured
// directory.
func (s *Service) validatePath(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}
	within, err := s.search.isPathWithinDirectory(path, s.configuredDirectory)
	if err != nil {
		return err
	}
	if !within {
		return fmt.Errorf("path is outside the configured directory: %s", path)
	}
	return nil
}
