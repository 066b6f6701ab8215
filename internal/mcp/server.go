package mcp

import (
	"context"
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/trialscan/ctri-extract/internal/config"
	"github.com/trialscan/ctri-extract/internal/descriptions"
	"github.com/trialscan/ctri-extract/internal/extract"
	"github.com/trialscan/ctri-extract/internal/pdf"
)

// Server represents the MCP server instance
type Server struct {
	config     *config.Config
	pdfService *pdf.Service
	engine     *extract.Engine
	mcpServer  *server.MCPServer
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, pdfService *pdf.Service, engine *extract.Engine) (*Server, error) {
	if pdfService == nil {
		return nil, fmt.Errorf("pdfService cannot be nil")
	}
	if engine == nil {
		engine = extract.NewEngine()
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false), // We don't support dynamic tool capabilities
	)

	s := &Server{
		config:     cfg,
		pdfService: pdfService,
		engine:     engine,
		mcpServer:  mcpServer,
	}

	// Register tools
	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	trialExtractFileTool := mcp.NewTool(
		"trial_extract_file",
		mcp.WithDescription(descriptions.GetToolDescription("trial_extract_file")),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the trial registration PDF"),
		),
	)
	s.mcpServer.AddTool(trialExtractFileTool, s.handleTrialExtractFile)

	trialValidateFileTool := mcp.NewTool(
		"trial_validate_file",
		mcp.WithDescription(descriptions.GetToolDescription("trial_validate_file")),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the PDF file"),
		),
	)
	s.mcpServer.AddTool(trialValidateFileTool, s.handleTrialValidateFile)

	trialSearchDirectoryTool := mcp.NewTool(
		"trial_search_directory",
		mcp.WithDescription(descriptions.GetToolDescription("trial_search_directory")),
		mcp.WithString("directory",
			mcp.Description("Directory path to search (uses default if empty)"),
		),
		mcp.WithString("query",
			mcp.Description("Optional search query for fuzzy matching"),
		),
	)
	s.mcpServer.AddTool(trialSearchDirectoryTool, s.handleTrialSearchDirectory)

	trialServerInfoTool := mcp.NewTool(
		"trial_server_info",
		mcp.WithDescription(descriptions.GetToolDescription("trial_server_info")),
	)
	s.mcpServer.AddTool(trialServerInfoTool, s.handleTrialServerInfo)
}

// Handler functions
func (s *Server) handleTrialExtractFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	req := pdf.PDFReadFileRequest{Path: path}
	result, err := s.pdfService.PDFReadFile(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	record := s.engine.Extract(result.Lines, result.Grids)
	responseText := s.formatTrialRecord(result, record)
	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleTrialValidateFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	req := pdf.PDFValidateFileRequest{Path: path}
	result, err := s.pdfService.PDFValidateFile(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var responseText string
	if result.Valid {
		responseText = fmt.Sprintf("PDF file %s is valid and readable", result.Path)
	} else {
		responseText = fmt.Sprintf("PDF validation failed for %s: %s", result.Path, result.Message)
	}

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleTrialSearchDirectory(ctx context.Context, request mcp.CallToolRequest) (
	*mcp.CallToolResult, error,
) {
	args := request.GetArguments()

	directory := s.config.PDFDirectory // default
	if dir, ok := args["directory"].(string); ok && dir != "" {
		directory = dir
	}

	query := ""
	if q, ok := args["query"].(string); ok {
		query = q
	}

	req := pdf.PDFSearchDirectoryRequest{
		Directory: directory,
		Query:     query,
	}

	result, err := s.pdfService.PDFSearchDirectory(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var responseText string
	if result.TotalCount == 0 {
		responseText = fmt.Sprintf("No PDF files found in directory: %s", result.Directory)
		if result.SearchQuery != "" {
			responseText += fmt.Sprintf(" (searched for: %s)", result.SearchQuery)
		}
	} else {
		responseText = s.formatSearchDirectoryResult(result)
	}

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleTrialServerInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(s.formatServerInfo()), nil
}

// Formatting methods
func (s *Server) formatTrialRecord(result *pdf.PDFReadFileResult, record *extract.Record) string {
	text := fmt.Sprintf("Extracted trial record from: %s\n", result.Path)
	text += fmt.Sprintf("Pages: %d\n", result.Pages)
	text += fmt.Sprintf("Size: %d bytes\n", result.Size)
	text += fmt.Sprintf("Table grids: %d\n", len(result.Grids))
	text += fmt.Sprintf("Populated fields: %d\n", record.PopulatedCount())

	if ctri := record.Get(extract.FieldCTRINumber); ctri == "" {
		text += "\nWARNING: no CTRI number found; this may not be a trial registration document.\n"
	}

	text += "\nFields:\n"
	for _, field := range extract.FieldSchema {
		value := record.Get(field)
		if value == "" {
			continue
		}
		text += fmt.Sprintf("%s: %s\n", field, value)
	}

	return text
}

func (s *Server) formatSearchDirectoryResult(result *pdf.PDFSearchDirectoryResult) string {
	text := fmt.Sprintf("Found %d PDF file(s) in directory: %s\n", result.TotalCount, result.Directory)
	if result.SearchQuery != "" {
		text += fmt.Sprintf("Search query: %s\n", result.SearchQuery)
	}
	text += "\nFiles:\n"

	for i, file := range result.Files {
		text += fmt.Sprintf("%d. %s\n", i+1, file.Name)
		text += fmt.Sprintf("   Path: %s\n", file.Path)
		text += fmt.Sprintf("   Size: %d bytes\n", file.Size)
		text += fmt.Sprintf("   Modified: %s\n", file.ModifiedTime)
		if i < len(result.Files)-1 {
			text += "\n"
		}
	}

	return text
}

func (s *Server) formatServerInfo() string {
	text := fmt.Sprintf("%s v%s - Server Information\n", s.config.ServerName, s.config.Version)
	text += fmt.Sprintf("Default Directory: %s\n", s.pdfService.GetConfiguredDirectory())
	text += fmt.Sprintf("Max File Size: %d MB\n\n", s.pdfService.GetMaxFileSize()/(1024*1024))

	files, err := s.pdfService.FindPDFsInDirectory(s.pdfService.GetConfiguredDirectory())
	if err != nil {
		text += fmt.Sprintf("Directory Contents: unavailable (%v)\n\n", err)
	} else if len(files) == 0 {
		text += "Directory Contents: no PDF files found in default directory\n\n"
	} else {
		text += fmt.Sprintf("Directory Contents (%d PDF files found):\n", len(files))
		for i, file := range files {
			if i >= 10 { // Limit to first 10 files for readability
				text += fmt.Sprintf("   ... and %d more files\n", len(files)-10)
				break
			}
			text += fmt.Sprintf("   %d. %s (%d bytes)\n", i+1, file.Name, file.Size)
		}
		text += "\n"
	}

	text += "Available Tools:\n"
	for _, name := range []string{
		"trial_extract_file",
		"trial_validate_file",
		"trial_search_directory",
		"trial_server_info",
	} {
		text += fmt.Sprintf("\n- %s\n", name)
		text += descriptions.GetToolDescription(name) + "\n"
	}

	text += "\nStart with trial_search_directory to list documents, then trial_extract_file per document.\n"

	return text
}

// Run starts the MCP server on standard I/O
func (s *Server) Run(ctx context.Context) error {
	if s.config.IsDebug() {
		log.Printf("Starting CTRI extraction MCP server in stdio mode")
		log.Printf("PDF directory: %s", s.config.PDFDirectory)
	}

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}
