package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/trialscan/ctri-extract/internal/batch"
	"github.com/trialscan/ctri-extract/internal/config"
	"github.com/trialscan/ctri-extract/internal/extract"
	"github.com/trialscan/ctri-extract/internal/mcp"
	"github.com/trialscan/ctri-extract/internal/pdf"
	"github.com/trialscan/ctri-extract/internal/scrape"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// setupLogging configures logging based on the run mode
func setupLogging(cfg *config.Config) {
	if cfg.IsStdioMode() {
		// In stdio mode, redirect log output to stderr to avoid interfering with MCP protocol
		log.SetOutput(os.Stderr)
		if !cfg.IsDebug() {
			log.SetOutput(os.NewFile(0, os.DevNull))
		}
	} else {
		log.SetFlags(log.LstdFlags)
	}
}

// buildEngine creates the extraction engine, with the vocabulary overlay
// when one is configured.
func buildEngine(cfg *config.Config) (*extract.Engine, error) {
	if cfg.VocabularyPath == "" {
		return extract.NewEngine(), nil
	}
	vocab, err := extract.LoadVocabulary(cfg.VocabularyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load vocabulary: %w", err)
	}
	return extract.NewEngineWithVocabulary(vocab), nil
}

// runBatchMode extracts every PDF in the configured directory into the
// output CSV.
func runBatchMode(ctx context.Context, cfg *config.Config, pdfService *pdf.Service, engine *extract.Engine) {
	// Cancel the run on SIGINT/SIGTERM so progress saves survive
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var fetcher batch.RecordFetcher
	if cfg.MinFields > 0 {
		fetcher = scrape.NewClient(cfg.HTTPTimeout)
	}

	runner, err := batch.NewRunner(batch.Config{
		OutputPath: cfg.OutputPath,
		FailedPath: cfg.FailedPath,
		Workers:    cfg.Workers,
		MinFields:  cfg.MinFields,
		SaveEvery:  cfg.SaveEvery,
		Resume:     cfg.Resume,
	}, batch.NewPDFSource(pdfService, cfg.PDFDirectory), engine, fetcher, log.Default())
	if err != nil {
		log.Fatalf("Failed to create batch runner: %v", err)
	}

	result, err := runner.Run(ctx)
	if err != nil {
		log.Fatalf("Batch run failed: %v", err)
	}

	fmt.Printf("Processed %d documents: %d written, %d skipped, %d failed, %d fallbacks (%s)\n",
		result.Total, result.Written, result.Skipped, result.Failed, result.Fallbacks, result.Duration.Round(time.Millisecond))
	if result.Failed > 0 && cfg.FailedPath != "" {
		fmt.Printf("Failed documents listed in %s\n", cfg.FailedPath)
	}
}

// runStdioMode runs the MCP server on standard I/O
func runStdioMode(ctx context.Context, cfg *config.Config, pdfService *pdf.Service, engine *extract.Engine) {
	server, err := mcp.NewServer(cfg, pdfService, engine)
	if err != nil {
		log.Fatalf("Failed to create MCP server: %v", err)
	}

	// In stdio mode, the parent process controls our lifecycle
	if err := server.Run(ctx); err != nil {
		if os.Getenv("DEBUG") != "" {
			log.Printf("Server error: %v", err)
		}
		os.Exit(1)
	}
}

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			printVersion()
			return
		}
	}

	cfg, err := config.LoadFromFlags()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	setupLogging(cfg)

	// Set version if it was provided during build
	if version != "dev" {
		cfg.Version = version
	}

	if cfg.IsDebug() && cfg.IsBatchMode() {
		log.Printf("Starting with configuration: %s", cfg.String())
	}

	pdfService, err := pdf.NewService(cfg.MaxFileSize, cfg.PDFDirectory)
	if err != nil {
		log.Fatalf("Failed to create PDF service: %v", err)
	}

	engine, err := buildEngine(cfg)
	if err != nil {
		log.Fatalf("Failed to create extraction engine: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.IsStdioMode() {
		runStdioMode(ctx, cfg, pdfService, engine)
	} else {
		runBatchMode(ctx, cfg, pdfService, engine)
	}
}

// printVersion prints version information
func printVersion() {
	fmt.Printf("CTRI Extract\n")
	fmt.Printf("Version: %s\n", version)
	fmt.Printf("Build Time: %s\n", buildTime)
	fmt.Printf("Git Commit: %s\n", gitCommit)
	fmt.Printf("Built with: %s\n", runtime.Version())
}
