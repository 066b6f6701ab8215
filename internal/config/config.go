package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Mode constants
	ModeBatch = "batch"
	ModeStdio = "stdio"

	// Default values
	DefaultLogLevel    = "info"
	DefaultMaxFileSize = 100 * 1024 * 1024 // 100MB
	DefaultWorkers     = 4
	DefaultSaveEvery   = 25
	DefaultOutput      = "ctri_records.csv"
	DefaultFailed      = "failed_documents.txt"
	DefaultHTTPTimeout = 30 * time.Second
)

// Config holds all configuration for the CTRI extraction tool
type Config struct {
	// Mode is "batch" for a directory export run or "stdio" for the
	// MCP server.
	Mode string

	// PDF configuration
	PDFDirectory string
	MaxFileSize  int64

	// Batch export configuration
	OutputPath string
	FailedPath string
	Workers    int
	SaveEvery  int
	Resume     bool

	// Registry fallback configuration. MinFields is the populated-field
	// threshold below which the registry lookup runs; zero disables it.
	MinFields   int
	HTTPTimeout time.Duration

	// Vocabulary overlay file, empty for the built-in vocabulary.
	VocabularyPath string

	// Application configuration
	Version    string
	ServerName string
	LogLevel   string
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		currentDir = "."
	}

	return &Config{
		Mode:         ModeBatch,
		PDFDirectory: currentDir,
		MaxFileSize:  DefaultMaxFileSize,
		OutputPath:   DefaultOutput,
		FailedPath:   DefaultFailed,
		Workers:      DefaultWorkers,
		SaveEvery:    DefaultSaveEvery,
		MinFields:    0,
		HTTPTimeout:  DefaultHTTPTimeout,
		Version:      "1.0.0",
		ServerName:   "ctri-extract",
		LogLevel:     DefaultLogLevel,
	}
}

// LoadFromFlags parses command line flags and returns a configuration
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	// Check for version flag before parsing
	if err := checkVersionFlag(); err != nil {
		return nil, err
	}

	pflag.Parse()

	populateConfigFromViper(cfg)

	// Expand paths if needed
	if cfg.PDFDirectory != "" {
		if expandedPath, err := filepath.Abs(cfg.PDFDirectory); err == nil {
			cfg.PDFDirectory = expandedPath
		}
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	viper.SetEnvPrefix("CTRI")
	viper.AutomaticEnv()

	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("dir", cfg.PDFDirectory)
	viper.SetDefault("output", cfg.OutputPath)
	viper.SetDefault("failed", cfg.FailedPath)
	viper.SetDefault("workers", cfg.Workers)
	viper.SetDefault("saveevery", cfg.SaveEvery)
	viper.SetDefault("resume", cfg.Resume)
	viper.SetDefault("minfields", cfg.MinFields)
	viper.SetDefault("timeout", cfg.HTTPTimeout)
	viper.SetDefault("vocabulary", cfg.VocabularyPath)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode, "Run mode: 'batch' for a directory export, 'stdio' for the MCP server")
	pflag.String("dir", cfg.PDFDirectory, "Directory containing trial registration PDFs")
	pflag.String("output", cfg.OutputPath, "Output CSV path (batch mode)")
	pflag.String("failed", cfg.FailedPath, "Failed-document list path (batch mode)")
	pflag.Int("workers", cfg.Workers, "Number of concurrent extraction workers")
	pflag.Int("saveevery", cfg.SaveEvery, "Flush the export after this many records")
	pflag.Bool("resume", cfg.Resume, "Skip records already present in the output CSV")
	pflag.Int("minfields", cfg.MinFields, "Populated-field threshold for the registry fallback (0 disables)")
	pflag.Duration("timeout", cfg.HTTPTimeout, "HTTP timeout for registry lookups")
	pflag.String("vocabulary", cfg.VocabularyPath, "Vocabulary overlay YAML file")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum PDF file size in bytes")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	_ = viper.BindPFlag("mode", pflag.Lookup("mode"))
	_ = viper.BindPFlag("dir", pflag.Lookup("dir"))
	_ = viper.BindPFlag("output", pflag.Lookup("output"))
	_ = viper.BindPFlag("failed", pflag.Lookup("failed"))
	_ = viper.BindPFlag("workers", pflag.Lookup("workers"))
	_ = viper.BindPFlag("saveevery", pflag.Lookup("saveevery"))
	_ = viper.BindPFlag("resume", pflag.Lookup("resume"))
	_ = viper.BindPFlag("minfields", pflag.Lookup("minfields"))
	_ = viper.BindPFlag("timeout", pflag.Lookup("timeout"))
	_ = viper.BindPFlag("vocabulary", pflag.Lookup("vocabulary"))
	_ = viper.BindPFlag("loglevel", pflag.Lookup("loglevel"))
	_ = viper.BindPFlag("maxfilesize", pflag.Lookup("maxfilesize"))
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nCTRI Extract - field extraction from clinical trial registration PDFs\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s --dir=/path/to/pdfs                     "+
			"# batch export to ctri_records.csv\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --dir=/path/to/pdfs --resume            "+
			"# continue an interrupted export\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --dir=/path/to/pdfs --minfields=20      "+
			"# registry fallback for thin extractions\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=stdio --dir=/path/to/pdfs        # MCP server\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  CTRI_MODE         Run mode\n")
		fmt.Fprintf(os.Stderr, "  CTRI_DIR          PDF directory\n")
		fmt.Fprintf(os.Stderr, "  CTRI_OUTPUT       Output CSV path\n")
		fmt.Fprintf(os.Stderr, "  CTRI_FAILED       Failed-document list path\n")
		fmt.Fprintf(os.Stderr, "  CTRI_WORKERS      Worker count\n")
		fmt.Fprintf(os.Stderr, "  CTRI_MINFIELDS    Registry fallback threshold\n")
		fmt.Fprintf(os.Stderr, "  CTRI_VOCABULARY   Vocabulary overlay file\n")
		fmt.Fprintf(os.Stderr, "  CTRI_LOGLEVEL     Log level\n")
		fmt.Fprintf(os.Stderr, "  CTRI_MAXFILESIZE  Maximum file size\n")
	}
}

// checkVersionFlag checks if version flag was requested
func checkVersionFlag() error {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return fmt.Errorf("version requested")
		}
	}
	return nil
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.Mode = viper.GetString("mode")
	cfg.PDFDirectory = viper.GetString("dir")
	cfg.OutputPath = viper.GetString("output")
	cfg.FailedPath = viper.GetString("failed")
	cfg.Workers = viper.GetInt("workers")
	cfg.SaveEvery = viper.GetInt("saveevery")
	cfg.Resume = viper.GetBool("resume")
	cfg.MinFields = viper.GetInt("minfields")
	cfg.HTTPTimeout = viper.GetDuration("timeout")
	cfg.VocabularyPath = viper.GetString("vocabulary")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Mode != ModeBatch && c.Mode != ModeStdio {
		return errors.New("mode must be either 'batch' or 'stdio'")
	}

	if c.PDFDirectory == "" {
		return errors.New("PDF directory cannot be empty")
	}
	if info, err := os.Stat(c.PDFDirectory); err != nil {
		return fmt.Errorf("cannot access PDF directory %s: %w", c.PDFDirectory, err)
	} else if !info.IsDir() {
		return fmt.Errorf("PDF directory %s is not a directory", c.PDFDirectory)
	}

	if c.Mode == ModeBatch && c.OutputPath == "" {
		return errors.New("output path cannot be empty in batch mode")
	}

	if c.Workers < 1 {
		return errors.New("workers must be at least 1")
	}
	if c.SaveEvery < 1 {
		return errors.New("saveevery must be at least 1")
	}
	if c.MinFields < 0 {
		return errors.New("minfields cannot be negative")
	}
	if c.HTTPTimeout <= 0 {
		return errors.New("timeout must be positive")
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	if c.VocabularyPath != "" {
		if _, err := os.Stat(c.VocabularyPath); err != nil {
			return fmt.Errorf("cannot access vocabulary file %s: %w", c.VocabularyPath, err)
		}
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, PDFDirectory: %s, OutputPath: %s, Workers: %d, MinFields: %d, LogLevel: %s, MaxFileSize: %d}",
		c.Mode, c.PDFDirectory, c.OutputPath, c.Workers, c.MinFields, c.LogLevel, c.MaxFileSize)
}

// IsBatchMode returns true if the tool runs a batch export
func (c *Config) IsBatchMode() bool {
	return c.Mode == ModeBatch
}

// IsStdioMode returns true if the tool runs the MCP server
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}
