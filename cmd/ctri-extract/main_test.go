package main

import (
	"bytes"
	"io"
	"log"
	"os"
	"strings"
	"testing"

	"github.com/trialscan/ctri-extract/internal/config"
)

const (
	testVersion = "1.2.3"
	devVersion  = "dev"
)

func capturePrintVersion(t *testing.T) string {
	t.Helper()

	originalStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create pipe: %v", err)
	}
	os.Stdout = w
	defer func() { os.Stdout = originalStdout }()

	done := make(chan struct{})
	go func() {
		defer close(done)
		printVersion()
		w.Close()
	}()

	var buf bytes.Buffer
	io.Copy(&buf, r)
	<-done

	return buf.String()
}

func TestPrintVersion(t *testing.T) {
	oldVersion := version
	oldBuildTime := buildTime
	oldGitCommit := gitCommit
	defer func() {
		version = oldVersion
		buildTime = oldBuildTime
		gitCommit = oldGitCommit
	}()

	version = testVersion
	buildTime = "2023-12-01_10:30:00"
	gitCommit = "abc123"

	output := capturePrintVersion(t)

	expectedStrings := []string{
		"CTRI Extract",
		"Version: " + testVersion,
		"Build Time: 2023-12-01_10:30:00",
		"Git Commit: abc123",
		"Built with:",
	}

	for _, expected := range expectedStrings {
		if !strings.Contains(output, expected) {
			t.Errorf("printVersion() output missing expected string: %s\nActual output:\n%s", expected, output)
		}
	}
}

func TestPrintVersionWithDefaults(t *testing.T) {
	oldVersion := version
	oldBuildTime := buildTime
	oldGitCommit := gitCommit
	defer func() {
		version = oldVersion
		buildTime = oldBuildTime
		gitCommit = oldGitCommit
	}()

	version = devVersion
	buildTime = "unknown"
	gitCommit = "unknown"

	output := capturePrintVersion(t)

	expectedStrings := []string{
		"CTRI Extract",
		"Version: dev",
		"Build Time: unknown",
		"Git Commit: unknown",
	}

	for _, expected := range expectedStrings {
		if !strings.Contains(output, expected) {
			t.Errorf("printVersion() output missing expected string: %s\nActual output:\n%s", expected, output)
		}
	}
}

func TestSetupLogging_StdioMode(t *testing.T) {
	// Save original log settings
	originalOutput := log.Writer()
	originalFlags := log.Flags()

	defer func() {
		log.SetOutput(originalOutput)
		log.SetFlags(originalFlags)
	}()

	tests := []struct {
		name     string
		wantType string
		config   *config.Config
	}{
		{
			name: "stdio mode - debug enabled",
			config: &config.Config{
				Mode:     config.ModeStdio,
				LogLevel: "debug",
			},
			wantType: "stderr",
		},
		{
			name: "stdio mode - debug disabled",
			config: &config.Config{
				Mode:     config.ModeStdio,
				LogLevel: "info",
			},
			wantType: "devnull",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupLogging(tt.config)

			currentOutput := log.Writer()

			switch tt.wantType {
			case "stderr":
				if currentOutput != os.Stderr {
					t.Errorf("setupLogging() for stdio debug mode should set output to stderr")
				}
			case "devnull":
				if currentOutput == os.Stderr {
					t.Errorf("setupLogging() for stdio non-debug mode should not use stderr")
				}
			}
		})
	}
}

func TestSetupLogging_BatchMode(t *testing.T) {
	originalOutput := log.Writer()
	originalFlags := log.Flags()

	defer func() {
		log.SetOutput(originalOutput)
		log.SetFlags(originalFlags)
	}()

	cfg := &config.Config{
		Mode:     config.ModeBatch,
		LogLevel: "info",
	}
	setupLogging(cfg)

	if log.Flags() != log.LstdFlags {
		t.Errorf("setupLogging() for batch mode should use standard flags, got %d", log.Flags())
	}
}

func TestBuildEngine(t *testing.T) {
	cfg := &config.Config{}
	engine, err := buildEngine(cfg)
	if err != nil {
		t.Fatalf("buildEngine() unexpected error: %v", err)
	}
	if engine == nil {
		t.Fatal("buildEngine() should return a default engine")
	}

	cfg.VocabularyPath = "/nonexistent/vocab.yaml"
	if _, err := buildEngine(cfg); err == nil {
		t.Error("buildEngine() should fail for a missing vocabulary file")
	}
}
