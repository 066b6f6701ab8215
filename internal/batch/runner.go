package batch

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/trialscan/ctri-extract/internal/export"
	"github.com/trialscan/ctri-extract/internal/extract"
)

// DocumentSource lists the documents of a batch run and reads one
// document's extracted content.
type DocumentSource interface {
	List() ([]string, error)
	Read(path string) ([]string, []extract.TableGrid, error)
}

// RecordFetcher retrieves a trial record from the registry website. It is
// the fallback for documents whose PDF extraction came up short.
type RecordFetcher interface {
	FetchRecordByNumber(ctx context.Context, ctriNumber string) (*extract.Record, error)
}

// Config controls one batch run.
type Config struct {
	// OutputPath is the export CSV.
	OutputPath string
	// FailedPath receives the list of documents that could not be
	// processed, one path per line. Empty disables the list.
	FailedPath string
	// Workers is the number of concurrent extraction workers.
	Workers int
	// MinFields is the populated-field threshold below which a PDF
	// extraction is considered too thin and the scrape fallback runs.
	MinFields int
	// SaveEvery flushes the export after this many written records.
	SaveEvery int
	// Resume skips documents whose CTRI number is already in the export.
	Resume bool
}

// Result summarizes a batch run.
type Result struct {
	Total     int
	Written   int
	Skipped   int
	Failed    int
	Fallbacks int
	Duration  time.Duration

	FailedDocuments []string
}

// Runner drives the extraction of a document set into one CSV export:
// a bounded worker pool over independent documents, de-duplication by
// CTRI number, periodic progress saves and the scrape fallback.
type Runner struct {
	cfg     Config
	source  DocumentSource
	engine  *extract.Engine
	fetcher RecordFetcher
	logger  *log.Logger
}

// NewRunner creates a batch runner. fetcher may be nil to disable the
// scrape fallback; logger may be nil for the default logger.
func NewRunner(cfg Config, source DocumentSource, engine *extract.Engine, fetcher RecordFetcher, logger *log.Logger) (*Runner, error) {
	if cfg.OutputPath == "" {
		return nil, fmt.Errorf("output path cannot be empty")
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.SaveEvery < 1 {
		cfg.SaveEvery = 25
	}
	if engine == nil {
		engine = extract.NewEngine()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		cfg:     cfg,
		source:  source,
		engine:  engine,
		fetcher: fetcher,
		logger:  logger,
	}, nil
}

// job is one document handed to a worker.
type job struct {
	path string
}

// outcome is one worker's result for a document.
type outcome struct {
	path     string
	record   *extract.Record
	fallback bool
	err      error
}

// Run processes every document from the source. Individual document
// failures are recorded, not fatal; the run only fails on setup or
// export errors, or when the context is cancelled.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	start := time.Now()

	paths, err := r.source.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	result := &Result{Total: len(paths)}

	seen := make(map[string]bool)
	if r.cfg.Resume {
		previous, err := export.ReadCTRINumbers(r.cfg.OutputPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read previous export: %w", err)
		}
		seen = previous
		if len(seen) > 0 {
			r.logger.Printf("resuming: %d records already exported", len(seen))
		}
	}

	writer, err := r.openWriter()
	if err != nil {
		return nil, err
	}
	defer writer.Close()

	if len(paths) == 0 {
		result.Duration = time.Since(start)
		return result, nil
	}

	jobs := make(chan job, r.cfg.Workers*2)
	outcomes := make(chan outcome, r.cfg.Workers*2)

	var wg sync.WaitGroup
	for i := 0; i < r.cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				outcomes <- r.process(ctx, j.path)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, path := range paths {
			select {
			case jobs <- job{path: path}:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	sinceFlush := 0
	for out := range outcomes {
		if err := ctx.Err(); err != nil {
			// Drain remaining outcomes so the workers can exit.
			for range outcomes {
			}
			return nil, err
		}

		if out.err != nil {
			result.Failed++
			result.FailedDocuments = append(result.FailedDocuments, out.path)
			r.logger.Printf("failed %s: %v", out.path, out.err)
			continue
		}
		if out.fallback {
			result.Fallbacks++
		}

		ctri := out.record.Get(extract.FieldCTRINumber)
		if ctri != "" && seen[ctri] {
			result.Skipped++
			r.logger.Printf("skipping duplicate %s (%s)", ctri, out.path)
			continue
		}
		if ctri != "" {
			seen[ctri] = true
		}

		if err := writer.Write(out.record); err != nil {
			return nil, err
		}
		result.Written++
		sinceFlush++

		if sinceFlush >= r.cfg.SaveEvery {
			if err := writer.Flush(); err != nil {
				return nil, err
			}
			sinceFlush = 0
			r.logger.Printf("progress: %d/%d written", result.Written, result.Total)
		}
	}

	if err := r.writeFailedList(result.FailedDocuments); err != nil {
		return nil, err
	}

	result.Duration = time.Since(start)
	r.logger.Printf("batch done: %d written, %d skipped, %d failed, %d fallbacks in %s",
		result.Written, result.Skipped, result.Failed, result.Fallbacks, result.Duration.Round(time.Millisecond))
	return result, nil
}

// process extracts one document and applies the fallback policy.
func (r *Runner) process(ctx context.Context, path string) outcome {
	lines, grids, err := r.source.Read(path)
	if err != nil {
		return outcome{path: path, err: err}
	}

	record := r.engine.Extract(lines, grids)
	if r.fetcher == nil || r.cfg.MinFields <= 0 || record.PopulatedCount() >= r.cfg.MinFields {
		return outcome{path: path, record: record}
	}

	ctri := record.Get(extract.FieldCTRINumber)
	if ctri == "" {
		// Nothing to look up; keep the thin record.
		return outcome{path: path, record: record}
	}

	scraped, err := r.fetcher.FetchRecordByNumber(ctx, ctri)
	if err != nil {
		r.logger.Printf("fallback fetch failed for %s: %v", ctri, err)
		return outcome{path: path, record: record}
	}
	if scraped.PopulatedCount() > record.PopulatedCount() {
		return outcome{path: path, record: scraped, fallback: true}
	}
	return outcome{path: path, record: record}
}

func (r *Runner) openWriter() (*export.Writer, error) {
	if r.cfg.Resume {
		return export.OpenAppend(r.cfg.OutputPath)
	}
	return export.NewWriter(r.cfg.OutputPath)
}

func (r *Runner) writeFailedList(failed []string) error {
	if r.cfg.FailedPath == "" || len(failed) == 0 {
		return nil
	}
	content := strings.Join(failed, "\n") + "\n"
	if err := os.WriteFile(r.cfg.FailedPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write failed-document list: %w", err)
	}
	return nil
}
