// Package convert orchestrates a full document run: load, classify,
// extract, apply master data, and optionally render the workbook. It is
// the single entry point shared by the CLI and the MCP tools.
package convert

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/quoteparse/quote-extractor/internal/engine"
	"github.com/quoteparse/quote-extractor/internal/master"
	"github.com/quoteparse/quote-extractor/internal/render"
)

// Source supplies document line streams. Satisfied by docsource.Loader.
type Source interface {
	Load(path string) (*engine.RawDocument, error)
	LastPageText(path string) (string, error)
}

// Outcome summarizes one completed run.
type Outcome struct {
	JobID      string
	Kind       engine.TemplateKind
	Items      int
	Report     engine.ExtractionReport
	Header     engine.HeaderInfo
	Result     *engine.Result
	OutputPath string
}

// Service runs extractions end to end.
type Service struct {
	source Source
	engine *engine.Engine
	logger *slog.Logger
}

// NewService creates a conversion service. A nil logger falls back to
// slog.Default().
func NewService(source Source, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		source: source,
		engine: engine.New(logger),
		logger: logger,
	}
}

// ExtractFile loads and extracts one document. masterPath may be empty, in
// which case descriptions are left as extracted.
func (s *Service) ExtractFile(path, masterPath string) (*Outcome, error) {
	jobID := uuid.New().String()
	logger := s.logger.With("job_id", jobID, "path", path)

	doc, err := s.source.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}

	res, err := s.engine.Extract(doc)
	if err != nil {
		return nil, fmt.Errorf("extraction failed for %s: %w", path, err)
	}

	if masterPath != "" {
		mapping, err := master.Load(masterPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load master data: %w", err)
		}
		changes := master.Correct(res.Records, mapping, logger)
		master.CorrectGroups(res.Groups, mapping, logger)
		logger.Info("applied master data", "entries", len(mapping), "changes", len(changes))
	}

	logger.Info("extraction complete",
		"kind", res.Kind, "items", res.Items(), "records", len(res.Records))

	return &Outcome{
		JobID:  jobID,
		Kind:   res.Kind,
		Items:  res.Items(),
		Report: res.Report,
		Header: res.Header,
		Result: res,
	}, nil
}

// ConvertFile extracts the document and writes the styled workbook to
// outputPath.
func (s *Service) ConvertFile(inputPath, outputPath, masterPath string) (*Outcome, error) {
	out, err := s.ExtractFile(inputPath, masterPath)
	if err != nil {
		return nil, err
	}

	terms, err := s.source.LastPageText(inputPath)
	if err != nil {
		// terms are decorative; a failure here must not void the run
		s.logger.Warn("could not read terms page", "job_id", out.JobID, "error", err)
		terms = ""
	}

	if err := render.WriteFile(out.Result, terms, outputPath); err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}
	out.OutputPath = outputPath

	s.logger.Info("workbook written", "job_id", out.JobID, "output", outputPath)
	return out, nil
}

// ClassifyFile reports the template kind and per-layout boundary counts
// without extracting records.
func (s *Service) ClassifyFile(path string) (engine.TemplateKind, map[engine.TemplateKind]int, error) {
	doc, err := s.source.Load(path)
	if err != nil {
		return engine.TemplateUnknown, nil, fmt.Errorf("failed to load document: %w", err)
	}
	counts := engine.BoundaryCounts(doc)
	kind, err := engine.Classify(doc)
	if err != nil {
		return engine.TemplateUnknown, counts, err
	}
	return kind, counts, nil
}
