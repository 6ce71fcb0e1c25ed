package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
)

type Config struct {
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	Lang        string // default "eng"
	TessdataDir string
	PSM         int // e.g., 6 is good for uniform block of text
}

// Result carries the outcome of one extraction.
type Result struct {
	JobID    uuid.UUID
	Text     string // whitespace-normalized tesseract output
	Cleaned  string // Text reshaped for the order parser, or Text verbatim
	Duration time.Duration
	Warnings []string
}

// Extractor runs tesseract against a prepared image.
type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Lang == "" {
		cfg.Lang = "eng"
	}
	return &Extractor{cfg: cfg, runner: execRunner{logger: logger}, logger: logger}
}

// Extract OCRs the image at path. Images carrying an alpha channel are
// first composited onto a white background; a preparation failure is a
// warning, not an error, and OCR proceeds on the original file.
func (e *Extractor) Extract(ctx context.Context, path string) (Result, error) {
	start := time.Now()
	jobID := uuid.New()
	e.logger.Debug("starting ocr extraction", "job_id", jobID, "path", path)

	var warnings []string
	prepared, cleanup, err := PrepareImage(path)
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("image preparation: %v", err))
		prepared = path
	}
	if cleanup != nil {
		defer cleanup()
	}

	args := []string{prepared, "stdout", "-l", e.cfg.Lang}
	if e.cfg.PSM > 0 {
		args = append(args, "--psm", strconv.Itoa(e.cfg.PSM))
	}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}

	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		return Result{JobID: jobID, Warnings: append(warnings, string(errb)), Duration: time.Since(start)},
			fmt.Errorf("tesseract: %w", err)
	}

	text := NormalizeWhitespace(string(out))
	res := Result{
		JobID:    jobID,
		Text:     text,
		Cleaned:  CleanOrderText(text),
		Duration: time.Since(start),
		Warnings: warnings,
	}
	e.logger.Info("ocr extraction complete",
		"job_id", jobID, "path", path,
		"text_bytes", len(res.Text), "duration_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}
