package extract

import (
	"context"
	"time"

	"flowpulse-docparse/internal/domain"
)

// Result is the raw output of one extractor.
type Result struct {
	Text string
	// Tables is nil unless the format carries its own grid structure.
	Tables    []domain.Table
	PageCount *int
	HasImages bool
	Language  string
}

// Extractor converts the bytes of one format into text.
type Extractor interface {
	Extract(ctx context.Context, file *domain.InputFile) (*Result, error)
}

// Registry dispatches a file to exactly one extractor.
type Registry struct {
	extractors map[Format]Extractor
	logger     domain.Logger
}

// NewRegistry creates a registry with every built-in extractor. Images are
// routed to OCR through provider.
func NewRegistry(logger domain.Logger, provider OCRProvider) *Registry {
	return &Registry{
		logger: logger,
		extractors: map[Format]Extractor{
			FormatPDF:   NewPDFExtractor(logger),
			FormatDOCX:  NewWordExtractor(logger),
			FormatXLSX:  NewSpreadsheetExtractor(FormatXLSX, logger),
			FormatXLS:   NewSpreadsheetExtractor(FormatXLS, logger),
			FormatCSV:   NewSpreadsheetExtractor(FormatCSV, logger),
			FormatPPTX:  NewPresentationExtractor(logger),
			FormatImage: NewImageExtractor(provider, logger),
			FormatText:  NewTextExtractor(),
			FormatHTML:  NewHTMLExtractor(),
			FormatEPUB:  NewEPUBExtractor(logger),
		},
	}
}

// Register replaces the extractor for a format.
func (r *Registry) Register(format Format, e Extractor) {
	r.extractors[format] = e
}

// Extract detects the file format and runs the matching extractor.
func (r *Registry) Extract(ctx context.Context, file *domain.InputFile) (Format, *Result, error) {
	format, err := Detect(file.MIMEType, file.Name, file.Data)
	if err != nil {
		r.logger.Warn("No extractor for file", "file_name", file.Name, "mime_type", file.MIMEType)
		return "", nil, err
	}

	e, ok := r.extractors[format]
	if !ok {
		return "", nil, unsupported(file)
	}

	start := time.Now()
	res, err := e.Extract(ctx, file)
	if err != nil {
		r.logger.Error("Extraction failed", err, "file_name", file.Name, "format", format)
		return format, nil, err
	}
	r.logger.Debug("Extraction finished",
		"file_name", file.Name,
		"format", format,
		"chars", len(res.Text),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return format, res, nil
}
