package extract

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"code.sajari.com/docconv/v2"

	"flowpulse-docparse/internal/domain"
	apperrors "flowpulse-docparse/pkg/errors"
)

// WordExtractor returns the raw text of a DOCX document.
type WordExtractor struct {
	logger domain.Logger
}

func NewWordExtractor(logger domain.Logger) *WordExtractor {
	return &WordExtractor{logger: logger}
}

func (w *WordExtractor) Extract(ctx context.Context, file *domain.InputFile) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewTimeoutError(string(FormatDOCX), err)
	}

	body, meta, err := docconv.ConvertDocx(bytes.NewReader(file.Data))
	if err != nil {
		return nil, apperrors.NewParseError(string(FormatDOCX), fmt.Errorf("%w: %v", domain.ErrParse, err))
	}
	w.logger.Debug("DOCX converted", "file_name", file.Name, "text_length", len(body), "meta_keys", len(meta))

	return &Result{Text: strings.TrimSpace(sanitizeText(body))}, nil
}

// PresentationExtractor returns the slide text of a PPTX deck.
type PresentationExtractor struct {
	logger domain.Logger
}

func NewPresentationExtractor(logger domain.Logger) *PresentationExtractor {
	return &PresentationExtractor{logger: logger}
}

func (p *PresentationExtractor) Extract(ctx context.Context, file *domain.InputFile) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewTimeoutError(string(FormatPPTX), err)
	}

	body, _, err := docconv.ConvertPptx(bytes.NewReader(file.Data))
	if err != nil {
		return nil, apperrors.NewParseError(string(FormatPPTX), fmt.Errorf("%w: %v", domain.ErrParse, err))
	}
	p.logger.Debug("PPTX converted", "file_name", file.Name, "text_length", len(body))

	return &Result{Text: strings.TrimSpace(sanitizeText(body))}, nil
}
