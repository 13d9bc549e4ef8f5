package extract

import (
	"context"
	"fmt"
	"strings"

	"flowpulse-docparse/internal/domain"
	apperrors "flowpulse-docparse/pkg/errors"
)

// ImageExtractor recognises text in an image. Slow: dominated by the OCR
// engine.
type ImageExtractor struct {
	provider OCRProvider
	logger   domain.Logger
}

func NewImageExtractor(provider OCRProvider, logger domain.Logger) *ImageExtractor {
	return &ImageExtractor{provider: provider, logger: logger}
}

func (e *ImageExtractor) Extract(ctx context.Context, file *domain.InputFile) (*Result, error) {
	if e.provider == nil {
		return nil, apperrors.NewOCRError(fmt.Errorf("%w: no OCR engine configured", domain.ErrOCRFailure))
	}

	session, err := e.provider.Acquire(ctx)
	if err != nil {
		return nil, e.fail(ctx, err)
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			e.logger.Warn("Failed to release OCR engine", "file_name", file.Name, "error", cerr)
		}
	}()

	text, err := session.Recognize(ctx, file.Data)
	if err != nil {
		return nil, e.fail(ctx, err)
	}

	return &Result{
		Text:      strings.TrimSpace(sanitizeText(text)),
		HasImages: true,
		Language:  e.provider.Language(),
	}, nil
}

func (e *ImageExtractor) fail(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return apperrors.NewTimeoutError(string(FormatImage), ctx.Err())
	}
	return apperrors.NewOCRError(fmt.Errorf("%w: %v", domain.ErrOCRFailure, err))
}
