package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"flowpulse-docparse/internal/domain"
	apperrors "flowpulse-docparse/pkg/errors"
)

// PDFExtractor reads the text layer of a PDF page by page.
type PDFExtractor struct {
	logger domain.Logger
}

// NewPDFExtractor creates a new PDF extractor
func NewPDFExtractor(logger domain.Logger) *PDFExtractor {
	return &PDFExtractor{logger: logger}
}

type pageResult struct {
	text string
	err  error
}

// Extract walks every page in order and prefixes each with a page marker.
// A PDF that cannot be opened or needs a password is reported, never skipped.
func (p *PDFExtractor) Extract(ctx context.Context, file *domain.InputFile) (*Result, error) {
	doc, err := fitz.NewFromMemory(file.Data)
	if err != nil {
		if doc != nil {
			doc.Close()
		}
		if errors.Is(err, fitz.ErrNeedsPassword) {
			return nil, apperrors.NewCorruptOrEncryptedError(string(FormatPDF), fmt.Errorf("%w: password required", domain.ErrCorruptOrEncrypted))
		}
		return nil, apperrors.NewCorruptOrEncryptedError(string(FormatPDF), fmt.Errorf("%w: %v", domain.ErrCorruptOrEncrypted, err))
	}

	// A page read abandoned on timeout still holds doc; it closes the
	// document itself once it returns.
	closeDoc := true
	defer func() {
		if closeDoc {
			doc.Close()
		}
	}()

	numPages := doc.NumPage()
	var sb strings.Builder

	for pageNum := 0; pageNum < numPages; pageNum++ {
		p.logger.Debug("PDF processing page", "page", pageNum+1, "total", numPages)

		resultCh := make(chan pageResult, 1)
		go func(idx int) {
			t, e := doc.Text(idx)
			resultCh <- pageResult{text: t, err: e}
		}(pageNum)

		var res pageResult
		select {
		case res = <-resultCh:
		case <-ctx.Done():
			closeDoc = false
			go func() {
				<-resultCh
				doc.Close()
			}()
			p.logger.Warn("PDF extraction cancelled", "page", pageNum+1, "total", numPages)
			return nil, apperrors.NewTimeoutError(string(FormatPDF), ctx.Err())
		}

		if res.err != nil {
			p.logger.Warn("Failed to extract text from page", "page_num", pageNum+1, "total", numPages, "error", res.err)
		}

		if pageNum > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "--- Page %d ---\n", pageNum+1)
		sb.WriteString(strings.TrimSpace(sanitizeText(res.text)))
	}

	pages := numPages
	return &Result{
		Text:      sb.String(),
		PageCount: &pages,
		HasImages: p.hasImages(file.Data),
	}, nil
}

// hasImages reports whether pdfcpu finds any image XObject. A document
// pdfcpu cannot read counts as having none.
func (p *PDFExtractor) hasImages(data []byte) (found bool) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Warn("pdfcpu image scan panicked", "panic", fmt.Sprint(r))
			found = false
		}
	}()

	pdfCtx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), model.NewDefaultConfiguration())
	if err != nil {
		p.logger.Debug("pdfcpu could not read document", "error", err)
		return false
	}
	return containsImageXObject(pdfCtx)
}

// containsImageXObject checks the per-page image index built by the
// optimiser, then any stream object whose Subtype is Image.
func containsImageXObject(pdfCtx *model.Context) bool {
	if pdfCtx.Optimize != nil {
		for pageNr := 1; pageNr <= pdfCtx.PageCount; pageNr++ {
			if len(pdfcpu.ImageObjNrs(pdfCtx, pageNr)) > 0 {
				return true
			}
		}
	}
	for _, entry := range pdfCtx.Table {
		if entry == nil || entry.Free || entry.Compressed {
			continue
		}
		if sd, ok := entry.Object.(types.StreamDict); ok && isImageStream(sd) {
			return true
		}
	}
	return false
}

func isImageStream(sd types.StreamDict) bool {
	subtype := sd.NameEntry("Subtype")
	return subtype != nil && *subtype == "Image"
}
