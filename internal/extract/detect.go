package extract

import (
	"bytes"
	"mime"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"

	"flowpulse-docparse/internal/domain"
	apperrors "flowpulse-docparse/pkg/errors"
)

// Format names the extractor chosen for a file.
type Format string

const (
	FormatPDF   Format = "pdf"
	FormatDOCX  Format = "docx"
	FormatXLSX  Format = "xlsx"
	FormatXLS   Format = "xls"
	FormatCSV   Format = "csv"
	FormatPPTX  Format = "pptx"
	FormatImage Format = "image"
	FormatText  Format = "text"
	FormatHTML  Format = "html"
	FormatEPUB  Format = "epub"
)

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimeXLS  = "application/vnd.ms-excel"
	mimePPTX = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	mimeEPUB = "application/epub+zip"
)

var mimeFormats = map[string]Format{
	mimePDF:           FormatPDF,
	mimeDOCX:          FormatDOCX,
	mimeXLSX:          FormatXLSX,
	mimeXLS:           FormatXLS,
	"text/csv":        FormatCSV,
	mimePPTX:          FormatPPTX,
	"text/plain":      FormatText,
	"text/markdown":   FormatText,
	"text/x-markdown": FormatText,
	"text/html":       FormatHTML,
	mimeEPUB:          FormatEPUB,
}

var extFormats = map[string]Format{
	".pdf":  FormatPDF,
	".docx": FormatDOCX,
	".xlsx": FormatXLSX,
	".xls":  FormatXLS,
	".csv":  FormatCSV,
	".pptx": FormatPPTX,
	".txt":  FormatText,
	".md":   FormatText,
	".html": FormatHTML,
	".htm":  FormatHTML,
	".epub": FormatEPUB,
}

// Detect picks a format by declared MIME type, then file extension, then
// sniffed content, and finally accepts valid UTF-8 as plain text.
func Detect(mimeType, fileName string, data []byte) (Format, error) {
	if f, ok := formatForMIME(mimeType); ok {
		return f, nil
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	if f, ok := extFormats[ext]; ok {
		return f, nil
	}
	if isImageExt(ext) {
		return FormatImage, nil
	}

	if len(data) > 0 {
		for m := mimetype.Detect(data); m != nil; m = m.Parent() {
			if f, ok := formatForMIME(m.String()); ok {
				return f, nil
			}
		}
	}

	if looksLikeText(data) {
		return FormatText, nil
	}

	return "", apperrors.NewUnsupportedFormatError(mimeType, ext, domain.ErrUnsupportedFormat)
}

func formatForMIME(mimeType string) (Format, bool) {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	if mt == "" {
		return "", false
	}
	if parsed, _, err := mime.ParseMediaType(mt); err == nil {
		mt = parsed
	}
	if f, ok := mimeFormats[mt]; ok {
		return f, true
	}
	if strings.HasPrefix(mt, "image/") {
		return FormatImage, true
	}
	return "", false
}

func isImageExt(ext string) bool {
	switch ext {
	case ".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp":
		return true
	}
	return false
}

func looksLikeText(data []byte) bool {
	return len(data) > 0 && utf8.Valid(data) && bytes.IndexByte(data, 0) < 0
}

func unsupported(file *domain.InputFile) error {
	return apperrors.NewUnsupportedFormatError(file.MIMEType, file.Ext(), domain.ErrUnsupportedFormat)
}

var formatMIMEs = map[Format]string{
	FormatPDF:  mimePDF,
	FormatDOCX: mimeDOCX,
	FormatXLSX: mimeXLSX,
	FormatXLS:  mimeXLS,
	FormatCSV:  "text/csv",
	FormatPPTX: mimePPTX,
	FormatText: "text/plain",
	FormatHTML: "text/html",
	FormatEPUB: mimeEPUB,
}

// MIMEType returns the declared MIME type of file, or a type derived from
// the detected format when none was declared.
func MIMEType(file *domain.InputFile, format Format) string {
	if mt := strings.TrimSpace(file.MIMEType); mt != "" && mt != "application/octet-stream" {
		return mt
	}
	if format == FormatImage {
		return mimetype.Detect(file.Data).String()
	}
	if mt, ok := formatMIMEs[format]; ok {
		return mt
	}
	return "application/octet-stream"
}
