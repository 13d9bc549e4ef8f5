package extract

import (
	"bytes"
	"context"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"flowpulse-docparse/internal/domain"
)

// TextExtractor reads plain text and markdown verbatim.
type TextExtractor struct{}

func NewTextExtractor() *TextExtractor {
	return &TextExtractor{}
}

func (TextExtractor) Extract(_ context.Context, file *domain.InputFile) (*Result, error) {
	return &Result{Text: decodeText(file.Data)}, nil
}

// decodeText drops invalid UTF-8 and returns NFC-normalised text.
func decodeText(b []byte) string {
	b = bytes.TrimPrefix(b, []byte("\xef\xbb\xbf"))
	return norm.NFC.String(string(bytes.ToValidUTF8(b, nil)))
}

// sanitizeText removes NUL and other control characters except tab, newline
// and carriage return. Postgres rejects NUL in text and jsonb (22P05).
func sanitizeText(text string) string {
	var result strings.Builder
	result.Grow(len(text))

	for _, r := range text {
		switch {
		case r == '\t' || r == '\n' || r == '\r':
			result.WriteRune(r)
		case r < 0x20 || r == 0x7F || r == utf8.RuneError:
		default:
			result.WriteRune(r)
		}
	}
	return norm.NFC.String(result.String())
}
