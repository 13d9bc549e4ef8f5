package domain

import (
	"path/filepath"
	"strings"
)

// InputFile is an uploaded file handed to the parser.
type InputFile struct {
	Name     string
	MIMEType string
	Data     []byte
}

// Size returns the number of bytes in the file.
func (f *InputFile) Size() int64 {
	return int64(len(f.Data))
}

// Ext returns the lowercased filename extension including the dot.
func (f *InputFile) Ext() string {
	return strings.ToLower(filepath.Ext(f.Name))
}

// Validate checks the fields every parse call relies on.
func (f *InputFile) Validate(maxSize int64) error {
	if strings.TrimSpace(f.Name) == "" {
		return &ValidationError{Field: "name", Message: "file name is required"}
	}
	if len(f.Data) == 0 {
		return ErrEmptyFile
	}
	if maxSize > 0 && f.Size() > maxSize {
		return ErrFileTooLarge
	}
	return nil
}
