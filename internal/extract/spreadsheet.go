package extract

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"flowpulse-docparse/internal/domain"
	apperrors "flowpulse-docparse/pkg/errors"
)

// SpreadsheetExtractor handles XLSX, XLS and CSV. The grids are returned as
// tables directly since their structure is already known.
type SpreadsheetExtractor struct {
	format Format
	logger domain.Logger
}

// NewSpreadsheetExtractor creates an extractor for one of FormatXLSX,
// FormatXLS or FormatCSV.
func NewSpreadsheetExtractor(format Format, logger domain.Logger) *SpreadsheetExtractor {
	return &SpreadsheetExtractor{format: format, logger: logger}
}

type sheet struct {
	name string
	rows [][]string
}

func (s *SpreadsheetExtractor) Extract(ctx context.Context, file *domain.InputFile) (*Result, error) {
	format := s.format
	var sheets []sheet
	var err error

	if format == FormatCSV {
		sheets, err = readCSV(file)
	} else {
		sheets, err = s.readWorkbook(ctx, file)
	}
	if err != nil {
		if ctx.Err() != nil {
			return nil, apperrors.NewTimeoutError(string(format), ctx.Err())
		}
		return nil, apperrors.NewParseError(string(format), fmt.Errorf("%w: %v", domain.ErrParse, err))
	}

	var sb strings.Builder
	tables := make([]domain.Table, 0, len(sheets))
	for i, sh := range sheets {
		grid := padRows(sh.rows)
		tables = append(tables, grid)

		if i > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "--- Sheet: %s ---", sh.name)
		for _, row := range grid {
			sb.WriteString("\n")
			sb.WriteString(strings.Join(row, "\t"))
		}
	}

	return &Result{Text: sb.String(), Tables: tables}, nil
}

func (s *SpreadsheetExtractor) readWorkbook(ctx context.Context, file *domain.InputFile) ([]sheet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(file.Data))
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			s.logger.Warn("Failed to close workbook", "file_name", file.Name, "error", cerr)
		}
	}()

	names := f.GetSheetList()
	out := make([]sheet, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("sheet %q: %w", name, err)
		}
		out = append(out, sheet{name: name, rows: rows})
	}
	return out, nil
}

func readCSV(file *domain.InputFile) ([]sheet, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(file.Data, []byte("\xef\xbb\xbf"))))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	name := strings.TrimSuffix(filepath.Base(file.Name), filepath.Ext(file.Name))
	if name == "" {
		name = "Sheet1"
	}
	return []sheet{{name: name, rows: rows}}, nil
}

// padRows makes every row as wide as the widest one.
func padRows(rows [][]string) domain.Table {
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	grid := make(domain.Table, len(rows))
	for i, row := range rows {
		cells := make([]string, width)
		copy(cells, row)
		grid[i] = cells
	}
	return grid
}
