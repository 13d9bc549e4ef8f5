package analysis

import (
	"regexp"
	"strings"

	"flowpulse-docparse/internal/domain"
)

var separatorCell = regexp.MustCompile(`^:?-+:?$`)

// ExtractTablesFromText reconstructs tables from raw text.
//
// Markdown rows (a line starting and ending with "|") and tab rows (a line
// with at least two tabs) feed a single accumulator. The first line that is
// neither closes the open table. Adjacent unrelated tab-heavy lines end up in
// the same table. Never returns nil.
func ExtractTablesFromText(content string) []domain.Table {
	tables := []domain.Table{}
	var current domain.Table
	inTable := false

	flush := func() {
		if inTable && len(current) > 0 {
			tables = append(tables, current)
		}
		current = nil
		inTable = false
	}

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimRight(line, "\r")

		if cells, ok := markdownRow(line); ok {
			inTable = true
			if len(cells) > 0 {
				current = append(current, cells)
			}
			continue
		}
		if strings.Count(line, "\t") >= 2 {
			inTable = true
			current = append(current, tabRow(line))
			continue
		}
		if inTable {
			flush()
		}
	}
	flush()

	return tables
}

// markdownRow returns the data cells of a markdown row. A separator line is
// a row with no cells.
func markdownRow(line string) ([]string, bool) {
	trimmed := strings.TrimSpace(line)
	if len(trimmed) < 2 || !strings.HasPrefix(trimmed, "|") || !strings.HasSuffix(trimmed, "|") {
		return nil, false
	}

	var cells []string
	for _, seg := range strings.Split(trimmed, "|") {
		seg = strings.TrimSpace(seg)
		if seg == "" || separatorCell.MatchString(seg) {
			continue
		}
		cells = append(cells, seg)
	}
	return cells, true
}

func tabRow(line string) []string {
	parts := strings.Split(line, "\t")
	cells := make([]string, len(parts))
	for i, p := range parts {
		cells[i] = strings.TrimSpace(p)
	}
	return cells
}
