package importer

// workbook.go reads uploaded workbooks into a Sheet: the header row plus the
// ordered data rows of the first worksheet. Only the first worksheet is ever
// read; the header row defines the column-to-field mapping by exact header
// text.

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Sheet is a parsed worksheet: row 1 as headers, every following row as data.
type Sheet struct {
	Headers []string
	Rows    [][]string
}

// HeaderIndex maps cleaned, lowercased header text to its column position.
type HeaderIndex map[string]int

// ParseWorkbook reads the first worksheet of an xlsx workbook. This is the
// one entry point that returns an error to the caller: an upload that cannot
// be opened as a workbook at all is a catastrophic condition, not a row
// error.
func ParseWorkbook(r io.Reader) (*Sheet, error) {
	wb, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no worksheets")
	}

	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read worksheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return &Sheet{}, nil
	}

	return &Sheet{Headers: rows[0], Rows: rows[1:]}, nil
}

// Index builds the header lookup for the sheet.
func (s *Sheet) Index() HeaderIndex {
	idx := make(HeaderIndex, len(s.Headers))
	for i, h := range s.Headers {
		key := strings.ToLower(CleanCell(h))
		if key == "" {
			continue
		}
		if _, exists := idx[key]; !exists {
			idx[key] = i
		}
	}
	return idx
}

// CleanCell strips common spreadsheet artifacts from a cell value: outer
// whitespace, Excel formula-literal prefixes (="value"), and stray
// surrounding quotes.
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, `="`) && strings.HasSuffix(s, `"`) {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	s = strings.Trim(s, `"'`)
	return strings.TrimSpace(s)
}

// cell returns the cleaned value at the given column, or "" when the row is
// shorter than the header row.
func cell(row []string, pos int) string {
	if pos < 0 || pos >= len(row) {
		return ""
	}
	return CleanCell(row[pos])
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
