package importer

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// TemplateSheetName is the worksheet name in generated import templates.
const TemplateSheetName = "Units"

// BuildTemplate generates a header-only workbook matching the canonical
// import column layout.
func BuildTemplate() ([]byte, error) {
	wb := excelize.NewFile()
	defer wb.Close()

	sheet := wb.GetSheetName(0)
	if err := wb.SetSheetName(sheet, TemplateSheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	for i, header := range TemplateHeaders() {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("header cell %d: %w", i, err)
		}
		if err := wb.SetCellStr(TemplateSheetName, cell, header); err != nil {
			return nil, fmt.Errorf("write header %q: %w", header, err)
		}
	}

	var buf bytes.Buffer
	if err := wb.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
