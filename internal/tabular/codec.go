// Package tabular adapts the spreadsheet container codec to the unit model
// used by extraction, translation, and export. Decoding and encoding are
// deterministic and involve no AI: sheet order and cell content pass through
// verbatim.
package tabular

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/mikael-ade/transdoc/internal/models"
)

// Decode reads an xlsx workbook into named sheets, preserving workbook sheet
// order. Ragged rows come back as-is; no padding is applied.
func Decode(data []byte) ([]models.Sheet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	names := f.GetSheetList()
	sheets := make([]models.Sheet, 0, len(names))
	for _, name := range names {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", name, err)
		}
		sheets = append(sheets, models.Sheet{Name: name, Rows: rows})
	}
	return sheets, nil
}

// Encode writes the given sheets into a fresh xlsx workbook, one sheet per
// unit in slice order.
func Encode(sheets []models.Sheet) ([]byte, error) {
	if len(sheets) == 0 {
		return nil, fmt.Errorf("encode workbook: no sheets")
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, s := range sheets {
		if i == 0 {
			// Reuse the default sheet so the workbook has no stray "Sheet1".
			if err := f.SetSheetName(f.GetSheetName(0), s.Name); err != nil {
				return nil, fmt.Errorf("name sheet %q: %w", s.Name, err)
			}
		} else {
			if _, err := f.NewSheet(s.Name); err != nil {
				return nil, fmt.Errorf("create sheet %q: %w", s.Name, err)
			}
		}
		for r, row := range s.Rows {
			for c, val := range row {
				cell, err := excelize.CoordinatesToCellName(c+1, r+1)
				if err != nil {
					return nil, fmt.Errorf("cell coordinates (%d,%d): %w", c+1, r+1, err)
				}
				if err := f.SetCellValue(s.Name, cell, val); err != nil {
					return nil, fmt.Errorf("write cell %s!%s: %w", s.Name, cell, err)
				}
			}
		}
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}
