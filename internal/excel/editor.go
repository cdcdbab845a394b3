package excel

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

type Editor struct {
	file     *excelize.File
	filepath string
}

// OpenFile opens an existing Excel file
func OpenFile(filepath string) (*Editor, error) {
	file, err := excelize.OpenFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return &Editor{
		file:     file,
		filepath: filepath,
	}, nil
}

// GetSheetNames returns all sheet names in the workbook
func (e *Editor) GetSheetNames() []string {
	return e.file.GetSheetList()
}

// HasSheet reports whether a sheet with the exact name exists.
func (e *Editor) HasSheet(sheet string) bool {
	idx, err := e.file.GetSheetIndex(sheet)
	return err == nil && idx >= 0
}

// EnsureSheet returns true if the sheet had to be created.
func (e *Editor) EnsureSheet(sheet string) (bool, error) {
	if e.HasSheet(sheet) {
		return false, nil
	}
	if _, err := e.file.NewSheet(sheet); err != nil {
		return false, fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}
	return true, nil
}

// ClearSheet removes every row of a sheet, keeping the sheet itself.
func (e *Editor) ClearSheet(sheet string) error {
	rows, err := e.GetAllRows(sheet)
	if err != nil {
		return fmt.Errorf("failed to get rows: %w", err)
	}
	for i := len(rows); i >= 1; i-- {
		if err := e.file.RemoveRow(sheet, i); err != nil {
			return fmt.Errorf("failed to remove row %d: %w", i, err)
		}
	}
	return nil
}

// SetCellValueAt sets a value by 1-based row and column.
func (e *Editor) SetCellValueAt(sheet string, row, col int, value interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return e.file.SetCellValue(sheet, cell, value)
}

// SetCellValueSmart sets a cell value, storing numeric text as a number.
// Empty text clears the cell.
func (e *Editor) SetCellValueSmart(sheet string, row, col int, value string) error {
	return e.SetCellValueAt(sheet, row, col, parseCellValue(value))
}

// WriteRows writes rows starting at (startRow, startCol). The first
// headerRows rows are written as plain text. Data rows narrower than the
// first row are padded with empty cells so the whole block is overwritten.
func (e *Editor) WriteRows(sheet string, startRow, startCol int, rows [][]string, headerRows int) error {
	width := 0
	if len(rows) > 0 {
		width = len(rows[0])
	}
	for r, row := range rows {
		if r >= headerRows && len(row) < width {
			row = append(slices.Clone(row), make([]string, width-len(row))...)
		}
		for c, value := range row {
			var err error
			if r < headerRows {
				err = e.SetCellValueAt(sheet, startRow+r, startCol+c, value)
			} else {
				err = e.SetCellValueSmart(sheet, startRow+r, startCol+c, value)
			}
			if err != nil {
				return fmt.Errorf("failed to write row %d column %d: %w", startRow+r, startCol+c, err)
			}
		}
	}
	return nil
}

// GetAllRows returns all rows from a sheet
func (e *Editor) GetAllRows(sheet string) ([][]string, error) {
	return e.file.GetRows(sheet)
}

// Save saves the Excel file to the original filepath
func (e *Editor) Save() error {
	if e.filepath == "" {
		return fmt.Errorf("no filepath specified, use SaveAs instead")
	}
	return e.SaveAs(e.filepath)
}

// SaveAs saves the Excel file with a new name
func (e *Editor) SaveAs(filepath string) error {
	e.filepath = filepath
	return e.file.SaveAs(filepath)
}

// Close closes the Excel file
func (e *Editor) Close() error {
	return e.file.Close()
}

// parseCellValue converts CSV text to the value a cell should hold:
// int64 or float64 for numeric text, nil for empty text, else the string.
func parseCellValue(value string) interface{} {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}

	if intVal, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return intVal
	}

	if floatVal, err := strconv.ParseFloat(trimmed, 64); err == nil && !isSpecialFloat(trimmed) {
		return floatVal
	}

	return value
}

// isSpecialFloat rejects spellings ParseFloat accepts that should stay text.
func isSpecialFloat(s string) bool {
	lower := strings.ToLower(strings.TrimLeft(s, "+-"))
	return strings.HasPrefix(lower, "inf") || lower == "nan" || strings.HasPrefix(lower, "0x")
}
