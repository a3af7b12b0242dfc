// Package export renders signal records as an xlsx workbook.
package export

import (
	"bytes"
	"fmt"

	"github.com/newthinker/fxsignals/internal/core"
	"github.com/xuri/excelize/v2"
)

const (
	// SheetName is the single sheet of every exported workbook.
	SheetName = "Signals"

	// ContentType is the MIME type of the serialized workbook.
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Filename returns the download name for a workbook of the given range.
func Filename(r core.DateRange) string {
	return r.Filename()
}

// Header returns the header row, one cell per documented record field.
func Header() []any {
	row := make([]any, len(core.Columns))
	for i, col := range core.Columns {
		row[i] = col.Field
	}
	return row
}

// Row returns the cells of one record in column order. Absent values are nil
// and leave the cell empty.
func Row(rec core.SignalRecord) []any {
	row := make([]any, len(core.Columns))
	for i, col := range core.Columns {
		row[i] = rec.Value(col.Field)
	}
	return row
}

// Workbook builds a workbook with a header row followed by one row per
// record, in the order given, and returns it serialized. An empty records
// slice yields a header-only sheet.
func Workbook(records core.QueryResult) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, core.WrapError(core.ErrExportFailed, fmt.Errorf("naming sheet: %w", err))
	}

	if err := writeRow(f, 1, Header()); err != nil {
		return nil, err
	}
	for i, rec := range records {
		if err := writeRow(f, i+2, Row(rec)); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, core.WrapError(core.ErrExportFailed, fmt.Errorf("writing workbook: %w", err))
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, n int, cells []any) error {
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return core.WrapError(core.ErrExportFailed, fmt.Errorf("row %d: %w", n, err))
	}
	if err := f.SetSheetRow(SheetName, cell, &cells); err != nil {
		return core.WrapError(core.ErrExportFailed, fmt.Errorf("row %d: %w", n, err))
	}
	return nil
}
