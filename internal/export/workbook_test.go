package export

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/newthinker/fxsignals/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func ptr[T any](v T) *T { return &v }

func readSheet(t *testing.T, data []byte) (*excelize.File, [][]string) {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	return f, rows
}

func TestFilename(t *testing.T) {
	r := core.DateRange{Start: "2020-01-01", End: "2020-01-31"}
	assert.Equal(t, "forex-signals-2020-01-01-2020-01-31.xlsx", Filename(r))
}

func TestWorkbook_SingleSheet(t *testing.T) {
	data, err := Workbook(core.QueryResult{{Date: "2020-01-02"}})
	require.NoError(t, err)

	f, _ := readSheet(t, data)
	assert.Equal(t, []string{SheetName}, f.GetSheetList())
}

func TestWorkbook_RowsInOrder(t *testing.T) {
	var records core.QueryResult
	for i := 1; i <= 25; i++ {
		records = append(records, core.SignalRecord{
			Date: fmt.Sprintf("2020-01-%02d", 26-i),
			Pips: ptr(float64(i)),
		})
	}

	data, err := Workbook(records)
	require.NoError(t, err)

	_, rows := readSheet(t, data)
	require.Len(t, rows, len(records)+1, "header plus one row per record")

	assert.Equal(t, []string{
		"Date", "Trend", "SignalTime", "EntryPrice", "StopPrice",
		"LimitPrice", "Lots", "Pips", "PipCost",
	}, rows[0])

	for i, rec := range records {
		assert.Equal(t, rec.Date, rows[i+1][0], "row %d", i+1)
	}
}

func TestWorkbook_CellValues(t *testing.T) {
	records := core.QueryResult{{
		Date:       "2020-01-02",
		Trend:      ptr("BEARISH"),
		SignalTime: ptr("2020-01-02T14:30:00Z"),
		EntryPrice: ptr(1.12345),
		StopPrice:  ptr(1.13),
		LimitPrice: ptr(1.1),
		Lots:       ptr(0.5),
		Pips:       ptr(30.0),
		PipCost:    ptr(10.0),
	}}

	data, err := Workbook(records)
	require.NoError(t, err)

	f, rows := readSheet(t, data)
	require.Len(t, rows, 2)
	assert.Equal(t, "2020-01-02", rows[1][0])
	assert.Equal(t, "BEARISH", rows[1][1])
	assert.Equal(t, "2020-01-02T14:30:00Z", rows[1][2])

	entry, err := f.GetCellValue(SheetName, "D2", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "1.12345", entry)

	cellType, err := f.GetCellType(SheetName, "D2")
	require.NoError(t, err)
	assert.NotEqual(t, excelize.CellTypeSharedString, cellType, "prices are numeric cells")
}

func TestWorkbook_AbsentFieldsLeaveEmptyCells(t *testing.T) {
	records := core.QueryResult{
		{Date: "2020-01-02", PipCost: ptr(2.0)},
		{Date: "2020-01-03", Trend: ptr("BULLISH")},
	}

	data, err := Workbook(records)
	require.NoError(t, err)

	f, rows := readSheet(t, data)
	require.Len(t, rows, 3)

	trend, err := f.GetCellValue(SheetName, "B2")
	require.NoError(t, err)
	assert.Empty(t, trend)

	cost, err := f.GetCellValue(SheetName, "I2")
	require.NoError(t, err)
	assert.Equal(t, "2", cost)

	trend, err = f.GetCellValue(SheetName, "B3")
	require.NoError(t, err)
	assert.Equal(t, "BULLISH", trend)
}

func TestWorkbook_Empty(t *testing.T) {
	data, err := Workbook(nil)
	require.NoError(t, err)

	_, rows := readSheet(t, data)
	require.Len(t, rows, 1)
	assert.Equal(t, "Date", rows[0][0])
}

func TestWorkbook_DoesNotMutateInput(t *testing.T) {
	records := core.QueryResult{{Date: "2020-01-02", Lots: ptr(1.0)}}
	before := *records[0].Lots

	_, err := Workbook(records)
	require.NoError(t, err)

	assert.Equal(t, "2020-01-02", records[0].Date)
	assert.Equal(t, before, *records[0].Lots)
}

func TestRow(t *testing.T) {
	row := Row(core.SignalRecord{Date: "2020-01-02", Lots: ptr(2.0)})
	require.Len(t, row, len(core.Columns))
	assert.Equal(t, "2020-01-02", row[0])
	assert.Nil(t, row[1])
	assert.Equal(t, 2.0, row[6])
}
