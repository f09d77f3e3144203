package workbook

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"movimientos/internal/core"
)

// buildXLSX writes a workbook with the fixed export layout: six header
// rows, then data at row 7 with date/amount/type/origin/destination in
// columns A/C/D/E/F.
func buildXLSX(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i := 1; i <= 6; i++ {
		require.NoError(t, f.SetCellValue(sheet, "A"+string(rune('0'+i)), "header"))
	}
	require.NoError(t, f.SetCellValue(sheet, "A7", "15/03/2024"))
	require.NoError(t, f.SetCellValue(sheet, "C7", 1234.56))
	require.NoError(t, f.SetCellValue(sheet, "D7", " Deposit "))
	require.NoError(t, f.SetCellValue(sheet, "E7", "AC-001"))
	require.NoError(t, f.SetCellValue(sheet, "F7", "AC-002"))

	require.NoError(t, f.SetCellValue(sheet, "A8", 25570)) // serial: 1970-01-02
	require.NoError(t, f.SetCellValue(sheet, "C8", "$1,000.00"))
	require.NoError(t, f.SetCellValue(sheet, "D8", "transfer"))
	require.NoError(t, f.SetCellValue(sheet, "F8", "AC-003"))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestReadXLSX(t *testing.T) {
	grid, err := Read(bytes.NewReader(buildXLSX(t)))
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(grid), 8)

	row7 := grid[6]
	assert.Equal(t, core.CellText, row7[0].Kind)
	assert.Equal(t, "15/03/2024", row7[0].Text)
	assert.Equal(t, core.CellNumber, row7[2].Kind)
	assert.InDelta(t, 1234.56, row7[2].Number, 1e-9)

	row8 := grid[7]
	assert.Equal(t, core.CellNumber, row8[0].Kind)
	assert.InDelta(t, 25570, row8[0].Number, 1e-9)
}

func TestReadXLSXThroughNormalizer(t *testing.T) {
	grid, err := Read(bytes.NewReader(buildXLSX(t)))
	require.NoError(t, err)

	records, rejected := core.Normalize(grid, core.HeaderRows)
	require.Len(t, records, 2)
	assert.Zero(t, rejected)

	// Sorted ascending by date: the serial row (1970) precedes the text row.
	assert.Equal(t, "transfer", records[0].Type)
	assert.Equal(t, "1970-01-02", records[0].Date.Format("2006-01-02"))
	assert.Equal(t, "1000", records[0].Amount.String())

	assert.Equal(t, "deposit", records[1].Type)
	assert.Equal(t, "AC-001", records[1].Origin)
	assert.Equal(t, "AC-002", records[1].Destination)
	assert.Equal(t, "1234.56", records[1].Amount.String())
}

func TestReadCSV(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 6; i++ {
		b.WriteString("header,,,,,\n")
	}
	b.WriteString("15/03/2024,,100,deposit,A,X\n")
	b.WriteString("16/03/2024,,50,transfer,B,Y\n")
	b.WriteString("bad-date,,50,transfer,B,Y\n")

	grid, err := Read(strings.NewReader(b.String()))
	require.NoError(t, err)
	require.Len(t, grid, 9)
	assert.Equal(t, core.CellEmpty, grid[6][1].Kind)

	records, rejected := core.Normalize(grid, core.HeaderRows)
	assert.Len(t, records, 2)
	assert.Equal(t, 1, rejected)
}

func TestReadUnrecognizedContainer(t *testing.T) {
	junk := append([]byte{0x00, 0x01, 0x02}, []byte("not a spreadsheet")...)
	_, err := Read(bytes.NewReader(junk))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnreadable)

	var re *ReadError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "container", re.Format)
}

func TestReadCorruptZip(t *testing.T) {
	junk := append([]byte{'P', 'K', 0x03, 0x04}, []byte("truncated archive")...)
	_, err := Read(bytes.NewReader(junk))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnreadable)
}

func TestReadEmptyInputYieldsEmptyGrid(t *testing.T) {
	grid, err := Read(bytes.NewReader(nil))
	require.NoError(t, err)
	assert.Empty(t, grid)
}
