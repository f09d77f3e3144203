// Package workbook decodes uploaded spreadsheet blobs into raw cell grids.
//
// Three container formats are recognized by their leading magic bytes: the
// zipped-XML format (.xlsx, via excelize), the legacy OLE binary format
// (.xls, via extrame/xls), and plain CSV as a fallback for everything that
// is printable text. Only the first sheet is read. The reader returns the
// grid as-is; skipping header rows and interpreting cells is the
// normalizer's job.
package workbook

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"movimientos/internal/core"
)

// ErrUnreadable marks blobs that are not a recognized spreadsheet container.
var ErrUnreadable = errors.New("unreadable spreadsheet container")

// ReadError wraps a container decode failure with the format that was tried.
type ReadError struct {
	Format string
	Err    error
}

func (e *ReadError) Error() string { return fmt.Sprintf("read %s: %v", e.Format, e.Err) }

func (e *ReadError) Unwrap() error { return e.Err }

func (e *ReadError) Is(target error) bool { return target == ErrUnreadable }

var (
	zipMagic = []byte{'P', 'K', 0x03, 0x04}
	oleMagic = []byte{0xd0, 0xcf, 0x11, 0xe0, 0xa1, 0xb1, 0x1a, 0xe1}
)

// Read decodes a spreadsheet blob into a raw cell grid. An unrecognized or
// corrupt container yields a *ReadError; an empty or data-free file yields
// an empty grid, not an error.
func Read(r io.Reader) ([]core.RawRow, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &ReadError{Format: "blob", Err: err}
	}
	switch {
	case bytes.HasPrefix(data, zipMagic):
		return readXLSX(data)
	case bytes.HasPrefix(data, oleMagic):
		return readXLS(data)
	case bytes.IndexByte(data, 0) >= 0:
		return nil, &ReadError{Format: "container", Err: fmt.Errorf("%w: unknown binary format", ErrUnreadable)}
	default:
		return readCSV(data)
	}
}

// readXLSX reads the first sheet with raw cell values, so date-formatted
// numerics come through as serial numbers instead of rendered text. Cell
// kinds are recovered from the stored cell types.
func readXLSX(data []byte) ([]core.RawRow, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &ReadError{Format: "xlsx", Err: fmt.Errorf("%w: %v", ErrUnreadable, err)}
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &ReadError{Format: "xlsx", Err: err}
	}

	grid := make([]core.RawRow, len(rows))
	for i, row := range rows {
		cells := make(core.RawRow, len(row))
		for j, raw := range row {
			cells[j] = classifyXLSXCell(f, sheet, j+1, i+1, raw)
		}
		grid[i] = cells
	}
	return grid, nil
}

func classifyXLSXCell(f *excelize.File, sheet string, col, row int, raw string) core.Cell {
	if raw == "" {
		return core.Cell{}
	}
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return core.TextCell(raw)
	}
	typ, err := f.GetCellType(sheet, name)
	if err != nil {
		return core.TextCell(raw)
	}
	switch typ {
	case excelize.CellTypeBool:
		return core.BoolCell(raw == "1" || raw == "TRUE" || raw == "true")
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return core.NumberCell(v)
		}
		return core.TextCell(raw)
	case excelize.CellTypeDate:
		for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, raw); err == nil {
				return core.TimeCell(t)
			}
		}
		return core.TextCell(raw)
	default:
		return core.TextCell(raw)
	}
}

// readXLS reads the first sheet of a legacy binary workbook. The xls layer
// only exposes rendered strings, so every cell surfaces as text and the
// normalizer's numeric-text path picks up serial dates.
func readXLS(data []byte) ([]core.RawRow, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, &ReadError{Format: "xls", Err: fmt.Errorf("%w: %v", ErrUnreadable, err)}
	}
	if wb.NumSheets() == 0 {
		return nil, nil
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, nil
	}

	grid := make([]core.RawRow, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			grid = append(grid, core.RawRow{})
			continue
		}
		cells := make(core.RawRow, 0, row.LastCol()+1)
		for j := 0; j <= row.LastCol(); j++ {
			if s := row.Col(j); s != "" {
				cells = append(cells, core.TextCell(s))
			} else {
				cells = append(cells, core.Cell{})
			}
		}
		grid = append(grid, cells)
	}
	return grid, nil
}

func readCSV(data []byte) ([]core.RawRow, error) {
	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, &ReadError{Format: "csv", Err: fmt.Errorf("%w: %v", ErrUnreadable, err)}
	}
	grid := make([]core.RawRow, len(rows))
	for i, row := range rows {
		cells := make(core.RawRow, len(row))
		for j, field := range row {
			if field != "" {
				cells[j] = core.TextCell(field)
			}
		}
		grid[i] = cells
	}
	return grid, nil
}
