// Package core holds the transaction domain: row normalization,
// aggregation, and the filter/sort view logic.
//
// This file contains the row normalizer. It maps raw spreadsheet rows to
// canonical Transaction records, tolerating the date and amount encodings
// that show up in real exports: Excel serial numbers, native date cells,
// day-first date text, and locale-formatted amounts with currency symbols
// and thousands separators.
package core

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// HeaderRows is the fixed header region of an export: data starts at row 7.
const HeaderRows = 6

// Days between the Excel 1900 date-system epoch (1899-12-30) and the Unix epoch.
const serialEpochOffsetDays = 25569

// dayFirstPattern matches D/M/Y with 1-2 digit day and month, 2-4 digit
// year, and an optional H:M[:S] time separated by a space or a 'T'.
var dayFirstPattern = regexp.MustCompile(
	`^(\d{1,2})/(\d{1,2})/(\d{2,4})(?:[ T](\d{1,2}):(\d{2})(?::(\d{2}))?)?$`)

// fallbackLayouts is the free-form net for date text the day-first pattern
// misses. Day-first layouts stay ahead of anything month-first.
var fallbackLayouts = []string{
	"02-01-2006",
	"2-1-2006",
	"02-Jan-2006",
	"2-Jan-2006",
	"02/Jan/2006",
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006/01/02",
	"02.01.2006",
}

// ParseDateCell resolves a raw date cell to an absolute instant. Encodings
// are tried in priority order: Excel serial number, native date value,
// day-first date text, then the generic layout fallback. Empty and boolean
// cells never resolve.
func ParseDateCell(c Cell) (time.Time, error) {
	switch c.Kind {
	case CellNumber:
		return dateFromSerial(c.Number)
	case CellTime:
		if c.Time.IsZero() {
			return time.Time{}, ErrInvalidDate
		}
		return c.Time.UTC(), nil
	case CellText:
		s := strings.TrimSpace(c.Text)
		if s == "" {
			return time.Time{}, ErrInvalidDate
		}
		// A numeric string is a serial that went through a text round trip.
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			return dateFromSerial(v)
		}
		if t, err := parseDayFirst(s); err == nil {
			return t, nil
		}
		for _, layout := range fallbackLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.UTC(), nil
			}
		}
		return time.Time{}, ErrInvalidDate
	default:
		return time.Time{}, ErrInvalidDate
	}
}

// dateFromSerial converts an Excel 1900-system serial day count, possibly
// with a fractional time-of-day, into a UTC instant. Serial 25569 is the
// Unix epoch.
func dateFromSerial(v float64) (time.Time, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return time.Time{}, ErrInvalidDate
	}
	ms := math.Round((v - serialEpochOffsetDays) * 86400 * 1000)
	if math.IsNaN(ms) || math.IsInf(ms, 0) || math.Abs(ms) > math.MaxInt64 {
		return time.Time{}, ErrInvalidDate
	}
	return time.UnixMilli(int64(ms)).UTC(), nil
}

func parseDayFirst(s string) (time.Time, error) {
	m := dayFirstPattern.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, ErrInvalidDate
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	if year < 100 {
		year += 2000
	}
	var hour, minute, sec int
	if m[4] != "" {
		hour, _ = strconv.Atoi(m[4])
		minute, _ = strconv.Atoi(m[5])
		if m[6] != "" {
			sec, _ = strconv.Atoi(m[6])
		}
	}
	if month < 1 || month > 12 || day < 1 || day > 31 || hour > 23 || minute > 59 || sec > 59 {
		return time.Time{}, ErrInvalidDate
	}
	t := time.Date(year, time.Month(month), day, hour, minute, sec, 0, time.UTC)
	// time.Date normalizes overflow (31/02 becomes 02/03 or 03/03); reject those.
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// ParseAmountCell resolves a raw amount cell to a signed decimal. The cell
// is coerced to text and every rune that is not a digit, a minus sign, or a
// period is stripped, so currency symbols, whitespace, and thousands
// separators fall away before parsing.
func ParseAmountCell(c Cell) (decimal.Decimal, error) {
	if c.IsEmpty() {
		return decimal.Decimal{}, ErrInvalidAmount
	}
	stripped := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '-' || r == '.' {
			return r
		}
		return -1
	}, c.String())
	d, err := decimal.NewFromString(stripped)
	if err != nil {
		return decimal.Decimal{}, ErrInvalidAmount
	}
	return d, nil
}

// NormalizeType trims and lowercases a raw type cell. Unrecognized labels
// pass through verbatim; they are simply invisible to the deposit/transfer
// aggregates.
func NormalizeType(c Cell) string {
	return strings.ToLower(strings.TrimSpace(c.String()))
}

// NormalizeRow maps one raw row to a Transaction. The row is accepted iff
// the date and amount cells both parse; type, origin, and destination never
// reject a row. Account identifiers are kept verbatim.
func NormalizeRow(row RawRow) (Transaction, bool) {
	date, err := ParseDateCell(row.cellAt(colDate))
	if err != nil {
		return Transaction{}, false
	}
	amount, err := ParseAmountCell(row.cellAt(colAmount))
	if err != nil {
		return Transaction{}, false
	}
	return Transaction{
		Date:        date,
		Amount:      amount,
		Type:        NormalizeType(row.cellAt(colType)),
		Origin:      row.cellAt(colOrigin).String(),
		Destination: row.cellAt(colDestination).String(),
	}, true
}

// Normalize maps a raw grid to the canonical record set, skipping the
// header region and silently dropping unparseable rows. The accepted set is
// stable-sorted ascending by date, so ties keep source order. The second
// return is the number of dropped rows.
func Normalize(grid []RawRow, headerRows int) ([]Transaction, int) {
	if headerRows < 0 {
		headerRows = 0
	}
	if headerRows > len(grid) {
		headerRows = len(grid)
	}
	records := make([]Transaction, 0, len(grid)-headerRows)
	rejected := 0
	for _, row := range grid[headerRows:] {
		if isBlank(row) {
			// Trailing padding rows, not data; not worth counting as rejects.
			continue
		}
		tx, ok := NormalizeRow(row)
		if !ok {
			rejected++
			continue
		}
		records = append(records, tx)
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})
	return records, rejected
}

func isBlank(row RawRow) bool {
	for _, c := range row {
		if !c.IsEmpty() {
			return false
		}
	}
	return true
}
