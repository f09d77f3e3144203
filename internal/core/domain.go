package core

import (
	"errors"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

const (
	TypeDeposit  = "deposit"
	TypeTransfer = "transfer"
)

// Cell kinds as they come out of a spreadsheet reader.
const (
	CellEmpty CellKind = iota
	CellText
	CellNumber
	CellBool
	CellTime
)

type (
	CellKind int

	// Cell is one raw spreadsheet cell. Only the field matching Kind is set.
	Cell struct {
		Kind   CellKind
		Text   string
		Number float64
		Bool   bool
		Time   time.Time
	}

	// RawRow is an ordered sequence of cells at fixed column offsets:
	// [0]=date, [2]=amount, [3]=type, [4]=origin, [5]=destination.
	RawRow []Cell

	Transaction struct {
		Date        time.Time       `json:"date"`
		Amount      decimal.Decimal `json:"amount"`
		Type        string          `json:"type"`
		Origin      string          `json:"origin"`
		Destination string          `json:"destination"`
	}
)

var (
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidAmount = errors.New("invalid amount")
)

// Column offsets inside a RawRow. Column 1 and anything beyond 5 are ignored.
const (
	colDate        = 0
	colAmount      = 2
	colType        = 3
	colOrigin      = 4
	colDestination = 5
)

func TextCell(s string) Cell { return Cell{Kind: CellText, Text: s} }

func NumberCell(v float64) Cell { return Cell{Kind: CellNumber, Number: v} }

func BoolCell(v bool) Cell { return Cell{Kind: CellBool, Bool: v} }

func TimeCell(t time.Time) Cell { return Cell{Kind: CellTime, Time: t} }

// String coerces a cell to text. Empty cells coerce to the empty string.
func (c Cell) String() string {
	switch c.Kind {
	case CellText:
		return c.Text
	case CellNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case CellBool:
		return strconv.FormatBool(c.Bool)
	case CellTime:
		return c.Time.Format(time.RFC3339)
	default:
		return ""
	}
}

func (c Cell) IsEmpty() bool {
	return c.Kind == CellEmpty || (c.Kind == CellText && c.Text == "")
}

// cellAt returns the cell at offset i, or an empty cell for short rows.
func (r RawRow) cellAt(i int) Cell {
	if i < 0 || i >= len(r) {
		return Cell{}
	}
	return r[i]
}
