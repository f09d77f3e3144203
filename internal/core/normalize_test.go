package core

import (
	"testing"
	"time"
)

func TestParseDateCellSerial(t *testing.T) {
	cases := []struct {
		in   float64
		want time.Time
	}{
		{25569, time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)},
		{25570, time.Date(1970, 1, 2, 0, 0, 0, 0, time.UTC)},
		{25569.5, time.Date(1970, 1, 1, 12, 0, 0, 0, time.UTC)},
		{45366, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
	}
	for i, tc := range cases {
		got, err := ParseDateCell(NumberCell(tc.in))
		if err != nil {
			t.Fatalf("case %d: unexpected error %v", i, err)
		}
		if !got.Equal(tc.want) {
			t.Fatalf("case %d: serial %v gave %v, want %v", i, tc.in, got, tc.want)
		}
	}
}

func TestParseDateCellText(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"15/3/2024", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), true},
		{"05/03/2024 10:30", time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC), true},
		{"5/3/24 10:30:45", time.Date(2024, 3, 5, 10, 30, 45, 0, time.UTC), true},
		{"15/3/2024T08:05", time.Date(2024, 3, 15, 8, 5, 0, 0, time.UTC), true},
		// Day precedes month: 25/12 is Christmas, not month 25.
		{"25/12/2023", time.Date(2023, 12, 25, 0, 0, 0, 0, time.UTC), true},
		// Serial that round-tripped through text.
		{"25570", time.Date(1970, 1, 2, 0, 0, 0, 0, time.UTC), true},
		// Free-form fallback.
		{"2024-03-15", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), true},
		{"15-Mar-2024", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), true},
		{"31/02/2024", time.Time{}, false},
		{"13/13/2024", time.Time{}, false},
		{"not a date", time.Time{}, false},
		{"", time.Time{}, false},
	}
	for _, tc := range cases {
		got, err := ParseDateCell(TextCell(tc.in))
		if tc.ok {
			if err != nil {
				t.Fatalf("%q: unexpected error %v", tc.in, err)
			}
			if !got.Equal(tc.want) {
				t.Fatalf("%q: got %v, want %v", tc.in, got, tc.want)
			}
		} else if err == nil {
			t.Fatalf("%q: expected error, got %v", tc.in, got)
		}
	}
}

func TestParseDateCellShapes(t *testing.T) {
	native := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	if got, err := ParseDateCell(TimeCell(native)); err != nil || !got.Equal(native) {
		t.Fatalf("native date cell: got %v err %v", got, err)
	}
	for _, c := range []Cell{{}, BoolCell(true), TimeCell(time.Time{})} {
		if _, err := ParseDateCell(c); err == nil {
			t.Fatalf("cell kind %d: expected error", c.Kind)
		}
	}
}

func TestParseAmountCell(t *testing.T) {
	cases := []struct {
		in  Cell
		out string
		ok  bool
	}{
		{TextCell("$1,234.56"), "1234.56", true},
		{TextCell("  -42.5 EUR "), "-42.5", true},
		{TextCell("1000"), "1000", true},
		{NumberCell(250.75), "250.75", true},
		// Comma-decimal input survives stripping but shifts magnitude; the
		// period is the only decimal separator this format understands.
		{TextCell("-1.234,56"), "-1.23456", true},
		{TextCell("1.234.567,89"), "", false}, // stripping leaves two periods
		{TextCell("abc"), "", false},
		{TextCell(""), "", false},
		{Cell{}, "", false},
	}
	for i, tc := range cases {
		got, err := ParseAmountCell(tc.in)
		if tc.ok {
			if err != nil {
				t.Fatalf("case %d: unexpected error %v", i, err)
			}
			if got.String() != tc.out {
				t.Fatalf("case %d: got %s, want %s", i, got, tc.out)
			}
		} else if err == nil {
			t.Fatalf("case %d: expected error, got %s", i, got)
		}
	}
}

func TestNormalizeRowAcceptance(t *testing.T) {
	good := RawRow{TextCell("15/03/2024"), {}, TextCell("100"), TextCell("  Deposit "), TextCell("AC-1"), TextCell("AC-2")}
	tx, ok := NormalizeRow(good)
	if !ok {
		t.Fatalf("expected row accepted")
	}
	if tx.Type != "deposit" {
		t.Fatalf("type not trimmed+lowercased: %q", tx.Type)
	}
	if tx.Origin != "AC-1" || tx.Destination != "AC-2" {
		t.Fatalf("accounts must stay verbatim: %q %q", tx.Origin, tx.Destination)
	}

	badDate := RawRow{TextCell("soon"), {}, TextCell("100"), TextCell("deposit"), {}, {}}
	if _, ok := NormalizeRow(badDate); ok {
		t.Fatalf("unparseable date must drop the row")
	}
	badAmount := RawRow{TextCell("15/03/2024"), {}, TextCell("n/a"), TextCell("deposit"), {}, {}}
	if _, ok := NormalizeRow(badAmount); ok {
		t.Fatalf("unparseable amount must drop the row")
	}
	// Missing type/accounts never drop a row.
	sparse := RawRow{NumberCell(25570), {}, NumberCell(9)}
	tx, ok = NormalizeRow(sparse)
	if !ok || tx.Type != "" || tx.Destination != "" {
		t.Fatalf("sparse row should be accepted with empty text fields, got %+v ok=%v", tx, ok)
	}
}

func TestNormalizeEndToEnd(t *testing.T) {
	grid := make([]RawRow, 0, 10)
	for i := 0; i < HeaderRows; i++ {
		grid = append(grid, RawRow{TextCell("header"), TextCell("meta")})
	}
	grid = append(grid,
		RawRow{TextCell("20/03/2024"), {}, TextCell("200"), TextCell("deposit"), TextCell("A"), TextCell("X")},
		RawRow{TextCell("15/03/2024"), {}, TextCell("100"), TextCell("deposit"), TextCell("B"), TextCell("Y")},
		RawRow{TextCell("18/03/2024"), {}, TextCell("50"), TextCell("transfer"), TextCell("C"), TextCell("X")},
		RawRow{TextCell("whenever"), {}, TextCell("75"), TextCell("deposit"), TextCell("D"), TextCell("Z")},
	)

	records, rejected := Normalize(grid, HeaderRows)
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if rejected != 1 {
		t.Fatalf("expected 1 rejected row, got %d", rejected)
	}
	for i := 1; i < len(records); i++ {
		if records[i].Date.Before(records[i-1].Date) {
			t.Fatalf("records not sorted ascending by date: %v", records)
		}
	}
	if got := Summarize(records).DistinctDestinations; got != 2 {
		t.Fatalf("expected 2 distinct destinations, got %d", got)
	}
}
