package core

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func tx(day int, amount float64, typ, origin, destination string) Transaction {
	return Transaction{
		Date:        time.Date(2024, 3, day, 0, 0, 0, 0, time.UTC),
		Amount:      decimal.NewFromFloat(amount),
		Type:        typ,
		Origin:      origin,
		Destination: destination,
	}
}

func TestSummarizeTotals(t *testing.T) {
	records := []Transaction{
		tx(1, 100, "deposit", "a", "X"),
		tx(2, 200, "deposit", "a", "Y"),
		tx(3, 300, "deposit", "b", "X"),
		tx(4, 50, "transfer", "b", "Z"),
		tx(5, 75, "transfer", "c", "Z"),
	}
	s := Summarize(records)
	if s.Deposits.String() != "600" {
		t.Fatalf("deposits: got %s, want 600", s.Deposits)
	}
	if s.Transfers.String() != "125" {
		t.Fatalf("transfers: got %s, want 125", s.Transfers)
	}
	if s.Balance.String() != "475" {
		t.Fatalf("balance: got %s, want 475", s.Balance)
	}
	if s.DistinctDestinations != 3 {
		t.Fatalf("distinct destinations: got %d, want 3", s.DistinctDestinations)
	}
	if s.TopDestination != "X" { // 100+300 beats 200 and 125
		t.Fatalf("top destination: got %q, want X", s.TopDestination)
	}
}

func TestTotalByTypeContainment(t *testing.T) {
	records := []Transaction{
		tx(1, 100, "deposit-usd", "", ""),
		tx(2, 10, "wire deposit", "", ""),
		tx(3, 1, "fee", "", ""),
	}
	if got := TotalByType(records, "Deposit"); got.String() != "110" {
		t.Fatalf("containment must be case-insensitive: got %s", got)
	}
	if got := TotalByType(records, "transfer"); !got.IsZero() {
		t.Fatalf("expected zero, got %s", got)
	}
}

func TestTopSelectorsTieBreak(t *testing.T) {
	// Two destinations with equal totals: the one first seen in date order wins.
	records := []Transaction{
		tx(1, 100, "deposit", "", "LATE"), // named LATE but seen first
		tx(2, 100, "deposit", "", "AAA"),
	}
	want := Summarize(records).TopDestination
	if want != "LATE" {
		t.Fatalf("tie-break must pick first-seen destination, got %q", want)
	}
	for i := 0; i < 50; i++ {
		if got := Summarize(records).TopDestination; got != want {
			t.Fatalf("tie-break not deterministic: run %d gave %q, want %q", i, got, want)
		}
	}
}

func TestCountsByDayAndTopDay(t *testing.T) {
	records := []Transaction{
		tx(1, 10, "deposit", "", "X"),
		tx(2, 10, "deposit", "", "X"),
		tx(2, 10, "transfer", "", "Y"),
		tx(3, 10, "deposit", "", "X"),
	}
	s := Summarize(records)
	if s.TopDay != "02/03/2024" {
		t.Fatalf("top day: got %q, want 02/03/2024", s.TopDay)
	}
	if len(s.ByDay) != 3 || s.ByDay[1].Count != 2 {
		t.Fatalf("unexpected day counts: %+v", s.ByDay)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if s.TopDestination != NoneSentinel || s.TopDay != NoneSentinel {
		t.Fatalf("empty set must use %q sentinels, got %q %q", NoneSentinel, s.TopDestination, s.TopDay)
	}
	if !s.Deposits.IsZero() || !s.Transfers.IsZero() || !s.Balance.IsZero() {
		t.Fatalf("empty set must have zero totals: %+v", s)
	}
	if s.DistinctDestinations != 0 || s.Count != 0 {
		t.Fatalf("empty set counts must be zero: %+v", s)
	}
}

func TestDistinctDestinationsCountsEmptyString(t *testing.T) {
	records := []Transaction{
		tx(1, 10, "deposit", "", ""),
		tx(2, 10, "deposit", "", "X"),
		tx(3, 10, "deposit", "", ""),
	}
	if got := Summarize(records).DistinctDestinations; got != 2 {
		t.Fatalf("empty destination counts as one distinct value: got %d, want 2", got)
	}
}
