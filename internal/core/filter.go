package core

import (
	"fmt"
	"sort"
	"strings"
)

const (
	SortByDate        SortKey = "date"
	SortByAmount      SortKey = "amount"
	SortByType        SortKey = "type"
	SortByOrigin      SortKey = "origin"
	SortByDestination SortKey = "destination"

	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

type (
	SortKey       string
	SortDirection string

	// Filter gates records by type category. Membership is substring
	// containment, so "deposit-cash" passes the deposit gate. A record
	// matching neither enabled category is excluded from every downstream
	// view and metric.
	Filter struct {
		ShowDeposits  bool `json:"show_deposits"`
		ShowTransfers bool `json:"show_transfers"`
	}
)

func DefaultFilter() Filter {
	return Filter{ShowDeposits: true, ShowTransfers: true}
}

func (f Filter) Matches(tx Transaction) bool {
	return (f.ShowDeposits && strings.Contains(tx.Type, TypeDeposit)) ||
		(f.ShowTransfers && strings.Contains(tx.Type, TypeTransfer))
}

// Apply returns the records passing the filter, in input order.
func (f Filter) Apply(records []Transaction) []Transaction {
	out := make([]Transaction, 0, len(records))
	for _, tx := range records {
		if f.Matches(tx) {
			out = append(out, tx)
		}
	}
	return out
}

func ParseSortKey(s string) (SortKey, error) {
	switch SortKey(s) {
	case SortByDate, SortByAmount, SortByType, SortByOrigin, SortByDestination:
		return SortKey(s), nil
	}
	return "", fmt.Errorf("unknown sort key %q", s)
}

func ParseSortDirection(s string) (SortDirection, error) {
	switch SortDirection(s) {
	case Ascending, Descending:
		return SortDirection(s), nil
	}
	return "", fmt.Errorf("unknown sort direction %q", s)
}

// SortBy returns a new slice ordered by key and direction. The sort is
// stable in both directions, so records comparing equal keep their relative
// input order; the input is never mutated. Date ordering compares the
// underlying instants, never their string forms.
func SortBy(records []Transaction, key SortKey, dir SortDirection) []Transaction {
	out := make([]Transaction, len(records))
	copy(out, records)
	cmp := comparator(key)
	sort.SliceStable(out, func(i, j int) bool {
		if dir == Descending {
			return cmp(out[j], out[i])
		}
		return cmp(out[i], out[j])
	})
	return out
}

func comparator(key SortKey) func(a, b Transaction) bool {
	switch key {
	case SortByAmount:
		return func(a, b Transaction) bool { return a.Amount.LessThan(b.Amount) }
	case SortByType:
		return func(a, b Transaction) bool { return a.Type < b.Type }
	case SortByOrigin:
		return func(a, b Transaction) bool { return a.Origin < b.Origin }
	case SortByDestination:
		return func(a, b Transaction) bool { return a.Destination < b.Destination }
	default:
		return func(a, b Transaction) bool { return a.Date.Before(b.Date) }
	}
}
