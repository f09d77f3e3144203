package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// NoneSentinel is what the top selectors report over an empty record set.
const NoneSentinel = "-"

// DayFormat buckets instants into calendar days, day first.
const DayFormat = "02/01/2006"

type (
	// DestinationTotal is the summed amount for one destination account.
	DestinationTotal struct {
		Destination string          `json:"destination"`
		Total       decimal.Decimal `json:"total"`
	}

	// DayCount is the number of transactions on one calendar day.
	DayCount struct {
		Day   string `json:"day"`
		Count int    `json:"count"`
	}

	// Summary holds every derived metric for a record set. It is a pure
	// function of its input and is recomputed in full on every change.
	Summary struct {
		Count                int                `json:"count"`
		Deposits             decimal.Decimal    `json:"deposits"`
		Transfers            decimal.Decimal    `json:"transfers"`
		Balance              decimal.Decimal    `json:"balance"`
		ByDestination        []DestinationTotal `json:"by_destination"`
		DistinctDestinations int                `json:"distinct_destinations"`
		ByDay                []DayCount         `json:"by_day"`
		TopDestination       string             `json:"top_destination"`
		TopDay               string             `json:"top_day"`
	}
)

// TotalByType sums the amounts of records whose type contains substr,
// case-insensitively. Containment rather than equality, so labels like
// "deposit-wire" still count as deposits.
func TotalByType(records []Transaction, substr string) decimal.Decimal {
	substr = strings.ToLower(substr)
	total := decimal.Zero
	for _, tx := range records {
		if strings.Contains(strings.ToLower(tx.Type), substr) {
			total = total.Add(tx.Amount)
		}
	}
	return total
}

// Summarize derives the full metric set from records. Ties on the top
// selectors are broken deterministically: the destination or day whose
// first record appears earliest in the input order wins. Since the
// canonical set is date-ascending, that is the earliest-seen entry.
func Summarize(records []Transaction) Summary {
	deposits := TotalByType(records, TypeDeposit)
	transfers := TotalByType(records, TypeTransfer)

	s := Summary{
		Count:          len(records),
		Deposits:       deposits,
		Transfers:      transfers,
		Balance:        deposits.Sub(transfers),
		ByDestination:  totalsByDestination(records),
		ByDay:          countsByDay(records),
		TopDestination: NoneSentinel,
		TopDay:         NoneSentinel,
	}
	s.DistinctDestinations = len(s.ByDestination)

	if len(s.ByDestination) > 0 {
		top := s.ByDestination[0]
		for _, dt := range s.ByDestination[1:] {
			if dt.Total.GreaterThan(top.Total) {
				top = dt
			}
		}
		s.TopDestination = top.Destination
	}
	if len(s.ByDay) > 0 {
		top := s.ByDay[0]
		for _, dc := range s.ByDay[1:] {
			if dc.Count > top.Count {
				top = dc
			}
		}
		s.TopDay = top.Day
	}
	return s
}

// totalsByDestination folds amounts per destination account, keeping
// first-seen order. The empty destination is a destination like any other.
func totalsByDestination(records []Transaction) []DestinationTotal {
	idx := make(map[string]int, len(records))
	out := make([]DestinationTotal, 0, len(records))
	for _, tx := range records {
		i, ok := idx[tx.Destination]
		if !ok {
			idx[tx.Destination] = len(out)
			out = append(out, DestinationTotal{Destination: tx.Destination, Total: tx.Amount})
			continue
		}
		out[i].Total = out[i].Total.Add(tx.Amount)
	}
	return out
}

// countsByDay folds per-calendar-day counts, keeping first-seen order.
func countsByDay(records []Transaction) []DayCount {
	idx := make(map[string]int, len(records))
	out := make([]DayCount, 0, len(records))
	for _, tx := range records {
		day := tx.Date.Format(DayFormat)
		i, ok := idx[day]
		if !ok {
			idx[day] = len(out)
			out = append(out, DayCount{Day: day, Count: 1})
			continue
		}
		out[i].Count++
	}
	return out
}
