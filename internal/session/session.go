// Package session holds the state of one dashboard session: the canonical
// record set from the most recent upload, the active type filters, and the
// active sort. All reads hand out copies; the record set is only ever
// replaced wholesale.
package session

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"

	"movimientos/internal/core"
	"movimientos/internal/workbook"
)

type (
	Session struct {
		mu         sync.Mutex
		headerRows int

		// loadSeq numbers initiated loads; only the most recently initiated
		// load may commit, so a slow decode can never clobber a newer one.
		loadSeq uint64

		loadID   string
		source   string
		records  []core.Transaction
		rejected int
		filter   core.Filter
		sortKey  core.SortKey
		sortDir  core.SortDirection
	}

	// LoadResult reports what a completed load did.
	LoadResult struct {
		LoadID     string `json:"load_id"`
		Source     string `json:"source"`
		Accepted   int    `json:"accepted"`
		Rejected   int    `json:"rejected"`
		Superseded bool   `json:"superseded,omitempty"`
	}

	// Snapshot is the view-ready state handed to the presentation layer:
	// filtered and sorted records plus the summary derived from them.
	Snapshot struct {
		LoadID        string             `json:"load_id,omitempty"`
		Source        string             `json:"source,omitempty"`
		Records       []core.Transaction `json:"records"`
		Summary       core.Summary       `json:"summary"`
		Filter        core.Filter        `json:"filter"`
		SortKey       core.SortKey       `json:"sort_key"`
		SortDirection core.SortDirection `json:"sort_direction"`
		Rejected      int                `json:"rejected"`
	}
)

// New returns an empty session with both type filters enabled and a
// date-ascending sort. A negative headerRows falls back to the standard
// export header region.
func New(headerRows int) *Session {
	if headerRows < 0 {
		headerRows = core.HeaderRows
	}
	return &Session{
		headerRows: headerRows,
		filter:     core.DefaultFilter(),
		sortKey:    core.SortByDate,
		sortDir:    core.Ascending,
	}
}

// Load decodes and normalizes a spreadsheet blob and replaces the session's
// record set wholesale. A decode failure leaves prior state untouched and
// returns the reader's typed error. If another load was initiated while
// this one was decoding, the result is discarded and reported as
// superseded.
func (s *Session) Load(ctx context.Context, source string, r io.Reader) (LoadResult, error) {
	seq := s.begin()

	// The decode is the only long-running step; it runs outside the lock.
	grid, err := workbook.Read(r)
	if err != nil {
		return LoadResult{}, err
	}
	if err := ctx.Err(); err != nil {
		return LoadResult{}, err
	}
	records, rejected := core.Normalize(grid, s.headerRows)

	res := LoadResult{
		LoadID:   uuid.NewString(),
		Source:   source,
		Accepted: len(records),
		Rejected: rejected,
	}
	if !s.commit(seq, res.LoadID, source, records, rejected) {
		res.Superseded = true
	}
	return res, nil
}

func (s *Session) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadSeq++
	return s.loadSeq
}

// commit installs a load's outcome unless a newer load has been initiated.
func (s *Session) commit(seq uint64, loadID, source string, records []core.Transaction, rejected int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.loadSeq {
		return false
	}
	s.loadID = loadID
	s.source = source
	s.records = records
	s.rejected = rejected
	return true
}

// SetTypeFilter enables or disables one of the two type categories.
func (s *Session) SetTypeFilter(kind string, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch kind {
	case core.TypeDeposit:
		s.filter.ShowDeposits = enabled
	case core.TypeTransfer:
		s.filter.ShowTransfers = enabled
	default:
		return fmt.Errorf("unknown type filter %q", kind)
	}
	return nil
}

// SetSort activates a sort key: repeating the active key toggles the
// direction, a new key resets to ascending.
func (s *Session) SetSort(key core.SortKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if key == s.sortKey {
		if s.sortDir == core.Ascending {
			s.sortDir = core.Descending
		} else {
			s.sortDir = core.Ascending
		}
		return
	}
	s.sortKey = key
	s.sortDir = core.Ascending
}

// SetSortDirection pins an explicit key and direction.
func (s *Session) SetSortDirection(key core.SortKey, dir core.SortDirection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sortKey = key
	s.sortDir = dir
}

// Clear discards the record set and resets filters and sort. In-flight
// loads are invalidated the same way a newer load would invalidate them.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadSeq++
	s.loadID = ""
	s.source = ""
	s.records = nil
	s.rejected = 0
	s.filter = core.DefaultFilter()
	s.sortKey = core.SortByDate
	s.sortDir = core.Ascending
}

// Snapshot returns the current view: records passing the filter, in the
// active sort order, with the summary recomputed over that same filtered
// set.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	filtered := s.filter.Apply(s.records)
	return Snapshot{
		LoadID:        s.loadID,
		Source:        s.source,
		Records:       core.SortBy(filtered, s.sortKey, s.sortDir),
		Summary:       core.Summarize(filtered),
		Filter:        s.filter,
		SortKey:       s.sortKey,
		SortDirection: s.sortDir,
		Rejected:      s.rejected,
	}
}

// Records returns the unfiltered canonical set, date-ascending. Records of
// unrecognized type are visible here even though every filtered view
// excludes them.
func (s *Session) Records() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, len(s.records))
	copy(out, s.records)
	return out
}

// Summary recomputes the metrics over the currently filtered set.
func (s *Session) Summary() core.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.Summarize(s.filter.Apply(s.records))
}
