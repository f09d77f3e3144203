package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"movimientos/internal/core"
	applog "movimientos/internal/log"
	"movimientos/internal/workbook"
)

// handleUpload replaces the session's record set from an uploaded
// spreadsheet. The file rides a multipart form under the "file" field, as
// exported by the dashboard's file picker.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeError(w, http.StatusMethodNotAllowed, "use POST")
		return
	}
	logger := applog.FromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		logger.WarnContext(r.Context(), "Multipart parse failed", applog.FieldError, err)
		writeError(w, http.StatusBadRequest, "expected a multipart form with a 'file' field")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing 'file' field")
		return
	}
	defer file.Close()

	res, err := s.sess.Load(r.Context(), header.Filename, file)
	if err != nil {
		if errors.Is(err, workbook.ErrUnreadable) {
			logger.WarnContext(r.Context(), "Unreadable upload",
				applog.FieldSource, header.Filename, applog.FieldError, err)
			writeError(w, http.StatusUnprocessableEntity, "file is not a readable spreadsheet")
			return
		}
		logger.ErrorContext(r.Context(), "Upload failed",
			applog.FieldSource, header.Filename, applog.FieldError, err)
		writeError(w, http.StatusInternalServerError, "upload failed")
		return
	}

	logger.InfoContext(r.Context(), "File loaded",
		applog.FieldSource, res.Source,
		applog.FieldLoadID, res.LoadID,
		applog.FieldAccepted, res.Accepted,
		applog.FieldRejected, res.Rejected)
	writeJSON(w, http.StatusOK, res)
}

// handleFilters toggles one type category: kind=deposit|transfer plus an
// enabled boolean. Responds with the refreshed snapshot.
func (s *Server) handleFilters(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut && r.Method != http.MethodPost {
		w.Header().Set("Allow", "PUT, POST")
		writeError(w, http.StatusMethodNotAllowed, "use PUT")
		return
	}
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "malformed form")
		return
	}

	kind := strings.TrimSpace(r.Form.Get("kind"))
	enabled, err := strconv.ParseBool(strings.TrimSpace(r.Form.Get("enabled")))
	if err != nil {
		writeError(w, http.StatusBadRequest, "'enabled' must be a boolean")
		return
	}
	if err := s.sess.SetTypeFilter(kind, enabled); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	applog.FromContext(r.Context()).InfoContext(r.Context(), "Filter changed",
		applog.FieldFilter, kind, applog.FieldEnabled, enabled)
	writeJSON(w, http.StatusOK, s.sess.Snapshot())
}

// handleSort activates a sort key. Without an explicit direction the key
// behaves like a column header click: repeating it toggles the direction,
// a new key starts ascending.
func (s *Server) handleSort(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut && r.Method != http.MethodPost {
		w.Header().Set("Allow", "PUT, POST")
		writeError(w, http.StatusMethodNotAllowed, "use PUT")
		return
	}
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "malformed form")
		return
	}

	key, err := core.ParseSortKey(strings.TrimSpace(r.Form.Get("key")))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if v := strings.TrimSpace(r.Form.Get("direction")); v != "" {
		dir, err := core.ParseSortDirection(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.sess.SetSortDirection(key, dir)
	} else {
		s.sess.SetSort(key)
	}

	snap := s.sess.Snapshot()
	applog.FromContext(r.Context()).InfoContext(r.Context(), "Sort changed",
		applog.FieldSortKey, snap.SortKey, applog.FieldSortDir, snap.SortDirection)
	writeJSON(w, http.StatusOK, snap)
}

// handleTransactions returns the filtered, sorted record list.
func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "use GET")
		return
	}
	snap := s.sess.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"records":  snap.Records,
		"rejected": snap.Rejected,
		"source":   snap.Source,
	})
}

// handleSummary returns the metrics derived from the filtered set.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "use GET")
		return
	}
	writeJSON(w, http.StatusOK, s.sess.Summary())
}

// handleSession exposes the full snapshot on GET and clears the session on
// DELETE.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.sess.Snapshot())
	case http.MethodDelete:
		s.sess.Clear()
		applog.FromContext(r.Context()).InfoContext(r.Context(), "Session cleared")
		w.WriteHeader(http.StatusNoContent)
	default:
		w.Header().Set("Allow", "GET, DELETE")
		writeError(w, http.StatusMethodNotAllowed, "use GET or DELETE")
	}
}
