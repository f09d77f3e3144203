package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldUserAgent  = "user_agent"
	FieldError      = "error"

	FieldSource   = "source_file"
	FieldLoadID   = "load_id"
	FieldAccepted = "accepted"
	FieldRejected = "rejected"
	FieldSortKey  = "sort_key"
	FieldSortDir  = "sort_direction"
	FieldFilter   = "filter_kind"
	FieldEnabled  = "enabled"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentSession   = "session"
	ComponentWorkbook  = "workbook"
	ComponentRateLimit = "rate_limit"
)
