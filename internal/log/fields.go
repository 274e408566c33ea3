package log

// Canonical field names for structured logging.
const (
	FieldComponent = "component"
	FieldRequestID = "request_id"
	FieldEvent     = "event"
	FieldURL       = "url"
	FieldStatus    = "status"
	FieldIndex     = "index"
	FieldKind      = "kind"
	FieldTab       = "tab"
	FieldCount     = "count"
)
