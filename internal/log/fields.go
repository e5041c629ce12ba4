package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldQuery      = "query"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldOperation  = "operation"

	FieldRecords  = "records"
	FieldPosition = "position"
	FieldCategory = "category"
	FieldAmount   = "amount"
	FieldBackend  = "backend"
	FieldLedger   = "ledger_path"
	FieldWindow   = "window"
	FieldFormat   = "format"
)

// Components defines standard component names
const (
	ComponentApp    = "app"
	ComponentHTTP   = "http"
	ComponentLedger = "ledger"
	ComponentReport = "report"
	ComponentExport = "export"
	ComponentWorker = "worker"
	ComponentSheets = "sheets"
	ComponentCache  = "cache"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpList     = "list"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpExport   = "export"
	OpMirror   = "mirror"
	OpRender   = "render"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
