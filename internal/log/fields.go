package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldKey       = "key"
	FieldOperation = "operation"
	FieldScreen    = "screen"
	FieldCurrency  = "currency"
	FieldBytes     = "bytes"
	FieldError     = "error"
	FieldBackend   = "backend"
	FieldPath      = "path"
	FieldID        = "id"
	FieldCount     = "count"
)

// Components defines standard component names
const (
	ComponentApp          = "app"
	ComponentCell         = "cell"
	ComponentSession      = "session"
	ComponentNotification = "notification"
	ComponentCurrency     = "currency"
	ComponentAppData      = "appdata"
	ComponentBackup       = "backup"
	ComponentAMQP         = "amqp"
	ComponentBackend      = "backend"
	ComponentCLI          = "cli"
)

// Operations defines standard operation names
const (
	OpRead   = "read"
	OpWrite  = "write"
	OpParse  = "parse"
	OpExport = "export"
	OpImport = "import"
	OpClear  = "clear"
)
