package log

// Common field names for structured logging
const (
	FieldComponent    = "component"
	FieldError        = "error"
	FieldOperation    = "operation"
	FieldFile         = "file"
	FieldLine         = "line"
	FieldMonth        = "month"
	FieldCategory     = "category"
	FieldMerchant     = "merchant"
	FieldAmount       = "amount"
	FieldTransactions = "transactions"
	FieldEntries      = "entries"
	FieldAlerts       = "alerts"
	FieldEntryID      = "entry_id"
	FieldPath         = "path"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentIngest  = "ingest"
	ComponentStorage = "storage"
	ComponentReport  = "report"
	ComponentCLI     = "cli"
)
