package logging

// Standardized field names for structured logging.
// These constants ensure consistency across the application's log output,
// making logs easier to parse, filter, and analyze.
const (
	FieldFile       = "file_path"
	FieldInputFile  = "input_file"
	FieldOutputFile = "output_file"
	FieldRow        = "row"
	FieldNarration  = "narration"
	FieldLedger     = "ledger"
	FieldScore      = "score"
	FieldThreshold  = "threshold"
	FieldStrategy   = "strategy"
	FieldVoucher    = "voucher_type"
	FieldCount      = "count"
	FieldColumns    = "columns"
	FieldDelimiter  = "delimiter"
	FieldRunID      = "run_id"
	FieldDuration   = "duration_ms"
	FieldWorkers    = "workers"
)
