package logging

// Standardized field names for structured logging.
const (
	FieldFile          = "file_path"
	FieldTransactionID = "transaction_id"
	FieldRuleID        = "rule_id"
	FieldGroupKey      = "group_key"
	FieldDirection     = "direction"
	FieldReason        = "reason"
	FieldOperation     = "operation"
	FieldError         = "error"
	FieldCount         = "count"
	FieldOccurrences   = "occurrences"
	FieldIntervalDays  = "interval_days"
	FieldAmount        = "amount"
	FieldBalance       = "balance"
	FieldHorizon       = "horizon_days"
	FieldDate          = "date"
	FieldDelimiter     = "delimiter"
	FieldFormat        = "format"
)
