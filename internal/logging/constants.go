package logging

// Standardized field names for structured logging.
const (
	FieldFile        = "file_path"
	FieldParser      = "parser"
	FieldMessageType = "message_type"
	FieldTag         = "tag"
	FieldRuleCode    = "rule_code"
	FieldAccount     = "account"
	FieldReference   = "reference"
	FieldReason      = "reason"
	FieldOperation   = "operation"
	FieldStatus      = "status"
	FieldError       = "error"
	FieldDuration    = "duration_ms"
	FieldCount       = "count"
	FieldFormat      = "format"
	FieldInputFile   = "input_file"
	FieldOutputFile  = "output_file"
)
