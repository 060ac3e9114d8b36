// Package sqlerr handles database driver errors.
//
// It parses SQLSTATE codes returned by Postgres and converts them into
// client-facing errors (e.g. a unique violation becomes a 400 with a
// readable message instead of a bare 500).
package sqlerr

import "fmt"

// Code is a driver-independent classification of a database error.
type Code string

const (
	Other                Code = "other"
	NotNullViolation     Code = "not_null_violation"
	ForeignKeyViolation  Code = "foreign_key_violation"
	UniqueViolation      Code = "unique_violation"
	CheckViolation       Code = "check_violation"
	ExclusionViolation   Code = "exclusion_violation"
	StringDataTruncation Code = "string_data_right_truncation"
	InvalidTextInput     Code = "invalid_text_representation"
	SerializationFailure Code = "serialization_failure"
	DeadlockDetected     Code = "deadlock_detected"
	TooManyConnections   Code = "too_many_connections"
	QueryCanceled        Code = "query_canceled"
)

// Severity mirrors the Postgres severity of the error.
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityFatal   Severity = "FATAL"
	SeverityPanic   Severity = "PANIC"
	SeverityWarning Severity = "WARNING"
	SeverityNotice  Severity = "NOTICE"
	SeverityDebug   Severity = "DEBUG"
	SeverityInfo    Severity = "INFO"
	SeverityLog     Severity = "LOG"
)

// Error is a normalized database error. The original driver error is kept
// for Unwrap.
type Error struct {
	Code           Code
	Severity       Severity
	DatabaseCode   string
	Message        string
	SchemaName     string
	TableName      string
	ColumnName     string
	DataTypeName   string
	ConstraintName string
	driverErr      error
}

func (pe *Error) Error() string {
	return fmt.Sprintf("%s %s: %s", pe.Severity, pe.DatabaseCode, pe.Message)
}

func (pe *Error) Unwrap() error {
	return pe.driverErr
}

// MapCode maps a Postgres SQLSTATE onto a Code.
func MapCode(sqlState string) Code {
	switch sqlState {
	case "23502":
		return NotNullViolation
	case "23503":
		return ForeignKeyViolation
	case "23505":
		return UniqueViolation
	case "23514":
		return CheckViolation
	case "23P01":
		return ExclusionViolation
	case "22001":
		return StringDataTruncation
	case "22P02":
		return InvalidTextInput
	case "40001":
		return SerializationFailure
	case "40P01":
		return DeadlockDetected
	case "53300":
		return TooManyConnections
	case "57014":
		return QueryCanceled
	default:
		return Other
	}
}

// MapSeverity maps the Postgres severity string onto a Severity.
func MapSeverity(severity string) Severity {
	switch Severity(severity) {
	case SeverityError, SeverityFatal, SeverityPanic, SeverityWarning,
		SeverityNotice, SeverityDebug, SeverityInfo, SeverityLog:
		return Severity(severity)
	default:
		return SeverityError
	}
}
