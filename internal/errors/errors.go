package errors

import (
	"fmt"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   appErr,
		}
	}
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// GetCode returns the error code if it's an AppError, otherwise returns "UNKNOWN"
func GetCode(err error) string {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return "UNKNOWN"
}

// Predefined error codes
const (
	CodeConfigInvalid          = "CONFIG_INVALID"
	CodeDatabaseError          = "DATABASE_ERROR"
	CodeInvalidInput           = "INVALID_INPUT"
	CodeInternalError          = "INTERNAL_ERROR"
	CodeSchemaMismatch         = "SCHEMA_MISMATCH"
	CodeDegenerateColumn       = "DEGENERATE_COLUMN"
	CodeRankDeficientDesign    = "RANK_DEFICIENT_DESIGN"
	CodeThresholdUnsatisfiable = "THRESHOLD_UNSATISFIABLE"
)

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func DatabaseError(message string) *AppError {
	return New(CodeDatabaseError, message)
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

func InternalError(message string) *AppError {
	return New(CodeInternalError, message)
}

// SchemaMismatch reports a required indicator column absent from the matrix
func SchemaMismatch(column string) *AppError {
	return New(CodeSchemaMismatch, fmt.Sprintf("required indicator column %q is absent", column))
}

// DegenerateColumn reports a zero-variance column that breaks normalization
func DegenerateColumn(column string) *AppError {
	return New(CodeDegenerateColumn, fmt.Sprintf("column %q is constant and cannot be normalized", column))
}

// RankDeficientDesign reports perfect collinearity in the regression design matrix
func RankDeficientDesign(columns []string) *AppError {
	return New(CodeRankDeficientDesign, fmt.Sprintf("design matrix is rank deficient, implicated columns: %v", columns))
}

// ThresholdUnsatisfiable reports that collinearity pruning would remove the last predictor
func ThresholdUnsatisfiable(threshold float64) *AppError {
	return New(CodeThresholdUnsatisfiable, fmt.Sprintf("cannot satisfy VIF threshold %.1f without removing the last predictor", threshold))
}
