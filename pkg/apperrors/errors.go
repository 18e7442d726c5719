package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrDatasetNotFound = errors.New("dataset not found")
	ErrEmptyInput      = errors.New("input table has zero rows")
)

// SchemaError reports a required input column that is missing or carries the
// wrong type. It is fatal: the affected node aborts without producing output.
type SchemaError struct {
	Dataset string
	Column  string
	Reason  string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema error in dataset %q, column %q: %s", e.Dataset, e.Column, e.Reason)
}

// NewSchemaError creates a SchemaError.
func NewSchemaError(dataset, column, reason string) *SchemaError {
	return &SchemaError{Dataset: dataset, Column: column, Reason: reason}
}

// JoinKeyTypeError reports a join key value that cannot be coerced to an
// integer. It is fatal: the join aborts without producing output.
type JoinKeyTypeError struct {
	Dataset string
	Column  string
	Row     int
	Reason  string
}

func (e *JoinKeyTypeError) Error() string {
	return fmt.Sprintf("join key error in dataset %q, column %q, row %d: %s", e.Dataset, e.Column, e.Row, e.Reason)
}

// NewJoinKeyTypeError creates a JoinKeyTypeError.
func NewJoinKeyTypeError(dataset, column string, row int, reason string) *JoinKeyTypeError {
	return &JoinKeyTypeError{Dataset: dataset, Column: column, Row: row, Reason: reason}
}
