// Package errors holds the error taxonomy of the aggregation engine.
// Every type carries a Code(), which the command line tools use as exit status
// when the error turns out to be fatal for a run.
package errors

import (
	"fmt"
)

const (
	CodeMalformedRecord  = 2
	CodeInvalidTimestamp = 2
	CodeEmptyGroup       = 4
	CodeNoData           = 3
)

// ErrEmptyGroup is returned when a statistic is requested over zero values.
var ErrEmptyGroup = EmptyGroup("statistic requested over an empty series")

// ErrNoData is returned when no valid reading survived normalization.
var ErrNoData = NoData("no valid readings after normalization")

// MalformedRecord describes a raw record that lacks a required field
// or carries a value of the wrong shape.
type MalformedRecord struct {
	Field  string
	Reason string
}

func NewMalformedRecord(field, reason string) MalformedRecord {
	return MalformedRecord{Field: field, Reason: reason}
}

func (m MalformedRecord) Code() int {
	return CodeMalformedRecord
}

func (m MalformedRecord) Error() string {
	return fmt.Sprintf("malformed record: field %q: %s", m.Field, m.Reason)
}

// InvalidTimestamp holds the offending timestamp text.
type InvalidTimestamp string

func NewInvalidTimestamp(ts string) InvalidTimestamp {
	return InvalidTimestamp(ts)
}

func (i InvalidTimestamp) Code() int {
	return CodeInvalidTimestamp
}

func (i InvalidTimestamp) Error() string {
	return fmt.Sprintf("invalid timestamp %q: expected YYYY-MM-DD HH:mm:ss (UTC)", string(i))
}

type EmptyGroup string

func (e EmptyGroup) Code() int {
	return CodeEmptyGroup
}

func (e EmptyGroup) Error() string {
	return string(e)
}

type NoData string

func (n NoData) Code() int {
	return CodeNoData
}

func (n NoData) Error() string {
	return string(n)
}
