package rfm

import (
	"errors"
	"fmt"
)

// ErrMalformedCSV is returned when the upload is not a readable CSV table
// or a numeric field does not parse.
var ErrMalformedCSV = errors.New("malformed csv")

// ErrMissingColumns is returned when required columns are absent from the header.
var ErrMissingColumns = errors.New("missing required columns")

// ErrInvalidDate is returned when an InvoiceDate does not match InvoiceDateLayout.
var ErrInvalidDate = errors.New("invalid invoice date")

// ErrNoCustomers is returned when no row carries a CustomerID, so there is nothing to cluster.
var ErrNoCustomers = errors.New("no customers to segment")

// ErrNotFound is returned when a run with the given ID is not found.
var ErrNotFound = errors.New("run not found")

// ErrEmptyID is returned when trying to store a run with an empty ID.
var ErrEmptyID = errors.New("empty run ID")

// RowError locates a failure in a data row. Row is 1-based and does not count the header.
type RowError struct {
	Row    int
	Column string
	Value  string
	Err    error
}

func (e *RowError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("row %d: %v", e.Row, e.Err)
	}
	return fmt.Sprintf("row %d: %s %q: %v", e.Row, e.Column, e.Value, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// IsInputError reports whether err was caused by the uploaded data rather than the server.
func IsInputError(err error) bool {
	return errors.Is(err, ErrMalformedCSV) ||
		errors.Is(err, ErrMissingColumns) ||
		errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrNoCustomers)
}
