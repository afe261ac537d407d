package rfm

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
)

// InvoiceDateLayout is the DD-MM-YYYY HH:MM format of the InvoiceDate column.
// Single-digit days, months and hours are accepted.
const InvoiceDateLayout = "2-1-2006 15:04"

// Required column names, in the order they are reported when missing.
const (
	ColCustomerID  = "CustomerID"
	ColInvoiceNo   = "InvoiceNo"
	ColInvoiceDate = "InvoiceDate"
	ColQuantity    = "Quantity"
	ColUnitPrice   = "UnitPrice"
)

var requiredColumns = []string{ColCustomerID, ColInvoiceNo, ColInvoiceDate, ColQuantity, ColUnitPrice}

// Tokens read as a missing CustomerID.
var nullTokens = map[string]struct{}{
	"":     {},
	"NA":   {},
	"N/A":  {},
	"NaN":  {},
	"nan":  {},
	"null": {},
	"NULL": {},
	"None": {},
}

// ReadTransactions decodes a Latin-1 CSV with a header row into transactions.
// Extra columns are ignored. The first bad row aborts the read.
func ReadTransactions(r io.Reader) ([]Transaction, error) {
	cr := csv.NewReader(charmap.ISO8859_1.NewDecoder().Reader(r))
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty file", ErrMalformedCSV)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCSV, err)
	}

	idx, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var txs []Transaction
	for row := 1; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &RowError{Row: row, Err: fmt.Errorf("%w: %v", ErrMalformedCSV, err)}
		}
		tx, err := parseRecord(rec, idx, row)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

func columnIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if i == 0 {
			// UTF-8 byte order mark as seen through a Latin-1 decoder.
			name = strings.TrimPrefix(name, "ï»¿")
		}
		if _, dup := idx[name]; !dup {
			idx[name] = i
		}
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}
	return idx, nil
}

func parseRecord(rec []string, idx map[string]int, row int) (Transaction, error) {
	field := func(col string) string {
		return strings.TrimSpace(rec[idx[col]])
	}

	var tx Transaction
	if id := field(ColCustomerID); !isNull(id) {
		tx.CustomerID = id
	}
	tx.InvoiceNo = field(ColInvoiceNo)

	raw := field(ColInvoiceDate)
	date, err := time.Parse(InvoiceDateLayout, raw)
	if err != nil {
		return Transaction{}, &RowError{Row: row, Column: ColInvoiceDate, Value: raw, Err: ErrInvalidDate}
	}
	tx.InvoiceDate = date

	raw = field(ColQuantity)
	qty, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return Transaction{}, &RowError{Row: row, Column: ColQuantity, Value: raw, Err: ErrMalformedCSV}
	}
	tx.Quantity = qty

	raw = field(ColUnitPrice)
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return Transaction{}, &RowError{Row: row, Column: ColUnitPrice, Value: raw, Err: ErrMalformedCSV}
	}
	tx.UnitPrice = price

	return tx, nil
}

func isNull(s string) bool {
	_, ok := nullTokens[s]
	return ok
}
