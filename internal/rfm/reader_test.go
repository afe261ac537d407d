package rfm

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadTransactions_Valid(t *testing.T) {
	in := newCSV().add("17850", 2, "01-12-2010 08:26", 6, "2.55").String()

	txs, err := ReadTransactions(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, txs, 2)

	tx := txs[0]
	assert.Equal(t, "17850", tx.CustomerID)
	assert.Equal(t, "536365", tx.InvoiceNo)
	assert.Equal(t, int64(6), tx.Quantity)
	assert.Equal(t, "2.55", tx.UnitPrice.String())
	assert.Equal(t, "15.3", tx.Amount().String())
	assert.True(t, tx.InvoiceDate.Equal(time.Date(2010, 12, 1, 8, 26, 0, 0, time.UTC)))
}

func TestReadTransactions_SingleDigitDate(t *testing.T) {
	in := newCSV().add("1", 1, "1-2-2011 8:05", 1, "1").String()

	txs, err := ReadTransactions(strings.NewReader(in))
	require.NoError(t, err)
	assert.True(t, txs[0].InvoiceDate.Equal(time.Date(2011, 2, 1, 8, 5, 0, 0, time.UTC)))
}

func TestReadTransactions_Latin1(t *testing.T) {
	in := "CustomerID,InvoiceNo,InvoiceDate,Quantity,UnitPrice\nRen\xe9,1,01-12-2010 08:26,1,1.00\n"

	txs, err := ReadTransactions(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, "René", txs[0].CustomerID)
}

func TestReadTransactions_ByteOrderMark(t *testing.T) {
	in := "\xef\xbb\xbfCustomerID,InvoiceNo,InvoiceDate,Quantity,UnitPrice\n1,1,01-12-2010 08:26,1,1.00\n"

	txs, err := ReadTransactions(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, "1", txs[0].CustomerID)
}

func TestReadTransactions_NullCustomer(t *testing.T) {
	in := newCSV().
		add("", 1, "01-12-2010 08:26", 1, "1").
		add("NaN", 1, "01-12-2010 08:26", 1, "1").
		add("12", 1, "01-12-2010 08:26", 1, "1").
		String()

	txs, err := ReadTransactions(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, txs, 3)
	assert.False(t, txs[0].HasCustomer())
	assert.False(t, txs[1].HasCustomer())
	assert.True(t, txs[2].HasCustomer())
}

func TestReadTransactions_NegativeQuantityKept(t *testing.T) {
	in := newCSV().add("1", 1, "01-12-2010 08:26", -3, "4.10").String()

	txs, err := ReadTransactions(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, "-12.3", txs[0].Amount().String())
}

func TestReadTransactions_MissingColumns(t *testing.T) {
	in := "CustomerID,InvoiceDate,Quantity\n1,01-12-2010 08:26,1\n"

	_, err := ReadTransactions(strings.NewReader(in))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingColumns))
	assert.Contains(t, err.Error(), "InvoiceNo")
	assert.Contains(t, err.Error(), "UnitPrice")
}

func TestReadTransactions_Empty(t *testing.T) {
	_, err := ReadTransactions(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrMalformedCSV)
}

func TestReadTransactions_HeaderOnly(t *testing.T) {
	txs, err := ReadTransactions(strings.NewReader(csvHeader))
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestReadTransactions_ISODateFails(t *testing.T) {
	in := newCSV().
		add("1", 1, "01-12-2010 08:26", 1, "1").
		add("1", 1, "2010-12-01T08:26:00", 1, "1").
		String()

	_, err := ReadTransactions(strings.NewReader(in))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidDate)

	var rowErr *RowError
	require.True(t, errors.As(err, &rowErr))
	assert.Equal(t, 2, rowErr.Row)
	assert.Equal(t, ColInvoiceDate, rowErr.Column)
	assert.Equal(t, "2010-12-01T08:26:00", rowErr.Value)
}

func TestReadTransactions_BadNumbers(t *testing.T) {
	tests := []struct {
		name string
		in   string
		col  string
	}{
		{"quantity", newCSV().add("1", 1, "01-12-2010 08:26", 1, "1").String() + "9,X,Y,abc,01-12-2010 08:26,1,1,UK\n", ColQuantity},
		{"unit price", newCSV().add("1", 1, "01-12-2010 08:26", 1, "one").String(), ColUnitPrice},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadTransactions(strings.NewReader(tt.in))
			assert.ErrorIs(t, err, ErrMalformedCSV)
			var rowErr *RowError
			require.True(t, errors.As(err, &rowErr))
			assert.Equal(t, tt.col, rowErr.Column)
		})
	}
}

func TestReadTransactions_FieldCountMismatch(t *testing.T) {
	in := "CustomerID,InvoiceNo,InvoiceDate,Quantity,UnitPrice\n1,1,01-12-2010 08:26,1\n"

	_, err := ReadTransactions(strings.NewReader(in))
	assert.ErrorIs(t, err, ErrMalformedCSV)
	assert.True(t, IsInputError(err))
}
