package rfm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRead(t *testing.T, in string) []Transaction {
	t.Helper()
	txs, err := ReadTransactions(strings.NewReader(in))
	require.NoError(t, err)
	return txs
}

func TestAggregate(t *testing.T) {
	txs := mustRead(t, newCSV().
		add("10", 3, "01-12-2010 08:00", 2, "1.50").
		add("10", 1, "05-12-2010 08:00", -1, "1.50").
		add("2", 2, "10-12-2010 09:30", 1, "10").
		String())

	customers, err := Aggregate(txs)
	require.NoError(t, err)
	require.Len(t, customers, 2)

	// numeric order, not lexical
	assert.Equal(t, "2", customers[0].CustomerID)
	assert.Equal(t, "10", customers[1].CustomerID)

	assert.Equal(t, 0, customers[0].Recency)
	assert.Equal(t, 2, customers[0].Frequency)
	assert.Equal(t, "20", customers[0].Monetary.String())

	assert.Equal(t, 5, customers[1].Recency)
	assert.Equal(t, 4, customers[1].Frequency)
	assert.Equal(t, "7.5", customers[1].Monetary.String())
}

func TestAggregate_RecencyFloorsPartialDays(t *testing.T) {
	txs := mustRead(t, newCSV().
		add("1", 1, "31-12-2011 12:00", 1, "1").
		add("2", 1, "30-12-2011 13:00", 1, "1").
		add("3", 1, "29-12-2011 12:00", 1, "1").
		String())

	customers, err := Aggregate(txs)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 2}, []int{customers[0].Recency, customers[1].Recency, customers[2].Recency})
}

func TestAggregate_NullCustomersSetReferenceDate(t *testing.T) {
	txs := mustRead(t, newCSV().
		add("1", 1, "01-12-2010 08:00", 1, "1").
		add("", 1, "04-12-2010 08:00", 1, "1").
		String())

	customers, err := Aggregate(txs)
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, 3, customers[0].Recency)
	assert.Equal(t, 1, customers[0].Frequency)
}

func TestAggregate_NoCustomers(t *testing.T) {
	_, err := Aggregate(nil)
	assert.ErrorIs(t, err, ErrNoCustomers)

	txs := mustRead(t, newCSV().add("", 3, "01-12-2010 08:00", 1, "1").String())
	_, err = Aggregate(txs)
	assert.ErrorIs(t, err, ErrNoCustomers)
}

func TestAggregate_Properties(t *testing.T) {
	txs := mustRead(t, separatedCSV())

	customers, err := Aggregate(txs)
	require.NoError(t, err)

	rows := 0
	sawZero := false
	for _, c := range customers {
		assert.GreaterOrEqual(t, c.Recency, 0, "customer %s", c.CustomerID)
		sawZero = sawZero || c.Recency == 0
		rows += c.Frequency
	}
	assert.True(t, sawZero, "latest buyer must have recency 0")
	assert.Equal(t, len(txs), rows)
	assert.Equal(t, "500", customers[0].Monetary.String())
}

func TestLessCustomerID(t *testing.T) {
	assert.True(t, lessCustomerID("2", "10"))
	assert.True(t, lessCustomerID("12346.0", "12347"))
	assert.True(t, lessCustomerID("99", "A1"))
	assert.True(t, lessCustomerID("A1", "B0"))
	assert.False(t, lessCustomerID("B0", "A1"))
}
