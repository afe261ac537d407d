package rfm

import (
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Aggregate groups transactions by customer and computes Recency, Frequency and Monetary.
// Recency is counted in whole days back from the latest InvoiceDate of the whole table,
// rows without a customer included. Customers come back ordered by CustomerID.
func Aggregate(txs []Transaction) ([]CustomerRFM, error) {
	if len(txs) == 0 {
		return nil, ErrNoCustomers
	}

	now := txs[0].InvoiceDate
	for _, tx := range txs[1:] {
		if tx.InvoiceDate.After(now) {
			now = tx.InvoiceDate
		}
	}

	type acc struct {
		last     time.Time
		rows     int
		monetary decimal.Decimal
	}
	groups := make(map[string]*acc)
	for _, tx := range txs {
		if !tx.HasCustomer() {
			continue
		}
		a, ok := groups[tx.CustomerID]
		if !ok {
			a = &acc{last: tx.InvoiceDate, monetary: decimal.Zero}
			groups[tx.CustomerID] = a
		}
		if tx.InvoiceDate.After(a.last) {
			a.last = tx.InvoiceDate
		}
		a.rows++
		a.monetary = a.monetary.Add(tx.Amount())
	}
	if len(groups) == 0 {
		return nil, ErrNoCustomers
	}

	out := make([]CustomerRFM, 0, len(groups))
	for id, a := range groups {
		out = append(out, CustomerRFM{
			CustomerID: id,
			Recency:    wholeDays(now.Sub(a.last)),
			Frequency:  a.rows,
			Monetary:   a.monetary,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return lessCustomerID(out[i].CustomerID, out[j].CustomerID)
	})
	return out, nil
}

func wholeDays(d time.Duration) int {
	return int(d / (24 * time.Hour))
}

// lessCustomerID orders numeric IDs by value and everything else lexically.
func lessCustomerID(a, b string) bool {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	switch {
	case errA == nil && errB == nil:
		if fa != fb {
			return fa < fb
		}
		return a < b
	case errA == nil:
		return true
	case errB == nil:
		return false
	}
	return a < b
}
