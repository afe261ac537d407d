package rfm

import (
	"fmt"
	"strings"
)

const csvHeader = "InvoiceNo,StockCode,Description,Quantity,InvoiceDate,UnitPrice,CustomerID,Country\n"

// csvBuilder writes invoice rows in the column order of the usual online-retail export.
type csvBuilder struct {
	sb      strings.Builder
	invoice int
}

func newCSV() *csvBuilder {
	b := &csvBuilder{invoice: 536365}
	b.sb.WriteString(csvHeader)
	return b
}

func (b *csvBuilder) add(customer string, n int, date string, qty int, price string) *csvBuilder {
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b.sb, "%d,85123A,WHITE HANGING HEART,%d,%s,%s,%s,United Kingdom\n",
			b.invoice, qty, date, price, customer)
		b.invoice++
	}
	return b
}

func (b *csvBuilder) String() string {
	return b.sb.String()
}

// separatedCSV has ten customers in three well separated groups:
// 1-4 recent big spenders, 5-7 lapsed one-off buyers, 8-10 old mid-frequency buyers.
func separatedCSV() string {
	b := newCSV()
	b.add("1", 10, "31-12-2011 12:00", 10, "5.00")
	for _, id := range []string{"2", "3", "4"} {
		b.add(id, 10, "30-12-2011 12:00", 10, "5.00")
	}
	for _, id := range []string{"5", "6", "7"} {
		b.add(id, 1, "01-10-2011 12:00", 1, "2.50")
	}
	for _, id := range []string{"8", "9", "10"} {
		b.add(id, 4, "01-03-2011 12:00", 2, "3.00")
	}
	return b.String()
}
