package rfm

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one row of the uploaded invoice table.
type Transaction struct {
	CustomerID  string          `json:"customer_id"`
	InvoiceNo   string          `json:"invoice_no"`
	InvoiceDate time.Time       `json:"invoice_date"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// Amount is Quantity × UnitPrice. Returns carry a negative quantity and are kept.
func (t Transaction) Amount() decimal.Decimal {
	return t.UnitPrice.Mul(decimal.NewFromInt(t.Quantity))
}

// HasCustomer reports whether the row belongs to a known customer.
func (t Transaction) HasCustomer() bool {
	return t.CustomerID != ""
}

// CustomerRFM holds the per-customer scores and the assigned cluster.
type CustomerRFM struct {
	CustomerID string          `json:"customer_id"`
	Recency    int             `json:"recency"`
	Frequency  int             `json:"frequency"`
	Monetary   decimal.Decimal `json:"monetary"`
	ClusterID  int             `json:"cluster_id"`
}

// ClusterSummary describes one cluster in raw (unscaled) units.
type ClusterSummary struct {
	ClusterID     int     `json:"cluster_id"`
	Customers     int     `json:"customers"`
	MeanRecency   float64 `json:"mean_recency"`
	MeanFrequency float64 `json:"mean_frequency"`
	MeanMonetary  float64 `json:"mean_monetary"`
}

// Run is the outcome of one upload.
type Run struct {
	ID        string           `json:"id"`
	Filename  string           `json:"filename"`
	CreatedAt time.Time        `json:"created_at"`
	Rows      int              `json:"rows"`
	Clusters  int              `json:"clusters"`
	Customers []CustomerRFM    `json:"customers,omitempty"`
	Summary   []ClusterSummary `json:"summary"`
	ImagePath string           `json:"-"`
	ImageURL  string           `json:"image_url"`
}

// Brief returns a copy of the run without the per-customer rows.
func (r *Run) Brief() *Run {
	b := *r
	b.Customers = nil
	return &b
}
