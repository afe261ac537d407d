package rfm

import (
	"fmt"

	"rfmseg/internal/chart"
	"rfmseg/internal/cluster"

	"gonum.org/v1/gonum/stat"
)

// DefaultMaxClusters caps k; fewer customers than this means one cluster per customer.
const DefaultMaxClusters = 3

// Segment aggregates transactions into customers, standardizes Recency, Frequency and
// Monetary over this batch only and labels every customer with a k-means cluster,
// k = min(maxClusters, customers). It returns the labeled customers and k.
func Segment(txs []Transaction, maxClusters int, seed uint64) ([]CustomerRFM, int, error) {
	customers, err := Aggregate(txs)
	if err != nil {
		return nil, 0, err
	}
	if maxClusters <= 0 {
		maxClusters = DefaultMaxClusters
	}
	k := min(maxClusters, len(customers))

	features := make([][]float64, len(customers))
	for i, c := range customers {
		features[i] = []float64{float64(c.Recency), float64(c.Frequency), c.Monetary.InexactFloat64()}
	}

	res, err := cluster.KMeans{K: k, Seed: seed}.Fit(cluster.Standardize(features))
	if err != nil {
		return nil, 0, fmt.Errorf("cluster customers: %w", err)
	}
	for i := range customers {
		customers[i].ClusterID = res.Labels[i]
	}
	return customers, k, nil
}

// Summarize returns one entry per cluster id in [0, k), with means in raw units.
func Summarize(customers []CustomerRFM, k int) []ClusterSummary {
	out := make([]ClusterSummary, k)
	for c := range out {
		var rec, freq, mon []float64
		for _, cu := range customers {
			if cu.ClusterID != c {
				continue
			}
			rec = append(rec, float64(cu.Recency))
			freq = append(freq, float64(cu.Frequency))
			mon = append(mon, cu.Monetary.InexactFloat64())
		}
		out[c] = ClusterSummary{ClusterID: c, Customers: len(rec)}
		if len(rec) > 0 {
			out[c].MeanRecency = stat.Mean(rec, nil)
			out[c].MeanFrequency = stat.Mean(freq, nil)
			out[c].MeanMonetary = stat.Mean(mon, nil)
		}
	}
	return out
}

// ChartPoints converts labeled customers into chart input.
func ChartPoints(customers []CustomerRFM) []chart.Point {
	pts := make([]chart.Point, len(customers))
	for i, c := range customers {
		pts[i] = chart.Point{
			Cluster:   c.ClusterID,
			Monetary:  c.Monetary.InexactFloat64(),
			Frequency: float64(c.Frequency),
			Recency:   float64(c.Recency),
		}
	}
	return pts
}
