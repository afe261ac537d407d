// Package cluster standardizes feature vectors and groups them with k-means.
package cluster

import (
	"gonum.org/v1/gonum/stat"
)

// Standardize rescales each column of rows to zero mean and unit variance using the
// population standard deviation. Columns with zero variance come out as all zeros.
// The input is not modified.
func Standardize(rows [][]float64) [][]float64 {
	if len(rows) == 0 {
		return nil
	}
	dims := len(rows[0])
	out := make([][]float64, len(rows))
	for i := range rows {
		out[i] = make([]float64, dims)
	}

	col := make([]float64, len(rows))
	for j := 0; j < dims; j++ {
		for i, r := range rows {
			col[i] = r[j]
		}
		mean, std := stat.PopMeanStdDev(col, nil)
		if std == 0 {
			std = 1
		}
		for i := range rows {
			out[i][j] = (col[i] - mean) / std
		}
	}
	return out
}
