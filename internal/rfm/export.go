package rfm

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// ExportHeader is the column order of the labeled RFM table.
var ExportHeader = []string{"CustomerID", "Recency", "Frequency", "Monetary", "Cluster_id"}

// Table builds the labeled RFM table as a dataframe of string columns.
func Table(customers []CustomerRFM) (dataframe.DataFrame, error) {
	if len(customers) == 0 {
		return dataframe.DataFrame{}, ErrNoCustomers
	}
	records := make([][]string, 0, len(customers)+1)
	records = append(records, ExportHeader)
	for _, c := range customers {
		records = append(records, []string{
			c.CustomerID,
			strconv.Itoa(c.Recency),
			strconv.Itoa(c.Frequency),
			c.Monetary.String(),
			strconv.Itoa(c.ClusterID),
		})
	}
	df := dataframe.LoadRecords(records,
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("build rfm table: %w", df.Err)
	}
	return df, nil
}

// WriteCSV writes the labeled RFM table with a header row.
func WriteCSV(w io.Writer, customers []CustomerRFM) error {
	df, err := Table(customers)
	if err != nil {
		return err
	}
	if err := df.WriteCSV(w); err != nil {
		return fmt.Errorf("write rfm csv: %w", err)
	}
	return nil
}
