// Command rfm-batch segments the customers of a local transaction CSV and writes
// the cluster plot, without starting the web server.
package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"rfmseg/internal/chart"
	"rfmseg/internal/rfm"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
)

func main() {
	in := flag.String("in", "", "transaction CSV (Latin-1)")
	out := flag.String("out", "result.png", "cluster plot output (PNG)")
	csvOut := flag.String("csv", "", "optional labeled RFM table output (CSV)")
	maxClusters := flag.Int("k", rfm.DefaultMaxClusters, "maximum number of clusters")
	seed := flag.Uint64("seed", 0, "k-means seed")
	flag.Parse()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	if *in == "" {
		fmt.Fprintln(os.Stderr, "usage: rfm-batch -in transactions.csv [-out result.png] [-csv rfm.csv]")
		os.Exit(2)
	}

	if err := run(*in, *out, *csvOut, *maxClusters, *seed); err != nil {
		logger.Fatal("batch failed", zap.String("in", *in), zap.Error(err))
	}
}

func run(in, out, csvOut string, maxClusters int, seed uint64) error {
	bar := progressbar.Default(4, "segmenting")

	f, err := os.Open(in)
	if err != nil {
		return err
	}
	defer f.Close()

	txs, err := rfm.ReadTransactions(f)
	if err != nil {
		return fmt.Errorf("read %s: %w", in, err)
	}
	_ = bar.Add(1)

	customers, k, err := rfm.Segment(txs, maxClusters, seed)
	if err != nil {
		return err
	}
	_ = bar.Add(1)

	img, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := chart.RenderPNG(img, rfm.ChartPoints(customers), chart.Options{}); err != nil {
		img.Close()
		return err
	}
	if err := img.Close(); err != nil {
		return err
	}
	_ = bar.Add(1)

	if csvOut != "" {
		cf, err := os.Create(csvOut)
		if err != nil {
			return err
		}
		if err := rfm.WriteCSV(cf, customers); err != nil {
			cf.Close()
			return err
		}
		if err := cf.Close(); err != nil {
			return err
		}
	}
	_ = bar.Add(1)
	fmt.Println()

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Cluster\tCustomers\tRecency\tFrequency\tMonetary")
	for _, s := range rfm.Summarize(customers, k) {
		fmt.Fprintf(tw, "%d\t%d\t%.1f\t%.1f\t%.2f\n", s.ClusterID, s.Customers, s.MeanRecency, s.MeanFrequency, s.MeanMonetary)
	}
	return tw.Flush()
}
