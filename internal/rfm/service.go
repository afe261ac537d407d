package rfm

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"time"

	"rfmseg/internal/chart"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Options configures where results go and how customers are clustered.
type Options struct {
	// ResultsDir is the directory the per-run images are written to.
	ResultsDir string
	// ResultsURL is the public URL prefix ResultsDir is served under.
	ResultsURL  string
	MaxClusters int
	Seed        uint64
	Chart       chart.Options
}

// Service runs the segmentation pipeline and keeps the resulting runs in a Storage backend.
type Service struct {
	storage Storage
	logger  *zap.Logger
	opts    Options
	now     func() time.Time
}

// NewService creates a new Service.
func NewService(storage Storage, logger *zap.Logger, opts Options) *Service {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}
	if opts.MaxClusters <= 0 {
		opts.MaxClusters = DefaultMaxClusters
	}
	if opts.ResultsDir == "" {
		opts.ResultsDir = filepath.Join("static", "results")
	}
	if opts.ResultsURL == "" {
		opts.ResultsURL = "/static/results"
	}

	return &Service{
		storage: storage,
		logger:  logger,
		opts:    opts,
		now:     time.Now,
	}
}

// Analyze reads an uploaded transaction table, segments its customers, renders the
// cluster plot to a file of its own and stores the run.
func (s *Service) Analyze(filename string, r io.Reader) (*Run, error) {
	started := s.now()

	txs, err := ReadTransactions(r)
	if err != nil {
		s.logger.Warn("failed to read transactions", zap.String("filename", filename), zap.Error(err))
		return nil, err
	}

	customers, k, err := Segment(txs, s.opts.MaxClusters, s.opts.Seed)
	if err != nil {
		s.logger.Warn("failed to segment customers",
			zap.String("filename", filename),
			zap.Int("rows", len(txs)),
			zap.Error(err),
		)
		return nil, err
	}

	run := &Run{
		ID:        uuid.NewString(),
		Filename:  filename,
		CreatedAt: started,
		Rows:      len(txs),
		Clusters:  k,
		Customers: customers,
		Summary:   Summarize(customers, k),
	}

	if err := s.writeImage(run); err != nil {
		s.logger.Error("failed to render cluster plot", zap.String("run_id", run.ID), zap.Error(err))
		return nil, fmt.Errorf("render cluster plot: %w", err)
	}

	if err := s.storage.Set(run); err != nil {
		s.logger.Error("failed to save run", zap.String("run_id", run.ID), zap.Error(err))
		return nil, fmt.Errorf("failed to save run: %w", err)
	}

	s.logger.Info("run completed",
		zap.String("run_id", run.ID),
		zap.String("filename", filename),
		zap.Int("rows", run.Rows),
		zap.Int("customers", len(customers)),
		zap.Int("clusters", k),
		zap.String("image", run.ImagePath),
		zap.Duration("elapsed", s.now().Sub(started)),
	)
	return run, nil
}

// GetRun returns a stored run by ID.
func (s *Service) GetRun(id string) (*Run, error) {
	return s.storage.Read(id)
}

// ListRuns returns every stored run, newest first, without customer rows.
func (s *Service) ListRuns() ([]*Run, error) {
	runs, err := s.storage.GetAll()
	if err != nil {
		s.logger.Error("failed to list runs", zap.Error(err))
		return nil, fmt.Errorf("failed to retrieve runs: %w", err)
	}
	out := make([]*Run, len(runs))
	for i, r := range runs {
		out[i] = r.Brief()
	}
	return out, nil
}

// ExportRun writes the labeled table of a stored run as CSV.
func (s *Service) ExportRun(id string, w io.Writer) error {
	run, err := s.storage.Read(id)
	if err != nil {
		return err
	}
	return WriteCSV(w, run.Customers)
}

// writeImage renders into a temp file and renames it into place, so a reader
// never sees a half-written image.
func (s *Service) writeImage(run *Run) error {
	if err := os.MkdirAll(s.opts.ResultsDir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.opts.ResultsDir, run.ID+"-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := chart.RenderPNG(tmp, ChartPoints(run.Customers), s.opts.Chart); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	name := run.ID + ".png"
	dst := filepath.Join(s.opts.ResultsDir, name)
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return err
	}
	run.ImagePath = dst
	run.ImageURL = path.Join(s.opts.ResultsURL, name)
	return nil
}
