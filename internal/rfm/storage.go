package rfm

import (
	"sort"
	"sync"
)

// Storage is the main interface for our run storage layer.
type Storage interface {
	Set(run *Run) error
	Read(id string) (*Run, error)
	GetAll() ([]*Run, error)
}

// LocalStorage keeps runs in memory for the lifetime of the process.
// TODO: cap the number of kept runs and remove the evicted images from disk.
type LocalStorage struct {
	mu sync.RWMutex
	m  map[string]*Run
}

// NewLocalStorage instantiates a new LocalStorage with an empty map.
func NewLocalStorage() *LocalStorage {
	return &LocalStorage{
		m: map[string]*Run{},
	}
}

// Set stores the run under its ID.
// Returns ErrEmptyID if the run has an empty ID.
func (l *LocalStorage) Set(run *Run) error {
	if run.ID == "" {
		return ErrEmptyID
	}
	l.mu.Lock()
	l.m[run.ID] = run
	l.mu.Unlock()
	return nil
}

// Read retrieves a run by ID.
// Returns ErrNotFound if the run is not found.
func (l *LocalStorage) Read(id string) (*Run, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	r, ok := l.m[id]
	if !ok {
		return nil, ErrNotFound
	}
	return r, nil
}

// GetAll retrieves all runs, newest first.
func (l *LocalStorage) GetAll() ([]*Run, error) {
	l.mu.RLock()
	runs := make([]*Run, 0, len(l.m))
	for _, r := range l.m {
		runs = append(runs, r)
	}
	l.mu.RUnlock()

	sort.Slice(runs, func(i, j int) bool {
		if runs[i].CreatedAt.Equal(runs[j].CreatedAt) {
			return runs[i].ID < runs[j].ID
		}
		return runs[i].CreatedAt.After(runs[j].CreatedAt)
	})
	return runs, nil
}
