package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/agrawalsparsh/housing-ranker/internal/domain/model"
	"github.com/agrawalsparsh/housing-ranker/pkg/metrics"
)

// stateVersion is bumped whenever the persisted schema changes shape.
const stateVersion = 1

// stateFile is the persisted schema: ratings map plus append-only history.
type stateFile struct {
	Version int                `json:"version"`
	Ratings map[string]float64 `json:"ratings"`
	History []model.Match      `json:"history"`
}

// FileStore implements Store against a single local JSON file.
//
// All mutations run load-modify-save under one mutex, which serializes the
// file access the contract requires. Multi-process writers are out of scope;
// a file lock here is the documented extension point.
type FileStore struct {
	mu       sync.Mutex
	path     string
	fileMode os.FileMode

	ratings map[string]float64
	history []model.Match
}

// Option applies a configuration option to the FileStore.
type Option func(*FileStore)

// WithFileMode sets the permission bits used for the state file.
func WithFileMode(mode os.FileMode) Option {
	return func(s *FileStore) {
		if mode != 0 {
			s.fileMode = mode
		}
	}
}

// NewFileStore creates a store backed by the file at path. Call Load before
// first use.
func NewFileStore(path string, opts ...Option) *FileStore {
	s := &FileStore{
		path:     path,
		fileMode: 0o644,
		ratings:  make(map[string]float64),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the persisted state from disk.
func (s *FileStore) Load(_ context.Context) error {
	start := time.Now()
	defer func() {
		metrics.RecordStoreLoadLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// First run: empty state, not an error.
			s.ratings = make(map[string]float64)
			s.history = nil
			return nil
		}
		return fmt.Errorf("%w: reading %s: %w", ErrCorruptState, s.path, err)
	}

	var st stateFile
	if err := json.Unmarshal(data, &st); err != nil {
		return fmt.Errorf("%w: parsing %s: %w", ErrCorruptState, s.path, err)
	}
	if st.Version != stateVersion {
		return fmt.Errorf("%w: unsupported state version %d in %s", ErrCorruptState, st.Version, s.path)
	}

	if st.Ratings == nil {
		st.Ratings = make(map[string]float64)
	}
	s.ratings = st.Ratings
	s.history = st.History
	return nil
}

// Save atomically persists the current state via temp-file-then-rename.
func (s *FileStore) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(ctx)
}

// saveLocked writes the state file. Callers must hold the mutex.
func (s *FileStore) saveLocked(_ context.Context) error {
	start := time.Now()
	defer func() {
		metrics.RecordStoreSaveLatency(float64(time.Since(start).Milliseconds()))
	}()

	st := stateFile{
		Version: stateVersion,
		Ratings: s.ratings,
		History: s.history,
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		metrics.RecordStoreSaveError()
		return fmt.Errorf("%w: encoding state: %w", ErrSaveFailed, err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		metrics.RecordStoreSaveError()
		return fmt.Errorf("%w: creating temp file: %w", ErrSaveFailed, err)
	}
	tmpName := tmp.Name()

	// Write, flush, close, then rename into place. On any failure the
	// temp file is removed and the previous state file stays intact.
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		metrics.RecordStoreSaveError()
		return fmt.Errorf("%w: writing temp file: %w", ErrSaveFailed, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		metrics.RecordStoreSaveError()
		return fmt.Errorf("%w: syncing temp file: %w", ErrSaveFailed, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		metrics.RecordStoreSaveError()
		return fmt.Errorf("%w: closing temp file: %w", ErrSaveFailed, err)
	}
	if err := os.Chmod(tmpName, s.fileMode); err != nil {
		_ = os.Remove(tmpName)
		metrics.RecordStoreSaveError()
		return fmt.Errorf("%w: setting file mode: %w", ErrSaveFailed, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		metrics.RecordStoreSaveError()
		return fmt.Errorf("%w: renaming into place: %w", ErrSaveFailed, err)
	}
	return nil
}

// EnsureListing inserts id at baseline if absent.
func (s *FileStore) EnsureListing(_ context.Context, id string, baseline float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ratings[id]; ok {
		return false
	}
	s.ratings[id] = baseline
	return true
}

// ApplyMatch commits both new ratings and the history entry, then persists.
// On save failure the in-memory mutation is rolled back so memory and disk
// never disagree about whether a decision happened.
func (s *FileStore) ApplyMatch(ctx context.Context, m model.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prevWinner, ok := s.ratings[m.WinnerID]
	if !ok {
		return fmt.Errorf("%w: winner %s", ErrListingNotFound, m.WinnerID)
	}
	prevLoser, ok := s.ratings[m.LoserID]
	if !ok {
		return fmt.Errorf("%w: loser %s", ErrListingNotFound, m.LoserID)
	}

	s.ratings[m.WinnerID] = m.WinnerAfter
	s.ratings[m.LoserID] = m.LoserAfter
	s.history = append(s.history, m)

	if err := s.saveLocked(ctx); err != nil {
		s.ratings[m.WinnerID] = prevWinner
		s.ratings[m.LoserID] = prevLoser
		s.history = s.history[:len(s.history)-1]
		return err
	}
	return nil
}

// Rating returns the current rating for id.
func (s *FileStore) Rating(_ context.Context, id string) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.ratings[id]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrListingNotFound, id)
	}
	return r, nil
}

// Ratings returns a copy of the ratings map.
func (s *FileStore) Ratings(_ context.Context) map[string]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]float64, len(s.ratings))
	for id, r := range s.ratings {
		out[id] = r
	}
	return out
}

// History returns the most recent limit entries, oldest first.
func (s *FileStore) History(_ context.Context, limit int) []model.Match {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := 0
	if limit > 0 && len(s.history) > limit {
		start = len(s.history) - limit
	}
	out := make([]model.Match, len(s.history)-start)
	copy(out, s.history[start:])
	return out
}

// Count returns the number of listings in the state.
func (s *FileStore) Count(_ context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ratings)
}
