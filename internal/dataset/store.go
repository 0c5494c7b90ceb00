package dataset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"sync"

	"roi-insight/internal/roi"

	"github.com/rs/zerolog/log"
)

// ErrNotFound is returned when a named dataset does not exist.
var ErrNotFound = errors.New("dataset not found")

// ErrInvalidName is returned for names that are not a plain file stem.
var ErrInvalidName = errors.New("invalid dataset name")

var validName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

// Store keeps exports as CSV files in a single directory, one file per dataset name.
type Store struct {
	mu  sync.RWMutex
	dir string
}

// NewStore creates the directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create dataset directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the backing directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path resolves a dataset name to its file, rejecting names that could escape the directory.
func (s *Store) Path(name string) (string, error) {
	name = strings.TrimSuffix(name, ".csv")
	if !validName.MatchString(name) {
		return "", fmt.Errorf("%w %q", ErrInvalidName, name)
	}
	return filepath.Join(s.dir, name+".csv"), nil
}

// Save replaces the named dataset. The file is written to a temporary path
// and renamed so readers never see a partial export.
func (s *Store) Save(name string, records []roi.Record) error {
	path, err := s.Path(name)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, ".dataset-*.csv")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteCSV(tmp, records); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write dataset %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move dataset into place: %w", err)
	}

	log.Info().Str("dataset", name).Int("rows", len(records)).Str("path", path).Msg("Dataset saved")
	return nil
}

// Load reads the named dataset.
func (s *Store) Load(name string) ([]roi.Record, error) {
	path, err := s.Path(name)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return LoadFile(path)
}

// List returns the dataset names in lexical order.
func (s *Store) List() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		n := e.Name()
		if e.IsDir() || strings.HasPrefix(n, ".") || filepath.Ext(n) != ".csv" {
			continue
		}
		names = append(names, strings.TrimSuffix(n, ".csv"))
	}
	slices.Sort(names)
	return names, nil
}

// LoadFile reads an export from an arbitrary path.
func LoadFile(path string) ([]roi.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, err
	}
	defer f.Close()

	records, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	log.Debug().Str("path", path).Int("rows", len(records)).Msg("Dataset loaded")
	return records, nil
}

// Analyze loads the named dataset and builds a session around adoptionDate.
func (s *Store) Analyze(name, adoptionDate string, opts roi.Options) (*roi.AnalysisSession, error) {
	records, err := s.Load(name)
	if err != nil {
		return nil, err
	}
	session, err := roi.NewAnalysisSession(records, adoptionDate, opts)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", name, err)
	}
	return session, nil
}
