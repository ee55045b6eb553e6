// Package dataset reads and writes generated records as JSON files: the raw
// dataset in one directory and cumulative parts in part_N subfolders.
package dataset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/vvka-141/loanstage/pkg/loanstage"
)

var _ loanstage.PartSource = (*Store)(nil)

// Store is the on-disk layout of raw and split files.
type Store struct {
	RawDir   string
	PartsDir string
}

// NewStore creates a Store over rawDir and partsDir.
func NewStore(rawDir, partsDir string) *Store {
	return &Store{RawDir: rawDir, PartsDir: partsDir}
}

// RawPath returns the path of kind's raw file.
func (s *Store) RawPath(kind loanstage.RecordKind) string {
	return filepath.Join(s.RawDir, kind.RawFileName())
}

// PartDir returns the folder of part n.
func (s *Store) PartDir(n int) string {
	return filepath.Join(s.PartsDir, loanstage.PartDirPrefix+strconv.Itoa(n))
}

// WriteRaw writes the dataset's three files into RawDir, replacing existing ones.
func (s *Store) WriteRaw(ds *loanstage.Dataset) error {
	if err := os.MkdirAll(s.RawDir, 0o755); err != nil {
		return fmt.Errorf("failed to create raw directory %s: %w", s.RawDir, err)
	}
	return writeDataset(ds, s.RawPath)
}

// ReadRaw reads the three raw files. A missing file yields ErrMissingInput.
func (s *Store) ReadRaw() (*loanstage.Dataset, error) {
	var ds loanstage.Dataset
	var err error
	if ds.Clients, err = s.ReadClients(s.RawPath(loanstage.KindClients)); err != nil {
		return nil, err
	}
	if ds.Loans, err = s.ReadLoans(s.RawPath(loanstage.KindLoans)); err != nil {
		return nil, err
	}
	if ds.Payments, err = s.ReadPayments(s.RawPath(loanstage.KindPayments)); err != nil {
		return nil, err
	}
	return &ds, nil
}

// ResetParts removes every part_* folder under PartsDir. Other entries are kept.
func (s *Store) ResetParts() error {
	entries, err := os.ReadDir(s.PartsDir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read parts directory %s: %w", s.PartsDir, err)
	}
	for _, e := range entries {
		if _, ok := partNumber(e); !ok {
			continue
		}
		if err := os.RemoveAll(filepath.Join(s.PartsDir, e.Name())); err != nil {
			return fmt.Errorf("failed to remove stale part %s: %w", e.Name(), err)
		}
	}
	return nil
}

// WritePart writes one part's files into its part_N folder.
func (s *Store) WritePart(p loanstage.Part) error {
	dir := s.PartDir(p.Number)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create part directory %s: %w", dir, err)
	}
	return writeDataset(&p.Dataset, func(kind loanstage.RecordKind) string {
		return filepath.Join(dir, kind.PartFileName(p.Number))
	})
}

// WriteParts clears stale parts and writes parts.
func (s *Store) WriteParts(parts []loanstage.Part) error {
	if err := s.ResetParts(); err != nil {
		return err
	}
	for _, p := range parts {
		if err := s.WritePart(p); err != nil {
			return err
		}
	}
	return nil
}

// ListParts returns the numbers of part_N folders in ascending numeric order.
func (s *Store) ListParts() ([]int, error) {
	entries, err := os.ReadDir(s.PartsDir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("parts directory %s does not exist: %w", s.PartsDir, loanstage.ErrMissingInput)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read parts directory %s: %w", s.PartsDir, err)
	}
	var parts []int
	for _, e := range entries {
		if n, ok := partNumber(e); ok {
			parts = append(parts, n)
		}
	}
	sort.Ints(parts)
	return parts, nil
}

// PartFiles checks that part n's folder and all three files exist.
func (s *Store) PartFiles(n int) (map[loanstage.RecordKind]string, error) {
	dir := s.PartDir(n)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("part folder %s not found: %w", dir, loanstage.ErrMissingInput)
	}
	files := make(map[loanstage.RecordKind]string, len(loanstage.LoadOrder))
	for _, kind := range loanstage.LoadOrder {
		path := filepath.Join(dir, kind.PartFileName(n))
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("part file %s not found: %w", path, loanstage.ErrMissingInput)
		}
		files[kind] = path
	}
	return files, nil
}

func (s *Store) ReadClients(path string) ([]loanstage.Client, error) {
	var out []loanstage.Client
	if err := readJSON(path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) ReadLoans(path string) ([]loanstage.LoanSchedule, error) {
	var out []loanstage.LoanSchedule
	if err := readJSON(path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) ReadPayments(path string) ([]loanstage.LoanPayment, error) {
	var out []loanstage.LoanPayment
	if err := readJSON(path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func partNumber(e fs.DirEntry) (int, bool) {
	if !e.IsDir() || !strings.HasPrefix(e.Name(), loanstage.PartDirPrefix) {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(e.Name(), loanstage.PartDirPrefix))
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

func writeDataset(ds *loanstage.Dataset, path func(loanstage.RecordKind) string) error {
	if err := WriteJSON(path(loanstage.KindClients), nonNil(ds.Clients)); err != nil {
		return err
	}
	if err := WriteJSON(path(loanstage.KindLoans), nonNil(ds.Loans)); err != nil {
		return err
	}
	return WriteJSON(path(loanstage.KindPayments), nonNil(ds.Payments))
}

// nonNil makes empty record sets serialize as [] instead of null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// WriteJSON writes v as two-space indented JSON without HTML escaping.
// The file is written to a temporary name and renamed into place.
func WriteJSON(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("file %s not found: %w", path, loanstage.ErrMissingInput)
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("invalid JSON in %s: %w", path, err)
	}
	return nil
}
