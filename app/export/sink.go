package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

const CSVFileName = "plex-watched-movies.csv"

// Appender receives the rows collected during a run.
type Appender interface {
	Append(rows []Row) error
}

var _ Appender = (*CSVSink)(nil)

// CSVSink appends rows to a CSV file, writing the header only when the file
// is created. Existing rows are never rewritten.
type CSVSink struct {
	fs   afero.Fs
	path string
}

func NewCSVSink(fsys afero.Fs, dir string) *CSVSink {
	return &CSVSink{fs: fsys, path: filepath.Join(dir, CSVFileName)}
}

func (s *CSVSink) Path() string {
	return s.path
}

func (s *CSVSink) Append(rows []Row) error {
	if len(rows) == 0 {
		return nil
	}

	exists, err := afero.Exists(s.fs, s.path)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", s.path, err)
	}

	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	f, err := s.fs.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", s.path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if !exists {
		if err := w.Write(Columns); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}
	for _, row := range rows {
		if err := w.Write(row.Record()); err != nil {
			return fmt.Errorf("failed to write row %q: %w", row.Title, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", s.path, err)
	}
	return f.Close()
}
