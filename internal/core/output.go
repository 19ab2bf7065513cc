package core

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// WriteCSV writes the dataset as comma-separated text with the canonical
// header.
func WriteCSV(w io.Writer, d *Dataset) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(CanonicalColumns()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if d != nil {
		for _, r := range d.Rows {
			if err := cw.Write(r[:]); err != nil {
				return fmt.Errorf("write row: %w", err)
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteFile writes the dataset to path, creating the parent directory.
// The data goes to a temp file in the same directory that is renamed over
// path only once complete, so a failed write leaves any existing file as it was.
func WriteFile(path string, d *Dataset) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp output: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = WriteCSV(tmp, d); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync output: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod output: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename output: %w", err)
	}

	return nil
}
