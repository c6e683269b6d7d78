// Package warehouse reads and writes the pipeline's CSV files: the
// per-run clean files and the single cumulative warehouse file that
// accumulates delay rows across runs.
package warehouse

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"mbta-delay-pipeline/models"
)

// WriteRecords writes records to path as a fresh CSV with the fixed
// header, replacing any existing file. Output is deterministic: the
// same records always produce the same bytes.
func WriteRecords(path string, records []models.DelayRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(models.DelayCSVHeader); err != nil {
		f.Close()
		return fmt.Errorf("write header: %w", err)
	}
	for _, rec := range records {
		if err := w.Write(rec.CSVRow()); err != nil {
			f.Close()
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return f.Close()
}

// ReadRecords parses a CSV written by WriteRecords or Append.
func ReadRecords(path string) ([]models.DelayRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) != len(models.DelayCSVHeader) {
		return nil, fmt.Errorf("unexpected header width %d in %s", len(header), path)
	}

	var records []models.DelayRecord
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		rec, err := models.DelayRecordFromCSVRow(row)
		if err != nil {
			return nil, fmt.Errorf("parse row: %w", err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// Append adds records to the warehouse file, creating it with a header
// on first use. The header is never repeated. Returns the number of
// rows appended.
func Append(path string, records []models.DelayRecord) (int, error) {
	_, statErr := os.Stat(path)
	newFile := errors.Is(statErr, os.ErrNotExist)
	if statErr != nil && !newFile {
		return 0, fmt.Errorf("stat %s: %w", path, statErr)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	if newFile {
		if err := w.Write(models.DelayCSVHeader); err != nil {
			f.Close()
			return 0, fmt.Errorf("write header: %w", err)
		}
	}
	for _, rec := range records {
		if err := w.Write(rec.CSVRow()); err != nil {
			f.Close()
			return 0, fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return 0, fmt.Errorf("flush %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("close %s: %w", path, err)
	}
	return len(records), nil
}

// Count returns the number of data rows in the warehouse file. A
// missing file counts as zero.
func Count(path string) (int, error) {
	records, err := ReadRecords(path)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

// Routes returns the distinct route ids present in the warehouse, in
// first-seen order.
func Routes(path string) ([]string, error) {
	records, err := ReadRecords(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var routes []string
	for _, rec := range records {
		if rec.RouteID == "" || seen[rec.RouteID] {
			continue
		}
		seen[rec.RouteID] = true
		routes = append(routes, rec.RouteID)
	}
	return routes, nil
}
