package featsel

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// Dataset holds a numeric feature matrix with a binary 0/1 target column.
type Dataset struct {
	Names  []string
	X      [][]float64
	Target []float64
}

// LoadCSV reads a headered CSV and splits out the named target column.
// Every cell must parse as a float and the target must be 0 or 1.
func LoadCSV(path, targetName string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("dataset %s has no data rows", path)
	}

	header := rows[0]
	targetIdx := -1
	for i, name := range header {
		if name == targetName {
			targetIdx = i
			break
		}
	}
	if targetIdx < 0 {
		return nil, fmt.Errorf("target column %q not found in %s", targetName, path)
	}

	ds := &Dataset{}
	for i, name := range header {
		if i != targetIdx {
			ds.Names = append(ds.Names, name)
		}
	}

	for lineNo, row := range rows[1:] {
		if len(row) != len(header) {
			return nil, fmt.Errorf("row %d has %d columns, want %d", lineNo+2, len(row), len(header))
		}
		features := make([]float64, 0, len(header)-1)
		for i, cell := range row {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %q: %w", lineNo+2, header[i], err)
			}
			if i == targetIdx {
				if v != 0 && v != 1 {
					return nil, fmt.Errorf("row %d: target %v is not binary", lineNo+2, v)
				}
				ds.Target = append(ds.Target, v)
			} else {
				features = append(features, v)
			}
		}
		ds.X = append(ds.X, features)
	}
	return ds, nil
}

// Column returns the values of the feature at index i across all rows.
func (ds *Dataset) Column(i int) []float64 {
	col := make([]float64, len(ds.X))
	for r, row := range ds.X {
		col[r] = row[i]
	}
	return col
}

// index returns the position of a feature name, or -1.
func (ds *Dataset) index(name string) int {
	for i, n := range ds.Names {
		if n == name {
			return i
		}
	}
	return -1
}

// Subset builds the row-major matrix restricted to the named features,
// in the given order. Unknown names are an error.
func (ds *Dataset) Subset(names []string) ([][]float64, error) {
	idx := make([]int, len(names))
	for i, name := range names {
		j := ds.index(name)
		if j < 0 {
			return nil, fmt.Errorf("unknown feature %q", name)
		}
		idx[i] = j
	}
	out := make([][]float64, len(ds.X))
	for r, row := range ds.X {
		sub := make([]float64, len(idx))
		for i, j := range idx {
			sub[i] = row[j]
		}
		out[r] = sub
	}
	return out, nil
}
