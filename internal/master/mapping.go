// Package master loads the externally maintained identifier-to-description
// price list and applies it to extracted records. Master data always wins
// over descriptions recovered from the document.
package master

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Mapping is the normalized identifier-to-description lookup. Keys are
// produced by NormalizeKey; matching is exact, never fuzzy.
type Mapping map[string]string

// NormalizeKey canonicalizes an identifier for lookup: uppercase with
// spaces and hyphens stripped.
func NormalizeKey(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "-", "")
	return s
}

// Load reads a master mapping from a CSV or XLSX file, dispatching on the
// file extension. Only the first two columns are read, by contract:
// identifier, description. The first row is treated as a header.
func Load(path string) (Mapping, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return LoadCSV(path)
	case ".xlsx":
		return LoadXLSX(path)
	default:
		return nil, fmt.Errorf("unsupported master file type: %s", path)
	}
}

// LoadCSV reads a mapping from a CSV file.
func LoadCSV(path string) (Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open master CSV: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	m := make(Mapping)
	first := true
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read master CSV: %w", err)
		}
		if first {
			first = false
			continue
		}
		addRow(m, row)
	}
	return m, nil
}

// LoadXLSX reads a mapping from the first sheet of an XLSX file.
func LoadXLSX(path string) (Mapping, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open master workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("master workbook has no sheets")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read master rows: %w", err)
	}

	m := make(Mapping)
	for i, row := range rows {
		if i == 0 {
			continue
		}
		addRow(m, row)
	}
	return m, nil
}

func addRow(m Mapping, row []string) {
	if len(row) == 0 {
		return
	}
	key := NormalizeKey(row[0])
	if key == "" {
		return
	}
	desc := ""
	if len(row) > 1 {
		desc = strings.TrimSpace(row[1])
	}
	m[key] = desc
}
