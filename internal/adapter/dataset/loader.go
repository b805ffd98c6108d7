// Package dataset loads raw call-log tables from CSV or XLSX exports.
// Schema validation and typing happen downstream in the domain normalizer;
// the loader only maps columns and records load provenance.
package dataset

import (
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/xuri/excelize/v2"

	"github.com/couchcryptid/helpline-analytics/internal/domain"
)

// Metadata records the provenance of one load.
type Metadata struct {
	Source      string    `json:"source"`
	RecordCount int       `json:"record_count"`
	FileHash    string    `json:"file_hash"`
	LoadedAt    time.Time `json:"loaded_at"`
}

// Loader reads call-log files into raw tables.
type Loader struct {
	clock clockwork.Clock
}

// NewLoader creates a Loader. Pass nil to use the real clock.
func NewLoader(clock clockwork.Clock) *Loader {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Loader{clock: clock}
}

// Load reads a CSV or XLSX file into a raw table with load metadata.
// Extension decides the format; unknown extensions try CSV first, then XLSX.
func (l *Loader) Load(path string) (domain.RawTable, Metadata, error) {
	hash, err := hashFile(path)
	if err != nil {
		return domain.RawTable{}, Metadata{}, fmt.Errorf("hash %s: %w", path, err)
	}

	var table domain.RawTable
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		table, err = readCSV(path)
	case ".xls", ".xlsx":
		table, err = readXLSX(path)
	default:
		table, err = readCSV(path)
		if err != nil {
			table, err = readXLSX(path)
		}
	}
	if err != nil {
		return domain.RawTable{}, Metadata{}, fmt.Errorf("read %s: %w", path, err)
	}

	meta := Metadata{
		Source:      path,
		RecordCount: len(table.Rows),
		FileHash:    hash,
		LoadedAt:    l.clock.Now().UTC(),
	}
	return table, meta, nil
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func readCSV(path string) (domain.RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.RawTable{}, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // ragged rows degrade per-field, not fatally

	rows, err := reader.ReadAll()
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("parse csv: %w", err)
	}
	return tableFromRows(rows), nil
}

func readXLSX(path string) (domain.RawTable, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return tableFromRows(rows), nil
}

// tableFromRows maps a header row plus data rows into a raw table. Header
// cells are trimmed; the first cell additionally has any UTF-8 BOM stripped.
func tableFromRows(rows [][]string) domain.RawTable {
	if len(rows) == 0 {
		return domain.RawTable{}
	}

	header := make([]string, len(rows[0]))
	for i, col := range rows[0] {
		if i == 0 {
			col = strings.TrimPrefix(col, "\ufeff")
		}
		header[i] = strings.TrimSpace(col)
	}

	index := make(map[string]int, len(header))
	for i, col := range header {
		index[col] = i
	}
	cell := func(row []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	table := domain.RawTable{Columns: header, Rows: make([]domain.RawRecord, 0, len(rows)-1)}
	for _, row := range rows[1:] {
		table.Rows = append(table.Rows, domain.RawRecord{
			CallID:       cell(row, domain.ColCallID),
			CallTS:       cell(row, domain.ColCallTS),
			ResponseTS:   cell(row, domain.ColResponseTS),
			Lat:          cell(row, domain.ColCallerLat),
			Lon:          cell(row, domain.ColCallerLon),
			Category:     cell(row, domain.ColCategory),
			Jurisdiction: cell(row, domain.ColJurisdiction),
		})
	}
	return table
}
