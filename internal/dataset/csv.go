package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/didi520rain/cs230-shipwreck-explorer/internal/model"
)

// Source columns, matched case-insensitively after trimming. Extra
// columns are ignored.
const (
	colName      = "ship's name"
	colYear      = "year"
	colType      = "vessel type"
	colLives     = "lives lost"
	colLocation  = "location lost"
	colCause     = "cause of loss"
	colLatitude  = "latitude"
	colLongitude = "longitude"
)

var requiredColumns = []string{
	colName, colYear, colType, colLives,
	colLocation, colCause, colLatitude, colLongitude,
}

// LoadCSV reads the wreck table from path and returns the loaded Dataset.
// Numeric cells that fail to parse are treated as missing values, never
// as errors; the load fails only when the file is unreadable, the CSV is
// malformed, or a required column is absent.
func LoadCSV(path string) (*Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open wreck table: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only input.
			_ = cerr
		}
	}()

	reader := csv.NewReader(file)
	// Hand-curated tables often carry ragged rows; short rows read as
	// missing cells rather than errors.
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("wreck table %s is empty", path)
	}
	if err != nil {
		return nil, fmt.Errorf("read wreck table header: %w", err)
	}
	columns, err := resolveColumns(header)
	if err != nil {
		return nil, fmt.Errorf("wreck table %s: %w", path, err)
	}

	var records []model.WreckRecord
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read wreck table: %w", err)
		}
		records = append(records, parseRow(row, columns))
	}
	return FromRecords(records), nil
}

// resolveColumns maps the required column names to their positions in the
// header. The first occurrence wins when a name repeats.
func resolveColumns(header []string) (map[string]int, error) {
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, ok := index[key]; !ok {
			index[key] = i
		}
	}
	var missing []string
	for _, name := range requiredColumns {
		if _, ok := index[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return index, nil
}

func parseRow(row []string, columns map[string]int) model.WreckRecord {
	lives := parseOptionalInt(cellAt(row, columns[colLives]))
	if lives != nil && *lives < 0 {
		// Lives lost is defined non-negative; a negative cell is as
		// unusable as a non-numeric one.
		lives = nil
	}
	return model.WreckRecord{
		Name:       cellAt(row, columns[colName]),
		Year:       parseOptionalInt(cellAt(row, columns[colYear])),
		VesselType: cellAt(row, columns[colType]),
		LivesLost:  lives,
		Location:   cellAt(row, columns[colLocation]),
		Cause:      cellAt(row, columns[colCause]),
		Latitude:   parseOptionalFloat(cellAt(row, columns[colLatitude])),
		Longitude:  parseOptionalFloat(cellAt(row, columns[colLongitude])),
	}
}

func cellAt(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseOptionalInt reads an integer cell, also accepting float spellings
// with an integral value ("1850.0"). Anything else is a missing value.
func parseOptionalInt(cell string) *int {
	if cell == "" {
		return nil
	}
	if v, err := strconv.Atoi(cell); err == nil {
		return &v
	}
	f, err := strconv.ParseFloat(cell, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || math.Trunc(f) != f {
		return nil
	}
	v := int(f)
	return &v
}

func parseOptionalFloat(cell string) *float64 {
	if cell == "" {
		return nil
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
