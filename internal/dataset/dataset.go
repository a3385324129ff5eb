// Package dataset loads the shipwreck table and caches it for the
// lifetime of the process.
package dataset

import (
	"sort"
	"strings"

	"github.com/didi520rain/cs230-shipwreck-explorer/internal/model"
)

// Year limits reported when no record carries a year.
const (
	FallbackYearFrom = 1705
	FallbackYearTo   = 2000
)

// Dataset is the application-lifetime cache of loaded wreck records.
// Records are immutable after construction; filters and aggregators
// receive them read-only.
type Dataset struct {
	records []model.WreckRecord
}

// FromRecords builds a Dataset from raw records, populating the derived
// columns on each.
func FromRecords(records []model.WreckRecord) *Dataset {
	out := make([]model.WreckRecord, len(records))
	for i, rec := range records {
		derive(&rec)
		out[i] = rec
	}
	return &Dataset{records: out}
}

// derive fills the computed columns from the raw fields: missing lives
// lost defaults to 0, decade and century follow the year, HasCoords
// requires both coordinates.
func derive(rec *model.WreckRecord) {
	rec.LivesLostClean = 0
	if rec.LivesLost != nil {
		rec.LivesLostClean = *rec.LivesLost
	}
	rec.Decade = nil
	rec.Century = nil
	if rec.Year != nil {
		decade := (*rec.Year / 10) * 10
		// 1900 belongs to the 19th century, 1901 opens the 20th.
		century := (*rec.Year + 99) / 100
		rec.Decade = &decade
		rec.Century = &century
	}
	rec.HasCoords = rec.Latitude != nil && rec.Longitude != nil
}

// Records returns the full record set in source order.
func (d *Dataset) Records() []model.WreckRecord {
	return d.records
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	return len(d.records)
}

// YearRange returns the inclusive min/max year across all records, or the
// (1705, 2000) fallback when no record has a year.
func (d *Dataset) YearRange() model.YearRange {
	var span model.YearRange
	found := false
	for _, rec := range d.records {
		if rec.Year == nil {
			continue
		}
		y := *rec.Year
		if !found {
			span = model.YearRange{From: y, To: y}
			found = true
			continue
		}
		if y < span.From {
			span.From = y
		}
		if y > span.To {
			span.To = y
		}
	}
	if !found {
		return model.YearRange{From: FallbackYearFrom, To: FallbackYearTo}
	}
	return span
}

// VesselTypes returns the distinct non-missing vessel types sorted
// alphabetically.
func (d *Dataset) VesselTypes() []string {
	seen := make(map[string]struct{})
	var types []string
	for _, rec := range d.records {
		if rec.VesselType == "" {
			continue
		}
		if _, ok := seen[rec.VesselType]; ok {
			continue
		}
		seen[rec.VesselType] = struct{}{}
		types = append(types, rec.VesselType)
	}
	sort.Strings(types)
	return types
}

// ResolveTypes matches user-supplied vessel type names against the
// dataset's types, ignoring case and surrounding space. Matches come back
// in the dataset's spelling without duplicates; names that match nothing
// are returned separately.
func (d *Dataset) ResolveTypes(names []string) (matched, unknown []string) {
	canon := make(map[string]string)
	for _, t := range d.VesselTypes() {
		canon[strings.ToLower(t)] = t
	}
	seen := make(map[string]struct{})
	for _, name := range names {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			continue
		}
		t, ok := canon[strings.ToLower(trimmed)]
		if !ok {
			unknown = append(unknown, trimmed)
			continue
		}
		if _, dup := seen[t]; !dup {
			seen[t] = struct{}{}
			matched = append(matched, t)
		}
	}
	return matched, unknown
}

// DefaultCriteria is the widest selection: the dataset's full year range,
// every vessel type, no casualty floor.
func (d *Dataset) DefaultCriteria() model.FilterCriteria {
	return model.FilterCriteria{Years: d.YearRange()}
}
