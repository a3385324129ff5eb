package stats

import (
	"errors"
	"sort"

	"github.com/didi520rain/cs230-shipwreck-explorer/internal/model"
)

// DeadliestLimit is how many wrecks the deadliest ranking keeps.
const DeadliestLimit = 10

// ErrNoRecords reports a reduction over an empty selection. Callers
// check for matching records before summarizing.
var ErrNoRecords = errors.New("no matching records")

// TypeCount is the number of wrecks for one vessel type.
type TypeCount struct {
	VesselType string
	Count      int
}

// YearCount is the number of wrecks lost in one year.
type YearCount struct {
	Year  int
	Count int
}

// Pivot is a decade-by-vessel-type count table. Rows are decades in
// ascending order, columns vessel types in alphabetical order, and
// Counts[i][j] holds the wreck count for Decades[i] and Types[j].
// Combinations with no wrecks hold 0.
type Pivot struct {
	Decades []int
	Types   []string
	Counts  [][]int
}

// Summary holds the headline statistics for a selection.
type Summary struct {
	TotalWrecks    int
	FatalWrecks    int // wrecks with at least one life lost
	TotalLivesLost int
	MaxLivesLost   int
}

// TypeCounts groups the records by vessel type and counts each group,
// largest group first. Equal counts order alphabetically, so the leading
// type is deterministic. Records with a missing type are left out.
func TypeCounts(records []model.WreckRecord) []TypeCount {
	counts := make(map[string]int)
	for _, rec := range records {
		if rec.VesselType == "" {
			continue
		}
		counts[rec.VesselType]++
	}
	out := make([]TypeCount, 0, len(counts))
	for t, n := range counts {
		out = append(out, TypeCount{VesselType: t, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].VesselType < out[j].VesselType
		}
		return out[i].Count > out[j].Count
	})
	return out
}

// YearCounts counts wrecks per year in ascending year order. Records
// without a year are left out.
func YearCounts(records []model.WreckRecord) []YearCount {
	counts := make(map[int]int)
	for _, rec := range records {
		if rec.Year == nil {
			continue
		}
		counts[*rec.Year]++
	}
	out := make([]YearCount, 0, len(counts))
	for y, n := range counts {
		out = append(out, YearCount{Year: y, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Year < out[j].Year
	})
	return out
}

// DecadeTypePivot builds the decade-by-vessel-type count table. Records
// missing a year or a vessel type are left out, matching the grouped
// counts.
func DecadeTypePivot(records []model.WreckRecord) Pivot {
	type cell struct {
		decade int
		vessel string
	}
	counts := make(map[cell]int)
	decadeSet := make(map[int]struct{})
	typeSet := make(map[string]struct{})
	for _, rec := range records {
		if rec.Decade == nil || rec.VesselType == "" {
			continue
		}
		counts[cell{*rec.Decade, rec.VesselType}]++
		decadeSet[*rec.Decade] = struct{}{}
		typeSet[rec.VesselType] = struct{}{}
	}

	pivot := Pivot{
		Decades: make([]int, 0, len(decadeSet)),
		Types:   make([]string, 0, len(typeSet)),
	}
	for d := range decadeSet {
		pivot.Decades = append(pivot.Decades, d)
	}
	sort.Ints(pivot.Decades)
	for t := range typeSet {
		pivot.Types = append(pivot.Types, t)
	}
	sort.Strings(pivot.Types)

	pivot.Counts = make([][]int, len(pivot.Decades))
	for i, d := range pivot.Decades {
		row := make([]int, len(pivot.Types))
		for j, t := range pivot.Types {
			row[j] = counts[cell{d, t}]
		}
		pivot.Counts[i] = row
	}
	return pivot
}

// Deadliest returns the n highest-casualty records, sorted non-increasing
// by cleaned lives lost. The sort is stable: equal counts keep their
// order in the selection. A selection smaller than n comes back whole.
func Deadliest(records []model.WreckRecord, n int) []model.WreckRecord {
	out := append([]model.WreckRecord(nil), records...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LivesLostClean > out[j].LivesLostClean
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Summarize computes the headline statistics over a selection. An empty
// selection has no maximum, so it returns ErrNoRecords.
func Summarize(records []model.WreckRecord) (Summary, error) {
	if len(records) == 0 {
		return Summary{}, ErrNoRecords
	}
	s := Summary{TotalWrecks: len(records)}
	for _, rec := range records {
		if rec.LivesLostClean > 0 {
			s.FatalWrecks++
		}
		s.TotalLivesLost += rec.LivesLostClean
		if rec.LivesLostClean > s.MaxLivesLost {
			s.MaxLivesLost = rec.LivesLostClean
		}
	}
	return s, nil
}
