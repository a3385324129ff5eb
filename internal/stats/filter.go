// Package stats contains wreck filtering, aggregation, and view rendering.
package stats

import (
	"github.com/didi520rain/cs230-shipwreck-explorer/internal/model"
)

// Filter returns the subsequence of records matching every criterion:
// year inside the inclusive range, vessel type accepted, and cleaned
// lives lost at or above the threshold. Records without a year never
// match. An empty type set accepts every record with a non-missing
// vessel type. Source order is preserved.
func Filter(records []model.WreckRecord, criteria model.FilterCriteria) []model.WreckRecord {
	accepted := make(map[string]struct{}, len(criteria.VesselTypes))
	for _, t := range criteria.VesselTypes {
		accepted[t] = struct{}{}
	}
	var out []model.WreckRecord
	for _, rec := range records {
		if !matchesYear(rec, criteria.Years) {
			continue
		}
		if !matchesType(rec, accepted) {
			continue
		}
		if rec.LivesLostClean < criteria.MinLivesLost {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func matchesYear(rec model.WreckRecord, span model.YearRange) bool {
	if rec.Year == nil {
		return false
	}
	return span.From <= *rec.Year && *rec.Year <= span.To
}

func matchesType(rec model.WreckRecord, accepted map[string]struct{}) bool {
	if rec.VesselType == "" {
		return false
	}
	if len(accepted) == 0 {
		return true
	}
	_, ok := accepted[rec.VesselType]
	return ok
}
