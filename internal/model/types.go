// Package model defines shared data structures.
package model

// WreckRecord is one shipwreck entry from the source table. Optional
// numeric fields are nil when the source value is missing or unparseable;
// an empty VesselType means the type is missing.
type WreckRecord struct {
	Name       string
	Year       *int
	VesselType string
	LivesLost  *int
	Location   string
	Cause      string
	Latitude   *float64
	Longitude  *float64

	// Derived once at load time, immutable after.
	LivesLostClean int
	Decade         *int
	Century        *int
	HasCoords      bool
}

// YearRange is an inclusive [From, To] span of years.
type YearRange struct {
	From int
	To   int
}

// FilterCriteria selects a subset of wreck records. An empty VesselTypes
// set accepts every record with a non-missing vessel type.
type FilterCriteria struct {
	Years        YearRange
	VesselTypes  []string
	MinLivesLost int
}
