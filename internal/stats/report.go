// Package stats contains wreck filtering, aggregation, and view rendering.
package stats

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/didi520rain/cs230-shipwreck-explorer/internal/dataset"
	"github.com/didi520rain/cs230-shipwreck-explorer/internal/model"
)

// View identifies one explorer view.
type View int

const (
	ViewMap View = iota
	ViewTypes
	ViewTrend
	ViewDeadliest
)

var viewNames = [...]string{"map", "types", "trend", "deadliest"}

func (v View) String() string {
	if v < 0 || int(v) >= len(viewNames) {
		return "unknown"
	}
	return viewNames[v]
}

// ParseView resolves a view name from the CLI or config file.
func ParseView(name string) (View, error) {
	for i, n := range viewNames {
		if strings.EqualFold(name, n) {
			return View(i), nil
		}
	}
	return 0, fmt.Errorf("unknown view %q (use map, types, trend, or deadliest)", name)
}

// AllViews lists the views in presentation order.
func AllViews() []View {
	return []View{ViewMap, ViewTypes, ViewTrend, ViewDeadliest}
}

// Empty-selection copy shared by the report command and the dashboard.
const (
	MsgNoWrecks = "No wrecks match the current filters."
	MsgNoCoords = "No wrecks with valid coordinates for the current filters."
)

// Report contains precomputed data for every explorer view of one
// filtered selection.
type Report struct {
	Criteria   model.FilterCriteria
	Records    []model.WreckRecord
	TypeCounts []TypeCount
	YearCounts []YearCount
	Pivot      Pivot
	Deadliest  []model.WreckRecord
	Summary    Summary
	MapPoints  []MapPoint
}

// BuildReport filters the dataset and prepares data for rendering.
func BuildReport(ds *dataset.Dataset, criteria model.FilterCriteria) Report {
	records := Filter(ds.Records(), criteria)
	// An empty selection keeps the zero summary; the views print
	// their own empty-state copy.
	summary, _ := Summarize(records)
	return Report{
		Criteria:   criteria,
		Records:    records,
		TypeCounts: TypeCounts(records),
		YearCounts: YearCounts(records),
		Pivot:      DecadeTypePivot(records),
		Deadliest:  Deadliest(records, DeadliestLimit),
		Summary:    summary,
		MapPoints:  MapPoints(records),
	}
}

// FormatCriteria describes the active filters on one line.
func FormatCriteria(c model.FilterCriteria) string {
	types := "All"
	if len(c.VesselTypes) > 0 {
		types = strings.Join(c.VesselTypes, ", ")
	}
	return fmt.Sprintf("Showing wrecks from %d to %d, vessel types: %s, minimum lives lost: %d.",
		c.Years.From, c.Years.To, types, c.MinLivesLost)
}

// RenderReport prints the requested views in order, prefixed by the
// title, the filter summary, and the selection size.
func RenderReport(w io.Writer, r Report, views []View, totalWidth int, forceColor bool) error {
	if _, err := fmt.Fprintln(w, "Shipwreck Explorer"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, FormatCriteria(r.Criteria)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Number of wrecks in current selection: %d\n", len(r.Records)); err != nil {
		return err
	}
	for _, v := range views {
		if _, err := fmt.Fprintln(w, ""); err != nil {
			return err
		}
		if err := RenderView(w, r, v, totalWidth, forceColor); err != nil {
			return err
		}
	}
	return nil
}

// RenderView prints a single view as plain text.
func RenderView(w io.Writer, r Report, v View, totalWidth int, forceColor bool) error {
	switch v {
	case ViewMap:
		return RenderMapView(w, r, totalWidth, forceColor)
	case ViewTypes:
		return RenderTypesView(w, r, totalWidth, forceColor)
	case ViewTrend:
		return RenderTrendView(w, r, totalWidth, forceColor)
	case ViewDeadliest:
		return RenderDeadliestView(w, r)
	}
	return fmt.Errorf("unknown view %d", v)
}

// RenderMapView prints the scatter map with its center and legend.
func RenderMapView(w io.Writer, r Report, totalWidth int, forceColor bool) error {
	if _, err := fmt.Fprintln(w, "Map of Shipwreck Locations"); err != nil {
		return err
	}
	if len(r.Records) == 0 {
		_, err := fmt.Fprintln(w, MsgNoWrecks)
		return err
	}
	if len(r.MapPoints) == 0 {
		_, err := fmt.Fprintln(w, MsgNoCoords)
		return err
	}
	if err := RenderMapCanvas(w, r.MapPoints, -1, totalWidth, defaultMapHeight, forceColor); err != nil {
		return err
	}
	lat, lon := MapCenter(r.MapPoints)
	if _, err := fmt.Fprintf(w, "%d wrecks plotted, centered on %s, %s.\n",
		len(r.MapPoints), formatDegrees(lat), formatDegrees(lon)); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "Green dots = no lives lost, red dots = lives were lost.")
	return err
}

// RenderTypesView prints the per-type bars, the leading-type callout,
// and the counts table.
func RenderTypesView(w io.Writer, r Report, totalWidth int, forceColor bool) error {
	if _, err := fmt.Fprintln(w, "Wrecks by Vessel Type"); err != nil {
		return err
	}
	if len(r.Records) == 0 {
		_, err := fmt.Fprintln(w, MsgNoWrecks)
		return err
	}
	if err := RenderTypeBars(w, r.TypeCounts, totalWidth, forceColor); err != nil {
		return err
	}
	if len(r.TypeCounts) > 0 {
		top := r.TypeCounts[0]
		if _, err := fmt.Fprintf(w, "The most frequently wrecked vessel type is %s with %d wrecks in the current selection.\n",
			top.VesselType, top.Count); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	rows := make([][]string, 0, len(r.TypeCounts))
	for _, tc := range r.TypeCounts {
		rows = append(rows, []string{tc.VesselType, strconv.Itoa(tc.Count)})
	}
	for _, line := range formatTable([]string{"Vessel Type", "Wrecks"}, rows, map[int]bool{1: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderTrendView prints the per-year line chart, the year counts, and
// the decade-by-type pivot.
func RenderTrendView(w io.Writer, r Report, totalWidth int, forceColor bool) error {
	if _, err := fmt.Fprintln(w, "Wrecks Over Time"); err != nil {
		return err
	}
	if len(r.Records) == 0 {
		_, err := fmt.Fprintln(w, MsgNoWrecks)
		return err
	}
	if err := RenderTrendPlotWithColor(w, r.YearCounts, totalWidth, defaultPlotHeight, forceColor); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	rows := make([][]string, 0, len(r.YearCounts))
	for _, yc := range r.YearCounts {
		rows = append(rows, []string{strconv.Itoa(yc.Year), strconv.Itoa(yc.Count)})
	}
	for _, line := range formatTable([]string{"Year", "Wrecks"}, rows, map[int]bool{1: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "Wrecks by Decade and Vessel Type"); err != nil {
		return err
	}
	for _, line := range formatPivot(r.Pivot) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func formatPivot(p Pivot) []string {
	headers := append([]string{"Decade"}, p.Types...)
	rightAlign := make(map[int]bool, len(p.Types)+1)
	for i := 1; i <= len(p.Types); i++ {
		rightAlign[i] = true
	}
	rows := make([][]string, 0, len(p.Decades))
	for i, decade := range p.Decades {
		row := make([]string, 0, len(p.Types)+1)
		row = append(row, strconv.Itoa(decade))
		for _, count := range p.Counts[i] {
			row = append(row, strconv.Itoa(count))
		}
		rows = append(rows, row)
	}
	return formatTable(headers, rows, rightAlign)
}

// RenderDeadliestView prints the ranked casualty table and the summary
// statistics.
func RenderDeadliestView(w io.Writer, r Report) error {
	if _, err := fmt.Fprintln(w, "Deadliest Wrecks"); err != nil {
		return err
	}
	if len(r.Records) == 0 {
		_, err := fmt.Fprintln(w, MsgNoWrecks)
		return err
	}
	if _, err := fmt.Fprintf(w, "Top %d deadliest wrecks in the current selection:\n", DeadliestLimit); err != nil {
		return err
	}
	headers := []string{"Ship's Name", "Year", "Vessel Type", "Location Lost", "Cause of Loss", "Lives Lost"}
	rows := make([][]string, 0, len(r.Deadliest))
	for _, rec := range r.Deadliest {
		rows = append(rows, []string{
			rec.Name,
			yearLabel(rec.Year),
			rec.VesselType,
			rec.Location,
			rec.Cause,
			strconv.Itoa(rec.LivesLostClean),
		})
	}
	for _, line := range formatTable(headers, rows, map[int]bool{1: true, 5: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "Summary Statistics"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Total wrecks in this selection: %d\n", r.Summary.TotalWrecks); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Wrecks with at least 1 life lost: %d\n", r.Summary.FatalWrecks); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Total lives lost in this selection: %d\n", r.Summary.TotalLivesLost); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Maximum lives lost in a single wreck: %d\n", r.Summary.MaxLivesLost)
	return err
}

func yearLabel(year *int) string {
	if year == nil {
		return "unknown"
	}
	return strconv.Itoa(*year)
}
