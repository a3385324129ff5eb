package stats

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/didi520rain/cs230-shipwreck-explorer/internal/dataset"
	"github.com/didi520rain/cs230-shipwreck-explorer/internal/model"
)

func rawWreck(name string, year int, vesselType string, lives int) model.WreckRecord {
	y := year
	l := lives
	return model.WreckRecord{
		Name:       name,
		Year:       &y,
		VesselType: vesselType,
		LivesLost:  &l,
	}
}

func explorerFixture() *dataset.Dataset {
	maria := rawWreck("Maria", 1850, "Schooner", 3)
	lat, lon := 44.5, -82.1
	maria.Latitude = &lat
	maria.Longitude = &lon
	maria.Location = "Thunder Bay"
	maria.Cause = "Storm"
	return dataset.FromRecords([]model.WreckRecord{
		maria,
		rawWreck("Swallow", 1850, "Schooner", 0),
		rawWreck("Comet", 1920, "Steamer", 50),
	})
}

func TestBuildReport(t *testing.T) {
	ds := explorerFixture()
	criteria := model.FilterCriteria{Years: model.YearRange{From: 1840, To: 1860}}

	r := BuildReport(ds, criteria)

	if got := names(r.Records); !reflect.DeepEqual(got, []string{"Maria", "Swallow"}) {
		t.Fatalf("unexpected selection: %v", got)
	}
	if len(r.TypeCounts) != 1 || r.TypeCounts[0] != (TypeCount{VesselType: "Schooner", Count: 2}) {
		t.Fatalf("unexpected type counts: %+v", r.TypeCounts)
	}
	if len(r.YearCounts) != 1 || r.YearCounts[0] != (YearCount{Year: 1850, Count: 2}) {
		t.Fatalf("unexpected year counts: %+v", r.YearCounts)
	}
	if got := names(r.Deadliest); !reflect.DeepEqual(got, []string{"Maria", "Swallow"}) {
		t.Fatalf("unexpected deadliest order: %v", got)
	}
	want := Summary{TotalWrecks: 2, FatalWrecks: 1, TotalLivesLost: 3, MaxLivesLost: 3}
	if r.Summary != want {
		t.Fatalf("unexpected summary: %+v", r.Summary)
	}
	if len(r.MapPoints) != 1 || r.MapPoints[0].Name != "Maria" {
		t.Fatalf("unexpected map points: %+v", r.MapPoints)
	}
}

func TestBuildReportEmptySelection(t *testing.T) {
	ds := explorerFixture()
	criteria := model.FilterCriteria{Years: model.YearRange{From: 1700, To: 1701}}

	r := BuildReport(ds, criteria)
	if len(r.Records) != 0 {
		t.Fatalf("expected no matches, got %v", names(r.Records))
	}
	if r.Summary != (Summary{}) {
		t.Fatalf("empty selection should keep the zero summary: %+v", r.Summary)
	}
}

func TestFormatCriteria(t *testing.T) {
	all := model.FilterCriteria{Years: model.YearRange{From: 1850, To: 1920}}
	got := FormatCriteria(all)
	want := "Showing wrecks from 1850 to 1920, vessel types: All, minimum lives lost: 0."
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}

	narrowed := model.FilterCriteria{
		Years:        model.YearRange{From: 1850, To: 1920},
		VesselTypes:  []string{"Schooner", "Steamer"},
		MinLivesLost: 5,
	}
	got = FormatCriteria(narrowed)
	want = "Showing wrecks from 1850 to 1920, vessel types: Schooner, Steamer, minimum lives lost: 5."
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestParseView(t *testing.T) {
	cases := map[string]View{
		"map":       ViewMap,
		"types":     ViewTypes,
		"TREND":     ViewTrend,
		"Deadliest": ViewDeadliest,
	}
	for name, want := range cases {
		got, err := ParseView(name)
		if err != nil {
			t.Fatalf("ParseView(%q) failed: %v", name, err)
		}
		if got != want {
			t.Fatalf("ParseView(%q) = %v, want %v", name, got, want)
		}
	}
	if _, err := ParseView("bogus"); err == nil {
		t.Fatalf("expected an error for an unknown view")
	}
}

func TestViewString(t *testing.T) {
	if ViewDeadliest.String() != "deadliest" {
		t.Fatalf("unexpected name: %q", ViewDeadliest.String())
	}
	if View(42).String() != "unknown" {
		t.Fatalf("out-of-range views should print as unknown")
	}
}

func TestRenderReportAllViews(t *testing.T) {
	ds := explorerFixture()
	r := BuildReport(ds, ds.DefaultCriteria())

	var buf bytes.Buffer
	if err := RenderReport(&buf, r, AllViews(), 60, false); err != nil {
		t.Fatalf("RenderReport failed: %v", err)
	}
	out := buf.String()

	for _, line := range []string{
		"Shipwreck Explorer",
		"Showing wrecks from 1850 to 1920, vessel types: All, minimum lives lost: 0.",
		"Number of wrecks in current selection: 3",
		"Map of Shipwreck Locations",
		"Green dots = no lives lost, red dots = lives were lost.",
		"Wrecks by Vessel Type",
		"The most frequently wrecked vessel type is Schooner with 2 wrecks in the current selection.",
		"Vessel Type Wrecks",
		"Wrecks Over Time",
		"Wrecks by Decade and Vessel Type",
		"Decade Schooner Steamer",
		"Deadliest Wrecks",
		"Top 10 deadliest wrecks in the current selection:",
		"Thunder Bay",
		"Summary Statistics",
		"Total wrecks in this selection: 3",
		"Wrecks with at least 1 life lost: 2",
		"Total lives lost in this selection: 53",
		"Maximum lives lost in a single wreck: 50",
	} {
		if !strings.Contains(out, line) {
			t.Fatalf("report missing %q:\n%s", line, out)
		}
	}
}

func TestRenderReportEmptySelection(t *testing.T) {
	ds := explorerFixture()
	r := BuildReport(ds, model.FilterCriteria{Years: model.YearRange{From: 1700, To: 1701}})

	var buf bytes.Buffer
	if err := RenderReport(&buf, r, AllViews(), 60, false); err != nil {
		t.Fatalf("RenderReport failed: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "Number of wrecks in current selection: 0") {
		t.Fatalf("missing selection size:\n%s", out)
	}
	if got := strings.Count(out, MsgNoWrecks); got != 4 {
		t.Fatalf("every view should print the empty-state line, got %d:\n%s", got, out)
	}
}

func TestRenderMapViewWithoutCoordinates(t *testing.T) {
	ds := dataset.FromRecords([]model.WreckRecord{
		rawWreck("Swallow", 1850, "Schooner", 0),
	})
	r := BuildReport(ds, ds.DefaultCriteria())

	var buf bytes.Buffer
	if err := RenderMapView(&buf, r, 60, false); err != nil {
		t.Fatalf("RenderMapView failed: %v", err)
	}
	if !strings.Contains(buf.String(), MsgNoCoords) {
		t.Fatalf("expected the no-coordinates line:\n%s", buf.String())
	}
}

func TestRenderTypesViewTable(t *testing.T) {
	ds := explorerFixture()
	r := BuildReport(ds, ds.DefaultCriteria())

	var buf bytes.Buffer
	if err := RenderTypesView(&buf, r, 40, false); err != nil {
		t.Fatalf("RenderTypesView failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Schooner         2") {
		t.Fatalf("expected the counts table row:\n%s", out)
	}
	if !strings.Contains(out, "Steamer          1") {
		t.Fatalf("expected the counts table row:\n%s", out)
	}
}
