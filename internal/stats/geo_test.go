package stats

import (
	"bytes"
	"strings"
	"testing"

	"github.com/didi520rain/cs230-shipwreck-explorer/internal/model"
)

func coordWreck(name string, year int, vesselType string, lives int, lat, lon float64) model.WreckRecord {
	rec := wreck(name, year, vesselType, lives)
	rec.Latitude = &lat
	rec.Longitude = &lon
	rec.HasCoords = true
	return rec
}

func TestMapPointsKeepsCoordinateBearingRecords(t *testing.T) {
	records := []model.WreckRecord{
		coordWreck("Maria", 1850, "Schooner", 3, 44.5, -82.1),
		wreck("NoCoords", 1851, "Steamer", 0),
	}

	points := MapPoints(records)
	if len(points) != 1 {
		t.Fatalf("expected 1 point, got %d", len(points))
	}
	p := points[0]
	if p.Name != "Maria" || p.Lat != 44.5 || p.Lon != -82.1 || p.LivesLost != 3 {
		t.Fatalf("unexpected point: %+v", p)
	}
}

func TestMapCenterIsMean(t *testing.T) {
	points := []MapPoint{
		{Lat: 40, Lon: -90},
		{Lat: 50, Lon: -80},
	}
	lat, lon := MapCenter(points)
	if lat != 45 || lon != -85 {
		t.Fatalf("expected center 45,-85, got %v,%v", lat, lon)
	}
}

func TestMapPointTooltip(t *testing.T) {
	year := 1850
	p := MapPoint{Name: "Maria", Year: &year, VesselType: "Schooner", LivesLost: 3}
	got := p.Tooltip()
	want := "Maria  Year: 1850  Type: Schooner  Lives lost: 3"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestRenderMapCanvasPlacesCornerPoints(t *testing.T) {
	points := []MapPoint{
		{Name: "SW", Lat: 40, Lon: -90, LivesLost: 0},
		{Name: "NE", Lat: 50, Lon: -80, LivesLost: 5},
	}
	var buf bytes.Buffer
	if err := RenderMapCanvas(&buf, points, -1, 27, 4, false); err != nil {
		t.Fatalf("RenderMapCanvas failed: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 4 canvas rows plus longitude axis, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "50.0 │ ") {
		t.Fatalf("top row should carry the max latitude: %q", lines[0])
	}
	if !strings.HasPrefix(lines[3], "40.0 │ ") {
		t.Fatalf("bottom row should carry the min latitude: %q", lines[3])
	}

	// The prefix is 4 label runes plus the 3-rune separator.
	top := []rune(lines[0])
	bottom := []rune(lines[3])
	if top[len(top)-1] <= 0x2800 || top[len(top)-1] > 0x28FF {
		t.Fatalf("north-east point missing from top-right corner: %q", lines[0])
	}
	if bottom[7] <= 0x2800 || bottom[7] > 0x28FF {
		t.Fatalf("south-west point missing from bottom-left corner: %q", lines[3])
	}
	if lines[4] != strings.Repeat(" ", 7)+"-90.0          -80.0" {
		t.Fatalf("unexpected longitude axis: %q", lines[4])
	}
}

func TestRenderMapCanvasColorsClasses(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	points := []MapPoint{
		{Name: "Safe", Lat: 40, Lon: -90, LivesLost: 0},
		{Name: "Fatal", Lat: 50, Lon: -80, LivesLost: 5},
	}
	var buf bytes.Buffer
	if err := RenderMapCanvas(&buf, points, -1, 30, 4, true); err != nil {
		t.Fatalf("RenderMapCanvas failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, mapSafeColor.code) {
		t.Fatalf("expected a green dot in output")
	}
	if !strings.Contains(out, mapFatalColor.code) {
		t.Fatalf("expected a red dot in output")
	}
}

func TestRenderMapCanvasHighlightsSelection(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	points := []MapPoint{
		{Name: "Safe", Lat: 40, Lon: -90, LivesLost: 0},
		{Name: "Fatal", Lat: 50, Lon: -80, LivesLost: 5},
	}
	var buf bytes.Buffer
	if err := RenderMapCanvas(&buf, points, 1, 30, 4, true); err != nil {
		t.Fatalf("RenderMapCanvas failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, mapSelectedColor.code) {
		t.Fatalf("expected the selected point highlighted in yellow")
	}
	if !strings.ContainsRune(out, rune(0x28FF)) {
		t.Fatalf("expected the selected cell fully filled")
	}
}

func TestRenderMapCanvasEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderMapCanvas(&buf, nil, -1, 40, 5, false); err != nil {
		t.Fatalf("RenderMapCanvas failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output for empty points, got %q", buf.String())
	}
}

func TestRenderMapCanvasSinglePoint(t *testing.T) {
	points := []MapPoint{{Name: "Solo", Lat: 44.5, Lon: -82.1, LivesLost: 0}}
	var buf bytes.Buffer
	if err := RenderMapCanvas(&buf, points, -1, 30, 4, false); err != nil {
		t.Fatalf("RenderMapCanvas failed: %v", err)
	}
	if !strings.Contains(buf.String(), "44.5") || !strings.Contains(buf.String(), "-82.1") {
		t.Fatalf("expected degenerate bounds labeled with the point coordinates:\n%s", buf.String())
	}
}
