package stats

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/didi520rain/cs230-shipwreck-explorer/internal/model"
)

const defaultMapHeight = 12

var (
	mapSafeColor     = ansiColor{name: "green", code: "\x1b[32m"}
	mapFatalColor    = ansiColor{name: "red", code: "\x1b[31m"}
	mapSelectedColor = ansiColor{name: "yellow", code: "\x1b[33m"}
)

// MapPoint is one coordinate-bearing wreck prepared for the scatter map.
type MapPoint struct {
	Name       string
	Year       *int
	VesselType string
	LivesLost  int // cleaned
	Lat        float64
	Lon        float64
}

// Tooltip formats the point the way the map labels it: name, year, type,
// and lives lost on one line.
func (p MapPoint) Tooltip() string {
	year := "unknown"
	if p.Year != nil {
		year = strconv.Itoa(*p.Year)
	}
	vessel := p.VesselType
	if vessel == "" {
		vessel = "unknown"
	}
	return fmt.Sprintf("%s  Year: %s  Type: %s  Lives lost: %d", p.Name, year, vessel, p.LivesLost)
}

// MapPoints extracts the coordinate-bearing records in view order.
func MapPoints(records []model.WreckRecord) []MapPoint {
	var points []MapPoint
	for _, rec := range records {
		if !rec.HasCoords {
			continue
		}
		points = append(points, MapPoint{
			Name:       rec.Name,
			Year:       rec.Year,
			VesselType: rec.VesselType,
			LivesLost:  rec.LivesLostClean,
			Lat:        *rec.Latitude,
			Lon:        *rec.Longitude,
		})
	}
	return points
}

// MapCenter returns the mean latitude and longitude of the points.
func MapCenter(points []MapPoint) (lat, lon float64) {
	if len(points) == 0 {
		return 0, 0
	}
	for _, p := range points {
		lat += p.Lat
		lon += p.Lon
	}
	n := float64(len(points))
	return lat / n, lon / n
}

// RenderMapCanvas renders the points as a braille scatter plot: longitude
// maps to x, latitude to y, degrees scaling linearly onto the dot grid.
// Points with casualties draw red, the rest green; selected (an index
// into points, -1 for none) draws its whole cell in yellow. totalWidth is
// the total available width including the latitude labels; 0 means the
// terminal width.
func RenderMapCanvas(w io.Writer, points []MapPoint, selected, totalWidth, height int, forceColor bool) error {
	if len(points) == 0 {
		return nil
	}
	if height <= 0 {
		height = defaultMapHeight
	}

	minLat, maxLat := points[0].Lat, points[0].Lat
	minLon, maxLon := points[0].Lon, points[0].Lon
	for _, p := range points[1:] {
		minLat = math.Min(minLat, p.Lat)
		maxLat = math.Max(maxLat, p.Lat)
		minLon = math.Min(minLon, p.Lon)
		maxLon = math.Max(maxLon, p.Lon)
	}

	labels := latAxisLabels(minLat, maxLat, height)
	axisWidth := 0
	for _, label := range labels {
		if w := displayWidth(label); w > axisWidth {
			axisWidth = w
		}
	}
	plotWidth := plotWidthFor(totalWidth, axisWidth)

	safe := makeCells(height, plotWidth)
	fatal := makeCells(height, plotWidth)
	sel := makeCells(height, plotWidth)
	for i, p := range points {
		px := lonToDot(p.Lon, minLon, maxLon, plotWidth*2)
		py := valueToRow(p.Lat, minLat, maxLat, height*4)
		if i == selected {
			// Fill the whole cell so the selection stands out.
			sel[py/4][px/2] = 0xFF
			continue
		}
		if p.LivesLost > 0 {
			setBrailleDot(fatal, px, py)
		} else {
			setBrailleDot(safe, px, py)
		}
	}

	useColor := shouldUseColor(w, forceColor)
	for y := 0; y < height; y++ {
		var row strings.Builder
		fmt.Fprintf(&row, "%*s%s", axisWidth, labels[y], axisSeparator)
		for x := 0; x < plotWidth; x++ {
			mask, color := composeMapCell(safe[y][x], fatal[y][x], sel[y][x])
			ch := brailleFromMask(mask)
			if useColor && mask != 0 {
				row.WriteString(color.code)
				row.WriteRune(ch)
				row.WriteString(colorReset)
			} else {
				row.WriteRune(ch)
			}
		}
		if _, err := fmt.Fprintln(w, row.String()); err != nil {
			return err
		}
	}

	pad := strings.Repeat(" ", axisWidth+displayWidth(axisSeparator))
	lonAxis := spanAxisLine(formatDegrees(minLon), formatDegrees(maxLon), plotWidth)
	if _, err := fmt.Fprintln(w, pad+lonAxis); err != nil {
		return err
	}
	return nil
}

// composeMapCell merges the class grids for one cell. A selected cell
// wins outright; casualties draw over safe dots sharing the cell.
func composeMapCell(safeMask, fatalMask, selMask uint8) (uint8, ansiColor) {
	if selMask != 0 {
		return selMask, mapSelectedColor
	}
	mask := safeMask | fatalMask
	if fatalMask != 0 {
		return mask, mapFatalColor
	}
	return mask, mapSafeColor
}

func latAxisLabels(minLat, maxLat float64, height int) []string {
	labels := make([]string, height)
	if height <= 0 {
		return labels
	}
	labels[0] = formatDegrees(maxLat)
	if height > 2 {
		labels[height/2] = formatDegrees((minLat + maxLat) / 2)
	}
	if height > 1 {
		labels[height-1] = formatDegrees(minLat)
	}
	return labels
}

func formatDegrees(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func lonToDot(lon, minLon, maxLon float64, dots int) int {
	if dots <= 1 || maxLon <= minLon {
		return (dots - 1) / 2
	}
	pos := (lon - minLon) / (maxLon - minLon)
	px := int(math.Round(pos * float64(dots-1)))
	if px < 0 {
		px = 0
	}
	if px >= dots {
		px = dots - 1
	}
	return px
}
