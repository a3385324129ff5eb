package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

type ansiColor struct {
	name string
	code string
}

const (
	defaultPlotHeight   = 10
	minPlotWidth        = 10
	axisSeparator       = " │ "
	colorReset          = "\x1b[0m"
	terminalWidthBackup = 80
)

var trendColor = ansiColor{name: "cyan", code: "\x1b[36m"}

// RenderTrendPlot renders wrecks-per-year as a braille line chart. Years
// spread proportionally along the x axis; the y axis runs from 0 to the
// highest count. totalWidth is the total available width including the
// axis labels; 0 means the terminal width.
func RenderTrendPlot(w io.Writer, counts []YearCount, totalWidth, height int) error {
	return plotTrend(w, counts, totalWidth, height, false)
}

// RenderTrendPlotWithColor is RenderTrendPlot with optional forced color.
func RenderTrendPlotWithColor(w io.Writer, counts []YearCount, totalWidth, height int, forceColor bool) error {
	return plotTrend(w, counts, totalWidth, height, forceColor)
}

func plotTrend(w io.Writer, counts []YearCount, totalWidth, height int, forceColor bool) error {
	if len(counts) == 0 {
		return nil
	}
	if height <= 0 {
		height = defaultPlotHeight
	}

	maxCount := 0
	for _, yc := range counts {
		if yc.Count > maxCount {
			maxCount = yc.Count
		}
	}
	labels := countAxisLabels(maxCount, height)
	axisWidth := 0
	for _, label := range labels {
		if w := displayWidth(label); w > axisWidth {
			axisWidth = w
		}
	}
	plotWidth := plotWidthFor(totalWidth, axisWidth)

	// Counts are sorted by year, so consecutive entries connect into the
	// trend line. x positions scale on the year span, not the entry index.
	minYear := counts[0].Year
	maxYear := counts[len(counts)-1].Year
	cells := makeCells(height, plotWidth)
	prevX, prevY := -1, -1
	for _, yc := range counts {
		px := yearToDot(yc.Year, minYear, maxYear, plotWidth*2)
		py := valueToRow(float64(yc.Count), 0, float64(maxCount), height*4)
		if prevX >= 0 {
			drawLine(prevX, prevY, px, py, func(dx, dy int) {
				setBrailleDot(cells, dx, dy)
			})
		} else {
			setBrailleDot(cells, px, py)
		}
		prevX, prevY = px, py
	}

	useColor := shouldUseColor(w, forceColor)
	for y := 0; y < height; y++ {
		var row strings.Builder
		fmt.Fprintf(&row, "%*s%s", axisWidth, labels[y], axisSeparator)
		if useColor {
			row.WriteString(trendColor.code)
		}
		for x := 0; x < plotWidth; x++ {
			row.WriteRune(brailleFromMask(cells[y][x]))
		}
		if useColor {
			row.WriteString(colorReset)
		}
		if _, err := fmt.Fprintln(w, row.String()); err != nil {
			return err
		}
	}

	pad := strings.Repeat(" ", axisWidth+displayWidth(axisSeparator))
	if _, err := fmt.Fprintln(w, pad+spanAxisLine(strconv.Itoa(minYear), strconv.Itoa(maxYear), plotWidth)); err != nil {
		return err
	}
	return nil
}

// countAxisLabels labels the top row with the highest count, the middle
// row with half of it, and the bottom row with 0.
func countAxisLabels(maxCount, height int) []string {
	labels := make([]string, height)
	if height <= 0 {
		return labels
	}
	labels[0] = strconv.Itoa(maxCount)
	if height > 2 {
		labels[height/2] = strconv.Itoa(maxCount / 2)
	}
	if height > 1 {
		labels[height-1] = "0"
	}
	return labels
}

// spanAxisLine spreads the low and high bound labels across the plot
// width under the canvas.
func spanAxisLine(low, high string, width int) string {
	gap := width - displayWidth(low) - displayWidth(high)
	if gap < 1 {
		return low
	}
	return low + strings.Repeat(" ", gap) + high
}

func yearToDot(year, minYear, maxYear, dots int) int {
	if dots <= 1 || maxYear <= minYear {
		return (dots - 1) / 2
	}
	pos := float64(year-minYear) / float64(maxYear-minYear)
	px := int(math.Round(pos * float64(dots-1)))
	if px < 0 {
		px = 0
	}
	if px >= dots {
		px = dots - 1
	}
	return px
}

func plotWidthFor(totalWidth, axisWidth int) int {
	if totalWidth <= 0 {
		totalWidth = TerminalWidth()
	}
	plotWidth := totalWidth - axisWidth - displayWidth(axisSeparator)
	if plotWidth < minPlotWidth {
		plotWidth = minPlotWidth
	}
	return plotWidth
}

// TerminalWidth reports the current terminal width, or a 80-column
// fallback when stdout is not a terminal.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

func makeCells(height, width int) [][]uint8 {
	cells := make([][]uint8, height)
	for y := 0; y < height; y++ {
		cells[y] = make([]uint8, width)
	}
	return cells
}

func valueToRow(v, minVal, maxVal float64, height int) int {
	if height <= 1 || maxVal <= minVal {
		return 0
	}
	pos := (v - minVal) / (maxVal - minVal)
	row := int(math.Round((1 - pos) * float64(height-1)))
	if row < 0 {
		row = 0
	}
	if row >= height {
		row = height - 1
	}
	return row
}

func drawLine(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := int(math.Abs(float64(x1 - x0)))
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -int(math.Abs(float64(y1 - y0)))
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			if x0 == x1 {
				break
			}
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			if y0 == y1 {
				break
			}
			err += dx
			y0 += sy
		}
	}
}

func setBrailleDot(cells [][]uint8, x, y int) {
	if y < 0 || x < 0 {
		return
	}
	cellY := y / 4
	cellX := x / 2
	if cellY < 0 || cellY >= len(cells) {
		return
	}
	if cellX < 0 || cellX >= len(cells[cellY]) {
		return
	}
	dotMask := brailleDotMask(x%2, y%4)
	cells[cellY][cellX] |= dotMask
}

func brailleDotMask(x, y int) uint8 {
	switch {
	case x == 0 && y == 0:
		return 0x01
	case x == 0 && y == 1:
		return 0x02
	case x == 0 && y == 2:
		return 0x04
	case x == 0 && y == 3:
		return 0x40
	case x == 1 && y == 0:
		return 0x08
	case x == 1 && y == 1:
		return 0x10
	case x == 1 && y == 2:
		return 0x20
	case x == 1 && y == 3:
		return 0x80
	default:
		return 0
	}
}

func brailleFromMask(mask uint8) rune {
	return rune(0x2800 + int(mask))
}
