package stats

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

const barRune = "█"

var barColor = ansiColor{name: "blue", code: "\x1b[34m"}

// RenderTypeBars renders one horizontal bar per vessel type, scaled to
// the largest count. Every nonzero count gets at least one cell so rare
// types stay visible next to the dominant ones. totalWidth is the total
// available width including labels and counts; 0 means the terminal
// width.
func RenderTypeBars(w io.Writer, counts []TypeCount, totalWidth int, forceColor bool) error {
	if len(counts) == 0 {
		return nil
	}
	if totalWidth <= 0 {
		totalWidth = TerminalWidth()
	}

	labelWidth := 0
	maxCount := 0
	for _, tc := range counts {
		if lw := displayWidth(tc.VesselType); lw > labelWidth {
			labelWidth = lw
		}
		if tc.Count > maxCount {
			maxCount = tc.Count
		}
	}
	if maxCount <= 0 {
		return nil
	}
	countWidth := len(strconv.Itoa(maxCount))
	maxBarWidth := totalWidth - labelWidth - displayWidth(axisSeparator) - countWidth - 1
	if maxBarWidth < 1 {
		maxBarWidth = 1
	}

	useColor := shouldUseColor(w, forceColor)
	for _, tc := range counts {
		barWidth := tc.Count * maxBarWidth / maxCount
		if barWidth < 1 && tc.Count > 0 {
			barWidth = 1
		}
		bar := strings.Repeat(barRune, barWidth)
		if useColor {
			bar = barColor.code + bar + colorReset
		}
		line := padCell(tc.VesselType, labelWidth, false) + axisSeparator + bar + " " + strconv.Itoa(tc.Count)
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
