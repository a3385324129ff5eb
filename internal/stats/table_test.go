package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Vessel Type", "Wrecks"}
	rows := [][]string{
		{"Schooner", "132"},
		{"Bulk Freighter", "9"},
	}
	rightAlign := map[int]bool{1: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(lines))
	}
	if lines[0] != "Vessel Type    Wrecks" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "-------------- ------" {
		t.Fatalf("unexpected rule line: %q", lines[1])
	}
	if lines[2] != "Schooner          132" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
	if lines[3] != "Bulk Freighter      9" {
		t.Fatalf("unexpected row line: %q", lines[3])
	}
}

func TestFormatTableShortRows(t *testing.T) {
	headers := []string{"Decade", "Schooner"}
	rows := [][]string{{"1850"}}

	lines := formatTable(headers, rows, nil)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[2] != "1850           " {
		t.Fatalf("missing cells should pad as empty: %q", lines[2])
	}
}
