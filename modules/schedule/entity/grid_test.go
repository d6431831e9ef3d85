package entity

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewGridIsFree(t *testing.T) {
	g := NewGrid()
	if got := g.BusyCellCount(); got != 0 {
		t.Fatalf("BusyCellCount() = %d, want 0", got)
	}
	if !g.IsEmpty() {
		t.Fatal("IsEmpty() = false for a new grid")
	}
}

func TestSetCellCopiesOnWrite(t *testing.T) {
	orig := NewGrid()
	next, err := orig.SetCell(2, 14, true)
	if err != nil {
		t.Fatalf("SetCell: %v", err)
	}
	if orig[2][14] {
		t.Error("SetCell mutated its receiver")
	}
	if !next[2][14] {
		t.Error("SetCell did not set the cell")
	}
	if got := next.BusyCellCount(); got != 1 {
		t.Errorf("BusyCellCount() = %d, want 1", got)
	}
}

func TestSetCellOutOfRange(t *testing.T) {
	tests := []struct {
		name      string
		day, hour int
	}{
		{"negative day", -1, 0},
		{"day past sunday", 7, 0},
		{"negative hour", 0, -1},
		{"hour 24", 0, 24},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGrid().SetCell(tt.day, tt.hour, true)
			if !errors.Is(err, ErrCellOutOfRange) {
				t.Fatalf("err = %v, want ErrCellOutOfRange", err)
			}
		})
	}
}

func TestPaintRangeSameDay(t *testing.T) {
	g, err := NewGrid().PaintRange(0, 5, 0, 8, true)
	if err != nil {
		t.Fatalf("PaintRange: %v", err)
	}

	for h := 0; h < HoursPerDay; h++ {
		want := h >= 5 && h <= 8
		if g[0][h] != want {
			t.Errorf("day 0 hour %d = %v, want %v", h, g[0][h], want)
		}
	}
	if got := g.BusyCellCount(); got != 4 {
		t.Errorf("BusyCellCount() = %d, want 4", got)
	}

	again, err := g.PaintRange(0, 5, 0, 8, true)
	if err != nil {
		t.Fatalf("PaintRange: %v", err)
	}
	if again != g {
		t.Error("repeating PaintRange changed the grid")
	}
}

func TestPaintRangeIsOrderIndependent(t *testing.T) {
	tests := []struct {
		name                   string
		fromDay, fromHour      int
		toDay, toHour, wantLen int
	}{
		{"single cell", 3, 3, 3, 3, 1},
		{"vertical", 0, 10, 6, 10, 7},
		{"diagonal", 0, 0, 6, 6, 7},
		{"shallow", 1, 2, 3, 20, 19},
		{"steep", 0, 4, 6, 6, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			forward, err := NewGrid().PaintRange(tt.fromDay, tt.fromHour, tt.toDay, tt.toHour, true)
			if err != nil {
				t.Fatalf("PaintRange: %v", err)
			}
			backward, err := NewGrid().PaintRange(tt.toDay, tt.toHour, tt.fromDay, tt.fromHour, true)
			if err != nil {
				t.Fatalf("PaintRange: %v", err)
			}
			if forward.BusyCellCount() != tt.wantLen {
				t.Errorf("forward painted %d cells, want %d", forward.BusyCellCount(), tt.wantLen)
			}
			if !forward[tt.fromDay][tt.fromHour] || !forward[tt.toDay][tt.toHour] {
				t.Error("endpoints not painted")
			}
			if backward.BusyCellCount() != tt.wantLen {
				t.Errorf("backward painted %d cells, want %d", backward.BusyCellCount(), tt.wantLen)
			}
		})
	}
}

func TestPaintRangeErase(t *testing.T) {
	g, _ := NewGrid().PaintRange(4, 0, 4, 23, true)
	g, err := g.PaintRange(4, 10, 4, 11, false)
	if err != nil {
		t.Fatalf("PaintRange: %v", err)
	}
	if g[4][10] || g[4][11] {
		t.Error("cells 10 and 11 still busy")
	}
	if got := g.BusyCellCount(); got != 22 {
		t.Errorf("BusyCellCount() = %d, want 22", got)
	}
}

func TestPaintRangeOutOfRange(t *testing.T) {
	orig := NewGrid()
	g, err := orig.PaintRange(0, 0, 7, 0, true)
	if !errors.Is(err, ErrCellOutOfRange) {
		t.Fatalf("err = %v, want ErrCellOutOfRange", err)
	}
	if g != orig {
		t.Error("failed PaintRange returned a modified grid")
	}
}

func TestClear(t *testing.T) {
	g, _ := NewGrid().PaintRange(0, 0, 6, 23, true)
	cleared := g.Clear()
	if !cleared.IsEmpty() {
		t.Error("Clear() left busy cells")
	}
	if g.IsEmpty() {
		t.Error("Clear() mutated its receiver")
	}
}

func TestFromRowsShapeMismatch(t *testing.T) {
	good := NewGrid().Rows()

	tests := []struct {
		name string
		rows [][]bool
	}{
		{"nil", nil},
		{"six days", good[:6]},
		{"eight days", append(NewGrid().Rows(), make([]bool, HoursPerDay))},
		{"short day", func() [][]bool {
			r := NewGrid().Rows()
			r[3] = r[3][:23]
			return r
		}()},
		{"long day", func() [][]bool {
			r := NewGrid().Rows()
			r[6] = append(r[6], true)
			return r
		}()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FromRows(tt.rows); !errors.Is(err, ErrShapeMismatch) {
				t.Fatalf("err = %v, want ErrShapeMismatch", err)
			}
		})
	}
}

func TestRowsRoundTrip(t *testing.T) {
	g, _ := NewGrid().PaintRange(1, 9, 1, 17, true)
	back, err := FromRows(g.Rows())
	if err != nil {
		t.Fatalf("FromRows: %v", err)
	}
	if back != g {
		t.Error("FromRows(Rows()) differs from the original")
	}
}

func TestParseRows(t *testing.T) {
	lines := []string{
		"......... ##.......... ...",
		"000000000000000000000000",
		"xxxxxxxxxxxxxxxxxxxxxxxx",
		"------------------------",
		"1.......................",
		"........................",
		".......................#",
	}
	g, err := ParseRows(lines)
	if err != nil {
		t.Fatalf("ParseRows: %v", err)
	}
	if !g[0][9] || !g[0][10] || g[0][11] {
		t.Error("monday row parsed wrong")
	}
	if got := g.BusyCellCount(); got != 2+24+1+1 {
		t.Errorf("BusyCellCount() = %d, want 28", got)
	}

	back, err := ParseRows(strings.Split(g.String(), "\n"))
	if err != nil {
		t.Fatalf("ParseRows(String()): %v", err)
	}
	if back != g {
		t.Error("String() does not round-trip")
	}
}

func TestParseRowsErrors(t *testing.T) {
	full := strings.Repeat(".", HoursPerDay)
	rows := func(override int, line string) []string {
		out := make([]string, DaysPerWeek)
		for i := range out {
			out[i] = full
		}
		out[override] = line
		return out
	}

	if _, err := ParseRows(rows(0, full)[:6]); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("six rows: err = %v, want ErrShapeMismatch", err)
	}
	if _, err := ParseRows(rows(2, full[:20])); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("short row: err = %v, want ErrShapeMismatch", err)
	}
	if _, err := ParseRows(rows(5, "?"+full[1:])); err == nil {
		t.Error("unknown cell: want error")
	}
}

func TestGridJSON(t *testing.T) {
	g, _ := NewGrid().SetCell(6, 23, true)

	data, err := json.Marshal(g)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var rows [][]bool
	if err := json.Unmarshal(data, &rows); err != nil {
		t.Fatalf("payload is not a nested array: %v", err)
	}
	if diff := cmp.Diff(g.Rows(), rows); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}

	var back Grid
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back != g {
		t.Error("JSON round-trip changed the grid")
	}

	if err := json.Unmarshal([]byte(`[[true,false]]`), &back); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("bad shape: err = %v, want ErrShapeMismatch", err)
	}
}

func TestGridScan(t *testing.T) {
	g, _ := NewGrid().SetCell(3, 12, true)
	v, err := g.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}

	var scanned Grid
	if err := scanned.Scan(v); err != nil {
		t.Fatalf("Scan([]byte): %v", err)
	}
	if scanned != g {
		t.Error("Scan([]byte) mismatch")
	}

	scanned = Grid{}
	if err := scanned.Scan(string(v.([]byte))); err != nil {
		t.Fatalf("Scan(string): %v", err)
	}
	if scanned != g {
		t.Error("Scan(string) mismatch")
	}

	if err := scanned.Scan(nil); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("Scan(nil): err = %v, want ErrShapeMismatch", err)
	}
	if err := scanned.Scan(42); err == nil {
		t.Error("Scan(int): want error")
	}
}

func TestBusyLevel(t *testing.T) {
	tests := []struct {
		count int
		want  Level
		name  string
	}{
		{0, LevelNeutral, "neutral"},
		{1, LevelLow, "low"},
		{2, LevelMid, "mid"},
		{3, LevelHigh, "high"},
		{12, LevelHigh, "high"},
	}
	for _, tt := range tests {
		got := BusyLevel(tt.count)
		if got != tt.want || got.String() != tt.name {
			t.Errorf("BusyLevel(%d) = %v, want %v", tt.count, got, tt.name)
		}
	}
}
