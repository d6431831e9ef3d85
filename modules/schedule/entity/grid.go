package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const (
	DaysPerWeek = 7
	HoursPerDay = 24
)

var (
	// ErrShapeMismatch is returned for any grid that is not exactly 7x24.
	ErrShapeMismatch = errors.New("grid must be 7 days by 24 hours")
	// ErrEmptyInput is returned when the engine is handed no grids.
	ErrEmptyInput = errors.New("at least one grid is required")
	// ErrCellOutOfRange is returned for a day or hour outside the grid.
	ErrCellOutOfRange = errors.New("cell out of range")
)

// DayNames is indexed by day, Monday first.
var DayNames = [DaysPerWeek]string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// Grid is one participant's recurring week. Cell [d][h] is true when the
// participant is busy on day d (0 = Monday) during [h, h+1).
//
// Grid is an array, so assignment copies it and every method that edits
// returns a new value.
type Grid [DaysPerWeek][HoursPerDay]bool

// NewGrid returns an all-free grid.
func NewGrid() Grid {
	return Grid{}
}

func InRange(day, hour int) bool {
	return day >= 0 && day < DaysPerWeek && hour >= 0 && hour < HoursPerDay
}

// SetCell returns a copy of g with one cell changed.
func (g Grid) SetCell(day, hour int, busy bool) (Grid, error) {
	if !InRange(day, hour) {
		return g, fmt.Errorf("%w: day %d hour %d", ErrCellOutOfRange, day, hour)
	}
	g[day][hour] = busy
	return g, nil
}

// PaintRange sets every cell on the discretized straight line between the two
// endpoints, both included. The number of steps is the larger of the day and
// hour deltas, and each step rounds the interpolated position to the nearest
// cell, so a fast drag still produces a gap-free path.
func (g Grid) PaintRange(fromDay, fromHour, toDay, toHour int, busy bool) (Grid, error) {
	if !InRange(fromDay, fromHour) {
		return g, fmt.Errorf("%w: day %d hour %d", ErrCellOutOfRange, fromDay, fromHour)
	}
	if !InRange(toDay, toHour) {
		return g, fmt.Errorf("%w: day %d hour %d", ErrCellOutOfRange, toDay, toHour)
	}

	dDay := toDay - fromDay
	dHour := toHour - fromHour
	steps := max(abs(dDay), abs(dHour))
	if steps == 0 {
		g[fromDay][fromHour] = busy
		return g, nil
	}

	for i := 0; i <= steps; i++ {
		day := fromDay + roundDiv(dDay*i, steps)
		hour := fromHour + roundDiv(dHour*i, steps)
		g[day][hour] = busy
	}
	return g, nil
}

// Clear returns an all-free grid. Asking the user first is up to the caller.
func (g Grid) Clear() Grid {
	return NewGrid()
}

func (g Grid) BusyCellCount() int {
	n := 0
	for d := range g {
		for h := range g[d] {
			if g[d][h] {
				n++
			}
		}
	}
	return n
}

func (g Grid) IsEmpty() bool {
	return g.BusyCellCount() == 0
}

// FromRows validates a nested slice and converts it to a Grid.
func FromRows(rows [][]bool) (Grid, error) {
	var g Grid
	if len(rows) != DaysPerWeek {
		return g, fmt.Errorf("%w: got %d days", ErrShapeMismatch, len(rows))
	}
	for d, row := range rows {
		if len(row) != HoursPerDay {
			return g, fmt.Errorf("%w: day %d has %d hours", ErrShapeMismatch, d, len(row))
		}
		copy(g[d][:], row)
	}
	return g, nil
}

// Rows returns g as a freshly allocated nested slice.
func (g Grid) Rows() [][]bool {
	rows := make([][]bool, DaysPerWeek)
	for d := range g {
		rows[d] = make([]bool, HoursPerDay)
		copy(rows[d], g[d][:])
	}
	return rows
}

// ParseRows reads the text form: 7 lines of 24 characters where '#', '1' and
// 'x' mark busy and '.', '0' and '-' mark free. Spaces inside a line are
// ignored so rows can be grouped for readability.
func ParseRows(lines []string) (Grid, error) {
	var g Grid
	if len(lines) != DaysPerWeek {
		return g, fmt.Errorf("%w: got %d rows", ErrShapeMismatch, len(lines))
	}
	for d, line := range lines {
		line = strings.ReplaceAll(line, " ", "")
		if len(line) != HoursPerDay {
			return g, fmt.Errorf("%w: row %d has %d cells", ErrShapeMismatch, d, len(line))
		}
		for h := 0; h < HoursPerDay; h++ {
			switch line[h] {
			case '#', '1', 'x', 'X':
				g[d][h] = true
			case '.', '0', '-':
			default:
				return g, fmt.Errorf("row %d hour %d: unexpected cell %q", d, h, line[h])
			}
		}
	}
	return g, nil
}

// String renders g in the ParseRows format, one day per line.
func (g Grid) String() string {
	var b strings.Builder
	for d := range g {
		for h := range g[d] {
			if g[d][h] {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		if d < DaysPerWeek-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (g Grid) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.Rows())
}

func (g *Grid) UnmarshalJSON(data []byte) error {
	var rows [][]bool
	if err := json.Unmarshal(data, &rows); err != nil {
		return err
	}
	parsed, err := FromRows(rows)
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}

// Value stores the grid as a JSONB array.
func (g Grid) Value() (driver.Value, error) {
	return g.MarshalJSON()
}

func (g *Grid) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		return g.UnmarshalJSON(v)
	case string:
		return g.UnmarshalJSON([]byte(v))
	case nil:
		return fmt.Errorf("%w: null grid", ErrShapeMismatch)
	default:
		return fmt.Errorf("cannot scan %T into Grid", src)
	}
}

// Level is the presentation bucket for a busy count.
type Level int

const (
	LevelNeutral Level = iota
	LevelLow
	LevelMid
	LevelHigh
)

func (l Level) String() string {
	switch l {
	case LevelNeutral:
		return "neutral"
	case LevelLow:
		return "low"
	case LevelMid:
		return "mid"
	default:
		return "high"
	}
}

func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// BusyLevel buckets a busy count: 0 neutral, 1 low, 2 mid, 3 or more high.
func BusyLevel(busyCount int) Level {
	switch {
	case busyCount <= 0:
		return LevelNeutral
	case busyCount == 1:
		return LevelLow
	case busyCount == 2:
		return LevelMid
	default:
		return LevelHigh
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// roundDiv returns num/den rounded to the nearest integer, halves up.
func roundDiv(num, den int) int {
	q := 2*num + den
	d := 2 * den
	if q >= 0 {
		return q / d
	}
	return -((-q + d - 1) / d)
}
