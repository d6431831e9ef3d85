package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/chooinsik-ship-it/WHEN-MEET/modules/schedule/entity"
	"github.com/chooinsik-ship-it/WHEN-MEET/modules/schedule/service"

	"github.com/fatih/color"
)

var levelColors = map[entity.Level]*color.Color{
	entity.LevelNeutral: color.New(color.FgHiBlack),
	entity.LevelLow:     color.New(color.FgGreen),
	entity.LevelMid:     color.New(color.FgYellow),
	entity.LevelHigh:    color.New(color.FgRed),
}

const dayColumn = 10

// renderHeatmap prints one row per day with the busy count of every hour,
// colored by level. Hours inside best are underlined.
func renderHeatmap(w io.Writer, counts entity.BusyCounts, best *entity.Segment) {
	fmt.Fprint(w, strings.Repeat(" ", dayColumn))
	for h := 0; h < entity.HoursPerDay; h++ {
		fmt.Fprintf(w, "%3d", h)
	}
	fmt.Fprintln(w)

	for d := 0; d < entity.DaysPerWeek; d++ {
		fmt.Fprintf(w, "%-*s", dayColumn, entity.DayNames[d])
		for h := 0; h < entity.HoursPerDay; h++ {
			cell := "  ."
			if counts[d][h] > 0 {
				cell = fmt.Sprintf("%3d", counts[d][h])
			}

			c := levelColors[entity.BusyLevel(counts[d][h])]
			if best != nil && best.Day == d && h >= best.StartHour && h <= best.EndHour {
				c = color.New(color.FgCyan, color.Underline)
			}
			c.Fprint(w, cell)
		}
		fmt.Fprintln(w)
	}
}

func renderSegments(w io.Writer, segments []entity.Segment, participants int) {
	fmt.Fprintln(w, "Segments:")
	for _, s := range segments {
		fmt.Fprintf(w, "  %-28s %d/%d busy\n", service.FormatSegment(s), s.BusyCount, participants)
	}
}

func renderLegend(w io.Writer) {
	fmt.Fprint(w, "Legend: ")
	levelColors[entity.LevelNeutral].Fprint(w, ". free ")
	levelColors[entity.LevelLow].Fprint(w, "1 busy ")
	levelColors[entity.LevelMid].Fprint(w, "2 busy ")
	levelColors[entity.LevelHigh].Fprint(w, "3+ busy")
	fmt.Fprintln(w)
}
