// Command whenmeet compares weekly grids stored in files and prints the
// overlap heatmap and the recommended meeting window.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/chooinsik-ship-it/WHEN-MEET/core/constants"
	"github.com/chooinsik-ship-it/WHEN-MEET/core/logger"
	"github.com/chooinsik-ship-it/WHEN-MEET/modules/schedule/entity"
	"github.com/chooinsik-ship-it/WHEN-MEET/modules/schedule/service"

	"github.com/fatih/color"
)

var (
	minDuration  = flag.Int("min", constants.DefaultMinDurationHours, "Minimum meeting length in hours (1-24)")
	noColor      = flag.Bool("no-color", false, "Disable colored output")
	showSegments = flag.Bool("segments", false, "List every segment of equal busy count")
	verbose      = flag.Bool("verbose", false, "Enable debug logging")
)

func main() {
	flag.Parse()

	level := "warn"
	if *verbose {
		level = "debug"
	}
	if err := logger.Init(level, "console"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <grid-file>...\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}
	if *minDuration < 1 || *minDuration > entity.HoursPerDay {
		fmt.Fprintln(os.Stderr, "-min must be between 1 and 24")
		os.Exit(2)
	}
	if *noColor {
		color.NoColor = true
	}

	if err := run(os.Stdout, args, *minDuration, *showSegments); err != nil {
		logger.Error("whenmeet failed", err)
		os.Exit(1)
	}
}

func run(w io.Writer, paths []string, minHours int, segments bool) error {
	people := make([]participant, 0, len(paths))
	grids := make([]entity.Grid, 0, len(paths))
	for _, path := range paths {
		p, err := loadGridFile(path)
		if err != nil {
			return err
		}
		logger.Debug("Loaded grid", "name", p.Name, "busy_cells", p.Grid.BusyCellCount())
		people = append(people, p)
		grids = append(grids, p.Grid)
	}

	result, err := service.Recommend(grids, minHours)
	if err != nil {
		return err
	}

	fmt.Fprint(w, "Participants:")
	for _, p := range people {
		fmt.Fprintf(w, " %s", p.Name)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w)

	renderHeatmap(w, result.Counts, result.Best)
	renderLegend(w)

	if segments {
		fmt.Fprintln(w)
		renderSegments(w, result.Segments, result.Participants)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, result.Message)
	return nil
}
