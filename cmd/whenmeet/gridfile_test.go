package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chooinsik-ship-it/WHEN-MEET/modules/schedule/entity"
)

const mondayMorningYAML = `
name: mina
rows:
  - "######## ........ ........"
  - "........ ........ ........"
  - "........ ........ ........"
  - "........ ........ ........"
  - "........ ........ ........"
  - "........ ........ ........"
  - "........ ........ ........"
`

func TestParseGridFile(t *testing.T) {
	fullDay := make([][]bool, entity.DaysPerWeek)
	for d := range fullDay {
		fullDay[d] = make([]bool, entity.HoursPerDay)
	}
	fullDay[6][23] = true

	jsonBody := `{"grid": ` + mustJSONRows(fullDay) + `}`

	tests := []struct {
		name      string
		body      string
		wantName  string
		wantBusy  int
		wantError string
	}{
		{"yaml rows", mondayMorningYAML, "mina", 8, ""},
		{"json grid", jsonBody, "fallback", 1, ""},
		{"no grid", "name: empty\n", "", 0, "no rows or grid"},
		{"both", "rows: []\ngrid: []\n", "", 0, "not both"},
		{"short", "rows:\n  - \"....\"\n", "", 0, "7 days by 24 hours"},
		{"bad cell", strings.Replace(mondayMorningYAML, "########", "#######?", 1), "", 0, "unexpected cell"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := parseGridFile([]byte(tt.body), "fallback")
			if tt.wantError != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantError) {
					t.Fatalf("err = %v, want it to mention %q", err, tt.wantError)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseGridFile: %v", err)
			}
			if p.Name != tt.wantName || p.Grid.BusyCellCount() != tt.wantBusy {
				t.Errorf("got %s with %d busy cells, want %s with %d", p.Name, p.Grid.BusyCellCount(), tt.wantName, tt.wantBusy)
			}
		})
	}
}

func TestLoadGridFileNamesFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jun.yaml")
	body := strings.Replace(mondayMorningYAML, "name: mina\n", "", 1)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	p, err := loadGridFile(path)
	if err != nil {
		t.Fatalf("loadGridFile: %v", err)
	}
	if p.Name != "jun" {
		t.Errorf("Name = %q, want jun", p.Name)
	}

	if _, err := loadGridFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file should fail")
	}
}

func mustJSONRows(rows [][]bool) string {
	var b strings.Builder
	b.WriteByte('[')
	for d, row := range rows {
		if d > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('[')
		for h, busy := range row {
			if h > 0 {
				b.WriteByte(',')
			}
			if busy {
				b.WriteString("true")
			} else {
				b.WriteString("false")
			}
		}
		b.WriteByte(']')
	}
	b.WriteByte(']')
	return b.String()
}
