package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chooinsik-ship-it/WHEN-MEET/modules/schedule/entity"

	"gopkg.in/yaml.v3"
)

// gridFile is one participant on disk. Rows uses the text form
// ("#" busy, "." free, one line per day); Grid is a 7x24 bool matrix. JSON
// files parse too since JSON is YAML.
type gridFile struct {
	Name string   `yaml:"name"`
	Rows []string `yaml:"rows"`
	Grid [][]bool `yaml:"grid"`
}

type participant struct {
	Name string
	Grid entity.Grid
}

func parseGridFile(data []byte, fallbackName string) (participant, error) {
	var f gridFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return participant{}, fmt.Errorf("decoding: %w", err)
	}

	p := participant{Name: strings.TrimSpace(f.Name)}
	if p.Name == "" {
		p.Name = fallbackName
	}

	var err error
	switch {
	case f.Rows != nil && f.Grid != nil:
		return participant{}, errors.New("set either rows or grid, not both")
	case f.Rows != nil:
		p.Grid, err = entity.ParseRows(f.Rows)
	case f.Grid != nil:
		p.Grid, err = entity.FromRows(f.Grid)
	default:
		return participant{}, errors.New("no rows or grid")
	}
	if err != nil {
		return participant{}, err
	}
	return p, nil
}

func loadGridFile(path string) (participant, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return participant{}, err
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	p, err := parseGridFile(data, name)
	if err != nil {
		return participant{}, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}
