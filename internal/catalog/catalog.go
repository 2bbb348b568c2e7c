// Package catalog loads declarative model definitions from a directory and
// creates them in a registry at startup.
//
// Each *.yaml, *.yml, *.json or *.toml file holds either one definition or a
// list under "models". A definition may carry seed rows and ask to be trained
// right away.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mlmodeld/internal/common/fsutil"
	"mlmodeld/internal/config"
	"mlmodeld/internal/manager"
)

// Row is one seed training example.
type Row struct {
	Inputs map[string]any `json:"inputs" yaml:"inputs" toml:"inputs"`
	Output any            `json:"output" yaml:"output" toml:"output"`
}

// Definition describes one model to create.
type Definition struct {
	Name   string            `json:"name" yaml:"name" toml:"name"`
	Types  map[string]string `json:"types" yaml:"types" toml:"types"`
	Output string            `json:"output" yaml:"output" toml:"output"`
	Config map[string]any    `json:"config" yaml:"config" toml:"config"`
	Rows   []Row             `json:"rows" yaml:"rows" toml:"rows"`
	Train  bool              `json:"train" yaml:"train" toml:"train"`

	// Source is the file the definition was read from.
	Source string `json:"-" yaml:"-" toml:"-"`
}

type file struct {
	Definition `yaml:",inline"`
	Models     []Definition `json:"models" yaml:"models" toml:"models"`
}

// LoadFile reads the definitions in one file.
func LoadFile(path string) ([]Definition, error) {
	p, err := fsutil.ExpandHome(path)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return nil, err
	}
	var f file
	if err := config.Decode(filepath.Ext(path), b, &f); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	defs := f.Models
	if len(defs) == 0 && f.Name != "" {
		defs = []Definition{f.Definition}
	}
	if len(defs) == 0 {
		return nil, fmt.Errorf("%s: no model definitions", path)
	}
	for i := range defs {
		defs[i].Source = path
		if strings.TrimSpace(defs[i].Name) == "" {
			return nil, fmt.Errorf("%s: definition %d has no name", path, i)
		}
	}
	return defs, nil
}

// LoadDir reads every supported file in dir, in file name order. A model name
// defined twice is an error.
func LoadDir(dir string) ([]Definition, error) {
	paths, err := fsutil.ListFiles(dir, config.Supported)
	if err != nil {
		return nil, err
	}
	var out []Definition
	seen := map[string]string{}
	for _, p := range paths {
		defs, err := LoadFile(p)
		if err != nil {
			return nil, err
		}
		for _, d := range defs {
			if prev, ok := seen[d.Name]; ok {
				return nil, fmt.Errorf("model %s defined in both %s and %s", d.Name, prev, d.Source)
			}
			seen[d.Name] = d.Source
			out = append(out, d)
		}
	}
	return out, nil
}

// Creator is the subset of *manager.Registry used by Apply.
type Creator interface {
	Create(name string, fieldTypes map[string]string, outputField string, config map[string]any) (*manager.Model, error)
}

// Apply creates each definition in reg, adds its seed rows and trains it when
// asked. It keeps going past failures and returns the number of models
// created along with the joined errors.
func Apply(ctx context.Context, reg Creator, defs []Definition) (int, error) {
	var errs []error
	created := 0
	for _, d := range defs {
		m, err := reg.Create(d.Name, d.Types, d.Output, d.Config)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: create %s: %w", d.Source, d.Name, err))
			continue
		}
		created++
		if len(d.Rows) > 0 {
			examples := make([]manager.Example, len(d.Rows))
			for i, r := range d.Rows {
				examples[i] = manager.Example{Inputs: r.Inputs, Output: r.Output}
			}
			if err := m.AddBatch(examples); err != nil {
				errs = append(errs, fmt.Errorf("%s: rows for %s: %w", d.Source, d.Name, err))
				continue
			}
		}
		if d.Train {
			if err := m.Train(ctx); err != nil {
				errs = append(errs, fmt.Errorf("%s: train %s: %w", d.Source, d.Name, err))
			}
		}
	}
	return created, errors.Join(errs...)
}
