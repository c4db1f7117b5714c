// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package analysis

import (
	"fmt"

	"github.com/grand-mother/hotspot/pkg/binning"
	"github.com/grand-mother/hotspot/pkg/config"
	"github.com/grand-mother/hotspot/pkg/fit"
	"github.com/grand-mother/hotspot/pkg/sample"
)

// DefaultBins is the number of bins of an axis that does not set it.
const DefaultBins = 15

// Config describes one analysis of a sample store. Example (YAML):
//
//	weight: {column: weight}
//	histograms:
//	  - name: energy
//	    observable: {column: energy, scale: 1e-18}
//	    scale: log
//	    power: 1
//	summaries:
//	  - name: ants
//	    field: {column: ants}
//	    above: 4
type Config struct {
	// Generated overrides the number of generated events recorded in the store.
	Generated float64 `json:"generated,omitempty"`
	// Weight is the default weight of histograms and maps,
	// it also defines the integrated rate of the store.
	Weight     sample.Field      `json:"weight"`
	Histograms []HistogramConfig `json:"histograms,omitempty"`
	Maps       []MapConfig       `json:"maps,omitempty"`
	Summaries  []SummaryConfig   `json:"summaries,omitempty"`
}

// Axis describes binning of one observable.
// If Min or Max is not set, it is derived from the data.
type Axis struct {
	Observable sample.Field  `json:"observable"`
	Scale      binning.Scale `json:"scale,omitempty"`
	Bins       int           `json:"bins,omitempty"`
	Min        *float64      `json:"min,omitempty"`
	Max        *float64      `json:"max,omitempty"`
}

type HistogramConfig struct {
	Name string `json:"name"`
	Axis
	Weight *sample.Field `json:"weight,omitempty"`
	// Power multiplies the density by x^Power.
	Power float64 `json:"power,omitempty"`
	// Model is one of none, gaussian and log-polynomial (default).
	Model string `json:"model,omitempty"`
}

// MapConfig describes a 2D rate map.
type MapConfig struct {
	Name   string        `json:"name"`
	X      Axis          `json:"x"`
	Y      Axis          `json:"y"`
	Weight *sample.Field `json:"weight,omitempty"`
}

// SummaryConfig requests descriptive statistics of Field.
// If Above is set, only rows where the raw Field.Column exceeds it are described.
type SummaryConfig struct {
	Name  string       `json:"name"`
	Field sample.Field `json:"field"`
	Above *float64     `json:"above,omitempty"`
}

func LoadConfig(filename string) (*Config, error) {
	cfg := new(Config)
	if err := config.LoadFile(filename, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the config and fills in defaults.
func (cfg *Config) Validate() error {
	if cfg.Generated < 0 {
		return fmt.Errorf("negative generated count %v", cfg.Generated)
	}
	if cfg.Weight.Column == "" {
		return fmt.Errorf("no weight column")
	}
	if len(cfg.Histograms)+len(cfg.Maps)+len(cfg.Summaries) == 0 {
		return fmt.Errorf("nothing to do: no histograms, maps or summaries")
	}
	names := make(map[string]bool)
	checkName := func(name string) error {
		if name == "" {
			return fmt.Errorf("empty name")
		}
		if names[name] {
			return fmt.Errorf("duplicate name %q", name)
		}
		names[name] = true
		return nil
	}
	for i := range cfg.Histograms {
		h := &cfg.Histograms[i]
		if err := checkName(h.Name); err != nil {
			return fmt.Errorf("histogram %v: %w", i, err)
		}
		if err := h.Axis.validate(); err != nil {
			return fmt.Errorf("histogram %v: %w", h.Name, err)
		}
		model, err := fit.ParseModel(h.Model)
		if err != nil {
			return fmt.Errorf("histogram %v: %w", h.Name, err)
		}
		h.Model = string(model)
	}
	for i := range cfg.Maps {
		m := &cfg.Maps[i]
		if err := checkName(m.Name); err != nil {
			return fmt.Errorf("map %v: %w", i, err)
		}
		if err := m.X.validate(); err != nil {
			return fmt.Errorf("map %v: x: %w", m.Name, err)
		}
		if err := m.Y.validate(); err != nil {
			return fmt.Errorf("map %v: y: %w", m.Name, err)
		}
	}
	for i := range cfg.Summaries {
		s := &cfg.Summaries[i]
		if err := checkName(s.Name); err != nil {
			return fmt.Errorf("summary %v: %w", i, err)
		}
		if s.Field.Column == "" {
			return fmt.Errorf("summary %v: no column", s.Name)
		}
	}
	return nil
}

func (a *Axis) validate() error {
	if a.Observable.Column == "" {
		return fmt.Errorf("no observable column")
	}
	if a.Scale == "" {
		a.Scale = binning.Linear
	}
	if a.Bins == 0 {
		a.Bins = DefaultBins
	}
	if a.Min != nil && a.Max != nil {
		// Complete domains are checked right away, partial ones once the data is known.
		if _, err := binning.Build(*a.Min, *a.Max, a.Bins, a.Scale); err != nil {
			return err
		}
		return nil
	}
	if a.Scale != binning.Linear && a.Scale != binning.Log {
		return fmt.Errorf("%w: unknown scale %q", binning.ErrInvalidDomain, a.Scale)
	}
	if a.Bins < 1 {
		return fmt.Errorf("%w: %v bins", binning.ErrInvalidDomain, a.Bins)
	}
	return nil
}

// fields returns all fields the config reads from the store.
func (cfg *Config) fields() []sample.Field {
	res := []sample.Field{cfg.Weight}
	for _, h := range cfg.Histograms {
		res = append(res, h.Observable)
		if h.Weight != nil {
			res = append(res, *h.Weight)
		}
	}
	for _, m := range cfg.Maps {
		res = append(res, m.X.Observable, m.Y.Observable)
		if m.Weight != nil {
			res = append(res, *m.Weight)
		}
	}
	for _, s := range cfg.Summaries {
		res = append(res, s.Field)
	}
	return res
}
