// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package analysis

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/grand-mother/hotspot/pkg/osutil"
	"github.com/grand-mother/hotspot/pkg/report"
	"github.com/grand-mother/hotspot/pkg/summary"
)

// Save writes one report per histogram (<name>.<format>), one CSV matrix per rate map
// (<name>.map.csv) and summary.json with the integrated rate and the summaries into dir.
func (r *Result) Save(dir string, format report.Format) error {
	if err := osutil.MkdirAll(dir); err != nil {
		return err
	}
	for _, h := range r.Histograms {
		data, err := h.Report.Marshal(format)
		if err != nil {
			return fmt.Errorf("histogram %v: %w", h.Report.Name, err)
		}
		if err := osutil.WriteFile(filepath.Join(dir, h.Report.Name+format.Ext()), data); err != nil {
			return err
		}
	}
	for _, m := range r.Maps {
		data, err := m.marshal()
		if err != nil {
			return fmt.Errorf("map %v: %w", m.Name, err)
		}
		if err := osutil.WriteFile(filepath.Join(dir, m.Name+".map.csv"), data); err != nil {
			return err
		}
	}
	data, err := json.MarshalIndent(r.overview(), "", "\t")
	if err != nil {
		return err
	}
	return osutil.WriteFile(filepath.Join(dir, "summary.json"), data)
}

type overview struct {
	Generated   float64           `json:"generated"`
	Rate        float64           `json:"rate"`
	Uncertainty float64           `json:"uncertainty"`
	Histograms  []string          `json:"histograms,omitempty"`
	FitErrors   []string          `json:"fit_errors,omitempty"`
	Summaries   []summary.Summary `json:"summaries,omitempty"`
}

func (r *Result) overview() *overview {
	ov := &overview{
		Generated:   r.Generated,
		Rate:        r.Total.Rate,
		Uncertainty: r.Total.Uncertainty,
		Summaries:   r.Summaries,
	}
	for _, h := range r.Histograms {
		ov.Histograms = append(ov.Histograms, h.Report.Name)
		if h.FitErr != nil {
			ov.FitErrors = append(ov.FitErrors, fmt.Sprintf("%v: %v", h.Report.Name, h.FitErr))
		}
	}
	return ov
}

// marshal writes the density matrix with y bins as rows, the first row holds x bin centers
// and the first column holds y bin centers.
func (m *Map) marshal() ([]byte, error) {
	buf := new(bytes.Buffer)
	w := csv.NewWriter(buf)
	header := []string{""}
	for _, x := range m.X {
		header = append(header, formatFloat(x))
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for i, y := range m.Y {
		row := []string{formatFloat(y)}
		for _, p := range m.P[i] {
			row = append(row, formatFloat(p))
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
