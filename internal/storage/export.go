package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/rowsim/internal/rowstate"
	"github.com/san-kum/rowsim/internal/sim"
)

type ExportData struct {
	Name    string             `json:"name"`
	Panels  []PanelMeta        `json:"panels"`
	Ticks   int                `json:"ticks"`
	States  [][]rowstate.State `json:"states"`
	Matches []bool             `json:"matches"`
	Metrics map[string]float64 `json:"metrics"`
}

func NewExport(meta RunMetadata, result *sim.Result) ExportData {
	return ExportData{
		Name:    meta.Name,
		Panels:  meta.Panels,
		Ticks:   result.Ticks,
		States:  result.States,
		Matches: result.Matches,
		Metrics: result.Metrics,
	}
}

func WriteJSON(w io.Writer, data ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportJSON writes to path, or to stdout when path is "" or "-".
func ExportJSON(path string, meta RunMetadata, result *sim.Result) error {
	data := NewExport(meta, result)
	if path == "" || path == "-" {
		return WriteJSON(os.Stdout, data)
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, data)
}
