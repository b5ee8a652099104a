package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/rowsim/internal/rowstate"
	"github.com/san-kum/rowsim/internal/sim"
)

const (
	metadataFile = "metadata.json"
	statesFile   = "states.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type PanelMeta struct {
	Name     string         `json:"name"`
	Coupling string         `json:"coupling"`
	Init     rowstate.State `json:"init"`
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Timestamp  time.Time          `json:"timestamp"`
	Ticks      int                `json:"ticks"`
	IntervalMS int                `json:"interval_ms,omitempty"`
	Panels     []PanelMeta        `json:"panels"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Save writes meta and every recorded state of result into a new run
// directory and returns the run id. ID, Timestamp and Ticks are filled in.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	meta.ID = uuid.NewString()
	meta.Timestamp = time.Now()
	meta.Ticks = result.Ticks
	meta.Metrics = result.Metrics

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, statesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	header := append([]string{"tick", "panel"}, rowstate.ColumnNames()...)
	header = append(header, "match")
	if err := w.Write(header); err != nil {
		return "", err
	}

	for tick, states := range result.States {
		match := tick < len(result.Matches) && result.Matches[tick]
		for panel, st := range states {
			row := []string{strconv.Itoa(tick), strconv.Itoa(panel)}
			for _, v := range st.Values() {
				row = append(row, strconv.Itoa(v))
			}
			row = append(row, strconv.FormatBool(match))
			if err := w.Write(row); err != nil {
				return "", err
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return meta.ID, nil
}

// List returns every readable run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadResult rebuilds the recorded states of a run. Metrics come from the
// run's metadata.
func (s *Store) LoadResult(runID string) (*sim.Result, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filepath.Join(s.baseDir, runID, statesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	result := &sim.Result{
		Ticks:   meta.Ticks,
		Metrics: meta.Metrics,
	}
	for _, p := range meta.Panels {
		result.Panels = append(result.Panels, p.Name)
	}
	if len(records) < 2 {
		return result, nil
	}

	for i, record := range records[1:] {
		if len(record) != 12 {
			return nil, fmt.Errorf("run %s: line %d has %d columns", runID, i+2, len(record))
		}
		tick, err := strconv.Atoi(record[0])
		if err != nil || tick < 0 {
			return nil, fmt.Errorf("run %s: line %d: bad tick %q", runID, i+2, record[0])
		}
		var v [9]int
		for j := range v {
			if v[j], err = strconv.Atoi(record[j+2]); err != nil {
				return nil, fmt.Errorf("run %s: line %d: %w", runID, i+2, err)
			}
		}
		match, _ := strconv.ParseBool(record[11])

		for len(result.States) <= tick {
			result.States = append(result.States, nil)
			result.Matches = append(result.Matches, match)
		}
		result.States[tick] = append(result.States[tick], rowstate.FromValues(v))
	}
	return result, nil
}

func PanelsFromSpecs(specs []sim.PanelSpec) []PanelMeta {
	out := make([]PanelMeta, len(specs))
	for i, p := range specs {
		out[i] = PanelMeta{Name: p.Name, Coupling: p.Coupling.String(), Init: p.Init}
	}
	return out
}
