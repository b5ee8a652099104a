package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/rowsim/internal/rowstate"
	"github.com/san-kum/rowsim/internal/sim"
)

func runResult(t *testing.T, ticks int) (sim.Config, *sim.Result) {
	t.Helper()
	start := rowstate.NewState(
		rowstate.NewTriple(-1, 0, 1),
		rowstate.NewTriple(-2, 1, 2),
		rowstate.NewTriple(-1, 0, 1),
	)
	cfg := sim.Config{Panels: []sim.PanelSpec{
		{Name: "left", Init: start, Coupling: rowstate.Clamped},
		{Name: "right", Init: start, Coupling: rowstate.UnclampedTop},
	}}
	session := sim.NewSession(cfg)
	defer session.Close()

	result, err := session.Run(context.Background(), ticks)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	result.Metrics["bounds"] = 0.75
	return cfg, result
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	cfg, result := runResult(t, 4)
	runID, err := st.Save(RunMetadata{Name: "drift", Panels: PanelsFromSpecs(cfg.Panels)}, result)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Name != "drift" || meta.Ticks != 4 {
		t.Errorf("unexpected metadata %+v", meta)
	}
	if len(meta.Panels) != 2 || meta.Panels[1].Coupling != "unclamped-top" {
		t.Errorf("panels = %+v", meta.Panels)
	}
	if meta.Metrics["bounds"] != 0.75 {
		t.Errorf("expected bounds 0.75, got %f", meta.Metrics["bounds"])
	}

	loaded, err := st.LoadResult(runID)
	if err != nil {
		t.Fatalf("load result failed: %v", err)
	}
	if len(loaded.States) != 5 {
		t.Fatalf("expected 5 recorded ticks, got %d", len(loaded.States))
	}
	for i := range result.States {
		for p := range result.States[i] {
			if loaded.States[i][p] != result.States[i][p] {
				t.Errorf("tick %d panel %d: got %s, want %s", i, p, loaded.States[i][p], result.States[i][p])
			}
		}
		if loaded.Matches[i] != result.Matches[i] {
			t.Errorf("tick %d: match %v, want %v", i, loaded.Matches[i], result.Matches[i])
		}
	}
	if loaded.Panels[0] != "left" {
		t.Errorf("panel names = %v", loaded.Panels)
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	_, result := runResult(t, 1)
	for i := 0; i < 2; i++ {
		if _, err := st.Save(RunMetadata{Name: "r"}, result); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID == runs[1].ID {
		t.Error("run ids collide")
	}
}

func TestStoreList_MissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "absent"))
	runs, err := st.List()
	if err != nil || len(runs) != 0 {
		t.Errorf("List on missing dir = %v, %v", runs, err)
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	_, result := runResult(t, 2)
	runID, err := st.Save(RunMetadata{Name: "files"}, result)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(tmpDir, runID, "states.csv"))
	if err != nil {
		t.Fatalf("states.csv not created: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if lines[0] != "tick,panel,top_min,top_pos,top_max,mid_min,mid_pos,mid_max,btm_min,btm_pos,btm_max,match" {
		t.Errorf("header = %q", lines[0])
	}
	// 3 recorded ticks, 2 panels each
	if len(lines) != 7 {
		t.Errorf("expected 7 lines, got %d", len(lines))
	}
	if lines[1] != "0,0,-1,0,1,-2,1,2,-1,0,1,true" {
		t.Errorf("first row = %q", lines[1])
	}

	if _, err := os.Stat(filepath.Join(tmpDir, runID, "metadata.json")); os.IsNotExist(err) {
		t.Error("metadata.json not created")
	}
}

func TestWriteJSON(t *testing.T) {
	cfg, result := runResult(t, 2)
	meta := RunMetadata{Name: "export", Panels: PanelsFromSpecs(cfg.Panels)}

	var buf bytes.Buffer
	if err := WriteJSON(&buf, NewExport(meta, result)); err != nil {
		t.Fatal(err)
	}

	var got ExportData
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got.Ticks != 2 || len(got.States) != 3 || len(got.Panels) != 2 {
		t.Errorf("unexpected export %+v", got)
	}
	if got.States[1][0].Top.Pos != 1 {
		t.Errorf("state after first tick = %s", got.States[1][0])
	}
}

func TestExportJSONFile(t *testing.T) {
	_, result := runResult(t, 1)
	path := filepath.Join(t.TempDir(), "out.json")
	if err := ExportJSON(path, RunMetadata{Name: "file"}, result); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("export file missing: %v", err)
	}
}
