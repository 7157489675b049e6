package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/avolkov/traceplot/internal/model"
)

func testConfig(t *testing.T, cacheEnabled bool) *model.Config {
	t.Helper()
	cfg := model.DefaultConfig()
	cfg.Cache.Enabled = cacheEnabled
	cfg.Cache.Dir = filepath.Join(t.TempDir(), "cache")
	cfg.Cache.MemoryTTL = time.Minute
	cfg.Cache.DiskTTL = time.Hour
	return cfg
}

const twoPhaseTrace = "Starting Phase 1\n" +
	"Time: 0\nPosition:\n│ 1000\n│ 0\n│ 0\nVelocity:\n│ 10\n│ 0\n│ 0\n" +
	"Starting Phase 2\n" +
	"Time: 10\nPosition:\n│ 2000\n│ 0\n│ 0\nVelocity:\n│ 20\n│ 0\n│ 0\n"

func TestPipeline_RunFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.log")
	if err := os.WriteFile(path, []byte(twoPhaseTrace), 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	p := NewPipeline(testConfig(t, false))
	result, err := p.Run(path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if result.FromCache {
		t.Error("Expected fresh parse with cache disabled")
	}
	if len(result.Export.Dataset.Phases) != 2 {
		t.Errorf("Expected 2 phases, got %d", len(result.Export.Dataset.Phases))
	}
	if result.Export.Summary.TotalRecords != 2 {
		t.Errorf("Expected 2 records in summary, got %d", result.Export.Summary.TotalRecords)
	}
}

func TestPipeline_CacheHitOnSecondRun(t *testing.T) {
	cfg := testConfig(t, true)

	p := NewPipeline(cfg)
	first, err := p.RunBlob(twoPhaseTrace)
	if err != nil {
		t.Fatalf("First run failed: %v", err)
	}
	if first.FromCache {
		t.Error("Expected first run to parse fresh")
	}

	// A new pipeline over the same config must hit the disk layer
	second, err := NewPipeline(cfg).RunBlob(twoPhaseTrace)
	if err != nil {
		t.Fatalf("Second run failed: %v", err)
	}
	if !second.FromCache {
		t.Error("Expected second run to be answered from cache")
	}
	if second.Export.Dataset.TotalRecords() != first.Export.Dataset.TotalRecords() {
		t.Errorf("Cached export differs: %d vs %d records",
			second.Export.Dataset.TotalRecords(), first.Export.Dataset.TotalRecords())
	}
}

func TestPipeline_ScaleChangeMissesCache(t *testing.T) {
	cfg := testConfig(t, true)

	if _, err := NewPipeline(cfg).RunBlob(twoPhaseTrace); err != nil {
		t.Fatalf("First run failed: %v", err)
	}

	cfg.Units.Scale = 1 // raw meters
	result, err := NewPipeline(cfg).RunBlob(twoPhaseTrace)
	if err != nil {
		t.Fatalf("Second run failed: %v", err)
	}
	if result.FromCache {
		t.Error("Expected different scale to bypass the cache")
	}
	if got := result.Export.Dataset.Phases[0].Records[0].Position.X; got != 1000 {
		t.Errorf("Expected unscaled position X 1000, got %v", got)
	}
}

func TestPipeline_ParseErrorSurfaces(t *testing.T) {
	p := NewPipeline(testConfig(t, true))

	_, err := p.RunBlob("Starting Phase 1\nTime: 1\nTime: 2\nPosition:\n│ 1\n│ 2\n│ 3\nVelocity:\n│ 1\n│ 2\n│ 3\n")
	if err == nil {
		t.Fatal("Expected misalignment error, got nil")
	}

	var perr *model.ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("Expected *model.ParseError through the pipeline, got %T: %v", err, err)
	}
	if perr.Kind != model.KindMisalignedRecords || perr.PhaseID != 1 {
		t.Errorf("Unexpected parse error: %+v", perr)
	}
}

func TestPipeline_RenderExportWritesConfiguredOutputs(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(t, false)

	p := NewPipeline(cfg)
	result, err := p.RunBlob(twoPhaseTrace)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	out := model.OutputConfig{
		JSONPath: filepath.Join(dir, "d.json"),
		CSVPath:  filepath.Join(dir, "d.csv"),
		YAMLPath: filepath.Join(dir, "d.yaml"),
	}
	if err := p.RenderExport(result.Export, out); err != nil {
		t.Fatalf("RenderExport failed: %v", err)
	}

	for _, path := range []string{out.JSONPath, out.CSVPath, out.YAMLPath} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("Expected output %s to exist: %v", path, err)
		}
	}
}
