package worker

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/avolkov/traceplot/internal/model"
	"github.com/avolkov/traceplot/internal/pipeline"
)

func writeTrace(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func batchParser(t *testing.T) Parser {
	t.Helper()
	cfg := model.DefaultConfig()
	cfg.Cache.Enabled = false
	return pipeline.NewPipeline(cfg)
}

const goodTrace = "Starting Phase 1\nTime: 10\nPosition:\n│ 100\n│ 200\n│ 300\nVelocity:\n│ 1\n│ 2\n│ 3\n"

func TestBatchProcessor_MixedResults(t *testing.T) {
	dir := t.TempDir()
	good := writeTrace(t, dir, "good.log", goodTrace)
	bad := writeTrace(t, dir, "bad.log", "Starting Phase 1\nTime: 1\nTime: 2\n"+
		"Position:\n│ 1\n│ 2\n│ 3\nVelocity:\n│ 1\n│ 2\n│ 3\n")
	missing := filepath.Join(dir, "missing.log")

	b := NewBatchProcessor(batchParser(t), 2)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	results := b.ProcessFiles(ctx, []string{good, bad, missing})
	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}

	byPath := make(map[string]*ParseResult)
	for _, r := range results {
		byPath[r.Path] = r
	}

	if r := byPath[good]; r.Error != nil {
		t.Errorf("Expected good trace to parse, got %v", r.Error)
	} else if r.Export.Dataset.TotalRecords() != 1 {
		t.Errorf("Expected 1 record from good trace, got %d", r.Export.Dataset.TotalRecords())
	}

	if byPath[bad].Error == nil {
		t.Error("Expected misaligned trace to fail its own result")
	}
	if byPath[missing].Error == nil {
		t.Error("Expected missing file to fail its own result")
	}
}

func TestBatchProcessor_EmptyInputList(t *testing.T) {
	b := NewBatchProcessor(batchParser(t), 2)
	results := b.ProcessFiles(context.Background(), nil)
	if len(results) != 0 {
		t.Errorf("Expected no results, got %d", len(results))
	}
}

func TestReadPathsFromFile(t *testing.T) {
	dir := t.TempDir()
	list := writeTrace(t, dir, "traces.txt",
		"# simulation runs\n\na.log\nb.log\na.log\n  c.log  \n")

	paths, err := ReadPathsFromFile(list)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	want := []string{"a.log", "b.log", "c.log"}
	if len(paths) != len(want) {
		t.Fatalf("Expected %d deduplicated paths, got %v", len(want), paths)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("Path %d: expected %q, got %q", i, want[i], paths[i])
		}
	}
}

func TestBatchProcessor_ProcessList(t *testing.T) {
	dir := t.TempDir()
	trace := writeTrace(t, dir, "run1.log", goodTrace)
	list := writeTrace(t, dir, "list.txt", trace+"\n")

	b := NewBatchProcessor(batchParser(t), 1)
	results, err := b.ProcessList(context.Background(), list)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(results) != 1 || results[0].Error != nil {
		t.Fatalf("Expected one successful result, got %+v", results)
	}
}
