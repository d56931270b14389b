package scanner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/devpurge/devpurge/purge"
)

func writeFile(t *testing.T, path string, size int) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, make([]byte, size), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func openRoot(t *testing.T, dir string) *os.Root {
	t.Helper()
	root, err := os.OpenRoot(dir)
	if err != nil {
		t.Fatalf("open root: %v", err)
	}
	t.Cleanup(func() { root.Close() })
	return root
}

func runScan(t *testing.T, opts Options) ([]FoundItem, *purge.ScanSummary) {
	t.Helper()
	var items []FoundItem
	s := New(opts, zerolog.Nop(), func(item FoundItem) { items = append(items, item) })
	summary, err := s.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return items, summary
}

func TestScannerFindsTargets(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "app", "node_modules", "left-pad", "index.js"), 100)
	writeFile(t, filepath.Join(dir, "app", "node_modules", "lodash", "lodash.js"), 400)
	writeFile(t, filepath.Join(dir, "svc", "target", "debug", "svc"), 2048)
	writeFile(t, filepath.Join(dir, "svc", "src", "main.rs"), 10)

	opts := Options{
		Root:       dir,
		RootHandle: openRoot(t, dir),
		Targets:    BuildTargetMap(nil, nil),
		SkipDirs:   DefaultSkipDirs(),
	}
	items, summary := runScan(t, opts)

	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	byPath := map[string]FoundItem{}
	for _, item := range items {
		byPath[item.RelPath] = item
	}

	nm, ok := byPath[filepath.Join("app", "node_modules")]
	if !ok {
		t.Fatal("node_modules not found")
	}
	if nm.Bytes != 500 {
		t.Errorf("node_modules size = %d, want 500", nm.Bytes)
	}
	if nm.Category != "node" {
		t.Errorf("category = %q, want node", nm.Category)
	}
	if nm.Kind != KindArtifact {
		t.Errorf("kind = %v, want artifact", nm.Kind)
	}

	if _, ok := byPath[filepath.Join("svc", "target")]; !ok {
		t.Fatal("target dir not found")
	}
	if summary.Found != 2 {
		t.Errorf("summary.Found = %d, want 2", summary.Found)
	}
}

func TestScannerDoesNotDescendIntoTargets(t *testing.T) {
	dir := t.TempDir()
	// A target nested inside another target must not be reported twice.
	writeFile(t, filepath.Join(dir, "node_modules", "pkg", "node_modules", "dep", "a.js"), 10)

	opts := Options{
		Root:       dir,
		RootHandle: openRoot(t, dir),
		Targets:    BuildTargetMap(nil, nil),
		SkipDirs:   DefaultSkipDirs(),
	}
	items, _ := runScan(t, opts)

	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].RelPath != "node_modules" {
		t.Errorf("path = %q, want node_modules", items[0].RelPath)
	}
}

func TestScannerSkipsVCSDirs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".git", "node_modules", "x"), 10)

	opts := Options{
		Root:       dir,
		RootHandle: openRoot(t, dir),
		Targets:    BuildTargetMap(nil, nil),
		SkipDirs:   DefaultSkipDirs(),
	}
	items, _ := runScan(t, opts)

	if len(items) != 0 {
		t.Fatalf("expected no items under .git, got %d", len(items))
	}
}

func TestScannerRespectsMaxDepth(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a", "b", "c", "node_modules", "x.js"), 10)
	writeFile(t, filepath.Join(dir, "dist", "bundle.js"), 10)

	opts := Options{
		Root:       dir,
		RootHandle: openRoot(t, dir),
		Targets:    BuildTargetMap(nil, nil),
		MaxDepth:   1,
		SkipDirs:   DefaultSkipDirs(),
	}
	items, _ := runScan(t, opts)

	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].RelPath != "dist" {
		t.Errorf("path = %q, want dist", items[0].RelPath)
	}
}

func TestScannerNilRootHandle(t *testing.T) {
	s := New(Options{}, zerolog.Nop(), nil)
	if _, err := s.Run(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil root handle")
	}
}

func TestScannerReportsCategoryAsDetails(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "node_modules", "a.js"), 10)

	tracker := purge.NewTracker()
	opts := Options{
		Root:       dir,
		RootHandle: openRoot(t, dir),
		Targets:    BuildTargetMap(nil, nil),
		SkipDirs:   DefaultSkipDirs(),
	}
	s := New(opts, zerolog.Nop(), nil)
	if _, err := s.Run(context.Background(), tracker); err != nil {
		t.Fatalf("Run: %v", err)
	}

	latest, ok := tracker.Latest()
	if !ok {
		t.Fatal("no progress reported")
	}
	if latest.Details != "Node" {
		t.Errorf("details = %q, want Node", latest.Details)
	}
	if !latest.Indeterminate() {
		t.Error("scan progress should be indeterminate")
	}
}

func TestBuildTargetMap(t *testing.T) {
	targets := BuildTargetMap([]string{"my_cache", ""}, []string{"vendor"})

	if _, ok := targets["vendor"]; ok {
		t.Error("excluded target still present")
	}
	custom, ok := targets["my_cache"]
	if !ok {
		t.Fatal("included target missing")
	}
	if custom.Category != "custom" {
		t.Errorf("category = %q, want custom", custom.Category)
	}
}

func TestParseTargetList(t *testing.T) {
	got := ParseTargetList(" a, b ,,c ")
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSortedTargetNames(t *testing.T) {
	names := SortedTargetNames(map[string]TargetDef{
		"b": {Name: "b"},
		"a": {Name: "a"},
	})
	if names[0] != "a" || names[1] != "b" {
		t.Errorf("names not sorted: %v", names)
	}
}
