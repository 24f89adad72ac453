package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestIsLoadableTOMLPath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"conf.toml", true},
		{"CONF.TOML", true},
		{"conf.Toml", true},
		{"arcella.template.toml", false},
		{"arcella.TEMPLATE.toml", false},
		{"conf.yaml", false},
		{"conf.toml.bak", false},
		{"/abs/dir/settings.toml", true},
	}

	for _, tt := range tests {
		if got := isLoadableTOMLPath(tt.path); got != tt.want {
			t.Errorf("isLoadableTOMLPath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestResolveIncludePaths(t *testing.T) {
	base := "/etc/arcella/config"
	got := resolveIncludePaths([]string{
		"extra.toml",
		"/abs/other.toml",
		"extra.toml", // duplicate collapses
		"",
		"sub/../extra.toml", // cleans to a duplicate too
	}, base)

	want := []string{
		"/abs/other.toml",
		filepath.Join(base, "extra.toml"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("resolved paths mismatch (-want +got):\n%s", diff)
	}
}

func TestFindTOMLFilesInDirSortsCaseInsensitively(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "z.toml"), "")
	writeTestFile(t, filepath.Join(dir, "M.toml"), "")
	writeTestFile(t, filepath.Join(dir, "a.toml"), "")
	writeTestFile(t, filepath.Join(dir, "skip.template.toml"), "")
	writeTestFile(t, filepath.Join(dir, "notes.txt"), "")
	if err := os.MkdirAll(filepath.Join(dir, "nested"), 0o750); err != nil {
		t.Fatal(err)
	}
	writeTestFile(t, filepath.Join(dir, "nested", "inner.toml"), "")

	got, err := findTOMLFilesInDir(dir)
	if err != nil {
		t.Fatalf("findTOMLFilesInDir: %v", err)
	}

	want := []string{
		filepath.Join(dir, "a.toml"),
		filepath.Join(dir, "M.toml"),
		filepath.Join(dir, "z.toml"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("listing mismatch (-want +got):\n%s", diff)
	}
}

func TestCollectIncludesExpandsDirectories(t *testing.T) {
	dir := t.TempDir()
	confD := filepath.Join(dir, "conf.d")
	writeTestFile(t, filepath.Join(confD, "b.toml"), "")
	writeTestFile(t, filepath.Join(confD, "a.toml"), "")
	writeTestFile(t, filepath.Join(dir, "single.toml"), "")

	state := NewLoadState()
	got, err := collectIncludes([]string{"conf.d", "single.toml"}, dir, state)
	if err != nil {
		t.Fatalf("collectIncludes: %v", err)
	}

	want := []string{
		filepath.Join(confD, "a.toml"),
		filepath.Join(confD, "b.toml"),
		filepath.Join(dir, "single.toml"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("files mismatch (-want +got):\n%s", diff)
	}
	if len(state.Warnings()) != 0 {
		t.Errorf("unexpected warnings: %v", state.Warnings())
	}
}

func TestCollectIncludesSkipsInvalidEntries(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "good.toml"), "")
	writeTestFile(t, filepath.Join(dir, "readme.md"), "")

	state := NewLoadState()
	got, err := collectIncludes([]string{
		"good.toml",
		"missing.toml",
		"readme.md",
	}, dir, state)
	if err != nil {
		t.Fatalf("collectIncludes: %v", err)
	}

	want := []string{filepath.Join(dir, "good.toml")}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("files mismatch (-want +got):\n%s", diff)
	}

	warnings := state.Warnings()
	if len(warnings) != 2 {
		t.Fatalf("warnings = %v, want 2 skipped entries", warnings)
	}
	for _, w := range warnings {
		if _, ok := w.(SkippedInvalidFileWarning); !ok {
			t.Errorf("warning %T, want SkippedInvalidFileWarning", w)
		}
	}
}

func TestCollectIncludesDeduplicatesAcrossPatterns(t *testing.T) {
	dir := t.TempDir()
	confD := filepath.Join(dir, "conf.d")
	writeTestFile(t, filepath.Join(confD, "a.toml"), "")

	state := NewLoadState()
	// The directory expansion and the direct reference both name a.toml.
	got, err := collectIncludes([]string{"conf.d", "conf.d/a.toml"}, dir, state)
	if err != nil {
		t.Fatalf("collectIncludes: %v", err)
	}
	want := []string{filepath.Join(confD, "a.toml")}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("files mismatch (-want +got):\n%s", diff)
	}
}
