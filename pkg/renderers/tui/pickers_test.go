package tui

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMatchesFilter(t *testing.T) {
	cases := []struct {
		filter, path string
		want         bool
	}{
		{"*", "/tmp/any.txt", true},
		{"", "/tmp/any.txt", true},
		{"*.png", "/srv/logo.png", true},
		{"*.png", "/srv/logo.jpg", false},
		{"*.png; *.jpg", "/srv/logo.jpg", true},
	}
	for _, tc := range cases {
		if got := matchesFilter(tc.filter, tc.path); got != tc.want {
			t.Fatalf("matchesFilter(%q, %q) = %v", tc.filter, tc.path, got)
		}
	}
}

func TestSuggestPathsFiltersFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"logo.png", "logo.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o600); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "logos"), 0o700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	got := suggestPaths("*.png")(filepath.Join(dir, "logo"))
	want := []string{
		filepath.Join(dir, "logo.png"),
		filepath.Join(dir, "logos") + string(filepath.Separator),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("suggestions mismatch (-want +got):\n%s", diff)
	}
}

func TestValidatePath(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "report.txt")
	if err := os.WriteFile(file, nil, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := validatePath("*")(dir); err != nil {
		t.Fatalf("directories are accepted for *: %v", err)
	}
	if err := validatePath("*.png")(file); err == nil {
		t.Fatalf("expected filter mismatch")
	}
	if err := validatePath("*.png")(filepath.Join(dir, "missing.png")); err == nil {
		t.Fatalf("expected missing file error")
	}
	if err := validatePath("*.png")("  "); err != nil {
		t.Fatalf("blank answers cancel: %v", err)
	}
}

func TestColorPickerNormalisesAndCancels(t *testing.T) {
	driver := &stubDriver{inputs: []string{"1E88E5", ""}}
	r := newRenderer(t, WithPromptDriver(driver))
	picker := colorPicker{r: r}

	hex, ok, err := picker.PickColor(context.Background())
	if err != nil || !ok || hex != "#1e88e5" {
		t.Fatalf("pick = %q %v %v", hex, ok, err)
	}
	if _, ok, err := picker.PickColor(context.Background()); ok || err != nil {
		t.Fatalf("blank answer should cancel, got ok=%v err=%v", ok, err)
	}
	if got := driver.messages[0]; got != "Choose a colour" {
		t.Fatalf("message %q", got)
	}
	if err := validateHex("#zzz"); err == nil {
		t.Fatalf("expected invalid hex")
	}
}
