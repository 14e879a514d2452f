package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nbmap/nbmap/pkg/render/mapview"
)

func writeTheme(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "theme.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write theme: %v", err)
	}
	return path
}

func TestLoadTheme(t *testing.T) {
	path := writeTheme(t, `
width = 1200
fill_color = "#f5f0e8"
link_color = "#bc4749"
nodes = "numeric"
`)
	theme, err := loadTheme(path)
	if err != nil {
		t.Fatalf("loadTheme() error = %v", err)
	}
	if theme.Width != 1200 || theme.FillColor != "#f5f0e8" || theme.Nodes != "numeric" {
		t.Errorf("theme = %+v, want parsed values", theme)
	}
}

func TestLoadThemeBadNodes(t *testing.T) {
	path := writeTheme(t, `nodes = "sparkles"`)
	if _, err := loadTheme(path); err == nil || !strings.Contains(err.Error(), "invalid nodes mode") {
		t.Errorf("loadTheme() error = %v, want invalid nodes mode", err)
	}
}

func TestLoadThemeMissingFile(t *testing.T) {
	if _, err := loadTheme(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("loadTheme() should fail for a missing file")
	}
}

func TestThemeApplyKeepsExplicitValues(t *testing.T) {
	th := &theme{
		Width:     1200,
		LinkColor: "#bc4749",
		Nodes:     "numeric",
	}

	// Explicit flags win over the theme
	opts := th.apply(mapview.Options{Width: 640, Nodes: "point"})
	if opts.Width != 640 {
		t.Errorf("Width = %d, explicit flag should win", opts.Width)
	}
	if opts.Nodes != "point" {
		t.Errorf("Nodes = %q, explicit flag should win", opts.Nodes)
	}
	if opts.LinkColor != "#bc4749" {
		t.Errorf("LinkColor = %q, theme should fill unset fields", opts.LinkColor)
	}

	// Unset fields take the theme values
	opts = th.apply(mapview.Options{})
	if opts.Width != 1200 || opts.Nodes != "numeric" {
		t.Errorf("opts = %+v, theme should fill zero values", opts)
	}
}
