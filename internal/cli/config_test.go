package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cartonry/cartonry/pkg/box"
	"github.com/cartonry/cartonry/pkg/holder"
	"github.com/cartonry/cartonry/pkg/layout"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "design.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(writeConfig(t, `product = "widget.stl"`))
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}

	if cfg.Product != "widget.stl" {
		t.Errorf("Product = %q, want %q", cfg.Product, "widget.stl")
	}
	if cfg.Box.Type != "standard" || cfg.Box.Padding != 10 || cfg.Box.WallThickness != 2 {
		t.Errorf("box defaults = %+v, want standard/10/2", cfg.Box)
	}
	if cfg.Holder.Type != "negative" || cfg.Holder.Padding != 2 || cfg.Holder.BaseThickness != 5 {
		t.Errorf("holder defaults = %+v, want negative/2/5", cfg.Holder)
	}

	bt, err := cfg.boxType()
	if err != nil || bt != box.Standard {
		t.Errorf("boxType() = (%v, %v), want (Standard, nil)", bt, err)
	}
	hs, err := cfg.holderSpec()
	if err != nil || hs.Type != holder.Negative {
		t.Errorf("holderSpec() = (%+v, %v), want negative holder", hs, err)
	}
}

func TestLoadConfigFull(t *testing.T) {
	cfg, err := loadConfig(writeConfig(t, `
product = "meshes/widget.stl"

[box]
type = "tray"
padding = 15.0
wall_thickness = 3.0

[box.constraints]
max_width = 250.0
max_volume = 1e6

[holder]
type = "cradle"
padding = 1.5
base_thickness = 4.0

[text.product_name]
text = "Widget Deluxe"

[text.features]
items = ["Cordless", "Rechargeable"]
`))
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}

	bt, err := cfg.boxType()
	if err != nil || bt != box.Tray {
		t.Errorf("boxType() = (%v, %v), want (Tray, nil)", bt, err)
	}
	if c := cfg.constraints(); c.MaxWidth != 250 || c.MaxVolume != 1e6 || c.MaxHeight != 0 {
		t.Errorf("constraints() = %+v, want MaxWidth 250, MaxVolume 1e6", c)
	}
	hs, err := cfg.holderSpec()
	if err != nil {
		t.Fatalf("holderSpec() error = %v", err)
	}
	if hs.Type != holder.Cradle || hs.Padding != 1.5 || hs.BaseThickness != 4 {
		t.Errorf("holderSpec() = %+v, want cradle/1.5/4", hs)
	}

	content, err := cfg.textContent()
	if err != nil {
		t.Fatalf("textContent() error = %v", err)
	}
	if got := content[layout.ProductName].Text; got != "Widget Deluxe" {
		t.Errorf("product_name text = %q, want %q", got, "Widget Deluxe")
	}
	if got := len(content[layout.Features].Items); got != 2 {
		t.Errorf("features item count = %d, want 2", got)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing product", `[box]` + "\n" + `padding = 10.0`},
		{"malformed toml", `product = `},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := loadConfig(writeConfig(t, tt.content)); err == nil {
				t.Error("loadConfig() error = nil, want error")
			}
		})
	}

	t.Run("missing file", func(t *testing.T) {
		if _, err := loadConfig(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
			t.Error("loadConfig() error = nil, want error")
		}
	})

	t.Run("unknown box type surfaces on use", func(t *testing.T) {
		cfg, err := loadConfig(writeConfig(t, "product = \"w.stl\"\n[box]\ntype = \"mailer\""))
		if err != nil {
			t.Fatalf("loadConfig() error = %v", err)
		}
		if _, err := cfg.boxType(); err == nil {
			t.Error("boxType() error = nil, want unknown type error")
		}
	})

	t.Run("unknown text element", func(t *testing.T) {
		cfg, err := loadConfig(writeConfig(t, "product = \"w.stl\"\n[text.tagline]\ntext = \"x\""))
		if err != nil {
			t.Fatalf("loadConfig() error = %v", err)
		}
		if _, err := cfg.textContent(); err == nil {
			t.Error("textContent() error = nil, want unknown element error")
		}
	})
}
