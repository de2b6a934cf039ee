package cli

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/cartonry/cartonry/pkg/box"
	"github.com/cartonry/cartonry/pkg/holder"
	"github.com/cartonry/cartonry/pkg/layout"
)

// designConfig is the TOML design request. A minimal file only names
// the product mesh; everything else has a default.
//
//	product = "widget.stl"
//
//	[box]
//	type = "standard"
//	padding = 10.0
//	wall_thickness = 2.0
//
//	[box.constraints]
//	max_width = 250.0
//
//	[holder]
//	type = "negative"
//	padding = 2.0
//	base_thickness = 5.0
//
//	[text.product_name]
//	text = "Widget Deluxe"
//
//	[text.features]
//	items = ["Cordless", "Rechargeable"]
type designConfig struct {
	Product string                `toml:"product"`
	Box     boxConfig             `toml:"box"`
	Holder  holdConfig            `toml:"holder"`
	Text    map[string]textConfig `toml:"text"`
}

type boxConfig struct {
	Type          string           `toml:"type"`
	Padding       float64          `toml:"padding"`
	WallThickness float64          `toml:"wall_thickness"`
	Constraints   constraintConfig `toml:"constraints"`
}

type constraintConfig struct {
	MaxWidth  float64 `toml:"max_width"`
	MaxHeight float64 `toml:"max_height"`
	MaxDepth  float64 `toml:"max_depth"`
	MaxVolume float64 `toml:"max_volume"`
}

type holdConfig struct {
	Type          string  `toml:"type"`
	Padding       float64 `toml:"padding"`
	BaseThickness float64 `toml:"base_thickness"`
}

type textConfig struct {
	Text  string   `toml:"text"`
	Items []string `toml:"items"`
}

// configDefaults mirror a typical small-product design request, in mm.
const (
	defaultPadding       = 10.0
	defaultWallThickness = 2.0
	defaultHolderPadding = 2.0
	defaultBaseThickness = 5.0
)

// loadConfig reads and validates a design request file.
func loadConfig(path string) (*designConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := &designConfig{
		Box: boxConfig{
			Type:          box.Standard.String(),
			Padding:       defaultPadding,
			WallThickness: defaultWallThickness,
		},
		Holder: holdConfig{
			Type:          holder.Negative.String(),
			Padding:       defaultHolderPadding,
			BaseThickness: defaultBaseThickness,
		},
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Product == "" {
		return nil, fmt.Errorf("config %s: missing product mesh path", path)
	}
	return cfg, nil
}

// boxType parses the configured box type.
func (c *designConfig) boxType() (box.Type, error) {
	return box.ParseType(c.Box.Type)
}

// holderSpec builds the holder spec from the config.
func (c *designConfig) holderSpec() (holder.Spec, error) {
	t, err := holder.ParseType(c.Holder.Type)
	if err != nil {
		return holder.Spec{}, err
	}
	return holder.Spec{
		Type:          t,
		Padding:       c.Holder.Padding,
		BaseThickness: c.Holder.BaseThickness,
	}, nil
}

// constraints builds the optimizer constraints from the config.
func (c *designConfig) constraints() box.Constraints {
	return box.Constraints{
		MaxWidth:  c.Box.Constraints.MaxWidth,
		MaxHeight: c.Box.Constraints.MaxHeight,
		MaxDepth:  c.Box.Constraints.MaxDepth,
		MaxVolume: c.Box.Constraints.MaxVolume,
	}
}

// textContent converts the [text] table into layout content keyed by
// element type. Unknown element names are rejected so typos in a
// config file surface immediately.
func (c *designConfig) textContent() (map[layout.ElementType]layout.Content, error) {
	if len(c.Text) == 0 {
		return nil, nil
	}
	content := make(map[layout.ElementType]layout.Content, len(c.Text))
	for name, tc := range c.Text {
		et, err := layout.ParseElementType(name)
		if err != nil {
			return nil, fmt.Errorf("config [text.%s]: %w", name, err)
		}
		content[et] = layout.Content{Text: tc.Text, Items: tc.Items}
	}
	return content, nil
}
