// Package layout places text elements on the six surfaces of a
// packaging box without overlap. Placement is a best-effort visual
// arrangement: the engine never fails, it degrades to default
// placement for content it cannot handle.
package layout

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// ElementType identifies a kind of text element on the packaging.
// One element per type participates in a layout call.
type ElementType int

const (
	ProductName ElementType = iota
	Description
	Features
	Instructions
	Ingredients
	Regulatory
	Brand
	Warning
	Nutrition
	Sustainability
	Contact
	Barcode
	Recycling

	numElementTypes
)

var elementNames = map[ElementType]string{
	ProductName:    "product_name",
	Description:    "description",
	Features:       "features",
	Instructions:   "instructions",
	Ingredients:    "ingredients",
	Regulatory:     "regulatory",
	Brand:          "brand",
	Warning:        "warning",
	Nutrition:      "nutrition",
	Sustainability: "sustainability",
	Contact:        "contact",
	Barcode:        "barcode",
	Recycling:      "recycling",
}

func (t ElementType) String() string {
	if s, ok := elementNames[t]; ok {
		return s
	}
	return fmt.Sprintf("ElementType(%d)", int(t))
}

// Known reports whether t is one of the declared element types.
// Unknown types still receive a default placement.
func (t ElementType) Known() bool {
	return t >= 0 && t < numElementTypes
}

// ParseElementType converts an element type name to an ElementType.
func ParseElementType(s string) (ElementType, error) {
	for t, name := range elementNames {
		if name == s {
			return t, nil
		}
	}
	return Description, fmt.Errorf("unknown element type %q", s)
}

// Surface is one of the six faces of a rectangular box.
type Surface int

const (
	Front Surface = iota
	Back
	Top
	Bottom
	Left
	Right
)

// surfaceOrder is the fixed processing order for stacking. Front
// precedes Back so front overflow lands on a surface whose own stack
// accounts for the migrated element before it is processed.
var surfaceOrder = [6]Surface{Front, Back, Top, Bottom, Left, Right}

var surfaceNames = map[Surface]string{
	Front:  "front",
	Back:   "back",
	Top:    "top",
	Bottom: "bottom",
	Left:   "left",
	Right:  "right",
}

func (s Surface) String() string {
	if n, ok := surfaceNames[s]; ok {
		return n
	}
	return fmt.Sprintf("Surface(%d)", int(s))
}

// Extent returns the 2D size of the surface for a box of the given
// outer dimensions (width, height, depth): front/back are
// width x height, top/bottom width x depth, left/right depth x height.
func (s Surface) Extent(dims mgl64.Vec3) (w, h float64) {
	width, height, depth := dims.X(), dims.Y(), dims.Z()
	switch s {
	case Top, Bottom:
		return width, depth
	case Left, Right:
		return depth, height
	default:
		return width, height
	}
}

// overflow returns the surface an element migrates to when s is full.
func (s Surface) overflow() Surface {
	if s == Front {
		return Back
	}
	return Bottom
}

// Orientation is the text rotation on a surface, in degrees.
type Orientation int

const (
	Horizontal Orientation = 0
	Vertical   Orientation = 90
	Rotated180 Orientation = 180
	Rotated270 Orientation = 270
)

// Style is the visual styling of a text element.
type Style struct {
	FontSize float64 `json:"font_size"` // mm
	Weight   string  `json:"weight"`    // "normal" or "bold"
	Color    string  `json:"color"`     // hex, e.g. "#333333"
}

// defaultStyle is used for element types without a specific style and
// for unknown types.
var defaultStyle = Style{FontSize: 12, Weight: "normal", Color: "#000000"}

// defaultStyles carries the per-type styling defaults.
var defaultStyles = map[ElementType]Style{
	ProductName:  {FontSize: 24, Weight: "bold", Color: "#000000"},
	Description:  {FontSize: 12, Weight: "normal", Color: "#333333"},
	Features:     {FontSize: 14, Weight: "normal", Color: "#333333"},
	Instructions: {FontSize: 10, Weight: "normal", Color: "#333333"},
	Warning:      {FontSize: 12, Weight: "bold", Color: "#FF0000"},
	Regulatory:   {FontSize: 8, Weight: "normal", Color: "#333333"},
}

// StyleFor returns the default style for an element type.
func StyleFor(t ElementType) Style {
	if s, ok := defaultStyles[t]; ok {
		return s
	}
	return defaultStyle
}

// defaultSurfaces maps each element type to its home surface. Types
// not listed here (and unknown types) default to the back.
var defaultSurfaces = map[ElementType]Surface{
	ProductName: Front,
	Brand:       Front,
	Barcode:     Bottom,
	Recycling:   Bottom,
}

// SurfaceFor returns the default surface for an element type.
func SurfaceFor(t ElementType) Surface {
	if s, ok := defaultSurfaces[t]; ok {
		return s
	}
	return Back
}

// priority orders elements within a surface stack. Lower stacks first
// (closer to the top edge). Ties keep their insertion order.
func priority(t ElementType) int {
	switch t {
	case ProductName:
		return 1
	case Brand:
		return 2
	case Warning:
		return 3
	default:
		return 10
	}
}

// Content is the text of one element: either a single string or an
// ordered list of items (features, instruction steps) rendered as
// bullet lines.
type Content struct {
	Text  string   `json:"text,omitempty" toml:"text"`
	Items []string `json:"items,omitempty" toml:"items"`
}

// Render flattens the content to the final display string. Item lists
// become bullet lines.
func (c Content) Render() string {
	if len(c.Items) == 0 {
		return c.Text
	}
	return "• " + strings.Join(c.Items, "\n• ")
}

// Placement is the computed position of one element, in surface-local
// millimeters with the origin at the surface's top-left corner. X and
// Y locate the center of the text block.
type Placement struct {
	Element     ElementType `json:"element"`
	Surface     Surface     `json:"surface"`
	X           float64     `json:"x"`
	Y           float64     `json:"y"`
	Orientation Orientation `json:"orientation"`
	Style       Style       `json:"style"`
	Content     string      `json:"content"`
}
