package layout

import (
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
)

// Stacking geometry, in mm.
const (
	topMargin    = 20 // first element starts this far from the top edge
	bottomMargin = 20 // stack positions past height-bottomMargin overflow
	elementGap   = 10 // vertical gap between stacked elements
)

// charWidthFactor approximates average glyph width as a fraction of
// the font size.
const charWidthFactor = 0.6

// lineHeightFactor converts font size to line height.
const lineHeightFactor = 1.2

// Engine computes text placements for a box. It holds no per-call
// state; a single Engine is safe for concurrent layout calls.
type Engine struct {
	Logger *log.Logger
}

// NewEngine returns an Engine. A nil logger falls back to the default
// logger.
func NewEngine(logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{Logger: logger}
}

// footprint is the estimated 2D space an element occupies.
type footprint struct {
	width  float64 // natural unwrapped width of the longest line
	height float64 // wrapped height on the assigned surface
}

// estimateFootprint approximates the space content needs at the given
// style on a surface of width surfaceW. Lines are estimated from
// content length over characters-per-line, plus one line per explicit
// break; height is lines times the line height.
func estimateFootprint(content string, style Style, surfaceW float64) footprint {
	charsPerLine := int(surfaceW / (style.FontSize * charWidthFactor))
	if charsPerLine < 1 {
		charsPerLine = 1
	}
	lines := float64(len(content))/float64(charsPerLine) + float64(strings.Count(content, "\n"))
	if lines < 1 {
		lines = 1
	}

	longest := 0
	for _, line := range strings.Split(content, "\n") {
		if len(line) > longest {
			longest = len(line)
		}
	}

	return footprint{
		width:  float64(longest) * style.FontSize * charWidthFactor,
		height: lines * style.FontSize * lineHeightFactor,
	}
}

// pending is one element waiting to be stacked on its surface.
type pending struct {
	element ElementType
	content string
	style   Style
	order   int // insertion order, for stable priority sorting
}

// Layout assigns each element a surface and position. For fixed inputs
// the output is fully deterministic: elements are visited in type
// order, stacked by fixed priority, and migrated along fixed overflow
// routes. Layout never fails; unknown element types get a centered
// back-surface placement.
func (e *Engine) Layout(dims mgl64.Vec3, content map[ElementType]Content) []Placement {
	// Deterministic visit order regardless of map iteration.
	types := make([]ElementType, 0, len(content))
	for t := range content {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	var placements []Placement
	bySurface := make(map[Surface][]pending)

	for order, t := range types {
		rendered := content[t].Render()
		if !t.Known() {
			// Best-effort degradation: centered on the back.
			w, h := Back.Extent(dims)
			e.Logger.Warn("unknown text element type, using default placement", "type", int(t))
			placements = append(placements, Placement{
				Element:     t,
				Surface:     Back,
				X:           w / 2,
				Y:           h / 2,
				Orientation: Horizontal,
				Style:       defaultStyle,
				Content:     rendered,
			})
			continue
		}
		s := SurfaceFor(t)
		bySurface[s] = append(bySurface[s], pending{
			element: t,
			content: rendered,
			style:   StyleFor(t),
			order:   order,
		})
	}

	// Per-surface fill height accumulator, threaded through both
	// normal stacking and overflow migration so every later element
	// sees space already claimed on its surface.
	fill := make(map[Surface]float64)
	for _, s := range surfaceOrder {
		fill[s] = topMargin
	}

	for _, s := range surfaceOrder {
		stack := bySurface[s]
		sort.SliceStable(stack, func(i, j int) bool {
			pi, pj := priority(stack[i].element), priority(stack[j].element)
			if pi != pj {
				return pi < pj
			}
			return stack[i].order < stack[j].order
		})

		for _, p := range stack {
			placements = append(placements, e.place(dims, s, p, fill))
		}
	}

	// Report in element-type order, not stacking order.
	sort.Slice(placements, func(i, j int) bool { return placements[i].Element < placements[j].Element })
	return placements
}

// place positions one element on surface s, migrating it to the
// overflow surface when s is full, and updates the fill accumulator
// for whichever surface finally hosts it.
func (e *Engine) place(dims mgl64.Vec3, s Surface, p pending, fill map[Surface]float64) Placement {
	surfW, surfH := s.Extent(dims)

	target := s
	if fill[s] > surfH-bottomMargin {
		target = s.overflow()
		e.Logger.Debug("text element migrated to overflow surface",
			"element", p.element.String(), "from", s.String(), "to", target.String())
		surfW, surfH = target.Extent(dims)
	}

	fp := estimateFootprint(p.content, p.style, surfW)

	// Side surfaces rotate wide text instead of migrating it.
	orientation := Horizontal
	if (target == Left || target == Right) && fp.width > surfW {
		orientation = Vertical
	}

	placement := Placement{
		Element:     p.element,
		Surface:     target,
		X:           surfW / 2,
		Y:           fill[target] + fp.height/2,
		Orientation: orientation,
		Style:       p.style,
		Content:     p.content,
	}
	fill[target] += fp.height + elementGap
	return placement
}
