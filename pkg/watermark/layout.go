package watermark

import "math"

// Font sizes are proportional to canvas width within these bounds.
const (
	MinFontSize = 24
	MaxFontSize = 72
)

// TileAngle is the rotation in degrees of the tiles; alternating tiles use -TileAngle.
const TileAngle = 30.0

const (
	spacingXFactor = 3
	spacingYFactor = 2.5
	// Margin columns and rows keep the edges covered despite the negative
	// starting offsets and the rotated tile extents.
	extraColumns = 2
	extraRows    = 6
	tilesPerCell = 3
)

// FontSizeForWidth returns round(width*36/1000) clamped to [MinFontSize, MaxFontSize].
func FontSizeForWidth(canvasWidth int) int {
	size := int(math.Round(float64(canvasWidth) * 36 / 1000))
	return min(max(size, MinFontSize), MaxFontSize)
}

// Rotation selects the pre-rotated tile used at a placement.
type Rotation int

const (
	RotatePositive Rotation = iota
	RotateNegative
)

// Angle returns the rotation in degrees, counter-clockwise.
func (r Rotation) Angle() float64 {
	if r == RotateNegative {
		return -TileAngle
	}
	return TileAngle
}

// Placement is the top-left position of one tile on the overlay.
type Placement struct {
	X, Y     int
	Rotation Rotation
}

// Grid is a repeating watermark layout for one canvas.
type Grid struct {
	TextWidth  int
	TextHeight int
	SpacingX   int
	SpacingY   float64
	NumX       int
	NumY       int
}

// NewGrid computes the layout covering a canvasWidth x canvasHeight canvas
// with tiles measured from a textWidth x textHeight bounding box.
func NewGrid(canvasWidth, canvasHeight, textWidth, textHeight int) Grid {
	textWidth, textHeight = max(textWidth, 1), max(textHeight, 1)
	spacingX := textWidth * spacingXFactor
	spacingY := float64(textHeight) * spacingYFactor

	return Grid{
		TextWidth:  textWidth,
		TextHeight: textHeight,
		SpacingX:   spacingX,
		SpacingY:   spacingY,
		NumX:       int(math.Ceil(float64(canvasWidth)/float64(spacingX))) + extraColumns,
		NumY:       int(math.Ceil(float64(canvasHeight)/spacingY)) + extraRows,
	}
}

// Len returns the number of placements Each visits.
func (g Grid) Len() int {
	return g.NumX * g.NumY * tilesPerCell
}

// Each calls fn for every placement, row by row. Each cell holds three tiles
// a third of SpacingX apart; the middle one uses the negative rotation.
func (g Grid) Each(fn func(Placement)) {
	third := g.SpacingX / tilesPerCell
	for i := 0; i < g.NumY; i++ {
		y := int(float64(i)*g.SpacingY - float64(g.TextHeight))
		for j := 0; j < g.NumX; j++ {
			baseX := j*g.SpacingX - g.TextWidth
			fn(Placement{X: baseX, Y: y, Rotation: RotatePositive})
			fn(Placement{X: baseX + third, Y: y, Rotation: RotateNegative})
			fn(Placement{X: baseX + 2*third, Y: y, Rotation: RotatePositive})
		}
	}
}
