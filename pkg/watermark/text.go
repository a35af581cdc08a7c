package watermark

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// MeasureText returns the tight pixel bounding box of s rendered with face.
// Both dimensions are at least 1.
func MeasureText(face font.Face, s string) (width, height int) {
	b, _ := font.BoundString(face, s)
	width = b.Max.X.Ceil() - b.Min.X.Floor()
	height = b.Max.Y.Ceil() - b.Min.Y.Floor()
	return max(width, 1), max(height, 1)
}

// textDot returns the baseline origin that puts the top-left corner of the
// bounding box of s at topLeft.
func textDot(face font.Face, s string, topLeft image.Point) image.Point {
	b, _ := font.BoundString(face, s)
	return image.Pt(topLeft.X-b.Min.X.Floor(), topLeft.Y-b.Min.Y.Floor())
}

// DrawOutlinedText composites a hollow outline of s onto dst, with the text's
// bounding box at topLeft. The stroke is thickness pixels wide; col.A is the
// opacity of the outline.
func DrawOutlinedText(dst draw.Image, face font.Face, s string, topLeft image.Point, col color.NRGBA, thickness int) {
	bounds := dst.Bounds()
	dot := textDot(face, s, topLeft)

	stroke := image.NewNRGBA(bounds)
	d := &font.Drawer{
		Dst:  stroke,
		Src:  image.NewUniform(color.NRGBA{R: col.R, G: col.G, B: col.B, A: 0xff}),
		Face: face,
	}
	for dy := -thickness; dy <= thickness; dy++ {
		for dx := -thickness; dx <= thickness; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			d.Dot = fixed.P(dot.X+dx, dot.Y+dy)
			d.DrawString(s)
		}
	}

	mask := image.NewAlpha(bounds)
	m := &font.Drawer{
		Dst:  mask,
		Src:  image.Opaque,
		Face: face,
		Dot:  fixed.P(dot.X, dot.Y),
	}
	m.DrawString(s)

	subtractAlpha(stroke, mask)

	draw.DrawMask(dst, bounds, stroke, bounds.Min, image.NewUniform(color.Alpha{A: col.A}), image.Point{}, draw.Over)
}

// subtractAlpha clears the glyph interior out of the stroke layer. Both
// images must share bounds.
func subtractAlpha(layer *image.NRGBA, mask *image.Alpha) {
	b := layer.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			m := mask.Pix[mask.PixOffset(x, y)]
			if m == 0 {
				continue
			}
			i := layer.PixOffset(x, y)
			a := layer.Pix[i+3]
			if m >= a {
				layer.Pix[i], layer.Pix[i+1], layer.Pix[i+2], layer.Pix[i+3] = 0, 0, 0, 0
				continue
			}
			layer.Pix[i+3] = a - m
		}
	}
}
