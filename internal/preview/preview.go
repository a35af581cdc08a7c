// Package preview plots watermark tile grids so their coverage of a canvas
// can be inspected without rendering an image.
package preview

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/denysvitali/refgallery-watermark/pkg/watermark"
)

const plotWidth = 8 * vg.Inch

// Render writes a plot of every tile anchor of grid over the outline of a
// canvasWidth x canvasHeight canvas. The output format follows the
// extension of path (png, svg, pdf...). Y grows downwards as in image space.
func Render(path string, grid watermark.Grid, canvasWidth, canvasHeight int) error {
	if canvasWidth <= 0 || canvasHeight <= 0 {
		return fmt.Errorf("invalid canvas size %dx%d", canvasWidth, canvasHeight)
	}

	var positive, negative plotter.XYs
	grid.Each(func(pl watermark.Placement) {
		xy := plotter.XY{X: float64(pl.X), Y: -float64(pl.Y)}
		if pl.Rotation == watermark.RotateNegative {
			negative = append(negative, xy)
		} else {
			positive = append(positive, xy)
		}
	})

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%dx%d canvas, %d tiles", canvasWidth, canvasHeight, grid.Len())
	p.X.Label.Text = "x (px)"
	p.Y.Label.Text = "-y (px)"
	p.Add(plotter.NewGrid())

	w, h := float64(canvasWidth), float64(canvasHeight)
	outline, err := plotter.NewLine(plotter.XYs{
		{X: 0, Y: 0}, {X: w, Y: 0}, {X: w, Y: -h}, {X: 0, Y: -h}, {X: 0, Y: 0},
	})
	if err != nil {
		return fmt.Errorf("creating canvas outline: %w", err)
	}
	outline.LineStyle.Width = vg.Points(2)
	outline.LineStyle.Color = color.RGBA{R: 200, A: 255}
	p.Add(outline)
	p.Legend.Add("canvas", outline)

	if err := addAnchors(p, positive, "+30°", draw.PlusGlyph{}, color.RGBA{B: 200, A: 255}); err != nil {
		return err
	}
	if err := addAnchors(p, negative, "-30°", draw.CrossGlyph{}, color.RGBA{G: 150, A: 255}); err != nil {
		return err
	}

	height := min(max(plotWidth*vg.Length(h/w), 3*vg.Inch), 16*vg.Inch)
	if err := p.Save(plotWidth, height, path); err != nil {
		return fmt.Errorf("saving plot: %w", err)
	}
	return nil
}

func addAnchors(p *plot.Plot, xys plotter.XYs, label string, shape draw.GlyphDrawer, c color.Color) error {
	if len(xys) == 0 {
		return nil
	}
	scatter, err := plotter.NewScatter(xys)
	if err != nil {
		return fmt.Errorf("creating %s anchors: %w", label, err)
	}
	scatter.GlyphStyle.Shape = shape
	scatter.GlyphStyle.Color = c
	scatter.GlyphStyle.Radius = vg.Points(3)
	p.Add(scatter)
	p.Legend.Add(label, scatter)
	return nil
}
