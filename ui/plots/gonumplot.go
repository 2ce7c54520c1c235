
package plots

import (
	"image/color"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// lineColor of the plotted curve.
var lineColor = color.RGBA{R: 0x35, G: 0xC7, B: 0x88, A: 0xFF}

// SaveImage plots the curve with gonum's plot, and saves it to path, in the format given by its
// extension. Width and height are in inches.
func SaveImage(path string, curve *Curve, width, height float64) error {
	p := plot.New()
	p.Title.Text = curve.Title
	p.X.Label.Text = curve.XLabel
	p.Y.Label.Text = curve.YLabel
	p.Add(plotter.NewGrid())

	xys := make(plotter.XYs, len(curve.Points))
	for ii, point := range curve.Points {
		xys[ii].X, xys[ii].Y = point.Step, point.Value
	}
	line, err := plotter.NewLine(xys)
	if err != nil {
		return errors.Wrapf(err, "failed to create line for plot %q", curve.Title)
	}
	line.LineStyle.Color = lineColor
	line.LineStyle.Width = vg.Points(1.5)
	p.Add(line)
	if err := p.Save(vg.Length(width)*vg.Inch, vg.Length(height)*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "failed to save plot to %q", path)
	}
	return nil
}
