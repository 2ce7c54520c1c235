
package plots

import (
	"bytes"
	"io"
	"os"

	mg "github.com/erkkah/margaid"
	"github.com/pkg/errors"
)

// RenderSVG renders the curve as an SVG diagram into w.
func RenderSVG(w io.Writer, curve *Curve, width, height int) error {
	series := mg.NewSeries(mg.Titled(curve.YLabel))
	for _, point := range curve.Points {
		series.Add(mg.MakeValue(point.Step, point.Value))
	}
	diagram := mg.New(width, height,
		mg.WithAutorange(mg.XAxis, series),
		mg.WithProjection(mg.XAxis, mg.Lin),
		mg.WithAutorange(mg.YAxis, series),
		mg.WithProjection(mg.YAxis, mg.Lin),
		mg.WithInset(70),
		mg.WithPadding(2),
		mg.WithColorScheme(90),
		mg.WithBackgroundColor("#f8f8f8"),
	)
	diagram.Line(series, mg.UsingAxes(mg.XAxis, mg.YAxis), mg.UsingStrokeWidth(2))
	diagram.Axis(series, mg.XAxis, diagram.ValueTicker('f', 0, 10), false, curve.XLabel)
	diagram.Axis(series, mg.YAxis, diagram.ValueTicker('f', 3, 10), true, curve.YLabel)
	diagram.Frame()
	if curve.Title != "" {
		diagram.Title(curve.Title)
	}
	return errors.Wrapf(diagram.Render(w), "failed to render plot %q", curve.Title)
}

// SaveSVG renders the curve as SVG and writes it to path.
func SaveSVG(path string, curve *Curve, width, height int) error {
	buf := bytes.NewBuffer(nil)
	if err := RenderSVG(buf, curve, width, height); err != nil {
		return err
	}
	return errors.Wrapf(os.WriteFile(path, buf.Bytes(), 0o644), "failed to write plot to %q", path)
}
