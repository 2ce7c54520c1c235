
// Package plots saves training curves (e.g. the mean loss per epoch) to image files.
//
// SVG files are rendered with margaid, other formats (PNG, PDF, JPEG, EPS, TIFF) with
// gonum's plot package.
package plots

import (
	"math"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Point represents one value of a training curve.
type Point struct {
	// Step is the x-axis value, typically the epoch or the global step.
	Step float64

	// Value is the metric captured at Step.
	Value float64
}

// Curve is a titled series of points to plot.
type Curve struct {
	Title  string
	XLabel string
	YLabel string
	Points []Point
}

// LossCurve creates a Curve with one point per epoch, skipping NaN and infinite values.
func LossCurve(title string, losses []float32) *Curve {
	curve := &Curve{Title: title, XLabel: "Epochs", YLabel: "Loss"}
	for epoch, loss := range losses {
		value := float64(loss)
		if math.IsNaN(value) || math.IsInf(value, 0) {
			continue
		}
		curve.Points = append(curve.Points, Point{Step: float64(epoch), Value: value})
	}
	return curve
}

// Default image sizes, in pixels for SVG and in inches for the other formats.
var (
	SVGWidth, SVGHeight     = 1024, 400
	ImageWidth, ImageHeight = 8.0, 4.0
)

// SaveLoss saves the curve of losses (one per epoch) to path. The format is given by the
// extension of path: ".svg" or one of the image formats supported by gonum's plot (".png",
// ".pdf", ".jpg", ".eps", ".tif").
func SaveLoss(path, title string, losses []float32) error {
	return Save(path, LossCurve(title, losses))
}

// Save the curve to path. See SaveLoss for the formats supported.
func Save(path string, curve *Curve) error {
	if len(curve.Points) == 0 {
		return errors.Errorf("plots.Save(%q): no points to plot", path)
	}
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".svg":
		return SaveSVG(path, curve, SVGWidth, SVGHeight)
	case ".png", ".pdf", ".jpg", ".jpeg", ".eps", ".tif", ".tiff":
		return SaveImage(path, curve, ImageWidth, ImageHeight)
	default:
		return errors.Errorf("plots.Save(%q): unsupported file extension %q", path, ext)
	}
}
