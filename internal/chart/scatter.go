// Package chart draws the per-cluster scatter panels of a segmentation run.
package chart

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"sort"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// ErrNoPoints is returned when there is nothing to draw.
var ErrNoPoints = errors.New("chart: no points")

// Point is one customer as drawn: its cluster and raw feature values.
type Point struct {
	Cluster   int
	Monetary  float64
	Frequency float64
	Recency   float64
}

// Options sets the image geometry. Zero values fall back to a 15x5 inch image at 100 dpi.
type Options struct {
	Width  vg.Length
	Height vg.Length
	DPI    int
	Alpha  float64
}

type feature struct {
	name   string
	ylabel string
	value  func(Point) float64
}

var features = []feature{
	{name: "Monetary", ylabel: "Amount", value: func(p Point) float64 { return p.Monetary }},
	{name: "Frequency", ylabel: "Frequency", value: func(p Point) float64 { return p.Frequency }},
	{name: "Recency", ylabel: "Recency", value: func(p Point) float64 { return p.Recency }},
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = 15 * vg.Inch
	}
	if o.Height <= 0 {
		o.Height = 5 * vg.Inch
	}
	if o.DPI <= 0 {
		o.DPI = 100
	}
	if o.Alpha <= 0 || o.Alpha > 1 {
		o.Alpha = 0.7
	}
	return o
}

// RenderPNG draws Monetary, Frequency and Recency side by side, x = cluster id,
// one colored series per cluster, and writes the image as PNG.
func RenderPNG(w io.Writer, points []Point, opts Options) error {
	if len(points) == 0 {
		return ErrNoPoints
	}
	opts = opts.withDefaults()
	clusters := clusterIDs(points)

	row := make([]*plot.Plot, len(features))
	for j, f := range features {
		p, err := panel(f, points, clusters, opts.Alpha)
		if err != nil {
			return err
		}
		row[j] = p
	}

	img := vgimg.NewWith(vgimg.UseWH(opts.Width, opts.Height), vgimg.UseDPI(opts.DPI))
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows:      1,
		Cols:      len(features),
		PadX:      vg.Millimeter * 6,
		PadTop:    vg.Millimeter * 2,
		PadBottom: vg.Millimeter * 2,
		PadLeft:   vg.Millimeter * 2,
		PadRight:  vg.Millimeter * 2,
	}
	plots := [][]*plot.Plot{row}
	canvases := plot.Align(plots, tiles, dc)
	for j := range row {
		row[j].Draw(canvases[0][j])
	}

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(w); err != nil {
		return fmt.Errorf("chart: write png: %w", err)
	}
	return nil
}

func panel(f feature, points []Point, clusters []int, alpha float64) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = f.name
	p.X.Label.Text = "cluster_id"
	p.Y.Label.Text = f.ylabel
	p.Legend.Top = true

	ticks := make([]plot.Tick, len(clusters))
	for n, c := range clusters {
		ticks[n] = plot.Tick{Value: float64(c), Label: strconv.Itoa(c)}

		var xys plotter.XYs
		for _, pt := range points {
			if pt.Cluster == c {
				xys = append(xys, plotter.XY{X: float64(c), Y: f.value(pt)})
			}
		}
		s, err := plotter.NewScatter(xys)
		if err != nil {
			return nil, fmt.Errorf("chart: %s cluster %d: %w", f.name, c, err)
		}
		s.GlyphStyle.Color = fade(plotutil.Color(n), alpha)
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		s.GlyphStyle.Radius = vg.Points(4)
		p.Add(s)
		p.Legend.Add(fmt.Sprintf("Cluster %d", c), s)
	}
	p.X.Tick.Marker = plot.ConstantTicks(ticks)
	p.X.Min = float64(clusters[0]) - 0.5
	p.X.Max = float64(clusters[len(clusters)-1]) + 0.5
	return p, nil
}

func clusterIDs(points []Point) []int {
	seen := make(map[int]struct{})
	var ids []int
	for _, p := range points {
		if _, ok := seen[p.Cluster]; !ok {
			seen[p.Cluster] = struct{}{}
			ids = append(ids, p.Cluster)
		}
	}
	sort.Ints(ids)
	return ids
}

func fade(c color.Color, alpha float64) color.Color {
	r, g, b, _ := c.RGBA()
	return color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(alpha * 255)}
}
