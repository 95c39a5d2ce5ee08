package chart

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

var bandColor = color.RGBA{R: 84, G: 112, B: 198, A: 51}

// segments splits values into runs of consecutive non NaN points positioned at their index
func segments(vals []float64) []plotter.XYs {
	var segs []plotter.XYs
	var curr plotter.XYs
	for i, v := range vals {
		if math.IsNaN(v) {
			if len(curr) > 0 {
				segs = append(segs, curr)
				curr = nil
			}
			continue
		}
		curr = append(curr, plotter.XY{X: float64(i), Y: v})
	}
	if len(curr) > 0 {
		segs = append(segs, curr)
	}
	return segs
}

// ticks labels at most maxTicks evenly spaced points of the x axis
func ticks(labels []string, maxTicks int) []plot.Tick {
	step := max(1, (len(labels)+maxTicks-1)/maxTicks)
	tks := make([]plot.Tick, 0, len(labels))
	for i, label := range labels {
		if i%step != 0 {
			label = ""
		}
		tks = append(tks, plot.Tick{Value: float64(i), Label: label})
	}
	return tks
}

// bandPolygon traces the upper bound forward and the lower bound backward over the points where
// both are defined
func bandPolygon(b *Band) (plotter.XYs, error) {
	var upper, lower plotter.XYs
	for i := range b.Upper {
		if math.IsNaN(b.Upper[i]) || math.IsNaN(b.Lower[i]) {
			continue
		}
		upper = append(upper, plotter.XY{X: float64(i), Y: b.Upper[i]})
		lower = append(lower, plotter.XY{X: float64(i), Y: b.Lower[i]})
	}
	if len(upper) == 0 {
		return nil, ErrBandIncomplete
	}
	poly := make(plotter.XYs, 0, 2*len(upper))
	poly = append(poly, upper...)
	for i := len(lower) - 1; i >= 0; i-- {
		poly = append(poly, lower[i])
	}
	return poly, nil
}

// Plot converts the chart into a gonum plot. The x axis is the point index labeled with the
// chart labels.
func (c *Chart) Plot() (*plot.Plot, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	p := plot.New()
	p.Title.Text = c.Title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = c.XLabel
	p.Y.Label.Text = c.YLabel
	p.X.Tick.Marker = plot.ConstantTicks(ticks(c.Labels(), 12))
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	if c.Band != nil {
		pts, err := bandPolygon(c.Band)
		if err != nil {
			return nil, fmt.Errorf("%q, %w", c.Title, err)
		}
		poly, err := plotter.NewPolygon(pts)
		if err != nil {
			return nil, fmt.Errorf("unable to draw band, %w", err)
		}
		poly.Color = bandColor
		poly.LineStyle.Width = vg.Length(0)
		p.Add(poly)
		p.Legend.Add(c.Band.Name, poly)
	}

	for i, s := range c.Series {
		clr := plotutil.Color(i)
		switch s.Kind {
		case BarKind:
			vals := make(plotter.Values, len(s.Values))
			for j, v := range s.Values {
				if math.IsNaN(v) {
					v = 0
				}
				vals[j] = v
			}
			bars, err := plotter.NewBarChart(vals, vg.Points(6))
			if err != nil {
				return nil, fmt.Errorf("unable to draw %q bars, %w", s.Name, err)
			}
			bars.Color = clr
			bars.LineStyle.Width = vg.Length(0)
			p.Add(bars)
			p.Legend.Add(s.Name, bars)
		default:
			for j, seg := range segments(s.Values) {
				line, err := plotter.NewLine(seg)
				if err != nil {
					return nil, fmt.Errorf("unable to draw %q line, %w", s.Name, err)
				}
				line.Color = clr
				line.Width = vg.Points(1.5)
				if s.Dashed {
					line.Dashes = []vg.Length{vg.Points(5), vg.Points(5)}
				}
				p.Add(line)
				if j == 0 {
					p.Legend.Add(s.Name, line)
				}
			}
		}
	}
	return p, nil
}

// SavePNG writes every chart to its own png file in dir named after the chart title and returns
// the written paths
func SavePNG(dir string, cs []*Chart) ([]string, error) {
	if len(cs) == 0 {
		return nil, ErrNoCharts
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("unable to create chart directory, %w", err)
	}

	paths := make([]string, 0, len(cs))
	for _, c := range cs {
		p, err := c.Plot()
		if err != nil {
			return nil, err
		}
		path := filepath.Join(dir, c.Slug()+".png")
		if err := p.Save(10*vg.Inch, 5*vg.Inch, path); err != nil {
			return nil, fmt.Errorf("unable to save %s, %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
