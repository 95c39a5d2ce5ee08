package chart

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const (
	bandStack     = "band"
	bandAreaColor = "rgba(84, 112, 198, 0.2)"
	hiddenColor   = "rgba(0, 0, 0, 0)"
)

func globalOpts(c *Chart) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: c.Title}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: c.XLabel}),
		charts.WithYAxisOpts(opts.YAxis{Name: c.YLabel}),
	}
}

func lineData(vals []float64) []opts.LineData {
	data := make([]opts.LineData, 0, len(vals))
	for _, v := range vals {
		if math.IsNaN(v) {
			data = append(data, opts.LineData{Value: "-"})
			continue
		}
		data = append(data, opts.LineData{Value: v})
	}
	return data
}

func barData(vals []float64) []opts.BarData {
	data := make([]opts.BarData, 0, len(vals))
	for _, v := range vals {
		if math.IsNaN(v) {
			data = append(data, opts.BarData{Value: "-"})
			continue
		}
		data = append(data, opts.BarData{Value: v})
	}
	return data
}

// addLines adds every line series and the band to an echarts line chart. The band is drawn as
// an invisible lower series with the upper minus lower difference stacked and filled above it.
func addLines(line *charts.Line, c *Chart) {
	for _, s := range c.Series {
		if s.Kind != LineKind {
			continue
		}
		var seriesOpts []charts.SeriesOpts
		if s.Dashed {
			seriesOpts = append(seriesOpts, charts.WithLineStyleOpts(opts.LineStyle{Type: "dashed"}))
		}
		line.AddSeries(s.Name, lineData(s.Values), seriesOpts...)
	}

	if c.Band == nil {
		return
	}
	width := make([]float64, len(c.Band.Upper))
	for i := range width {
		width[i] = c.Band.Upper[i] - c.Band.Lower[i]
	}
	line.AddSeries(c.Band.Name+" lower", lineData(c.Band.Lower),
		charts.WithLineChartOpts(opts.LineChart{Stack: bandStack}),
		charts.WithLineStyleOpts(opts.LineStyle{Color: hiddenColor}),
	)
	line.AddSeries(c.Band.Name, lineData(width),
		charts.WithLineChartOpts(opts.LineChart{Stack: bandStack}),
		charts.WithLineStyleOpts(opts.LineStyle{Color: hiddenColor}),
		charts.WithAreaStyleOpts(opts.AreaStyle{Color: bandAreaColor}),
	)
}

// ECharts converts the chart into an echarts bar chart when it holds any bar series and a line
// chart otherwise. Line series on a bar chart are overlapped on the bars.
func (c *Chart) ECharts() (components.Charter, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	labels := c.Labels()

	line := charts.NewLine()
	line.SetGlobalOptions(globalOpts(c)...)
	line.SetXAxis(labels)
	addLines(line, c)

	if !c.hasBars() {
		return line, nil
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(globalOpts(c)...)
	bar.SetXAxis(labels)
	for _, s := range c.Series {
		if s.Kind == BarKind {
			bar.AddSeries(s.Name, barData(s.Values))
		}
	}
	if c.Band != nil || len(c.Series) > c.numBars() {
		bar.Overlap(line)
	}
	return bar, nil
}

// RenderHTML writes all charts to a single echarts page
func RenderHTML(w io.Writer, pageTitle string, cs []*Chart) error {
	if len(cs) == 0 {
		return ErrNoCharts
	}
	page := components.NewPage()
	page.PageTitle = pageTitle
	for _, c := range cs {
		ec, err := c.ECharts()
		if err != nil {
			return fmt.Errorf("unable to build echarts chart, %w", err)
		}
		page.AddCharts(ec)
	}
	return page.Render(w)
}

// SaveHTML renders the charts to path, creating any missing parent directories
func SaveHTML(path, pageTitle string, cs []*Chart) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("unable to create chart directory, %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := RenderHTML(file, pageTitle, cs); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
