// Package chart describes simple time and lag charts once and renders them either as an
// interactive echarts page or as static png images.
package chart

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrNoAxis         = errors.New("chart has no x axis")
	ErrSeriesLength   = errors.New("series length does not match x axis")
	ErrNoCharts       = errors.New("no charts to render")
	ErrUnknownFormat  = errors.New("unknown chart format")
	ErrBandIncomplete = errors.New("band needs both lower and upper values")
)

// Kind is the mark used to draw a series
type Kind int

const (
	LineKind Kind = iota
	BarKind
)

// Format is an output format for a set of charts
type Format string

const (
	HTMLFormat Format = "html"
	PNGFormat  Format = "png"
)

// Series is a named set of values aligned with the chart x axis. NaN values are left as gaps.
type Series struct {
	Name   string
	Kind   Kind
	Values []float64
	Dashed bool
}

// Band shades the area between Lower and Upper
type Band struct {
	Name  string
	Lower []float64
	Upper []float64
}

// Chart is a renderer independent description of a single plot. The x axis is either a set of
// month starts or a set of category labels such as lags.
type Chart struct {
	Title      string
	XLabel     string
	YLabel     string
	Times      []time.Time
	Categories []string
	Series     []Series
	Band       *Band
}

// NewTimeChart returns a chart over the given time points
func NewTimeChart(title, xLabel, yLabel string, t []time.Time) *Chart {
	return &Chart{
		Title:  title,
		XLabel: xLabel,
		YLabel: yLabel,
		Times:  t,
	}
}

// NewCategoryChart returns a chart over the given labels
func NewCategoryChart(title, xLabel, yLabel string, categories []string) *Chart {
	return &Chart{
		Title:      title,
		XLabel:     xLabel,
		YLabel:     yLabel,
		Categories: categories,
	}
}

// AddLine appends a line series
func (c *Chart) AddLine(name string, values []float64, dashed bool) *Chart {
	c.Series = append(c.Series, Series{Name: name, Kind: LineKind, Values: values, Dashed: dashed})
	return c
}

// AddBar appends a bar series
func (c *Chart) AddBar(name string, values []float64) *Chart {
	c.Series = append(c.Series, Series{Name: name, Kind: BarKind, Values: values})
	return c
}

// SetBand shades between lower and upper
func (c *Chart) SetBand(name string, lower, upper []float64) *Chart {
	c.Band = &Band{Name: name, Lower: lower, Upper: upper}
	return c
}

// Len is the number of points on the x axis
func (c *Chart) Len() int {
	if len(c.Times) > 0 {
		return len(c.Times)
	}
	return len(c.Categories)
}

// Labels formats the x axis. Time points are shown as year and month.
func (c *Chart) Labels() []string {
	if len(c.Times) == 0 {
		return c.Categories
	}
	labels := make([]string, len(c.Times))
	for i, t := range c.Times {
		labels[i] = t.Format("2006-01")
	}
	return labels
}

func (c *Chart) numBars() int {
	var n int
	for _, s := range c.Series {
		if s.Kind == BarKind {
			n++
		}
	}
	return n
}

func (c *Chart) hasBars() bool {
	return c.numBars() > 0
}

func (c *Chart) Validate() error {
	n := c.Len()
	if n == 0 {
		return fmt.Errorf("%q, %w", c.Title, ErrNoAxis)
	}
	for _, s := range c.Series {
		if len(s.Values) != n {
			return fmt.Errorf("%q series %q has %d values for %d points, %w", c.Title, s.Name, len(s.Values), n, ErrSeriesLength)
		}
	}
	if c.Band != nil {
		if c.Band.Lower == nil || c.Band.Upper == nil {
			return fmt.Errorf("%q, %w", c.Title, ErrBandIncomplete)
		}
		if len(c.Band.Lower) != n || len(c.Band.Upper) != n {
			return fmt.Errorf("%q band, %w", c.Title, ErrSeriesLength)
		}
	}
	return nil
}

// Slug turns the title into a lowercase file name stem
func (c *Chart) Slug() string {
	var sb strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(c.Title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
			lastDash = false
		case !lastDash:
			sb.WriteByte('_')
			lastDash = true
		}
	}
	return strings.TrimSuffix(sb.String(), "_")
}

// ParseFormat accepts html or png
func ParseFormat(val string) (Format, error) {
	switch Format(strings.ToLower(val)) {
	case HTMLFormat:
		return HTMLFormat, nil
	case PNGFormat:
		return PNGFormat, nil
	default:
		return "", fmt.Errorf("%q, %w", val, ErrUnknownFormat)
	}
}
