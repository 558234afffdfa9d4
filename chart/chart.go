// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package chart draws aggregated getput results.
package chart

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/clusterbench/perf/aggregate"
	"github.com/clusterbench/perf/benchunit"
)

const (
	width  = 16 * vg.Centimeter
	height = 20 * vg.Centimeter
	dpi    = 96
)

var (
	barColor  = color.RGBA{54, 162, 235, 255}
	lineColor = color.RGBA{220, 53, 69, 255}
)

// errorPoints is a set of points with symmetric Y errors.
type errorPoints struct {
	plotter.XYs
	plotter.YErrors
}

// IOChart writes one PNG chart into dir for every test and size of
// res and returns the paths written. Each chart shows the mean IOPS
// per thread count as bars with confidence error bars, above the
// median latency per thread count.
func IOChart(res *aggregate.Result, dir string) ([]string, error) {
	var files []string
	var group []aggregate.Key
	flush := func() error {
		if len(group) == 0 {
			return nil
		}
		k := group[0]
		file := filepath.Join(dir, fmt.Sprintf("%s_%s.png", k.Test, k.Size))
		if err := drawGroup(res, group, file); err != nil {
			return fmt.Errorf("chart %s %s: %w", k.Test, k.Size, err)
		}
		files = append(files, file)
		group = group[:0]
		return nil
	}
	for _, k := range res.Keys {
		if !res.Summary(k, aggregate.IOPS).Defined() {
			continue
		}
		if len(group) > 0 && !group[0].SamePrefix(k) {
			if err := flush(); err != nil {
				return nil, err
			}
		}
		group = append(group, k)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return files, nil
}

func drawGroup(res *aggregate.Result, keys []aggregate.Key, file string) error {
	n := len(keys)
	iops := make(plotter.Values, n)
	errs := errorPoints{XYs: make(plotter.XYs, n), YErrors: make(plotter.YErrors, n)}
	lat := make(plotter.XYs, n)
	labels := make([]string, n)
	for i, k := range keys {
		s := res.Summary(k, aggregate.IOPS)
		iops[i] = s.Average
		errs.XYs[i] = plotter.XY{X: float64(i), Y: s.Average}
		errs.YErrors[i].Low = s.Confidence
		errs.YErrors[i].High = s.Confidence
		lat[i] = plotter.XY{X: float64(i), Y: medianLatency(res, k)}
		labels[i] = strconv.Itoa(k.Procs * res.NodeCount)
	}

	title := keys[0].Test + " " + keys[0].Size
	if b, err := benchunit.ParseSize(keys[0].Size); err == nil {
		title = keys[0].Test + " " + benchunit.FormatSize(b)
	}

	top := plot.New()
	top.Title.Text = title
	top.Y.Label.Text = "iops"
	top.Y.Min = 0
	bars, err := plotter.NewBarChart(iops, vg.Points(20))
	if err != nil {
		return err
	}
	bars.Color = barColor
	bars.LineStyle.Width = 0
	eb, err := plotter.NewYErrorBars(errs)
	if err != nil {
		return err
	}
	top.Add(plotter.NewGrid(), bars, eb)
	top.Legend.Add("iops", bars)
	top.Legend.Top = true
	top.NominalX(labels...)

	bottom := plot.New()
	bottom.X.Label.Text = "threads"
	bottom.Y.Label.Text = "median latency, ms"
	bottom.Y.Min = 0
	line, points, err := plotter.NewLinePoints(lat)
	if err != nil {
		return err
	}
	line.Color = lineColor
	line.Width = vg.Points(2)
	points.Color = lineColor
	bottom.Add(plotter.NewGrid(), line, points)
	bottom.NominalX(labels...)

	img := vgimg.NewWith(vgimg.UseWH(width, height), vgimg.UseDPI(dpi), vgimg.UseBackgroundColor(color.White))
	plots := [][]*plot.Plot{{top}, {bottom}}
	canvases := plot.Align(plots, draw.Tiles{Rows: 2, Cols: 1, PadY: vg.Centimeter / 2}, draw.New(img))
	top.Draw(canvases[0][0])
	bottom.Draw(canvases[1][0])

	f, err := os.Create(file)
	if err != nil {
		return err
	}
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// medianLatency returns the mean median latency of group k, or the
// mean latency if no medians were recorded.
func medianLatency(res *aggregate.Result, k aggregate.Key) float64 {
	if s := res.Summary(k, aggregate.Median); s.Defined() {
		return s.Average
	}
	if s := res.Summary(k, aggregate.Latency); s.Defined() {
		return s.Average
	}
	return 0
}
