// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Getputstat summarizes and compares getput benchmark results.
//
// Usage:
//
//	getputstat [flags] file[:nodes] [file2[:nodes]]
//
// Each input is either a round file, as written by getputrun, or a
// text report previously printed by getputstat. A report carries no
// host information, so the number of load-generating nodes it was
// recorded with must follow its path, as in "old.txt:4". Round files
// carry their hosts and take no suffix.
//
// Given one input, getputstat prints for every test, object size and
// thread count the mean IOPS and latency with their confidence
// interval half-widths, and the mean error count:
//
//	+------+------+----------+-------------+---------------+-----+
//	| test | size | nthreads | iops ~ conf | lat ms ~ conf | err |
//	+======+======+==========+=============+===============+=====+
//	| get  | 64k  |        2 |  222 ~   12 |     12 ~    2 |   1 |
//	| get  | 64k  |        8 |  662 ~   22 |     45 ~    3 |   0 |
//	| ---- | ---- | -------- | ----------- | ------------- | --- |
//	| put  | 64k  |        2 |  117 ~    7 |     23 ~    1 |   0 |
//	+------+------+----------+-------------+---------------+-----+
//
// Given two inputs, it prints the percentage difference of the first
// from the second in mean IOPS and latency, for every configuration
// measured in both. Both inputs must come from the same number of
// nodes.
//
// Rounds whose slowest host took more than -skew times as long as the
// fastest are discarded. The number of host results kept and
// discarded from each round file is printed on standard error.
//
// # Options
//
// The -format flag selects the output format: text (the default), csv
// or html.
//
// The -confidence flag sets the confidence level of the intervals,
// and -estimator how they are computed: "t" uses Student's
// t-distribution and "dev" the deviation of the samples.
//
// The -chart flag names a directory into which a PNG chart of IOPS
// and median latency per thread count is written for every test and
// size. It applies to a single input only.
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/clusterbench/perf/aggregate"
	"github.com/clusterbench/perf/benchmath"
	"github.com/clusterbench/perf/chart"
	"github.com/clusterbench/perf/report"
)

// errUsage reports a command line error. The usage message has
// already been printed.
var errUsage = errors.New("usage error")

func main() {
	log.SetPrefix("getputstat: ")
	log.SetFlags(0)

	if err := getputstat(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		log.Fatal(err)
	}
}

func getputstat(w, wErr io.Writer, args []string) error {
	flags := flag.NewFlagSet("getputstat", flag.ContinueOnError)
	flags.SetOutput(wErr)
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), `Usage: getputstat [flags] file[:nodes] [file2[:nodes]]

getputstat summarizes the getput results in file or, given two files,
compares them. A :nodes suffix marks a previously printed text report
and gives the number of nodes it was recorded with.

`)
		flags.PrintDefaults()
	}
	flagFormat := flags.String("format", "text", "print results in `format`: text, csv or html")
	flagConfidence := flags.Float64("confidence", aggregate.DefaultConfig.Confidence, "confidence `level` of intervals")
	flagSkew := flags.Float64("skew", aggregate.DefaultConfig.SkewRatio, "discard rounds whose host times differ by more than `ratio`")
	flagEstimator := flags.String("estimator", aggregate.DefaultConfig.Estimator.Name(), "confidence interval `estimator`: t or dev")
	flagChart := flags.String("chart", "", "write PNG charts into `dir`")
	if err := flags.Parse(args); err != nil {
		// flags has printed the error and usage.
		return errUsage
	}

	usageErr := func(format string, a ...any) error {
		fmt.Fprintf(flags.Output(), format+"\n", a...)
		flags.Usage()
		return errUsage
	}
	if flags.NArg() < 1 || flags.NArg() > 2 {
		return usageErr("expected one or two inputs")
	}
	if *flagConfidence <= 0 || *flagConfidence >= 1 {
		return usageErr("-confidence must be between 0 and 1")
	}
	if *flagSkew < 1 {
		return usageErr("-skew must be at least 1")
	}
	est, err := benchmath.EstimatorByName(*flagEstimator)
	if err != nil {
		return usageErr("%s", err)
	}
	var format func(io.Writer, *report.Table) error
	switch *flagFormat {
	case "text":
		format = report.FormatText
	case "csv":
		format = report.FormatCSV
	case "html":
		format = formatHTMLPage
	default:
		return usageErr("unknown -format %q", *flagFormat)
	}
	if *flagChart != "" && flags.NArg() != 1 {
		return usageErr("-chart requires a single input")
	}

	cfg := aggregate.DefaultConfig
	cfg.Confidence = *flagConfidence
	cfg.SkewRatio = *flagSkew
	cfg.Estimator = est

	var results []*aggregate.Result
	for _, arg := range flags.Args() {
		in, err := parseInput(arg)
		if err != nil {
			return usageErr("%s", err)
		}
		res, err := in.load(cfg, wErr)
		if err != nil {
			return err
		}
		results = append(results, res)
	}

	var tab *report.Table
	if len(results) == 1 {
		tab = report.Absolute(results[0])
	} else {
		tab, err = report.Compare(results[0], results[1])
		if err != nil {
			return err
		}
	}

	var buf bytes.Buffer
	if err := format(&buf, tab); err != nil {
		return err
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return err
	}

	if *flagChart != "" {
		if err := os.MkdirAll(*flagChart, 0o777); err != nil {
			return err
		}
		files, err := chart.IOChart(results[0], *flagChart)
		if err != nil {
			return err
		}
		for _, f := range files {
			fmt.Fprintf(wErr, "wrote %s\n", f)
		}
	}
	return nil
}

// An input is one command line input file.
type input struct {
	path string
	// nodes is the node count of a text report, or 0 for a round
	// file.
	nodes int
}

// parseInput splits a "path[:nodes]" argument.
func parseInput(arg string) (input, error) {
	i := strings.LastIndexByte(arg, ':')
	if i < 0 {
		return input{path: arg}, nil
	}
	n, err := strconv.Atoi(arg[i+1:])
	if err != nil {
		// Not a node count; part of the path.
		return input{path: arg}, nil
	}
	if n < 1 {
		return input{}, fmt.Errorf("%s: node count must be positive", arg)
	}
	return input{path: arg[:i], nodes: n}, nil
}

func (in input) load(cfg aggregate.Config, wErr io.Writer) (*aggregate.Result, error) {
	f, err := os.Open(in.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if in.nodes > 0 {
		res, err := report.LoadTable(f, in.nodes)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", in.path, err)
		}
		return res, nil
	}

	var c aggregate.Collection
	if err := c.ReadRounds(f, in.path, cfg); err != nil {
		return nil, err
	}
	res, err := c.Summarize(cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", in.path, err)
	}
	fmt.Fprintf(wErr, "%s: %d samples kept, %d skipped\n", in.path, res.Samples, res.Skipped)
	if n := c.Unmatched(); n > 0 {
		fmt.Fprintf(wErr, "%s: %d host results without a match on every host dropped\n", in.path, n)
	}
	return res, nil
}

func formatHTMLPage(w io.Writer, tab *report.Table) error {
	if _, err := io.WriteString(w, htmlHeader); err != nil {
		return err
	}
	if err := report.FormatHTML(w, tab); err != nil {
		return err
	}
	_, err := io.WriteString(w, htmlFooter)
	return err
}

var htmlHeader = `<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>getput results</title>
<style>
.getputstat { border-collapse: collapse; }
.getputstat th { border-bottom: 1px solid #666; padding: 0em 1em; }
.getputstat td { padding: 0em 1em; }
.getputstat td.num { text-align: right; }
.getputstat tbody + tbody td { border-top: 1px solid #ccc; }
</style>
</head>
<body>
`
var htmlFooter = `</body>
</html>
`
