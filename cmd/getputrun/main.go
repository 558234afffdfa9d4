// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Getputrun runs getput benchmarks on a set of load-generating hosts
// and writes a round file to standard output.
//
// Usage:
//
//	getputrun [-pause d] [-v] plan.yaml
//
// The plan lists the test nodes, how to reach them over SSH, files to
// copy to them first and the tests to run:
//
//	testnodes: [10.0.0.1, 10.0.0.2]
//	user: root
//	key: /root/.ssh/id_rsa
//	files:
//	  - {src: swiftrc, dst: swiftrc}
//	tests:
//	  - cmds: p,g,d
//	    rounds: 3
//	    sizes: [4k, 64k, 1m]
//	    procs: [1, 4, 16]
//	    runtime: 30
//
// Every round runs getput on all test nodes at once. A failed round is
// retried after a pause, up to five times unless the test sets
// retries. Each successful round is written as a line of dashes
// followed by one JSON line holding every host's elapsed time and
// results, which is the input format of getputstat.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/clusterbench/perf/internal/remote"
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), `Usage: getputrun [flags] plan.yaml

getputrun runs the getput benchmarks described by plan.yaml and writes
the results as a round file to stdout.

`)
	flag.PrintDefaults()
}

func main() {
	log.SetPrefix("getputrun: ")
	log.SetFlags(0)

	flagPause := flag.Duration("pause", 5*time.Second, "wait `duration` before retrying a failed round")
	flagVerbose := flag.Bool("v", false, "log every command")
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() != 1 {
		usage()
		os.Exit(2)
	}
	if *flagVerbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	plan, err := readPlan(flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}
	auths, err := remote.Auths(plan.Key, plan.Password)
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	r := &runner{
		targets: plan.targets(auths),
		out:     os.Stdout,
		pause:   *flagPause,
		bar: progressbar.NewOptions64(int64(plan.rounds()),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("rounds")),
	}
	if err := r.upload(plan); err != nil {
		log.Fatal(err)
	}
	if err := r.run(ctx, plan); err != nil {
		log.Fatal(err)
	}
}
