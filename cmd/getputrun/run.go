// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/clusterbench/perf/getput"
	"github.com/clusterbench/perf/internal/remote"
)

// separator precedes every round line.
var separator = strings.Repeat("-", 75)

// A runner executes a Plan and writes a round file to out.
type runner struct {
	targets []remote.Target
	out     io.Writer

	// pause is the wait before retrying a failed round.
	pause time.Duration

	// bar, if not nil, advances once per round.
	bar *progressbar.ProgressBar
}

// upload copies the plan's files to every target.
func (r *runner) upload(p *Plan) error {
	for _, f := range p.Files {
		src := f.Src
		open := func() (io.ReadCloser, error) { return os.Open(src) }
		slog.Info("uploading", slog.String("src", f.Src), slog.String("dst", f.Dst))
		if err := remote.UploadAll(r.targets, open, f.Dst); err != nil {
			return fmt.Errorf("uploading %s: %w", f.Src, err)
		}
	}
	return nil
}

// run runs every round of p.
func (r *runner) run(ctx context.Context, p *Plan) error {
	for _, t := range p.Tests {
		for rnd := 0; rnd < t.Rounds; rnd++ {
			for _, size := range t.Sizes {
				for _, procs := range t.Procs {
					if err := r.runRound(ctx, t, size, procs); err != nil {
						return err
					}
					if r.bar != nil {
						r.bar.Add(1)
					}
				}
			}
		}
	}
	if r.bar != nil {
		r.bar.Finish()
	}
	return nil
}

// runRound runs one round, retrying it up to t.Retries times. A round
// that fails every attempt is given up on; only a canceled context is
// an error.
func (r *runner) runRound(ctx context.Context, t Test, size string, procs int) error {
	attrs := []any{slog.String("tests", t.Cmds), slog.String("size", size), slog.Int("procs", procs)}
	for attempt := 1; attempt <= t.Retries; attempt++ {
		round, err := r.round(ctx, t, size, procs)
		if err == nil {
			line, err := getput.EncodeRound(round)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(r.out, "%s\n%s\n", separator, line)
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		// Readers of the round file skip this line.
		fmt.Fprintf(r.out, "Failed: %s\n", strings.ReplaceAll(err.Error(), "\n", "; "))
		if attempt == t.Retries {
			break
		}
		slog.Warn("round failed, retrying", append(attrs, slog.Int("attempt", attempt))...)
		select {
		case <-time.After(r.pause):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	slog.Error("round failed, giving up", append(attrs, slog.Int("attempts", t.Retries))...)
	return nil
}

// round runs getput on every target at once and collects the results.
func (r *runner) round(ctx context.Context, t Test, size string, procs int) (getput.Round, error) {
	outs, err := remote.RunAll(ctx, r.targets, func(tg remote.Target) string {
		return getputCommand(tg.Host(), t, size, procs)
	})
	if err != nil {
		return nil, err
	}
	round := make(getput.Round, len(outs))
	for host, out := range outs {
		results, err := getput.GroupByKey(string(out.Out))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", host, err)
		}
		if len(results) == 0 {
			return nil, fmt.Errorf("%s: no getput results in output", host)
		}
		round[host] = getput.HostRound{Elapsed: out.Elapsed.Seconds(), Results: results}
	}
	return round, nil
}
