// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package remote runs commands on load-generating hosts.
package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/alitto/pond"
)

// A Target is a host on which commands can be run.
type Target interface {
	// Host returns the host name or address of the target.
	Host() string

	// Run runs cmd and returns its combined output.
	Run(ctx context.Context, cmd string) ([]byte, error)

	// Upload copies r to remotePath, creating parent directories
	// as needed.
	Upload(r io.Reader, remotePath string) error
}

// An Output is the result of running a command on one target.
type Output struct {
	Elapsed time.Duration
	Out     []byte
}

// RunAll runs a command on every target in parallel and returns the
// output of each, keyed by host. The command for a target is cmd(t).
//
// If the command fails on any target, RunAll returns the joined errors
// of all failed targets and no outputs.
func RunAll(ctx context.Context, targets []Target, cmd func(Target) string) (map[string]Output, error) {
	if len(targets) == 0 {
		return nil, errors.New("no targets")
	}
	var (
		mu   sync.Mutex
		outs = make(map[string]Output, len(targets))
		errs []error
	)
	pool := pond.New(len(targets), 0, pond.MinWorkers(len(targets)))
	for _, t := range targets {
		t := t
		pool.Submit(func() {
			c := cmd(t)
			start := time.Now()
			out, err := t.Run(ctx, c)
			elapsed := time.Since(start)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				slog.Error("running command failed", slog.String("host", t.Host()), slog.String("command", c), slog.String("output", string(out)), slog.String("error", err.Error()))
				errs = append(errs, fmt.Errorf("%s: %w", t.Host(), err))
				return
			}
			slog.Debug("running command finished", slog.String("host", t.Host()), slog.Duration("elapsed", elapsed))
			outs[t.Host()] = Output{Elapsed: elapsed, Out: out}
		})
	}
	pool.StopAndWait()
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return outs, nil
}

// UploadAll copies the local file src to dst on every target.
func UploadAll(targets []Target, open func() (io.ReadCloser, error), dst string) error {
	if len(targets) == 0 {
		return nil
	}
	var (
		mu   sync.Mutex
		errs []error
	)
	pool := pond.New(len(targets), 0)
	for _, t := range targets {
		t := t
		pool.Submit(func() {
			err := upload(t, open, dst)
			if err == nil {
				return
			}
			slog.Error("upload failed", slog.String("host", t.Host()), slog.String("path", dst), slog.String("error", err.Error()))
			mu.Lock()
			errs = append(errs, fmt.Errorf("%s: %w", t.Host(), err))
			mu.Unlock()
		})
	}
	pool.StopAndWait()
	return errors.Join(errs...)
}

func upload(t Target, open func() (io.ReadCloser, error), dst string) error {
	r, err := open()
	if err != nil {
		return err
	}
	defer r.Close()
	return t.Upload(r, dst)
}
