// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/crypto/ssh"
	"gopkg.in/yaml.v3"

	"github.com/clusterbench/perf/benchunit"
	"github.com/clusterbench/perf/internal/remote"
)

// A Plan describes a benchmark campaign.
type Plan struct {
	// TestNodes are the load-generating hosts.
	TestNodes []string `yaml:"testnodes"`

	// User, Port, Key and Password configure SSH access to the
	// test nodes. User defaults to root.
	User     string `yaml:"user"`
	Port     int    `yaml:"port"`
	Key      string `yaml:"key"`
	Password string `yaml:"password"`

	// Files are copied to every test node before the first test.
	Files []File `yaml:"files"`

	Tests []Test `yaml:"tests"`
}

// A File is a local file to upload.
type File struct {
	Src string `yaml:"src"`
	Dst string `yaml:"dst"`
}

// A Test is one getput invocation pattern. It is run Rounds times for
// every combination of Sizes and Procs.
type Test struct {
	// Cmds is getput's --tests argument, such as "p,g,d".
	Cmds    string   `yaml:"cmds"`
	Rounds  int      `yaml:"rounds"`
	Sizes   []string `yaml:"sizes"`
	Procs   []int    `yaml:"procs"`   // [1] if empty
	Runtime int      `yaml:"runtime"` // seconds
	Retries int      `yaml:"retries"` // 5 if zero
}

const defaultRetries = 5

// readPlan reads a Plan from a YAML file.
func readPlan(path string) (*Plan, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	p, err := parsePlan(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// parsePlan decodes a YAML plan, fills in defaults and checks it.
func parsePlan(r io.Reader) (*Plan, error) {
	var p Plan
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return nil, err
	}

	var nodes []string
	for _, n := range p.TestNodes {
		if n = strings.TrimSpace(n); n != "" {
			nodes = append(nodes, n)
		}
	}
	p.TestNodes = nodes
	if len(p.TestNodes) == 0 {
		return nil, errors.New("no test nodes")
	}
	if p.User == "" {
		p.User = "root"
	}
	for _, f := range p.Files {
		if f.Src == "" || f.Dst == "" {
			return nil, fmt.Errorf("file %+v: src and dst are required", f)
		}
	}
	if len(p.Tests) == 0 {
		return nil, errors.New("no tests")
	}
	for i := range p.Tests {
		t := &p.Tests[i]
		if len(t.Procs) == 0 {
			t.Procs = []int{1}
		}
		if t.Retries == 0 {
			t.Retries = defaultRetries
		}
		if err := t.check(); err != nil {
			return nil, fmt.Errorf("test %d: %w", i+1, err)
		}
	}
	return &p, nil
}

func (t *Test) check() error {
	switch {
	case t.Cmds == "":
		return errors.New("cmds is required")
	case t.Rounds < 1:
		return errors.New("rounds must be positive")
	case t.Runtime < 1:
		return errors.New("runtime must be positive")
	case t.Retries < 1:
		return errors.New("retries must be positive")
	case len(t.Sizes) == 0:
		return errors.New("no sizes")
	}
	for _, s := range t.Sizes {
		if _, err := benchunit.ParseSize(s); err != nil {
			return err
		}
	}
	for _, n := range t.Procs {
		if n < 1 {
			return fmt.Errorf("procs must be positive, got %d", n)
		}
	}
	return nil
}

// rounds returns the number of rounds p runs in total.
func (p *Plan) rounds() int {
	n := 0
	for _, t := range p.Tests {
		n += t.Rounds * len(t.Sizes) * len(t.Procs)
	}
	return n
}

// targets returns an SSH target for every test node.
func (p *Plan) targets(auths []ssh.AuthMethod) []remote.Target {
	var ts []remote.Target
	for _, n := range p.TestNodes {
		ts = append(ts, &remote.SSHTarget{User: p.User, Addr: n, Port: p.Port, Auths: auths})
	}
	return ts
}

// getputCommand returns the shell command that runs one getput
// invocation on host. Each host writes to its own container, named
// after the host.
func getputCommand(host string, t Test, size string, procs int) string {
	cont := strings.ReplaceAll(host, ".", "-")
	return fmt.Sprintf("source swiftrc ; cd getput ; "+
		"./getput -c %s --obj test --size %q --tests %q --runtime %d "+
		"--proxies $SW_NODES --procs %d --preauthtoken $SW_TOKEN",
		cont, size, t.Cmds, t.Runtime, procs)
}
