// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path"
	"strconv"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
)

// An SSHTarget is a host reached over SSH. Every call opens its own
// connection.
type SSHTarget struct {
	User  string
	Addr  string // host name or IP address
	Port  int    // 22 if zero
	Auths []ssh.AuthMethod
}

var _ Target = (*SSHTarget)(nil)

func (t *SSHTarget) Host() string { return t.Addr }

func (t *SSHTarget) client() (*ssh.Client, error) {
	port := t.Port
	if port == 0 {
		port = 22
	}
	cfg := &ssh.ClientConfig{
		User:            t.User,
		Auth:            t.Auths,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
	}
	c, err := ssh.Dial("tcp", net.JoinHostPort(t.Addr, strconv.Itoa(port)), cfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", t.Addr, err)
	}
	return c, nil
}

// Run runs cmd in a new session. If ctx is done before cmd finishes,
// the connection is closed and ctx's error is returned.
func (t *SSHTarget) Run(ctx context.Context, cmd string) ([]byte, error) {
	client, err := t.client()
	if err != nil {
		return nil, err
	}
	defer client.Close()
	session, err := client.NewSession()
	if err != nil {
		return nil, err
	}
	defer session.Close()

	type result struct {
		out []byte
		err error
	}
	done := make(chan result, 1)
	go func() {
		out, err := session.CombinedOutput(cmd)
		done <- result{out, err}
	}()
	select {
	case r := <-done:
		return r.out, r.err
	case <-ctx.Done():
		client.Close()
		return nil, ctx.Err()
	}
}

func (t *SSHTarget) Upload(r io.Reader, remotePath string) error {
	client, err := t.client()
	if err != nil {
		return err
	}
	defer client.Close()

	sc, err := sftp.NewClient(client)
	if err != nil {
		return err
	}
	defer sc.Close()

	if err := sc.MkdirAll(path.Dir(remotePath)); err != nil {
		return err
	}
	dst, err := sc.Create(remotePath)
	if err != nil {
		return err
	}
	return copyClose(dst, r)
}

// copyClose copies r to dst and closes dst. A write buffered by dst
// may only fail on Close, so its error is returned too.
func copyClose(dst io.WriteCloser, r io.Reader) error {
	if _, err := io.Copy(dst, r); err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}

// Auths returns the SSH authentication methods for a private key file
// and a password. Either may be empty.
func Auths(keyFile, password string) ([]ssh.AuthMethod, error) {
	var auths []ssh.AuthMethod
	if keyFile != "" {
		key, err := os.ReadFile(keyFile)
		if err != nil {
			return nil, err
		}
		signer, err := ssh.ParsePrivateKey(key)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", keyFile, err)
		}
		auths = append(auths, ssh.PublicKeys(signer))
	}
	if password != "" {
		auths = append(auths, ssh.Password(password))
	}
	if len(auths) == 0 {
		return nil, errors.New("no SSH key or password")
	}
	return auths, nil
}
