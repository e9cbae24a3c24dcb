// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package dataloader

import (
	"context"
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/H0llyW00dzZ/trust-data-loader/src/internal/helper/gc"
	"github.com/jlaffaye/ftp"
)

const anonymousUser = "anonymous"

// streamGet copies a file or FTP resource into memory. Failures are logged
// and reported as no data.
func (l *Loader) streamGet(ctx context.Context, ep Endpoint) []byte {
	var (
		data []byte
		err  error
	)
	if ep.Scheme == SchemeFile {
		data, err = readFile(ep)
	} else {
		data, err = l.ftpGet(ctx, ep)
	}
	if err != nil {
		l.log.Warnf("unable to read %s: %v", ep.Raw, err)
		return nil
	}
	if len(data) == 0 {
		return nil
	}
	return data
}

func readFile(ep Endpoint) ([]byte, error) {
	path := ep.URL.Path
	if path == "" {
		// file:relative/path
		path = ep.URL.Opaque
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return gc.ReadAll(f)
}

func (l *Loader) ftpGet(ctx context.Context, ep Endpoint) ([]byte, error) {
	port := ep.URL.Port()
	if port == "" {
		port = strconv.Itoa(effectivePort(ep.URL))
	}
	addr := net.JoinHostPort(ep.URL.Hostname(), port)

	dial := dialContext(l.cfg.ConnectTimeout, l.cfg.SocketTimeout)
	conn, err := ftp.Dial(addr,
		ftp.DialWithContext(ctx),
		ftp.DialWithTimeout(l.cfg.ConnectTimeout),
		ftp.DialWithDialFunc(func(network, address string) (net.Conn, error) {
			return dial(ctx, network, address)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	defer func() {
		if err := conn.Quit(); err != nil {
			l.log.Debugf("ftp quit %s: %v", addr, err)
		}
	}()

	user, pass := anonymousUser, anonymousUser
	if ep.URL.User != nil {
		user = ep.URL.User.Username()
		pass, _ = ep.URL.User.Password()
	}
	if err := conn.Login(user, pass); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	resp, err := conn.Retr(ep.URL.Path)
	if err != nil {
		return nil, fmt.Errorf("retr %s: %w", ep.URL.Path, err)
	}
	defer resp.Close()

	return gc.ReadAll(resp)
}
