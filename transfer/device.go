package transfer

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/moyoez/trng-go/tool"
	"github.com/moyoez/trng-go/types"
)

var (
	ErrConnect = errors.New("failed to connect")
	ErrWrite   = errors.New("failed to send request")
	ErrRead    = errors.New("failed to read response")
)

// DeviceOptions describes how to reach the device. Built once from config, read-only afterwards.
type DeviceOptions struct {
	Address        string
	Framing        string
	ReadBufferSize int
	DialTimeout    time.Duration // 0 = no timeout
}

func OptionsFromConfig(cfg types.AppConfig) DeviceOptions {
	return DeviceOptions{
		Address:        cfg.DeviceAddress,
		Framing:        cfg.Framing,
		ReadBufferSize: cfg.ReadBufferSize,
		DialTimeout:    tool.DialTimeout(cfg),
	}
}

// dialDevice opens a fresh connection. The returned stop func must be called once the
// connection is done; until then cancelling ctx closes the connection to unblock I/O.
func dialDevice(ctx context.Context, opts DeviceOptions) (net.Conn, func() bool, error) {
	if opts.Address == "" {
		return nil, nil, fmt.Errorf("%w: device address is empty", ErrConnect)
	}
	dialer := &net.Dialer{Timeout: opts.DialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", opts.Address)
	if err != nil {
		return nil, nil, fmt.Errorf("%w to device %s: %v", ErrConnect, opts.Address, err)
	}
	stop := context.AfterFunc(ctx, func() {
		_ = conn.Close()
	})
	return conn, stop, nil
}

// ioError prefers the context error when the connection was closed because of it.
func ioError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}
