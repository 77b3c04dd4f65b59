// Package client composes fetch, parse, decrypt and derive into the two operations a
// presentation layer triggers: generate a password and send a remote command.
package client

import (
	"context"
	"fmt"
	"time"

	"github.com/awnumar/memguard"

	"github.com/moyoez/trng-go/notify"
	"github.com/moyoez/trng-go/password"
	"github.com/moyoez/trng-go/protocol"
	"github.com/moyoez/trng-go/seed"
	"github.com/moyoez/trng-go/tool"
	"github.com/moyoez/trng-go/transfer"
	"github.com/moyoez/trng-go/types"
)

// Client holds read-only device settings; every call opens its own connection,
// so a Client is safe for concurrent use.
type Client struct {
	opts      transfer.DeviceOptions
	decrypter *seed.Decrypter
}

// New validates cfg and decodes the shared secret once.
func New(cfg types.AppConfig) (*Client, error) {
	if err := tool.ValidateConfig(&cfg); err != nil {
		return nil, err
	}
	secret, err := tool.DecodeSecret(cfg)
	if err != nil {
		return nil, err
	}
	mode, err := seed.ParseMode(cfg.CipherMode)
	if err != nil {
		return nil, err
	}
	decrypter, err := seed.NewDecrypter(secret, mode)
	if err != nil {
		return nil, err
	}
	return &Client{
		opts:      transfer.OptionsFromConfig(cfg),
		decrypter: decrypter,
	}, nil
}

// Address is the configured device endpoint.
func (c *Client) Address() string {
	return c.opts.Address
}

// GeneratePassword runs the whole pipeline. The first failure is returned as is,
// no partial password is ever produced.
func (c *Client) GeneratePassword(ctx context.Context) (string, error) {
	res, err := c.Generate(ctx)
	if err != nil {
		return "", err
	}
	return res.Password, nil
}

// Generate is GeneratePassword plus the parameters the device asked for.
func (c *Client) Generate(ctx context.Context) (*types.GenerateResult, error) {
	notify.GenerateStarted(c.opts.Address)
	res, err := c.generate(ctx)
	if err != nil {
		tool.DefaultLogger.Warnf("Password generation failed: %v", err)
		notify.GenerateFailed(err)
		return nil, err
	}
	tool.DefaultLogger.Infof("Password generated: length=%d complexity=%d", res.Length, res.Complexity)
	notify.GenerateSucceeded(res.Length, res.Complexity)
	return res, nil
}

func (c *Client) generate(ctx context.Context) (*types.GenerateResult, error) {
	raw, err := transfer.FetchDeviceData(ctx, c.opts)
	if err != nil {
		return nil, err
	}
	resp, err := protocol.ParseResponse(raw)
	if err != nil {
		return nil, err
	}
	seedBytes, err := c.decrypter.DecryptSeed(resp.CiphertextHex)
	if err != nil {
		return nil, err
	}
	defer memguard.WipeBytes(seedBytes)

	return &types.GenerateResult{
		ID:         tool.GenerateRandomUUID(),
		Password:   password.Derive(seedBytes, resp.Length, resp.Complexity),
		Length:     resp.Length,
		Complexity: resp.Complexity,
		Alphabet:   len(password.Alphabet(resp.Complexity)),
		CreatedAt:  time.Now(),
	}, nil
}

// SendCommand is best-effort: it reports what is known and never fails.
func (c *Client) SendCommand(ctx context.Context, cmd types.RemoteCommand) types.SendStatus {
	status := transfer.SendRemoteCommand(ctx, c.opts, cmd)
	tool.DefaultLogger.Debugf("Remote command %s: %s", cmd, status)
	notify.CommandSent(cmd, status)
	return status
}

// Ping probes the device host with ICMP echo requests.
func (c *Client) Ping(ctx context.Context, timeout time.Duration) (types.PingResult, error) {
	res, err := tool.ICMPProbe(ctx, c.opts.Address, timeout)
	if err != nil {
		return types.PingResult{Address: c.opts.Address}, fmt.Errorf("device %s: %v", c.opts.Address, err)
	}
	return types.PingResult{
		Address:   c.opts.Address,
		Reachable: res.Received > 0,
		Sent:      res.Sent,
		Received:  res.Received,
		AvgRtt:    res.AvgRtt,
	}, nil
}
