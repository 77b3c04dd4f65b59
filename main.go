package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/skip2/go-qrcode"

	"github.com/moyoez/trng-go/api"
	"github.com/moyoez/trng-go/client"
	"github.com/moyoez/trng-go/notify"
	"github.com/moyoez/trng-go/tool"
	"github.com/moyoez/trng-go/types"
)

func main() {
	flags := tool.SetFlags()

	// initialize logger
	tool.InitLogger()
	tool.SetLogMode(flags.Log)

	appCfg, err := tool.LoadConfig(flags.UseConfigPath)
	if err != nil {
		tool.DefaultLogger.Fatalf("%v", err)
	}
	if err := tool.ApplyFlagOverrides(&appCfg, flags); err != nil {
		tool.DefaultLogger.Fatalf("%v", err)
	}
	notify.SetSocketPath(appCfg.NotifySocketPath)

	c, err := client.New(appCfg)
	if err != nil {
		tool.DefaultLogger.Fatalf("Failed to create device client: %v", err)
	}

	var run func(*client.Client, types.Config) int
	switch {
	case flags.Generate:
		run = runGenerate
	case flags.Command != "":
		run = runCommand
	case flags.Ping:
		run = runPing
	}
	if run != nil {
		code := run(c, flags)
		// socket notifications are sent in the background, let them land before exiting
		if !notify.Flush(2 * notify.UnixSocketTimeout) {
			tool.DefaultLogger.Warn("Some notifications were not delivered before exit")
		}
		os.Exit(code)
	}

	apiServer := api.NewServer(appCfg, c)
	go func() {
		if err := apiServer.Start(); err != nil {
			tool.DefaultLogger.Fatalf("API server startup failed: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	tool.DefaultLogger.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctx); err != nil {
		tool.DefaultLogger.Errorf("API server shutdown failed: %v", err)
	}
}

func oneShotContext(flags types.Config) (context.Context, context.CancelFunc) {
	if flags.TimeoutSec > 0 {
		return context.WithTimeout(context.Background(), time.Duration(flags.TimeoutSec)*time.Second)
	}
	return context.WithCancel(context.Background())
}

func runGenerate(c *client.Client, flags types.Config) int {
	ctx, cancel := oneShotContext(flags)
	defer cancel()

	res, err := c.Generate(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		return 1
	}
	if flags.JSON {
		out, err := sonic.Marshal(res)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
			return 1
		}
		fmt.Println(string(out))
	} else {
		fmt.Println(res.Password)
	}
	if flags.ShowQR {
		qr, err := qrcode.New(res.Password, qrcode.Medium)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: failed to encode QR code: %v\n", err)
			return 1
		}
		fmt.Print(qr.ToSmallString(false))
	}
	return 0
}

func runCommand(c *client.Client, flags types.Config) int {
	cmd, err := types.ParseRemoteCommand(flags.Command)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		return 2
	}
	ctx, cancel := oneShotContext(flags)
	defer cancel()

	status := c.SendCommand(ctx, cmd)
	if flags.JSON {
		out, _ := sonic.Marshal(map[string]any{"command": cmd.String(), "status": status})
		fmt.Println(string(out))
	} else {
		fmt.Printf("%s: %s\n", cmd, status)
	}
	return 0
}

func runPing(c *client.Client, flags types.Config) int {
	ctx, cancel := oneShotContext(flags)
	defer cancel()

	res, err := c.Ping(ctx, 3*time.Second)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		return 1
	}
	if flags.JSON {
		out, _ := sonic.Marshal(res)
		fmt.Println(string(out))
	} else {
		fmt.Printf("%s: %d/%d replies, avg %s\n", res.Address, res.Received, res.Sent, res.AvgRtt)
	}
	if !res.Reachable {
		return 1
	}
	return 0
}
