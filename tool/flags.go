package tool

import (
	"flag"

	"github.com/moyoez/trng-go/types"
)

// SetFlags parses CLI flags and returns the override config.
func SetFlags() types.Config {
	var cfg types.Config
	flag.StringVar(&cfg.Log, "log", "", "log mode: dev|prod|none")
	flag.StringVar(&cfg.UseConfigPath, "useConfigPath", "", "override config file path")
	flag.StringVar(&cfg.UseDeviceAddress, "useDeviceAddress", "", "override device address (host:port)")
	flag.StringVar(&cfg.UseCipherMode, "useCipherMode", "", "override cipher mode: cbc|ecb (must match the firmware)")
	flag.StringVar(&cfg.UseFraming, "useFraming", "", "override response framing: single|line")
	flag.IntVar(&cfg.UseListenPort, "useListenPort", 0, "override local API port")
	flag.BoolVar(&cfg.SkipNotify, "skipNotify", false, "if true, do not send unix socket notifications")
	flag.BoolVar(&cfg.Generate, "generate", false, "generate one password, print it and exit")
	flag.BoolVar(&cfg.ShowQR, "qr", false, "with -generate, also print the password as a terminal QR code")
	flag.BoolVar(&cfg.JSON, "json", false, "print one-shot results as JSON")
	flag.StringVar(&cfg.Command, "command", "", "send one remote command (up|down|select) and exit")
	flag.BoolVar(&cfg.Ping, "ping", false, "probe device reachability (ICMP) and exit")
	flag.IntVar(&cfg.TimeoutSec, "timeout", 0, "timeout in seconds for one-shot operations, 0 waits forever")
	flag.Parse()
	return cfg
}
