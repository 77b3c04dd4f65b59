package tool

import (
	"context"
	"fmt"
	"net"
	"time"

	probing "github.com/prometheus-community/pro-bing"
)

var (
	// ICMPProbeCount is how many echo requests a probe sends.
	ICMPProbeCount = 3
	// ICMPPrivileged switches to raw sockets. unprivileged udp pings need net.ipv4.ping_group_range on linux.
	ICMPPrivileged = false
)

// ProbeResult mirrors probing.Statistics with the fields callers use.
type ProbeResult struct {
	Sent     int
	Received int
	AvgRtt   time.Duration
}

// ICMPProbe pings host (a bare host or host:port) and reports the statistics.
func ICMPProbe(ctx context.Context, host string, timeout time.Duration) (ProbeResult, error) {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	pinger, err := probing.NewPinger(host)
	if err != nil {
		return ProbeResult{}, fmt.Errorf("failed to create pinger for %s: %v", host, err)
	}
	pinger.Count = ICMPProbeCount
	pinger.Interval = 200 * time.Millisecond
	if timeout > 0 {
		pinger.Timeout = timeout
	}
	pinger.SetPrivileged(ICMPPrivileged)
	if err := pinger.RunWithContext(ctx); err != nil {
		return ProbeResult{}, fmt.Errorf("failed to ping %s: %v", host, err)
	}
	stats := pinger.Statistics()
	DefaultLogger.Debugf("ICMP probe %s: %d/%d received, avg %v", host, stats.PacketsRecv, stats.PacketsSent, stats.AvgRtt)
	return ProbeResult{
		Sent:     stats.PacketsSent,
		Received: stats.PacketsRecv,
		AvgRtt:   stats.AvgRtt,
	}, nil
}
