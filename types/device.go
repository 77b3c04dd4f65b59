package types

import (
	"fmt"
	"strings"
	"time"
)

// DeviceResponse is one parsed answer to GET_DATA.
type DeviceResponse struct {
	Length        int    `json:"length"`
	Complexity    int    `json:"complexity"`
	CiphertextHex string `json:"-"`
}

// String re-serializes the response in the device wire format.
func (r DeviceResponse) String() string {
	return fmt.Sprintf("LEN:%d,COMPLEX:%d,KEY:%s", r.Length, r.Complexity, r.CiphertextHex)
}

// RemoteCommand is a remote-control button on the device menu.
type RemoteCommand int

const (
	CommandUp RemoteCommand = iota
	CommandDown
	CommandSelect
)

var remoteCommandWire = map[RemoteCommand]string{
	CommandUp:     "CMD_UP\n",
	CommandDown:   "CMD_DOWN\n",
	CommandSelect: "CMD_SELECT\n",
}

var remoteCommandNames = map[RemoteCommand]string{
	CommandUp:     "up",
	CommandDown:   "down",
	CommandSelect: "select",
}

// Wire returns the literal line written to the device.
func (c RemoteCommand) Wire() string {
	return remoteCommandWire[c]
}

func (c RemoteCommand) String() string {
	if name, ok := remoteCommandNames[c]; ok {
		return name
	}
	return fmt.Sprintf("RemoteCommand(%d)", int(c))
}

// ParseRemoteCommand maps up|down|select (any case) to a RemoteCommand.
func ParseRemoteCommand(name string) (RemoteCommand, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for cmd, n := range remoteCommandNames {
		if n == name {
			return cmd, nil
		}
	}
	return 0, fmt.Errorf("unknown remote command %q (want up, down or select)", name)
}

// SendStatus reports what is known about a best-effort command.
// The device never acknowledges, so "sent" only means the bytes reached the OS.
type SendStatus string

const (
	SendStatusSent         SendStatus = "sent"
	SendStatusNotConfirmed SendStatus = "not_confirmed"
)

// GenerateResult is handed to the presentation layer after a successful generation.
type GenerateResult struct {
	ID         string    `json:"id"`
	Password   string    `json:"password"`
	Length     int       `json:"length"`
	Complexity int       `json:"complexity"`
	Alphabet   int       `json:"alphabetSize"`
	CreatedAt  time.Time `json:"createdAt"`
}

// PingResult is the outcome of an ICMP probe against the device host.
type PingResult struct {
	Address   string        `json:"address"`
	Reachable bool          `json:"reachable"`
	Sent      int           `json:"sent"`
	Received  int           `json:"received"`
	AvgRtt    time.Duration `json:"avgRtt"`
}
