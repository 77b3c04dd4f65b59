package models

import (
	"context"
	"sync"
	"time"

	"github.com/moyoez/trng-go/types"
)

// DeviceClient is what the controllers need from client.Client.
type DeviceClient interface {
	Address() string
	Generate(ctx context.Context) (*types.GenerateResult, error)
	SendCommand(ctx context.Context, cmd types.RemoteCommand) types.SendStatus
	Ping(ctx context.Context, timeout time.Duration) (types.PingResult, error)
}

var (
	clientMu     sync.RWMutex
	deviceClient DeviceClient
	appConfig    types.AppConfig
)

// SetDeviceClient sets the client used by all handlers together with the config it was built from.
func SetDeviceClient(c DeviceClient, cfg types.AppConfig) {
	clientMu.Lock()
	defer clientMu.Unlock()
	deviceClient = c
	appConfig = cfg
}

// GetDeviceClient returns the client, or nil if not set.
func GetDeviceClient() DeviceClient {
	clientMu.RLock()
	defer clientMu.RUnlock()
	return deviceClient
}

func GetAppConfig() types.AppConfig {
	clientMu.RLock()
	defer clientMu.RUnlock()
	return appConfig
}
