package transfer

import (
	"context"
	"io"

	"github.com/moyoez/trng-go/tool"
	"github.com/moyoez/trng-go/types"
)

// SendRemoteCommand writes one command on a fresh connection and never reports failure.
// The device does not acknowledge, so SendStatusSent does not mean it was acted upon.
func SendRemoteCommand(ctx context.Context, opts DeviceOptions, cmd types.RemoteCommand) types.SendStatus {
	wire := cmd.Wire()
	if wire == "" {
		tool.DefaultLogger.Debugf("Ignoring unknown remote command %v", cmd)
		return types.SendStatusNotConfirmed
	}
	conn, stop, err := dialDevice(ctx, opts)
	if err != nil {
		tool.DefaultLogger.Debugf("Remote command %s not sent: %v", cmd, err)
		return types.SendStatusNotConfirmed
	}
	defer stop()
	defer func() {
		_ = conn.Close()
	}()

	if _, err := io.WriteString(conn, wire); err != nil {
		tool.DefaultLogger.Debugf("Remote command %s not sent: %v", cmd, ioError(ctx, err))
		return types.SendStatusNotConfirmed
	}
	return types.SendStatusSent
}
