package notify

import (
	"fmt"

	"github.com/moyoez/trng-go/types"
)

// The password itself never goes into an event; it is returned to the caller only.

func GenerateStarted(address string) {
	Publish(&types.Notification{
		Type:    types.NotifyTypeGenerateStart,
		Title:   "Connecting",
		Message: fmt.Sprintf("Connecting to %s and generating", address),
		Data:    map[string]any{"address": address},
	})
}

func GenerateSucceeded(length, complexity int) {
	Publish(&types.Notification{
		Type:    types.NotifyTypeGenerateSuccess,
		Title:   "Password generated",
		Message: fmt.Sprintf("Generated a %d character password", length),
		Data:    map[string]any{"length": length, "complexity": complexity},
	})
}

func GenerateFailed(err error) {
	Publish(&types.Notification{
		Type:    types.NotifyTypeGenerateError,
		Title:   "Generation failed",
		Message: err.Error(),
	})
}

func CommandSent(cmd types.RemoteCommand, status types.SendStatus) {
	Publish(&types.Notification{
		Type:    types.NotifyTypeCommandSent,
		Title:   "Remote command",
		Message: fmt.Sprintf("%s: %s", cmd, status),
		Data:    map[string]any{"command": cmd.String(), "status": string(status)},
	})
}
