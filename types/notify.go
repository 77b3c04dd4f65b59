package types

const (
	NotifyTypeGenerateStart   = "generate_start"
	NotifyTypeGenerateSuccess = "generate_success"
	NotifyTypeGenerateError   = "generate_error"
	NotifyTypeCommandSent     = "command_sent"
)

// Notification represents a notification message structure
type Notification struct {
	Type    string         `json:"type,omitempty"`    // Notification type, e.g. "generate_start", "command_sent", etc.
	Title   string         `json:"title,omitempty"`   // Notification title
	Message string         `json:"message,omitempty"` // Notification message/content
	Data    map[string]any `json:"data,omitempty"`    // Additional data fields
}

// NotifyHub broadcasts notifications to live presentation clients.
type NotifyHub interface {
	Broadcast(notification *Notification)
}

// StatusResponse is returned by the status endpoint.
type StatusResponse struct {
	Running         bool   `json:"running"`
	DeviceAddress   string `json:"deviceAddress"`
	CipherMode      string `json:"cipherMode"`
	Framing         string `json:"framing"`
	NotifyWSEnabled bool   `json:"notify_ws_enabled"`
}
