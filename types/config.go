package types

// AppConfig represents the application configuration loaded from config file
type AppConfig struct {
	DeviceAddress         string `yaml:"deviceAddress"`                // host:port of the TRNG device (AP mode address by default)
	Key                   string `yaml:"key"`                          // AES-128 key shared with the firmware, hex encoded
	IV                    string `yaml:"iv,omitempty"`                 // CBC initialization vector, hex encoded. unused in ecb mode.
	CipherMode            string `yaml:"cipherMode"`                   // cbc | ecb, must match the firmware build
	Framing               string `yaml:"framing"`                      // single | line
	ReadBufferSize        int    `yaml:"readBufferSize"`               // upper bound of a device response
	DialTimeoutSec        int    `yaml:"dialTimeoutSec,omitempty"`     // 0 means no timeout, like the firmware client always did
	ListenPort            int    `yaml:"listenPort"`                   // local API port
	GenerateRatePerMinute int    `yaml:"generateRatePerMinute"`        // 0 disables the limiter
	ResultTTLSec          int    `yaml:"resultTTLSec"`                 // how long a generated result stays available for the QR endpoint
	QRSize                int    `yaml:"qrSize"`                       // default QR png size in pixels
	NotifySocketPath      string `yaml:"notifySocketPath,omitempty"`   // unix socket of an external presentation process
	NotifyUsingWebsocket  bool   `yaml:"notifyUsingWebsocket"`         // expose /notify-ws
}

// Config holds runtime overrides from CLI flags
type Config struct {
	Log              string
	UseConfigPath    string
	UseDeviceAddress string
	UseCipherMode    string
	UseFraming       string
	UseListenPort    int
	SkipNotify       bool   // if true, skip unix socket notify.
	Generate         bool   // generate one password and exit.
	ShowQR           bool   // print the generated password as a terminal QR code.
	JSON             bool   // print results as JSON.
	Command          string // up | down | select, send one remote command and exit.
	Ping             bool   // probe device reachability and exit.
	TimeoutSec       int    // bounds one-shot CLI operations, 0 = wait forever.
}
