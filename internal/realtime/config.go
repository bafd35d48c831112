package realtime

import "time"

// Config holds connection tuning for collaboration sockets
type Config struct {
	// PingInterval is how often the server pings each client. Must be
	// shorter than PongWait.
	PingInterval time.Duration

	// PongWait is how long a client may stay silent before it is dropped
	PongWait time.Duration

	// WriteWait bounds a single write
	WriteWait time.Duration

	// MaxMessageSize caps inbound frames; clients only send cursor updates
	MaxMessageSize int64

	// SendBuffer is the per-client outbound queue. A client that falls this
	// far behind is disconnected.
	SendBuffer int

	// AllowedOrigins restricts the upgrade's Origin header. Empty allows any.
	AllowedOrigins []string
}

// DefaultConfig returns the default socket configuration
func DefaultConfig() *Config {
	return &Config{
		PingInterval:   25 * time.Second,
		PongWait:       60 * time.Second,
		WriteWait:      10 * time.Second,
		MaxMessageSize: 4 * 1024,
		SendBuffer:     64,
	}
}
