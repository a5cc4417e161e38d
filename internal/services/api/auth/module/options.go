package module

import (
	"time"

	"atelier/internal/platform/config"
)

// Options tune the auth module
type Options struct {
	// ResetURL is the client page a reset mail links to
	ResetURL string
	ResetTTL time.Duration

	// LoginPerMinute and LoginBurst bound the credential endpoints per client ip
	LoginPerMinute int
	LoginBurst     int

	Heartbeat time.Duration
}

// FromConfig reads AUTH_ keys
func FromConfig(cfg config.Conf) Options {
	ac := cfg.Prefix("AUTH_")
	return Options{
		ResetURL:       ac.MayString("RESET_URL", "http://localhost:3000/reset-password"),
		ResetTTL:       ac.MayDuration("RESET_TTL", time.Hour),
		LoginPerMinute: ac.MayInt("LOGIN_PER_MINUTE", 10),
		LoginBurst:     ac.MayInt("LOGIN_BURST", 5),
		Heartbeat:      ac.MayDuration("EVENTS_HEARTBEAT", 25*time.Second),
	}
}
