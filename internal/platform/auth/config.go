package auth

import (
	"time"

	"atelier/internal/platform/config"
)

// FromConfig reads AUTH_JWT_SECRET (required, at least MinSecretLen bytes), AUTH_JWT_ISSUER, AUTH_ACCESS_TTL and AUTH_REFRESH_TTL
func FromConfig(c config.Conf) Config {
	ac := c.Prefix("AUTH_")
	return Config{
		Secret:     []byte(ac.MustSecret("JWT_SECRET", MinSecretLen)),
		Issuer:     ac.MayString("JWT_ISSUER", "atelier"),
		AccessTTL:  ac.MayDuration("ACCESS_TTL", 15*time.Minute),
		RefreshTTL: ac.MayDuration("REFRESH_TTL", 30*24*time.Hour),
	}
}
