// Package raw reads the handful of variables the logger needs before config, which logs, can run
package raw

import (
	"os"
	"strconv"
	"strings"
)

// Env is a prefixed view of the process environment, e.g. Env("LOG_")
type Env string

func (e Env) lookup(key string) string { return strings.TrimSpace(os.Getenv(string(e) + key)) }

// String returns the trimmed value or def when unset or blank
func (e Env) String(key, def string) string {
	if v := e.lookup(key); v != "" {
		return v
	}
	return def
}

// Bool treats 1, true, yes and on as true and any other set value as false
func (e Env) Bool(key string, def bool) bool {
	switch v := strings.ToLower(e.lookup(key)); v {
	case "":
		return def
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// Int returns a non-negative integer or def
func (e Env) Int(key string, def int) int {
	n, err := strconv.Atoi(e.lookup(key))
	if err != nil || n < 0 {
		return def
	}
	return n
}
