// Package module is the contract every api and janitor module satisfies, plus the port registry
// it lives apart from modkit so a module can export its ports type without an import cycle
package module

import (
	"reflect"
	"slices"
	"sync"

	phttp "atelier/internal/platform/net/http"
)

// Module is what Mount and the janitor command wire
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}

// PortsOf finds T in m.Ports(): the bundle itself, or its first exported field that implements T
func PortsOf[T any](m Module) (T, bool) {
	var zero T
	p := m.Ports()
	if p == nil {
		return zero, false
	}
	if v, ok := p.(T); ok {
		return v, true
	}
	rv := reflect.ValueOf(p)
	if rv.Kind() != reflect.Struct {
		return zero, false
	}
	for i := range rv.NumField() {
		f := rv.Field(i)
		if !f.CanInterface() {
			continue
		}
		if v, ok := f.Interface().(T); ok {
			return v, true
		}
	}
	return zero, false
}

// MustPortsOf is PortsOf for wiring code, where a missing port is a programming error
func MustPortsOf[T any](m Module) T {
	v, ok := PortsOf[T](m)
	if !ok {
		panic("module " + m.Name() + " exports no " + reflect.TypeFor[T]().String())
	}
	return v
}

var (
	mu       sync.RWMutex
	registry = map[string]any{}
)

// Register records m's ports under m.Name(); a second module with the same name replaces the first
func Register(m Module) {
	mu.Lock()
	defer mu.Unlock()
	registry[m.Name()] = m.Ports()
}

// PortsAs fetches the ports registered for name as T
func PortsAs[T any](name string) (T, bool) {
	mu.RLock()
	v, ok := registry[name]
	mu.RUnlock()
	out, ok2 := v.(T)
	return out, ok && ok2
}

// Names lists registered modules, sorted
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// Reset empties the registry; tests only
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	registry = map[string]any{}
}
