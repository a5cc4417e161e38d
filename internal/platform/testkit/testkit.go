// Package testkit holds the assertions and seams the package tests share
package testkit

import (
	"fmt"
	"strings"
	"sync"
	"testing"
)

var serial sync.Mutex

// Swap replaces a package seam for the rest of the test
func Swap[T any](t *testing.T, target *T, with T) {
	t.Helper()
	orig := *target
	*target = with
	t.Cleanup(func() { *target = orig })
}

// Serial holds a process wide lock until the test ends; tests that Swap take it first
func Serial(t *testing.T) {
	t.Helper()
	serial.Lock()
	t.Cleanup(serial.Unlock)
}

// MustPanic asserts that fn panics and returns the recovered value
func MustPanic(t *testing.T, fn func()) (recovered any) {
	t.Helper()
	func() {
		defer func() { recovered = recover() }()
		fn()
	}()
	if recovered == nil {
		t.Fatalf("expected panic, got none")
	}
	return recovered
}

// MustPanicWith asserts that fn panics with a message containing want
// wiring constructors panic with the name of the missing dependency
func MustPanicWith(t *testing.T, want string, fn func()) {
	t.Helper()
	got := fmt.Sprint(MustPanic(t, fn))
	if !strings.Contains(got, want) {
		t.Fatalf("panic %q does not mention %q", got, want)
	}
}

// MustNotPanic asserts that fn does not panic
func MustNotPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("unexpected panic: %v", r)
		}
	}()
	fn()
}
