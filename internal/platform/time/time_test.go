package time

import (
	"testing"
	"time"
)

func TestPtr(t *testing.T) {
	t.Parallel()
	if Ptr(time.Time{}) != nil {
		t.Fatal("zero time should be nil")
	}
	local := time.Date(2024, 5, 1, 11, 0, 0, 0, time.FixedZone("CEST", 2*3600))
	p := Ptr(local)
	if p == nil || p.Location() != time.UTC || !p.Equal(local) {
		t.Fatalf("Ptr = %v", p)
	}
}
