// Package time contains time related helpers
package time

import "time"

// Ptr returns t in UTC as a pointer, or nil when t is zero
// optional timestamps (updated_at, exif taken_at) are stored this way
func Ptr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	u := t.UTC()
	return &u
}
