package application

import "time"

// Clock abstraction supaya gampang ditest; record dan fault
// timestamps semuanya lewat sini.
type Clock interface {
	Now() time.Time
}

// SystemClock implementasi default, pakai time.Now()
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
