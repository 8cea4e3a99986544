package application

import "time"

// Clock abstracts time so service tests can pin timestamps.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production implementation.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }
