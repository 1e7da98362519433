package service

import "time"

// Clock abstracts time.Now so services can be tested with a fixed time
type Clock interface {
	Now() time.Time
}

// RealClock is the Clock used in production
type RealClock struct{}

// Now returns the current time
func (RealClock) Now() time.Time {
	return time.Now()
}
