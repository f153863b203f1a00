// Package keys delivers system-wide physical key-down events,
// independent of window focus. Delivery thread is unspecified; consumers
// read from the Events channel and must tolerate bursts (the channel is
// buffered and sends never block the capture side).
package keys

import "time"

// Event is one physical key press. Code is the platform key code;
// repeats and releases are filtered at the source.
type Event struct {
	Code uint16
	When time.Time
}

type Source interface {
	Start() error
	Stop()
	Events() <-chan Event
}
