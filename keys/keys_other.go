//go:build !linux

package keys

import "fmt"

type unsupportedSource struct {
	events chan Event
}

// New returns a source that cannot capture on this platform. Start
// reports the limitation; the rest of the application keeps running.
func New() Source {
	return &unsupportedSource{events: make(chan Event)}
}

func (s *unsupportedSource) Start() error {
	return fmt.Errorf("system-wide key capture is not supported on this platform")
}

func (s *unsupportedSource) Stop() {}

func (s *unsupportedSource) Events() <-chan Event {
	return s.events
}
