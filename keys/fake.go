package keys

import "time"

type FakeSource struct {
	events chan Event
}

func NewFake() *FakeSource {
	return &FakeSource{events: make(chan Event, 64)}
}

func (f *FakeSource) Start() error { return nil }
func (f *FakeSource) Stop()        {}

func (f *FakeSource) Events() <-chan Event { return f.events }

func (f *FakeSource) Press(code uint16) {
	f.events <- Event{Code: code, When: time.Now()}
}
