package audio

import "sync"

// FakeContext is an in-process backend for tests. Its playback device
// never spawns a render thread; tests drive render cycles explicitly
// with Pump.
type FakeContext struct {
	FailPlayback bool

	mu      sync.Mutex
	devices []*FakePlayback
}

func NewFakeContext() *FakeContext { return &FakeContext{} }

func (f *FakeContext) NewPlayback(config PlaybackConfig) (PlaybackDevice, error) {
	if f.FailPlayback {
		return nil, errNoDevice
	}
	d := &FakePlayback{config: config}
	f.mu.Lock()
	f.devices = append(f.devices, d)
	f.mu.Unlock()
	return d, nil
}

func (f *FakeContext) Close() {}

// Device returns the most recently created playback device.
func (f *FakeContext) Device() *FakePlayback {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.devices) == 0 {
		return nil
	}
	return f.devices[len(f.devices)-1]
}

type fakeError string

func (e fakeError) Error() string { return string(e) }

const errNoDevice = fakeError("no output device")

type FakePlayback struct {
	config PlaybackConfig

	mu      sync.Mutex
	cb      RenderCallback
	started bool
	closed  bool
}

func (d *FakePlayback) Start() error {
	d.mu.Lock()
	d.started = true
	d.mu.Unlock()
	return nil
}

func (d *FakePlayback) Stop() {
	d.mu.Lock()
	d.started = false
	d.mu.Unlock()
}

func (d *FakePlayback) Close() {
	d.mu.Lock()
	d.started = false
	d.closed = true
	d.mu.Unlock()
}

func (d *FakePlayback) SetCallback(cb RenderCallback) {
	d.mu.Lock()
	d.cb = cb
	d.mu.Unlock()
}

func (d *FakePlayback) ClearCallback() {
	d.mu.Lock()
	d.cb = nil
	d.mu.Unlock()
}

func (d *FakePlayback) Started() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.started
}

func (d *FakePlayback) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

// Pump runs one render cycle of the given frame count and returns the
// rendered samples. Silence is returned when no callback is set,
// mirroring the real backends.
func (d *FakePlayback) Pump(frames int) []float32 {
	d.mu.Lock()
	cb := d.cb
	channels := int(d.config.Channels)
	d.mu.Unlock()

	out := make([]float32, frames*channels)
	if cb != nil {
		cb(out, uint32(frames))
	}
	return out
}
