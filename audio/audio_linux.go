//go:build linux

package audio

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/jfreymuth/pulse"
)

type pulseContext struct {
	client *pulse.Client
}

func NewContext() (Context, error) {
	c, err := pulse.NewClient()
	if err != nil {
		return nil, fmt.Errorf("pulse: %w", err)
	}
	return &pulseContext{client: c}, nil
}

func (p *pulseContext) NewPlayback(config PlaybackConfig) (PlaybackDevice, error) {
	return &pulsePlayback{
		client: p.client,
		config: config,
	}, nil
}

func (p *pulseContext) Close() {
	p.client.Close()
}

type pulsePlayback struct {
	client   *pulse.Client
	config   PlaybackConfig
	callback atomic.Pointer[RenderCallback]

	mu      sync.Mutex
	stream  *pulse.PlaybackStream
	started bool
}

func (d *pulsePlayback) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started {
		return nil
	}

	channels := int(d.config.Channels)
	reader := pulse.Float32Reader(func(out []float32) (int, error) {
		cb := d.callback.Load()
		if cb == nil {
			for i := range out {
				out[i] = 0
			}
			return len(out), nil
		}
		(*cb)(out, uint32(len(out)/channels))
		return len(out), nil
	})

	stream, err := d.client.NewPlayback(reader,
		pulse.PlaybackStereo,
		pulse.PlaybackSampleRate(int(d.config.SampleRate)),
		pulse.PlaybackLatency(0.05),
	)
	if err != nil {
		return fmt.Errorf("pulse playback: %w", err)
	}

	d.stream = stream
	d.started = true
	stream.Start()
	return nil
}

func (d *pulsePlayback) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.started {
		return
	}
	d.stream.Stop()
	d.stream.Close()
	d.stream = nil
	d.started = false
}

func (d *pulsePlayback) Close() {
	d.Stop()
}

func (d *pulsePlayback) SetCallback(cb RenderCallback) {
	d.callback.Store(&cb)
}

func (d *pulsePlayback) ClearCallback() {
	d.callback.Store(nil)
}
