//go:build !linux

package audio

import (
	"encoding/binary"
	"math"
	"sync/atomic"

	"github.com/gen2brain/malgo"
)

type malgoContext struct {
	ctx *malgo.AllocatedContext
}

func NewContext() (Context, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, err
	}
	return &malgoContext{ctx: ctx}, nil
}

func (m *malgoContext) NewPlayback(config PlaybackConfig) (PlaybackDevice, error) {
	d := &malgoPlayback{config: config}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = malgo.FormatF32
	deviceConfig.Playback.Channels = config.Channels
	deviceConfig.SampleRate = config.SampleRate

	callbacks := malgo.DeviceCallbacks{
		Data: func(output, _ []byte, frameCount uint32) {
			d.render(output, frameCount)
		},
	}

	dev, err := malgo.InitDevice(m.ctx.Context, deviceConfig, callbacks)
	if err != nil {
		return nil, err
	}

	d.device = dev
	return d, nil
}

func (m *malgoContext) Close() {
	m.ctx.Uninit()
	m.ctx.Free()
}

type malgoPlayback struct {
	device   *malgo.Device
	config   PlaybackConfig
	callback atomic.Pointer[RenderCallback]

	// buf is touched only by the device data thread.
	buf []float32
}

func (d *malgoPlayback) render(output []byte, frameCount uint32) {
	cb := d.callback.Load()
	if cb == nil {
		for i := range output {
			output[i] = 0
		}
		return
	}

	samples := int(frameCount) * int(d.config.Channels)
	if cap(d.buf) < samples {
		d.buf = make([]float32, samples)
	}
	buf := d.buf[:samples]
	for i := range buf {
		buf[i] = 0
	}

	(*cb)(buf, frameCount)

	for i, s := range buf {
		binary.LittleEndian.PutUint32(output[i*4:], math.Float32bits(s))
	}
}

func (d *malgoPlayback) Start() error {
	return d.device.Start()
}

func (d *malgoPlayback) Stop() {
	d.device.Stop()
}

func (d *malgoPlayback) Close() {
	d.device.Uninit()
}

func (d *malgoPlayback) SetCallback(cb RenderCallback) {
	d.callback.Store(&cb)
}

func (d *malgoPlayback) ClearCallback() {
	d.callback.Store(nil)
}
