// Package engine contains the real-time playback core: the voice mixer,
// the preset bank cache and the engine façade that ties them to the
// output device.
package engine

import (
	"math"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"klack/audio"
	"klack/bank"
)

// Engine owns the output device and exposes the one hot-path operation,
// Trigger. A failed device never takes the process down: the engine
// degrades to a disabled no-op and keeps the error for diagnostics.
type Engine struct {
	ctx   audio.Context
	mixer *Mixer
	cache *Cache

	volume   atomic.Uint64 // math.Float64bits, clamped to [0, 1]
	disabled atomic.Bool

	mu      sync.Mutex // control path: device lifecycle, rng, lastErr
	device  audio.PlaybackDevice
	rng     *rand.Rand
	lastErr error
}

// New builds an engine over ctx with the given bank cache. The device
// is not opened until Start.
func New(ctx audio.Context, cache *Cache) *Engine {
	e := &Engine{
		ctx:   ctx,
		mixer: NewMixer(),
		cache: cache,
		rng:   rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), uint64(time.Now().UnixNano())>>32)),
	}
	e.volume.Store(math.Float64bits(1.0))
	e.disabled.Store(true)
	return e
}

// Reseed replaces the clip-selection PRNG, making selection
// deterministic. Intended for tests.
func (e *Engine) Reseed(seed uint64) {
	e.mu.Lock()
	e.rng = rand.New(rand.NewPCG(seed, seed))
	e.mu.Unlock()
}

// Start opens the output device at the canonical format and begins the
// pull callback. On failure the engine stays disabled and the error is
// recorded and returned; the caller decides whether that is fatal (it
// should not be).
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.device != nil {
		return nil
	}

	dev, err := e.ctx.NewPlayback(audio.PlaybackConfig{
		SampleRate: bank.SampleRate,
		Channels:   bank.Channels,
	})
	if err != nil {
		e.lastErr = err
		return err
	}

	dev.SetCallback(func(out []float32, _ uint32) {
		e.mixer.Render(out)
	})
	if err := dev.Start(); err != nil {
		dev.ClearCallback()
		dev.Close()
		e.lastErr = err
		return err
	}

	e.device = dev
	e.disabled.Store(false)
	return nil
}

// Trigger plays one clip from the current bank, chosen uniformly at
// random with replacement, at the current volume. A disabled engine or
// an empty bank makes it a no-op. Safe to call from any thread.
func (e *Engine) Trigger() {
	if e.disabled.Load() {
		return
	}
	b := e.cache.Bank()
	if b.Empty() {
		return
	}

	e.mu.Lock()
	clip := b.Clips[e.rng.IntN(len(b.Clips))]
	e.mu.Unlock()

	e.mixer.Add(clip, float32(e.Volume()))
}

// SetVolume sets the trigger gain, silently clamped to [0, 1]. Already
// playing voices keep the gain they were created with.
func (e *Engine) SetVolume(v float64) {
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	e.volume.Store(math.Float64bits(v))
}

func (e *Engine) Volume() float64 {
	return math.Float64frombits(e.volume.Load())
}

// SetPreset switches the active sound set, synchronously reloading the
// bank. Voices from the previous bank play out undisturbed.
func (e *Engine) SetPreset(p Preset) *bank.Bank {
	return e.cache.SetPreset(p)
}

// SetCustomDir updates the custom folder, reloading when the Custom
// preset is active.
func (e *Engine) SetCustomDir(dir string) *bank.Bank {
	return e.cache.SetCustomDir(dir)
}

func (e *Engine) Preset() Preset    { return e.cache.Preset() }
func (e *Engine) CustomDir() string { return e.cache.CustomDir() }

// Cache exposes the bank cache, e.g. for folder watching.
func (e *Engine) Cache() *Cache { return e.cache }

// Voices reports the number of in-flight voices, for diagnostics.
func (e *Engine) Voices() int { return e.mixer.Voices() }

// Disabled reports whether the engine is in the no-output state.
func (e *Engine) Disabled() bool { return e.disabled.Load() }

// Err returns the last device error, if any.
func (e *Engine) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}

// Close tears the engine down in a fixed order: stop the render
// callback, detach it, release the device. After Close no render call
// can observe freed state. Safe to call on every exit path.
func (e *Engine) Close() {
	e.disabled.Store(true)
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.device == nil {
		return
	}
	e.device.Stop()
	e.device.ClearCallback()
	e.device.Close()
	e.device = nil
}
