// Package audio abstracts the platform audio output device behind a
// small pull-based interface. The backend invokes RenderCallback on its
// own thread; callers must treat that thread as real-time and never
// block inside the callback.
package audio

// RenderCallback fills out with interleaved float32 frames. len(out) is
// frames * channels. The backend calls it once per device period; when
// no callback is set the backend emits silence.
type RenderCallback func(out []float32, frames uint32)

type PlaybackConfig struct {
	SampleRate uint32
	Channels   uint32
}

type Context interface {
	NewPlayback(config PlaybackConfig) (PlaybackDevice, error)
	Close()
}

type PlaybackDevice interface {
	Start() error
	Stop()
	Close()
	SetCallback(cb RenderCallback)
	ClearCallback()
}
