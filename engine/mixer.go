package engine

import (
	"sync"
	"sync/atomic"

	"klack/bank"
)

// maxVoices caps simultaneous playbacks. When the cap is exceeded the
// oldest voices are dropped first; with sub-500ms clips the cap is only
// reachable under pathological key-repeat rates.
const maxVoices = 64

// voice is one in-flight playback: a read position into an immutable
// clip plus the gain snapshotted at trigger time.
type voice struct {
	clip *bank.Clip
	pos  int // frames consumed
	gain float32
}

// Mixer sums active voices into the output stream.
//
// Add may be called from any thread; Render only from the device render
// callback. The two meet at the pending list, behind a critical section
// that is O(pending) and never spans I/O or the mix loop, so the render
// thread's wait is bounded.
type Mixer struct {
	mu      sync.Mutex
	pending []voice

	// active is owned by the render thread exclusively.
	active []voice

	count atomic.Int32
}

func NewMixer() *Mixer {
	return &Mixer{
		pending: make([]voice, 0, 8),
		active:  make([]voice, 0, maxVoices),
	}
}

// Add enqueues a new voice; it starts playing at the next render cycle.
func (m *Mixer) Add(clip *bank.Clip, gain float32) {
	if clip == nil || clip.Frames() == 0 {
		return
	}
	m.mu.Lock()
	m.pending = append(m.pending, voice{clip: clip, gain: gain})
	m.mu.Unlock()
	m.count.Add(1)
}

// Voices reports the number of live voices (pending plus active).
func (m *Mixer) Voices() int { return int(m.count.Load()) }

// Render mixes one cycle of output into out (interleaved, len(out) =
// frames * bank.Channels), advances every voice and drops the finished
// ones. The result is clamped to [-1, 1].
func (m *Mixer) Render(out []float32) {
	for i := range out {
		out[i] = 0
	}

	m.mu.Lock()
	if len(m.pending) > 0 {
		m.active = append(m.active, m.pending...)
		m.pending = m.pending[:0]
	}
	m.mu.Unlock()

	if over := len(m.active) - maxVoices; over > 0 {
		m.active = append(m.active[:0], m.active[over:]...)
		m.count.Add(int32(-over))
	}

	frames := len(out) / bank.Channels
	for vi := 0; vi < len(m.active); {
		v := &m.active[vi]
		n := v.clip.Frames() - v.pos
		if n > frames {
			n = frames
		}
		base := v.pos * bank.Channels
		for s := 0; s < n*bank.Channels; s++ {
			out[s] += v.clip.Samples[base+s] * v.gain
		}
		v.pos += n

		if v.pos >= v.clip.Frames() {
			m.active[vi] = m.active[len(m.active)-1]
			m.active = m.active[:len(m.active)-1]
			m.count.Add(-1)
		} else {
			vi++
		}
	}

	for i, s := range out {
		if s > 1 {
			out[i] = 1
		} else if s < -1 {
			out[i] = -1
		}
	}
}
