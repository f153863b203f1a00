package engine

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"klack/audio"
	"klack/bank"
)

// writeWAV writes a minimal PCM16 WAV file where every sample holds val.
func writeWAV(t *testing.T, path string, frames, channels, rate int, val int16) {
	t.Helper()
	dataLen := frames * channels * 2

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+dataLen))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(channels))
	binary.Write(&buf, binary.LittleEndian, uint32(rate))
	binary.Write(&buf, binary.LittleEndian, uint32(rate*channels*2))
	binary.Write(&buf, binary.LittleEndian, uint16(channels*2))
	binary.Write(&buf, binary.LittleEndian, uint16(16))
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(dataLen))
	for i := 0; i < frames*channels; i++ {
		binary.Write(&buf, binary.LittleEndian, val)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
}

// newCustomEngine builds an engine over a fake device whose bank holds
// one constant-amplitude clip per entry of clips (name -> PCM value).
func newCustomEngine(t *testing.T, fc *audio.FakeContext, clips map[string]int16) *Engine {
	t.Helper()
	dir := t.TempDir()
	for name, val := range clips {
		writeWAV(t, filepath.Join(dir, name), 32, bank.Channels, bank.SampleRate, val)
	}

	e := New(fc, NewCache(t.TempDir()))
	e.SetCustomDir(dir)
	b := e.SetPreset(PresetCustom)
	if len(b.Clips) != len(clips) {
		t.Fatalf("loaded %d clips, want %d (skipped: %v)", len(b.Clips), len(clips), b.Skipped)
	}
	return e
}

func TestEngineStartDeviceFailure(t *testing.T) {
	fc := audio.NewFakeContext()
	fc.FailPlayback = true

	e := newCustomEngine(t, fc, map[string]int16{"a.wav": 16384})
	if err := e.Start(); err == nil {
		t.Fatal("Start() = nil, want device error")
	}
	if !e.Disabled() {
		t.Fatal("engine not disabled after device failure")
	}
	if e.Err() == nil {
		t.Fatal("Err() = nil after device failure")
	}

	e.Trigger()
	if got := e.Voices(); got != 0 {
		t.Fatalf("Voices() = %d after disabled trigger, want 0", got)
	}
}

func TestEngineTriggerEmptyBank(t *testing.T) {
	fc := audio.NewFakeContext()
	e := New(fc, NewCache(t.TempDir()))
	if err := e.Start(); err != nil {
		t.Fatal(err)
	}
	defer e.Close()

	e.SetPreset(PresetBlue) // directory does not exist, bank is empty
	e.Trigger()
	if got := e.Voices(); got != 0 {
		t.Fatalf("Voices() = %d after empty-bank trigger, want 0", got)
	}
}

func TestEngineTriggerMixesClip(t *testing.T) {
	fc := audio.NewFakeContext()
	e := newCustomEngine(t, fc, map[string]int16{"a.wav": 16384}) // 0.5
	if err := e.Start(); err != nil {
		t.Fatal(err)
	}
	defer e.Close()

	e.Trigger()
	if got := e.Voices(); got != 1 {
		t.Fatalf("Voices() = %d, want 1", got)
	}

	out := fc.Device().Pump(32)
	if math.Abs(float64(out[0])-0.5) > 1e-4 {
		t.Fatalf("out[0] = %v, want 0.5", out[0])
	}
	if got := e.Voices(); got != 0 {
		t.Fatalf("Voices() = %d after full playout, want 0", got)
	}
}

func TestEngineVolumeClamp(t *testing.T) {
	e := New(audio.NewFakeContext(), NewCache(t.TempDir()))
	cases := []struct{ in, want float64 }{
		{-0.3, 0},
		{0, 0},
		{0.5, 0.5},
		{1, 1},
		{1.7, 1},
	}
	for _, c := range cases {
		e.SetVolume(c.in)
		if got := e.Volume(); got != c.want {
			t.Errorf("SetVolume(%v): Volume() = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestEngineVolumeSnapshotPerTrigger(t *testing.T) {
	fc := audio.NewFakeContext()
	e := newCustomEngine(t, fc, map[string]int16{"a.wav": 16384})
	if err := e.Start(); err != nil {
		t.Fatal(err)
	}
	defer e.Close()

	e.SetVolume(0.5)
	e.Trigger()
	e.SetVolume(1) // must not affect the already running voice

	out := fc.Device().Pump(32)
	if math.Abs(float64(out[0])-0.25) > 1e-4 {
		t.Fatalf("out[0] = %v, want 0.25 (gain from trigger time)", out[0])
	}
}

func TestEngineDeterministicSelection(t *testing.T) {
	clips := map[string]int16{"a.wav": 8192, "b.wav": 16384}

	sequence := func(seed uint64) []float32 {
		fc := audio.NewFakeContext()
		e := newCustomEngine(t, fc, clips)
		if err := e.Start(); err != nil {
			t.Fatal(err)
		}
		defer e.Close()
		e.Reseed(seed)

		peaks := make([]float32, 0, 64)
		for i := 0; i < 64; i++ {
			e.Trigger()
			out := fc.Device().Pump(32)
			peaks = append(peaks, out[0])
		}
		return peaks
	}

	a := sequence(7)
	b := sequence(7)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("trigger %d: %v vs %v, selection not deterministic for equal seeds", i, a[i], b[i])
		}
	}

	low, high := false, false
	for _, p := range a {
		if math.Abs(float64(p)-0.25) < 1e-4 {
			low = true
		}
		if math.Abs(float64(p)-0.5) < 1e-4 {
			high = true
		}
	}
	if !low || !high {
		t.Fatalf("only one clip ever selected across 64 triggers: %v", a)
	}
}

func TestEngineBankSwapKeepsPlayingVoice(t *testing.T) {
	fc := audio.NewFakeContext()
	e := newCustomEngine(t, fc, map[string]int16{"a.wav": 16384})
	if err := e.Start(); err != nil {
		t.Fatal(err)
	}
	defer e.Close()

	e.Trigger()
	e.SetPreset(PresetBlue) // missing directory, new bank is empty

	out := fc.Device().Pump(32)
	if math.Abs(float64(out[0])-0.5) > 1e-4 {
		t.Fatalf("out[0] = %v after bank swap, want voice to play out", out[0])
	}

	e.Trigger()
	if got := e.Voices(); got != 0 {
		t.Fatalf("Voices() = %d after trigger on empty bank, want 0", got)
	}
}

func TestEngineStartIdempotent(t *testing.T) {
	fc := audio.NewFakeContext()
	e := newCustomEngine(t, fc, map[string]int16{"a.wav": 16384})
	if err := e.Start(); err != nil {
		t.Fatal(err)
	}
	defer e.Close()

	dev := fc.Device()
	if err := e.Start(); err != nil {
		t.Fatal(err)
	}
	if fc.Device() != dev {
		t.Fatal("second Start opened a second device")
	}
	if !dev.Started() || dev.Closed() {
		t.Fatal("second Start disturbed the running device")
	}
}

func TestEngineClose(t *testing.T) {
	fc := audio.NewFakeContext()
	e := newCustomEngine(t, fc, map[string]int16{"a.wav": 16384})
	if err := e.Start(); err != nil {
		t.Fatal(err)
	}

	dev := fc.Device()
	if !dev.Started() {
		t.Fatal("device not started after Start")
	}

	e.Close()
	if dev.Started() {
		t.Fatal("device still running after Close")
	}
	if !dev.Closed() {
		t.Fatal("device not closed after Close")
	}

	e.Trigger()
	if got := e.Voices(); got != 0 {
		t.Fatalf("Voices() = %d after Close, want 0", got)
	}

	e.Close() // idempotent
}
