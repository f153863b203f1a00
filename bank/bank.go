// Package bank loads directories of short sound clips into immutable,
// pre-decoded sample banks at the canonical output format.
package bank

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Canonical output format. Every clip is converted to this on load so the
// mixer never has to resample on the render path.
const (
	SampleRate = 48000
	Channels   = 2
)

// Clip is one fully decoded sound: interleaved stereo float32 at
// SampleRate. Immutable after Load; shared read-only by any number of
// in-flight voices.
type Clip struct {
	Name    string
	Samples []float32
}

// Frames returns the clip length in frames.
func (c *Clip) Frames() int { return len(c.Samples) / Channels }

// Bank is the immutable clip set for one directory. An empty bank is a
// valid state (nothing to play), not an error.
type Bank struct {
	Dir     string
	Clips   []*Clip
	Skipped []string // files that failed to decode, kept for diagnostics
}

// Empty reports whether the bank has no playable clips.
func (b *Bank) Empty() bool { return b == nil || len(b.Clips) == 0 }

var decodableExts = map[string]bool{
	".wav": true,
	".mp3": true,
	".ogg": true,
}

// Load decodes every recognized audio file directly inside dir
// (non-recursive) into a new Bank. A missing or unreadable directory
// yields an empty bank; files that fail to decode are recorded in
// Skipped and left out. Clips are ordered by file name.
func Load(dir string) *Bank {
	b := &Bank{Dir: dir}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return b
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if decodableExts[strings.ToLower(filepath.Ext(e.Name()))] {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		clip, err := decodeFile(filepath.Join(dir, name))
		if err != nil {
			b.Skipped = append(b.Skipped, name)
			continue
		}
		if len(clip.Samples) == 0 {
			b.Skipped = append(b.Skipped, name)
			continue
		}
		b.Clips = append(b.Clips, clip)
	}
	return b
}
