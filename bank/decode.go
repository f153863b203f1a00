package bank

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
)

const wavFormatIEEEFloat = 3

// decodeFile fully decodes one audio file and converts it to the
// canonical format.
func decodeFile(path string) (*Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	var (
		samples  []float32
		rate     int
		channels int
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		samples, rate, channels, err = decodeWAV(f)
	case ".mp3":
		samples, rate, channels, err = decodeMP3(f)
	case ".ogg":
		samples, rate, channels, err = decodeOGG(f)
	default:
		err = fmt.Errorf("unrecognized extension")
	}
	if err != nil {
		return nil, err
	}
	if rate <= 0 || channels <= 0 {
		return nil, fmt.Errorf("invalid format: rate=%d channels=%d", rate, channels)
	}

	return &Clip{
		Name:    filepath.Base(path),
		Samples: toCanonical(samples, rate, channels),
	}, nil
}

func decodeWAV(r io.ReadSeeker) ([]float32, int, int, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return nil, 0, 0, fmt.Errorf("not a valid wav file")
	}

	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, 0, 0, fmt.Errorf("wav decode: %w", err)
	}

	bitDepth := buf.SourceBitDepth
	if bitDepth == 0 {
		bitDepth = int(d.BitDepth)
	}

	samples := make([]float32, len(buf.Data))
	switch {
	case d.WavAudioFormat == wavFormatIEEEFloat:
		// The PCM buffer carries the raw float bit patterns as ints.
		switch bitDepth {
		case 32:
			for i, v := range buf.Data {
				samples[i] = math.Float32frombits(uint32(v))
			}
		case 64:
			for i, v := range buf.Data {
				samples[i] = float32(math.Float64frombits(uint64(v)))
			}
		default:
			return nil, 0, 0, fmt.Errorf("wav decode: unsupported float bit depth %d", bitDepth)
		}

	case bitDepth == 8:
		// 8-bit PCM is unsigned; silence sits at 128.
		for i, v := range buf.Data {
			samples[i] = (float32(v) - 128) / 128
		}

	case bitDepth > 8 && bitDepth <= 32:
		scale := float32(int64(1) << (bitDepth - 1))
		for i, v := range buf.Data {
			samples[i] = float32(v) / scale
		}

	default:
		return nil, 0, 0, fmt.Errorf("wav decode: unsupported bit depth %d", bitDepth)
	}

	return samples, buf.Format.SampleRate, buf.Format.NumChannels, nil
}

func decodeMP3(r io.Reader) ([]float32, int, int, error) {
	d, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("mp3 decode: %w", err)
	}

	// go-mp3 always emits 16-bit little-endian stereo.
	pcm, err := io.ReadAll(d)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("mp3 read: %w", err)
	}

	samples := make([]float32, len(pcm)/2)
	for i := range samples {
		v := int16(uint16(pcm[2*i]) | uint16(pcm[2*i+1])<<8)
		samples[i] = float32(v) / 32768.0
	}
	return samples, d.SampleRate(), 2, nil
}

func decodeOGG(r io.Reader) ([]float32, int, int, error) {
	samples, format, err := oggvorbis.ReadAll(r)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("ogg decode: %w", err)
	}
	return samples, format.SampleRate, format.Channels, nil
}
