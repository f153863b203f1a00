package bank

// toCanonical maps decoded samples to the canonical format: SampleRate,
// Channels interleaved. Channel mapping first, then resampling, so the
// interpolator only ever runs over stereo frames.
func toCanonical(samples []float32, rate, channels int) []float32 {
	stereo := toStereo(samples, channels)
	if rate == SampleRate {
		return stereo
	}
	return resampleStereo(stereo, rate)
}

func toStereo(samples []float32, channels int) []float32 {
	switch channels {
	case Channels:
		return samples
	case 1:
		out := make([]float32, len(samples)*2)
		for i, s := range samples {
			out[2*i] = s
			out[2*i+1] = s
		}
		return out
	default:
		// More than two channels: keep the front pair.
		frames := len(samples) / channels
		out := make([]float32, frames*2)
		for i := 0; i < frames; i++ {
			out[2*i] = samples[i*channels]
			out[2*i+1] = samples[i*channels+1]
		}
		return out
	}
}

// resampleStereo converts interleaved stereo samples from srcRate to
// SampleRate using Catmull-Rom cubic interpolation over each channel.
func resampleStereo(src []float32, srcRate int) []float32 {
	srcFrames := len(src) / Channels
	if srcFrames == 0 {
		return nil
	}

	ratio := float64(srcRate) / float64(SampleRate)
	dstFrames := int(float64(srcFrames) / ratio)
	if dstFrames == 0 {
		dstFrames = 1
	}

	frame := func(i, c int) float32 {
		if i < 0 {
			i = 0
		}
		if i >= srcFrames {
			i = srcFrames - 1
		}
		return src[i*Channels+c]
	}

	out := make([]float32, dstFrames*Channels)
	pos := 0.0
	for i := 0; i < dstFrames; i++ {
		j := int(pos)
		x := float32(pos - float64(j))
		for c := 0; c < Channels; c++ {
			out[i*Channels+c] = cubicInterpolate(
				frame(j-1, c), frame(j, c), frame(j+1, c), frame(j+2, c), x)
		}
		pos += ratio
	}
	return out
}

// cubicInterpolate evaluates a Catmull-Rom spline through four
// consecutive samples at fractional position x in [0, 1).
func cubicInterpolate(y0, y1, y2, y3, x float32) float32 {
	a0 := -0.5*y0 + 1.5*y1 - 1.5*y2 + 0.5*y3
	a1 := y0 - 2.5*y1 + 2*y2 - 0.5*y3
	a2 := -0.5*y0 + 0.5*y2
	a3 := y1

	return a0*x*x*x + a1*x*x + a2*x + a3
}
