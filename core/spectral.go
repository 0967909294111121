package core

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

const (
	spectralWindow = 1024
	spectralHop    = 512
)

// SpectralLoudness computes a per-window RMS energy series via a short-time
// Fourier transform and pools it down to count values. Raw peak amplitudes on
// heavily compressed spoken-word recordings flatten into a near-constant bar
// row; windowed spectral energy keeps the pauses and emphasis visible.
func SpectralLoudness(samples []float64, count int) []float64 {
	if count <= 0 {
		return []float64{}
	}

	if len(samples) < spectralWindow {
		//too short for an STFT - fall back to plain rectified peaks
		rectified := make([]float64, len(samples))
		for i, s := range samples {
			rectified[i] = math.Abs(s)
		}
		return DownsampleMax(rectified, count)
	}

	//hamming window formulae = 0.54 - 0.46 * cos(2π * i / (N - 1)) || tapers the signal at both ends of the window.
	window := make([]float64, spectralWindow)
	for i := range window {
		window[i] = 0.54 - 0.46*math.Cos(2*math.Pi*float64(i)/(float64(spectralWindow)-1))
	}

	numFrames := (len(samples)-spectralWindow)/spectralHop + 1
	loudness := make([]float64, 0, numFrames)

	frame := make([]float64, spectralWindow)
	for start := 0; start+spectralWindow <= len(samples); start += spectralHop {
		copy(frame, samples[start:start+spectralWindow])

		//apply hamming window
		for j := range window {
			frame[j] *= window[j]
		}

		spectrum := fft.FFTReal(frame)

		var energy float64
		for _, bin := range spectrum[:len(spectrum)/2] {
			mag := cmplx.Abs(bin)
			energy += mag * mag
		}
		loudness = append(loudness, math.Sqrt(energy/float64(spectralWindow)))
	}

	//scale into [0,1] before pooling so callers normalize uniformly afterwards
	peak := 0.0
	for _, v := range loudness {
		if v > peak {
			peak = v
		}
	}
	if peak > 0 {
		for i := range loudness {
			loudness[i] /= peak
		}
	}

	return DownsampleMax(loudness, count)
}
