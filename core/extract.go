package core

import (
	"context"
	"fmt"
	"math"

	"waveline/fileformat"
)

// ExtractFromFile computes an amplitude series of count values from a local
// audio file by max-pooling the rectified PCM signal. WAV and MP3 decode
// natively; other formats go through the ffmpeg conversion fallback.
func ExtractFromFile(ctx context.Context, path string, count int) ([]float64, error) {
	samples, _, err := fileformat.LoadAudioFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("could not load %s: %w", path, err)
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("no samples decoded from %s", path)
	}

	//rectify - display amplitude is absolute deviation from silence
	peaks := make([]float64, len(samples))
	for i, s := range samples {
		peaks[i] = math.Abs(s)
	}

	return DownsampleMax(peaks, count), nil
}

// ExtractSpectralFromFile is the spoken-word variant of ExtractFromFile: the
// series comes from windowed spectral energy instead of raw peaks.
func ExtractSpectralFromFile(ctx context.Context, path string, count int) ([]float64, error) {
	samples, _, err := fileformat.LoadAudioFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("could not load %s: %w", path, err)
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("no samples decoded from %s", path)
	}

	return SpectralLoudness(samples, count), nil
}
