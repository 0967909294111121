package core

import (
	"math"
	"math/rand"
)

// SyntheticWaveform produces a stand-in amplitude series for when both the
// remote and on-device paths fail. The shape is a sum of two slow sine
// components with bounded jitter, seeded from the track so the same track
// always renders the same plausible contour instead of an error state.
func SyntheticWaveform(seed int64, count int) []float64 {
	if count <= 0 {
		return []float64{}
	}

	rng := rand.New(rand.NewSource(seed))
	out := make([]float64, count)

	for i := range out {
		phase := float64(i) / float64(count)
		base := 0.55 +
			0.25*math.Sin(2*math.Pi*3*phase) +
			0.10*math.Sin(2*math.Pi*7*phase+1.3)
		jitter := (rng.Float64() - 0.5) * 0.12

		v := base + jitter
		if v < normFloor {
			v = normFloor
		}
		if v > 1.0 {
			v = 1.0
		}
		out[i] = v
	}

	return out
}
