package core

const (
	//display floor: the quietest bucket still renders a visible bar
	normFloor = 0.15
	//flat bar height used when the signal has no usable dynamic range
	normFallback = 0.7
	normEpsilon  = 1e-6
)

// NormalizeAmplitudes rescales raw amplitudes so the observed minimum lands on
// the display floor and the observed maximum on 1.0, preserving relative shape.
// A near-constant input (silence, test tones) would divide by ~0, so it maps to
// a uniform fallback bar instead.
func NormalizeAmplitudes(data []float64) []float64 {
	if len(data) == 0 {
		return []float64{}
	}

	min, max := data[0], data[0]
	for _, v := range data[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	out := make([]float64, len(data))

	if max-min < normEpsilon {
		for i := range out {
			out[i] = normFallback
		}
		return out
	}

	scale := (1.0 - normFloor) / (max - min)
	for i, v := range data {
		out[i] = normFloor + (v-min)*scale
	}

	return out
}
