package core

// DownsampleMax reduces data to target values using max-pooling: the input is
// split into target buckets along floating-point boundaries and each output
// value is the maximum of its bucket. Peaks survive pooling, which is what a
// bar display cares about - averaging would flatten short transients.
//
// Bucket i covers input indices [floor(i*ratio), floor((i+1)*ratio)). Because
// ratio > 1 whenever pooling actually happens, every bucket holds at least one
// element; the last bucket is clamped to the end of the input so trailing
// samples are never dropped to float truncation.
func DownsampleMax(data []float64, target int) []float64 {
	if len(data) == 0 || target <= 0 {
		return []float64{}
	}

	//no upsampling: a shorter source is returned as-is
	if target >= len(data) {
		return data
	}

	ratio := float64(len(data)) / float64(target)
	out := make([]float64, target)

	for i := 0; i < target; i++ {
		start := int(float64(i) * ratio)
		end := int(float64(i+1) * ratio)
		if i == target-1 || end > len(data) {
			end = len(data)
		}

		max := data[start]
		for j := start + 1; j < end; j++ {
			if data[j] > max {
				max = data[j]
			}
		}
		out[i] = max
	}

	return out
}
