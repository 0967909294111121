package cache

import "fmt"

const keyPrefix = "waveform:"

// HashURL maps a source URL to a stable integer using a 31-multiplier rolling
// hash over int32, the same key scheme older clients wrote entries under. Not
// cryptographic - collisions are tolerable for a waveform cache.
func HashURL(url string) int64 {
	var h int32
	for _, c := range []byte(url) {
		h = h*31 + int32(c)
	}
	return int64(h)
}

// Key returns the namespaced storage key for a source URL. The absolute value
// of the hash is used so keys stay sign-free.
func Key(url string) string {
	h := HashURL(url)
	if h < 0 {
		h = -h
	}
	return fmt.Sprintf("%s%d", keyPrefix, h)
}
