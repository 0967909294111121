package core

// Device tiers. A tier is the number of waveform bars a viewport of the given
// width class renders; the full tier doubles as the source resolution that
// gets cached and later pooled down for smaller screens.
const (
	TierFull   = 480 //tablets
	TierLarge  = 240
	TierMedium = 120
	TierSmall  = 60
)

// SourceResolution is the amplitude count waveforms are cached at.
const SourceResolution = TierFull

// BarCountForWidth maps a viewport width (in display points) to the bar count
// for that device class.
func BarCountForWidth(width float64) int {
	switch {
	case width >= 768:
		return TierFull
	case width >= 390:
		return TierLarge
	case width >= 360:
		return TierMedium
	default:
		return TierSmall
	}
}
