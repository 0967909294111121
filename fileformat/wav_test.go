package fileformat_test

import (
	"encoding/binary"
	"math"
	"path/filepath"
	"testing"

	"waveline/fileformat"
)

// sineBytes renders a mono 16-bit sine tone as little-endian PCM.
func sineBytes(freq float64, sampleRate, n int) []byte {
	data := make([]byte, n*2)
	for i := 0; i < n; i++ {
		v := math.Sin(2 * math.Pi * freq * float64(i) / float64(sampleRate))
		sample := int16(v * 30000)
		binary.LittleEndian.PutUint16(data[i*2:], uint16(sample))
	}
	return data
}

func TestWriteAndLoadWav(t *testing.T) {
	sampleRate := 44100
	n := sampleRate / 2 //half a second
	raw := sineBytes(440, sampleRate, n)

	path := filepath.Join(t.TempDir(), "tone.wav")
	if err := fileformat.WriteWavFile(path, raw, sampleRate, 1, 16); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	samples, gotRate, err := fileformat.LoadWAVFile(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if gotRate != sampleRate {
		t.Errorf("expected sample rate %d, got %d", sampleRate, gotRate)
	}
	if len(samples) != n {
		t.Errorf("expected %d samples, got %d", n, len(samples))
	}

	//peak of a 30000/32768 sine should be close to 0.9155
	peak := 0.0
	for _, s := range samples {
		if a := math.Abs(s); a > peak {
			peak = a
		}
	}
	if peak < 0.9 || peak > 0.93 {
		t.Errorf("expected peak near 0.9155, got %v", peak)
	}
}

func TestWriteWavFile_RejectsBadParams(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.wav")

	tests := []struct {
		name       string
		sampleRate int
		channels   int
		bits       int
	}{
		{"zero sample rate", 0, 1, 16},
		{"zero channels", 44100, 0, 16},
		{"zero bit depth", 44100, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := fileformat.WriteWavFile(path, []byte{0, 0}, tt.sampleRate, tt.channels, tt.bits)
			if err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestWavBytesToSamples(t *testing.T) {
	//0x7FFF is full scale positive, 0x8000 is full scale negative
	data := []byte{0xFF, 0x7F, 0x00, 0x80, 0x00, 0x00}

	samples, err := fileformat.WavBytesToSamples(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(samples) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(samples))
	}

	if samples[0] < 0.999 || samples[0] > 1.0 {
		t.Errorf("expected near 1.0, got %v", samples[0])
	}
	if samples[1] != -1.0 {
		t.Errorf("expected -1.0, got %v", samples[1])
	}
	if samples[2] != 0 {
		t.Errorf("expected 0, got %v", samples[2])
	}
}

func TestWavBytesToSamples_IncompleteData(t *testing.T) {
	if _, err := fileformat.WavBytesToSamples([]byte{0x01}); err == nil {
		t.Error("expected an error for odd byte count")
	}
}
