package fileformat

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/hajimehoshi/go-mp3"
)

// LoadMP3File decodes an MP3 file into mono float64 samples in [-1, 1] and
// returns the sample rate.
func LoadMP3File(path string) ([]float64, int, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open mp3 file: %w", err)
	}
	defer file.Close()

	decoder, err := mp3.NewDecoder(file)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid mp3 file: %w", err)
	}

	sampleRate := decoder.SampleRate()

	//go-mp3 always emits 16-bit little-endian stereo
	raw, err := io.ReadAll(decoder)
	if err != nil {
		return nil, 0, fmt.Errorf("error decoding mp3 stream: %w", err)
	}

	samples := make([]float64, 0, len(raw)/4)
	for i := 0; i+4 <= len(raw); i += 4 {
		left := int16(binary.LittleEndian.Uint16(raw[i : i+2]))
		right := int16(binary.LittleEndian.Uint16(raw[i+2 : i+4]))

		mono := (float64(left) + float64(right)) / 2.0
		samples = append(samples, mono/32768.0)
	}

	return samples, sampleRate, nil
}
