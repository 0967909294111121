package fileformat

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

type WavHeader struct {
	ChunkID       [4]byte
	ChunkSize     uint32
	Format        [4]byte
	Subchunk1ID   [4]byte
	Subchunk1Size uint32
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	BytesPerSec   uint32
	BlockAlign    uint16
	BitsPerSample uint16
	Subchunk2ID   [4]byte
	Subchunk2Size uint32
}

func writeWavHeader(file *os.File, data []byte, sampleRate, channels, bitsPerSample int) error {
	if len(data)%channels != 0 {
		return fmt.Errorf("invalid data or invalid no of channels")
	}

	subHeaderChunkSize := uint16(16)
	bytesPerSample := bitsPerSample / 8
	blockAlign := uint16(bytesPerSample * channels)

	header := WavHeader{
		ChunkID:       [4]byte{'R', 'I', 'F', 'F'}, //flag to say this is a RIFF file — read the next chunk sizes and types accordingly.
		ChunkSize:     uint32(36 + len(data)),      //size of header + data
		Format:        [4]byte{'W', 'A', 'V', 'E'}, //flag for format of file type
		Subchunk1ID:   [4]byte{'F', 'M', 'T', ' '}, //flag for meta data format
		Subchunk1Size: uint32(subHeaderChunkSize),
		AudioFormat:   uint16(1), //PCM Format
		NumChannels:   uint16(channels),
		SampleRate:    uint32(sampleRate),
		BytesPerSec:   uint32(channels * sampleRate * bytesPerSample), //streaming speed
		BlockAlign:    blockAlign,
		BitsPerSample: uint16(bitsPerSample),
		Subchunk2ID:   [4]byte{'D', 'A', 'T', 'A'}, //flag for data
		Subchunk2Size: uint32(len(data)),
	}

	//write header into the file
	err := binary.Write(file, binary.LittleEndian, header)
	if err != nil {
		return fmt.Errorf("cannot write header to file: %v", err)
	}

	return nil
}

// WriteWavFile writes raw little-endian PCM bytes with a standard 44-byte header.
func WriteWavFile(filename string, data []byte, sampleRate, channels, bitsPerSample int) error {
	if sampleRate <= 0 || channels <= 0 || bitsPerSample <= 0 {
		return fmt.Errorf(
			"values must be greater than zero (sampleRate: %d, channels: %d, bitsPerSample: %d)",
			sampleRate, channels, bitsPerSample,
		)
	}

	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	//write header
	err = writeWavHeader(f, data, sampleRate, channels, bitsPerSample)
	if err != nil {
		return err
	}

	_, err = f.Write(data)
	if err != nil {
		return err
	}

	return nil
}

// WavBytesToSamples converts 16-bit PCM byte data into normalized
// floating-point samples in the range [-1.0, 1.0].
func WavBytesToSamples(data []byte) ([]float64, error) {
	if len(data)%2 != 0 {
		return nil, errors.New("incomplete data")
	}

	numSamples := len(data) / 2
	output := make([]float64, numSamples)

	for i := 0; i < len(data); i += 2 {
		// Interpret bytes as a 16-bit signed integer (little-endian)
		sample := int16(binary.LittleEndian.Uint16(data[i : i+2]))

		// Scale the sample to the range [-1, 1]
		output[i/2] = float64(sample) / 32768.0
	}

	return output, nil
}

// LoadWAVFile decodes a WAV file into mono float64 samples in [-1, 1] and
// returns the sample rate. Stereo input is averaged down to mono.
func LoadWAVFile(path string) ([]float64, int, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open wav file: %w", err)
	}
	defer file.Close()

	decoder := wav.NewDecoder(file)
	if !decoder.IsValidFile() {
		return nil, 0, fmt.Errorf("invalid wav file")
	}

	format := decoder.Format()
	sampleRate := int(format.SampleRate)
	numChannels := int(format.NumChannels)

	bitDepth := int(decoder.BitDepth)
	if bitDepth == 0 {
		bitDepth = 16
	}
	denom := float64(int64(1) << (bitDepth - 1))

	bufferSize := 8192
	buffer := &audio.IntBuffer{
		Data:   make([]int, bufferSize),
		Format: format,
	}

	var samples []float64
	for {
		n, err := decoder.PCMBuffer(buffer)
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, 0, fmt.Errorf("error reading PCM: %w", err)
		}
		if n == 0 {
			break
		}

		//mix interleaved frames down to mono
		for i := 0; i+numChannels <= n; i += numChannels {
			sum := 0.0
			for c := 0; c < numChannels; c++ {
				sum += float64(buffer.Data[i+c])
			}
			samples = append(samples, sum/float64(numChannels)/denom)
		}

		if n < bufferSize {
			break
		}
	}

	return samples, sampleRate, nil
}
