package main

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/gordonklaus/portaudio"
)

const recordSampleRate = 44100

// record captures mono 16-bit audio from the default input device.
func record(duration time.Duration) ([]int16, error) {
	err := portaudio.Initialize()
	if err != nil {
		return nil, fmt.Errorf("portaudio failed to initialize: %v", err)
	}
	defer portaudio.Terminate()

	inputDevice, err := portaudio.DefaultInputDevice()
	if err != nil {
		return nil, fmt.Errorf("failed to get default input device: %v", err)
	}

	parameters := portaudio.HighLatencyParameters(inputDevice, nil)
	parameters.Input.Channels = 1
	parameters.SampleRate = recordSampleRate

	buffer := make([]int16, 1024)
	stream, err := portaudio.OpenStream(parameters, buffer)
	if err != nil {
		return nil, fmt.Errorf("could not open input stream: %v", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return nil, fmt.Errorf("input stream failed to start: %v", err)
	}
	defer stream.Stop()

	fmt.Printf("Recording for %s...\n", duration)

	var allAudioData []int16
	startTime := time.Now()
	for time.Since(startTime) < duration {
		if err := stream.Read(); err != nil {
			return allAudioData, fmt.Errorf("recording failed: %v", err)
		}
		allAudioData = append(allAudioData, buffer...)
	}

	return allAudioData, nil
}

// int16Bytes packs samples as little-endian PCM for the WAV writer.
func int16Bytes(samples []int16) []byte {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, samples)
	return buf.Bytes()
}
