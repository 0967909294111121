package fileformat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ConvertToWAV shells out to ffmpeg to transcode any input format into 16-bit
// mono/stereo PCM WAV. Returns the path of the converted file; the caller owns
// cleanup.
func ConvertToWAV(ctx context.Context, inputFilePath string, channels int) (wavFilePath string, err error) {
	//verifying file path
	_, err = os.Stat(inputFilePath)
	if err != nil {
		return "", fmt.Errorf("input file does not exist: %v", err)
	}

	//checking channel, safe proofing it to 1 if it's not 1 or 2.
	if channels < 1 || channels > 2 {
		channels = 1
	}

	fileExt := filepath.Ext(inputFilePath)
	outputFile := strings.TrimSuffix(inputFilePath, fileExt) + "_cnv.wav"

	cmd := exec.CommandContext(
		ctx,
		"ffmpeg",
		"-y",                //overwrites output file without asking
		"-i", inputFilePath, //input file path
		"-c", "pcm_s16le", //Pulse Code Modulation signed 16 bit little endian => uncompressed raw audio
		"-ar", "44100", //sample rate
		"-ac", fmt.Sprint(channels),
		outputFile,
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("failed to convert into wav, err: %v, output: %v", err, string(output))
	}

	return outputFile, nil
}

//audio stream/container info, json structure returned by ffprobe

type FFMPEGMetaData struct {
	Streams []struct {
		Index      int    `json:"index"`
		CodecName  string `json:"codec_name"`
		CodecType  string `json:"codec_type"`
		SampleRate string `json:"sample_rate"`
		Channels   int    `json:"channels"`
		Duration   string `json:"duration"`
		BitRate    string `json:"bit_rate"`
	} `json:"streams"`
	Format struct {
		FormatName string `json:"format_name"`
		Duration   string `json:"duration"`
		Size       string `json:"size"`
		BitRate    string `json:"bit_rate"`
	} `json:"format"`
}

// GetMetadata probes an audio file with ffprobe.
func GetMetadata(ctx context.Context, filepath string) (FFMPEGMetaData, error) {
	var metadata FFMPEGMetaData

	//no warnings or errors printed, json format, only the format and streams of the file
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format", "-show_streams",
		filepath,
	)

	var out bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		return metadata, fmt.Errorf("ffprobe failed: %v: %s", err, stderr.String())
	}

	err = json.Unmarshal(out.Bytes(), &metadata)
	if err != nil {
		return metadata, err
	}

	return metadata, nil
}
