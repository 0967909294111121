package fileformat

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"waveline/utils"
)

// LoadAudioFile decodes any supported audio file into mono float64 samples in
// [-1, 1] plus the sample rate. WAV and MP3 decode natively; everything else
// is transcoded through ffmpeg first.
func LoadAudioFile(ctx context.Context, path string) ([]float64, int, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return LoadWAVFile(path)
	case ".mp3":
		return LoadMP3File(path)
	}

	converted, err := ConvertToWAV(ctx, path, 1)
	if err != nil {
		return nil, 0, fmt.Errorf("unsupported format and ffmpeg fallback failed: %w", err)
	}
	defer utils.DeleteFile(converted)

	return LoadWAVFile(converted)
}
