package core

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mdobak/go-xerrors"
	"golang.org/x/sync/singleflight"

	"waveline/cache"
	"waveline/utils"
)

// Fetcher retrieves a pre-computed source-resolution amplitude series for a
// content ID from the platform API.
type Fetcher interface {
	Waveform(ctx context.Context, contentID string) ([]float64, error)
}

// Extractor computes an amplitude series of count values from a local audio
// file. Swappable so tests run without audio fixtures.
type Extractor func(ctx context.Context, path string, count int) ([]float64, error)

// Track describes one audio item the orchestrator can resolve a waveform for.
type Track struct {
	URL        string  //source URL, also the cache key
	ContentID  string  //identifier on the pre-computed waveform endpoint, if any
	LocalPath  string  //local or downloaded audio file, if any
	Duration   float64 //seconds
	SpokenWord bool    //use the spectral profile instead of raw peaks
}

// Service resolves display-ready waveforms. Branches are tried in strict
// priority order: cache, remote pre-computed data, on-device extraction, and
// finally a synthetic stand-in. The contract is that callers always get a
// non-empty series of the requested tier and never an error - failures are
// logged and swallowed because the waveform is cosmetic, not load-bearing.
type Service struct {
	cache    *cache.WaveformCache
	remote   Fetcher
	extract  Extractor
	spectral Extractor
	group    singleflight.Group
}

// NewService builds an orchestrator. cache and remote may be nil; the matching
// branches are skipped.
func NewService(waveformCache *cache.WaveformCache, remote Fetcher) *Service {
	return &Service{
		cache:    waveformCache,
		remote:   remote,
		extract:  ExtractFromFile,
		spectral: ExtractSpectralFromFile,
	}
}

// Waveform returns a normalized amplitude series sized for the given viewport
// width. Concurrent calls for the same track and tier share one resolution.
func (s *Service) Waveform(ctx context.Context, track Track, width float64) []float64 {
	count := BarCountForWidth(width)

	result, _, _ := s.group.Do(fmt.Sprintf("%s|%d", track.URL, count), func() (any, error) {
		return s.resolve(ctx, track, count), nil
	})

	series, ok := result.([]float64)
	if !ok || len(series) == 0 {
		return SyntheticWaveform(cache.HashURL(track.URL), count)
	}
	return series
}

func (s *Service) resolve(ctx context.Context, track Track, count int) []float64 {
	logger := utils.GetLogger()

	// 1. cached source-resolution series
	if s.cache != nil {
		if amps, ok := s.cache.Lookup(track.URL); ok {
			return NormalizeAmplitudes(DownsampleMax(amps, count))
		}
	}

	//caller is gone - skip the I/O branches and hand back the cheap fallback
	if ctx.Err() != nil {
		return SyntheticWaveform(cache.HashURL(track.URL), count)
	}

	// 2. pre-computed remote waveform at source resolution
	if s.remote != nil && track.ContentID != "" {
		amps, err := s.remote.Waveform(ctx, track.ContentID)
		if err != nil {
			logger.ErrorContext(ctx, "Remote waveform fetch failed.",
				slog.Any("error", xerrors.New(err)),
				slog.String("contentID", track.ContentID))
		} else if len(amps) > 0 {
			s.persist(ctx, track.URL, amps)
			return NormalizeAmplitudes(DownsampleMax(amps, count))
		}
	}

	if ctx.Err() != nil {
		return SyntheticWaveform(cache.HashURL(track.URL), count)
	}

	// 3. on-device extraction from the local audio file
	if track.LocalPath != "" {
		extract := s.extract
		if track.SpokenWord {
			extract = s.spectral
		}

		amps, err := extract(ctx, track.LocalPath, SourceResolution)
		if err != nil {
			logger.ErrorContext(ctx, "On-device waveform extraction failed.",
				slog.Any("error", xerrors.New(err)),
				slog.String("path", track.LocalPath))
		} else if len(amps) > 0 {
			s.persist(ctx, track.URL, amps)
			return NormalizeAmplitudes(DownsampleMax(amps, count))
		}
	}

	// 4. synthetic stand-in: the UI never sees a hard error
	return SyntheticWaveform(cache.HashURL(track.URL), count)
}

// persist writes through to the cache; a failed write is just a future miss.
func (s *Service) persist(ctx context.Context, url string, amps []float64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Put(url, amps); err != nil {
		utils.GetLogger().ErrorContext(ctx, "Waveform cache write failed.",
			slog.Any("error", xerrors.New(err)))
	}
}
