package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/mdobak/go-xerrors"

	"waveline/utils"
)

// RetentionWindow is how long a cached waveform stays valid. There is no size
// bound and no proactive eviction: entries are dropped lazily when a read
// finds them stale, or all at once via Clear.
const RetentionWindow = 30 * 24 * time.Hour

type cacheEntry struct {
	Amplitudes []float64 `json:"amplitudes"`
	Timestamp  int64     `json:"timestamp"` //unix milliseconds
}

// WaveformCache stores source-resolution amplitude series keyed by a hash of
// the track URL. The backend is injected so callers construct one cache at
// startup and pass it around instead of reaching for a process-wide singleton.
type WaveformCache struct {
	store Store
}

func NewWaveformCache(store Store) *WaveformCache {
	return &WaveformCache{store: store}
}

// Lookup returns the cached series for url. Entries past the retention window
// are removed and reported as a miss; read and decode errors are logged and
// also treated as misses so a broken cache never breaks playback.
func (c *WaveformCache) Lookup(url string) ([]float64, bool) {
	logger := utils.GetLogger()

	raw, ok, err := c.store.Get(Key(url))
	if err != nil {
		logger.ErrorContext(context.Background(), "waveform cache read failed.",
			slog.Any("error", xerrors.New(err)))
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var entry cacheEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		//corrupt entry - drop it and treat as a miss
		c.store.Remove(Key(url))
		return nil, false
	}

	if time.Since(time.UnixMilli(entry.Timestamp)) > RetentionWindow {
		c.store.Remove(Key(url))
		return nil, false
	}

	return entry.Amplitudes, true
}

// Put stores a freshly computed series under the url's key.
func (c *WaveformCache) Put(url string, amplitudes []float64) error {
	entry := cacheEntry{
		Amplitudes: amplitudes,
		Timestamp:  time.Now().UnixMilli(),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	return c.store.Set(Key(url), string(data))
}

// Clear removes every cached waveform.
func (c *WaveformCache) Clear() error {
	keys, err := c.store.Keys(keyPrefix)
	if err != nil {
		return err
	}

	for _, key := range keys {
		if err := c.store.Remove(key); err != nil {
			return err
		}
	}
	return nil
}
