package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mdobak/go-xerrors"

	"waveline/cache"
	"waveline/utils"
)

const (
	persistKey   = "downloads:queue"
	maxRetries   = 3
	retryBackoff = 2 * time.Second
	//persist byte counters at most once per this many bytes so a crash
	//mid-download resumes close to where it stopped
	progressStep = 256 * 1024
)

// Service manages the sermon download queue. One item downloads at a time -
// the single-active-download rule is enforced here, not left to convention.
// State is persisted through the shared key-value store after every
// transition.
type Service struct {
	mu           sync.Mutex
	items        []*Item
	store        cache.Store
	downloadDir  string
	client       *http.Client
	active       string //ID of the item holding the download slot, "" if none
	cancelActive context.CancelFunc
	onUpdate     func(Item)
}

// NewService restores any persisted queue from the store. Items that were
// mid-download when the previous session died go back to queued; their byte
// counters are kept so the fetch resumes with a Range request.
func NewService(store cache.Store, downloadDir string) *Service {
	s := &Service{
		store:       store,
		downloadDir: downloadDir,
		//no client timeout: sermon files are large, cancellation runs
		//through the per-download context instead
		client: &http.Client{},
	}
	s.load()
	return s
}

// SetUpdateCallback registers a listener for item transitions and progress.
// The callback receives a copy and must not call back into the service.
func (s *Service) SetUpdateCallback(callback func(Item)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onUpdate = callback
}

// Enqueue adds a URL to the queue and starts it if the slot is free.
func (s *Service) Enqueue(rawURL, title string) (Item, error) {
	s.mu.Lock()

	for _, it := range s.items {
		if it.URL == rawURL && !it.Status.IsFinished() {
			s.mu.Unlock()
			return Item{}, fmt.Errorf("already queued: %s", rawURL)
		}
	}

	item := &Item{
		ID:         uuid.NewString(),
		URL:        rawURL,
		Title:      title,
		Status:     StatusQueued,
		BytesTotal: -1,
		EnqueuedAt: time.Now().UnixMilli(),
	}
	s.items = append(s.items, item)
	s.persistLocked()

	snap := *item
	shouldStart := s.active == ""
	s.mu.Unlock()

	s.notify(snap)
	if shouldStart {
		s.startNext()
	}
	return snap, nil
}

// Pause takes a queued or downloading item out of rotation.
func (s *Service) Pause(id string) error {
	s.mu.Lock()

	item := s.findLocked(id)
	if item == nil {
		s.mu.Unlock()
		return fmt.Errorf("item not found: %s", id)
	}

	switch item.Status {
	case StatusDownloading:
		item.Status = StatusPaused
		s.persistLocked()
		cancel := s.cancelActive
		snap := *item
		s.mu.Unlock()

		s.notify(snap)
		if cancel != nil {
			cancel()
		}
		return nil

	case StatusQueued:
		item.Status = StatusPaused
		s.persistLocked()
		snap := *item
		s.mu.Unlock()

		s.notify(snap)
		return nil
	}

	s.mu.Unlock()
	return fmt.Errorf("cannot pause item in state %s", item.Status)
}

// Resume puts a paused or failed item back in the queue. A failed item gets
// its retry budget back.
func (s *Service) Resume(id string) error {
	s.mu.Lock()

	item := s.findLocked(id)
	if item == nil {
		s.mu.Unlock()
		return fmt.Errorf("item not found: %s", id)
	}

	if item.Status != StatusPaused && item.Status != StatusFailed {
		s.mu.Unlock()
		return fmt.Errorf("cannot resume item in state %s", item.Status)
	}

	if item.Status == StatusFailed {
		item.Retries = 0
		item.LastError = ""
	}
	item.Status = StatusQueued
	s.persistLocked()

	snap := *item
	shouldStart := s.active == ""
	s.mu.Unlock()

	s.notify(snap)
	if shouldStart {
		s.startNext()
	}
	return nil
}

// Dequeue removes an item. A partial download file is deleted; a completed
// one is kept.
func (s *Service) Dequeue(id string) error {
	s.mu.Lock()

	idx := -1
	for i, it := range s.items {
		if it.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		s.mu.Unlock()
		return fmt.Errorf("item not found: %s", id)
	}

	item := s.items[idx]
	var cancel context.CancelFunc
	if s.active == id {
		cancel = s.cancelActive
	}

	s.items = append(s.items[:idx], s.items[idx+1:]...)
	s.persistLocked()

	removePartial := item.Status != StatusCompleted && item.LocalPath != ""
	path := item.LocalPath
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if removePartial {
		os.Remove(path)
	}
	return nil
}

// Clear cancels any active download and empties the queue.
func (s *Service) Clear() error {
	s.mu.Lock()
	cancel := s.cancelActive
	s.items = nil
	s.persistLocked()
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	return nil
}

// Items returns a snapshot of the queue in enqueue order.
func (s *Service) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Item, len(s.items))
	for i, it := range s.items {
		out[i] = *it
	}
	return out
}

func (s *Service) findLocked(id string) *Item {
	for _, it := range s.items {
		if it.ID == id {
			return it
		}
	}
	return nil
}

func (s *Service) notify(item Item) {
	s.mu.Lock()
	callback := s.onUpdate
	s.mu.Unlock()

	if callback != nil {
		callback(item)
	}
}

// load restores the persisted flat list.
func (s *Service) load() {
	raw, ok, err := s.store.Get(persistKey)
	if err != nil {
		utils.GetLogger().ErrorContext(context.Background(),
			"Failed to read persisted queue.", slog.Any("error", xerrors.New(err)))
		return
	}
	if !ok {
		return
	}

	var items []*Item
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		utils.GetLogger().ErrorContext(context.Background(),
			"Persisted queue is corrupt, starting empty.", slog.Any("error", xerrors.New(err)))
		return
	}

	for _, it := range items {
		//an item left "downloading" by a dead session goes back in line
		if it.Status == StatusDownloading {
			it.Status = StatusQueued
		}
	}
	s.items = items
}

func (s *Service) persistLocked() {
	data, err := json.Marshal(s.items)
	if err != nil {
		return
	}
	if err := s.store.Set(persistKey, string(data)); err != nil {
		utils.GetLogger().ErrorContext(context.Background(),
			"Failed to persist queue.", slog.Any("error", xerrors.New(err)))
	}
}

// startNext claims the download slot for the first queued item.
func (s *Service) startNext() {
	s.mu.Lock()

	if s.active != "" {
		s.mu.Unlock()
		return
	}

	var next *Item
	for _, it := range s.items {
		if it.Status == StatusQueued {
			next = it
			break
		}
	}
	if next == nil {
		s.mu.Unlock()
		return
	}

	next.Status = StatusDownloading
	s.active = next.ID

	ctx, cancel := context.WithCancel(context.Background())
	s.cancelActive = cancel
	s.persistLocked()

	snap := *next
	s.mu.Unlock()

	s.notify(snap)
	go s.run(ctx, snap.ID)
}

func (s *Service) run(ctx context.Context, id string) {
	err := s.download(ctx, id)

	s.mu.Lock()
	s.active = ""
	s.cancelActive = nil

	item := s.findLocked(id)
	requeued := false
	if item != nil {
		switch {
		case err == nil:
			item.Status = StatusCompleted
			if item.BytesTotal > 0 {
				item.BytesDownloaded = item.BytesTotal
			}
		case ctx.Err() != nil:
			//cancelled by Pause/Dequeue/Clear, which already set the state;
			//anything still marked downloading was cancelled from outside
			if item.Status == StatusDownloading {
				item.Status = StatusPaused
			}
		default:
			item.Retries++
			item.LastError = err.Error()
			if item.Retries >= maxRetries {
				item.Status = StatusFailed
			} else {
				item.Status = StatusQueued
				requeued = true
			}
		}
		s.persistLocked()
	}

	var snap Item
	if item != nil {
		snap = *item
	}
	s.mu.Unlock()

	if item != nil {
		s.notify(snap)
	}

	if requeued {
		time.Sleep(retryBackoff)
	}
	s.startNext()
}

// download fetches the item's URL into the download directory, resuming from
// the persisted byte offset with a Range request when possible.
func (s *Service) download(ctx context.Context, id string) error {
	s.mu.Lock()
	item := s.findLocked(id)
	if item == nil {
		s.mu.Unlock()
		return fmt.Errorf("item removed before download started")
	}
	rawURL := item.URL
	offset := item.BytesDownloaded
	s.mu.Unlock()

	if err := utils.CreateFolder(s.downloadDir); err != nil {
		return err
	}
	path := filepath.Join(s.downloadDir, fileNameForURL(rawURL, id))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	if offset > 0 {
		req.Header.Set("Range", fmt.Sprintf("bytes=%d-", offset))
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("download request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		//server ignored the range - start over
		offset = 0
	case http.StatusPartialContent:
	default:
		return fmt.Errorf("download request returned %s", resp.Status)
	}

	flags := os.O_CREATE | os.O_WRONLY
	if offset > 0 {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	file, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return err
	}
	defer file.Close()

	total := int64(-1)
	if resp.ContentLength >= 0 {
		total = offset + resp.ContentLength
	}

	s.mu.Lock()
	if it := s.findLocked(id); it != nil {
		it.BytesTotal = total
		it.LocalPath = path
		it.BytesDownloaded = offset
		snap := *it
		s.mu.Unlock()
		s.notify(snap)
	} else {
		s.mu.Unlock()
	}

	buf := make([]byte, 32*1024)
	var sincePersist int64

	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			if _, writeErr := file.Write(buf[:n]); writeErr != nil {
				return writeErr
			}

			s.mu.Lock()
			it := s.findLocked(id)
			var snap Item
			if it != nil {
				it.BytesDownloaded += int64(n)
				sincePersist += int64(n)
				if sincePersist >= progressStep {
					s.persistLocked()
					sincePersist = 0
				}
				snap = *it
			}
			s.mu.Unlock()

			if it != nil {
				s.notify(snap)
			}
		}

		if readErr == io.EOF {
			return nil
		}
		if readErr != nil {
			return fmt.Errorf("download interrupted: %w", readErr)
		}
	}
}

func fileNameForURL(rawURL, fallback string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Path == "" || parsed.Path == "/" {
		return fallback
	}
	name := filepath.Base(parsed.Path)
	if name == "." || name == "/" || name == "" {
		return fallback
	}
	return name
}
