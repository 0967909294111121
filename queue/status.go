package queue

// Status tags a download queue item's position in its lifecycle.
type Status string

const (
	StatusQueued      Status = "queued"
	StatusDownloading Status = "downloading"
	StatusPaused      Status = "paused"
	StatusCompleted   Status = "completed"
	StatusFailed      Status = "failed"
)

// IsActive reports whether the item currently occupies the download slot.
func (s Status) IsActive() bool {
	return s == StatusDownloading
}

// IsFinished reports whether the item reached a terminal state.
func (s Status) IsFinished() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Item is one entry in the download queue. The whole queue is persisted as a
// flat JSON list so an interrupted session can be restored.
type Item struct {
	ID              string `json:"id"`
	URL             string `json:"url"`
	Title           string `json:"title"`
	Status          Status `json:"status"`
	BytesDownloaded int64  `json:"bytesDownloaded"`
	BytesTotal      int64  `json:"bytesTotal"` //-1 when the server doesn't say
	Retries         int    `json:"retries"`
	LocalPath       string `json:"localPath,omitempty"`
	LastError       string `json:"lastError,omitempty"`
	EnqueuedAt      int64  `json:"enqueuedAt"` //unix milliseconds
}

// Progress returns completion in [0, 1], or 0 when the total is unknown.
func (it *Item) Progress() float64 {
	if it.BytesTotal <= 0 {
		return 0
	}
	p := float64(it.BytesDownloaded) / float64(it.BytesTotal)
	if p > 1 {
		p = 1
	}
	return p
}
