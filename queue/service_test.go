package queue_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"waveline/cache"
	"waveline/queue"
)

// waitForStatus polls the queue until the item reaches want or the deadline
// passes. Download work happens on the service's own goroutine, so tests
// observe transitions instead of forcing them.
func waitForStatus(t *testing.T, s *queue.Service, id string, want queue.Status) queue.Item {
	t.Helper()

	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		for _, item := range s.Items() {
			if item.ID == id && item.Status == want {
				return item
			}
		}
		time.Sleep(10 * time.Millisecond)
	}

	t.Fatalf("item %s never reached status %s", id, want)
	return queue.Item{}
}

func payload(n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i % 251)
	}
	return data
}

func TestEnqueue_DownloadsToCompletion(t *testing.T) {
	body := payload(64 * 1024)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(body)
	}))
	defer server.Close()

	store := cache.NewMemoryStore()
	service := queue.NewService(store, t.TempDir())

	item, err := service.Enqueue(server.URL+"/sermons/test.mp3", "Test Sermon")
	require.NoError(t, err)
	assert.Equal(t, queue.StatusQueued, item.Status)

	final := waitForStatus(t, service, item.ID, queue.StatusCompleted)
	assert.Equal(t, int64(len(body)), final.BytesDownloaded)
	assert.Equal(t, int64(len(body)), final.BytesTotal)
	assert.NotEmpty(t, final.LocalPath)
}

func TestEnqueue_RejectsDuplicateURL(t *testing.T) {
	store := cache.NewMemoryStore()
	service := queue.NewService(store, t.TempDir())

	//unreachable host: the item stays in the retry loop while we assert
	_, err := service.Enqueue("http://127.0.0.1:1/sermon.mp3", "a")
	require.NoError(t, err)

	_, err = service.Enqueue("http://127.0.0.1:1/sermon.mp3", "b")
	assert.Error(t, err)
}

func TestDownload_FailsAfterRetryBudget(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer server.Close()

	store := cache.NewMemoryStore()
	service := queue.NewService(store, t.TempDir())

	item, err := service.Enqueue(server.URL+"/broken.mp3", "")
	require.NoError(t, err)

	final := waitForStatus(t, service, item.ID, queue.StatusFailed)
	assert.Equal(t, 3, final.Retries)
	assert.NotEmpty(t, final.LastError)
}

func TestPauseAndResume(t *testing.T) {
	release := make(chan struct{})
	body := payload(1024)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "1048576")
		w.Write(body)
		if flusher, ok := w.(http.Flusher); ok {
			flusher.Flush()
		}
		<-release //hold the connection open so the item stays downloading
	}))
	defer server.Close()
	defer close(release)

	store := cache.NewMemoryStore()
	service := queue.NewService(store, t.TempDir())

	item, err := service.Enqueue(server.URL+"/long.mp3", "")
	require.NoError(t, err)

	waitForStatus(t, service, item.ID, queue.StatusDownloading)
	require.NoError(t, service.Pause(item.ID))
	paused := waitForStatus(t, service, item.ID, queue.StatusPaused)
	assert.False(t, paused.Status.IsActive())

	//resuming puts it back in line
	require.NoError(t, service.Resume(item.ID))
	waitForStatus(t, service, item.ID, queue.StatusDownloading)
}

func TestPersistence_RestoredAcrossSessions(t *testing.T) {
	store := cache.NewMemoryStore()
	dir := t.TempDir()

	first := queue.NewService(store, dir)
	_, err := first.Enqueue("http://127.0.0.1:1/a.mp3", "A")
	require.NoError(t, err)
	_, err = first.Enqueue("http://127.0.0.1:1/b.mp3", "B")
	require.NoError(t, err)

	//a second service over the same store sees the same flat list
	second := queue.NewService(store, dir)
	items := second.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "A", items[0].Title)
	assert.Equal(t, "B", items[1].Title)

	//nothing can still be marked downloading after a restore
	for _, item := range items {
		assert.NotEqual(t, queue.StatusDownloading, item.Status)
	}
}

func TestDequeue_RemovesItem(t *testing.T) {
	store := cache.NewMemoryStore()
	service := queue.NewService(store, t.TempDir())

	item, err := service.Enqueue("http://127.0.0.1:1/gone.mp3", "")
	require.NoError(t, err)

	require.NoError(t, service.Dequeue(item.ID))
	assert.Empty(t, filterByID(service.Items(), item.ID))

	assert.Error(t, service.Dequeue(item.ID), "second dequeue must report not found")
}

func TestClear_EmptiesQueue(t *testing.T) {
	store := cache.NewMemoryStore()
	service := queue.NewService(store, t.TempDir())

	_, err := service.Enqueue("http://127.0.0.1:1/x.mp3", "")
	require.NoError(t, err)
	_, err = service.Enqueue("http://127.0.0.1:1/y.mp3", "")
	require.NoError(t, err)

	require.NoError(t, service.Clear())
	assert.Empty(t, service.Items())

	//the persisted list is cleared too
	fresh := queue.NewService(store, t.TempDir())
	assert.Empty(t, fresh.Items())
}

func TestStatusPredicates(t *testing.T) {
	assert.True(t, queue.StatusDownloading.IsActive())
	assert.False(t, queue.StatusQueued.IsActive())

	assert.True(t, queue.StatusCompleted.IsFinished())
	assert.True(t, queue.StatusFailed.IsFinished())
	assert.False(t, queue.StatusPaused.IsFinished())
}

func filterByID(items []queue.Item, id string) []queue.Item {
	var out []queue.Item
	for _, item := range items {
		if item.ID == id {
			out = append(out, item)
		}
	}
	return out
}
