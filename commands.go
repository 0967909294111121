package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"waveline/cache"
	"waveline/core"
	"waveline/fileformat"
	"waveline/livestream"
	"waveline/queue"
	"waveline/remote"
	"waveline/utils"
)

var barChars = []rune("▁▂▃▄▅▆▇█")

// renderBars draws a normalized amplitude series as one line of block glyphs.
func renderBars(series []float64) string {
	var b strings.Builder
	for _, v := range series {
		idx := int(v * float64(len(barChars)))
		if idx >= len(barChars) {
			idx = len(barChars) - 1
		}
		if idx < 0 {
			idx = 0
		}
		b.WriteRune(barChars[idx])
	}
	return b.String()
}

func waveformCommand(store cache.Store, source string, width float64) {
	var fetcher core.Fetcher
	if apiURL := utils.GetEnv("WAVEFORM_API_URL", ""); apiURL != "" {
		fetcher = remote.NewClient(apiURL)
	}

	service := core.NewService(cache.NewWaveformCache(store), fetcher)

	track := core.Track{URL: source}
	if parsed, err := url.Parse(source); err == nil && (parsed.Scheme == "http" || parsed.Scheme == "https") {
		track.ContentID = filepath.Base(parsed.Path)
	} else {
		track.LocalPath = source
		if meta, err := fileformat.GetMetadata(context.Background(), source); err == nil {
			fmt.Sscanf(meta.Format.Duration, "%f", &track.Duration)
		}
	}

	series := service.Waveform(context.Background(), track, width)

	if track.Duration > 0 {
		fmt.Printf("%d bars for %s (%.0fs)\n", len(series), source, track.Duration)
	} else {
		fmt.Printf("%d bars for %s\n", len(series), source)
	}
	fmt.Println(renderBars(series))
}

func downloadCommand(store cache.Store, rawURL, title string) {
	downloadDir := utils.GetEnv("DOWNLOAD_DIR", "downloads")
	service := queue.NewService(store, downloadDir)

	done := make(chan queue.Item, 1)
	service.SetUpdateCallback(func(item queue.Item) {
		if item.URL != rawURL {
			return
		}
		if item.BytesTotal > 0 {
			fmt.Printf("\r%s: %.1f%% (%d/%d bytes)", item.Status,
				item.Progress()*100, item.BytesDownloaded, item.BytesTotal)
		} else {
			fmt.Printf("\r%s: %d bytes", item.Status, item.BytesDownloaded)
		}
		if item.Status.IsFinished() {
			done <- item
		}
	})

	item, err := service.Enqueue(rawURL, title)
	if err != nil {
		fmt.Println("Could not enqueue:", err)
		return
	}
	fmt.Printf("Queued %s as %s\n", rawURL, item.ID)

	final := <-done
	fmt.Println()
	if final.Status == queue.StatusCompleted {
		fmt.Println("Saved to", final.LocalPath)
	} else {
		fmt.Println("Download failed:", final.LastError)
	}
}

func queueCommand(store cache.Store) {
	downloadDir := utils.GetEnv("DOWNLOAD_DIR", "downloads")
	service := queue.NewService(store, downloadDir)

	items := service.Items()
	if len(items) == 0 {
		fmt.Println("Queue is empty.")
		return
	}

	for _, item := range items {
		name := item.Title
		if name == "" {
			name = item.URL
		}
		fmt.Printf("%-12s %6.1f%%  retries=%d  %s\n",
			item.Status, item.Progress()*100, item.Retries, name)
	}
}

func pollCommand(statusURL string) {
	//default schedule: Sunday morning services
	schedule := []livestream.ServiceTime{
		{Weekday: time.Sunday, Hour: 9, Minute: 0},
		{Weekday: time.Sunday, Hour: 11, Minute: 0},
	}

	poller := livestream.NewPoller(schedule, livestream.HTTPCheck(statusURL))
	poller.OnChange = func(live bool) {
		if live {
			fmt.Println("Stream is LIVE")
		} else {
			fmt.Println("Stream ended")
		}
	}

	fmt.Printf("Polling %s (next check interval %s)\n",
		statusURL, livestream.NextPollInterval(time.Now(), schedule))
	poller.Run(context.Background())
}

func micCheckCommand() {
	samples, err := record(5 * time.Second)
	if err != nil {
		fmt.Println("Recording failed:", err)
		return
	}
	if len(samples) == 0 {
		fmt.Println("No audio captured.")
		return
	}

	tmpFile := filepath.Join(os.TempDir(), "waveline_miccheck.wav")
	if err := fileformat.WriteWavFile(tmpFile, int16Bytes(samples), recordSampleRate, 1, 16); err != nil {
		fmt.Println("Could not write capture:", err)
		return
	}
	defer utils.DeleteFile(tmpFile)

	series, err := core.ExtractFromFile(context.Background(), tmpFile, core.TierSmall)
	if err != nil {
		fmt.Println("Could not analyze capture:", err)
		return
	}

	fmt.Println("Input levels:")
	fmt.Println(renderBars(core.NormalizeAmplitudes(series)))
}
