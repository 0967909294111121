package remote_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"waveline/remote"
)

func TestClientWaveform(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/waveforms/sermon-42" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"amplitudes":[0.1,0.9,0.4]}`))
	}))
	defer server.Close()

	client := remote.NewClient(server.URL)

	amps, err := client.Waveform(context.Background(), "sermon-42")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []float64{0.1, 0.9, 0.4}
	if len(amps) != len(expected) {
		t.Fatalf("expected %d values, got %d", len(expected), len(amps))
	}
	for i := range expected {
		if amps[i] != expected[i] {
			t.Errorf("value %d: expected %v, got %v", i, expected[i], amps[i])
		}
	}
}

func TestClientWaveform_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := remote.NewClient(server.URL)

	_, err := client.Waveform(context.Background(), "missing")
	if err == nil {
		t.Fatal("expected an error for a 404 response")
	}
}

func TestClientWaveform_BadPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer server.Close()

	client := remote.NewClient(server.URL)

	_, err := client.Waveform(context.Background(), "weird")
	if err == nil {
		t.Fatal("expected an error for a non-JSON payload")
	}
}

func TestClientWaveform_CancelledContext(t *testing.T) {
	client := remote.NewClient("http://127.0.0.1:1")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Waveform(ctx, "anything")
	if err == nil {
		t.Fatal("expected an error for a cancelled context")
	}
}
