package loki

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
)

const (
	flushEvery    = 1 * time.Second
	flushAtLines  = 20
	pushPath      = "/loki/api/v1/push"
	clientTimeout = 5 * time.Second
)

// Writer buffers log lines and sends them to Loki's push API.
// It satisfies zapcore.WriteSyncer so it can back a zap core directly.
type Writer struct {
	url    string
	labels map[string]string
	client *http.Client
	mu     sync.Mutex
	buf    [][]string
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

type pushStream struct {
	Stream map[string]string `json:"stream"`
	Values [][]string        `json:"values"`
}

type pushRequest struct {
	Streams []pushStream `json:"streams"`
}

// NewWriter returns a Writer pushing to baseURL (e.g. http://loki:3100) under
// the job and service labels. It returns nil when baseURL or job is empty.
func NewWriter(baseURL, job, service string) *Writer {
	if baseURL == "" || job == "" {
		return nil
	}
	labels := map[string]string{"job": job}
	if service != "" {
		labels["service"] = service
	}
	w := &Writer{
		url:    strings.TrimSuffix(baseURL, "/") + pushPath,
		labels: labels,
		client: &http.Client{Timeout: clientTimeout},
		buf:    make([][]string, 0, 64),
		ticker: time.NewTicker(flushEvery),
		done:   make(chan struct{}),
	}
	go w.flushLoop()
	return w
}

// Write implements io.Writer. Each non-empty line becomes one Loki entry.
func (w *Writer) Write(p []byte) (int, error) {
	now := time.Now().UnixNano()
	for _, line := range bytes.Split(p, []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		w.mu.Lock()
		w.buf = append(w.buf, []string{fmt.Sprintf("%d", now), string(line)})
		needFlush := len(w.buf) >= flushAtLines
		w.mu.Unlock()
		if needFlush {
			w.flush()
		}
	}
	return len(p), nil
}

// Sync pushes everything buffered so far.
func (w *Writer) Sync() error {
	return w.flush()
}

func (w *Writer) flushLoop() {
	for {
		select {
		case <-w.done:
			return
		case <-w.ticker.C:
			_ = w.flush()
		}
	}
}

func (w *Writer) flush() error {
	w.mu.Lock()
	if len(w.buf) == 0 {
		w.mu.Unlock()
		return nil
	}
	values := w.buf
	w.buf = make([][]string, 0, 64)
	w.mu.Unlock()

	raw, err := json.Marshal(pushRequest{
		Streams: []pushStream{{Stream: w.labels, Values: values}},
	})
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, w.url, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("loki push: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// Close flushes the remaining buffer and stops the background flusher.
func (w *Writer) Close() error {
	var err error
	w.once.Do(func() {
		w.ticker.Stop()
		close(w.done)
		err = w.flush()
	})
	return err
}
