package loki

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pushRecorder struct {
	mu       sync.Mutex
	paths    []string
	requests []pushRequest
}

func (p *pushRecorder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body pushRequest
	_ = json.NewDecoder(r.Body).Decode(&body)
	p.mu.Lock()
	p.paths = append(p.paths, r.URL.Path)
	p.requests = append(p.requests, body)
	p.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (p *pushRecorder) lines() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for _, req := range p.requests {
		for _, s := range req.Streams {
			for _, v := range s.Values {
				out = append(out, v[1])
			}
		}
	}
	return out
}

func TestNewWriterDisabled(t *testing.T) {
	assert.Nil(t, NewWriter("", "items", "items"))
	assert.Nil(t, NewWriter("http://loki:3100", "", "items"))
}

func TestWriterPushesLinesOnClose(t *testing.T) {
	rec := &pushRecorder{}
	srv := httptest.NewServer(rec)
	defer srv.Close()

	w := NewWriter(srv.URL+"/", "items", "shell")
	require.NotNil(t, w)

	n, err := w.Write([]byte("first\n\nsecond\n"))
	require.NoError(t, err)
	assert.Equal(t, len("first\n\nsecond\n"), n)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	assert.Equal(t, []string{"first", "second"}, rec.lines())
	rec.mu.Lock()
	defer rec.mu.Unlock()
	require.NotEmpty(t, rec.requests)
	assert.Equal(t, pushPath, rec.paths[0])
	assert.Equal(t, map[string]string{"job": "items", "service": "shell"}, rec.requests[0].Streams[0].Stream)
}

func TestWriterFlushesWhenBatchIsFull(t *testing.T) {
	rec := &pushRecorder{}
	srv := httptest.NewServer(rec)
	defer srv.Close()

	w := NewWriter(srv.URL, "items", "")
	defer w.Close()

	for i := 0; i < flushAtLines; i++ {
		_, err := w.Write([]byte("line\n"))
		require.NoError(t, err)
	}
	assert.Len(t, rec.lines(), flushAtLines)
}

func TestSyncReportsPushFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	w := NewWriter(srv.URL, "items", "")
	defer w.Close()

	_, err := w.Write([]byte("line\n"))
	require.NoError(t, err)
	assert.Error(t, w.Sync())
}
