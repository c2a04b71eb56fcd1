package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mastermind-ai/mastermind/internal/logging"
)

func TestProcessMessageSuccess(t *testing.T) {
	var gotBody map[string]any
	var gotHeaders http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/process_message", r.URL.Path)
		gotHeaders = r.Header.Clone()
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"content":"hi","memories":["a"]}`)
	}))
	defer srv.Close()

	c := New(srv.URL)
	resp, err := c.ProcessMessage(context.Background(), Request{
		APIKey:  "sk-test",
		Message: "hello",
		Context: "prior facts",
		Model:   "claude-3-sonnet",
	})
	require.NoError(t, err)
	assert.Equal(t, &Response{Content: "hi", Memories: []string{"a"}}, resp)

	assert.Equal(t, map[string]any{
		"apiKey":  "sk-test",
		"message": "hello",
		"context": "prior facts",
		"model":   "claude-3-sonnet",
	}, gotBody)
	assert.Equal(t, "application/json", gotHeaders.Get("Content-Type"))
	_, err = uuid.Parse(gotHeaders.Get("X-Request-ID"))
	assert.NoError(t, err, "request id should be a uuid")
}

func TestProcessMessageNullMemories(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"content":"ok","memories":null}`)
	}))
	defer srv.Close()

	resp, err := New(srv.URL).ProcessMessage(context.Background(), Request{Message: "x"})
	require.NoError(t, err)
	assert.NotNil(t, resp.Memories)
	assert.Empty(t, resp.Memories)
}

func TestProcessMessageStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, "boom")
	}))
	defer srv.Close()

	resp, err := New(srv.URL).ProcessMessage(context.Background(), Request{Message: "x"})
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.Contains(t, err.Error(), "boom")

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusInternalServerError, se.Code)
	assert.Equal(t, "boom", se.Body)
}

func TestProcessMessageUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url).ProcessMessage(context.Background(), Request{Message: "x"})
	require.Error(t, err)

	var te *TransportError
	require.True(t, errors.As(err, &te), "expected TransportError, got %T", err)
	assert.Contains(t, strings.ToLower(err.Error()), "connect")
}

func TestProcessMessageMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"content":`)
	}))
	defer srv.Close()

	_, err := New(srv.URL).ProcessMessage(context.Background(), Request{Message: "x"})
	var de *DecodeError
	require.True(t, errors.As(err, &de), "expected DecodeError, got %v", err)
}

func TestProcessMessageTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := New(srv.URL, WithTimeout(50*time.Millisecond))
	_, err := c.ProcessMessage(context.Background(), Request{Message: "x"})
	var te *TransportError
	require.True(t, errors.As(err, &te), "expected TransportError, got %v", err)
}

func TestConcurrentRequestsAreIndependent(t *testing.T) {
	var mu sync.Mutex
	seen := map[string]bool{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req Request
		json.NewDecoder(r.Body).Decode(&req)
		mu.Lock()
		seen[r.Header.Get("X-Request-ID")] = true
		mu.Unlock()
		json.NewEncoder(w).Encode(Response{Content: req.Message, Memories: []string{}})
	}))
	defer srv.Close()

	c := New(srv.URL)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			msg := strings.Repeat("m", i+1)
			resp, err := c.ProcessMessage(context.Background(), Request{Message: msg})
			if assert.NoError(t, err) {
				assert.Equal(t, msg, resp.Content)
			}
		}(i)
	}
	wg.Wait()
	assert.Len(t, seen, 8)
}

func TestSetBaseURL(t *testing.T) {
	c := New("")
	assert.Equal(t, DefaultBaseURL, c.BaseURL())

	c.SetBaseURL("http://127.0.0.1:9000/")
	assert.Equal(t, "http://127.0.0.1:9000", c.BaseURL())
}

func TestHealth(t *testing.T) {
	var mu sync.Mutex
	status, code := "healthy", http.StatusOK
	set := func(s string, c int) {
		mu.Lock()
		status, code = s, c
		mu.Unlock()
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		mu.Lock()
		s, c := status, code
		mu.Unlock()
		w.WriteHeader(c)
		json.NewEncoder(w).Encode(map[string]string{"status": s})
	}))
	defer srv.Close()

	c := New(srv.URL)
	assert.NoError(t, c.Health(context.Background()))

	set("degraded", http.StatusOK)
	assert.Error(t, c.Health(context.Background()))

	set("healthy", http.StatusServiceUnavailable)
	var se *StatusError
	assert.True(t, errors.As(c.Health(context.Background()), &se))

	srv.Close()
	var te *TransportError
	assert.True(t, errors.As(c.Health(context.Background()), &te))
}

func TestStatusErrorLongBodyIsMarked(t *testing.T) {
	long := strings.Repeat("x", maxErrorBody+10)
	exact := strings.Repeat("y", maxErrorBody)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		var req Request
		json.NewDecoder(r.Body).Decode(&req)
		if req.Message == "exact" {
			io.WriteString(w, exact)
			return
		}
		io.WriteString(w, long)
	}))
	defer srv.Close()

	c := New(srv.URL)

	_, err := c.ProcessMessage(context.Background(), Request{Message: "long"})
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, long[:maxErrorBody]+truncatedMarker, se.Body)

	_, err = c.ProcessMessage(context.Background(), Request{Message: "exact"})
	require.True(t, errors.As(err, &se))
	assert.Equal(t, exact, se.Body, "a body at the limit is kept whole")
}

func TestSetBaseURLLogsOnlyChanges(t *testing.T) {
	var buf bytes.Buffer
	logging.SetOutput(&buf)
	t.Cleanup(func() { logging.SetOutput(os.Stderr) })

	c := New("http://127.0.0.1:9000")
	assert.Zero(t, buf.Len(), "construction is not a change")

	c.SetBaseURL("http://127.0.0.1:9000/")
	assert.Zero(t, buf.Len())

	c.SetBaseURL("http://127.0.0.1:9001")
	assert.Equal(t, 1, strings.Count(buf.String(), "backend address changed"))
	assert.Contains(t, buf.String(), "127.0.0.1:9001")
}
