package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

var ErrNoFlush = errors.New("SSE not supported: ResponseWriter not flushable")

type SSEWriter struct {
	w    http.ResponseWriter
	fl   http.Flusher
	done bool
}

// NewSSEWriter initializes SSE headers and returns a writer.
func NewSSEWriter(c echo.Context) (*SSEWriter, error) {
	w := c.Response()
	f, ok := w.Writer.(http.Flusher)
	if !ok {
		return nil, ErrNoFlush
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	f.Flush()

	return &SSEWriter{w: w, fl: f}, nil
}

// Event sends an SSE event with an event name and data (struct/map/string).
func (s *SSEWriter) Event(event string, data any) error {
	if s.done {
		return nil
	}
	var payload string
	switch v := data.(type) {
	case string:
		payload = v
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		payload = string(b)
	}
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", event, payload); err != nil {
		return err
	}
	s.fl.Flush()
	return nil
}

// Close finalizes the stream.
func (s *SSEWriter) Close() {
	if s.done {
		return
	}
	s.done = true
	fmt.Fprint(s.w, "event: close\ndata: null\n\n")
	s.fl.Flush()
}
