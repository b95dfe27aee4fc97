// Package sse writes Server-Sent Events streams for single-run
// subscribers: one producer channel, one HTTP response, explicit closure
// on both run completion and client disconnect.
package sse

import (
	"fmt"
	"net/http"
	"time"
)

// Writer frames events onto one HTTP response. It requires the response
// writer to support flushing.
type Writer struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewWriter prepares a response for event streaming: headers, disabled
// write deadline, immediate flush. It fails when the connection cannot
// stream.
func NewWriter(w http.ResponseWriter) (*Writer, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("sse: response writer does not support streaming")
	}

	// Streams outlive the server's WriteTimeout; lift the deadline for
	// this response only.
	rc := http.NewResponseController(w)
	_ = rc.SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	return &Writer{w: w, flusher: flusher}, nil
}

// Send writes one event with the given event name and JSON payload, then
// flushes so the client sees it immediately.
func (sw *Writer) Send(event string, data []byte) error {
	if event != "" {
		if _, err := fmt.Fprintf(sw.w, "event: %s\n", event); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(sw.w, "data: %s\n\n", data); err != nil {
		return err
	}
	sw.flusher.Flush()
	return nil
}

// Comment writes an SSE comment line, used as a keep-alive through
// proxies.
func (sw *Writer) Comment(text string) error {
	if _, err := fmt.Fprintf(sw.w, ": %s\n\n", text); err != nil {
		return err
	}
	sw.flusher.Flush()
	return nil
}
