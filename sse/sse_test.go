package sse

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewWriter_SetsStreamingHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	w, err := NewWriter(rec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := rec.Header().Get("Content-Type"); got != "text/event-stream" {
		t.Fatalf("unexpected content type %q", got)
	}
	if w == nil {
		t.Fatal("expected writer")
	}
}

func TestSend_FramesEventAndData(t *testing.T) {
	rec := httptest.NewRecorder()
	w, err := NewWriter(rec)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Send("step", []byte(`{"node":"a"}`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "event: step\n") {
		t.Fatalf("missing event line in %q", body)
	}
	if !strings.Contains(body, "data: {\"node\":\"a\"}\n\n") {
		t.Fatalf("missing data frame in %q", body)
	}
}

func TestComment_WritesKeepAlive(t *testing.T) {
	rec := httptest.NewRecorder()
	w, err := NewWriter(rec)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Comment("keepalive"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(rec.Body.String(), ": keepalive\n\n") {
		t.Fatalf("missing comment in %q", rec.Body.String())
	}
}
