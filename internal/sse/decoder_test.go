package sse

import (
	"errors"
	"io"
	"strings"
	"testing"
)

// chunkedReader delivers a fixed payload in chunks of at most size bytes.
type chunkedReader struct {
	data []byte
	size int
	pos  int
}

func (r *chunkedReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := r.size
	if n > len(r.data)-r.pos {
		n = len(r.data) - r.pos
	}
	if n > len(p) {
		n = len(p)
	}
	copy(p, r.data[r.pos:r.pos+n])
	r.pos += n
	return n, nil
}

func drain(t *testing.T, d *Decoder) []Event {
	t.Helper()
	var events []Event
	for {
		ev, err := d.Next()
		if err == io.EOF {
			return events
		}
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		events = append(events, ev)
	}
}

func TestDecoderBasicStream(t *testing.T) {
	stream := "data: {\"status\": \"searching\", \"progress\": 10, \"message\": \"Searching...\"}\n\n" +
		"data: {\"status\": \"analyzing\", \"progress\": 40}\n\n" +
		"data: {\"status\": \"completed\", \"result\": \"all done\"}\n\n" +
		"data: [DONE]\n\n"

	events := drain(t, NewDecoder(strings.NewReader(stream)))

	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	if events[0].Status != StatusSearching || events[0].Progress != 10 {
		t.Errorf("event 0 = %+v, want searching/10", events[0])
	}
	if events[1].Status != StatusAnalyzing {
		t.Errorf("event 1 status = %q, want analyzing", events[1].Status)
	}
	if events[2].Status != StatusCompleted || events[2].Result != "all done" {
		t.Errorf("event 2 = %+v, want completed with result", events[2])
	}
}

func TestDecoderChunkingInvariance(t *testing.T) {
	stream := "data: {\"status\": \"searching\", \"progress\": 15}\n" +
		"data: {\"status\": \"analyzing\", \"progress\": 60, \"message\": \"Analyzing with AI...\"}\n" +
		"data: {\"status\": \"completed\", \"result\": \"{\\\"summary\\\": \\\"ok\\\"}\"}\n" +
		"data: [DONE]\n"

	want := drain(t, NewDecoder(strings.NewReader(stream)))
	if len(want) != 3 {
		t.Fatalf("reference decode yielded %d events, want 3", len(want))
	}

	for size := 1; size <= len(stream); size++ {
		got := drain(t, NewDecoder(&chunkedReader{data: []byte(stream), size: size}))
		if len(got) != len(want) {
			t.Fatalf("chunk size %d: got %d events, want %d", size, len(got), len(want))
		}
		for i := range got {
			if got[i].Status != want[i].Status || got[i].Progress != want[i].Progress ||
				got[i].Message != want[i].Message || got[i].Result != want[i].Result {
				t.Errorf("chunk size %d: event %d = %+v, want %+v", size, i, got[i], want[i])
			}
		}
	}
}

func TestDecoderSkipsNonEvents(t *testing.T) {
	tests := []struct {
		name   string
		stream string
		want   int
	}{
		{"event type line", "event: message\ndata: {\"status\": \"searching\"}\n", 1},
		{"done sentinel", "data: [DONE]\n", 0},
		{"blank data", "data:\ndata:   \n", 0},
		{"malformed json", "data: {not json}\ndata: {\"status\": \"analyzing\"}\n", 1},
		{"comment line", ": keep-alive\ndata: {\"status\": \"searching\"}\n", 1},
		{"payload without status or error", "data: {\"progress\": 50}\n", 0},
		{"empty stream", "", 0},
		{"blank lines only", "\n\n\n", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := drain(t, NewDecoder(strings.NewReader(tt.stream)))
			if len(events) != tt.want {
				t.Errorf("got %d events, want %d", len(events), tt.want)
			}
		})
	}
}

func TestDecoderTrailingLineWithoutNewline(t *testing.T) {
	stream := "data: {\"status\": \"searching\"}\ndata: {\"status\": \"completed\", \"result\": \"done\"}"

	events := drain(t, NewDecoder(strings.NewReader(stream)))
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[1].Status != StatusCompleted {
		t.Errorf("final event status = %q, want completed", events[1].Status)
	}
}

func TestDecoderErrorPayloadShapes(t *testing.T) {
	tests := []struct {
		name    string
		stream  string
		wantMsg string
	}{
		{"string error", "data: {\"error\": \"rate limited\"}\n", "rate limited"},
		{"object error", "data: {\"error\": {\"message\": \"agent crashed\"}}\n", "agent crashed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := drain(t, NewDecoder(strings.NewReader(tt.stream)))
			if len(events) != 1 {
				t.Fatalf("got %d events, want 1", len(events))
			}
			if events[0].Err == nil || events[0].Err.Message != tt.wantMsg {
				t.Errorf("error = %+v, want message %q", events[0].Err, tt.wantMsg)
			}
			if !events[0].Terminal() {
				t.Error("error event should be terminal")
			}
		})
	}
}

func TestDecoderSearchData(t *testing.T) {
	stream := `data: {"status": "completed", "result": "x", "searchData": {"redditPosts": [{"title": "a"}], "total": 1}}` + "\n"

	events := drain(t, NewDecoder(strings.NewReader(stream)))
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	sd := events[0].SearchData
	if sd == nil || len(sd.RedditPosts) != 1 || sd.Total != 1 {
		t.Errorf("searchData = %+v, want one reddit post and total 1", sd)
	}
}

// errReader fails after delivering its payload.
type errReader struct {
	data []byte
	err  error
	done bool
}

func (r *errReader) Read(p []byte) (int, error) {
	if r.done {
		return 0, r.err
	}
	r.done = true
	return copy(p, r.data), nil
}

func TestDecoderPropagatesTransportError(t *testing.T) {
	wantErr := errors.New("connection reset")
	d := NewDecoder(&errReader{data: []byte("data: {\"status\": \"searching\"}\n"), err: wantErr})

	ev, err := d.Next()
	if err != nil {
		t.Fatalf("first Next() error = %v", err)
	}
	if ev.Status != StatusSearching {
		t.Errorf("first event status = %q", ev.Status)
	}

	if _, err := d.Next(); !errors.Is(err, wantErr) {
		t.Errorf("second Next() error = %v, want %v", err, wantErr)
	}
}
