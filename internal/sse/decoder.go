package sse

import (
	"encoding/json"
	"io"
	"strings"
)

// doneSentinel marks the end of the stream payload. It carries no event.
const doneSentinel = "[DONE]"

// Decoder reads an SSE byte stream and yields application events.
//
// The reader may deliver chunks split at arbitrary byte positions; the
// decoder reassembles lines across reads, so the emitted event sequence is
// independent of chunking. Lines that are not well-formed data payloads are
// skipped rather than failing the stream.
type Decoder struct {
	r       io.Reader
	buf     []byte
	carry   string
	pending []Event
	eof     bool
}

// NewDecoder creates a decoder over r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{
		r:   r,
		buf: make([]byte, 4096),
	}
}

// Next returns the next decoded event. It returns io.EOF once the stream is
// exhausted, and any transport error from the underlying reader as-is.
func (d *Decoder) Next() (Event, error) {
	for {
		if len(d.pending) > 0 {
			ev := d.pending[0]
			d.pending = d.pending[1:]
			return ev, nil
		}
		if d.eof {
			return Event{}, io.EOF
		}

		n, err := d.r.Read(d.buf)
		if n > 0 {
			d.carry += string(d.buf[:n])
			lines := strings.Split(d.carry, "\n")
			// The final fragment may be an incomplete line; keep it for the
			// next read instead of emitting it.
			d.carry = lines[len(lines)-1]
			for _, line := range lines[:len(lines)-1] {
				if ev, ok := decodeLine(line); ok {
					d.pending = append(d.pending, ev)
				}
			}
		}
		if err == io.EOF {
			d.eof = true
			// A stream without a trailing newline still ends in a complete line.
			if line := d.carry; line != "" {
				d.carry = ""
				if ev, ok := decodeLine(line); ok {
					d.pending = append(d.pending, ev)
				}
			}
			continue
		}
		if err != nil {
			return Event{}, err
		}
	}
}

// decodeLine parses one complete line of the stream. It returns false for
// event-type metadata, the [DONE] sentinel, blank lines, and payloads that
// fail to parse or carry no recognizable event.
func decodeLine(line string) (Event, bool) {
	if strings.HasPrefix(line, "event:") {
		return Event{}, false
	}
	if !strings.HasPrefix(line, "data:") {
		return Event{}, false
	}

	data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
	if data == "" || data == doneSentinel {
		return Event{}, false
	}

	var ev Event
	if err := json.Unmarshal([]byte(data), &ev); err != nil {
		// Malformed payloads are dropped per-line; later lines still decode.
		return Event{}, false
	}
	if ev.Status == "" && ev.Err == nil {
		return Event{}, false
	}
	return ev, true
}
