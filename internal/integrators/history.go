package integrators

import "github.com/san-kum/odecmp/internal/dynamo"

// history is a fixed ring of the most recent derivative samples.
type history struct {
	buf  [ab4Order]dynamo.State
	head int
	n    int
}

func (h *history) push(s dynamo.State) {
	h.buf[h.head] = s
	h.head = (h.head + 1) % len(h.buf)
	if h.n < len(h.buf) {
		h.n++
	}
}

// back returns the sample pushed k pushes ago; back(0) is the newest.
func (h *history) back(k int) dynamo.State {
	return h.buf[(h.head-1-k+len(h.buf))%len(h.buf)]
}

func (h *history) full() bool { return h.n == len(h.buf) }

func (h *history) len() int { return h.n }
