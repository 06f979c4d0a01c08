// Package input turns raw terminal bytes and window-size signals into a
// single blocking stream of events.
package input

import (
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"
	"unicode/utf8"
)

// Kind classifies an event.
type Kind int

const (
	KindOther Kind = iota // reports the pager does not act on (focus, mouse)
	KindKey
	KindResize
)

// Key identifies the keys the pager navigates with. Everything else is KeyOther.
type Key int

const (
	KeyOther Key = iota
	KeyUp
	KeyDown
	KeyPageUp
	KeyPageDown
)

// Event is one decoded terminal event. Width and Height are set for resizes.
type Event struct {
	Kind   Kind
	Key    Key
	Width  int
	Height int
}

// ErrClosed is returned by Next after Close.
var ErrClosed = errors.New("input: reader closed")

// Decode splits a chunk read from a raw-mode terminal into events.
func Decode(b []byte) []Event {
	var events []Event
	for len(b) > 0 {
		ev, n := decodeOne(b)
		events = append(events, ev)
		b = b[n:]
	}
	return events
}

func keyEvent(k Key) Event {
	return Event{Kind: KindKey, Key: k}
}

func decodeOne(b []byte) (Event, int) {
	if b[0] != 0x1b {
		if b[0] < utf8.RuneSelf {
			return keyEvent(KeyOther), 1
		}
		_, size := utf8.DecodeRune(b)
		return keyEvent(KeyOther), size
	}
	if len(b) == 1 {
		return keyEvent(KeyOther), 1
	}

	switch b[1] {
	case '[':
		return decodeCSI(b)
	case 'O':
		if len(b) < 3 {
			return keyEvent(KeyOther), len(b)
		}
		switch b[2] {
		case 'A':
			return keyEvent(KeyUp), 3
		case 'B':
			return keyEvent(KeyDown), 3
		}
		return keyEvent(KeyOther), 3
	}
	// Alt+key arrives as ESC followed by the key.
	return keyEvent(KeyOther), 1
}

// decodeCSI reads ESC [ params final, where final is in 0x40-0x7E.
func decodeCSI(b []byte) (Event, int) {
	i := 2
	for i < len(b) && (b[i] < 0x40 || b[i] > 0x7e) {
		i++
	}
	if i == len(b) {
		return keyEvent(KeyOther), len(b)
	}
	params := string(b[2:i])
	n := i + 1

	switch b[i] {
	case 'A':
		return keyEvent(KeyUp), n
	case 'B':
		return keyEvent(KeyDown), n
	case '~':
		switch params {
		case "5":
			return keyEvent(KeyPageUp), n
		case "6":
			return keyEvent(KeyPageDown), n
		}
	case 'I', 'O':
		if params == "" {
			return Event{Kind: KindOther}, n
		}
	case 'M', 'm':
		if params == "" || params[0] == '<' {
			return Event{Kind: KindOther}, mouseLen(b, n)
		}
	}
	return keyEvent(KeyOther), n
}

// mouseLen accounts for the three payload bytes of an X10 mouse report.
func mouseLen(b []byte, n int) int {
	if n == 3 && b[2] == 'M' && len(b) >= 6 {
		return 6
	}
	return n
}

// SizeFunc reports the current terminal size.
type SizeFunc func() (width, height int, err error)

type result struct {
	ev  Event
	err error
}

// Reader merges key bytes from a terminal with SIGWINCH notifications.
type Reader struct {
	events chan result
	stop   chan struct{}
	sigs   chan os.Signal
	closed bool
}

// NewReader starts reading from in. When size is non-nil, window size
// changes are delivered as resize events carrying size's answer.
func NewReader(in io.Reader, size SizeFunc) *Reader {
	var sigs chan os.Signal
	if size != nil {
		sigs = make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGWINCH)
	}
	return newReader(in, size, sigs)
}

func newReader(in io.Reader, size SizeFunc, sigs chan os.Signal) *Reader {
	r := &Reader{
		events: make(chan result, 16),
		stop:   make(chan struct{}),
		sigs:   sigs,
	}
	go r.readLoop(in)
	if sigs != nil {
		go r.signalLoop(size)
	}
	return r
}

// Next blocks until the next event is available.
func (r *Reader) Next() (Event, error) {
	select {
	case res := <-r.events:
		return res.ev, res.err
	case <-r.stop:
		return Event{}, ErrClosed
	}
}

// Close stops signal delivery. A read already blocked on the terminal stays
// blocked until input arrives or the process exits; its bytes are dropped.
func (r *Reader) Close() {
	if r.closed {
		return
	}
	r.closed = true
	if r.sigs != nil {
		signal.Stop(r.sigs)
	}
	close(r.stop)
}

func (r *Reader) send(res result) bool {
	select {
	case r.events <- res:
		return true
	case <-r.stop:
		return false
	}
}

func (r *Reader) readLoop(in io.Reader) {
	buf := make([]byte, 64)
	for {
		n, err := in.Read(buf)
		for _, ev := range Decode(buf[:n]) {
			if !r.send(result{ev: ev}) {
				return
			}
		}
		if err != nil {
			r.send(result{err: err})
			return
		}
	}
}

func (r *Reader) signalLoop(size SizeFunc) {
	for {
		select {
		case <-r.sigs:
			w, h, err := size()
			if err != nil {
				continue
			}
			if !r.send(result{ev: Event{Kind: KindResize, Width: w, Height: h}}) {
				return
			}
		case <-r.stop:
			return
		}
	}
}
