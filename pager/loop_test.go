package pager

import (
	"errors"
	"io"
	"testing"

	"scpterm/input"
)

type fakeEvents struct {
	events []input.Event
	err    error
}

func (f *fakeEvents) Next() (input.Event, error) {
	if len(f.events) == 0 {
		if f.err != nil {
			return input.Event{}, f.err
		}
		return input.Event{}, io.EOF
	}
	ev := f.events[0]
	f.events = f.events[1:]
	return ev, nil
}

type fakeScreen struct {
	offsets []int
	clears  int
	drawErr error
}

func (s *fakeScreen) Draw(v *View) error {
	s.offsets = append(s.offsets, v.Offset())
	return s.drawErr
}

func (s *fakeScreen) Clear() error {
	s.clears++
	return nil
}

func key(k input.Key) input.Event {
	return input.Event{Kind: input.KindKey, Key: k}
}

func TestLoopNavigation(t *testing.T) {
	screen := &fakeScreen{}
	loop := &Loop{
		View:   New(numbered(100), Viewport{Width: 80, Height: 10}),
		Screen: screen,
		Events: &fakeEvents{events: []input.Event{
			key(input.KeyDown),
			key(input.KeyDown),
			key(input.KeyPageDown),
			key(input.KeyUp),
			key(input.KeyPageUp),
			key(input.KeyOther),
			key(input.KeyDown),
		}},
	}

	if err := loop.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	expected := []int{0, 5, 10, 20, 15, 5}
	if len(screen.offsets) != len(expected) {
		t.Fatalf("drew %d times %v, expected %v", len(screen.offsets), screen.offsets, expected)
	}
	for i := range expected {
		if screen.offsets[i] != expected[i] {
			t.Errorf("draw %d: offset %d, expected %d", i, screen.offsets[i], expected[i])
		}
	}
}

func TestLoopResize(t *testing.T) {
	screen := &fakeScreen{}
	view := New(numbered(100), Viewport{Width: 80, Height: 10})
	view.ScrollLines(1000000)
	loop := &Loop{
		View:   view,
		Screen: screen,
		Events: &fakeEvents{events: []input.Event{
			{Kind: input.KindResize, Width: 120, Height: 200},
			key(input.KeyOther),
		}},
	}

	if err := loop.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if screen.clears != 1 {
		t.Errorf("screen cleared %d times, expected 1", screen.clears)
	}
	if vp := view.Viewport(); vp.Width != 120 || vp.Height != 200 {
		t.Errorf("viewport = %+v, expected 120x200", vp)
	}
	if view.Offset() != 0 {
		t.Errorf("Offset() = %d, expected 0", view.Offset())
	}
}

func TestLoopIgnoresOtherEvents(t *testing.T) {
	screen := &fakeScreen{}
	loop := &Loop{
		View:   New(numbered(100), Viewport{Width: 80, Height: 10}),
		Screen: screen,
		Events: &fakeEvents{events: []input.Event{
			{Kind: input.KindOther},
			key(input.KeyDown),
			key(input.KeyOther),
		}},
	}

	if err := loop.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(screen.offsets) != 3 || screen.offsets[2] != 5 {
		t.Errorf("offsets = %v, expected [0 0 5]", screen.offsets)
	}
}

func TestLoopScrollStep(t *testing.T) {
	loop := &Loop{
		View:       New(numbered(100), Viewport{Width: 80, Height: 10}),
		ScrollStep: 3,
	}

	quit, err := loop.Handle(key(input.KeyDown))
	if err != nil || quit {
		t.Fatalf("Handle returned quit=%v err=%v", quit, err)
	}
	if loop.View.Offset() != 3 {
		t.Errorf("Offset() = %d, expected 3", loop.View.Offset())
	}
}

func TestLoopInputError(t *testing.T) {
	boom := errors.New("tty gone")
	loop := &Loop{
		View:   New("text", Viewport{Width: 80, Height: 10}),
		Screen: &fakeScreen{},
		Events: &fakeEvents{err: boom},
	}

	if err := loop.Run(); !errors.Is(err, boom) {
		t.Errorf("got %v, expected wrapped %v", err, boom)
	}
}

func TestLoopDrawError(t *testing.T) {
	boom := errors.New("write failed")
	loop := &Loop{
		View:   New("text", Viewport{Width: 80, Height: 10}),
		Screen: &fakeScreen{drawErr: boom},
		Events: &fakeEvents{},
	}

	if err := loop.Run(); !errors.Is(err, boom) {
		t.Errorf("got %v, expected wrapped %v", err, boom)
	}
}
