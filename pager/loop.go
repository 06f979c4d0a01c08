package pager

import (
	"fmt"

	"scpterm/input"
)

// ScrollStep is the number of lines an arrow key moves.
const ScrollStep = 5

// EventSource yields terminal events, blocking until one is available.
type EventSource interface {
	Next() (input.Event, error)
}

// Screen draws the view.
type Screen interface {
	Draw(v *View) error
	Clear() error
}

// Loop drives a View from terminal events. It is the only owner of the View
// while Run is executing.
type Loop struct {
	View       *View
	Events     EventSource
	Screen     Screen
	ScrollStep int
}

// Run draws the view and handles events until a non-navigation key is
// pressed, which returns nil, or an input or drawing error occurs.
func (l *Loop) Run() error {
	for {
		if err := l.Screen.Draw(l.View); err != nil {
			return fmt.Errorf("drawing: %w", err)
		}
		ev, err := l.Events.Next()
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}
		quit, err := l.Handle(ev)
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
	}
}

// Handle applies one event to the view and reports whether the loop ends.
func (l *Loop) Handle(ev input.Event) (quit bool, err error) {
	step := l.ScrollStep
	if step <= 0 {
		step = ScrollStep
	}

	switch ev.Kind {
	case input.KindKey:
		switch ev.Key {
		case input.KeyUp:
			l.View.ScrollLines(-step)
		case input.KeyDown:
			l.View.ScrollLines(step)
		case input.KeyPageUp:
			l.View.ScrollPages(-1)
		case input.KeyPageDown:
			l.View.ScrollPages(1)
		default:
			return true, nil
		}
	case input.KindResize:
		if err := l.Screen.Clear(); err != nil {
			return false, fmt.Errorf("clearing screen: %w", err)
		}
		l.View.Resize(Viewport{Width: ev.Width, Height: ev.Height})
	}
	return false, nil
}
