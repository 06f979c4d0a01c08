package render

import (
	"fmt"
	"io"
	"time"
)

// SpinnerStyle defines different spinner animation styles.
type SpinnerStyle int

const (
	// SpinnerBraille uses smooth braille dot animation
	SpinnerBraille SpinnerStyle = iota
	// SpinnerGlobe uses a rotating globe, shown for browser fetches
	SpinnerGlobe
)

// Spinner provides animated loading indicators.
type Spinner struct {
	style    SpinnerStyle
	frame    int
	interval time.Duration
}

// NewSpinner creates a new spinner with the given style.
func NewSpinner(style SpinnerStyle) *Spinner {
	interval := 80 * time.Millisecond
	if style == SpinnerGlobe {
		interval = 150 * time.Millisecond
	}
	return &Spinner{style: style, interval: interval}
}

// Frame returns the current animation frame string.
func (s *Spinner) Frame() string {
	frames := s.frames()
	return frames[s.frame%len(frames)]
}

// Advance moves to the next frame.
func (s *Spinner) Advance() {
	s.frame++
}

func (s *Spinner) frames() []string {
	switch s.style {
	case SpinnerGlobe:
		return []string{"◐", "◓", "◑", "◒"}
	default:
		return []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	}
}

// Run draws frames followed by label on w until done is closed, then erases
// the line it drew on.
func (s *Spinner) Run(w io.Writer, label string, done <-chan struct{}) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	width := StringWidth(s.Frame()) + 1 + StringWidth(label)
	for {
		fmt.Fprintf(w, "\r%s %s", s.Frame(), label)
		select {
		case <-done:
			fmt.Fprintf(w, "\r%*s\r", width, "")
			return
		case <-ticker.C:
			s.Advance()
		}
	}
}
