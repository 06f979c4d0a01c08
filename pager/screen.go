package pager

import (
	"io"

	"scpterm/render"
	"scpterm/theme"
)

// TerminalScreen draws a View to a terminal through a canvas, styling each
// line with a skin and marking the position with a scrollbar.
type TerminalScreen struct {
	Out  io.Writer
	Skin *theme.Skin
}

// NewTerminalScreen returns a screen drawing to out with skin.
func NewTerminalScreen(out io.Writer, skin *theme.Skin) *TerminalScreen {
	if skin == nil {
		skin = theme.Default()
	}
	return &TerminalScreen{Out: out, Skin: skin}
}

// Canvas paints the visible part of v.
func (s *TerminalScreen) Canvas(v *View) *render.Canvas {
	vp := v.Viewport()
	c := render.NewCanvas(vp.Width, vp.Height)

	x := v.LeftPad()
	width := v.TextWidth()
	for y, line := range v.VisibleSlice() {
		c.WriteSpans(x, y, s.Skin.Spans(line, width))
	}

	// Scrollbar one column right of the text, when there is room for it.
	barX := x + width + 1
	if barX >= vp.Width {
		return c
	}
	start, size := thumb(len(v.Lines()), vp.Height, v.Offset())
	for y := 0; y < vp.Height && size > 0; y++ {
		r := '│'
		if y >= start && y < start+size {
			r = '┃'
		}
		c.Set(barX, y, r, render.Style{Dim: true})
	}
	return c
}

// Draw renders the visible part of v.
func (s *TerminalScreen) Draw(v *View) error {
	return s.Canvas(v).RenderTo(s.Out)
}

// Clear wipes the screen before the next draw.
func (s *TerminalScreen) Clear() error {
	_, err := io.WriteString(s.Out, render.ClearScreen)
	return err
}

// thumb returns the scrollbar thumb position and length for a track of
// height cells. size is zero when everything fits on screen.
func thumb(total, height, offset int) (start, size int) {
	if total <= height || height <= 0 {
		return 0, 0
	}
	size = height * height / total
	if size < 1 {
		size = 1
	}
	maxOffset := total - height
	start = offset * (height - size) / maxOffset
	return start, size
}
