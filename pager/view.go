// Package pager shows converted text in a scrollable terminal view.
package pager

import "scpterm/render"

const (
	// Margin is the number of columns kept free around the text column.
	Margin = 20
	// MinTextWidth is the narrowest column the margin may leave; below it
	// the full terminal width is used.
	MinTextWidth = 20
)

// Viewport is the visible terminal area.
type Viewport struct {
	Width  int
	Height int
}

// View holds the wrapped text and the scroll position over it.
// The offset always stays within [0, MaxOffset()].
type View struct {
	text   string
	vp     Viewport
	margin int
	lines  []string
	offset int
}

// New wraps text for vp with the default margin.
func New(text string, vp Viewport) *View {
	return NewWithMargin(text, vp, Margin)
}

// NewWithMargin wraps text for vp, keeping margin columns free.
func NewWithMargin(text string, vp Viewport, margin int) *View {
	if margin < 0 {
		margin = 0
	}
	v := &View{text: text, margin: margin}
	v.Resize(vp)
	return v
}

// ScrollLines moves the view by delta lines, stopping at either end.
func (v *View) ScrollLines(delta int) {
	v.offset += delta
	v.clamp()
}

// ScrollPages moves the view by delta screens.
func (v *View) ScrollPages(delta int) {
	v.ScrollLines(delta * v.vp.Height)
}

// Resize rewraps the text for vp and clamps the offset to the new bounds.
func (v *View) Resize(vp Viewport) {
	if vp.Width < 0 {
		vp.Width = 0
	}
	if vp.Height < 0 {
		vp.Height = 0
	}
	v.vp = vp
	v.lines = render.Wrap(v.text, v.TextWidth())
	v.clamp()
}

// VisibleSlice returns the lines currently on screen.
func (v *View) VisibleSlice() []string {
	end := v.offset + v.vp.Height
	if end > len(v.lines) {
		end = len(v.lines)
	}
	return v.lines[v.offset:end]
}

// TextWidth is the column width the text is wrapped to.
func (v *View) TextWidth() int {
	w := v.vp.Width - v.margin
	if w < MinTextWidth {
		w = v.vp.Width
	}
	if w < 1 {
		w = 1
	}
	return w
}

// LeftPad is the column the text starts at, centering it in the viewport.
func (v *View) LeftPad() int {
	pad := (v.vp.Width - v.TextWidth()) / 2
	if pad < 0 {
		return 0
	}
	return pad
}

// MaxOffset is the largest valid offset.
func (v *View) MaxOffset() int {
	m := len(v.lines) - v.vp.Height
	if m < 0 {
		return 0
	}
	return m
}

func (v *View) Offset() int        { return v.offset }
func (v *View) Lines() []string    { return v.lines }
func (v *View) Viewport() Viewport { return v.vp }

// ScrollPercent reports how far down the text the view is.
func (v *View) ScrollPercent() int {
	m := v.MaxOffset()
	if m == 0 {
		return 100
	}
	return v.offset * 100 / m
}

func (v *View) clamp() {
	if m := v.MaxOffset(); v.offset > m {
		v.offset = m
	}
	if v.offset < 0 {
		v.offset = 0
	}
}
