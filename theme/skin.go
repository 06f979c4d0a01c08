// Package theme styles lines of the Markdown dialect for display.
package theme

import (
	"regexp"
	"strings"

	"scpterm/render"
)

// Skin holds the style of each dialect construct.
type Skin struct {
	Bold    render.Style
	Italic  render.Style
	Strike  render.Style
	Code    render.Style
	Header1 render.Style
	Header2 render.Style
	Quote   render.Style
	Rule    render.Style
	Table   render.Style
}

// Default returns the stock skin: dark red bold text, yellow code and a
// reversed page heading.
func Default() *Skin {
	return &Skin{
		Bold:    render.Style{Bold: true, FgColor: render.ColorRed},
		Italic:  render.Style{Italic: true},
		Strike:  render.Style{Strike: true},
		Code:    render.Style{FgColor: render.ColorYellow},
		Header1: render.Style{Bold: true, Reverse: true},
		Header2: render.Style{Bold: true, Underline: true},
		Quote:   render.Style{Dim: true},
		Rule:    render.Style{Dim: true},
		Table:   render.Style{Dim: true},
	}
}

// WithColors overrides the bold and code colors. Zero keeps the current color.
func (s *Skin) WithColors(bold, code int) *Skin {
	out := *s
	if bold != 0 {
		out.Bold.FgColor = bold
	}
	if code != 0 {
		out.Code.FgColor = code
	}
	return &out
}

// WithQuoteDim sets whether blockquote lines are dimmed.
func (s *Skin) WithQuoteDim(dim bool) *Skin {
	out := *s
	out.Quote.Dim = dim
	return &out
}

var separatorRow = regexp.MustCompile(`^(\|:--:)+$`)

// Spans styles one wrapped line. Width is the text column width, used to
// draw horizontal rules across it.
func (s *Skin) Spans(line string, width int) []render.Span {
	trimmed := strings.TrimSpace(line)
	switch {
	case trimmed == "---":
		return []render.Span{{Text: strings.Repeat("─", width), Style: s.Rule}}
	case separatorRow.MatchString(trimmed) || trimmed == "|-":
		return []render.Span{{Text: strings.ReplaceAll(trimmed, "|", "│"), Style: s.Table}}
	case strings.HasPrefix(line, "## "):
		return s.inline(line[3:], s.Header2)
	case strings.HasPrefix(line, "# "):
		return s.inline(line[2:], s.Header1)
	case strings.HasPrefix(line, "> "):
		return append([]render.Span{{Text: "│ ", Style: s.Quote}}, s.inline(line[2:], s.Quote)...)
	case strings.HasPrefix(line, "* "):
		return append([]render.Span{{Text: "• "}}, s.inline(line[2:], render.Style{})...)
	case strings.HasPrefix(line, "|"):
		return s.tableRow(line)
	}
	return s.inline(line, render.Style{})
}

func (s *Skin) tableRow(line string) []render.Span {
	var spans []render.Span
	for i, cell := range strings.Split(line, "|") {
		if i > 0 {
			spans = append(spans, render.Span{Text: "│", Style: s.Table})
		}
		spans = append(spans, s.inline(cell, render.Style{})...)
	}
	return spans
}

// Longer markers first so "**" is not read as two "*".
var markers = []string{"```", "`", "**", "~~", "*"}

// inline splits text on emphasis markers. A marker only opens when a
// matching one follows later on the line; otherwise it is shown as text.
func (s *Skin) inline(text string, base render.Style) []render.Span {
	var (
		spans []render.Span
		buf   strings.Builder
		code  string
		open  = map[string]bool{}
	)

	flush := func() {
		if buf.Len() == 0 {
			return
		}
		style := base
		if open["**"] {
			style = merge(style, s.Bold)
		}
		if open["*"] {
			style = merge(style, s.Italic)
		}
		if open["~~"] {
			style = merge(style, s.Strike)
		}
		if code != "" {
			style = merge(style, s.Code)
		}
		spans = append(spans, render.Span{Text: buf.String(), Style: style})
		buf.Reset()
	}

	for i := 0; i < len(text); {
		if code != "" {
			if strings.HasPrefix(text[i:], code) {
				flush()
				i += len(code)
				code = ""
				continue
			}
			buf.WriteByte(text[i])
			i++
			continue
		}

		m := markerAt(text, i)
		rest := text[i+len(m):]
		switch {
		case m == "":
			buf.WriteByte(text[i])
			i++
			continue
		case m == "```" || m == "`":
			if strings.Contains(rest, m) {
				flush()
				code = m
				i += len(m)
				continue
			}
		case open[m]:
			flush()
			open[m] = false
			i += len(m)
			continue
		case strings.Contains(rest, m):
			flush()
			open[m] = true
			i += len(m)
			continue
		}
		buf.WriteString(m)
		i += len(m)
	}
	flush()
	return spans
}

func markerAt(text string, i int) string {
	for _, m := range markers {
		if strings.HasPrefix(text[i:], m) {
			return m
		}
	}
	return ""
}

func merge(a, b render.Style) render.Style {
	a.Bold = a.Bold || b.Bold
	a.Dim = a.Dim || b.Dim
	a.Italic = a.Italic || b.Italic
	a.Underline = a.Underline || b.Underline
	a.Reverse = a.Reverse || b.Reverse
	a.Strike = a.Strike || b.Strike
	if b.FgColor != 0 {
		a.FgColor = b.FgColor
	}
	return a
}

// Plain joins span texts, dropping styles.
func Plain(spans []render.Span) string {
	var sb strings.Builder
	for _, sp := range spans {
		sb.WriteString(sp.Text)
	}
	return sb.String()
}
