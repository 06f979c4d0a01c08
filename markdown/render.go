package markdown

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/net/html"
)

// ErrMalformedTable is matched by errors.Is for tables without any row.
var ErrMalformedTable = errors.New("malformed table")

// MalformedTableError reports a table whose rendered body holds no <tr>
// marker, so no column count can be derived from it.
type MalformedTableError struct {
	Cells int // <td> markers found
}

func (e *MalformedTableError) Error() string {
	return fmt.Sprintf("malformed table: %d cells but no rows", e.Cells)
}

func (e *MalformedTableError) Is(target error) bool {
	return target == ErrMalformedTable
}

// Denylist lists the page chrome that is dropped from the output together
// with everything below it.
type Denylist struct {
	Classes         []string // exact div class values
	IDs             []string // exact div id values
	ClassSubstrings []string // div classes containing any of these
}

// DefaultDenylist covers the wiki's rating widgets, folded blocks, credits,
// footer navigation, license box and image blocks.
var DefaultDenylist = Denylist{
	Classes: []string{
		"page-rate-widget-box",
		"collapsible-block-folded",
		"creditRate",
		"footer-wikiwalk-nav",
		"licensebox",
	},
	IDs:             []string{"u-credit-view"},
	ClassSubstrings: []string{"scp-image-block"},
}

// Renderer folds an HTML tree into dialect text.
type Renderer struct {
	Denylist Denylist
}

// NewRenderer returns a renderer using the given denylist.
func NewRenderer(d Denylist) *Renderer {
	return &Renderer{Denylist: d}
}

// Render converts n and its descendants with the default denylist.
func Render(n *html.Node) (string, error) {
	return NewRenderer(DefaultDenylist).Render(n)
}

// Suppressed reports whether n is dropped by the default denylist.
func Suppressed(n *html.Node) bool {
	return DefaultDenylist.Suppressed(n)
}

// Suppressed reports whether the element n and its subtree are dropped.
func (d Denylist) Suppressed(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch n.Data {
	case "script":
		return true
	case "div":
		class, hasClass := attr(n.Attr, "class")
		if hasClass && slices.Contains(d.Classes, class) {
			return true
		}
		if id, ok := attr(n.Attr, "id"); ok && slices.Contains(d.IDs, id) {
			return true
		}
		for _, sub := range d.ClassSubstrings {
			if hasClass && strings.Contains(class, sub) {
				return true
			}
		}
	}
	return false
}

// Render converts n and its descendants. The tree is only read.
func (r *Renderer) Render(n *html.Node) (string, error) {
	switch n.Type {
	case html.TextNode:
		return strings.ReplaceAll(n.Data, "\n", ""), nil
	case html.ElementNode:
		return r.renderElement(n)
	default:
		return r.renderChildren(n)
	}
}

func (r *Renderer) renderElement(n *html.Node) (string, error) {
	switch n.Data {
	case "br":
		return "\n", nil
	case "hr":
		return "---", nil
	}
	if r.Denylist.Suppressed(n) {
		return "", nil
	}

	rule := Classify(n.Data, n.Attr)
	inner, err := r.renderChildren(n)
	if err != nil {
		return "", err
	}
	s := rule.Prefix + inner + rule.Suffix

	switch n.Data {
	case "blockquote":
		return quote(s), nil
	case "table":
		return table(s)
	}
	return s, nil
}

func (r *Renderer) renderChildren(n *html.Node) (string, error) {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		s, err := r.Render(c)
		if err != nil {
			return "", err
		}
		sb.WriteString(s)
	}
	return sb.String(), nil
}

// quote prefixes every line with "> ". A line holding a rule marker is
// replaced by the bare marker so it is not quoted.
func quote(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i, line := range lines {
		if strings.Contains(line, "---") {
			lines[i] = "---"
		} else {
			lines[i] = "> " + line
		}
	}
	return "\n" + strings.Join(lines, "\n") + "\n"
}

var tableMarkers = []string{
	"<td>", "|",
	"</td>", "",
	"<tbody>", "",
	"</tbody>", "|-\n",
	"<th>", "|**",
	"</th>", "**",
}

// table rewrites the cell markers left by Classify into a Markdown table.
// Cell text that itself contains the markers is not distinguished from them.
func table(s string) (string, error) {
	cells := strings.Count(s, "<td>")
	rows := strings.Count(s, "<tr>")
	if rows == 0 {
		return "", &MalformedTableError{Cells: cells}
	}
	separator := strings.Repeat("|:--:", cells/rows)

	for i := 0; i < len(tableMarkers); i += 2 {
		s = strings.ReplaceAll(s, tableMarkers[i], tableMarkers[i+1])
	}
	s = strings.ReplaceAll(s, "<tr>", separator+"\n")
	return strings.ReplaceAll(s, "</tr>", "\n"), nil
}
