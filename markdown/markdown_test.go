package markdown

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/net/html"
)

func mustParse(t *testing.T, markup string) *html.Node {
	t.Helper()
	root, err := ParseFragment(markup)
	if err != nil {
		t.Fatalf("ParseFragment failed: %v", err)
	}
	return root
}

func mustRender(t *testing.T, markup string) string {
	t.Helper()
	out, err := Render(mustParse(t, markup))
	if err != nil {
		t.Fatalf("Render(%q) failed: %v", markup, err)
	}
	return out
}

func TestClassify(t *testing.T) {
	attrs := func(kv ...string) []html.Attribute {
		var out []html.Attribute
		for i := 0; i+1 < len(kv); i += 2 {
			out = append(out, html.Attribute{Key: kv[i], Val: kv[i+1]})
		}
		return out
	}

	tests := []struct {
		name  string
		tag   string
		attrs []html.Attribute
		want  Rule
	}{
		{"link", "a", attrs("href", "/scp-173"), Rule{"", ""}},
		{"strong", "strong", nil, Rule{"**", "**"}},
		{"em", "em", nil, Rule{"*", "*"}},
		{"list item", "li", nil, Rule{"* ", "\n"}},
		{"paragraph", "p", nil, Rule{"\n", "\n"}},
		{"footnote ref", "sup", nil, Rule{"```[", "]```"}},
		{"title div", "div", attrs("class", "title"), Rule{"\n## ", "\n"}},
		{"unfolded link", "div", attrs("class", "collapsible-block-unfolded-link"), Rule{"`", "`"}},
		{"plain div", "div", nil, Rule{"\n", "\n"}},
		{"div other class", "div", attrs("class", "title extra"), Rule{"\n", "\n"}},
		{"struck span", "span", attrs("style", "text-decoration: line-through;"), Rule{"~~", "~~"}},
		{"plain span", "span", attrs("style", "color: red;"), Rule{"", ""}},
		{"tbody", "tbody", nil, Rule{"<tbody>", "</tbody>"}},
		{"td", "td", nil, Rule{"<td>", "</td>"}},
		{"th", "th", nil, Rule{"<th>", "</th>"}},
		{"tr", "tr", nil, Rule{"<tr>", "</tr>"}},
		{"unlisted", "h1", nil, Rule{"", ""}},
		{"unlisted with attrs", "section", attrs("class", "title"), Rule{"", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.tag, tt.attrs)
			if got != tt.want {
				t.Errorf("Classify(%q) = %q, expected %q", tt.tag, got, tt.want)
			}
		})
	}
}

func TestRender(t *testing.T) {
	tests := []struct {
		name     string
		markup   string
		expected string
	}{
		{"paragraph", "<p>Hello <strong>World</strong></p>", "\nHello **World**\n"},
		{"newlines stripped", "<p>Hel\nlo\n wor\nld</p>", "\nHello world\n"},
		{"break", "a<br>b", "a\nb"},
		{"break ignores children", "<br>", "\n"},
		{"rule", "<hr>", "---"},
		{"emphasis and strike", `<em>x</em><span style="text-decoration: line-through;">y</span>`, "*x*~~y~~"},
		{"list", "<ul><li>one</li><li>two</li></ul>", "* one\n* two\n"},
		{"footnote", "<sup>1</sup>", "```[1]```"},
		{"title div", `<div class="title">Addendum</div>`, "\n## Addendum\n"},
		{"comment ignored", "a<!-- note -->b", "ab"},
		{"link passes through", `<a href="/x">here</a>`, "here"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustRender(t, tt.markup)
			if got != tt.expected {
				t.Errorf("got %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestRenderSuppressed(t *testing.T) {
	tests := []struct {
		name   string
		markup string
	}{
		{"script", "<script>alert(1)</script>"},
		{"rate widget", `<div class="page-rate-widget-box">+5</div>`},
		{"folded block", `<div class="collapsible-block-folded">show</div>`},
		{"credit rate", `<div class="creditRate">rate</div>`},
		{"footer nav", `<div class="footer-wikiwalk-nav">next</div>`},
		{"license", `<div class="licensebox">cc</div>`},
		{"credit view", `<div id="u-credit-view">credits</div>`},
		{"image block", `<div class="scp-image-block block-right">img</div>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mustRender(t, tt.markup); got != "" {
				t.Errorf("got %q, expected empty output", got)
			}
		})
	}
}

func TestRenderSuppressedChildrenNotVisited(t *testing.T) {
	// The table below fails when rendered; it must never be reached.
	markup := `<div class="licensebox"><table></table></div>`
	got, err := Render(mustParse(t, markup))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "" {
		t.Errorf("got %q, expected empty output", got)
	}
}

func TestRenderBlockquote(t *testing.T) {
	tests := []struct {
		name     string
		markup   string
		expected string
	}{
		{"lines", "<blockquote>a<br>b</blockquote>", "\n> a\n> b\n"},
		{"paragraphs", "<blockquote><p>a</p><p>b</p></blockquote>", "\n> a\n> \n> b\n"},
		{"rule kept bare", "<blockquote>a<hr>b<br>c</blockquote>", "\n---\n> c\n"},
		{"trailing rule", "<blockquote><p>x</p><hr></blockquote>", "\n> x\n---\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustRender(t, tt.markup)
			if got != tt.expected {
				t.Errorf("got %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestRenderTable(t *testing.T) {
	markup := "<table><tr><td>a</td><td>b</td><td>c</td></tr>" +
		"<tr><td>d</td><td>e</td><td>f</td></tr></table>"
	got := mustRender(t, markup)

	expected := "|:--:|:--:|:--:\n|a|b|c\n|:--:|:--:|:--:\n|d|e|f\n|-\n"
	if got != expected {
		t.Fatalf("got %q, expected %q", got, expected)
	}

	lines := strings.Split(got, "\n")
	if n := strings.Count(lines[0], "|:--:"); n != 3 {
		t.Errorf("separator has %d column groups, expected 3", n)
	}
	rows := 0
	for _, line := range lines {
		if strings.HasPrefix(line, "|") && !strings.HasPrefix(line, "|:--:") && line != "|-" {
			rows++
		}
	}
	if rows != 2 {
		t.Errorf("got %d row blocks, expected 2", rows)
	}
}

func TestRenderTableHeader(t *testing.T) {
	markup := "<table><tr><th>Item</th><th>Class</th></tr>" +
		"<tr><td>SCP-173</td><td>Euclid</td></tr></table>"
	got := mustRender(t, markup)

	expected := "|:--:\n|**Item**|**Class**\n|:--:\n|SCP-173|Euclid\n|-\n"
	if got != expected {
		t.Errorf("got %q, expected %q", got, expected)
	}
}

func TestRenderMalformedTable(t *testing.T) {
	_, err := Render(mustParse(t, "<p>before</p><table></table>"))
	if err == nil {
		t.Fatal("expected an error for a table without rows")
	}
	if !errors.Is(err, ErrMalformedTable) {
		t.Errorf("error %v does not match ErrMalformedTable", err)
	}
	var mt *MalformedTableError
	if !errors.As(err, &mt) {
		t.Fatalf("error %T is not a *MalformedTableError", err)
	}
	if mt.Cells != 0 {
		t.Errorf("Cells = %d, expected 0", mt.Cells)
	}
}

func TestRenderDeterministic(t *testing.T) {
	root := mustParse(t, `<div class="title">T</div><blockquote><p>q</p></blockquote>`+
		`<table><tr><td>1</td></tr></table><ul><li><em>x</em></li></ul>`)

	first, err := Render(root)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	second, err := Render(root)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if first != second {
		t.Errorf("renders differ:\n%q\n%q", first, second)
	}
}

func TestRendererCustomDenylist(t *testing.T) {
	r := NewRenderer(Denylist{Classes: []string{"ad"}})

	got, err := r.Render(mustParse(t, `<div class="ad">buy</div><div class="licensebox">cc</div>`))
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if got != "\ncc\n" {
		t.Errorf("got %q, expected %q", got, "\ncc\n")
	}
}
