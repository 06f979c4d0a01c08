// Package document pulls the title and article body out of a wiki page and
// assembles the dialect text shown by the pager.
package document

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"scpterm/markdown"
)

const (
	TitleSelector   = "div#page-title"
	ContentSelector = "div#page-content"
)

// ErrNotFound is matched by errors.Is when a page lacks an expected container.
var ErrNotFound = errors.New("container not found")

// NotFoundError names the selector that matched nothing.
type NotFoundError struct {
	Selector string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("page has no element matching %q", e.Selector)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// Document is a converted page.
type Document struct {
	Title string
	Body  string
}

// String returns the full dialect text: a title heading followed by the body.
func (d *Document) String() string {
	return "# **" + d.Title + "**\n" + d.Body
}

// Extractor locates the title and content containers and converts the content.
type Extractor struct {
	TitleSelector   string
	ContentSelector string
	Renderer        *markdown.Renderer
}

// DefaultExtractor uses the wiki's container ids and the default denylist.
var DefaultExtractor = &Extractor{
	TitleSelector:   TitleSelector,
	ContentSelector: ContentSelector,
	Renderer:        markdown.NewRenderer(markdown.DefaultDenylist),
}

// Extract converts a page with DefaultExtractor.
func Extract(pageHTML string) (*Document, error) {
	return DefaultExtractor.Extract(pageHTML)
}

// ExtractReader converts a page read from r with DefaultExtractor.
func ExtractReader(r io.Reader) (*Document, error) {
	return DefaultExtractor.ExtractReader(r)
}

// Extract converts a page given as a string.
func (e *Extractor) Extract(pageHTML string) (*Document, error) {
	return e.ExtractReader(strings.NewReader(pageHTML))
}

// ExtractReader parses the page, takes the inner markup of the first title
// and content containers, and renders the content as a fresh fragment.
func (e *Extractor) ExtractReader(r io.Reader) (*Document, error) {
	page, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing page: %w", err)
	}

	title, err := innerHTML(page, e.TitleSelector)
	if err != nil {
		return nil, err
	}
	content, err := innerHTML(page, e.ContentSelector)
	if err != nil {
		return nil, err
	}

	root, err := markdown.ParseFragment(content)
	if err != nil {
		return nil, err
	}
	body, err := e.Renderer.Render(root)
	if err != nil {
		return nil, fmt.Errorf("converting content: %w", err)
	}

	log.Debug().
		Int("content_bytes", len(content)).
		Int("body_bytes", len(body)).
		Msg("converted page content")

	return &Document{Title: strings.TrimSpace(title), Body: body}, nil
}

func innerHTML(page *goquery.Document, selector string) (string, error) {
	sel := page.Find(selector).First()
	if sel.Length() == 0 {
		return "", &NotFoundError{Selector: selector}
	}
	markup, err := sel.Html()
	if err != nil {
		return "", fmt.Errorf("reading %q: %w", selector, err)
	}
	return markup, nil
}
