// Package markdown converts wiki page HTML into the narrow Markdown dialect
// shown by the pager.
package markdown

import "golang.org/x/net/html"

// Rule holds the markers wrapped around an element's rendered children.
type Rule struct {
	Prefix string
	Suffix string
}

// Classify returns the markers for an element shape. Shapes without a rule
// pass through with empty markers.
func Classify(tag string, attrs []html.Attribute) Rule {
	switch tag {
	case "a":
		return Rule{}
	case "strong":
		return Rule{"**", "**"}
	case "em":
		return Rule{"*", "*"}
	case "li":
		return Rule{"* ", "\n"}
	case "p":
		return Rule{"\n", "\n"}
	case "sup":
		return Rule{"```[", "]```"}
	case "div":
		class, _ := attr(attrs, "class")
		switch class {
		case "title":
			return Rule{"\n## ", "\n"}
		case "collapsible-block-unfolded-link":
			return Rule{"`", "`"}
		}
		return Rule{"\n", "\n"}
	case "span":
		if style, ok := attr(attrs, "style"); ok && style == "text-decoration: line-through;" {
			return Rule{"~~", "~~"}
		}
	case "tbody":
		return Rule{"<tbody>", "</tbody>"}
	case "td":
		return Rule{"<td>", "</td>"}
	case "th":
		return Rule{"<th>", "</th>"}
	case "tr":
		return Rule{"<tr>", "</tr>"}
	}
	return Rule{}
}

func attr(attrs []html.Attribute, key string) (string, bool) {
	for _, a := range attrs {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}
