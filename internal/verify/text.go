package verify

import (
	"strings"

	"golang.org/x/net/html"
)

// NormalizeText prepares selected text for verification. Selections copied
// out of rich editors can carry HTML fragments; those are reduced to their
// visible text. Whitespace is collapsed so equivalent selections share a
// cache key.
func NormalizeText(text string) string {
	text = strings.TrimSpace(text)
	if looksLikeHTML(text) {
		if visible, err := visibleText(text); err == nil && visible != "" {
			text = visible
		}
	}
	return strings.Join(strings.Fields(text), " ")
}

func looksLikeHTML(text string) bool {
	open := strings.IndexByte(text, '<')
	return open >= 0 && strings.IndexByte(text[open:], '>') > 0
}

// visibleText extracts text nodes from an HTML fragment, skipping
// scripts and styles.
func visibleText(fragment string) (string, error) {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return "", err
	}

	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				buf.WriteString(t)
				buf.WriteString(" ")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return strings.TrimSpace(buf.String()), nil
}
