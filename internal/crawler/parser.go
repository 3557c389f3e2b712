package crawler

import (
	"bytes"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// ParseResult holds what the crawler needs from one HTML page: the
// title for storage, the outbound links for frontier expansion, and
// the visible text for content fingerprinting.
type ParseResult struct {
	// Title is the page title from the <title> tag.
	Title string

	// Links are the href targets of anchor tags, resolved against
	// the page URL, limited to http(s), in document order without
	// duplicates.
	Links []string

	// Text is the concatenated visible text content, used for
	// fingerprinting. Script and style bodies are excluded.
	Text string
}

// Parser extracts links and text from HTML content.
//
// Design decision: We use golang.org/x/net/html for parsing rather
// than regex because:
//  1. It correctly handles malformed HTML common on the web
//  2. Provides a proper DOM-like structure
//  3. More maintainable than complex regex patterns
type Parser struct {
	// baseURL is the URL of the page being parsed, used for
	// resolving relative links.
	baseURL *url.URL
}

// NewParser creates a parser resolving relative links against baseURL.
func NewParser(baseURL string) (*Parser, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	return &Parser{baseURL: u}, nil
}

// Parse parses an HTML document and extracts title, links, and text.
func (p *Parser) Parse(body []byte) (*ParseResult, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	result := &ParseResult{Links: make([]string, 0)}
	seen := make(map[string]struct{})
	var text strings.Builder

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.ElementNode:
			switch n.Data {
			case "script", "style", "noscript":
				// Not visible content; skip the subtree.
				return
			case "title":
				if result.Title == "" && n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
					result.Title = strings.TrimSpace(n.FirstChild.Data)
				}
			case "a":
				if href := getAttr(n, "href"); href != "" {
					if resolved := p.resolveLink(href); resolved != "" {
						if _, dup := seen[resolved]; !dup {
							seen[resolved] = struct{}{}
							result.Links = append(result.Links, resolved)
						}
					}
				}
			}
		case html.TextNode:
			text.WriteString(n.Data)
			text.WriteString(" ")
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	result.Text = text.String()
	return result, nil
}

// resolveLink resolves an href against the base URL, returning ""
// for links the crawler can never fetch.
func (p *Parser) resolveLink(href string) string {
	href = strings.TrimSpace(href)
	if href == "" || href == "#" ||
		strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:") {
		return ""
	}

	u, err := url.Parse(href)
	if err != nil {
		return ""
	}

	resolved := p.baseURL.ResolveReference(u)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	return resolved.String()
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
