// Package extract normalizes raw message bodies into the content structure
// the classifier consumes: clean text, paragraphs, links and headings.
package extract

import (
	"strings"
	"unicode/utf8"

	emaildomain "inboxpilot-backend/internal/email/domain"

	"golang.org/x/net/html"
)

// blockTags are elements whose boundaries become line breaks in derived text
var blockTags = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "tr": true,
	"table": true, "ul": true, "ol": true, "blockquote": true,
	"section": true, "article": true, "header": true, "footer": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

// skipTags are elements whose subtree carries no readable text
var skipTags = map[string]bool{
	"script": true, "style": true, "head": true, "img": true,
	"video": true, "audio": true, "iframe": true, "svg": true,
	"noscript": true,
}

// TruncateRunes cuts s to at most limit bytes without splitting a rune,
// backing up to the previous rune boundary when limit lands mid-sequence.
func TruncateRunes(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}

// BuildContent assembles the normalized content structure from the plain-text
// and HTML accumulators of a message. Either argument may be empty: with only
// HTML present the text is derived from it, with only text present the HTML
// mirrors the text.
func BuildContent(plain, rawHTML string) *emaildomain.EmailContent {
	switch {
	case plain == "" && rawHTML != "":
		plain = HTMLToText(rawHTML)
	case plain != "" && rawHTML == "":
		rawHTML = plain
	}

	content := &emaildomain.EmailContent{
		Text:       NormalizeWhitespace(plain),
		HTML:       rawHTML,
		Paragraphs: []string{},
		Links:      []emaildomain.Link{},
		Headings:   []string{},
	}
	content.Paragraphs = SplitParagraphs(content.Text)

	if doc, err := html.Parse(strings.NewReader(rawHTML)); err == nil {
		content.Links = collectLinks(doc)
		content.Headings = collectHeadings(doc)
	}

	return content
}

// HTMLToText derives readable text from an HTML body: script/style/media
// subtrees are dropped, block element boundaries become line breaks.
func HTMLToText(rawHTML string) string {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return rawHTML
	}

	var buf strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && skipTags[n.Data] {
			return
		}
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
		if n.Type == html.ElementNode && blockTags[n.Data] {
			buf.WriteString("\n")
		}
	}
	walk(doc)

	return buf.String()
}

// NormalizeWhitespace collapses runs of spaces within lines and runs of blank
// lines down to a single blank line, trimming the result.
func NormalizeWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// SplitParagraphs splits normalized text on blank lines
func SplitParagraphs(text string) []string {
	paragraphs := []string{}
	for _, block := range strings.Split(text, "\n\n") {
		block = strings.TrimSpace(block)
		if block != "" {
			paragraphs = append(paragraphs, block)
		}
	}
	return paragraphs
}

func collectLinks(doc *html.Node) []emaildomain.Link {
	links := []emaildomain.Link{}
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			href := ""
			for _, attr := range n.Attr {
				if attr.Key == "href" {
					href = attr.Val
					break
				}
			}
			if href != "" && !strings.HasPrefix(href, "#") {
				text := strings.Join(strings.Fields(nodeText(n)), " ")
				links = append(links, emaildomain.Link{Text: text, URL: href})
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)
	return links
}

func collectHeadings(doc *html.Node) []string {
	headings := []string{}
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "h1", "h2", "h3", "h4", "h5", "h6":
				text := strings.Join(strings.Fields(nodeText(n)), " ")
				if text != "" {
					headings = append(headings, text)
				}
				return
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)
	return headings
}

func nodeText(n *html.Node) string {
	var buf strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return buf.String()
}
