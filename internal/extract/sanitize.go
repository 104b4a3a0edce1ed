package extract

import (
	"strings"

	"golang.org/x/net/html"
)

// Field length caps applied during normalization. Digest lines stay
// scannable; full text is one click away.
const (
	maxTitleLen   = 100
	maxSummaryLen = 180
	maxSourceLen  = 50
)

// Sanitize flattens markup-bearing feed text into clean single-line
// prose: tags stripped, entities decoded, whitespace collapsed, and the
// result cut at a word boundary with an ellipsis when it exceeds
// maxLen. maxLen <= 0 disables truncation.
func Sanitize(s string, maxLen int) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	if strings.ContainsAny(s, "<&") {
		s = stripMarkup(s)
	}

	// Collapse all runs of whitespace, newlines included, to one space.
	s = strings.Join(strings.Fields(s), " ")

	return truncateWords(s, maxLen)
}

// stripMarkup extracts the visible text from an HTML fragment, skipping
// script and style content.
func stripMarkup(s string) string {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return s
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
			buf.WriteString(n.Data)
			buf.WriteString(" ")
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)
	return buf.String()
}

// truncateWords cuts s to at most maxLen runes, backing up to the last
// space so words stay whole, and appends an ellipsis.
func truncateWords(s string, maxLen int) string {
	if maxLen <= 0 {
		return s
	}

	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}

	cut := string(runes[:maxLen])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return cut + "…"
}
