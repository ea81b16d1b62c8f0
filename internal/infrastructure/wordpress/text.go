package wordpress

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PlainText strips markup and decodes entities from a rendered WordPress field,
// e.g. "Tips &amp; Tricks" becomes "Tips & Tricks".
func PlainText(html string) string {
	if !strings.ContainsAny(html, "<&") {
		return strings.TrimSpace(html)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return strings.TrimSpace(html)
	}
	return strings.TrimSpace(doc.Text())
}
