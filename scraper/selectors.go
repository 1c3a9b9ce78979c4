package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"travel-scraper/extract"
)

// FirstMatch tries selectors in order against root and returns the first
// one that matches at least one element. goquery treats an invalid
// selector as matching nothing, so a bad entry is skipped.
func FirstMatch(root *goquery.Selection, selectors []string) (string, *goquery.Selection) {
	for _, sel := range selectors {
		found := root.Find(sel)
		if found.Length() > 0 {
			return sel, found
		}
	}
	return "", nil
}

// FieldText returns the normalised text of the first element matched by the
// prioritized selectors, or "" when none matches.
func FieldText(root *goquery.Selection, selectors []string) string {
	_, found := FirstMatch(root, selectors)
	if found == nil {
		return ""
	}
	return extract.NormaliseText(found.First().Text())
}

// FieldTexts returns the normalised text of every element matched by the
// first matching selector.
func FieldTexts(root *goquery.Selection, selectors []string) []string {
	_, found := FirstMatch(root, selectors)
	if found == nil {
		return nil
	}
	var out []string
	found.Each(func(_ int, s *goquery.Selection) {
		if text := extract.NormaliseText(s.Text()); text != "" {
			out = append(out, text)
		}
	})
	return out
}

// ParseHTML builds a document from rendered HTML.
func ParseHTML(html string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}
