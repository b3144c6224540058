// Package htmlcapability implements the CSS-selector HTML extraction
// helper scripts use to pull tokens (CSRF fields and the like) out of
// response bodies without hand-rolled string scanning.
package htmlcapability

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/kpcyrd/authoscope/scopeerr"
)

// Match is a single matched element: its text content and, if
// present, its attributes.
type Match struct {
	Text  string
	Attrs map[string]string
}

func find(document, selector string) (*goquery.Selection, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(document))
	if err != nil {
		return nil, scopeerr.Annotatef(err, scopeerr.Parse, "parsing html")
	}
	return doc.Find(selector), nil
}

func matchOf(s *goquery.Selection) Match {
	attrs := map[string]string{}
	if node := s.Get(0); node != nil {
		for _, a := range node.Attr {
			attrs[a.Key] = a.Val
		}
	}
	return Match{Text: s.Text(), Attrs: attrs}
}

// SelectFirst runs a CSS selector and returns only the first matching
// element, failing if the selector has no match.
func SelectFirst(document, selector string) (Match, error) {
	sel, err := find(document, selector)
	if err != nil {
		return Match{}, err
	}
	if sel.Length() == 0 {
		return Match{}, scopeerr.New(scopeerr.NotFound, nil, "css selector failed")
	}
	return matchOf(sel.Eq(0)), nil
}

// SelectAll runs a CSS selector and returns every matching element, an
// empty slice if none match.
func SelectAll(document, selector string) ([]Match, error) {
	sel, err := find(document, selector)
	if err != nil {
		return nil, err
	}
	out := make([]Match, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, matchOf(s))
	})
	return out, nil
}
