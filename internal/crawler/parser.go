package crawler

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// operatorSelectors are tried in order; the first non-empty match wins.
var operatorSelectors = []string{
	`[data-automation="operator-name"]`,
	`meta[name="operator"]`,
	`meta[property="og:site_name"]`,
}

// ParseOperator reads the tour operator's name from product page markup.
// It returns "" when the page names none.
func ParseOperator(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}

	for _, sel := range operatorSelectors {
		s := doc.Find(sel).First()
		if s.Length() == 0 {
			continue
		}
		name := s.AttrOr("content", "")
		if name == "" {
			name = s.Text()
		}
		if name = strings.Join(strings.Fields(name), " "); name != "" {
			return name, nil
		}
	}
	return "", nil
}
