package source

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-ap/errors"

	"git.sr.ht/~mariusor/gni/events"
)

// ParseHTML reads the first table of an HTML document into rows keyed by the
// cells of its first row. Cells under a link column hold the href of their anchor.
func ParseHTML(r io.Reader) ([]events.Row, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, errors.Annotatef(err, "unable to parse HTML")
	}
	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, errors.NotFoundf("table")
	}
	lines := table.Find("tr")
	if lines.Length() == 0 {
		return nil, errors.Newf("missing header row")
	}

	header := make([]string, 0)
	lines.First().Find("th,td").Each(func(_ int, s *goquery.Selection) {
		header = append(header, strings.TrimSpace(s.Text()))
	})

	rows := make([]events.Row, 0)
	lines.Slice(1, goquery.ToEnd).Each(func(_ int, tr *goquery.Selection) {
		row := make(events.Row, len(header))
		empty := true
		tr.Find("th,td").Each(func(i int, s *goquery.Selection) {
			if i >= len(header) {
				return
			}
			val := cellValue(header[i], s)
			if val != "" {
				empty = false
			}
			row[header[i]] = val
		})
		if !empty {
			rows = append(rows, row)
		}
	})
	return rows, nil
}

func isLinkColumn(name string) bool {
	name = strings.ToLower(name)
	return strings.Contains(name, "link") || strings.Contains(name, "page")
}

func cellValue(column string, s *goquery.Selection) string {
	if isLinkColumn(column) {
		if href, ok := s.Find("a[href]").First().Attr("href"); ok {
			return strings.TrimSpace(href)
		}
	}
	return strings.TrimSpace(s.Text())
}
