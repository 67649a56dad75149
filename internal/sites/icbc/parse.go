package icbc

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"netval/internal/htmlutil"
	"netval/internal/netvalue"
	"netval/internal/tabular"
)

// Prose blocks shorter than this are navigation crumbs, not content.
const minSectionRunes = 10

// Captured section text is capped so the JSON export stays reviewable.
const maxSectionRunes = 500

// Parse extracts the disclosure snapshot from a fetched page: title, URL
// query parameters, every data table, the top-level prose sections and the
// meta tags.
func Parse(rawHTML, pageURL, method string, ext *tabular.Extractor) (*netvalue.Snapshot, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	snap := &netvalue.Snapshot{
		ScrapedAt: time.Now(),
		URL:       pageURL,
		Method:    method,
		PageTitle: strings.TrimSpace(doc.Find("title").First().Text()),
		URLParams: queryParams(pageURL),
		Tables:    ext.Extract(doc),
		Sections:  contentSections(doc),
		Metadata:  metaTags(doc),
	}
	return snap, nil
}

// queryParams unwraps the page URL's query string. Repeated keys are rare
// on these pages; they collapse to a comma-joined value.
func queryParams(raw string) map[string]string {
	u, err := url.Parse(raw)
	if err != nil {
		return nil
	}
	query := u.Query()
	if len(query) == 0 {
		return nil
	}
	params := make(map[string]string, len(query))
	for key, values := range query {
		params[key] = strings.Join(values, ",")
	}
	return params
}

// contentSections captures the direct div/section children of the main
// content area, skipping blocks too short to be prose.
func contentSections(doc *goquery.Document) []netvalue.Section {
	root := doc.Find("main").First()
	if root.Length() == 0 {
		root = doc.Find("div.content").First()
	}
	if root.Length() == 0 {
		root = doc.Find("body").First()
	}
	if root.Length() == 0 {
		return nil
	}

	var sections []netvalue.Section
	root.ChildrenFiltered("div, section").Each(func(_ int, sel *goquery.Selection) {
		if len(sel.Nodes) == 0 {
			return
		}
		text := htmlutil.Collapse(htmlutil.GetText(sel.Nodes[0]))
		if len([]rune(text)) <= minSectionRunes {
			return
		}

		section := netvalue.Section{
			Tag:  goquery.NodeName(sel),
			Text: htmlutil.Truncate(text, maxSectionRunes),
		}
		if class, ok := sel.Attr("class"); ok {
			section.Classes = strings.Fields(class)
		}
		sections = append(sections, section)
	})
	return sections
}

func metaTags(doc *goquery.Document) map[string]string {
	meta := map[string]string{}
	doc.Find("meta").Each(func(_ int, sel *goquery.Selection) {
		name, ok := sel.Attr("name")
		if !ok {
			name, ok = sel.Attr("property")
		}
		content, hasContent := sel.Attr("content")
		if ok && name != "" && hasContent && content != "" {
			meta[name] = content
		}
	})
	if len(meta) == 0 {
		return nil
	}
	return meta
}
