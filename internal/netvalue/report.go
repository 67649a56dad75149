package netvalue

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

const reportBanner = "================================================================================"

// Report renders a human-readable summary of one scrape, the format the
// terminal output and --format text use.
func Report(s *Snapshot) string {
	var sb strings.Builder

	sb.WriteString(reportBanner + "\n")
	sb.WriteString("Net-Value Disclosure Scraping Report\n")
	sb.WriteString(reportBanner + "\n\n")

	sb.WriteString(fmt.Sprintf("Scraped at: %s\n", s.ScrapedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Source URL: %s\n", s.URL))
	sb.WriteString(fmt.Sprintf("Fetch method: %s\n", s.Method))
	if s.PageTitle != "" {
		sb.WriteString(fmt.Sprintf("Page title: %s\n", s.PageTitle))
	}
	sb.WriteString("\n")

	if len(s.URLParams) > 0 {
		sb.WriteString("URL parameters:\n")
		keys := make([]string, 0, len(s.URLParams))
		for key := range s.URLParams {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			sb.WriteString(fmt.Sprintf("  %s: %s\n", key, s.URLParams[key]))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("Tables extracted: %d\n", len(s.Tables)))
	for _, t := range s.Tables {
		sb.WriteString(fmt.Sprintf("  Table %d: %d columns, %d rows\n",
			t.Index, len(t.Headers), len(t.Rows)))
		if len(t.Headers) > 0 {
			shown := t.Headers
			if len(shown) > 5 {
				shown = shown[:5]
			}
			sb.WriteString(fmt.Sprintf("    Columns: %s\n", strings.Join(shown, ", ")))
			if rest := len(t.Headers) - 5; rest > 0 {
				sb.WriteString(fmt.Sprintf("             ... (%d more)\n", rest))
			}
		}
	}
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("Content sections: %d\n", len(s.Sections)))
	sb.WriteString(fmt.Sprintf("Metadata fields: %d\n", len(s.Metadata)))
	sb.WriteString("\n" + reportBanner + "\n")

	return sb.String()
}
