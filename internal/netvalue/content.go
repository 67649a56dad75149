package netvalue

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
)

// Content adapts a Snapshot to the output interface the formatter drives.
// rawHTML is the fetched page source when the fetch path kept it; it backs
// ToHTML and the markdown fallback but is never serialized.
type Content struct {
	snap    *Snapshot
	rawHTML string
}

// NewContent wraps a snapshot for formatting.
func NewContent(snap *Snapshot, rawHTML string) *Content {
	return &Content{snap: snap, rawHTML: rawHTML}
}

// Snapshot exposes the underlying snapshot for file export.
func (c *Content) Snapshot() *Snapshot {
	return c.snap
}

// ToJSON returns the full snapshot, indented the way the archived runs
// were stored so diffs against old exports stay readable.
func (c *Content) ToJSON() ([]byte, error) {
	return json.MarshalIndent(c.snap, "", "  ")
}

// ToCSV renders every table, separated by a comment line carrying the
// table's document-order index. Ragged rows are written as-is.
func (c *Content) ToCSV() (string, error) {
	var buf bytes.Buffer
	for i, table := range c.snap.Tables {
		if i > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(fmt.Sprintf("# table %d (%s)\n", table.Index, c.snap.URL))

		w := csv.NewWriter(&buf)
		if len(table.Headers) > 0 {
			if err := w.Write(table.Headers); err != nil {
				return "", fmt.Errorf("failed to write csv header: %w", err)
			}
		}
		for _, row := range table.Rows {
			if err := w.Write(row); err != nil {
				return "", fmt.Errorf("failed to write csv row: %w", err)
			}
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// ToMarkdown renders the extracted tables as pipe tables. When no table
// survived extraction the raw page HTML (if kept) is converted instead so
// the caller still gets something inspectable.
func (c *Content) ToMarkdown() (string, error) {
	if len(c.snap.Tables) == 0 && c.rawHTML != "" {
		converter := md.NewConverter("", true, nil)
		markdown, err := converter.ConvertString(c.rawHTML)
		if err != nil {
			return "", fmt.Errorf("failed to convert HTML to Markdown: %w", err)
		}
		return markdown, nil
	}

	var sb strings.Builder
	if c.snap.PageTitle != "" {
		sb.WriteString(fmt.Sprintf("# %s\n\n", c.snap.PageTitle))
	}

	for _, table := range c.snap.Tables {
		sb.WriteString(fmt.Sprintf("## Table %d\n\n", table.Index))
		writeMarkdownTable(&sb, table.Headers, table.Rows)
		sb.WriteString("\n")
	}

	for _, section := range c.snap.Sections {
		if section.Text == "" {
			continue
		}
		sb.WriteString(section.Text)
		sb.WriteString("\n\n")
	}

	return sb.String(), nil
}

func writeMarkdownTable(sb *strings.Builder, headers []string, rows [][]string) {
	width := len(headers)
	if width == 0 {
		// Headerless table: size the grid to the widest row.
		for _, row := range rows {
			if len(row) > width {
				width = len(row)
			}
		}
	}
	if width == 0 {
		return
	}

	if len(headers) > 0 {
		sb.WriteString("|")
		for _, h := range headers {
			sb.WriteString(fmt.Sprintf(" %s |", h))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("|")
	for i := 0; i < width; i++ {
		sb.WriteString("---|")
	}
	sb.WriteString("\n")

	for _, row := range rows {
		sb.WriteString("|")
		for _, cell := range row {
			sb.WriteString(fmt.Sprintf(" %s |", cell))
		}
		sb.WriteString("\n")
	}
}

// ToText returns the run summary report.
func (c *Content) ToText() (string, error) {
	return Report(c.snap), nil
}

// ToHTML returns the raw fetched page when available, otherwise the
// markdown rendering wrapped in pre tags.
func (c *Content) ToHTML() (string, error) {
	if c.rawHTML != "" {
		return c.rawHTML, nil
	}
	markdown, err := c.ToMarkdown()
	if err != nil {
		return "", err
	}
	return "<pre>" + markdown + "</pre>", nil
}
