package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInferFormatFromExtension(t *testing.T) {
	cases := map[string]string{
		"out.json":       "json",
		"data.CSV":       "csv",
		"report.md":      "markdown",
		"report.markdown": "markdown",
		"page.html":      "html",
		"page.htm":       "html",
		"notes.txt":      "text",
		"noext":          "",
		"archive.zip":    "",
	}
	for name, want := range cases {
		require.Equal(t, want, inferFormatFromExtension(name), name)
	}
}

func TestNormalizeURL(t *testing.T) {
	require.Equal(t, "https://www.cmbchina.com", normalizeURL("www.cmbchina.com"))
	require.Equal(t, "http://localhost:8080", normalizeURL("http://localhost:8080"))
	require.Equal(t, "https://example.com", normalizeURL("  https://example.com  "))
	require.Equal(t, "", normalizeURL(""))
}

func TestFirstNonEmpty(t *testing.T) {
	require.Equal(t, "a", firstNonEmpty("", "a", "b"))
	require.Equal(t, "", firstNonEmpty("", ""))
}
