package htmlutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestGetText(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(
		`<div>单位净值 <span>1.0235</span><p>日期</p></div>`))
	require.NoError(t, err)

	text := Collapse(GetText(doc))
	require.Equal(t, "单位净值 1.0235日期", text)
}

func TestGetTextNil(t *testing.T) {
	require.Equal(t, "", GetText(nil))
}

func TestCollapse(t *testing.T) {
	require.Equal(t, "a b c", Collapse("  a\n\tb   c  "))
	require.Equal(t, "", Collapse("   \n "))
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "净值表", Truncate("净值表", 5))
	require.Equal(t, "净值", Truncate("净值表", 2))
	require.Equal(t, "ab", Truncate("abcd", 2))
}
