package cmb

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"netval/internal/fetcher"
	"netval/internal/netvalue"
	"netval/internal/tabular"
)

func build(t *testing.T, html string) (*netvalue.Snapshot, error) {
	t.Helper()
	return buildSnapshot(&fetcher.Result{
		HTML:  html,
		Title: "产品净值",
		URL:   "https://www.cmbchina.com/cfweb/personal/proddetail",
	}, zerolog.Nop())
}

func TestBuildSnapshotPicksLargestTable(t *testing.T) {
	snap, err := build(t, `
		<table><tr><th>导航</th></tr><tr><td>首页</td></tr></table>
		<table>
			<tr><th>日期</th><th>净值</th></tr>
			<tr><td>2026-08-21</td><td>1.0235</td></tr>
			<tr><td>2026-08-14</td><td>1.0198</td></tr>
			<tr><td>2026-08-07</td><td>1.0150</td></tr>
		</table>`)
	require.NoError(t, err)

	require.Len(t, snap.Tables, 1)
	main := snap.Tables[0]
	require.Equal(t, 1, main.Index)
	require.Equal(t, []string{"日期", "净值"}, main.Headers)
	require.Len(t, main.Rows, 3)
	require.Equal(t, netvalue.MethodBrowser, snap.Method)
}

func TestBuildSnapshotDropsAllEmptyRows(t *testing.T) {
	snap, err := build(t, `<table>
		<tr><th>日期</th><th>净值</th></tr>
		<tr><td>2026-08-21</td><td>1.0235</td></tr>
		<tr><td></td><td></td></tr>
	</table>`)
	require.NoError(t, err)

	require.Len(t, snap.Tables, 1)
	require.Equal(t, [][]string{{"2026-08-21", "1.0235"}}, snap.Tables[0].Rows)
}

func TestBuildSnapshotListFallback(t *testing.T) {
	snap, err := build(t, `<div class="data-list">
		<div class="item">产品A 1.0235</div>
		<div class="item">产品B 1.0198</div>
		<div class="item"></div>
	</div>`)
	require.NoError(t, err)

	require.Len(t, snap.Tables, 1)
	require.Equal(t, [][]string{{"产品A 1.0235"}, {"产品B 1.0198"}}, snap.Tables[0].Rows)
	require.Empty(t, snap.Tables[0].Headers)
}

func TestBuildSnapshotNoData(t *testing.T) {
	_, err := build(t, `<html><body><p>暂无数据</p></body></html>`)
	require.ErrorIs(t, err, netvalue.ErrNoData)
}

func TestMainTableNoUsableRows(t *testing.T) {
	tables := []tabular.Table{{
		Index:   0,
		Headers: []string{"A"},
		Rows:    [][]string{{""}, {""}},
	}}
	_, ok := mainTable(tables)
	require.False(t, ok)
}
