package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nexus-cli/internal/backend"
	"nexus-cli/internal/chat"
)

func TestSessionItemTruncatesLongTitles(t *testing.T) {
	item := sessionItem{data: backend.SessionSummary{
		Title: "A very long session title that will not fit in the sidebar",
	}}
	title := item.Title()
	assert.LessOrEqual(t, len([]rune(title)), 29)
	assert.True(t, strings.HasSuffix(title, "…"))
}

func TestBuildSessionItems(t *testing.T) {
	items := buildSessionItems([]backend.SessionSummary{
		{ID: "s-1", Title: "One", Domain: "finance", CreatedAt: time.Now()},
		{ID: "s-2", Title: "Two", Domain: "unknown-domain", CreatedAt: time.Now()},
	})
	require.Len(t, items, 2)

	first, ok := items[0].(sessionItem)
	require.True(t, ok)
	assert.Equal(t, "One", first.Title())
	assert.Contains(t, first.Description(), "Finance")

	// Unknown domains render with the General badge rather than breaking.
	second := items[1].(sessionItem)
	assert.Contains(t, second.Description(), "General")
}

func TestRenderChartScalesBars(t *testing.T) {
	out := renderChart(chat.ChartInfo{
		Title: "Revenue",
		Points: []chat.ChartPoint{
			{Label: "Q1", Value: 50},
			{Label: "Q2", Value: 100},
		},
	})

	require.Contains(t, out, "Revenue")
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)
	q1 := strings.Count(lines[1], "█")
	q2 := strings.Count(lines[2], "█")
	assert.Equal(t, q2, 2*q1, "bars must scale with the values")
	assert.Contains(t, lines[2], "100.00")
}

func TestRenderChartAllZeroValues(t *testing.T) {
	out := renderChart(chat.ChartInfo{
		Points: []chat.ChartPoint{{Label: "Empty", Value: 0}},
	})
	assert.NotContains(t, out, "█")
	assert.Contains(t, out, "Empty")
}
