// Package domain maps detected subject-matter classifications to display
// metadata. The set is closed; anything the backend sends outside it renders
// with the General entry.
package domain

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Type is one value of the closed domain enumeration.
type Type string

const (
	Medical       Type = "medical"
	Finance       Type = "finance"
	Cyber         Type = "cyber"
	Agriculture   Type = "agriculture"
	Marketing     Type = "marketing"
	Logistics     Type = "logistics"
	Education     Type = "education"
	Retail        Type = "retail"
	Manufacturing Type = "manufacturing"
	Energy        Type = "energy"
	General       Type = "general"
)

// Config is the display metadata for one domain.
type Config struct {
	Name       string
	Color      lipgloss.Color
	Icon       string
	ChartTypes []string
	KPIs       []string
}

var configs = map[Type]Config{
	Medical: {
		Name:       "Medical",
		Color:      lipgloss.Color("#3B82F6"),
		Icon:       "✚",
		ChartTypes: []string{"line", "bar", "scatter"},
		KPIs:       []string{"Heart Rate", "Blood Pressure", "Temperature", "SpO2"},
	},
	Finance: {
		Name:       "Finance",
		Color:      lipgloss.Color("#10B981"),
		Icon:       "↗",
		ChartTypes: []string{"candlestick", "line", "area"},
		KPIs:       []string{"Revenue", "Profit", "Cash Flow", "ROI"},
	},
	Cyber: {
		Name:       "Cybersecurity",
		Color:      lipgloss.Color("#8B5CF6"),
		Icon:       "⛨",
		ChartTypes: []string{"heatmap", "network", "timeline"},
		KPIs:       []string{"Threats Detected", "Response Time", "Incidents", "Vulnerabilities"},
	},
	Agriculture: {
		Name:       "Agriculture",
		Color:      lipgloss.Color("#22C55E"),
		Icon:       "❀",
		ChartTypes: []string{"bar", "line", "area"},
		KPIs:       []string{"Yield", "Soil Moisture", "Rainfall", "Temperature"},
	},
	Marketing: {
		Name:       "Marketing",
		Color:      lipgloss.Color("#F59E0B"),
		Icon:       "◎",
		ChartTypes: []string{"funnel", "pie", "bar"},
		KPIs:       []string{"Conversion Rate", "CTR", "Engagement", "ROI"},
	},
	Logistics: {
		Name:       "Logistics",
		Color:      lipgloss.Color("#EC4899"),
		Icon:       "⛟",
		ChartTypes: []string{"map", "timeline", "bar"},
		KPIs:       []string{"Delivery Time", "Fleet Utilization", "Cost per Mile", "On-Time %"},
	},
	Education: {
		Name:       "Education",
		Color:      lipgloss.Color("#6366F1"),
		Icon:       "✎",
		ChartTypes: []string{"bar", "radar", "pie"},
		KPIs:       []string{"Pass Rate", "Attendance", "Performance", "Engagement"},
	},
	Retail: {
		Name:       "Retail",
		Color:      lipgloss.Color("#EF4444"),
		Icon:       "⛁",
		ChartTypes: []string{"bar", "line", "pie"},
		KPIs:       []string{"Sales", "Inventory Turnover", "Customer Retention", "Basket Size"},
	},
	Manufacturing: {
		Name:       "Manufacturing",
		Color:      lipgloss.Color("#64748B"),
		Icon:       "⚙",
		ChartTypes: []string{"line", "gauge", "bar"},
		KPIs:       []string{"OEE", "Downtime", "Defect Rate", "Throughput"},
	},
	Energy: {
		Name:       "Energy",
		Color:      lipgloss.Color("#FBBF24"),
		Icon:       "⚡",
		ChartTypes: []string{"line", "area", "gauge"},
		KPIs:       []string{"Consumption", "Generation", "Efficiency", "Peak Demand"},
	},
	General: {
		Name:       "General Analysis",
		Color:      lipgloss.Color("#94A3B8"),
		Icon:       "▤",
		ChartTypes: []string{"bar"},
		KPIs:       []string{"Data Quality", "Rows", "Columns", "Completeness"},
	},
}

// ordering for All; General last as the catch-all
var ordered = []Type{
	Medical, Finance, Cyber, Agriculture, Marketing, Logistics,
	Education, Retail, Manufacturing, Energy, General,
}

// FromString maps a backend classification to a Type. Unknown or empty
// values map to General.
func FromString(s string) Type {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := configs[t]; ok {
		return t
	}
	return General
}

// Known reports whether s names a domain in the closed set.
func Known(s string) bool {
	_, ok := configs[Type(strings.ToLower(strings.TrimSpace(s)))]
	return ok
}

// Config returns the display metadata for t, falling back to General so
// rendering never fails.
func (t Type) Config() Config {
	if cfg, ok := configs[t]; ok {
		return cfg
	}
	return configs[General]
}

// All returns every domain in display order.
func All() []Type {
	out := make([]Type, len(ordered))
	copy(out, ordered)
	return out
}
