package tui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"nexus-cli/internal/backend"
	"nexus-cli/internal/domain"
)

type sessionItem struct {
	data backend.SessionSummary
}

func (i sessionItem) Title() string {
	return ansi.Truncate(i.data.Title, 28, "…")
}

func (i sessionItem) Description() string {
	cfg := domain.FromString(i.data.Domain).Config()
	badge := lipgloss.NewStyle().Foreground(cfg.Color).Render(cfg.Name)
	return badge + " " + i.data.CreatedAt.Local().Format("Jan 2 15:04")
}

func (i sessionItem) FilterValue() string {
	return i.data.Title + " " + i.data.Domain
}

func buildSessionItems(in []backend.SessionSummary) []list.Item {
	items := make([]list.Item, 0, len(in))
	for _, s := range in {
		items = append(items, sessionItem{data: s})
	}
	return items
}
