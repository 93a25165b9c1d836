// Package tui is the terminal front-end: a session sidebar, a chat viewport
// and an input box wired to the request orchestrator and session bridge.
package tui

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"nexus-cli/internal/auth"
	"nexus-cli/internal/backend"
	"nexus-cli/internal/chat"
	"nexus-cli/internal/config"
	"nexus-cli/internal/files"
	"nexus-cli/internal/sessions"
	"nexus-cli/internal/utils"
)

const sidebarWidth = 34

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("51"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("160"))
	userStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	systemStyle  = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("244"))
	badgeStyle   = lipgloss.NewStyle().Padding(0, 1)
	bannerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	inputBox     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	sidebarStyle = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, true, false, false).BorderForeground(lipgloss.Color("238"))
)

type focusArea int

const (
	focusInput focusArea = iota
	focusSessions
)

type sessionsMsg struct{ data []backend.SessionSummary }

type sessionLoadedMsg struct {
	id  string
	err error
}

type submitDoneMsg struct {
	dispatched bool
	err        error
}

type uploadDoneMsg struct {
	name       string
	dispatched bool
	err        error
}

type deleteDoneMsg struct {
	id  string
	err error
}

type tickMsg time.Time

// redrawMsg forces a viewport refresh after an optimistic append.
type redrawMsg struct{}

type model struct {
	cfg     config.Config
	logger  *utils.Logger
	authCtx *auth.Context
	orch    *chat.Orchestrator
	bridge  *sessions.Bridge

	width  int
	height int
	ready  bool

	sessionsList list.Model
	input        textarea.Model
	chatView     viewport.Model
	spinner      spinner.Model
	help         help.Model
	keys         keyMap
	renderer     *glamour.TermRenderer

	focus    focusArea
	sending  bool
	showHelp bool
	errMsg   string
}

// Run starts the interactive program and blocks until it exits.
func Run(cfg config.Config, logger *utils.Logger, authCtx *auth.Context, orch *chat.Orchestrator, bridge *sessions.Bridge) error {
	input := textarea.New()
	input.Placeholder = "Ask Nexus... (/upload <path> to attach a file)"
	input.Prompt = ""
	input.ShowLineNumbers = false
	input.SetHeight(3)
	input.Focus()

	sessionsList := list.New(nil, list.NewDefaultDelegate(), sidebarWidth-2, 10)
	sessionsList.Title = "Sessions"
	sessionsList.SetShowStatusBar(false)
	sessionsList.SetShowHelp(false)
	sessionsList.DisableQuitKeybindings()

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = dimStyle

	m := model{
		cfg:          cfg,
		logger:       logger,
		authCtx:      authCtx,
		orch:         orch,
		bridge:       bridge,
		sessionsList: sessionsList,
		input:        input,
		chatView:     viewport.New(0, 0),
		spinner:      spin,
		help:         help.New(),
		keys:         defaultKeyMap,
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m model) Init() tea.Cmd {
	return tea.Batch(refreshSessionsCmd(m.bridge, m.cfg.RequestTimeout), tickCmd(m.cfg.PollInterval), textarea.Blink)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.ready = true
		m.syncChat()
		return m, nil

	case tickMsg:
		return m, tea.Batch(refreshSessionsCmd(m.bridge, m.cfg.RequestTimeout), tickCmd(m.cfg.PollInterval))

	case redrawMsg:
		m.syncChat()
		return m, nil

	case sessionsMsg:
		m.sessionsList.SetItems(buildSessionItems(msg.data))
		return m, nil

	case sessionLoadedMsg:
		if msg.err != nil {
			m.logger.Warnf("failed to open session %s: %v", msg.id, msg.err)
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.errMsg = ""
		m.focus = focusInput
		m.input.Focus()
		m.syncChat()
		return m, nil

	case submitDoneMsg:
		m.sending = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
		}
		m.syncChat()
		// The first exchange may have created a session server-side.
		return m, refreshSessionsCmd(m.bridge, m.cfg.RequestTimeout)

	case uploadDoneMsg:
		m.sending = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
		}
		m.syncChat()
		return m, refreshSessionsCmd(m.bridge, m.cfg.RequestTimeout)

	case deleteDoneMsg:
		if msg.err != nil {
			m.logger.Warnf("failed to delete session %s: %v", msg.id, msg.err)
			m.errMsg = msg.err.Error()
		}
		m.sessionsList.SetItems(buildSessionItems(m.bridge.Sessions()))
		m.syncChat()
		return m, nil

	case spinner.TickMsg:
		if m.sending {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateFocused(msg)
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil

	case key.Matches(msg, m.keys.Focus):
		if m.focus == focusInput {
			m.focus = focusSessions
			m.input.Blur()
		} else {
			m.focus = focusInput
			m.input.Focus()
		}
		return m, nil

	case key.Matches(msg, m.keys.New):
		m.orch.NewAnalysis()
		m.errMsg = ""
		m.syncChat()
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m, refreshSessionsCmd(m.bridge, m.cfg.RequestTimeout)
	}

	if m.focus == focusSessions {
		switch {
		case key.Matches(msg, m.keys.Send):
			if item, ok := m.sessionsList.SelectedItem().(sessionItem); ok {
				return m, selectSessionCmd(m.bridge, item.data.ID, m.cfg.RequestTimeout)
			}
			return m, nil
		case key.Matches(msg, m.keys.Delete):
			if item, ok := m.sessionsList.SelectedItem().(sessionItem); ok {
				return m, deleteSessionCmd(m.bridge, item.data.ID, m.cfg.RequestTimeout)
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.sessionsList, cmd = m.sessionsList.Update(msg)
		return m, cmd
	}

	if key.Matches(msg, m.keys.Send) {
		return m.submit()
	}
	return m.updateFocused(msg)
}

// submit dispatches the input box content. A plain message goes to the
// orchestrator; "/..." lines are local commands.
func (m model) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}
	if strings.HasPrefix(text, "/") {
		return m.runCommand(text)
	}
	if m.sending {
		// Single-flight: the orchestrator would drop it anyway, skip the
		// round trip and keep the input intact.
		return m, nil
	}
	m.sending = true
	m.errMsg = ""
	m.input.Reset()
	// Optimistic append happens inside the orchestrator before the network
	// call, so re-render right away.
	cmd := submitCmd(m.orch, text, m.cfg.RequestTimeout)
	return m, tea.Batch(m.spinner.Tick, cmd, renderSoonCmd())
}

func (m model) runCommand(text string) (tea.Model, tea.Cmd) {
	parts := strings.SplitN(text, " ", 2)
	switch parts[0] {
	case "/upload":
		if len(parts) < 2 || strings.TrimSpace(parts[1]) == "" {
			m.errMsg = "usage: /upload <path>"
			return m, nil
		}
		if m.sending {
			return m, nil
		}
		m.sending = true
		m.errMsg = ""
		m.input.Reset()
		return m, tea.Batch(m.spinner.Tick, uploadCmd(m.orch, strings.TrimSpace(parts[1]), m.cfg.RequestTimeout), renderSoonCmd())
	case "/new":
		m.orch.NewAnalysis()
		m.errMsg = ""
		m.input.Reset()
		m.syncChat()
		return m, nil
	case "/quit":
		return m, tea.Quit
	default:
		m.errMsg = "unknown command: " + parts[0]
		return m, nil
	}
}

func (m model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	if m.focus == focusInput {
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	} else {
		m.sessionsList, cmd = m.sessionsList.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.chatView, cmd = m.chatView.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *model) layout() {
	chatWidth := m.width - sidebarWidth
	if chatWidth < 20 {
		chatWidth = 20
	}
	m.sessionsList.SetSize(sidebarWidth-2, m.height-2)
	m.chatView.Width = chatWidth - 2
	m.chatView.Height = m.height - 9
	m.input.SetWidth(chatWidth - 4)
	m.renderer, _ = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(chatWidth-6),
	)
}

// syncChat re-renders the chat viewport from the store snapshot.
func (m *model) syncChat() {
	if !m.ready {
		return
	}
	m.chatView.SetContent(m.renderMessages())
	m.chatView.GotoBottom()
}

func (m *model) renderMessages() string {
	msgs := m.orch.Store().Messages()
	if len(msgs) == 0 {
		return m.renderWelcome()
	}
	var b strings.Builder
	for _, msg := range msgs {
		switch msg.Role {
		case chat.RoleUser:
			b.WriteString(userStyle.Render("You") + "  " + msg.Content + "\n\n")
		case chat.RoleSystem:
			b.WriteString(systemStyle.Render(msg.Content) + "\n\n")
		case chat.RoleAssistant:
			b.WriteString(m.renderAssistant(msg))
		}
	}
	return b.String()
}

func (m *model) renderAssistant(msg chat.Message) string {
	content := msg.Content
	if m.renderer != nil {
		if rendered, err := m.renderer.Render(msg.Content); err == nil {
			content = strings.TrimRight(rendered, "\n") + "\n"
		}
	}

	var b strings.Builder
	b.WriteString(content)
	switch msg.Meta.Kind {
	case chat.MetadataNone:
		// plain assistant text, nothing to badge
	case chat.MetadataAgent:
		b.WriteString(m.renderBadges(msg) + "\n")
	case chat.MetadataChart:
		b.WriteString(renderChart(msg.Meta.Chart) + "\n")
		b.WriteString(m.renderBadges(msg) + "\n")
	}
	b.WriteString("\n")
	return b.String()
}

func (m *model) renderBadges(msg chat.Message) string {
	info := msg.Meta.Agent
	cfg := info.Domain.Config()
	parts := []string{}
	if info.Agent != "" {
		parts = append(parts, badgeStyle.Foreground(cfg.Color).Render("⟡ "+info.Agent))
	}
	if info.HasScore {
		parts = append(parts, badgeStyle.Render(fmt.Sprintf("Privacy %d%%", info.PrivacyScore)))
	}
	parts = append(parts, dimStyle.Render(msg.Timestamp.Local().Format("15:04")))
	return dimStyle.Render(strings.Join(parts, " · "))
}

// renderChart draws a horizontal bar chart of the descriptor's points.
func renderChart(chart chat.ChartInfo) string {
	const barWidth = 24
	max := 0.0
	for _, p := range chart.Points {
		if p.Value > max {
			max = p.Value
		}
	}
	var b strings.Builder
	if chart.Title != "" {
		b.WriteString(titleStyle.Render(chart.Title) + "\n")
	}
	for _, p := range chart.Points {
		n := 0
		if max > 0 {
			n = int(p.Value / max * barWidth)
		}
		b.WriteString(fmt.Sprintf("%-16s %s %.2f\n", p.Label, strings.Repeat("█", n), p.Value))
	}
	return b.String()
}

func (m *model) renderWelcome() string {
	lines := []string{
		titleStyle.Render("Welcome to Nexus Aurora"),
		"",
		"Upload your data to unlock intelligent, privacy-first analysis.",
		"",
		dimStyle.Render("Accepted: CSV, Excel, JSON, PDF, PNG/JPEG, plain text (up to 100 MB)"),
		dimStyle.Render("Type a question, or /upload <path> to attach a file."),
	}
	return strings.Join(lines, "\n")
}

func (m model) View() string {
	if !m.ready {
		return "loading..."
	}

	cfg := m.orch.Domain().Config()
	banner := bannerStyle.Foreground(cfg.Color).Render(cfg.Icon+" "+cfg.Name) +
		dimStyle.Render("  KPIs: "+strings.Join(cfg.KPIs, ", "))
	if email := m.authCtx.Principal().Email; email != "" {
		banner += dimStyle.Render("  ·  " + email)
	}

	status := ""
	if m.sending {
		status = m.spinner.View() + dimStyle.Render(" Nexus is thinking...")
	} else if m.errMsg != "" {
		status = errStyle.Render(m.errMsg)
	}

	footer := m.help.ShortHelpView(m.keys.ShortHelp())
	if m.showHelp {
		footer = m.help.FullHelpView(m.keys.FullHelp())
	}

	right := lipgloss.JoinVertical(lipgloss.Left,
		banner,
		m.chatView.View(),
		status,
		inputBox.Render(m.input.View()),
		footer,
	)

	sidebar := sidebarStyle.Render(m.sessionsList.View())
	return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, right)
}

func tickCmd(interval time.Duration) tea.Cmd {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// renderSoonCmd repaints shortly after a submit so the optimistic user
// message shows before the response lands.
func renderSoonCmd() tea.Cmd {
	return tea.Tick(50*time.Millisecond, func(time.Time) tea.Msg {
		return redrawMsg{}
	})
}

func refreshSessionsCmd(bridge *sessions.Bridge, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		// Refresh failures keep the cached list; the bridge logs them.
		_ = bridge.Refresh(ctx)
		return sessionsMsg{data: bridge.Sessions()}
	}
}

func selectSessionCmd(bridge *sessions.Bridge, id string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return sessionLoadedMsg{id: id, err: bridge.Select(ctx, id)}
	}
}

func deleteSessionCmd(bridge *sessions.Bridge, id string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return deleteDoneMsg{id: id, err: bridge.Delete(ctx, id)}
	}
}

func submitCmd(orch *chat.Orchestrator, text string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		dispatched, err := orch.SubmitText(ctx, text)
		return submitDoneMsg{dispatched: dispatched, err: err}
	}
}

func uploadCmd(orch *chat.Orchestrator, path string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return uploadDoneMsg{name: path, err: fmt.Errorf("failed to open %s: %w", path, err)}
		}
		defer f.Close()
		info, err := f.Stat()
		if err != nil {
			return uploadDoneMsg{name: path, err: fmt.Errorf("failed to stat %s: %w", path, err)}
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		up := files.Upload{
			Name:        filepath.Base(path),
			ContentType: mime.TypeByExtension(filepath.Ext(path)),
			Size:        info.Size(),
			Reader:      f,
		}
		dispatched, err := orch.SubmitFile(ctx, up)
		return uploadDoneMsg{name: up.Name, dispatched: dispatched, err: err}
	}
}
