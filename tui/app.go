package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const refreshInterval = 3 * time.Second
const clockInterval = 1 * time.Second

// Tab indices
const (
	tabQueues    = 0
	tabConsumers = 1
)

var tabNames = []string{"Queues", "Consumers"}

// messages
type tickMsg time.Time
type clockMsg time.Time
type dataMsg struct {
	queues    []Queue
	consumers []Consumer
	err       error
}
type actionMsg struct {
	desc string
	err  error
}

// Model is the main bubbletea model for the orizuru TUI.
type Model struct {
	client      *Client
	tab         int
	queues      queuesView
	consumers   consumersView
	width       int
	height      int
	lastErr     string
	lastRefresh time.Time
	now         time.Time
	message     string // transient action feedback
	messageTTL  int    // ticks remaining for message
}

// NewModel creates a new TUI model.
func NewModel(client *Client) Model {
	return Model{
		client: client,
		now:    time.Now(),
	}
}

// Run starts the TUI application.
func Run(client *Client) error {
	p := tea.NewProgram(NewModel(client), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(fetchData(m.client), tickCmd(), clockCmd())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case clockMsg:
		m.now = time.Time(msg)
		if m.messageTTL > 0 {
			m.messageTTL--
			if m.messageTTL == 0 {
				m.message = ""
			}
		}
		return m, clockCmd()

	case tickMsg:
		return m, tea.Batch(tickCmd(), fetchData(m.client))

	case dataMsg:
		m.lastRefresh = time.Now()
		if msg.err != nil {
			m.lastErr = msg.err.Error()
		} else {
			m.lastErr = ""
			m.queues.queues = msg.queues
			m.queues.clampCursor()
			m.consumers.consumers = msg.consumers
			m.consumers.clampCursor()
		}
		return m, nil

	case actionMsg:
		if msg.err != nil {
			m.setMessage(fmt.Sprintf("Error: %v", msg.err))
		} else {
			m.setMessage(msg.desc)
		}
		// Refresh data after action.
		return m, fetchData(m.client)
	}

	return m, nil
}

func (m *Model) setMessage(s string) {
	m.message = s
	m.messageTTL = 5 // 5 clock ticks = 5 seconds
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "tab":
		m.tab = (m.tab + 1) % len(tabNames)
		return m, nil

	case "shift+tab":
		m.tab = (m.tab - 1 + len(tabNames)) % len(tabNames)
		return m, nil

	case "1":
		m.tab = tabQueues
		return m, nil
	case "2":
		m.tab = tabConsumers
		return m, nil

	case "up", "k":
		m.moveCursor(-1)
		return m, nil
	case "down", "j":
		m.moveCursor(1)
		return m, nil

	case "g":
		m.setMessage("Collecting...")
		return m, doCollect(m.client)

	case "r", "f5":
		m.setMessage("Refreshing...")
		return m, fetchData(m.client)
	}

	return m, nil
}

func (m *Model) moveCursor(delta int) {
	switch m.tab {
	case tabQueues:
		m.queues.cursor += delta
		m.queues.clampCursor()
	case tabConsumers:
		m.consumers.cursor += delta
		m.consumers.clampCursor()
	}
}

func (m Model) View() string {
	var b strings.Builder

	// Title + clock
	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("orizuru Monitor")
	clock := lipgloss.NewStyle().Foreground(colorMuted).Render(m.now.Format("15:04:05"))
	refreshAgo := ""
	if !m.lastRefresh.IsZero() {
		d := m.now.Sub(m.lastRefresh)
		refreshAgo = lipgloss.NewStyle().Foreground(colorMuted).Render(
			fmt.Sprintf("  updated %ds ago", int(d.Seconds())))
	}
	b.WriteString(title + "  " + clock + refreshAgo + "\n\n")

	// Tab bar
	for i, name := range tabNames {
		if i == m.tab {
			b.WriteString(activeTab.Render(fmt.Sprintf(" %d %s ", i+1, name)))
		} else {
			b.WriteString(inactiveTab.Render(fmt.Sprintf(" %d %s ", i+1, name)))
		}
	}
	b.WriteString("\n\n")

	// Action message
	if m.message != "" {
		b.WriteString(infoStyle.Render(m.message) + "\n\n")
	}

	// Error banner
	if m.lastErr != "" {
		b.WriteString(errStyle.Render("Error: "+m.lastErr) + "\n\n")
	}

	// Calculate available rows for table data.
	// Fixed overhead: title(1) + blank(1) + tabs(1) + blank(1) + status bar(2) = 6
	// Table overhead: header(1) + separator(1) = 2
	overhead := 8
	if m.message != "" {
		overhead += 2
	}
	if m.lastErr != "" {
		overhead += 2
	}
	maxRows := m.height - overhead
	if maxRows < 3 {
		maxRows = 3
	}

	// Content
	switch m.tab {
	case tabQueues:
		b.WriteString(m.queues.render(m.width, maxRows, m.now))
	case tabConsumers:
		b.WriteString(m.consumers.render(m.width, maxRows, m.now))
	}

	// Status bar with contextual help
	help := "tab/1-2: switch  ↑↓/jk: navigate  g: collect  r: refresh  q: quit"
	if r := []rune(help); m.width > 0 && len(r) > m.width {
		help = string(r[:m.width])
	}
	b.WriteString(statusBar.Render(help))

	// Pad output to fill terminal height so resize clears stale content.
	// Visual rows = newline count + 1, so pad to m.height-1 newlines.
	output := b.String()
	if m.height > 0 {
		newlines := strings.Count(output, "\n")
		for i := newlines; i < m.height-1; i++ {
			output += "\n"
		}
	}

	return output
}

// Commands

func tickCmd() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func clockCmd() tea.Cmd {
	return tea.Tick(clockInterval, func(t time.Time) tea.Msg {
		return clockMsg(t)
	})
}

func fetchData(c *Client) tea.Cmd {
	return func() tea.Msg {
		queues, err := c.ListQueues()
		if err != nil {
			return dataMsg{err: err}
		}
		consumers, err := c.ListConsumers()
		if err != nil {
			return dataMsg{err: err}
		}
		return dataMsg{queues: queues, consumers: consumers}
	}
}

func doCollect(c *Client) tea.Cmd {
	return func() tea.Msg {
		result, err := c.Collect()
		if err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{desc: fmt.Sprintf("Collected %d message(s)", result.Collected)}
	}
}
