package host

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/TFMV/simplegraph/render"
)

// Rows kept free below the frame for the overlay, stats and help lines.
const chromeRows = 6

// Styles
var (
	statsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00"))

	pausedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFF00")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))
)

type keyMap struct {
	Pause key.Binding
	Help  key.Binding
	Quit  key.Binding
}

var keys = keyMap{
	Pause: key.NewBinding(
		key.WithKeys("p", " "),
		key.WithHelp("p", "pause"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c", "esc"),
		key.WithHelp("q", "quit"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Pause},
		{k.Help, k.Quit},
	}
}

type tickMsg time.Time

func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// model is the terminal host. Every tickMsg runs one frame and schedules the
// next; quitting stops the schedule, which is how the loop is cancelled.
type model struct {
	session  *Session
	ascii    *render.ASCII
	interval time.Duration
	help     help.Model
	keys     keyMap
	width    int
	height   int
	paused   bool
}

func newModel(s *Session, ascii *render.ASCII, interval time.Duration) model {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return model{
		session:  s,
		ascii:    ascii,
		interval: interval,
		help:     help.New(),
		keys:     keys,
	}
}

func (m model) Init() tea.Cmd {
	return tickCmd(m.interval)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ascii.Resize(msg.Width, max(msg.Height-chromeRows, 3))

	case tickMsg:
		if !m.paused {
			m.session.Tick()
		}
		return m, tickCmd(m.interval)

	case tea.MouseMsg:
		if p := m.session.Picker; p != nil {
			x, y := float64(msg.X), float64(msg.Y)
			cols, rows := m.ascii.Size()
			switch {
			case msg.X >= cols || msg.Y >= rows:
				p.Leave()
			case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
				p.Click(x, y)
			default:
				p.Move(x, y)
			}
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Pause):
			m.paused = !m.paused
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
	}
	return m, nil
}

func (m model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var s strings.Builder
	s.WriteString(m.ascii.String())

	if b := m.session.Board; b != nil {
		s.WriteString(b.View())
		s.WriteString("\n")
	}
	if st := m.session.Stats; st != nil {
		s.WriteString(statsStyle.Render(st.View()))
		s.WriteString("\n")
	}
	if m.paused {
		s.WriteString(pausedStyle.Render("paused"))
		s.WriteString("\n")
	}
	s.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return s.String()
}

// RunTerminal animates the session in the terminal until the user quits or
// ctx is cancelled. The session must have been built around ascii.
func RunTerminal(ctx context.Context, s *Session, ascii *render.ASCII, interval time.Duration) error {
	p := tea.NewProgram(
		newModel(s, ascii, interval),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	return err
}
