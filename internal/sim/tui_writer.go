package sim

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/term"

	"sensornet-sim/internal/record"
)

// teaProgram abstracts bubbletea.Program for testing.
type teaProgram interface {
	Send(tea.Msg)
}

// stateMsg carries a step record update.
type stateMsg struct{ record.StepRecord }

// eventMsg carries a state-transition event line.
type eventMsg struct{ record.Event }

const maxEventLines = 8

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	inactiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	eventStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// TUIWriter renders the live network state using a bubbletea TUI.
type TUIWriter struct {
	program teaProgram
	done    chan struct{}
}

// NewTUIWriter starts a bubbletea program and returns a TUIWriter.
func NewTUIWriter() *TUIWriter {
	w := &TUIWriter{done: make(chan struct{})}
	m := newTUIModel()
	p := tea.NewProgram(m, tea.WithAltScreen())
	w.program = p
	go func() {
		defer close(w.done)
		if _, err := p.Run(); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}()
	return w
}

// WriteState forwards a step record to the TUI.
func (w *TUIWriter) WriteState(rec record.StepRecord) error {
	w.program.Send(stateMsg{rec})
	return nil
}

// WriteEvent forwards an event to the TUI.
func (w *TUIWriter) WriteEvent(ev record.Event) error {
	w.program.Send(eventMsg{ev})
	return nil
}

// Wait blocks until the TUI program exits.
func (w *TUIWriter) Wait() {
	<-w.done
}

type tuiModel struct {
	tbl      table.Model
	coverage progress.Model
	status   string
	ratio    float64
	events   []string
	width    int
}

func newTUIModel() tuiModel {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		width = 100
	}
	cols := []table.Column{
		{Title: "ID", Width: 6},
		{Title: "Kind", Width: 9},
		{Title: "X", Width: 8},
		{Title: "Y", Width: 8},
		{Title: "Z", Width: 8},
		{Title: "Battery", Width: 8},
		{Title: "State", Width: 9},
	}
	tbl := table.New(table.WithColumns(cols), table.WithHeight(12))
	return tuiModel{
		tbl:      tbl,
		coverage: progress.New(progress.WithDefaultGradient()),
		status:   "waiting for first step...",
		width:    width,
	}
}

func (m tuiModel) Init() tea.Cmd { return nil }

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.coverage.Width = msg.Width - 20
	case stateMsg:
		m.ratio = msg.Coverage
		m.status = fmt.Sprintf("step %d  coverage %.1f%%  active %d/%d",
			msg.Step, msg.Coverage*100, msg.ActiveSensors, msg.TotalSensors)
		m.tbl.SetRows(sensorRowsForTable(msg.Sensors))
	case eventMsg:
		line := fmt.Sprintf("[step %d] sensor %d %s (%s)",
			msg.Event.Step, msg.Event.SensorID, msg.Event.Type, msg.Event.Kind)
		m.events = append(m.events, line)
		if len(m.events) > maxEventLines {
			m.events = m.events[len(m.events)-maxEventLines:]
		}
	}
	var cmd tea.Cmd
	m.tbl, cmd = m.tbl.Update(msg)
	return m, cmd
}

func (m tuiModel) View() string {
	header := titleStyle.Render("sensornet-sim") + "  " + statusStyle.Render(m.status)
	bar := m.coverage.ViewAs(m.ratio)
	events := eventStyle.Render(wordwrap.String(joinLines(m.events), m.width))
	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		bar,
		m.tbl.View(),
		events,
		statusStyle.Render("press q to quit"),
	)
}

func sensorRowsForTable(sensors []record.SensorSnapshot) []table.Row {
	rows := make([]table.Row, 0, len(sensors))
	for _, s := range sensors {
		state := "active"
		if !s.Active {
			state = inactiveStyle.Render("inactive")
		}
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", s.ID),
			s.Kind,
			fmt.Sprintf("%.1f", s.Position[0]),
			fmt.Sprintf("%.1f", s.Position[1]),
			fmt.Sprintf("%.1f", s.Position[2]),
			fmt.Sprintf("%.0f%%", s.Battery*100),
			state,
		})
	}
	return rows
}

func joinLines(lines []string) string {
	out := ""
	for i, l := range lines {
		if i > 0 {
			out += "\n"
		}
		out += l
	}
	return out
}
