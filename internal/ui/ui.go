package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/spindle/internal/demo"
)

// stepStatus tracks the display state of one run phase.
type stepStatus int

const (
	stepPending stepStatus = iota
	stepRunning
	stepDone
	stepFailed
)

// RunFunc executes the demo and reports progress on the channel.
type RunFunc func(ctx context.Context, progress chan<- demo.ProgressUpdate) (*demo.Result, error)

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	run          RunFunc
	spinner      spinner.Model
	progressChan chan demo.ProgressUpdate
	phases       []demo.Phase
	status       map[demo.Phase]stepStatus
	message      string
	result       *demo.Result
	err          error
	done         bool
	help         help.Model
	keys         keyMap
}

// keyMap defines the key bindings for the TUI.
type keyMap struct {
	quit key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.quit}}
}

type progressMsg demo.ProgressUpdate

type completeMsg struct {
	result *demo.Result
	err    error
}

// NewModel creates a new TUI model that executes run when started.
func NewModel(ctx context.Context, run RunFunc) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.title

	phases := demo.Phases()
	status := make(map[demo.Phase]stepStatus, len(phases))
	for _, phase := range phases {
		status[phase] = stepPending
	}

	return &Model{
		ctx:          ctx,
		run:          run,
		spinner:      sp,
		progressChan: make(chan demo.ProgressUpdate, 16),
		phases:       phases,
		status:       status,
		help:         help.New(),
		keys:         newKeyMap(),
	}
}

// Init starts the demo run and begins listening for progress.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.startRun(), m.waitForProgress())
}

// startRun executes the demo in its own goroutine and reports completion.
func (m *Model) startRun() tea.Cmd {
	return func() tea.Msg {
		result, err := m.run(m.ctx, m.progressChan)
		return completeMsg{result: result, err: err}
	}
}

// waitForProgress blocks on the next progress update.
func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		update, ok := <-m.progressChan
		if !ok {
			return nil
		}
		return progressMsg(update)
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.quit) {
			return m, tea.Quit
		}

	case progressMsg:
		// Everything before the reported phase has finished.
		for _, phase := range m.phases {
			if phase < msg.Phase {
				m.status[phase] = stepDone
			}
		}
		m.status[msg.Phase] = stepRunning
		m.message = msg.Message
		return m, m.waitForProgress()

	case completeMsg:
		m.done = true
		m.result = msg.result
		m.err = msg.err
		for _, phase := range m.phases {
			switch {
			case msg.err == nil:
				m.status[phase] = stepDone
			case m.status[phase] == stepRunning:
				m.status[phase] = stepFailed
			}
		}
		return m, nil

	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(Title("spindle demo"))
	b.WriteString("\n")

	for _, phase := range m.phases {
		var icon string
		switch m.status[phase] {
		case stepDone:
			icon = Ok("✓")
		case stepFailed:
			icon = Err("✗")
		case stepRunning:
			icon = m.spinner.View()
		default:
			icon = Help("•")
		}
		b.WriteString(fmt.Sprintf(" %s %s\n", icon, phase.Label()))
	}

	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(Err(fmt.Sprintf("run failed: %v", m.err)))
		b.WriteString("\n")
	case m.done && m.result != nil:
		b.WriteString(Ok("run complete"))
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("  instance: %s\n", m.result.InstanceOutcome))
		b.WriteString(fmt.Sprintf("  database: %s (%d DDL statements)\n", m.result.DatabaseOutcome, m.result.Statements))
		if m.result.Track != nil {
			b.WriteString(fmt.Sprintf("  track (%d): %s\n", m.result.Track.TrackID, m.result.Track.Title))
		}
		b.WriteString(fmt.Sprintf("  singers found: %d\n", len(m.result.Singers)))
	case m.message != "":
		b.WriteString(Help(m.message))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return b.String()
}
