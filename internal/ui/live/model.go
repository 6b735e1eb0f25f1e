package live

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"sparlo-benchmark/internal/domain"
	"sparlo-benchmark/internal/usecase"
)

// Model renders a live report watch using Bubble Tea. It consumes watch
// events, drives the status rotator during main analysis, and collects
// clarification answers interactively.
type Model struct {
	state   State
	events  <-chan usecase.WatchEvent
	clarify usecase.ClarifyUseCase
	rotator *usecase.StatusRotator
	elapsed *usecase.ElapsedTracker

	spin  spinner.Model
	input textinput.Model

	reducedMotion bool
	width         int
	now           time.Time
}

// Options configures the live watch model.
type Options struct {
	ReducedMotion bool
	CreatedAt     time.Time
}

// NewModel constructs a watch model over an event stream.
func NewModel(events <-chan usecase.WatchEvent, clarify usecase.ClarifyUseCase, opts Options) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	in := textinput.New()
	in.Placeholder = "Type your answer"
	in.CharLimit = 500

	createdAt := opts.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	return Model{
		state:         State{},
		events:        events,
		clarify:       clarify,
		rotator:       usecase.NewStatusRotator(opts.ReducedMotion),
		elapsed:       usecase.NewElapsedTracker(createdAt),
		spin:          sp,
		input:         in,
		reducedMotion: opts.ReducedMotion,
		now:           time.Now(),
	}
}

// EventMsg wraps a watch event for Bubble Tea.
type EventMsg struct {
	Event usecase.WatchEvent
}

type tickMsg time.Time

type rotateMsg time.Time

// answerMsg reports the outcome of a clarification submission.
type answerMsg struct {
	err error
}

// Init starts the clock and waits for the first snapshot.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{waitForEvent(m.events), tick()}
	if !m.reducedMotion {
		cmds = append(cmds, m.spin.Tick, rotate())
	}
	return tea.Batch(cmds...)
}

// Update consumes watch events, clock ticks and key presses.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = typed.Width
		m.input.Width = max(typed.Width-4, 20)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(typed)

	case EventMsg:
		m.state = Reduce(m.state, typed.Event)
		if m.state.Terminal {
			return m, tea.Quit
		}
		if c := m.state.Clarification; c != nil && !m.input.Focused() {
			m.input.SetValue(m.clarify.Draft())
			m.input.Focus()
			return m, tea.Batch(waitForEvent(m.events), textinput.Blink)
		}
		if m.state.Clarification == nil {
			m.input.Blur()
		}
		return m, waitForEvent(m.events)

	case tickMsg:
		m.now = time.Time(typed)
		return m, tick()

	case rotateMsg:
		if m.state.Phase == usecase.PhaseMainAnalysis {
			m.rotator.Advance()
		}
		return m, rotate()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(typed)
		return m, cmd

	case answerMsg:
		if typed.err != nil && !errors.Is(typed.err, domain.ErrSubmissionInFlight) {
			m.state.SubmitError = typed.err
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "q":
		if !m.input.Focused() {
			return m, tea.Quit
		}
	}

	c := m.state.Clarification
	if c == nil {
		return m, nil
	}

	switch key.String() {
	case "up":
		if len(c.Options) > 0 && m.state.Selected > 0 {
			m.state.Selected--
		}
		return m, nil
	case "down":
		if len(c.Options) > 0 && m.state.Selected < len(c.Options)-1 {
			m.state.Selected++
		}
		return m, nil
	case "enter":
		return m.submitAnswer()
	}

	if c.AllowFreetext || len(c.Options) == 0 {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(key)
		m.clarify.SetDraft(m.input.Value())
		return m, cmd
	}
	return m, nil
}

// submitAnswer sends either the highlighted option or the typed text. The
// submit guard lives in the use case; a duplicate enter is a silent no-op.
func (m Model) submitAnswer() (tea.Model, tea.Cmd) {
	c := m.state.Clarification
	if c == nil || m.clarify.InFlight() {
		return m, nil
	}
	m.state.SubmitError = nil

	typed := m.input.Value()
	switch {
	case typed != "" && (c.AllowFreetext || len(c.Options) == 0):
		return m, submit(func(ctx context.Context) error {
			return m.clarify.Submit(ctx, typed)
		})
	case len(c.Options) > 0:
		label := c.Options[m.state.Selected].Label
		return m, submit(func(ctx context.Context) error {
			return m.clarify.SelectOption(ctx, label)
		})
	}
	return m, nil
}

// View renders the watch screen.
func (m Model) View() string {
	return render(m.state, viewClock{
		elapsedSeconds: m.elapsed.Seconds(),
		spinner:        m.spinnerFrame(),
		statusMessage:  m.rotator.Current(),
	}, m.input.View())
}

func (m Model) spinnerFrame() string {
	if m.reducedMotion {
		return ""
	}
	return m.spin.View()
}

func waitForEvent(events <-chan usecase.WatchEvent) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return tea.Quit()
		}
		return EventMsg{Event: ev}
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func rotate() tea.Cmd {
	return tea.Tick(usecase.StatusRotationInterval, func(t time.Time) tea.Msg { return rotateMsg(t) })
}

func submit(fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return answerMsg{err: fn(ctx)}
	}
}
