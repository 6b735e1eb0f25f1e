package live

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"sparlo-benchmark/internal/domain/model"
	"sparlo-benchmark/internal/usecase"
)

var (
	headerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true)
	phaseStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	questionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("178")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("36"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("160"))
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// viewClock carries the per-frame dynamic bits the reducer does not own.
type viewClock struct {
	elapsedSeconds int
	spinner        string
	statusMessage  string
}

func render(state State, clock viewClock, inputView string) string {
	if state.Terminal {
		return renderTerminal(state, clock)
	}

	lines := []string{renderHeader(state, clock)}
	lines = append(lines, renderPhase(state, clock))
	if state.Action == usecase.ActionNavigateHome && state.Clarification == nil {
		lines = append(lines, phaseStyle.Render("No clarification needed; the full analysis is running."))
	}
	if c := state.Clarification; c != nil {
		lines = append(lines, renderClarification(state, inputView)...)
	}
	if state.SubmitError != nil {
		lines = append(lines, errorStyle.Render("Submission failed: "+state.SubmitError.Error()+" (press enter to retry)"))
	}
	lines = append(lines, footerStyle.Render("q quit"))
	return strings.Join(lines, "\n") + "\n"
}

func renderHeader(state State, clock viewClock) string {
	line := "Sparlo analysis"
	if state.Title != "" {
		line += ": " + state.Title
	}
	if state.ReportID != "" {
		line += " | " + state.ReportID
	}
	line += " | Elapsed: " + formatElapsed(clock.elapsedSeconds)
	return headerStyle.Render(line)
}

func renderPhase(state State, clock viewClock) string {
	var line string
	switch state.Phase {
	case usecase.PhaseClarifying:
		line = "Waiting on your answer"
	case usecase.PhaseMainAnalysis:
		line = clock.statusMessage
		if state.PhaseProgress > 0 {
			line += " (" + fmtInt(state.PhaseProgress) + "%)"
		}
	default:
		line = "Reviewing your design challenge"
	}
	if clock.spinner != "" && state.Phase != usecase.PhaseClarifying {
		line = clock.spinner + " " + line
	}
	if state.CurrentStep != "" {
		line += phaseStyle.Render("  [" + state.CurrentStep + "]")
	}
	return line
}

func renderClarification(state State, inputView string) []string {
	c := state.Clarification
	lines := []string{"", questionStyle.Render(c.Question)}
	if c.Context != "" {
		lines = append(lines, phaseStyle.Render(c.Context))
	}
	for i, opt := range c.Options {
		cursor := "  "
		label := opt.Label
		if i == state.Selected {
			cursor = "> "
			label = selectedStyle.Render(label)
		}
		lines = append(lines, cursor+label)
	}
	if c.AllowFreetext || len(c.Options) == 0 {
		prompt := c.FreetextPrompt
		if prompt == "" {
			prompt = "Or answer in your own words:"
		}
		lines = append(lines, phaseStyle.Render(prompt), inputView)
	}
	lines = append(lines, footerStyle.Render("enter submit"))
	return lines
}

func renderTerminal(state State, clock viewClock) string {
	// Completion is read off the status, not the navigation action: when the
	// home bypass fired earlier, the joint latch already swallowed the
	// report-navigation action for this lifetime.
	switch {
	case state.Err != nil:
		return errorStyle.Render("Watch stopped: "+state.Err.Error()) + "\n"
	case state.Status == model.ReportStatusComplete:
		return headerStyle.Render("Report ready after "+formatElapsed(clock.elapsedSeconds)) + "\n"
	case state.Refused:
		return errorStyle.Render("The pipeline declined this challenge. Edit the challenge text and submit again.") + "\n"
	default:
		msg := "Analysis failed"
		if state.ErrorText != "" {
			msg += ": " + state.ErrorText
		}
		return errorStyle.Render(msg) + "\n"
	}
}
