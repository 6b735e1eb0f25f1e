package live

import "sparlo-benchmark/internal/usecase"

// Reduce folds one watch event into the view state. Pure: the returned state
// is derived from the inputs alone, so snapshot ordering bugs surface in
// tests rather than on screen.
func Reduce(state State, ev usecase.WatchEvent) State {
	if ev.Err != nil {
		state.Err = ev.Err
		state.Terminal = true
		return state
	}

	r := ev.Report
	state.Snapshots++
	state.ReportID = r.ID
	state.Title = r.Title
	state.Status = r.Status
	state.CurrentStep = r.CurrentStep
	state.PhaseProgress = r.PhaseProgress
	state.Phase = ev.Phase
	if ev.Action != usecase.ActionNone {
		state.Action = ev.Action
	}

	pending := r.PendingClarification()
	switch {
	case pending == nil:
		state.Clarification = nil
		state.Selected = 0
		state.SubmitError = nil
	case state.Clarification == nil || state.Clarification.Question != pending.Question:
		// New question; a re-delivered snapshot of the same question keeps
		// the current selection.
		state.Clarification = pending
		state.Selected = 0
		state.SubmitError = nil
	default:
		state.Clarification = pending
	}

	state.Terminal = ev.Terminal
	if ev.Terminal {
		state.Refused = r.Refused()
		state.ErrorText = r.ErrorMessage
	}
	return state
}
