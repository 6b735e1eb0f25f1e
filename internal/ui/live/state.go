package live

import (
	"sparlo-benchmark/internal/domain/model"
	"sparlo-benchmark/internal/usecase"
)

// State captures the live view of one watched report. It is rebuilt by the
// reducer from each watch event; nothing in it is authoritative.
type State struct {
	ReportID      string
	Title         string
	Status        model.ReportStatus
	CurrentStep   string
	PhaseProgress int
	Phase         usecase.Phase

	// Clarification is the pending question, nil outside the clarifying
	// phase. Selected indexes into its options.
	Clarification *model.Clarification
	Selected      int

	// Action is the navigation the latest snapshot fired, shown once on exit.
	Action usecase.Action

	Terminal  bool
	Refused   bool
	ErrorText string
	Err       error

	// SubmitError is a failed clarification submission, cleared on retry.
	SubmitError error
	Snapshots   int
}
