package model

import (
	"strings"
	"time"
)

type ReportStatus string

const (
	ReportStatusProcessing ReportStatus = "processing"
	ReportStatusClarifying ReportStatus = "clarifying"
	ReportStatusComplete   ReportStatus = "complete"
	ReportStatusError      ReportStatus = "error"
	ReportStatusFailed     ReportStatus = "failed"
)

// InitialStepPrefix tags the AN0 initial-review pipeline phase. A report whose
// CurrentStep is empty is treated as still being in that phase.
const InitialStepPrefix = "an0"

// RefusalMarker appears in the error message when the pipeline declined the
// design challenge on content-safety grounds.
const RefusalMarker = "cannot assist with"

// ClarificationOption is one structured choice offered by a clarification.
type ClarificationOption struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Clarification is a follow-up question the pipeline raised mid-run. Answer is
// nil while the question is still pending; answered clarifications are
// immutable history. At most one clarification per report is pending at a time.
type Clarification struct {
	Question       string                `json:"question"`
	Context        string                `json:"context,omitempty"`
	Options        []ClarificationOption `json:"options,omitempty"`
	AllowFreetext  bool                  `json:"allowFreetext,omitempty"`
	FreetextPrompt string                `json:"freetextPrompt,omitempty"`
	Answer         *string               `json:"answer"`
}

// Pending reports whether this clarification is still waiting for an answer.
// The backend guarantees a strict null for unanswered questions; an empty
// string is a valid (answered) value.
func (c Clarification) Pending() bool {
	return c.Answer == nil
}

// Report is the client-side projection of one analysis job. It is refreshed
// wholesale from each status read; the backend owns the source of truth.
type Report struct {
	ID             string          `json:"reportId"`
	Status         ReportStatus    `json:"status"`
	CurrentStep    string          `json:"currentStep"`
	PhaseProgress  int             `json:"phaseProgress"`
	Clarifications []Clarification `json:"clarifications"`
	Title          string          `json:"title"`
	ReportData     map[string]any  `json:"reportData"`
	CreatedAt      time.Time       `json:"createdAt"`
	ErrorMessage   string          `json:"errorMessage"`
}

// InInitialReview reports whether the pipeline is still in the AN0 phase.
func (r *Report) InInitialReview() bool {
	return r.CurrentStep == "" || strings.HasPrefix(r.CurrentStep, InitialStepPrefix)
}

// PendingClarification returns the single unanswered clarification, or nil.
func (r *Report) PendingClarification() *Clarification {
	for i := range r.Clarifications {
		if r.Clarifications[i].Pending() {
			return &r.Clarifications[i]
		}
	}
	return nil
}

// Terminal reports whether no further status changes can occur.
func (r *Report) Terminal() bool {
	switch r.Status {
	case ReportStatusComplete, ReportStatusError, ReportStatusFailed:
		return true
	}
	return false
}

// Refused reports whether the failure is the content-safety refusal subtype.
// Refusals keep the original challenge text editable for resubmission instead
// of offering a blind retry.
func (r *Report) Refused() bool {
	if r.Status != ReportStatusError && r.Status != ReportStatusFailed {
		return false
	}
	return strings.Contains(strings.ToLower(r.ErrorMessage), RefusalMarker)
}
