package model

import (
	"fmt"
	"time"
)

// PipelineStatus is the stage an investor occupies within a project's
// pipeline. Transitions are unrestricted: any status may be set from any
// other, which allows corrections without an undo flow.
type PipelineStatus string

// Pipeline statuses, in board display order.
const (
	StatusNotContacted     PipelineStatus = "Not Contacted"
	StatusContacted        PipelineStatus = "Contacted"
	StatusMeetingScheduled PipelineStatus = "Meeting Scheduled"
	StatusUnderReview      PipelineStatus = "Under Review"
	StatusInvested         PipelineStatus = "Invested"
	StatusRejected         PipelineStatus = "Rejected"
)

// PipelineStatuses lists every valid status in display order.
func PipelineStatuses() []PipelineStatus {
	return []PipelineStatus{
		StatusNotContacted,
		StatusContacted,
		StatusMeetingScheduled,
		StatusUnderReview,
		StatusInvested,
		StatusRejected,
	}
}

// Valid reports whether s is a known pipeline status.
func (s PipelineStatus) Valid() bool {
	switch s {
	case StatusNotContacted, StatusContacted, StatusMeetingScheduled,
		StatusUnderReview, StatusInvested, StatusRejected:
		return true
	}
	return false
}

// InteractionType tags a logged interaction with an investor.
type InteractionType string

// Interaction types.
const (
	InteractionEmail    InteractionType = "Email"
	InteractionCall     InteractionType = "Call"
	InteractionMeeting  InteractionType = "Meeting"
	InteractionLinkedIn InteractionType = "LinkedIn"
	InteractionOther    InteractionType = "Other"
)

// Valid reports whether t is a known interaction type.
func (t InteractionType) Valid() bool {
	switch t {
	case InteractionEmail, InteractionCall, InteractionMeeting,
		InteractionLinkedIn, InteractionOther:
		return true
	}
	return false
}

// Interaction is a single logged touchpoint with an investor inside one
// project's pipeline. Interactions are immutable once appended; insertion
// order is chronological order.
type Interaction struct {
	Timestamp time.Time
	Type      InteractionType
	Notes     string
}

// DefaultPriority is assigned when an investor is first added to a pipeline.
const DefaultPriority = 3

// PipelineEntry is the per-project overlay for one master investor. Its
// identity is the investor's id, scoped within the owning project, which
// makes add-to-pipeline idempotent per investor.
type PipelineEntry struct {
	CreatedAt    time.Time
	InvestorID   string
	ProjectID    string
	Status       PipelineStatus
	Interactions []Interaction
	Priority     int // 1-5
}

// NewPipelineEntry returns an entry with the default priority and status.
func NewPipelineEntry(projectID, investorID string) PipelineEntry {
	return PipelineEntry{
		InvestorID: investorID,
		ProjectID:  projectID,
		Priority:   DefaultPriority,
		Status:     StatusNotContacted,
		CreatedAt:  time.Now(),
	}
}

// Validate checks that a pipeline entry is well-formed enough to persist.
func (e *PipelineEntry) Validate() error {
	if e.InvestorID == "" {
		return fmt.Errorf("pipeline entry missing investor id")
	}
	if e.ProjectID == "" {
		return fmt.Errorf("pipeline entry missing project id")
	}
	if e.Priority < 1 || e.Priority > 5 {
		return fmt.Errorf("pipeline entry priority must be between 1 and 5, got %d", e.Priority)
	}
	if !e.Status.Valid() {
		return fmt.Errorf("invalid pipeline status: %s", e.Status)
	}
	return nil
}

// InteractionsNewestFirst returns a copy of the interaction log in display
// order. The stored slice is never reordered.
func (e *PipelineEntry) InteractionsNewestFirst() []Interaction {
	out := make([]Interaction, len(e.Interactions))
	for i, in := range e.Interactions {
		out[len(e.Interactions)-1-i] = in
	}
	return out
}

// ProjectInvestor is the derived merge of a master investor with its pipeline
// entry for the selected project. It is never persisted; it exists only while
// both source records exist.
type ProjectInvestor struct {
	Investor
	Status       PipelineStatus
	Interactions []Interaction
	Priority     int
	AddedAt      time.Time
}
