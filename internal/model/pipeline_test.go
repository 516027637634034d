package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPipelineEntry(t *testing.T) {
	entry := NewPipelineEntry("p1", "inv1")

	assert.Equal(t, "p1", entry.ProjectID)
	assert.Equal(t, "inv1", entry.InvestorID)
	assert.Equal(t, DefaultPriority, entry.Priority)
	assert.Equal(t, StatusNotContacted, entry.Status)
	assert.Empty(t, entry.Interactions)
	assert.False(t, entry.CreatedAt.IsZero())
	assert.NoError(t, entry.Validate())
}

func TestPipelineEntryValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*PipelineEntry)
		wantErr bool
	}{
		{"valid defaults", func(*PipelineEntry) {}, false},
		{"missing investor", func(e *PipelineEntry) { e.InvestorID = "" }, true},
		{"missing project", func(e *PipelineEntry) { e.ProjectID = "" }, true},
		{"priority too low", func(e *PipelineEntry) { e.Priority = 0 }, true},
		{"priority too high", func(e *PipelineEntry) { e.Priority = 6 }, true},
		{"unknown status", func(e *PipelineEntry) { e.Status = "Ghosted" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := NewPipelineEntry("p1", "inv1")
			tt.mutate(&entry)

			err := entry.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPipelineStatuses(t *testing.T) {
	statuses := PipelineStatuses()
	require.Len(t, statuses, 6)
	assert.Equal(t, StatusNotContacted, statuses[0])
	assert.Equal(t, StatusRejected, statuses[5])

	for _, status := range statuses {
		assert.True(t, status.Valid())
	}
	assert.False(t, PipelineStatus("Ghosted").Valid())
	assert.False(t, PipelineStatus("").Valid())
}

func TestInteractionTypeValid(t *testing.T) {
	for _, it := range []InteractionType{
		InteractionEmail, InteractionCall, InteractionMeeting, InteractionLinkedIn, InteractionOther,
	} {
		assert.True(t, it.Valid())
	}
	assert.False(t, InteractionType("Telegram").Valid())
}

func TestInteractionsNewestFirst(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	entry := NewPipelineEntry("p1", "inv1")
	for i, note := range []string{"first", "second", "third"} {
		entry.Interactions = append(entry.Interactions, Interaction{
			Timestamp: base.Add(time.Duration(i) * time.Hour),
			Type:      InteractionEmail,
			Notes:     note,
		})
	}

	newest := entry.InteractionsNewestFirst()
	require.Len(t, newest, 3)
	assert.Equal(t, "third", newest[0].Notes)
	assert.Equal(t, "first", newest[2].Notes)

	// The stored log keeps append order.
	assert.Equal(t, "first", entry.Interactions[0].Notes)
}

func TestInvestorValidate(t *testing.T) {
	valid := Investor{ID: "inv1", AccountID: "acct", Name: "Acme", Rating: 3}
	assert.NoError(t, valid.Validate())

	noName := Investor{ID: "inv1", AccountID: "acct", Name: "  "}
	assert.Error(t, noName.Validate())

	badRating := Investor{ID: "inv1", AccountID: "acct", Name: "Acme", Rating: 6}
	assert.Error(t, badRating.Validate())

	zeroRating := Investor{ID: "inv1", AccountID: "acct", Name: "Acme", Rating: 0}
	assert.NoError(t, zeroRating.Validate(), "zero is the unrated default")
}

func TestProjectValidate(t *testing.T) {
	valid := Project{ID: "p1", AccountID: "acct", Name: "Fund"}
	assert.NoError(t, valid.Validate())

	noName := Project{ID: "p1", AccountID: "acct"}
	assert.Error(t, noName.Validate())
}
