package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshsymonds/dealflow/internal/model"
	syncpkg "github.com/joshsymonds/dealflow/internal/sync"
	"github.com/joshsymonds/dealflow/internal/testutil"
)

func testView() syncpkg.View {
	return syncpkg.View{
		SelectedProjectID: "p1",
		Projects: []model.Project{
			{ID: "p1", AccountID: "acct", Name: "Fund I"},
			{ID: "p2", AccountID: "acct", Name: "Fund II"},
		},
		ProjectInvestors: []model.ProjectInvestor{
			{
				Investor: model.Investor{ID: "a", Name: "Acme Ventures"},
				Status:   model.StatusNotContacted,
				Priority: 3,
			},
			{
				Investor: model.Investor{ID: "b", Name: "Beta Angels"},
				Status:   model.StatusInvested,
				Priority: 5,
			},
		},
	}
}

func TestBoardView(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := syncpkg.NewSynchronizer(db.Storage, nil)
	defer s.Close()

	board := NewBoard(s)

	t.Run("empty state prompts for a project", func(t *testing.T) {
		m, _ := board.Update(viewMsg(syncpkg.View{}))
		out := m.(*Board).View()
		assert.Contains(t, out, "No projects yet")
	})

	t.Run("renders every status column", func(t *testing.T) {
		updated, _ := board.Update(viewMsg(testView()))
		out := updated.(*Board).View()

		for _, status := range model.PipelineStatuses() {
			assert.Contains(t, out, string(status))
		}
		assert.Contains(t, out, "Acme Ventures")
		assert.Contains(t, out, "Beta Angels")
		assert.Contains(t, out, "Fund I")
	})

	t.Run("tab toggles to the investor list", func(t *testing.T) {
		view := testView()
		view.Investors = []model.Investor{
			{ID: "a", Name: "Acme Ventures", Classification: "VC", Sector: "Fintech", Rating: 4},
		}
		updated, _ := board.Update(viewMsg(view))
		updated, _ = updated.(*Board).Update(tea.KeyMsg{Type: tea.KeyTab})

		out := updated.(*Board).View()
		assert.Contains(t, out, "master investors")
		assert.Contains(t, out, "Acme Ventures")

		updated, _ = updated.(*Board).Update(tea.KeyMsg{Type: tea.KeyTab})
		assert.Contains(t, updated.(*Board).View(), "dealflow board")
	})

	t.Run("loading state", func(t *testing.T) {
		updated, _ := board.Update(viewMsg(syncpkg.View{Loading: true}))
		out := updated.(*Board).View()
		assert.Contains(t, out, "Loading")
	})
}

func TestBoardKeys(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := syncpkg.NewSynchronizer(db.Storage, nil)
	defer s.Close()

	board := NewBoard(s)
	board.Update(viewMsg(testView()))

	t.Run("quit", func(t *testing.T) {
		_, cmd := board.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
		require.NotNil(t, cmd)
		assert.Equal(t, tea.Quit(), cmd())
	})

	t.Run("window resize is absorbed", func(t *testing.T) {
		updated, cmd := board.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
		assert.Nil(t, cmd)
		assert.NotEmpty(t, updated.(*Board).View())
	})
}
