// Package tui renders the live pipeline board.
package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/joshsymonds/dealflow/internal/model"
	syncpkg "github.com/joshsymonds/dealflow/internal/sync"
)

// viewMsg carries a fresh derived view from the synchronizer into the
// bubbletea event loop.
type viewMsg syncpkg.View

type keyMap struct {
	PrevProject key.Binding
	NextProject key.Binding
	ToggleList  key.Binding
	Quit        key.Binding
}

var keys = keyMap{
	PrevProject: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "previous project"),
	),
	NextProject: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "next project"),
	),
	ToggleList: key.NewBinding(
		key.WithKeys("tab", "i"),
		key.WithHelp("tab", "toggle investor list"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// mode selects which screen the board renders.
type mode int

const (
	modeBoard mode = iota
	modeInvestors
)

// Board is a read-only kanban view over the synchronizer's derived state.
// Every record-store change re-renders through the same snapshot path, so
// the board never holds stale entries from a previously selected project.
type Board struct {
	sync    *syncpkg.Synchronizer
	theme   Theme
	view    syncpkg.View
	mode    mode
	width   int
	height  int
	project int // index into view.Projects
}

// NewBoard creates a board over the given synchronizer.
func NewBoard(s *syncpkg.Synchronizer) *Board {
	return &Board{
		sync:  s,
		theme: Default,
		view:  s.Snapshot(),
	}
}

// Run starts the board UI and blocks until the user quits. wire is called with
// the program's publish function before the event loop starts; the caller
// binds it into the synchronizer's change hook and then opens the streams.
func Run(s *syncpkg.Synchronizer, wire func(publish func(syncpkg.View))) error {
	board := NewBoard(s)
	p := tea.NewProgram(board, tea.WithAltScreen())

	wire(func(v syncpkg.View) {
		p.Send(viewMsg(v))
	})

	_, err := p.Run()
	return err
}

// Init implements tea.Model.
func (b *Board) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (b *Board) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height

	case viewMsg:
		b.view = syncpkg.View(msg)
		b.clampProject()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return b, tea.Quit
		case key.Matches(msg, keys.PrevProject):
			if b.project > 0 {
				b.project--
				b.selectCurrent()
			}
		case key.Matches(msg, keys.NextProject):
			if b.project < len(b.view.Projects)-1 {
				b.project++
				b.selectCurrent()
			}
		case key.Matches(msg, keys.ToggleList):
			if b.mode == modeBoard {
				b.mode = modeInvestors
			} else {
				b.mode = modeBoard
			}
		}
	}

	return b, nil
}

func (b *Board) clampProject() {
	if b.project >= len(b.view.Projects) {
		b.project = len(b.view.Projects) - 1
	}
	if b.project < 0 {
		b.project = 0
	}
	// Keep the local cursor in step with the synchronizer's selection.
	for i, p := range b.view.Projects {
		if p.ID == b.view.SelectedProjectID {
			b.project = i
			break
		}
	}
}

func (b *Board) selectCurrent() {
	if b.project < len(b.view.Projects) {
		b.sync.SelectProject(b.view.Projects[b.project].ID)
	}
}

// View implements tea.Model.
func (b *Board) View() string {
	if b.view.Loading {
		return b.theme.Subtitle.Render("Loading...")
	}
	if b.mode == modeInvestors {
		return b.investorsView()
	}
	if len(b.view.Projects) == 0 {
		return b.theme.Subtitle.Render("No projects yet. Create one with 'dealflow projects add'.")
	}

	var header string
	for i, p := range b.view.Projects {
		name := p.Name
		if i == b.project {
			name = b.theme.ColumnTitle.Render("[" + name + "]")
		} else {
			name = b.theme.CardMeta.Render(" " + name + " ")
		}
		header += name + " "
	}

	columns := make([]string, 0, len(model.PipelineStatuses()))
	byStatus := make(map[model.PipelineStatus][]model.ProjectInvestor)
	for _, pi := range b.view.ProjectInvestors {
		byStatus[pi.Status] = append(byStatus[pi.Status], pi)
	}

	colWidth := 24
	if b.width > 0 {
		if w := b.width/len(model.PipelineStatuses()) - 4; w > 16 {
			colWidth = w
		}
	}

	for _, status := range model.PipelineStatuses() {
		group := byStatus[status]
		// High priority floats to the top of each column.
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Priority > group[j].Priority
		})

		var cards []string
		cards = append(cards, b.theme.ColumnTitle.Render(fmt.Sprintf("%s (%d)", status, len(group))))
		for _, pi := range group {
			name := pi.Name
			if len(name) > colWidth {
				name = name[:colWidth-1] + "…"
			}
			cards = append(cards,
				b.theme.Card.Render(b.theme.CardName.Render(name)),
				b.theme.Card.Render(b.theme.CardMeta.Render(
					fmt.Sprintf("P%d · %d notes", pi.Priority, len(pi.Interactions)))))
		}

		columns = append(columns, b.theme.Column.Width(colWidth).Render(strings.Join(cards, "\n")))
	}

	board := lipgloss.JoinHorizontal(lipgloss.Top, columns...)
	help := b.theme.Help.Render("←/→ switch project · tab investors · q quit")

	return b.theme.Title.Render("dealflow board") + "\n" + header + "\n" + board + "\n" + help
}

// investorsView renders the account's master list, independent of project
// selection.
func (b *Board) investorsView() string {
	var rows []string
	rows = append(rows, b.theme.Title.Render("master investors"))

	if len(b.view.Investors) == 0 {
		rows = append(rows, b.theme.Subtitle.Render("No investors yet. Add some with 'dealflow investors add' or 'dealflow import'."))
	}

	for _, inv := range b.view.Investors {
		line := fmt.Sprintf("%-30s %-14s %-14s %s",
			inv.Name, inv.Classification, inv.Sector, strings.Repeat("★", inv.Rating))
		rows = append(rows, b.theme.CardName.Render(line))
	}

	rows = append(rows, b.theme.Help.Render("tab board · q quit"))
	return strings.Join(rows, "\n")
}
