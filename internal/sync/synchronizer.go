// Package sync keeps the three live record streams (projects, master
// investors, selected-project pipeline) joined into one consistent view.
package sync

import (
	"sync"

	"github.com/joshsymonds/dealflow/internal/join"
	"github.com/joshsymonds/dealflow/internal/model"
	"github.com/joshsymonds/dealflow/internal/service"
)

// View is the derived state handed to consumers after every accepted
// snapshot. Each field is complete, never incremental.
type View struct {
	SelectedProjectID string
	Projects          []model.Project
	Investors         []model.Investor
	PipelineEntries   []model.PipelineEntry
	ProjectInvestors  []model.ProjectInvestor
	Loading           bool
}

// Synchronizer subscribes to the account's projects and investors plus the
// selected project's pipeline, and re-derives the joined view on every
// snapshot. Superseded subscriptions are cancelled before their replacement
// opens, and epoch tokens drop any callback that still slips through, so a
// stale stream can never mutate current state.
type Synchronizer struct {
	storage  service.Storage
	onChange func(View)
	joiner   *join.Joiner

	mu            sync.Mutex
	accountID     string
	selectedID    string
	projects      []model.Project
	investors     []model.Investor
	entries       []model.PipelineEntry
	projectsSub   service.Subscription
	investorsSub  service.Subscription
	pipelineSub   service.Subscription
	accountEpoch  int
	pipelineEpoch int
	loaded        bool
}

// NewSynchronizer creates a synchronizer over the given record store.
// onChange may be nil; when set it fires after every accepted snapshot.
func NewSynchronizer(storage service.Storage, onChange func(View)) *Synchronizer {
	return &Synchronizer{
		storage:  storage,
		onChange: onChange,
		joiner:   join.NewJoiner(),
	}
}

// SetAccount points the synchronizer at a new identity. An empty account id
// resets every view to empty and loading state; a non-empty id opens the
// projects and investors streams (the pipeline stream follows selection).
func (s *Synchronizer) SetAccount(accountID string) {
	s.mu.Lock()
	old := s.takeSubsLocked()
	s.accountID = accountID
	s.selectedID = ""
	s.projects = nil
	s.investors = nil
	s.entries = nil
	s.loaded = false
	s.accountEpoch++
	s.pipelineEpoch++
	epoch := s.accountEpoch
	s.mu.Unlock()

	cancelAll(old)

	if accountID == "" {
		s.emit()
		return
	}

	projectsSub := s.storage.SubscribeProjects(accountID, func(snap []model.Project) {
		s.onProjects(epoch, snap)
	})
	investorsSub := s.storage.SubscribeInvestors(accountID, func(snap []model.Investor) {
		s.onInvestors(epoch, snap)
	})

	s.mu.Lock()
	if s.accountEpoch == epoch {
		s.projectsSub = projectsSub
		s.investorsSub = investorsSub
		s.mu.Unlock()
		return
	}
	// Superseded while subscribing; release immediately.
	s.mu.Unlock()
	projectsSub.Cancel()
	investorsSub.Cancel()
}

// SelectProject re-points the pipeline stream at a new project. The old
// subscription is cancelled before the new one opens; there is no overlap and
// no stale delivery after reselection.
func (s *Synchronizer) SelectProject(projectID string) {
	s.mu.Lock()
	if s.accountID == "" {
		s.mu.Unlock()
		return
	}
	old := s.pipelineSub
	s.pipelineSub = nil
	s.selectedID = projectID
	s.entries = nil
	s.pipelineEpoch++
	epoch := s.pipelineEpoch
	s.mu.Unlock()

	if old != nil {
		old.Cancel()
	}

	if projectID == "" {
		s.emit()
		return
	}

	sub := s.storage.SubscribePipeline(projectID, func(snap []model.PipelineEntry) {
		s.onPipeline(epoch, snap)
	})

	s.mu.Lock()
	if s.pipelineEpoch == epoch && s.selectedID == projectID {
		s.pipelineSub = sub
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()
	sub.Cancel()
}

// SelectedProject returns the currently selected project id, or "".
func (s *Synchronizer) SelectedProject() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedID
}

// Snapshot returns the current derived view.
func (s *Synchronizer) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

// Close cancels every live subscription.
func (s *Synchronizer) Close() {
	s.mu.Lock()
	old := s.takeSubsLocked()
	s.accountEpoch++
	s.pipelineEpoch++
	s.mu.Unlock()

	cancelAll(old)
}

func (s *Synchronizer) onProjects(epoch int, snap []model.Project) {
	s.mu.Lock()
	if epoch != s.accountEpoch {
		s.mu.Unlock()
		return
	}
	s.projects = snap
	s.loaded = true

	// Selection policy: auto-select the first project when none is selected,
	// clear selection when the collection empties.
	var reselect string
	switch {
	case s.selectedID == "" && len(snap) > 0:
		reselect = snap[0].ID
	case s.selectedID != "" && len(snap) == 0:
		reselect = ""
	default:
		s.mu.Unlock()
		s.emit()
		return
	}
	s.mu.Unlock()

	s.SelectProject(reselect)
	if reselect == "" {
		return // SelectProject already emitted the cleared view
	}
	s.emit()
}

func (s *Synchronizer) onInvestors(epoch int, snap []model.Investor) {
	s.mu.Lock()
	if epoch != s.accountEpoch {
		s.mu.Unlock()
		return
	}
	s.investors = snap
	s.mu.Unlock()
	s.emit()
}

func (s *Synchronizer) onPipeline(epoch int, snap []model.PipelineEntry) {
	s.mu.Lock()
	if epoch != s.pipelineEpoch {
		s.mu.Unlock()
		return
	}
	s.entries = snap
	s.mu.Unlock()
	s.emit()
}

func (s *Synchronizer) emit() {
	if s.onChange == nil {
		return
	}
	s.mu.Lock()
	view := s.viewLocked()
	s.mu.Unlock()
	s.onChange(view)
}

func (s *Synchronizer) viewLocked() View {
	return View{
		SelectedProjectID: s.selectedID,
		Projects:          s.projects,
		Investors:         s.investors,
		PipelineEntries:   s.entries,
		ProjectInvestors:  s.joiner.Join(s.investors, s.entries),
		Loading:           s.accountID != "" && !s.loaded,
	}
}

func (s *Synchronizer) takeSubsLocked() []service.Subscription {
	subs := []service.Subscription{s.projectsSub, s.investorsSub, s.pipelineSub}
	s.projectsSub = nil
	s.investorsSub = nil
	s.pipelineSub = nil
	return subs
}

func cancelAll(subs []service.Subscription) {
	for _, sub := range subs {
		if sub != nil {
			sub.Cancel()
		}
	}
}
