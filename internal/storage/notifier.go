package storage

import (
	"context"
	"log/slog"
	"sync"

	"github.com/joshsymonds/dealflow/internal/model"
	"github.com/joshsymonds/dealflow/internal/service"
)

// Topic prefixes for the snapshot feeds. One topic per scoped collection.
func topicProjects(accountID string) string  { return "projects/" + accountID }
func topicInvestors(accountID string) string { return "investors/" + accountID }
func topicPipeline(projectID string) string  { return "pipeline/" + projectID }

// notifier fans committed mutations out to snapshot subscribers. Every
// delivery is a complete re-query of the subscribed collection, never a
// delta, so consumers can treat each callback as authoritative.
type notifier struct {
	storage *SQLiteStorage
	subs    map[string][]*subscription
	mu      sync.Mutex
}

func newNotifier(s *SQLiteStorage) *notifier {
	return &notifier{
		storage: s,
		subs:    make(map[string][]*subscription),
	}
}

// subscription is a live handle on one topic. Cancel holds the delivery lock,
// so once it returns no further snapshot reaches the callback. Callbacks must
// not cancel their own subscription from within the callback.
type subscription struct {
	notifier *notifier
	deliver  func()
	topic    string
	mu       sync.Mutex
	canceled bool
}

// Cancel releases the subscription. No snapshot is delivered after it returns.
func (s *subscription) Cancel() {
	s.mu.Lock()
	s.canceled = true
	s.mu.Unlock()
	s.notifier.remove(s)
}

func (s *subscription) notify() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.canceled {
		return
	}
	s.deliver()
}

func (n *notifier) subscribe(topic string, deliver func()) *subscription {
	sub := &subscription{
		notifier: n,
		topic:    topic,
		deliver:  deliver,
	}

	n.mu.Lock()
	n.subs[topic] = append(n.subs[topic], sub)
	n.mu.Unlock()

	return sub
}

func (n *notifier) remove(sub *subscription) {
	n.mu.Lock()
	defer n.mu.Unlock()

	current := n.subs[sub.topic]
	for i, candidate := range current {
		if candidate == sub {
			n.subs[sub.topic] = append(current[:i], current[i+1:]...)
			break
		}
	}
	if len(n.subs[sub.topic]) == 0 {
		delete(n.subs, sub.topic)
	}
}

// publish delivers fresh snapshots to every subscriber of the topic. The
// subscriber list is copied so callbacks can register new subscriptions.
func (n *notifier) publish(topics ...string) {
	n.mu.Lock()
	var targets []*subscription
	for _, topic := range topics {
		targets = append(targets, n.subs[topic]...)
	}
	n.mu.Unlock()

	for _, sub := range targets {
		sub.notify()
	}
}

// SubscribeProjects opens a snapshot feed over an account's projects. The
// current snapshot is delivered synchronously before Subscribe returns.
func (s *SQLiteStorage) SubscribeProjects(accountID string, fn func([]model.Project)) service.Subscription {
	sub := s.notifier.subscribe(topicProjects(accountID), func() {
		projects, err := s.GetProjects(context.Background(), accountID)
		if err != nil {
			slog.Error("projects snapshot query failed", "account_id", accountID, "error", err)
			return
		}
		fn(projects)
	})
	sub.notify()
	return sub
}

// SubscribeInvestors opens a snapshot feed over an account's master investor list.
func (s *SQLiteStorage) SubscribeInvestors(accountID string, fn func([]model.Investor)) service.Subscription {
	sub := s.notifier.subscribe(topicInvestors(accountID), func() {
		investors, err := s.GetInvestors(context.Background(), accountID)
		if err != nil {
			slog.Error("investors snapshot query failed", "account_id", accountID, "error", err)
			return
		}
		fn(investors)
	})
	sub.notify()
	return sub
}

// SubscribePipeline opens a snapshot feed over one project's pipeline entries.
func (s *SQLiteStorage) SubscribePipeline(projectID string, fn func([]model.PipelineEntry)) service.Subscription {
	sub := s.notifier.subscribe(topicPipeline(projectID), func() {
		entries, err := s.GetPipelineEntries(context.Background(), projectID)
		if err != nil {
			slog.Error("pipeline snapshot query failed", "project_id", projectID, "error", err)
			return
		}
		fn(entries)
	})
	sub.notify()
	return sub
}
