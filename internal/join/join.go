// Package join derives the per-project investor view from the master
// investor list and the selected project's pipeline entries.
package join

import (
	"fmt"
	"strings"

	"github.com/joshsymonds/dealflow/internal/model"
)

// Join combines master investors with pipeline entries by investor id. An
// entry whose master record is missing is dropped without error: the master
// may have been deleted after the investor was added to the pipeline, and the
// derived view simply no longer contains it. Output order follows the entry
// list. Join is deterministic and side-effect free.
func Join(investors []model.Investor, entries []model.PipelineEntry) []model.ProjectInvestor {
	byID := make(map[string]*model.Investor, len(investors))
	for i := range investors {
		byID[investors[i].ID] = &investors[i]
	}

	joined := make([]model.ProjectInvestor, 0, len(entries))
	for i := range entries {
		master, ok := byID[entries[i].InvestorID]
		if !ok {
			continue
		}
		joined = append(joined, merge(master, &entries[i]))
	}

	return joined
}

// merge produces one derived record from a master investor and its pipeline
// entry. Pipeline fields take precedence over master fields of the same
// meaning; the precedence rule lives here and nowhere else.
func merge(investor *model.Investor, entry *model.PipelineEntry) model.ProjectInvestor {
	return model.ProjectInvestor{
		Investor:     *investor,
		Priority:     entry.Priority,
		Status:       entry.Status,
		Interactions: entry.Interactions,
		AddedAt:      entry.CreatedAt,
	}
}

// Joiner memoizes Join over its two inputs. Recomputation correctness never
// depends on the memo; it only avoids redundant work when the synchronizer
// re-derives on every snapshot.
type Joiner struct {
	lastKey string
	last    []model.ProjectInvestor
}

// NewJoiner returns an empty memoizing joiner.
func NewJoiner() *Joiner {
	return &Joiner{}
}

// Join returns the derived view, reusing the previous result when both
// inputs are unchanged.
func (j *Joiner) Join(investors []model.Investor, entries []model.PipelineEntry) []model.ProjectInvestor {
	key := fingerprint(investors, entries)
	if key == j.lastKey && j.last != nil {
		return j.last
	}

	j.last = Join(investors, entries)
	j.lastKey = key
	return j.last
}

// fingerprint summarizes the join inputs. It covers every field that affects
// the output, so a stale hit is impossible.
func fingerprint(investors []model.Investor, entries []model.PipelineEntry) string {
	var b strings.Builder
	for i := range investors {
		inv := &investors[i]
		fmt.Fprintf(&b, "i|%s|%s|%s|%s|%s|%s|%d|%s|%s|%s|%s|%s|%d;",
			inv.ID, inv.Name, inv.Classification, inv.Type, inv.Sector,
			inv.CreditEquity, inv.Rating, inv.Justification, inv.Email,
			inv.Email2, inv.Phone, inv.ProfileURL, inv.CreatedAt.UnixNano())
	}
	b.WriteString("/")
	for i := range entries {
		e := &entries[i]
		fmt.Fprintf(&b, "e|%s|%s|%d|%s|%d|%d;",
			e.ProjectID, e.InvestorID, e.Priority, e.Status,
			e.CreatedAt.UnixNano(), len(e.Interactions))
		for _, in := range e.Interactions {
			fmt.Fprintf(&b, "n|%d|%s|%s;", in.Timestamp.UnixNano(), in.Type, in.Notes)
		}
	}
	return b.String()
}
