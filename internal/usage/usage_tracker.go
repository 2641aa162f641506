// Package usage keeps an in-memory tally of the executions made during one
// agentdesk session. Nothing is persisted.
package usage

import (
	"sync"
	"time"

	"agentdesk/internal/agentapi"
)

// Tracker records executions. It is safe for concurrent use.
type Tracker struct {
	mu    sync.Mutex
	stats Stats
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		stats: Stats{
			ByScope: make(map[string]Counts),
			BySkill: make(map[string]StepCounts),
		},
	}
}

// Track records one execution. scope is the skill the request was scoped
// to, empty for agent-routed goals.
func (t *Tracker) Track(scope string, trace []agentapi.TraceStep, failed bool, elapsed time.Duration) {
	if scope == "" {
		scope = ScopeGoal
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.stats.Session.Add(len(trace), failed, elapsed)

	c := t.stats.ByScope[scope]
	c.Add(len(trace), failed, elapsed)
	t.stats.ByScope[scope] = c

	for _, step := range trace {
		sc := t.stats.BySkill[step.SkillName]
		if step.Success {
			sc.Succeeded++
		} else {
			sc.Failed++
		}
		t.stats.BySkill[step.SkillName] = sc
	}
}

// Stats returns a copy of the tallies.
func (t *Tracker) Stats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := t.stats
	out.ByScope = make(map[string]Counts, len(t.stats.ByScope))
	for k, v := range t.stats.ByScope {
		out.ByScope[k] = v
	}
	out.BySkill = make(map[string]StepCounts, len(t.stats.BySkill))
	for k, v := range t.stats.BySkill {
		out.BySkill[k] = v
	}
	return out
}

// Session returns the session totals.
func (t *Tracker) Session() Counts {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stats.Session
}
