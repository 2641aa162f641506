package usage

import "time"

// ScopeGoal is the scope key for unscoped (agent-routed) executions.
const ScopeGoal = "goal"

// Counts holds execution sums for one dimension.
type Counts struct {
	Runs     int64         `json:"runs"`
	Failures int64         `json:"failures"`
	Steps    int64         `json:"steps"`
	Elapsed  time.Duration `json:"elapsed"`
}

// Add records one execution.
func (c *Counts) Add(steps int, failed bool, elapsed time.Duration) {
	c.Runs++
	if failed {
		c.Failures++
	}
	c.Steps += int64(steps)
	c.Elapsed += elapsed
}

// AvgLatency is the mean elapsed time per run.
func (c Counts) AvgLatency() time.Duration {
	if c.Runs == 0 {
		return 0
	}
	return c.Elapsed / time.Duration(c.Runs)
}

// StepCounts tallies trace steps reported for one skill.
type StepCounts struct {
	Succeeded int64 `json:"succeeded"`
	Failed    int64 `json:"failed"`
}

// Stats is a snapshot of the session's executions.
type Stats struct {
	Session Counts                `json:"session"`
	ByScope map[string]Counts     `json:"by_scope"` // selected skill, or ScopeGoal
	BySkill map[string]StepCounts `json:"by_skill"` // skills seen in traces
}
