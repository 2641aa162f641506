package console

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"agentdesk/internal/agentapi"
)

// Backend is the agent service as seen by the console.
type Backend interface {
	Skills(ctx context.Context) ([]agentapi.Skill, error)
	Message(ctx context.Context) (agentapi.Message, error)
	Execute(ctx context.Context, req agentapi.ExecutionRequest) (agentapi.ExecutionResult, error)
}

// Catalog is an immutable, ordered set of skills keyed by name. It is
// replaced wholesale, never patched.
type Catalog struct {
	skills []agentapi.Skill
	index  map[string]int
}

// NewCatalog builds a catalog, dropping blank and duplicate names. The first
// occurrence of a name wins. Names are kept exactly as the server sent them.
func NewCatalog(skills []agentapi.Skill) Catalog {
	c := Catalog{index: make(map[string]int, len(skills))}
	for _, s := range skills {
		if strings.TrimSpace(s.Name) == "" {
			continue
		}
		if _, dup := c.index[s.Name]; dup {
			continue
		}
		c.index[s.Name] = len(c.skills)
		c.skills = append(c.skills, s)
	}
	return c
}

// Len is the number of skills.
func (c Catalog) Len() int { return len(c.skills) }

// Skills returns a copy of the skills in server order.
func (c Catalog) Skills() []agentapi.Skill {
	out := make([]agentapi.Skill, len(c.skills))
	copy(out, c.skills)
	return out
}

// Names returns the skill names in server order.
func (c Catalog) Names() []string {
	out := make([]string, len(c.skills))
	for i, s := range c.skills {
		out[i] = s.Name
	}
	return out
}

// Contains reports whether name is in the catalog.
func (c Catalog) Contains(name string) bool {
	_, ok := c.index[name]
	return ok
}

// Get returns the skill called name.
func (c Catalog) Get(name string) (agentapi.Skill, bool) {
	i, ok := c.index[name]
	if !ok {
		return agentapi.Skill{}, false
	}
	return c.skills[i], true
}

// LoadCatalog performs the one catalog fetch made at startup. Failures are
// logged and yield an empty catalog; the console stays usable with no skills.
func LoadCatalog(ctx context.Context, b Backend, logger *zap.Logger) Catalog {
	if logger == nil {
		logger = zap.NewNop()
	}
	skills, err := b.Skills(ctx)
	if err != nil {
		logger.Warn("failed to fetch skills", zap.Error(err))
		return NewCatalog(nil)
	}
	c := NewCatalog(skills)
	logger.Info("skill catalog loaded", zap.Int("count", c.Len()), zap.Strings("skills", c.Names()))
	return c
}
