package console

import (
	"context"
	"sync"

	"agentdesk/internal/agentapi"
)

// fakeBackend counts calls and returns scripted results.
type fakeBackend struct {
	mu sync.Mutex

	skills    []agentapi.Skill
	skillsErr error

	message    agentapi.Message
	messageErr error

	result     agentapi.ExecutionResult
	executeErr error
	panicOn    bool

	skillsCalls  int
	messageCalls int
	executeCalls int
	requests     []agentapi.ExecutionRequest
	requestIDs   []string
}

func (f *fakeBackend) Skills(ctx context.Context) ([]agentapi.Skill, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.skillsCalls++
	return f.skills, f.skillsErr
}

func (f *fakeBackend) Message(ctx context.Context) (agentapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messageCalls++
	if f.panicOn {
		panic("message exploded")
	}
	return f.message, f.messageErr
}

func (f *fakeBackend) Execute(ctx context.Context, req agentapi.ExecutionRequest) (agentapi.ExecutionResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.executeCalls++
	f.requests = append(f.requests, req)
	f.requestIDs = append(f.requestIDs, agentapi.RequestIDFrom(ctx))
	if f.panicOn {
		panic("execute exploded")
	}
	return f.result, f.executeErr
}

func (f *fakeBackend) executions() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.executeCalls
}
