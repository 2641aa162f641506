package console

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"agentdesk/internal/agentapi"
	"agentdesk/internal/logging"
	"agentdesk/internal/usage"
)

// slowCall is the latency above which a dispatch is logged as a warning.
const slowCall = 10 * time.Second

// ExecutionOutcome is what a dispatched execution resolves to. Failure holds
// the fixed user-facing string; Err is the cause, for logs only.
type ExecutionOutcome struct {
	Ticket      Ticket
	Trace       []agentapi.TraceStep
	FinalOutput string
	Failure     string
	Err         error
	Elapsed     time.Duration
}

// Failed reports whether the execution failed.
func (o ExecutionOutcome) Failed() bool { return o.Failure != "" }

// ProbeOutcome is the result of the connectivity check.
type ProbeOutcome struct {
	Message string
	Err     error
}

// Dispatcher performs agent calls and converts every failure, including
// panics, into an outcome. Nothing propagates past it.
type Dispatcher struct {
	backend Backend
	logger  *zap.Logger
	usage   *usage.Tracker
}

// NewDispatcher returns a dispatcher over b.
func NewDispatcher(b Backend, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{backend: b, logger: logger}
}

// WithUsage records every execution outcome in t.
func (d *Dispatcher) WithUsage(t *usage.Tracker) *Dispatcher {
	d.usage = t
	return d
}

// Usage returns the tracker, or nil.
func (d *Dispatcher) Usage() *usage.Tracker { return d.usage }

// LoadCatalog fetches the skill catalog once.
func (d *Dispatcher) LoadCatalog(ctx context.Context) Catalog {
	return LoadCatalog(ctx, d.backend, d.logger.Named("catalog"))
}

// Execute sends req for ticket t and always returns an outcome.
func (d *Dispatcher) Execute(ctx context.Context, t Ticket, req agentapi.ExecutionRequest) (out ExecutionOutcome) {
	out.Ticket = t
	log := d.logger.With(zap.String("request_id", t.ID), zap.String("skill", req.Skill))
	timer := logging.StartTimer(logging.CategoryDispatch, "execute")
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			out.Trace = nil
			out.FinalOutput = ""
			out.Failure = MsgExecuteFailed
			out.Err = fmt.Errorf("panic during execute: %v", r)
		}
		out.Elapsed = time.Since(start)
		timer.StopWithThreshold(slowCall)
		if d.usage != nil {
			d.usage.Track(req.Skill, out.Trace, out.Failed(), out.Elapsed)
		}
		if out.Err != nil {
			log.Warn("execution failed", zap.Error(out.Err), zap.Duration("elapsed", out.Elapsed))
			return
		}
		log.Info("execution completed", zap.Int("steps", len(out.Trace)), zap.Duration("elapsed", out.Elapsed))
	}()

	log.Debug("dispatching execution", zap.Bool("scoped", req.Scoped()))
	res, err := d.backend.Execute(agentapi.WithRequestID(ctx, t.ID), req)
	if err != nil {
		out.Failure = MsgExecuteFailed
		out.Err = err
		return out
	}

	out.Trace = res.Trace
	if out.Trace == nil {
		out.Trace = []agentapi.TraceStep{}
	}
	out.FinalOutput = res.FinalOutput
	if req.Scoped() && !res.HasFinalOutput {
		out.FinalOutput = MsgSkillExecuted
	}
	return out
}

// Ping runs the connectivity check and always returns a message.
func (d *Dispatcher) Ping(ctx context.Context) (out ProbeOutcome) {
	defer func() {
		if r := recover(); r != nil {
			out = ProbeOutcome{Message: MsgConnectFailed, Err: fmt.Errorf("panic during ping: %v", r)}
		}
		if out.Err != nil {
			d.logger.Warn("connectivity check failed", zap.Error(out.Err))
		}
	}()

	msg, err := d.backend.Message(ctx)
	if err != nil {
		return ProbeOutcome{Message: MsgConnectFailed, Err: err}
	}
	if !msg.Present {
		return ProbeOutcome{Message: MsgDefaultGreeting}
	}
	return ProbeOutcome{Message: msg.Text}
}
