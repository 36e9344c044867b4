// Package pipeline owns all live pipeline instances: it builds descriptors
// into execution handles, runs them synchronously or asynchronously, and
// enforces one lifecycle state machine per instance. Operations on the same
// instance are linearized; operations on different instances never block
// each other.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/c360/pipewright/errors"
	"github.com/c360/pipewright/events"
	"github.com/c360/pipewright/launch"
	"github.com/c360/pipewright/metric"
)

// Mode selects how Run returns
type Mode string

// Run modes
const (
	ModeSync  Mode = "sync"
	ModeAsync Mode = "async"
)

// maxMessages bounds the per-instance diagnostic ring
const maxMessages = 10

// defaultPollInterval paces the per-instance monitor loop
const defaultPollInterval = 50 * time.Millisecond

// RunResult reports the outcome of a Run call
type RunResult struct {
	ID       string        `json:"id"`
	State    State         `json:"state"`
	TimedOut bool          `json:"timed_out,omitempty"`
	Elapsed  time.Duration `json:"elapsed"`
	Error    string        `json:"error,omitempty"`
}

// StopResult reports the outcome of a Stop call
type StopResult struct {
	ID              string `json:"id"`
	State           State  `json:"state"`
	AlreadyTerminal bool   `json:"already_terminal,omitempty"`
}

// Status is a point-in-time snapshot of one instance
type Status struct {
	ID          string        `json:"id"`
	Description string        `json:"description"`
	State       State         `json:"state"`
	Created     time.Time     `json:"created"`
	Elapsed     time.Duration `json:"elapsed"`
	Position    time.Duration `json:"position"`
	Error       string        `json:"error,omitempty"`
	Messages    []Message     `json:"messages,omitempty"`
}

// Summary is one row of a List snapshot
type Summary struct {
	ID          string    `json:"id"`
	State       State     `json:"state"`
	Description string    `json:"description"`
	Created     time.Time `json:"created"`
}

type instance struct {
	id   string
	desc launch.Descriptor

	mu       sync.Mutex
	state    State
	handle   Handle
	created  time.Time
	started  time.Time
	finished time.Time
	lastErr  error
	position time.Duration
	messages []Message
	cancel   context.CancelFunc
	done     chan struct{}
}

// Registry owns all pipeline instances for the process lifetime
type Registry struct {
	engine       Engine
	logger       *slog.Logger
	metrics      *metric.Metrics
	publisher    events.Publisher
	pollInterval time.Duration

	mu           sync.RWMutex
	instances    map[string]*instance
	shuttingDown bool
}

// Option configures a Registry
type Option func(*Registry)

// WithLogger sets the structured logger
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) { r.logger = logger }
}

// WithMetrics enables lifecycle metrics
func WithMetrics(m *metric.Metrics) Option {
	return func(r *Registry) { r.metrics = m }
}

// WithPublisher enables state-change event publishing
func WithPublisher(p events.Publisher) Option {
	return func(r *Registry) { r.publisher = p }
}

// WithPollInterval overrides the monitor poll interval
func WithPollInterval(d time.Duration) Option {
	return func(r *Registry) {
		if d > 0 {
			r.pollInterval = d
		}
	}
}

// NewRegistry creates a Registry driving the given execution engine
func NewRegistry(engine Engine, opts ...Option) *Registry {
	r := &Registry{
		engine:       engine,
		logger:       slog.Default(),
		pollInterval: defaultPollInterval,
		instances:    make(map[string]*instance),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create builds a descriptor into a fresh instance in the built state and
// returns its id
func (r *Registry) Create(ctx context.Context, desc launch.Descriptor) (string, error) {
	r.mu.RLock()
	shuttingDown := r.shuttingDown
	r.mu.RUnlock()
	if shuttingDown {
		return "", errors.WrapInvalid(errors.ErrShuttingDown, "Registry", "Create",
			"the registry no longer accepts new pipelines")
	}

	handle, err := r.engine.Build(ctx, desc)
	if err != nil {
		return "", errors.WrapInvalid(
			fmt.Errorf("%w: %w", errors.ErrEngineBuild, err),
			"Registry", "Create",
			"fix the pipeline description before retrying")
	}

	inst := &instance{
		desc:    desc,
		state:   StateBuilt,
		handle:  handle,
		created: time.Now(),
	}

	r.mu.Lock()
	if r.shuttingDown {
		r.mu.Unlock()
		// the handle was built after the shutdown check above; release it so
		// it cannot outlive the registry
		if err := handle.Stop(); err != nil {
			r.logger.Warn("engine stop failed", "error", err)
		}
		return "", errors.WrapInvalid(errors.ErrShuttingDown, "Registry", "Create",
			"the registry no longer accepts new pipelines")
	}
	for {
		inst.id = uuid.NewString()[:8]
		if _, taken := r.instances[inst.id]; !taken {
			break
		}
	}
	r.instances[inst.id] = inst
	r.mu.Unlock()

	if r.metrics != nil {
		r.metrics.PipelinesCreated.Inc()
	}
	r.logger.Info("pipeline created", "id", inst.id, "description", desc.Text)
	return inst.id, nil
}

// Run transitions an instance from built to running. In sync mode it blocks
// until the instance reaches a terminal state or the timeout elapses; on
// timeout the instance is force-stopped before the call returns. In async
// mode it returns once the instance is confirmed running.
func (r *Registry) Run(ctx context.Context, id string, mode Mode, timeout time.Duration) (RunResult, error) {
	inst, err := r.get(id, "Run")
	if err != nil {
		return RunResult{}, err
	}

	inst.mu.Lock()
	if inst.state != StateBuilt {
		state := inst.state
		inst.mu.Unlock()
		if state == StateRunning || state == StatePaused {
			return RunResult{}, errors.WrapInvalid(
				fmt.Errorf("%w: %w: instance %s is %s",
					errors.ErrInvalidTransition, errors.ErrAlreadyRunning, id, state),
				"Registry", "Run", "each instance runs at most once")
		}
		return RunResult{}, errors.WrapInvalid(
			fmt.Errorf("%w: cannot run instance %s in state %s", errors.ErrInvalidTransition, id, state),
			"Registry", "Run", "create a new instance to run the pipeline again")
	}

	// the monitor owns the handle for the rest of the instance's life, so
	// its context is detached from the caller's
	runCtx, cancel := context.WithCancel(context.Background())
	if err := inst.handle.Start(runCtx); err != nil {
		cancel()
		inst.state = StateError
		inst.lastErr = err
		inst.finished = time.Now()
		result := RunResult{ID: id, State: StateError, Error: err.Error()}
		inst.mu.Unlock()
		r.publish(inst, StateBuilt, StateError, err)
		r.logger.Error("pipeline start failed", "id", id, "error", err)
		return result, nil
	}

	inst.state = StateRunning
	inst.started = time.Now()
	inst.cancel = cancel
	inst.done = make(chan struct{})
	done := inst.done
	inst.mu.Unlock()

	if r.metrics != nil {
		r.metrics.RecordRunStarted(string(mode))
	}
	r.publish(inst, StateBuilt, StateRunning, nil)
	r.logger.Info("pipeline running", "id", id, "mode", mode)

	go r.monitor(runCtx, inst)

	if mode != ModeSync {
		return RunResult{ID: id, State: StateRunning}, nil
	}
	return r.awaitSync(ctx, inst, done, timeout)
}

// awaitSync blocks until the monitor finishes, the timeout elapses, or the
// caller's context is cancelled. Timeout and cancellation both force-stop the
// instance and confirm termination before returning.
func (r *Registry) awaitSync(ctx context.Context, inst *instance, done <-chan struct{}, timeout time.Duration) (RunResult, error) {
	var timeoutC <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		timeoutC = timer.C
	}

	select {
	case <-done:
		return r.runResult(inst, false), nil
	case <-timeoutC:
		if _, err := r.Stop(context.Background(), inst.id); err != nil {
			return RunResult{}, err
		}
		r.logger.Warn("pipeline run timed out", "id", inst.id, "timeout", timeout)
		return r.runResult(inst, true), nil
	case <-ctx.Done():
		if _, err := r.Stop(context.Background(), inst.id); err != nil {
			return RunResult{}, err
		}
		return r.runResult(inst, false), ctx.Err()
	}
}

func (r *Registry) runResult(inst *instance, timedOut bool) RunResult {
	inst.mu.Lock()
	defer inst.mu.Unlock()

	result := RunResult{
		ID:       inst.id,
		State:    inst.state,
		TimedOut: timedOut,
		Elapsed:  inst.elapsedLocked(),
	}
	if inst.lastErr != nil {
		result.Error = inst.lastErr.Error()
	}
	return result
}

// monitor polls the handle until a terminal state or cancellation. It is the
// only goroutine that calls the handle after Start, so engine calls for one
// handle never overlap.
func (r *Registry) monitor(ctx context.Context, inst *instance) {
	defer close(inst.done)

	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			inst.mu.Lock()
			if err := inst.handle.Stop(); err != nil {
				r.logger.Warn("engine stop failed", "id", inst.id, "error", err)
			}
			if inst.state.Terminal() {
				inst.mu.Unlock()
				return
			}
			from := inst.state
			r.finalizeLocked(inst, StateStopped, nil)
			inst.mu.Unlock()
			r.publish(inst, from, StateStopped, nil)
			return

		case <-ticker.C:
			inst.mu.Lock()
			if inst.state.Terminal() {
				inst.mu.Unlock()
				return
			}
			poll := inst.handle.Poll()
			inst.appendMessagesLocked(poll.Messages)
			inst.position = poll.Position

			switch poll.State {
			case PollCompleted:
				from := inst.state
				r.finalizeLocked(inst, StateCompleted, nil)
				inst.mu.Unlock()
				r.publish(inst, from, StateCompleted, nil)
				return
			case PollError:
				from := inst.state
				r.finalizeLocked(inst, StateError, poll.Err)
				inst.mu.Unlock()
				r.publish(inst, from, StateError, poll.Err)
				return
			default:
				inst.mu.Unlock()
			}
		}
	}
}

// finalizeLocked records a terminal state; callers hold inst.mu
func (r *Registry) finalizeLocked(inst *instance, to State, cause error) {
	inst.state = to
	inst.lastErr = cause
	inst.finished = time.Now()
	if r.metrics != nil {
		r.metrics.RecordRunFinished(string(to), inst.finished.Sub(inst.started).Seconds())
	}
	r.logger.Info("pipeline finished", "id", inst.id, "state", to, "error", cause)
}

// Status returns a snapshot of one instance. It never blocks behind another
// instance's work.
func (r *Registry) Status(id string) (Status, error) {
	inst, err := r.get(id, "Status")
	if err != nil {
		return Status{}, err
	}

	inst.mu.Lock()
	defer inst.mu.Unlock()

	status := Status{
		ID:          inst.id,
		Description: inst.desc.Text,
		State:       inst.state,
		Created:     inst.created,
		Elapsed:     inst.elapsedLocked(),
		Position:    inst.position,
		Messages:    append([]Message(nil), inst.messages...),
	}
	if inst.lastErr != nil {
		status.Error = inst.lastErr.Error()
	}
	return status, nil
}

// Pause transitions a running instance to paused
func (r *Registry) Pause(id string) error {
	return r.suspendResume(id, "Pause", StatePaused, func(h Handle) error { return h.Pause() })
}

// Resume transitions a paused instance back to running
func (r *Registry) Resume(id string) error {
	return r.suspendResume(id, "Resume", StateRunning, func(h Handle) error { return h.Resume() })
}

func (r *Registry) suspendResume(id, op string, to State, apply func(Handle) error) error {
	inst, err := r.get(id, op)
	if err != nil {
		return err
	}

	inst.mu.Lock()
	defer inst.mu.Unlock()

	if !inst.state.CanTransition(to) {
		return errors.WrapInvalid(
			fmt.Errorf("%w: %s -> %s", errors.ErrInvalidTransition, inst.state, to),
			"Registry", op,
			fmt.Sprintf("instance %s is %s", id, inst.state))
	}
	if err := apply(inst.handle); err != nil {
		return errors.WrapTransient(err, "Registry", op, "retry the operation")
	}
	from := inst.state
	inst.state = to
	r.logger.Info("pipeline state changed", "id", id, "from", from, "to", to)
	go r.publish(inst, from, to, nil)
	return nil
}

// Stop transitions any non-terminal instance to stopped and confirms the
// execution handle has terminated before returning. Stopping an instance
// that is already terminal is a no-op success.
func (r *Registry) Stop(ctx context.Context, id string) (StopResult, error) {
	inst, err := r.get(id, "Stop")
	if err != nil {
		return StopResult{}, err
	}

	inst.mu.Lock()
	if inst.state.Terminal() {
		result := StopResult{ID: id, State: inst.state, AlreadyTerminal: true}
		inst.mu.Unlock()
		return result, nil
	}
	if inst.state == StateBuilt {
		// never started, nothing to cancel
		if err := inst.handle.Stop(); err != nil {
			r.logger.Warn("engine stop failed", "id", id, "error", err)
		}
		inst.state = StateStopped
		inst.finished = time.Now()
		inst.mu.Unlock()
		r.publish(inst, StateBuilt, StateStopped, nil)
		return StopResult{ID: id, State: StateStopped}, nil
	}
	cancel := inst.cancel
	done := inst.done
	inst.mu.Unlock()

	cancel()
	select {
	case <-done:
	case <-ctx.Done():
		return StopResult{}, errors.WrapTransient(ctx.Err(), "Registry", "Stop",
			"pipeline termination was not confirmed in time")
	}

	inst.mu.Lock()
	result := StopResult{ID: id, State: inst.state}
	inst.mu.Unlock()
	return result, nil
}

// List returns a consistent point-in-time snapshot of all instances,
// ordered by creation time then id
func (r *Registry) List() []Summary {
	r.mu.RLock()
	instances := make([]*instance, 0, len(r.instances))
	for _, inst := range r.instances {
		instances = append(instances, inst)
	}
	r.mu.RUnlock()

	summaries := make([]Summary, 0, len(instances))
	for _, inst := range instances {
		inst.mu.Lock()
		summaries = append(summaries, Summary{
			ID:          inst.id,
			State:       inst.state,
			Description: inst.desc.Text,
			Created:     inst.created,
		})
		inst.mu.Unlock()
	}
	sort.Slice(summaries, func(i, j int) bool {
		if !summaries[i].Created.Equal(summaries[j].Created) {
			return summaries[i].Created.Before(summaries[j].Created)
		}
		return summaries[i].ID < summaries[j].ID
	})
	return summaries
}

// Shutdown force-stops every non-terminal instance and discards the registry
// state. No execution handle outlives this call.
func (r *Registry) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	r.shuttingDown = true
	instances := make([]*instance, 0, len(r.instances))
	for _, inst := range r.instances {
		instances = append(instances, inst)
	}
	r.mu.Unlock()

	var firstErr error
	for _, inst := range instances {
		if _, err := r.Stop(ctx, inst.id); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	r.mu.Lock()
	r.instances = make(map[string]*instance)
	r.mu.Unlock()

	r.logger.Info("pipeline registry shut down", "stopped", len(instances))
	return firstErr
}

func (r *Registry) get(id, op string) (*instance, error) {
	r.mu.RLock()
	inst, ok := r.instances[id]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.WrapInvalid(
			fmt.Errorf("%w: %s", errors.ErrInstanceNotFound, id),
			"Registry", op,
			"list pipelines to discover live instance ids")
	}
	return inst, nil
}

// publish delivers a state-change event; failures are logged, never surfaced
func (r *Registry) publish(inst *instance, from, to State, cause error) {
	if r.publisher == nil {
		return
	}
	change := events.StateChange{
		InstanceID:  inst.id,
		Description: inst.desc.Text,
		From:        string(from),
		To:          string(to),
		Timestamp:   time.Now(),
	}
	if cause != nil {
		change.Error = cause.Error()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := r.publisher.PublishStateChange(ctx, change); err != nil {
		r.logger.Warn("state change publish failed", "id", inst.id, "error", err)
	}
}

func (inst *instance) elapsedLocked() time.Duration {
	if inst.started.IsZero() {
		return 0
	}
	if !inst.finished.IsZero() {
		return inst.finished.Sub(inst.started)
	}
	return time.Since(inst.started)
}

func (inst *instance) appendMessagesLocked(msgs []Message) {
	inst.messages = append(inst.messages, msgs...)
	if len(inst.messages) > maxMessages {
		inst.messages = inst.messages[len(inst.messages)-maxMessages:]
	}
}
