// Package simengine is an in-process execution engine. It models buffer flow
// with wall-clock time instead of moving real media: bounded sources complete
// after their buffer budget, live sources run until stopped, and error
// injection is driven by the error-after property.
package simengine

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/c360/pipewright/errors"
	"github.com/c360/pipewright/launch"
	"github.com/c360/pipewright/pipeline"
)

// defaultBufferInterval is the simulated wall-clock cost of one buffer
const defaultBufferInterval = 10 * time.Millisecond

// Engine builds simulated execution handles from parsed descriptors
type Engine struct {
	bufferInterval time.Duration
}

// Option configures an Engine
type Option func(*Engine)

// WithBufferInterval overrides the simulated per-buffer duration
func WithBufferInterval(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.bufferInterval = d
		}
	}
}

// New creates a simulation engine
func New(opts ...Option) *Engine {
	e := &Engine{bufferInterval: defaultBufferInterval}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Build derives an execution plan from the descriptor's properties.
// A num-buffers assignment bounds the run; error-after injects a failure.
func (e *Engine) Build(_ context.Context, desc launch.Descriptor) (pipeline.Handle, error) {
	if len(desc.Nodes) == 0 {
		return nil, errors.WrapInvalid(
			fmt.Errorf("descriptor has no elements"),
			"Engine", "Build", "parse a non-empty pipeline description first")
	}

	h := &handle{
		interval:   e.bufferInterval,
		total:      -1,
		errorAfter: -1,
	}
	for _, node := range desc.Nodes {
		if raw, ok := node.Property("num-buffers"); ok {
			n, err := strconv.Atoi(raw)
			if err != nil {
				return nil, errors.WrapInvalid(
					fmt.Errorf("%w: num-buffers=%q on %s", errors.ErrInvalidData, raw, node.Alias),
					"Engine", "Build", "num-buffers must be an integer")
			}
			if n >= 0 && (h.total < 0 || n < h.total) {
				h.total = n
			}
		}
		if raw, ok := node.Property("error-after"); ok {
			n, err := strconv.Atoi(raw)
			if err != nil {
				return nil, errors.WrapInvalid(
					fmt.Errorf("%w: error-after=%q on %s", errors.ErrInvalidData, raw, node.Alias),
					"Engine", "Build", "error-after must be an integer")
			}
			if n >= 0 && (h.errorAfter < 0 || n < h.errorAfter) {
				h.errorAfter = n
				h.errorSource = node.Alias
			}
		}
	}
	return h, nil
}

type handle struct {
	interval    time.Duration
	total       int // buffers until natural completion, -1 = unbounded
	errorAfter  int // buffers until injected failure, -1 = never
	errorSource string

	mu          sync.Mutex
	state       pipeline.PollState
	started     time.Time
	pausedAt    time.Time
	pausedTotal time.Duration
	pending     []pipeline.Message
	finalErr    error
}

func (h *handle) Start(_ context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.started.IsZero() {
		return fmt.Errorf("handle already started")
	}
	h.state = pipeline.PollRunning
	h.started = time.Now()
	h.emit("info", "pipeline preroll complete, entering playing state")
	return nil
}

func (h *handle) Pause() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state != pipeline.PollRunning {
		return fmt.Errorf("cannot pause handle in state %s", h.state)
	}
	h.state = pipeline.PollPaused
	h.pausedAt = time.Now()
	h.emit("info", "pipeline paused")
	return nil
}

func (h *handle) Resume() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state != pipeline.PollPaused {
		return fmt.Errorf("cannot resume handle in state %s", h.state)
	}
	h.pausedTotal += time.Since(h.pausedAt)
	h.pausedAt = time.Time{}
	h.state = pipeline.PollRunning
	h.emit("info", "pipeline resumed")
	return nil
}

func (h *handle) Stop() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.emit("info", "pipeline stopped")
	return nil
}

func (h *handle) Poll() pipeline.Poll {
	h.mu.Lock()
	defer h.mu.Unlock()

	position := h.positionLocked()
	if h.state == pipeline.PollRunning {
		buffers := int(position / h.interval)
		if h.errorAfter >= 0 && buffers >= h.errorAfter {
			h.state = pipeline.PollError
			h.finalErr = fmt.Errorf("internal data stream error from %s after %d buffers", h.errorSource, h.errorAfter)
			h.emit("error", h.finalErr.Error())
		} else if h.total >= 0 && buffers >= h.total {
			h.state = pipeline.PollCompleted
			h.emit("info", "end of stream")
		}
	}

	poll := pipeline.Poll{
		State:    h.state,
		Err:      h.finalErr,
		Position: position,
		Messages: h.pending,
	}
	h.pending = nil
	return poll
}

// positionLocked is elapsed running time, with paused stretches excluded
func (h *handle) positionLocked() time.Duration {
	if h.started.IsZero() {
		return 0
	}
	position := time.Since(h.started) - h.pausedTotal
	if !h.pausedAt.IsZero() {
		position -= time.Since(h.pausedAt)
	}
	if position < 0 {
		position = 0
	}
	return position
}

func (h *handle) emit(level, text string) {
	h.pending = append(h.pending, pipeline.Message{
		Time:  time.Now(),
		Level: level,
		Text:  text,
	})
}
