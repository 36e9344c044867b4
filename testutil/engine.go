// Package testutil provides scripted doubles for package tests.
package testutil

import (
	"context"
	"sync"

	"github.com/c360/pipewright/launch"
	"github.com/c360/pipewright/pipeline"
)

// Engine is a scripted execution engine. Each Build hands out a fresh Handle
// carrying the configured errors and poll script.
type Engine struct {
	mu sync.Mutex

	// BuildErr fails every Build call when set
	BuildErr error
	// StartErr is copied onto every handle
	StartErr error
	// Polls is the poll script copied onto every handle
	Polls []pipeline.Poll

	built   []launch.Descriptor
	handles []*Handle
}

// Build records the descriptor and returns a scripted handle
func (e *Engine) Build(_ context.Context, desc launch.Descriptor) (pipeline.Handle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.BuildErr != nil {
		return nil, e.BuildErr
	}
	h := &Handle{
		StartErr: e.StartErr,
		polls:    append([]pipeline.Poll(nil), e.Polls...),
	}
	e.built = append(e.built, desc)
	e.handles = append(e.handles, h)
	return h, nil
}

// Built returns the descriptors passed to Build, in order
func (e *Engine) Built() []launch.Descriptor {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]launch.Descriptor(nil), e.built...)
}

// Handles returns every handle Build produced, in order
func (e *Engine) Handles() []*Handle {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]*Handle(nil), e.handles...)
}

// Handle replays a scripted poll sequence. When the script runs out the last
// poll repeats; an empty script reports running forever.
type Handle struct {
	StartErr  error
	PauseErr  error
	ResumeErr error
	StopErr   error

	mu    sync.Mutex
	polls []pipeline.Poll
	calls []string
}

// Start replays the configured start error
func (h *Handle) Start(_ context.Context) error {
	h.record("start")
	return h.StartErr
}

// Pause replays the configured pause error
func (h *Handle) Pause() error {
	h.record("pause")
	return h.PauseErr
}

// Resume replays the configured resume error
func (h *Handle) Resume() error {
	h.record("resume")
	return h.ResumeErr
}

// Stop replays the configured stop error
func (h *Handle) Stop() error {
	h.record("stop")
	return h.StopErr
}

// Poll consumes the next scripted poll
func (h *Handle) Poll() pipeline.Poll {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.calls = append(h.calls, "poll")
	if len(h.polls) == 0 {
		return pipeline.Poll{State: pipeline.PollRunning}
	}
	next := h.polls[0]
	if len(h.polls) > 1 {
		h.polls = h.polls[1:]
	}
	return next
}

// Calls returns the handle method invocations in order
func (h *Handle) Calls() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.calls...)
}

func (h *Handle) record(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = append(h.calls, name)
}
