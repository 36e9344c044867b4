package pipeline

import (
	"context"
	"time"

	"github.com/c360/pipewright/launch"
)

// PollState is the execution state reported by an engine handle
type PollState string

// Poll states
const (
	PollRunning   PollState = "running"
	PollPaused    PollState = "paused"
	PollCompleted PollState = "completed"
	PollError     PollState = "error"
)

// Message is one diagnostic line emitted by a running pipeline
type Message struct {
	Time  time.Time `json:"time"`
	Level string    `json:"level"`
	Text  string    `json:"text"`
}

// Poll is a snapshot of a handle's execution state. Messages contains only
// lines emitted since the previous Poll call.
type Poll struct {
	State    PollState
	Err      error
	Position time.Duration
	Messages []Message
}

// Handle is one built pipeline owned by exactly one registry entry. The
// registry sequences all calls on a handle; implementations are never called
// concurrently for the same handle.
type Handle interface {
	Start(ctx context.Context) error
	Pause() error
	Resume() error
	Stop() error
	Poll() Poll
}

// Engine turns parsed descriptors into execution handles
type Engine interface {
	Build(ctx context.Context, desc launch.Descriptor) (Handle, error)
}
