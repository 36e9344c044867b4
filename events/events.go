// Package events publishes pipeline state transitions to NATS so external
// observers can follow instance lifecycles without polling the registry.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/c360/pipewright/errors"
)

// StateChange is the payload published on every instance transition
type StateChange struct {
	InstanceID  string    `json:"instance_id"`
	Description string    `json:"description"`
	From        string    `json:"from"`
	To          string    `json:"to"`
	Error       string    `json:"error,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// Publisher delivers state-change events. Implementations must tolerate
// being called concurrently from multiple instance monitors.
type Publisher interface {
	PublishStateChange(ctx context.Context, change StateChange) error
	Close()
}

// NATSPublisher publishes state changes as JSON on per-instance subjects
type NATSPublisher struct {
	conn          *nats.Conn
	subjectPrefix string
	logger        *slog.Logger
}

// NewNATSPublisher connects to NATS and returns a publisher. The subject for
// an instance is "<prefix>.pipeline.<id>".
func NewNATSPublisher(url, subjectPrefix string, logger *slog.Logger) (*NATSPublisher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if subjectPrefix == "" {
		subjectPrefix = "pipewright"
	}

	conn, err := nats.Connect(url,
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.Timeout(5*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("NATS disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, errors.WrapTransient(err, "NATSPublisher", "NewNATSPublisher",
			fmt.Sprintf("check that a NATS server is reachable at %s", url))
	}

	return &NATSPublisher{
		conn:          conn,
		subjectPrefix: subjectPrefix,
		logger:        logger,
	}, nil
}

// PublishStateChange publishes one transition. Publish failures are returned
// to the caller but must never affect the instance lifecycle itself.
func (p *NATSPublisher) PublishStateChange(_ context.Context, change StateChange) error {
	payload, err := json.Marshal(change)
	if err != nil {
		return errors.WrapInvalid(err, "NATSPublisher", "PublishStateChange",
			"state change payload could not be encoded")
	}

	subject := fmt.Sprintf("%s.pipeline.%s", p.subjectPrefix, change.InstanceID)
	if err := p.conn.Publish(subject, payload); err != nil {
		return errors.WrapTransient(err, "NATSPublisher", "PublishStateChange",
			"retry once the NATS connection recovers")
	}
	return nil
}

// Close drains the connection, flushing pending publishes
func (p *NATSPublisher) Close() {
	if err := p.conn.Drain(); err != nil {
		p.logger.Warn("NATS drain failed", "error", err)
	}
}
