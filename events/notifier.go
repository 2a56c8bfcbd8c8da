// Package events publishes pool role transitions to Kafka, adapting
// monitor.Sink onto kafka/producer.Producer the way the teacher wires
// its own domain events (kafka/producer.Producer.Produce plus the
// fire-and-forget callback style used throughout the teacher's Kafka
// package). Not part of the original hasql library: hasql only exposes
// promote/demote/drop as Python asyncio events for in-process
// observers, but a production deployment behind a message bus wants
// those transitions externally visible, which this supplements.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/242617/hasql/driver"
	"github.com/242617/hasql/kafka"
	"github.com/242617/hasql/kafka/producer"
	"github.com/242617/hasql/monitor"
	"github.com/242617/hasql/protocol"
)

// Transition identifies the kind of role change a Notifier publishes.
type Transition string

const (
	TransitionPromoted Transition = "promoted"
	TransitionDemoted  Transition = "demoted"
	TransitionLost     Transition = "lost"
)

// Event is the JSON payload published for every role transition.
type Event struct {
	DSN        string     `json:"dsn"`
	Transition Transition `json:"transition"`
	At         time.Time  `json:"at"`
}

// Notifier implements monitor.Sink by publishing each transition as a
// Kafka message, keyed by the host's redacted DSN so all events for one
// host land on the same partition.
type Notifier struct {
	producer *producer.Producer
	log      protocol.Logger
	now      func() time.Time
}

var _ monitor.Sink = (*Notifier)(nil)

// NewNotifier wraps an already-started producer.Producer.
func NewNotifier(p *producer.Producer, log protocol.Logger) *Notifier {
	if log == nil {
		log = protocol.NopLogger{}
	}
	return &Notifier{producer: p, log: log, now: time.Now}
}

func (n *Notifier) publish(dsn string, transition Transition) {
	event := Event{DSN: dsn, Transition: transition, At: n.timestamp()}

	payload, err := json.Marshal(event)
	if err != nil {
		n.log.Error(context.Background(), "marshal pool event failed", "dsn", dsn, "error", err)
		return
	}

	n.producer.Produce(context.Background(), kafka.Message{
		Key:   []byte(dsn),
		Value: payload,
	}, func(_ *kafka.Message, err error) {
		if err != nil {
			n.log.Warn(context.Background(), "publish pool event failed",
				"dsn", dsn, "transition", transition, "error", err)
		}
	})
}

func (n *Notifier) timestamp() time.Time {
	if n.now != nil {
		return n.now()
	}
	return time.Now()
}

// PoolPromoted implements monitor.Sink.
func (n *Notifier) PoolPromoted(dsn string, _ driver.Pool) { n.publish(dsn, TransitionPromoted) }

// PoolDemoted implements monitor.Sink.
func (n *Notifier) PoolDemoted(dsn string, _ driver.Pool) { n.publish(dsn, TransitionDemoted) }

// PoolLost implements monitor.Sink.
func (n *Notifier) PoolLost(dsn string, _ driver.Pool) { n.publish(dsn, TransitionLost) }
