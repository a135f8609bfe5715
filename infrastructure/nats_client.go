package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"
)

// DomainEventStream stores every event exported under DomainSubjects
const DomainEventStream = "NEXUS_DOMAIN_EVENTS"

const (
	streamMaxAge = 72 * time.Hour
	// A publish retried after a lost ack carries the same event id and is dropped
	streamDuplicateWindow = 2 * time.Minute
	subscriberAckWait     = 30 * time.Second
)

// MessagePublisher exports raw envelopes. msgID deduplicates redeliveries.
type MessagePublisher interface {
	Publish(ctx context.Context, subject, msgID string, data []byte) error
}

// MessageSubscriber registers raw byte handlers on a subject
type MessageSubscriber interface {
	Subscribe(subject string, handler func([]byte) error) error
}

// NATSClient is the bot's JetStream connection. The bot publishes through it
// and the events command tails the stream with it.
type NATSClient struct {
	servers    string
	name       string
	deliverAll bool

	nc *nats.Conn
	js nats.JetStreamContext

	mu            sync.Mutex
	subscriptions []*nats.Subscription
}

// NewNATSClient creates a client that identifies itself to the server as name
func NewNATSClient(servers, name string) *NATSClient {
	return &NATSClient{servers: servers, name: name}
}

// ReplayFromStart makes later subscriptions deliver the retained stream
// instead of only events published after subscribing
func (c *NATSClient) ReplayFromStart() {
	c.deliverAll = true
}

// Connect dials the servers and opens a JetStream context
func (c *NATSClient) Connect(ctx context.Context) error {
	logger := log.WithField("client", c.name)

	nc, err := nats.Connect(c.servers,
		nats.Name(c.name),
		nats.MaxReconnects(10),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.WithError(err).Error("NATS disconnected with error")
				return
			}
			logger.Warn("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.WithField("url", nc.ConnectedUrlRedacted()).Info("NATS reconnected")
		}),
		nats.ErrorHandler(func(_ *nats.Conn, sub *nats.Subscription, err error) {
			entry := logger.WithError(err)
			if sub != nil {
				entry = entry.WithField("subject", sub.Subject)
			}
			entry.Error("NATS async error")
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to connect to NATS at %s: %w", c.servers, err)
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return fmt.Errorf("failed to create JetStream context: %w", err)
	}

	c.nc = nc
	c.js = js

	logger.WithField("servers", c.servers).Info("Connected to NATS with JetStream")
	return nil
}

// domainStreamConfig describes the stream that retains exported domain events
func domainStreamConfig() *nats.StreamConfig {
	return &nats.StreamConfig{
		Name:        DomainEventStream,
		Description: "Level-ups, balance changes, marriages and moderation actions",
		Subjects:    DomainSubjects(),
		Retention:   nats.LimitsPolicy,
		Discard:     nats.DiscardOld,
		MaxAge:      streamMaxAge,
		Duplicates:  streamDuplicateWindow,
		Storage:     nats.FileStorage,
		Replicas:    1,
	}
}

// subjectsChanged reports whether a stream must be updated to carry want
func subjectsChanged(current, want []string) bool {
	current = slices.Sorted(slices.Values(current))
	want = slices.Sorted(slices.Values(want))
	return !slices.Equal(current, want)
}

// EnsureDomainStream creates the domain event stream, or updates its subjects
// when a release added or renamed one
func (c *NATSClient) EnsureDomainStream() error {
	if c.js == nil {
		return errors.New("not connected to NATS JetStream")
	}

	want := domainStreamConfig()
	logger := log.WithField("stream", want.Name)

	info, err := c.js.StreamInfo(want.Name)
	switch {
	case errors.Is(err, nats.ErrStreamNotFound):
		if _, err := c.js.AddStream(want); err != nil {
			return fmt.Errorf("failed to create stream %s: %w", want.Name, err)
		}
		logger.WithField("subjects", want.Subjects).Info("Created domain event stream")
	case err != nil:
		return fmt.Errorf("failed to look up stream %s: %w", want.Name, err)
	case subjectsChanged(info.Config.Subjects, want.Subjects):
		if _, err := c.js.UpdateStream(want); err != nil {
			return fmt.Errorf("failed to update stream %s: %w", want.Name, err)
		}
		logger.WithFields(log.Fields{
			"old_subjects": info.Config.Subjects,
			"subjects":     want.Subjects,
		}).Info("Updated domain event stream subjects")
	default:
		logger.Debug("Domain event stream already up to date")
	}
	return nil
}

// Publish stores data on subject. JetStream drops a second message with the
// same msgID inside the duplicate window.
func (c *NATSClient) Publish(ctx context.Context, subject, msgID string, data []byte) error {
	if c.js == nil {
		return errors.New("not connected to NATS JetStream")
	}

	ack, err := c.js.Publish(subject, data, nats.MsgId(msgID))
	if err != nil {
		return fmt.Errorf("failed to publish message to subject %s: %w", subject, err)
	}

	log.WithFields(log.Fields{
		"subject":   subject,
		"msg_id":    msgID,
		"sequence":  ack.Sequence,
		"duplicate": ack.Duplicate,
		"size":      len(data),
	}).Debug("Published message to NATS")
	return nil
}

// Subscribe attaches an ephemeral consumer to subject. Each caller gets its own
// consumer, so two tails both see every event. A handler error naks the
// message for redelivery.
func (c *NATSClient) Subscribe(subject string, handler func([]byte) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.js == nil {
		return errors.New("not connected to NATS JetStream")
	}

	deliver := nats.DeliverNew()
	if c.deliverAll {
		deliver = nats.DeliverAll()
	}

	sub, err := c.js.Subscribe(subject, func(msg *nats.Msg) {
		if err := handler(msg.Data); err != nil {
			log.WithError(err).WithField("subject", subject).Error("Failed to process message")
			if nakErr := msg.Nak(); nakErr != nil {
				log.WithError(nakErr).Error("Failed to NAK message")
			}
			return
		}
		if ackErr := msg.Ack(); ackErr != nil {
			log.WithError(ackErr).Error("Failed to ACK message")
		}
	},
		nats.BindStream(DomainEventStream),
		deliver,
		nats.ManualAck(),
		nats.AckExplicit(),
		nats.MaxDeliver(3),
		nats.AckWait(subscriberAckWait),
	)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", subject, err)
	}

	c.subscriptions = append(c.subscriptions, sub)
	log.WithFields(log.Fields{
		"subject": subject,
		"stream":  DomainEventStream,
		"replay":  c.deliverAll,
		"client":  c.name,
	}).Info("Subscribed to NATS subject")
	return nil
}

// Close removes the ephemeral consumers and closes the connection
func (c *NATSClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, sub := range c.subscriptions {
		if err := sub.Unsubscribe(); err != nil {
			log.WithError(err).WithField("subject", sub.Subject).Error("Failed to unsubscribe")
		}
	}
	c.subscriptions = nil

	if c.nc != nil {
		c.nc.Close()
		log.WithField("client", c.name).Info("NATS connection closed")
	}
	return nil
}
