package nats

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
	"vize-dostu/internal/config"
	"vize-dostu/internal/core/domain"
	"vize-dostu/internal/core/port"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

func connect(cfg config.NATSConfig, name string, logger *slog.Logger) (*nats.Conn, jetstream.JetStream, error) {
	opts := []nats.Option{
		nats.Name(name),
		nats.ReconnectWait(2 * time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.Warn("NATS disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected", "url", nc.ConnectedUrl())
		}),
	}
	conn, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("failed to connect to JetStream: %w", err)
	}
	return conn, js, nil
}

// ensureStream creates the job stream or updates its subjects
func ensureStream(ctx context.Context, js jetstream.JetStream, cfg config.NATSConfig) error {
	_, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:      cfg.StreamName,
		Subjects:  []string{subjectFilter(cfg)},
		Retention: jetstream.WorkQueuePolicy,
		Storage:   jetstream.FileStorage,
	})
	if err != nil {
		return fmt.Errorf("failed to ensure stream %s: %w", cfg.StreamName, err)
	}
	return nil
}

func subjectFilter(cfg config.NATSConfig) string {
	return cfg.SubjectPrefix + ".>"
}

// Subject returns the subject a job is published on
func Subject(cfg config.NATSConfig, name domain.JobName) string {
	return cfg.SubjectPrefix + "." + string(name)
}

// Publisher publishes jobs on the JetStream job stream
type Publisher struct {
	logger *slog.Logger
	conn   *nats.Conn
	js     jetstream.JetStream
	config config.NATSConfig
}

// NewNATSPublisher connects and makes sure the job stream exists
func NewNATSPublisher(ctx context.Context, cfg config.NATSConfig, logger *slog.Logger) (*Publisher, error) {
	conn, js, err := connect(cfg, cfg.ConsumerName+"-publisher", logger)
	if err != nil {
		return nil, err
	}

	if err := ensureStream(ctx, js, cfg); err != nil {
		conn.Close()
		return nil, err
	}

	return &Publisher{conn: conn, js: js, config: cfg, logger: logger}, nil
}

// Enqueue publishes payload and waits for the stream acknowledgement
func (p *Publisher) Enqueue(ctx context.Context, name domain.JobName, payload []byte) error {
	subject := Subject(p.config, name)
	ack, err := p.js.Publish(ctx, subject, payload)
	if err != nil {
		return fmt.Errorf("failed to publish on %s: %w", subject, err)
	}
	p.logger.Debug("job published", "subject", subject, "stream", ack.Stream, "sequence", ack.Sequence)
	return nil
}

// Close drains pending publishes and closes the connection
func (p *Publisher) Close() error {
	if p.conn == nil {
		return nil
	}
	return p.conn.Drain()
}

// Consumer is a struct to interact with nats
type Consumer struct {
	logger *slog.Logger
	conn   *nats.Conn
	js     jetstream.JetStream
	config config.NATSConfig
	iter   jetstream.MessagesContext
	wg     sync.WaitGroup
}

// NewNATSConsumer creates a new consumer
func NewNATSConsumer(cfg config.NATSConfig, logger *slog.Logger) (*Consumer, error) {
	conn, js, err := connect(cfg, cfg.ConsumerName, logger)
	if err != nil {
		return nil, err
	}

	return &Consumer{
		conn:   conn,
		js:     js,
		config: cfg,
		logger: logger,
	}, nil
}

// Subscribe subscribes to stream and handles messages
func (n *Consumer) Subscribe(ctx context.Context, handler port.MessageService) error {
	if err := ensureStream(ctx, n.js, n.config); err != nil {
		return err
	}

	consumerCfg := jetstream.ConsumerConfig{
		Durable:       n.config.ConsumerName,
		AckPolicy:     jetstream.AckExplicitPolicy,
		FilterSubject: subjectFilter(n.config),
		AckWait:       30 * time.Second,
		DeliverGroup:  n.config.DeliverGroup,
		MaxDeliver:    n.config.MaxDeliver,
		BackOff:       n.config.RetryBackoff,
	}

	cons, err := n.js.CreateOrUpdateConsumer(ctx, n.config.StreamName, consumerCfg)
	if err != nil {
		return err
	}

	iter, err := cons.Messages()
	if err != nil {
		return err
	}
	n.iter = iter

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		n.logger.Info("NATS subscription started", "subject", consumerCfg.FilterSubject)
		for {
			select {
			case <-ctx.Done():
				n.logger.Info("NATS subscription stopped")
				return
			default:
				msg, err := iter.Next()
				if err != nil {
					if ctx.Err() != nil {
						n.logger.Warn("NATS subscription stopped")
						return
					}
					n.logger.Error("failed to receive message", "error", err)
					return
				}

				if handleErr := handler.HandleMessage(ctx, msg.Data()); handleErr != nil {
					errNak := n.nak(msg)
					if errNak != nil {
						n.logger.Error("failed to nak message", "error", errNak)
					}
					n.logger.Warn("failed to handle message", "subject", msg.Subject(), "error", handleErr)
					continue
				}
				ackErr := msg.Ack()
				if ackErr != nil {
					n.logger.Error("failed to ack message", "error", ackErr)
				}
			}
		}
	}()
	return nil
}

// nak asks for redelivery after the backoff step matching the delivery count
func (n *Consumer) nak(msg jetstream.Msg) error {
	meta, err := msg.Metadata()
	if err != nil {
		n.logger.Warn("failed to read message metadata", "error", err)
		return msg.Nak()
	}

	delay := retryDelay(n.config.RetryBackoff, meta.NumDelivered)
	if delay <= 0 {
		return msg.Nak()
	}
	return msg.NakWithDelay(delay)
}

// retryDelay returns the backoff step for the delivered-th attempt, the last step repeats
func retryDelay(backoff []time.Duration, delivered uint64) time.Duration {
	if len(backoff) == 0 {
		return 0
	}
	step := uint64(0)
	if delivered > 0 {
		step = delivered - 1
	}
	if last := uint64(len(backoff) - 1); step > last {
		step = last
	}
	return backoff[step]
}

// Close graceful shutdown
func (n *Consumer) Close() error {
	if n.iter != nil {
		n.iter.Stop()
	}

	n.wg.Wait()

	if n.conn != nil {
		n.conn.Close()
	}
	return nil
}
