package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"nftrelay/internal/config"
	"nftrelay/internal/constants"
	"nftrelay/internal/logger"
	"nftrelay/pkg/logging"
	"nftrelay/pkg/metrics"
	"nftrelay/pkg/models"
	"nftrelay/pkg/retry"
	"nftrelay/pkg/tracing"
)

func connectNATS(cfg config.NATSConfig, name string, log logger.Logger) (*nats.Conn, error) {
	url := cfg.URL
	if url == "" {
		url = nats.DefaultURL
	}

	nc, err := nats.Connect(url,
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warnw("NATS disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Infow("NATS reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", url, err)
	}
	return nc, nil
}

type NATSProducer struct {
	nc     *nats.Conn
	logger logger.Logger
}

func NewNATSProducer(cfg config.NATSConfig, log logger.Logger) (*NATSProducer, error) {
	nc, err := connectNATS(cfg, "relay-producer", log)
	if err != nil {
		return nil, err
	}
	return &NATSProducer{nc: nc, logger: log}, nil
}

func (p *NATSProducer) Publish(ctx context.Context, subject string, msg models.MessageEnvelope) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	out := nats.NewMsg(subject)
	out.Data = body
	out.Header.Set("Nats-Msg-Id", msg.ID)
	tracing.InjectNATSHeaders(ctx, out.Header)

	start := time.Now()
	err = p.nc.PublishMsg(out)
	metrics.ObserveBrokerWriteDuration(constants.BrokerNATS, subject, time.Since(start))
	if err != nil {
		return fmt.Errorf("failed to publish nats message: %w", err)
	}

	metrics.IncBrokerMessagesWritten(constants.BrokerNATS, subject)
	return nil
}

func (p *NATSProducer) Close() error {
	if err := p.nc.Drain(); err != nil {
		p.nc.Close()
		return err
	}
	return nil
}

type NATSConsumer struct {
	cfg         config.NATSConfig
	nc          *nats.Conn
	logger      logger.Logger
	serviceName string
}

func NewNATSConsumer(cfg config.NATSConfig, log logger.Logger) (*NATSConsumer, error) {
	nc, err := connectNATS(cfg, "relay-consumer", log)
	if err != nil {
		return nil, err
	}
	return &NATSConsumer{
		cfg:         cfg,
		nc:          nc,
		logger:      log,
		serviceName: "unknown",
	}, nil
}

func (c *NATSConsumer) SetServiceName(name string) {
	c.serviceName = name
}

// Consume joins the configured queue group so that several relay instances
// share the command stream. Messages are handled one at a time.
func (c *NATSConsumer) Consume(ctx context.Context, subject string, handler HandlerFunc) error {
	consumeCtx := logging.WithServiceName(ctx, c.serviceName)
	policy := retryPolicy(c.cfg.Retry)

	msgs := make(chan *nats.Msg, 64)
	sub, err := c.nc.ChanQueueSubscribe(subject, c.cfg.QueueGroup, msgs)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", subject, err)
	}
	defer sub.Unsubscribe()

	c.logger.InfowCtx(consumeCtx, "Started consuming",
		"subject", subject,
		"queue_group", c.cfg.QueueGroup,
	)

	for {
		select {
		case <-ctx.Done():
			c.logger.InfowCtx(consumeCtx, "Stopped consuming",
				"subject", subject,
				"reason", "context canceled",
			)
			return ctx.Err()
		case m := <-msgs:
			metrics.IncBrokerMessagesRead(constants.BrokerNATS, subject)
			c.process(ctx, m, policy, subject, handler)
		}
	}
}

func (c *NATSConsumer) process(ctx context.Context, m *nats.Msg, policy retry.Policy, subject string, handler HandlerFunc) {
	var envelope models.MessageEnvelope
	if err := json.Unmarshal(m.Data, &envelope); err != nil {
		c.logger.ErrorwCtx(ctx, "Failed to unmarshal message",
			"error", err,
			"subject", subject,
		)
		return
	}

	msgCtx, span := tracing.StartSpanFromNATSMessage(ctx, "nats.consume", m.Header)
	defer span.End()

	if envelope.Metadata.TraceID != "" {
		msgCtx = logging.WithTraceID(msgCtx, envelope.Metadata.TraceID)
	}
	msgCtx = logging.WithServiceName(msgCtx, c.serviceName)

	if err := handleWithRetry(msgCtx, c.logger, policy, c.serviceName, subject, envelope, handler); err != nil {
		c.logger.ErrorwCtx(msgCtx, "Failed to process message after retries, dropping it",
			"error", err,
			"subject", subject,
			"message_id", envelope.ID,
		)
	}
}

func (c *NATSConsumer) Close() error {
	if err := c.nc.Drain(); err != nil {
		c.nc.Close()
		return err
	}
	return nil
}
