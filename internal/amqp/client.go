package amqp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rabbitmq/amqp091-go"

	"fintrack/internal/log"
)

// Config describes the broker topology the client declares on connect.
type Config struct {
	URL           string
	Exchange      string
	ImportQueue   string
	ExportQueue   string
	PrefetchCount int
}

// Client wraps a single AMQP connection with one channel. The exchange is
// direct; each queue is bound with its own name as routing key.
type Client struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
	cfg     Config
	logger  *log.Logger
}

// NewClient dials the broker with exponential backoff, then declares the
// exchange and both queues. The context bounds the total retry time.
func NewClient(ctx context.Context, cfg Config, logger *log.Logger) (*Client, error) {
	logger = logger.WithComponent(log.ComponentAMQP)

	var conn *amqp091.Connection
	policy := backoff.WithContext(backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(time.Second),
		backoff.WithMaxInterval(30*time.Second),
		backoff.WithMaxElapsedTime(2*time.Minute),
	), ctx)

	dial := func() error {
		var err error
		conn, err = amqp091.Dial(cfg.URL)
		if err != nil {
			logger.Warn("AMQP dial failed, retrying", log.FieldError, err.Error())
			return err
		}
		return nil
	}
	if err := backoff.Retry(dial, policy); err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if cfg.PrefetchCount > 0 {
		if err := channel.Qos(cfg.PrefetchCount, 0, false); err != nil {
			channel.Close()
			conn.Close()
			return nil, fmt.Errorf("set QoS: %w", err)
		}
	}

	client := &Client{
		conn:    conn,
		channel: channel,
		cfg:     cfg,
		logger:  logger,
	}

	if err := client.setup(); err != nil {
		client.Close()
		return nil, fmt.Errorf("setup exchange and queues: %w", err)
	}

	return client, nil
}

func (c *Client) setup() error {
	err := c.channel.ExchangeDeclare(
		c.cfg.Exchange, // name
		"direct",       // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	for _, queue := range []string{c.cfg.ImportQueue, c.cfg.ExportQueue} {
		_, err = c.channel.QueueDeclare(
			queue, // name
			true,  // durable
			false, // delete when unused
			false, // exclusive
			false, // no-wait
			nil,   // arguments
		)
		if err != nil {
			return fmt.Errorf("declare queue %s: %w", queue, err)
		}

		err = c.channel.QueueBind(
			queue,          // queue name
			queue,          // routing key
			c.cfg.Exchange, // exchange
			false,
			nil,
		)
		if err != nil {
			return fmt.Errorf("bind queue %s: %w", queue, err)
		}
	}

	return nil
}

func (c *Client) publish(ctx context.Context, queue string, body []byte) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := c.channel.PublishWithContext(
		ctx,
		c.cfg.Exchange, // exchange
		queue,          // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish to %s: %w", queue, err)
	}
	return nil
}

// PublishStatementImport enqueues an import job for an uploaded statement.
func (c *Client) PublishStatementImport(ctx context.Context, statementID, userID string) error {
	body, err := NewStatementImportMessage(statementID, userID).ToJSON()
	if err != nil {
		return fmt.Errorf("marshal import message: %w", err)
	}
	if err := c.publish(ctx, c.cfg.ImportQueue, body); err != nil {
		return err
	}
	c.logger.InfoContext(ctx, "published statement import",
		log.FieldStatementID, statementID,
		log.FieldUserID, userID)
	return nil
}

// PublishTransactionExport enqueues an export job for a transaction batch.
func (c *Client) PublishTransactionExport(ctx context.Context, ids []string) error {
	body, err := NewTransactionExportMessage(ids).ToJSON()
	if err != nil {
		return fmt.Errorf("marshal export message: %w", err)
	}
	if err := c.publish(ctx, c.cfg.ExportQueue, body); err != nil {
		return err
	}
	c.logger.InfoContext(ctx, "published transaction export", "batch_size", len(ids))
	return nil
}

func (c *Client) consume(ctx context.Context, queue string, handle func(body []byte) error) error {
	msgs, err := c.channel.Consume(
		queue, // queue
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return fmt.Errorf("start consuming %s: %w", queue, err)
	}

	c.logger.InfoContext(ctx, "started consuming", "queue", queue)

	for {
		select {
		case <-ctx.Done():
			c.logger.InfoContext(ctx, "stopping consumption", "queue", queue, "reason", ctx.Err())
			return ctx.Err()
		case delivery, ok := <-msgs:
			if !ok {
				return errors.New("message channel closed")
			}

			if err := handle(delivery.Body); err != nil {
				requeue := isConnectionError(err)
				c.logger.ErrorContext(ctx, "message handling failed",
					log.FieldError, err.Error(),
					"queue", queue,
					"requeue", requeue)
				delivery.Nack(false, requeue)
				continue
			}

			delivery.Ack(false)
		}
	}
}

// ConsumeStatementImports delivers import messages to the handler until the
// context ends. Malformed payloads are rejected without requeue; handler
// errors requeue only when they look transient.
func (c *Client) ConsumeStatementImports(ctx context.Context, handler func(*StatementImportMessage) error) error {
	return c.consume(ctx, c.cfg.ImportQueue, func(body []byte) error {
		msg, err := StatementImportMessageFromJSON(body)
		if err != nil {
			c.logger.ErrorContext(ctx, "malformed import message", log.FieldError, err.Error())
			return nil // ack and drop, a retry cannot fix the payload
		}
		return handler(msg)
	})
}

// ConsumeTransactionExports delivers export messages to the handler until
// the context ends.
func (c *Client) ConsumeTransactionExports(ctx context.Context, handler func(*TransactionExportMessage) error) error {
	return c.consume(ctx, c.cfg.ExportQueue, func(body []byte) error {
		msg, err := TransactionExportMessageFromJSON(body)
		if err != nil {
			c.logger.ErrorContext(ctx, "malformed export message", log.FieldError, err.Error())
			return nil
		}
		return handler(msg)
	})
}

// isConnectionError reports whether the error looks like a transient
// network failure worth a requeue.
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, fragment := range []string{
		"connection refused",
		"connection closed",
		"connection reset",
		"broken pipe",
		"EOF",
		"use of closed network connection",
		"i/o timeout",
	} {
		if strings.Contains(msg, fragment) {
			return true
		}
	}
	return false
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
