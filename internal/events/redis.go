package events

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/janakural/internal/models"
)

// StreamConfig names the streams and consumer group used by the Redis backend.
type StreamConfig struct {
	IssueStream        string
	NotificationStream string
	ConsumerGroup      string
	ConsumerName       string
	BlockTimeout       time.Duration
	// BatchSize is the maximum number of entries read per XREADGROUP call.
	BatchSize int64
}

// RedisPublisher appends created records to Redis Streams.
type RedisPublisher struct {
	client *redis.Client
	cfg    StreamConfig
}

// NewRedisPublisher 创建 Redis Streams 事件发布器
func NewRedisPublisher(client *redis.Client, cfg StreamConfig) *RedisPublisher {
	return &RedisPublisher{client: client, cfg: cfg}
}

// PublishIssueCreated adds issue to the issue stream.
func (p *RedisPublisher) PublishIssueCreated(ctx context.Context, issue *models.Issue) error {
	return p.publish(ctx, p.cfg.IssueStream, issue.ID, issue)
}

// PublishNotificationCreated adds notification to the notification stream.
func (p *RedisPublisher) PublishNotificationCreated(ctx context.Context, notification *models.Notification) error {
	return p.publish(ctx, p.cfg.NotificationStream, notification.ID, notification)
}

func (p *RedisPublisher) publish(ctx context.Context, stream, id string, record interface{}) error {
	values, err := encodeRecord(id, record)
	if err != nil {
		return err
	}
	if err := p.client.XAdd(ctx, &redis.XAddArgs{Stream: stream, Values: values}).Err(); err != nil {
		return fmt.Errorf("xadd %s: %w", stream, err)
	}
	return nil
}

// Consumer reads both streams through a consumer group and dispatches
// entries to the handlers. Entries are acknowledged only after the handler
// succeeds; malformed entries are acknowledged and dropped.
type Consumer struct {
	client              *redis.Client
	cfg                 StreamConfig
	issueHandler        IssueCreatedHandler
	notificationHandler NotificationCreatedHandler
	logger              *zap.Logger
}

// NewConsumer 创建 Redis Streams 事件消费者
func NewConsumer(client *redis.Client, cfg StreamConfig, issueHandler IssueCreatedHandler, notificationHandler NotificationCreatedHandler, logger *zap.Logger) *Consumer {
	if cfg.BlockTimeout <= 0 {
		cfg.BlockTimeout = 5 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 10
	}
	return &Consumer{
		client:              client,
		cfg:                 cfg,
		issueHandler:        issueHandler,
		notificationHandler: notificationHandler,
		logger:              logger,
	}
}

// Run consumes until ctx is cancelled. Pending entries left by an earlier
// run of the same consumer name are processed first.
func (c *Consumer) Run(ctx context.Context) error {
	streams := []string{c.cfg.IssueStream, c.cfg.NotificationStream}
	for _, stream := range streams {
		if err := c.ensureGroup(ctx, stream); err != nil {
			return err
		}
	}

	if err := c.drain(ctx); err != nil && ctx.Err() == nil {
		return err
	}

	c.logger.Info("Event consumer started",
		zap.Strings("streams", streams),
		zap.String("group", c.cfg.ConsumerGroup),
		zap.String("consumer", c.cfg.ConsumerName),
	)

	for {
		if ctx.Err() != nil {
			return nil
		}
		if _, _, err := c.readOnce(ctx, streams, ">"); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.logger.Error("Failed to read event streams", zap.Error(err))
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(time.Second):
			}
		}
	}
}

func (c *Consumer) ensureGroup(ctx context.Context, stream string) error {
	err := c.client.XGroupCreateMkStream(ctx, stream, c.cfg.ConsumerGroup, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("create consumer group on %s: %w", stream, err)
	}
	return nil
}

// drain replays entries delivered to this consumer but never acknowledged.
func (c *Consumer) drain(ctx context.Context) error {
	for _, stream := range []string{c.cfg.IssueStream, c.cfg.NotificationStream} {
		start := "0"
		for {
			last, n, err := c.readOnce(ctx, []string{stream}, start)
			if err != nil {
				return err
			}
			if n == 0 {
				break
			}
			start = last
		}
	}
	return nil
}

// readOnce reads one batch from streams, starting after start for each, and
// returns the last entry id seen and how many entries it handled.
func (c *Consumer) readOnce(ctx context.Context, streams []string, start string) (string, int, error) {
	keys := append([]string{}, streams...)
	for range streams {
		keys = append(keys, start)
	}
	args := &redis.XReadGroupArgs{
		Group:    c.cfg.ConsumerGroup,
		Consumer: c.cfg.ConsumerName,
		Streams:  keys,
		Count:    c.cfg.BatchSize,
		Block:    c.cfg.BlockTimeout,
	}
	if start != ">" {
		// 读取挂起消息时不需要阻塞
		args.Block = -1
	}

	result, err := c.client.XReadGroup(ctx, args).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", 0, nil
		}
		return "", 0, err
	}

	last := ""
	handled := 0
	for _, stream := range result {
		for _, msg := range stream.Messages {
			handled++
			last = msg.ID
			if c.handle(ctx, stream.Stream, msg) {
				if err := c.client.XAck(ctx, stream.Stream, c.cfg.ConsumerGroup, msg.ID).Err(); err != nil {
					c.logger.Error("Failed to ack event", zap.String("stream", stream.Stream), zap.String("entry_id", msg.ID), zap.Error(err))
				}
			}
		}
	}
	return last, handled, nil
}

// handle dispatches one entry and reports whether it should be acknowledged.
func (c *Consumer) handle(ctx context.Context, stream string, msg redis.XMessage) bool {
	switch stream {
	case c.cfg.IssueStream:
		issue, err := decodeIssue(msg.Values)
		if err != nil {
			c.logger.Warn("Dropping malformed issue event", zap.String("entry_id", msg.ID), zap.Error(err))
			return true
		}
		if c.issueHandler != nil {
			c.issueHandler.HandleIssueCreated(ctx, issue)
		}
		return true
	case c.cfg.NotificationStream:
		notification, err := decodeNotification(msg.Values)
		if err != nil {
			c.logger.Warn("Dropping malformed notification event", zap.String("entry_id", msg.ID), zap.Error(err))
			return true
		}
		if c.notificationHandler == nil {
			return true
		}
		if err := c.notificationHandler.HandleNotificationCreated(ctx, notification); err != nil {
			c.logger.Error("Notification handler failed, leaving event pending",
				zap.String("entry_id", msg.ID),
				zap.String("notification_id", notification.ID),
				zap.Error(err),
			)
			return false
		}
		return true
	default:
		c.logger.Warn("Event from unknown stream", zap.String("stream", stream), zap.String("entry_id", msg.ID))
		return true
	}
}
