package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/janakural/internal/models"
)

type recordingHandler struct {
	mu            sync.Mutex
	issues        []*models.Issue
	notifications []*models.Notification
	failWith      error
}

func (h *recordingHandler) HandleIssueCreated(ctx context.Context, issue *models.Issue) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.issues = append(h.issues, issue)
}

func (h *recordingHandler) HandleNotificationCreated(ctx context.Context, notification *models.Notification) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.notifications = append(h.notifications, notification)
	return h.failWith
}

func (h *recordingHandler) counts() (int, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.issues), len(h.notifications)
}

func TestDecode_RoundTripAndMalformed(t *testing.T) {
	issue := &models.Issue{ID: "issue-1", Title: "Broken pipe", Location: models.IssueLocation{DistrictID: "madurai", SubDistrictID: "melur"}}
	values, err := encodeRecord(issue.ID, issue)
	require.NoError(t, err)

	decoded, err := decodeIssue(values)
	require.NoError(t, err)
	assert.Equal(t, "issue-1", decoded.ID)
	assert.Equal(t, "melur", decoded.Location.SubDistrictID)

	_, err = decodeIssue(map[string]interface{}{"data": "{}"})
	assert.ErrorIs(t, err, errMalformedEvent)

	_, err = decodeNotification(map[string]interface{}{"id": "n1", "data": "not json"})
	assert.ErrorIs(t, err, errMalformedEvent)
}

func TestInlinePublisher_RunsHandlersInBackground(t *testing.T) {
	handler := &recordingHandler{failWith: errors.New("write failed")}
	publisher := NewInlinePublisher(handler, handler, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	issue := &models.Issue{ID: "issue-1"}
	require.NoError(t, publisher.PublishIssueCreated(ctx, issue))
	require.NoError(t, publisher.PublishNotificationCreated(ctx, &models.Notification{ID: "n1"}))
	// 请求上下文取消不影响后台处理
	cancel()
	issue.Title = "mutated after publish"

	publisher.Wait()
	issues, notifications := handler.counts()
	assert.Equal(t, 1, issues)
	assert.Equal(t, 1, notifications)
	assert.Empty(t, handler.issues[0].Title, "handlers receive a snapshot")
}

func TestInlinePublisher_NilHandlers(t *testing.T) {
	publisher := NewInlinePublisher(nil, nil, zap.NewNop())
	assert.NoError(t, publisher.PublishIssueCreated(context.Background(), &models.Issue{ID: "x"}))
	assert.NoError(t, publisher.PublishNotificationCreated(context.Background(), &models.Notification{ID: "y"}))
	publisher.Wait()
}

func newTestStreams(t *testing.T) (*redis.Client, StreamConfig) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, StreamConfig{
		IssueStream:        "test:issues",
		NotificationStream: "test:notifications",
		ConsumerGroup:      "test-group",
		ConsumerName:       "worker-1",
		BlockTimeout:       50 * time.Millisecond,
	}
}

func runConsumer(t *testing.T, consumer *Consumer) context.CancelFunc {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- consumer.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("consumer did not stop")
		}
	})
	return cancel
}

func TestRedisConsumer_DeliversAndAcks(t *testing.T) {
	client, cfg := newTestStreams(t)
	handler := &recordingHandler{}
	runConsumer(t, NewConsumer(client, cfg, handler, handler, zap.NewNop()))

	publisher := NewRedisPublisher(client, cfg)
	ctx := context.Background()
	require.Eventually(t, func() bool {
		return client.Exists(ctx, cfg.IssueStream).Val() == 1
	}, 2*time.Second, 10*time.Millisecond, "consumer group created")

	require.NoError(t, publisher.PublishIssueCreated(ctx, &models.Issue{ID: "issue-1", Title: "Broken pipe"}))
	require.NoError(t, publisher.PublishNotificationCreated(ctx, &models.Notification{ID: "n1", IssueID: "issue-1", Type: models.NotificationTypeNewIssue}))

	require.Eventually(t, func() bool {
		issues, notifications := handler.counts()
		return issues == 1 && notifications == 1
	}, 3*time.Second, 20*time.Millisecond)

	handler.mu.Lock()
	assert.Equal(t, "Broken pipe", handler.issues[0].Title)
	assert.Equal(t, "issue-1", handler.notifications[0].IssueID)
	handler.mu.Unlock()

	require.Eventually(t, func() bool {
		pending, err := client.XPending(ctx, cfg.NotificationStream, cfg.ConsumerGroup).Result()
		return err == nil && pending.Count == 0
	}, 2*time.Second, 20*time.Millisecond, "successful entries are acknowledged")
}

func TestRedisConsumer_FailedNotificationStaysPending(t *testing.T) {
	client, cfg := newTestStreams(t)
	handler := &recordingHandler{failWith: errors.New("mark processed failed")}
	runConsumer(t, NewConsumer(client, cfg, handler, handler, zap.NewNop()))

	ctx := context.Background()
	require.Eventually(t, func() bool {
		return client.Exists(ctx, cfg.NotificationStream).Val() == 1
	}, 2*time.Second, 10*time.Millisecond)

	publisher := NewRedisPublisher(client, cfg)
	require.NoError(t, publisher.PublishNotificationCreated(ctx, &models.Notification{ID: "n1"}))

	require.Eventually(t, func() bool {
		_, notifications := handler.counts()
		return notifications == 1
	}, 3*time.Second, 20*time.Millisecond)

	pending, err := client.XPending(ctx, cfg.NotificationStream, cfg.ConsumerGroup).Result()
	require.NoError(t, err)
	assert.EqualValues(t, 1, pending.Count)
}

func TestRedisConsumer_ReplaysPendingOnRestart(t *testing.T) {
	client, cfg := newTestStreams(t)
	ctx := context.Background()

	failing := &recordingHandler{failWith: errors.New("mark processed failed")}
	first := NewConsumer(client, cfg, failing, failing, zap.NewNop())
	firstCtx, stopFirst := context.WithCancel(ctx)
	firstDone := make(chan error, 1)
	go func() { firstDone <- first.Run(firstCtx) }()

	require.Eventually(t, func() bool {
		return client.Exists(ctx, cfg.NotificationStream).Val() == 1
	}, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, NewRedisPublisher(client, cfg).PublishNotificationCreated(ctx, &models.Notification{ID: "n1"}))
	require.Eventually(t, func() bool {
		_, notifications := failing.counts()
		return notifications == 1
	}, 3*time.Second, 20*time.Millisecond)
	stopFirst()
	require.NoError(t, <-firstDone)

	recovered := &recordingHandler{}
	runConsumer(t, NewConsumer(client, cfg, recovered, recovered, zap.NewNop()))

	require.Eventually(t, func() bool {
		_, notifications := recovered.counts()
		return notifications == 1
	}, 3*time.Second, 20*time.Millisecond, "pending entry is redelivered")
	require.Eventually(t, func() bool {
		pending, err := client.XPending(ctx, cfg.NotificationStream, cfg.ConsumerGroup).Result()
		return err == nil && pending.Count == 0
	}, 2*time.Second, 20*time.Millisecond)
}
