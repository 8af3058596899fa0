package events

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/janakural/internal/models"
)

// InlinePublisher runs handlers on background goroutines in the publishing process.
type InlinePublisher struct {
	issueHandler        IssueCreatedHandler
	notificationHandler NotificationCreatedHandler
	logger              *zap.Logger
	wg                  sync.WaitGroup
}

// NewInlinePublisher 创建进程内事件发布器
func NewInlinePublisher(issueHandler IssueCreatedHandler, notificationHandler NotificationCreatedHandler, logger *zap.Logger) *InlinePublisher {
	return &InlinePublisher{
		issueHandler:        issueHandler,
		notificationHandler: notificationHandler,
		logger:              logger,
	}
}

// PublishIssueCreated hands a copy of issue to the issue handler.
func (p *InlinePublisher) PublishIssueCreated(ctx context.Context, issue *models.Issue) error {
	if p.issueHandler == nil {
		return nil
	}
	snapshot := *issue
	// 请求结束后后台处理仍需继续
	bg := context.WithoutCancel(ctx)
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.issueHandler.HandleIssueCreated(bg, &snapshot)
	}()
	return nil
}

// PublishNotificationCreated hands a copy of notification to the dispatcher.
func (p *InlinePublisher) PublishNotificationCreated(ctx context.Context, notification *models.Notification) error {
	if p.notificationHandler == nil {
		return nil
	}
	snapshot := *notification
	bg := context.WithoutCancel(ctx)
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		if err := p.notificationHandler.HandleNotificationCreated(bg, &snapshot); err != nil {
			// 进程内投递没有重试机制
			p.logger.Error("Notification handler failed, event dropped",
				zap.String("notification_id", snapshot.ID),
				zap.Error(err),
			)
		}
	}()
	return nil
}

// Wait blocks until every handler started so far has returned.
func (p *InlinePublisher) Wait() {
	p.wg.Wait()
}
