// Package events delivers "record created" events for issues and
// notifications to the handlers that react to them.
//
// Two delivery backends exist. The inline publisher runs handlers on a
// goroutine inside the API process. The Redis publisher appends to a stream
// that a Consumer reads through a consumer group, which gives at-least-once
// delivery: handlers must tolerate seeing the same record more than once.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/janakural/internal/models"
)

// Publisher announces newly created records.
type Publisher interface {
	PublishIssueCreated(ctx context.Context, issue *models.Issue) error
	PublishNotificationCreated(ctx context.Context, notification *models.Notification) error
}

// IssueCreatedHandler reacts to a new issue. It has no failure surface.
type IssueCreatedHandler interface {
	HandleIssueCreated(ctx context.Context, issue *models.Issue)
}

// NotificationCreatedHandler reacts to a new notification record. A non-nil
// error means the outcome could not be recorded and the event should be
// delivered again.
type NotificationCreatedHandler interface {
	HandleNotificationCreated(ctx context.Context, notification *models.Notification) error
}

const (
	fieldID   = "id"
	fieldData = "data"
)

var errMalformedEvent = errors.New("malformed event")

func encodeRecord(id string, record interface{}) (map[string]interface{}, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("encode event %s: %w", id, err)
	}
	return map[string]interface{}{
		fieldID:   id,
		fieldData: string(data),
	}, nil
}

func decodeRecord(values map[string]interface{}, record interface{}) (string, error) {
	id, _ := values[fieldID].(string)
	data, ok := values[fieldData].(string)
	if id == "" || !ok {
		return "", errMalformedEvent
	}
	if err := json.Unmarshal([]byte(data), record); err != nil {
		return id, fmt.Errorf("%w: %v", errMalformedEvent, err)
	}
	return id, nil
}

func decodeIssue(values map[string]interface{}) (*models.Issue, error) {
	var issue models.Issue
	id, err := decodeRecord(values, &issue)
	if err != nil {
		return nil, err
	}
	if issue.ID == "" {
		issue.ID = id
	}
	return &issue, nil
}

func decodeNotification(values map[string]interface{}) (*models.Notification, error) {
	var notification models.Notification
	id, err := decodeRecord(values, &notification)
	if err != nil {
		return nil, err
	}
	if notification.ID == "" {
		notification.ID = id
	}
	return &notification, nil
}
