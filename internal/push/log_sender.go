package push

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// LogSender only logs messages. It is used when FCM is not configured.
type LogSender struct {
	logger *zap.Logger
}

// NewLogSender returns a Sender that logs every message and reports success.
func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// SendMulticast logs msg and marks every token as delivered.
func (s *LogSender) SendMulticast(ctx context.Context, msg Message) (*BatchResponse, error) {
	if len(msg.Tokens) == 0 {
		return nil, ErrNoTokens
	}

	responses := make([]SendResponse, len(msg.Tokens))
	for i := range msg.Tokens {
		responses[i] = SendResponse{Success: true, MessageID: fmt.Sprintf("logged-%d", i)}
	}
	s.logger.Info("Push notification (not delivered, FCM disabled)",
		zap.Int("token_count", len(msg.Tokens)),
		zap.String("title", msg.Title),
		zap.String("body", msg.Body),
		zap.Any("data", msg.Data),
		zap.String("link", msg.Link),
	)
	return newBatchResponse(responses), nil
}
