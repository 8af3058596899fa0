package push

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// FCMConfig configures the Firebase Cloud Messaging HTTP v1 client.
type FCMConfig struct {
	BaseURL     string
	ProjectID   string
	AccessToken string
	// Concurrency bounds the number of in-flight requests per multicast.
	Concurrency int
	Timeout     time.Duration
}

type fcmNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type fcmWebpush struct {
	FCMOptions struct {
		Link string `json:"link,omitempty"`
	} `json:"fcm_options"`
}

type fcmMessage struct {
	Token        string            `json:"token"`
	Notification fcmNotification   `json:"notification"`
	Data         map[string]string `json:"data,omitempty"`
	Webpush      *fcmWebpush       `json:"webpush,omitempty"`
}

type fcmRequest struct {
	Message fcmMessage `json:"message"`
}

type fcmResponse struct {
	Name string `json:"name"`
}

type fcmErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// FCMSender sends one HTTP v1 request per token, in parallel.
type FCMSender struct {
	httpClient  *resty.Client
	projectID   string
	concurrency int
	logger      *zap.Logger
}

// NewFCMSender 创建 FCM 推送客户端
func NewFCMSender(cfg FCMConfig, logger *zap.Logger) *FCMSender {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(timeout).
		SetAuthToken(cfg.AccessToken).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &FCMSender{
		httpClient:  client,
		projectID:   cfg.ProjectID,
		concurrency: concurrency,
		logger:      logger,
	}
}

// SendMulticast sends msg to every token. It only fails as a whole when
// there are no tokens; per-token errors land in the BatchResponse.
func (s *FCMSender) SendMulticast(ctx context.Context, msg Message) (*BatchResponse, error) {
	if len(msg.Tokens) == 0 {
		return nil, ErrNoTokens
	}

	responses := make([]SendResponse, len(msg.Tokens))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, token := range msg.Tokens {
		i, token := i, token
		g.Go(func() error {
			// 单个令牌失败不影响其他令牌，因此这里永远返回 nil
			responses[i] = s.sendOne(gctx, token, msg)
			return nil
		})
	}
	_ = g.Wait()

	batch := newBatchResponse(responses)
	s.logger.Debug("FCM multicast finished",
		zap.Int("token_count", len(msg.Tokens)),
		zap.Int("success_count", batch.SuccessCount),
		zap.Int("failure_count", batch.FailureCount),
	)
	return batch, nil
}

func (s *FCMSender) sendOne(ctx context.Context, token string, msg Message) SendResponse {
	request := fcmRequest{Message: fcmMessage{
		Token:        token,
		Notification: fcmNotification{Title: msg.Title, Body: msg.Body},
		Data:         msg.Data,
	}}
	if msg.Link != "" {
		request.Message.Webpush = &fcmWebpush{}
		request.Message.Webpush.FCMOptions.Link = msg.Link
	}

	var result fcmResponse
	var apiErr fcmErrorResponse
	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetBody(request).
		SetResult(&result).
		SetError(&apiErr).
		SetPathParam("project", s.projectID).
		Post("/v1/projects/{project}/messages:send")
	if err != nil {
		return SendResponse{Err: fmt.Errorf("fcm request failed: %w", err)}
	}
	if resp.IsError() {
		return SendResponse{Err: fmt.Errorf("fcm error %d %s: %s", resp.StatusCode(), apiErr.Error.Status, apiErr.Error.Message)}
	}
	return SendResponse{Success: true, MessageID: result.Name}
}
