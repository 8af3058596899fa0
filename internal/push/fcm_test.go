package push

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFCMSender_SendMulticast(t *testing.T) {
	var mu sync.Mutex
	var received []fcmRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/projects/janakural-test/messages:send", r.URL.Path)
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))

		var req fcmRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		mu.Lock()
		received = append(received, req)
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if req.Message.Token == "stale" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":{"code":404,"message":"Requested entity was not found.","status":"NOT_FOUND"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"name":"projects/janakural-test/messages/` + req.Message.Token + `"}`))
	}))
	defer server.Close()

	sender := NewFCMSender(FCMConfig{
		BaseURL:     server.URL,
		ProjectID:   "janakural-test",
		AccessToken: "secret-token",
		Concurrency: 2,
	}, zap.NewNop())

	batch, err := sender.SendMulticast(context.Background(), Message{
		Tokens: []string{"t1", "stale", "t3"},
		Title:  "New Issue Reported",
		Body:   "Broken pipe",
		Data:   map[string]string{"issueId": "abc", "type": "new_issue"},
		Link:   "https://janakural.example/admin/issues?highlight=abc",
	})
	require.NoError(t, err)

	assert.Equal(t, 2, batch.SuccessCount)
	assert.Equal(t, 1, batch.FailureCount)
	require.Len(t, batch.Responses, 3)
	assert.True(t, batch.Responses[0].Success)
	assert.Equal(t, "projects/janakural-test/messages/t1", batch.Responses[0].MessageID)
	assert.False(t, batch.Responses[1].Success)
	assert.ErrorContains(t, batch.Responses[1].Err, "NOT_FOUND")
	assert.True(t, batch.Responses[2].Success)

	require.Len(t, received, 3)
	for _, req := range received {
		assert.Equal(t, "New Issue Reported", req.Message.Notification.Title)
		assert.Equal(t, "abc", req.Message.Data["issueId"])
		require.NotNil(t, req.Message.Webpush)
		assert.Equal(t, "https://janakural.example/admin/issues?highlight=abc", req.Message.Webpush.FCMOptions.Link)
	}
}

func TestFCMSender_NoTokens(t *testing.T) {
	sender := NewFCMSender(FCMConfig{BaseURL: "http://127.0.0.1:1"}, zap.NewNop())
	_, err := sender.SendMulticast(context.Background(), Message{Title: "x"})
	assert.ErrorIs(t, err, ErrNoTokens)
}

func TestFCMSender_UnreachableServerFailsEveryToken(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	sender := NewFCMSender(FCMConfig{BaseURL: url, ProjectID: "p"}, zap.NewNop())
	batch, err := sender.SendMulticast(context.Background(), Message{Tokens: []string{"a", "b"}})
	require.NoError(t, err)
	assert.Equal(t, 0, batch.SuccessCount)
	assert.Equal(t, 2, batch.FailureCount)
}

func TestLogSender(t *testing.T) {
	sender := NewLogSender(zap.NewNop())

	batch, err := sender.SendMulticast(context.Background(), Message{Tokens: []string{"a", "b"}, Title: "t"})
	require.NoError(t, err)
	assert.Equal(t, 2, batch.SuccessCount)
	assert.Zero(t, batch.FailureCount)

	_, err = sender.SendMulticast(context.Background(), Message{})
	assert.ErrorIs(t, err, ErrNoTokens)
}
