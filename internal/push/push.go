// Package push delivers multicast push notifications to administrator devices.
package push

import (
	"context"
	"errors"
)

// ErrNoTokens is returned when a multicast is attempted without recipients.
var ErrNoTokens = errors.New("push: no device tokens")

// Message is a single notification sent to many device tokens.
type Message struct {
	Tokens []string
	Title  string
	Body   string
	Data   map[string]string
	// Link is the URL opened when a web notification is clicked.
	Link string
}

// SendResponse is the outcome for one token, in the same position as the token in Message.Tokens.
type SendResponse struct {
	Success   bool
	MessageID string
	Err       error
}

// BatchResponse aggregates the per-token outcomes of a multicast.
type BatchResponse struct {
	Responses    []SendResponse
	SuccessCount int
	FailureCount int
}

// Sender sends a multicast message. Individual token failures are reported in
// the BatchResponse; an error return means nothing was attempted.
type Sender interface {
	SendMulticast(ctx context.Context, msg Message) (*BatchResponse, error)
}

func newBatchResponse(responses []SendResponse) *BatchResponse {
	batch := &BatchResponse{Responses: responses}
	for _, resp := range responses {
		if resp.Success {
			batch.SuccessCount++
		} else {
			batch.FailureCount++
		}
	}
	return batch
}
