package domain

import "context"

// HandlerPort consumes inbound events
type HandlerPort interface {
	// Handle classifies and records one message. Events outside the tracked
	// chat or without a sender handle are discarded without error
	Handle(ctx context.Context, ev Event) error
}

// AckPort acknowledges a recorded submission back in the chat
type AckPort interface {
	// React puts an acknowledgement reaction on a message
	React(ctx context.Context, chatID, messageID int64) error
}
