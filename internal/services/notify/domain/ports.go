package domain

import "context"

// SenderPort is the outbound message transport
type SenderPort interface {
	// SendMessage delivers text to a chat
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// RouterPort routes rendered messages to audiences
type RouterPort interface {
	// Send delivers text to the audience's configured chat
	Send(ctx context.Context, aud Audience, text string) error
}
