// Package domain holds inbound message types and ports
package domain

// Event is one inbound chat message, normalized by the transport
type Event struct {
	UpdateID  int64
	ChatID    int64
	MessageID int64
	Handle    string
	Text      string
}
