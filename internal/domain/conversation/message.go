package conversation

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxMessageLength bounds message content in runes.
const MaxMessageLength = 2000

// Message is a delivered chat message.
type Message struct {
	id         uint
	senderID   uint
	receiverID uint
	content    string
	createdAt  time.Time
}

func NewMessage(senderID, receiverID uint, content string, now time.Time) (*Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("message content is required")
	}
	if utf8.RuneCountInString(content) > MaxMessageLength {
		return nil, fmt.Errorf("message content exceeds %d characters", MaxMessageLength)
	}
	if senderID == receiverID {
		return nil, fmt.Errorf("cannot message yourself")
	}
	return &Message{
		senderID:   senderID,
		receiverID: receiverID,
		content:    content,
		createdAt:  now,
	}, nil
}

func ReconstructMessage(id, senderID, receiverID uint, content string, createdAt time.Time) *Message {
	return &Message{id: id, senderID: senderID, receiverID: receiverID, content: content, createdAt: createdAt}
}

func (m *Message) ID() uint             { return m.id }
func (m *Message) SenderID() uint       { return m.senderID }
func (m *Message) ReceiverID() uint     { return m.receiverID }
func (m *Message) Content() string      { return m.content }
func (m *Message) CreatedAt() time.Time { return m.createdAt }

func (m *Message) SetID(id uint) {
	m.id = id
}

type MessageRepository interface {
	Create(ctx context.Context, m *Message) error
}
