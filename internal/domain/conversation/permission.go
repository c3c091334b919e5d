// Package conversation implements the directional turn-taking permission
// between a sender and a receiver.
package conversation

import (
	"fmt"
	"time"
)

type State string

const (
	// StateOpen lets the sender message again.
	StateOpen State = "open"
	// StateWaitingForReply blocks the sender until the receiver answers.
	StateWaitingForReply State = "waiting_for_reply"
)

// Permission is the record of one direction (sender to receiver). It exists
// only after a first message in that direction. (A,B) and (B,A) are distinct.
type Permission struct {
	id                      uint
	senderID                uint
	receiverID              uint
	lastMessageBySenderAt   time.Time
	lastMessageByReceiverAt *time.Time
	canSenderMessageAgain   bool
	createdAt               time.Time
	updatedAt               time.Time
}

// Open creates the record for the first message from sender to receiver.
// A gated direction starts waiting for a reply.
func Open(senderID, receiverID uint, gated bool, now time.Time) (*Permission, error) {
	if senderID == 0 || receiverID == 0 {
		return nil, fmt.Errorf("sender and receiver are required")
	}
	if senderID == receiverID {
		return nil, fmt.Errorf("sender and receiver must differ")
	}
	return &Permission{
		senderID:              senderID,
		receiverID:            receiverID,
		lastMessageBySenderAt: now,
		canSenderMessageAgain: !gated,
		createdAt:             now,
		updatedAt:             now,
	}, nil
}

func ReconstructPermission(id, senderID, receiverID uint, lastBySender time.Time, lastByReceiver *time.Time,
	canSenderMessageAgain bool, createdAt, updatedAt time.Time) *Permission {
	return &Permission{
		id:                      id,
		senderID:                senderID,
		receiverID:              receiverID,
		lastMessageBySenderAt:   lastBySender,
		lastMessageByReceiverAt: lastByReceiver,
		canSenderMessageAgain:   canSenderMessageAgain,
		createdAt:               createdAt,
		updatedAt:               updatedAt,
	}
}

func (p *Permission) ID() uint                            { return p.id }
func (p *Permission) SenderID() uint                      { return p.senderID }
func (p *Permission) ReceiverID() uint                    { return p.receiverID }
func (p *Permission) LastMessageBySenderAt() time.Time    { return p.lastMessageBySenderAt }
func (p *Permission) LastMessageByReceiverAt() *time.Time { return p.lastMessageByReceiverAt }
func (p *Permission) CanSenderMessageAgain() bool         { return p.canSenderMessageAgain }
func (p *Permission) CreatedAt() time.Time                { return p.createdAt }
func (p *Permission) UpdatedAt() time.Time                { return p.updatedAt }

func (p *Permission) SetID(id uint) {
	p.id = id
}

func (p *Permission) State() State {
	if p.canSenderMessageAgain {
		return StateOpen
	}
	return StateWaitingForReply
}

// RecordSend is the forward transition after the sender sent a message.
func (p *Permission) RecordSend(gated bool, now time.Time) {
	p.lastMessageBySenderAt = now
	p.canSenderMessageAgain = !gated
	p.updatedAt = now
}

// RecordReply is the reverse unlock: the receiver wrote back, so the sender
// may message again whatever the state was.
func (p *Permission) RecordReply(now time.Time) {
	p.lastMessageByReceiverAt = &now
	p.canSenderMessageAgain = true
	p.updatedAt = now
}

// StateOf reports the state of a direction, StateOpen when no record exists.
func StateOf(p *Permission) State {
	if p == nil {
		return StateOpen
	}
	return p.State()
}
