package conversation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)

func TestOpenValidatesParticipants(t *testing.T) {
	_, err := Open(0, 2, false, now)
	assert.Error(t, err)

	_, err = Open(3, 3, false, now)
	assert.Error(t, err)
}

func TestGatedDirectionWaitsForReply(t *testing.T) {
	p, err := Open(1, 2, true, now)
	require.NoError(t, err)
	assert.Equal(t, StateWaitingForReply, p.State())
	assert.Nil(t, p.LastMessageByReceiverAt())

	replyAt := now.Add(time.Minute)
	p.RecordReply(replyAt)
	assert.Equal(t, StateOpen, p.State())
	require.NotNil(t, p.LastMessageByReceiverAt())
	assert.Equal(t, replyAt, *p.LastMessageByReceiverAt())

	p.RecordSend(true, now.Add(2*time.Minute))
	assert.Equal(t, StateWaitingForReply, p.State())
	assert.Equal(t, now.Add(2*time.Minute), p.LastMessageBySenderAt())
}

func TestUngatedDirectionStaysOpen(t *testing.T) {
	p, err := Open(2, 1, false, now)
	require.NoError(t, err)

	p.RecordSend(false, now.Add(time.Minute))
	p.RecordSend(false, now.Add(2*time.Minute))

	assert.Equal(t, StateOpen, p.State())
}

func TestStateOfMissingRecordIsOpen(t *testing.T) {
	assert.Equal(t, StateOpen, StateOf(nil))
}

func TestNewMessage(t *testing.T) {
	m, err := NewMessage(1, 2, "  hello  ", now)
	require.NoError(t, err)
	assert.Equal(t, "hello", m.Content())

	_, err = NewMessage(1, 2, "   ", now)
	assert.Error(t, err)

	_, err = NewMessage(1, 1, "hi", now)
	assert.Error(t, err)
}
