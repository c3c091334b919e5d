package quota

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var now = time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)

func TestCallAllowance(t *testing.T) {
	limits := DefaultLimits()
	c := NewDailyCounter(1, "2026-05-10", now)

	assert.Equal(t, CallAllowance{CanCall: true, CallsLeft: 3, DurationLeft: 60}, limits.CallAllowance(c))

	c.RecordCall(20, now)
	c.RecordCall(20, now)
	assert.Equal(t, CallAllowance{CanCall: true, CallsLeft: 1, DurationLeft: 20}, limits.CallAllowance(c))

	c.RecordCall(5, now)
	assert.Equal(t, CallAllowance{CanCall: false, CallsLeft: 0, DurationLeft: 15}, limits.CallAllowance(c))
}

func TestCallAllowanceDurationExhaustedFirst(t *testing.T) {
	c := NewDailyCounter(1, "2026-05-10", now)
	c.RecordCall(90, now)

	got := DefaultLimits().CallAllowance(c)
	assert.False(t, got.CanCall)
	assert.Equal(t, 2, got.CallsLeft)
	assert.Equal(t, 0, got.DurationLeft)
}

func TestOpenCallsUseCallCapBeforeBilling(t *testing.T) {
	limits := DefaultLimits()
	c := NewDailyCounter(1, "2026-05-10", now)

	for i := 0; i < 3; i++ {
		c.RecordCallStart(now)
	}
	assert.Equal(t, CallAllowance{CanCall: false, CallsLeft: 0, DurationLeft: 60}, limits.CallAllowance(c))

	c.RecordCallSeconds(25, now)
	c.RecordCallSeconds(-5, now)
	assert.Equal(t, 3, c.CallCount())
	assert.Equal(t, 25, c.CallSeconds())
}

func TestCanSendMessage(t *testing.T) {
	limits := DefaultLimits()
	c := NewDailyCounter(1, "2026-05-10", now)

	for i := 0; i < 4; i++ {
		assert.True(t, limits.CanSendMessage(c), "message %d", i+1)
		c.RecordMessage(now)
	}
	assert.False(t, limits.CanSendMessage(c))
}

func TestContactAllowance(t *testing.T) {
	limits := DefaultLimits()
	c := NewDailyCounter(1, "2026-05-10", now)

	assert.True(t, c.RecordContact(7, now))
	assert.False(t, c.RecordContact(7, now))
	assert.True(t, c.RecordContact(3, now))

	assert.Equal(t, []uint{3, 7}, c.ContactedMemberIDs())
	assert.Equal(t, ContactAllowance{CanMessage: false, ContactsLeft: 0}, limits.ContactAllowance(c, 9))
	assert.Equal(t, ContactAllowance{CanMessage: true, ContactsLeft: 0}, limits.ContactAllowance(c, 7))
}

func TestReconstructNormalisesContacts(t *testing.T) {
	c := ReconstructDailyCounter(5, 1, "2026-05-10", 2, []uint{9, 2, 9}, 0, 0, now, now)

	assert.Equal(t, []uint{2, 9}, c.ContactedMemberIDs())
	assert.True(t, c.HasContacted(9))
	assert.False(t, c.HasContacted(4))
}

func TestUnlimitedAllowances(t *testing.T) {
	assert.Equal(t, CallAllowance{CanCall: true, CallsLeft: 999, DurationLeft: 999}, UnlimitedCallAllowance(999))
	assert.Equal(t, ContactAllowance{CanMessage: true, ContactsLeft: 999}, UnlimitedContactAllowance(999))
}
