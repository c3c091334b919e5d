// Package quota models the per-member daily usage counters and the caps
// applied to members that are not exempt.
package quota

import (
	"slices"
	"time"
)

// Limits are the daily caps for non-exempt members.
type Limits struct {
	MaxCalls       int
	MaxCallSeconds int
	MaxMessages    int
	MaxContacts    int
}

// DefaultLimits are 3 calls, 60 call seconds, 4 messages and 2 distinct
// contacts per day.
func DefaultLimits() Limits {
	return Limits{
		MaxCalls:       3,
		MaxCallSeconds: 60,
		MaxMessages:    4,
		MaxContacts:    2,
	}
}

// DailyCounter is the usage of one member on one business day. There is at
// most one counter per (member, day); a new day starts a fresh counter.
type DailyCounter struct {
	id           uint
	memberID     uint
	day          string
	messagesSent int
	contacted    []uint
	callCount    int
	callSeconds  int
	createdAt    time.Time
	updatedAt    time.Time
}

// NewDailyCounter returns the empty counter used before the first action of a day.
func NewDailyCounter(memberID uint, day string, now time.Time) *DailyCounter {
	return &DailyCounter{
		memberID:  memberID,
		day:       day,
		createdAt: now,
		updatedAt: now,
	}
}

func ReconstructDailyCounter(id, memberID uint, day string, messagesSent int, contacted []uint,
	callCount, callSeconds int, createdAt, updatedAt time.Time) *DailyCounter {
	ids := slices.Clone(contacted)
	slices.Sort(ids)
	return &DailyCounter{
		id:           id,
		memberID:     memberID,
		day:          day,
		messagesSent: messagesSent,
		contacted:    slices.Compact(ids),
		callCount:    callCount,
		callSeconds:  callSeconds,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (c *DailyCounter) ID() uint             { return c.id }
func (c *DailyCounter) MemberID() uint       { return c.memberID }
func (c *DailyCounter) Day() string          { return c.day }
func (c *DailyCounter) MessagesSent() int    { return c.messagesSent }
func (c *DailyCounter) CallCount() int       { return c.callCount }
func (c *DailyCounter) CallSeconds() int     { return c.callSeconds }
func (c *DailyCounter) CreatedAt() time.Time { return c.createdAt }
func (c *DailyCounter) UpdatedAt() time.Time { return c.updatedAt }

// ContactedMemberIDs returns the sorted distinct members contacted today.
func (c *DailyCounter) ContactedMemberIDs() []uint {
	return slices.Clone(c.contacted)
}

func (c *DailyCounter) SetID(id uint) {
	c.id = id
}

func (c *DailyCounter) HasContacted(memberID uint) bool {
	_, found := slices.BinarySearch(c.contacted, memberID)
	return found
}

func (c *DailyCounter) RecordMessage(now time.Time) {
	c.messagesSent++
	c.updatedAt = now
}

// RecordContact adds target to the contact set and reports whether it was new.
func (c *DailyCounter) RecordContact(target uint, now time.Time) bool {
	i, found := slices.BinarySearch(c.contacted, target)
	if found {
		return false
	}
	c.contacted = slices.Insert(c.contacted, i, target)
	c.updatedAt = now
	return true
}

// RecordCall counts a finished call and its seconds at once.
func (c *DailyCounter) RecordCall(seconds int, now time.Time) {
	c.RecordCallStart(now)
	c.RecordCallSeconds(seconds, now)
}

// RecordCallStart counts a call when its session opens. Open sessions use up
// the daily call cap before they are billed.
func (c *DailyCounter) RecordCallStart(now time.Time) {
	c.callCount++
	c.updatedAt = now
}

// RecordCallSeconds adds the talk time of a call counted by RecordCallStart.
func (c *DailyCounter) RecordCallSeconds(seconds int, now time.Time) {
	if seconds < 0 {
		seconds = 0
	}
	c.callSeconds += seconds
	c.updatedAt = now
}

// CallAllowance is the call quota view of a member for today.
type CallAllowance struct {
	CanCall      bool `json:"can_call"`
	CallsLeft    int  `json:"calls_left"`
	DurationLeft int  `json:"duration_left"`
}

// ContactAllowance is the distinct-contact quota view for one target.
type ContactAllowance struct {
	CanMessage   bool `json:"can_message"`
	ContactsLeft int  `json:"contacts_left"`
}

// CallAllowance evaluates the call caps against the counter.
func (l Limits) CallAllowance(c *DailyCounter) CallAllowance {
	return CallAllowance{
		CanCall:      c.callCount < l.MaxCalls && c.callSeconds < l.MaxCallSeconds,
		CallsLeft:    max(0, l.MaxCalls-c.callCount),
		DurationLeft: max(0, l.MaxCallSeconds-c.callSeconds),
	}
}

// CanSendMessage is true while fewer than MaxMessages were sent today.
func (l Limits) CanSendMessage(c *DailyCounter) bool {
	return c.messagesSent < l.MaxMessages
}

// ContactAllowance allows re-messaging an already contacted member even when
// the distinct-contact cap is reached.
func (l Limits) ContactAllowance(c *DailyCounter, target uint) ContactAllowance {
	left := max(0, l.MaxContacts-len(c.contacted))
	if c.HasContacted(target) {
		return ContactAllowance{CanMessage: true, ContactsLeft: left}
	}
	return ContactAllowance{CanMessage: len(c.contacted) < l.MaxContacts, ContactsLeft: left}
}

// UnlimitedCallAllowance is reported for exempt members.
func UnlimitedCallAllowance(sentinel int) CallAllowance {
	return CallAllowance{CanCall: true, CallsLeft: sentinel, DurationLeft: sentinel}
}

// UnlimitedContactAllowance is reported for exempt members.
func UnlimitedContactAllowance(sentinel int) ContactAllowance {
	return ContactAllowance{CanMessage: true, ContactsLeft: sentinel}
}
