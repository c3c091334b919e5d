package messaging

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	quotaapp "github.com/videocc/videocc/internal/application/quota"
	"github.com/videocc/videocc/internal/domain/conversation"
	"github.com/videocc/videocc/internal/domain/member"
	"github.com/videocc/videocc/internal/domain/quota"
	"github.com/videocc/videocc/internal/infrastructure/database/dbtest"
	"github.com/videocc/videocc/internal/infrastructure/repository"
	"github.com/videocc/videocc/internal/shared/biztime"
	"github.com/videocc/videocc/internal/shared/db"
	"github.com/videocc/videocc/internal/shared/errors"
	"github.com/videocc/videocc/internal/shared/keylock"
	"github.com/videocc/videocc/internal/shared/logger"
)

type fixture struct {
	svc           *Service
	db            *gorm.DB
	members       *repository.MemberRepository
	conversations *repository.ConversationRepository
	counters      *repository.DailyCounterRepository
	clock         *biztime.ManualClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gdb := dbtest.Open(t)
	log := logger.NewNopLogger()
	clock := biztime.NewManualClock(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
	tx := db.NewTransactionManager(gdb)
	members := repository.NewMemberRepository(gdb, log)
	counters := repository.NewDailyCounterRepository(gdb)
	conversations := repository.NewConversationRepository(gdb)
	policy := member.DefaultPolicy()

	ledger := quotaapp.NewLedger(members, counters, tx, policy, quota.DefaultLimits(), clock, time.UTC, log)
	svc := NewService(members, conversations, repository.NewMessageRepository(gdb), ledger, tx,
		keylock.New(), policy, clock, log)

	return &fixture{
		svc:           svc,
		db:            gdb,
		members:       members,
		conversations: conversations,
		counters:      counters,
		clock:         clock,
	}
}

func (f *fixture) member(t *testing.T, name string, gender member.Gender) uint {
	t.Helper()
	m, err := member.NewMember(name, gender, f.clock.Now())
	require.NoError(t, err)
	require.NoError(t, f.members.Create(context.Background(), m))
	return m.ID()
}

func (f *fixture) send(t *testing.T, from, to uint) SendDecision {
	t.Helper()
	res, err := f.svc.SendMessage(context.Background(), SendMessageCommand{SenderID: from, ReceiverID: to, Content: "hi"})
	require.NoError(t, err)
	return res.Decision
}

func (f *fixture) messagesSent(t *testing.T, memberID uint) int {
	t.Helper()
	c, err := f.counters.Get(context.Background(), memberID, biztime.DayKey(f.clock.Now()))
	require.NoError(t, err)
	return c.MessagesSent()
}

func TestFifthMessageOfTheDayIsRejected(t *testing.T) {
	f := newFixture(t)
	bob := f.member(t, "bob", member.GenderMale)
	carl := f.member(t, "carl", member.GenderMale)
	dan := f.member(t, "dan", member.GenderMale)

	for i := 0; i < 4; i++ {
		to := carl
		if i%2 == 1 {
			to = dan
		}
		d := f.send(t, bob, to)
		require.True(t, d.Allowed, "message %d: %s", i+1, d.Reason)
	}
	assert.Equal(t, 4, f.messagesSent(t, bob))

	d := f.send(t, bob, carl)
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonDailyMessageLimit, d.Reason)
	assert.Equal(t, 4, f.messagesSent(t, bob), "rejected send must not count")

	var stored int64
	require.NoError(t, f.db.Table("messages").Where("sender_id = ?", bob).Count(&stored).Error)
	assert.Equal(t, int64(4), stored)
}

func TestReplyGateClosesAndReopens(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	bob := f.member(t, "bob", member.GenderMale)
	alice := f.member(t, "alice", member.GenderFemale)

	require.True(t, f.send(t, bob, alice).Allowed)

	p, err := f.conversations.Get(ctx, bob, alice)
	require.NoError(t, err)
	assert.Equal(t, conversation.StateWaitingForReply, conversation.StateOf(p))

	d := f.send(t, bob, alice)
	assert.Equal(t, ReasonWaitingForReply, d.Reason)
	assert.Equal(t, 1, f.messagesSent(t, bob))

	f.clock.Advance(time.Minute)
	require.True(t, f.send(t, alice, bob).Allowed, "receiver is never gated")

	p, err = f.conversations.Get(ctx, bob, alice)
	require.NoError(t, err)
	assert.Equal(t, conversation.StateOpen, conversation.StateOf(p))
	require.NotNil(t, p.LastMessageByReceiverAt())

	assert.True(t, f.send(t, bob, alice).Allowed)
}

func TestUngatedPairsStayOpen(t *testing.T) {
	f := newFixture(t)
	alice := f.member(t, "alice", member.GenderFemale)
	bob := f.member(t, "bob", member.GenderMale)
	carol := f.member(t, "carol", member.GenderFemale)

	for i := 0; i < 3; i++ {
		assert.True(t, f.send(t, alice, bob).Allowed)
		assert.True(t, f.send(t, alice, carol).Allowed)
	}
}

func TestContactCapAllowsKnownContacts(t *testing.T) {
	f := newFixture(t)
	bob := f.member(t, "bob", member.GenderMale)
	first := f.member(t, "first", member.GenderMale)
	second := f.member(t, "second", member.GenderMale)
	third := f.member(t, "third", member.GenderMale)

	require.True(t, f.send(t, bob, first).Allowed)
	require.True(t, f.send(t, bob, second).Allowed)

	d := f.send(t, bob, third)
	assert.Equal(t, ReasonDailyContactLimit, d.Reason)

	assert.True(t, f.send(t, bob, first).Allowed)
}

func TestBlockedEitherDirection(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	bob := f.member(t, "bob", member.GenderMale)
	alice := f.member(t, "alice", member.GenderFemale)
	require.NoError(t, f.members.Block(ctx, alice, bob))

	assert.Equal(t, ReasonBlocked, f.send(t, bob, alice).Reason)
	assert.Equal(t, ReasonBlocked, f.send(t, alice, bob).Reason)

	p, err := f.conversations.Get(ctx, bob, alice)
	require.NoError(t, err)
	assert.Nil(t, p, "rejection leaves no conversation state")
}

func TestCanSendRefusedWhenSenderBlockedReceiver(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	bob := f.member(t, "bob", member.GenderMale)
	alice := f.member(t, "alice", member.GenderFemale)
	require.NoError(t, f.members.Block(ctx, bob, alice))

	d, err := f.svc.CanSendMessageToUser(ctx, bob, alice)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonBlocked, d.Reason)
}

func TestSendMessageValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	bob := f.member(t, "bob", member.GenderMale)

	_, err := f.svc.SendMessage(ctx, SendMessageCommand{SenderID: bob, ReceiverID: bob, Content: "me"})
	assert.True(t, errors.IsValidationError(err))

	_, err = f.svc.SendMessage(ctx, SendMessageCommand{SenderID: bob, ReceiverID: 999, Content: "hi"})
	assert.True(t, errors.IsNotFoundError(err))

	_, err = f.svc.SendMessage(ctx, SendMessageCommand{SenderID: bob, ReceiverID: 999, Content: "   "})
	assert.True(t, errors.IsValidationError(err))
}

func TestConcurrentSendsRespectMessageCap(t *testing.T) {
	f := newFixture(t)
	bob := f.member(t, "bob", member.GenderMale)
	carl := f.member(t, "carl", member.GenderMale)

	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := f.svc.SendMessage(context.Background(), SendMessageCommand{SenderID: bob, ReceiverID: carl, Content: "hi"})
			if !assert.NoError(t, err) {
				return
			}
			if res.Decision.Allowed {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 4, accepted)
	assert.Equal(t, 4, f.messagesSent(t, bob))
}

func TestMessageLimits(t *testing.T) {
	f := newFixture(t)
	bob := f.member(t, "bob", member.GenderMale)
	carl := f.member(t, "carl", member.GenderMale)
	require.True(t, f.send(t, bob, carl).Allowed)

	limits, err := f.svc.MessageLimits(context.Background(), bob, 42)
	require.NoError(t, err)
	assert.True(t, limits.CanSendMessage)
	assert.Equal(t, quota.ContactAllowance{CanMessage: true, ContactsLeft: 1}, limits.Contacts)
}
