// Package member holds the read model of a platform member and the single
// policy table for the gender and VIP rules that drive quotas, reply gating
// and call matching.
package member

import (
	"fmt"
	"strings"
	"time"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// ParseGender is case-insensitive. Legacy rows store both "Male" and "male".
func ParseGender(s string) Gender {
	switch Gender(strings.ToLower(strings.TrimSpace(s))) {
	case GenderMale:
		return GenderMale
	case GenderFemale:
		return GenderFemale
	default:
		return GenderOther
	}
}

func (g Gender) String() string {
	return string(g)
}

type Member struct {
	id           uint
	username     string
	gender       Gender
	isVIP        bool
	vipExpiresAt *time.Time
	isAdmin      bool
	createdAt    time.Time
	updatedAt    time.Time
}

func NewMember(username string, gender Gender, now time.Time) (*Member, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}
	return &Member{
		username:  username,
		gender:    gender,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructMember rebuilds a member from persistence.
func ReconstructMember(id uint, username string, gender Gender, isVIP bool, vipExpiresAt *time.Time,
	isAdmin bool, createdAt, updatedAt time.Time) *Member {
	return &Member{
		id:           id,
		username:     username,
		gender:       gender,
		isVIP:        isVIP,
		vipExpiresAt: vipExpiresAt,
		isAdmin:      isAdmin,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (m *Member) ID() uint                 { return m.id }
func (m *Member) Username() string         { return m.username }
func (m *Member) Gender() Gender           { return m.gender }
func (m *Member) IsVIP() bool              { return m.isVIP }
func (m *Member) VIPExpiresAt() *time.Time { return m.vipExpiresAt }
func (m *Member) IsAdmin() bool            { return m.isAdmin }
func (m *Member) CreatedAt() time.Time     { return m.createdAt }
func (m *Member) UpdatedAt() time.Time     { return m.updatedAt }

func (m *Member) SetID(id uint) {
	m.id = id
}

// IsActiveVIP reports VIP status at now. A VIP flag with a passed expiry
// date counts as expired even before the sweep job clears it.
func (m *Member) IsActiveVIP(now time.Time) bool {
	if !m.isVIP {
		return false
	}
	return m.vipExpiresAt == nil || now.Before(*m.vipExpiresAt)
}

// GrantVIP extends VIP until the later of the current expiry and now+days.
func (m *Member) GrantVIP(days int, now time.Time) {
	start := now
	if m.IsActiveVIP(now) && m.vipExpiresAt != nil && m.vipExpiresAt.After(now) {
		start = *m.vipExpiresAt
	}
	until := start.AddDate(0, 0, days)
	m.isVIP = true
	m.vipExpiresAt = &until
	m.updatedAt = now
}

// ExpireVIP clears a lapsed VIP flag and reports whether anything changed.
func (m *Member) ExpireVIP(now time.Time) bool {
	if !m.isVIP || m.IsActiveVIP(now) {
		return false
	}
	m.isVIP = false
	m.updatedAt = now
	return true
}
