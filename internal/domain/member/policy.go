package member

import "time"

// Unlimited is reported as the remaining allowance of exempt members.
const Unlimited = 999

// Policy is the one place where the gender rule lives. Members of the
// restricted category are capped and gated; members of the privileged
// category are exempt from daily caps.
type Policy struct {
	restricted Gender
	privileged Gender
}

func NewPolicy(restricted, privileged Gender) Policy {
	return Policy{restricted: restricted, privileged: privileged}
}

// DefaultPolicy restricts male members and exempts female members.
func DefaultPolicy() Policy {
	return NewPolicy(GenderMale, GenderFemale)
}

func (p Policy) Restricted() Gender { return p.restricted }
func (p Policy) Privileged() Gender { return p.privileged }

// IsExemptFromQuota is true for active VIPs and the privileged category.
func (p Policy) IsExemptFromQuota(m *Member, now time.Time) bool {
	return m.IsActiveVIP(now) || m.Gender() == p.privileged
}

// RequiresReplyGate is true only for restricted sender to privileged receiver.
// VIP status does not lift the gate.
func (p Policy) RequiresReplyGate(sender, receiver Gender) bool {
	return sender == p.restricted && receiver == p.privileged
}

// RequiresMatchForCall is true for restricted members without an active VIP.
func (p Policy) RequiresMatchForCall(m *Member, now time.Time) bool {
	return m.Gender() == p.restricted && !m.IsActiveVIP(now)
}
