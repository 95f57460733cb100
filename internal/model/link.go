package model

import "time"

// GeneratedLink is an admin-issued purchase link. Events flagged RequiresLink
// only accept orders carrying a usable link token; each order consumes one use.
type GeneratedLink struct {
	Token     string     `json:"token"`
	EventID   string     `json:"event_id"`
	Label     string     `json:"label"`
	MaxUses   int        `json:"max_uses"`
	UsedCount int        `json:"used_count"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Revoked   bool       `json:"revoked"`
	CreatedAt time.Time  `json:"created_at"`
}

// Usable reports whether the link can still be redeemed at now.
func (l *GeneratedLink) Usable(now time.Time) bool {
	if l.Revoked || l.UsedCount >= l.MaxUses {
		return false
	}
	if l.ExpiresAt != nil && !now.Before(*l.ExpiresAt) {
		return false
	}
	return true
}

// Remaining returns how many more orders the link accepts.
func (l *GeneratedLink) Remaining() int {
	if l.UsedCount >= l.MaxUses {
		return 0
	}
	return l.MaxUses - l.UsedCount
}
