package domain

import "time"

// SessionRecord is the durable per-login row backing the dashboard gate.
// PinVerified is the only client-owned flag that must survive a reload; it
// dies with the session row on logout.
type SessionRecord struct {
	SessionID   string     `json:"sessionID"`
	IdentityID  string     `json:"identityID"`
	PinVerified bool       `json:"pinVerified"`
	OTPHash     string     `json:"-"`
	OTPExpiry   *time.Time `json:"-"`
	CreatedAt   time.Time  `json:"createdAt"`
}
