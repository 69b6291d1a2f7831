package domain

import "time"

// Role classifies an identity for dashboard routing.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// IdentityStatus is the lifecycle state of an identity.
type IdentityStatus string

const (
	StatusActive    IdentityStatus = "active"
	StatusSuspended IdentityStatus = "suspended"
)

// Identity is the authenticated user profile record. It is created only by
// the registration path and mutated only through explicit profile updates.
type Identity struct {
	IdentityID    string         `json:"identityID"`
	FullName      string         `json:"fullName"`
	Email         string         `json:"email"`
	Username      string         `json:"username"`
	Role          Role           `json:"role"`
	AccountNumber string         `json:"accountNumber"` // also a login handle
	Status        IdentityStatus `json:"status"`
	TransferPIN   *string        `json:"-"` // 4-digit transfer authorization secret, nil until set
	Country       string         `json:"country"`
	KYCStatus     string         `json:"kycStatus"`
	PhoneNumber   string         `json:"phoneNumber"`
	Address       string         `json:"address"`
	SortCode      string         `json:"sortcode"`
	Occupation    string         `json:"occupation"`
	DateOfBirth   string         `json:"dateOfBirth"`
	Gender        string         `json:"gender"`
	PasswordHash  string         `json:"-"`
	CreatedAt     time.Time      `json:"createdAt"`
}
