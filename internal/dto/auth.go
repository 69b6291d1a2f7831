package dto

import (
	"time"

	"github.com/netbridge-bank/nb_backend/internal/core/domain"
)

// RegisterRequest carries the signup form. Username shape is enforced by the
// custom `username` binding rule (3-20 chars, lowercase alphanumeric or
// underscore) before any ledger call is made.
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Country   string `json:"country" binding:"required"`
	Username  string `json:"username" binding:"required,username"`
}

// LoginRequest accepts a username or an account number as the handle.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// GoogleSignInRequest carries either a verified ID token from the One Tap
// flow or an authorization code from the redirect flow.
type GoogleSignInRequest struct {
	IDToken string `json:"idToken"`
	Code    string `json:"code"`
}

// OTPVerifyRequest carries the 6-digit emailed code.
type OTPVerifyRequest struct {
	Code string `json:"code" binding:"required,len=6,numeric"`
}

// UpdateProfileRequest uses pointers to distinguish omitted fields from
// zero-value fields.
type UpdateProfileRequest struct {
	PhoneNumber *string `json:"phoneNumber"`
	Address     *string `json:"address"`
	Occupation  *string `json:"occupation"`
	DateOfBirth *string `json:"dateOfBirth"`
	Gender      *string `json:"gender"`
	TransferPIN *string `json:"transferPin" binding:"omitempty,len=4,numeric"`
}

// IdentityResponse is the profile shape returned to the UI. The transfer PIN
// and credential hash never leave the service boundary.
type IdentityResponse struct {
	IdentityID    string    `json:"id"`
	FullName      string    `json:"fullName"`
	Email         string    `json:"email"`
	Username      string    `json:"username"`
	Role          string    `json:"role"`
	AccountNumber string    `json:"accountNumber"`
	Status        string    `json:"status"`
	Country       string    `json:"country"`
	KYCStatus     string    `json:"kycStatus"`
	PhoneNumber   string    `json:"phoneNumber"`
	Address       string    `json:"address"`
	SortCode      string    `json:"sortcode"`
	Occupation    string    `json:"occupation"`
	DateOfBirth   string    `json:"dateOfBirth"`
	Gender        string    `json:"gender"`
	HasPin        bool      `json:"hasPin"`
	CreatedAt     time.Time `json:"createdAt"`
}

// LoginResponse bundles the session token with the hydrated identity.
type LoginResponse struct {
	Token string           `json:"token"`
	User  IdentityResponse `json:"user"`
}

// ToIdentityResponse converts a domain.Identity to its response shape.
func ToIdentityResponse(id *domain.Identity) IdentityResponse {
	return IdentityResponse{
		IdentityID:    id.IdentityID,
		FullName:      id.FullName,
		Email:         id.Email,
		Username:      id.Username,
		Role:          string(id.Role),
		AccountNumber: id.AccountNumber,
		Status:        string(id.Status),
		Country:       id.Country,
		KYCStatus:     id.KYCStatus,
		PhoneNumber:   id.PhoneNumber,
		Address:       id.Address,
		SortCode:      id.SortCode,
		Occupation:    id.Occupation,
		DateOfBirth:   id.DateOfBirth,
		Gender:        id.Gender,
		HasPin:        id.TransferPIN != nil,
		CreatedAt:     id.CreatedAt,
	}
}
