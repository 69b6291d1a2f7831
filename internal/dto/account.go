package dto

import (
	"github.com/netbridge-bank/nb_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountResponse is one named sub-ledger as the dashboard renders it.
type AccountResponse struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Type    string          `json:"type"`
	Number  string          `json:"number"`
	Balance decimal.Decimal `json:"balance"`
}

// ListAccountsResponse wraps the ordered account collection.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// ToAccountResponse converts a domain account.
func ToAccountResponse(a domain.Account) AccountResponse {
	return AccountResponse{
		ID:      a.AccountID,
		Name:    a.Name,
		Type:    string(a.Type),
		Number:  a.MaskedNumber,
		Balance: a.Balance,
	}
}

// ToListAccountsResponse converts the ordered collection.
func ToListAccountsResponse(accounts []domain.Account) ListAccountsResponse {
	out := make([]AccountResponse, len(accounts))
	for i, a := range accounts {
		out[i] = ToAccountResponse(a)
	}
	return ListAccountsResponse{Accounts: out}
}

// NotificationResponse is one inbox entry.
type NotificationResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"createdAt"`
}

// ToNotificationListResponse converts inbox entries.
func ToNotificationListResponse(ns []domain.Notification) []NotificationResponse {
	out := make([]NotificationResponse, len(ns))
	for i, n := range ns {
		out[i] = NotificationResponse{
			ID:        n.NotificationID,
			Title:     n.Title,
			Body:      n.Body,
			Read:      n.Read,
			CreatedAt: n.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		}
	}
	return out
}

// GateStatusResponse reports the dashboard gate to the UI.
type GateStatusResponse struct {
	RequiresPin bool `json:"requiresPin"`
	PinVerified bool `json:"pinVerified"`
}

// GateVerifyRequest carries the 6-digit dashboard unlock code.
type GateVerifyRequest struct {
	Code string `json:"code" binding:"required,len=6,numeric"`
}
