package dto

import (
	"github.com/netbridge-bank/nb_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ComposeTransferRequest is the full transfer form. Every field except Memo
// is required to leave the composing step; the confirmation checkbox must be
// explicitly true.
type ComposeTransferRequest struct {
	FromAccount   string          `json:"fromAccount" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	RecipientBank string          `json:"recipientBank" binding:"required"`
	RecipientName string          `json:"recipientName" binding:"required"`
	AccountNumber string          `json:"accountNumber" binding:"required"`
	RoutingNumber string          `json:"routingNumber" binding:"required"`
	BankAddress   string          `json:"bankAddress" binding:"required"`
	TransferType  string          `json:"transferType" binding:"required,oneof=wire ach international"`
	Memo          string          `json:"memo"`
	Confirmed     bool            `json:"confirmed" binding:"required"`
}

// AuthorizeTransferRequest carries the 4-digit transfer PIN.
type AuthorizeTransferRequest struct {
	PIN string `json:"pin" binding:"required,len=4,numeric"`
}

// DepositRequest credits a named account.
type DepositRequest struct {
	Account string          `json:"account" binding:"required"`
	Amount  decimal.Decimal `json:"amount" binding:"required"`
}

// TransferFlowResponse mirrors the flow back to the UI: current step, the
// reference generated at flow start, the retained form, and the settled
// record once one exists.
type TransferFlowResponse struct {
	State     string               `json:"state"`
	Reference string               `json:"reference,omitempty"`
	Form      *ComposeTransferView `json:"form,omitempty"`
	Record    *TransactionResponse `json:"record,omitempty"`
}

// ComposeTransferView echoes the retained form fields (never the PIN entry).
type ComposeTransferView struct {
	FromAccount   string          `json:"fromAccount"`
	Amount        decimal.Decimal `json:"amount"`
	RecipientBank string          `json:"recipientBank"`
	RecipientName string          `json:"recipientName"`
	AccountNumber string          `json:"accountNumber"`
	RoutingNumber string          `json:"routingNumber"`
	BankAddress   string          `json:"bankAddress"`
	TransferType  string          `json:"transferType"`
	Memo          string          `json:"memo"`
}

// TransactionResponse is a committed record as the UI renders it.
type TransactionResponse struct {
	ID            string          `json:"id"`
	Reference     string          `json:"transactionId"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	Account       string          `json:"account"`
	Description   string          `json:"description"`
	Status        string          `json:"status"`
	Recipient     string          `json:"recipient,omitempty"`
	Bank          string          `json:"bank,omitempty"`
	AccountNumber string          `json:"accountNumber,omitempty"`
	RoutingNumber string          `json:"routingNumber,omitempty"`
	BankAddress   string          `json:"bankAddress,omitempty"`
	TransferType  string          `json:"transferType,omitempty"`
	CreatedAt     string          `json:"createdAt"`
}

// ToTransactionResponse converts a domain record to its response shape.
func ToTransactionResponse(t domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:            t.TransactionID,
		Reference:     t.Reference,
		Type:          string(t.Type),
		Amount:        t.Amount,
		Account:       t.AccountName,
		Description:   t.Description,
		Status:        string(t.Status),
		Recipient:     t.Recipient,
		Bank:          t.Bank,
		AccountNumber: t.AccountNumber,
		RoutingNumber: t.RoutingNumber,
		BankAddress:   t.BankAddress,
		TransferType:  t.TransferType,
		CreatedAt:     t.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

// ToTransactionListResponse converts a slice of domain records.
func ToTransactionListResponse(ts []domain.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, len(ts))
	for i, t := range ts {
		out[i] = ToTransactionResponse(t)
	}
	return out
}
