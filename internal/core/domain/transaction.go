package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the kind of ledger movement.
type TransactionType string

const (
	TransferTxn TransactionType = "transfer"
	DepositTxn  TransactionType = "deposit"
)

// TransactionStatus is the terminal state of a committed record.
type TransactionStatus string

const (
	TxnCompleted TransactionStatus = "completed"
	TxnFailed    TransactionStatus = "failed"
)

// Transaction is immutable once committed; append-only from this system's
// point of view. The Reference is the human-readable client-generated id
// (NBTRX-XXXXXXXX) and is not guaranteed globally unique.
type Transaction struct {
	TransactionID string            `json:"transactionId"`
	Reference     string            `json:"reference"`
	Type          TransactionType   `json:"type"`
	Amount        decimal.Decimal   `json:"amount"`
	AccountName   string            `json:"account"`
	Description   string            `json:"description"`
	Status        TransactionStatus `json:"status"`
	IdentityID    string            `json:"userId"`

	// Counterparty fields, populated for transfers only.
	Recipient     string `json:"recipient,omitempty"`
	Bank          string `json:"bank,omitempty"`
	AccountNumber string `json:"accountNumber,omitempty"`
	RoutingNumber string `json:"routingNumber,omitempty"`
	BankAddress   string `json:"bankAddress,omitempty"`
	TransferType  string `json:"transferType,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}
