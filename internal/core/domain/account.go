package domain

import "github.com/shopspring/decimal"

// AccountType distinguishes the two named sub-ledgers an identity owns.
type AccountType string

const (
	Checking AccountType = "Checking"
	Savings  AccountType = "Savings"
)

// Account is a named balance-bearing record. The balance is mutated only by
// the transfer/deposit commit step and must never go negative from a transfer.
type Account struct {
	AccountID    string          `json:"id"`
	Name         string          `json:"name"`
	Type         AccountType     `json:"type"`
	MaskedNumber string          `json:"number"`
	Balance      decimal.Decimal `json:"balance"`
	DisplayOrder int             `json:"-"` // insertion order = display order
}
