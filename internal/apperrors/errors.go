package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrConflict indicates an attempt to reserve a handle that is already taken.
var ErrConflict = errors.New("resource already exists")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates the caller is authenticated but not allowed to act.
var ErrForbidden = errors.New("forbidden")

// ErrSuspended indicates the identity exists but has been suspended.
var ErrSuspended = errors.New("account suspended")

// ErrInsufficientBalance indicates a debit that would take an account balance negative.
var ErrInsufficientBalance = errors.New("insufficient balance")

// ErrAmountBelowMinimum indicates a transfer amount below the 1-unit floor.
var ErrAmountBelowMinimum = errors.New("amount below minimum")

// ErrCommitFailed indicates the ledger rejected a settlement write.
var ErrCommitFailed = errors.New("commit failed")

// ErrPinMismatch indicates a wrong transfer PIN entry.
var ErrPinMismatch = errors.New("incorrect pin")

// ErrPinLocked indicates too many consecutive wrong PIN entries.
var ErrPinLocked = errors.New("pin entry locked")

// ErrFlowState indicates a flow operation attempted from the wrong state.
var ErrFlowState = errors.New("invalid flow state")
