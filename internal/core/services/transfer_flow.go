package services

import (
	"context"
	"sync"
	"time"

	"github.com/netbridge-bank/nb_backend/internal/apperrors"
	"github.com/netbridge-bank/nb_backend/internal/core/domain"
	"github.com/netbridge-bank/nb_backend/internal/dto"
	"github.com/netbridge-bank/nb_backend/internal/utils"
)

// FlowState is the step of the transfer authorization flow.
type FlowState string

const (
	FlowComposing      FlowState = "composing"
	FlowReviewing      FlowState = "reviewing"
	FlowAuthorizingPin FlowState = "authorizing_pin"
	FlowCommitting     FlowState = "committing"
	FlowSettled        FlowState = "settled"
	FlowFailed         FlowState = "failed"
)

// transferFlow is the per-session state machine taking a transfer from
// composing through settlement. The reference is generated once at flow
// start and reused across retries of the same instance; validation failures
// return to composing with the form retained, commit failures land in the
// terminal failed state (form also retained so the user can resubmit).
type transferFlow struct {
	mu           sync.Mutex
	state        FlowState
	reference    string
	form         dto.ComposeTransferView
	record       *domain.Transaction
	pinAttempts  int
	lockedUntil  time.Time
	cancelCommit context.CancelFunc
}

func newTransferFlow() (*transferFlow, error) {
	ref, err := utils.NewTransferReference()
	if err != nil {
		return nil, err
	}
	return &transferFlow{state: FlowComposing, reference: ref}, nil
}

// State returns the current step.
func (f *transferFlow) State() FlowState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Reference returns the client-generated transfer id.
func (f *transferFlow) Reference() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reference
}

// Form returns the retained form fields.
func (f *transferFlow) Form() dto.ComposeTransferView {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.form
}

// Record returns the settled transaction, if the flow reached settlement.
func (f *transferFlow) Record() *domain.Transaction {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.record
}

// toReviewing moves composing (or a failed retry) to the review step with a
// validated form. The caller has already enforced the amount and balance
// guards.
func (f *transferFlow) toReviewing(form dto.ComposeTransferView) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch f.state {
	case FlowComposing, FlowReviewing, FlowFailed:
		f.form = form
		f.state = FlowReviewing
		return nil
	default:
		return apperrors.ErrFlowState
	}
}

// confirm moves reviewing to the PIN challenge. Unconditional: the user has
// acknowledged the displayed summary.
func (f *transferFlow) confirm() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != FlowReviewing {
		return apperrors.ErrFlowState
	}
	f.state = FlowAuthorizingPin
	return nil
}

// beginAuthorize checks the 4-digit entry against the identity's transfer
// PIN. A match moves the flow to committing. A mismatch keeps the flow in
// the challenge step and counts toward the lockout; after maxAttempts
// consecutive misses the flow refuses entries until the window elapses.
func (f *transferFlow) beginAuthorize(entry string, storedPIN *string, maxAttempts int, lockout time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != FlowAuthorizingPin {
		return apperrors.ErrFlowState
	}
	now := time.Now()
	if now.Before(f.lockedUntil) {
		return apperrors.ErrPinLocked
	}
	if storedPIN == nil || entry != *storedPIN {
		f.pinAttempts++
		if f.pinAttempts >= maxAttempts {
			f.lockedUntil = now.Add(lockout)
			f.pinAttempts = 0
			return apperrors.ErrPinLocked
		}
		return apperrors.ErrPinMismatch
	}
	f.pinAttempts = 0
	f.state = FlowCommitting
	return nil
}

// setCancel installs the cancel func for the in-flight commit delay.
func (f *transferFlow) setCancel(cancel context.CancelFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelCommit = cancel
}

// settle records the committed transaction and terminates the happy path.
func (f *transferFlow) settle(record domain.Transaction) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record = &record
	f.cancelCommit = nil
	f.state = FlowSettled
}

// fail marks a commit failure. The form is retained so the user can
// resubmit with the same reference.
func (f *transferFlow) fail() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelCommit = nil
	f.state = FlowFailed
}

// cancel aborts the flow back to composing with the form retained. If a
// commit delay is in flight its context is canceled so the ledger writes
// never fire.
func (f *transferFlow) cancel() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch f.state {
	case FlowSettled:
		return apperrors.ErrFlowState
	case FlowCommitting:
		if f.cancelCommit != nil {
			f.cancelCommit()
			f.cancelCommit = nil
		}
	}
	f.state = FlowComposing
	return nil
}

// revertToComposing is the commit-delay abort path; the form stays.
func (f *transferFlow) revertToComposing() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelCommit = nil
	f.state = FlowComposing
}
