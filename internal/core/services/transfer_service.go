package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/netbridge-bank/nb_backend/internal/apperrors"
	"github.com/netbridge-bank/nb_backend/internal/core/domain"
	portsrepo "github.com/netbridge-bank/nb_backend/internal/core/ports/repositories"
	portssvc "github.com/netbridge-bank/nb_backend/internal/core/ports/services"
	"github.com/netbridge-bank/nb_backend/internal/dto"
	"github.com/netbridge-bank/nb_backend/internal/middleware"
	"github.com/netbridge-bank/nb_backend/internal/utils"
)

var (
	ErrAmountMinimum       = errors.New("amount must be at least $1")
	ErrInsufficientFunds   = errors.New("insufficient balance")
	ErrUnknownSource       = errors.New("unknown source account")
	ErrConfirmationMissing = errors.New("transfer must be explicitly confirmed")
	ErrNoTransferPin       = errors.New("no transfer PIN is set on this profile")
)

var minimumTransfer = decimal.NewFromInt(1)

// transferService drives the transfer authorization flow and the deposit
// workflow against the session cache and the ledger.
type transferService struct {
	sessions        *sessionService
	txnRepo         portsrepo.TransactionRepository
	notifRepo       portsrepo.NotificationRepository
	processingDelay time.Duration
	maxPinAttempts  int
	pinLockout      time.Duration
}

// TransferOption tunes the service.
type TransferOption func(*transferService)

// WithProcessingDelay sets the loading-indicator delay before the ledger
// writes fire. The delay belongs to the flow instance and is cancelable.
func WithProcessingDelay(d time.Duration) TransferOption {
	return func(s *transferService) { s.processingDelay = d }
}

// WithPinLockout sets the consecutive-miss limit and cooldown for the
// transfer PIN challenge.
func WithPinLockout(maxAttempts int, window time.Duration) TransferOption {
	return func(s *transferService) {
		s.maxPinAttempts = maxAttempts
		s.pinLockout = window
	}
}

// NewTransferService creates the flow service.
func NewTransferService(sessions portssvc.SessionSvcFacade, txnRepo portsrepo.TransactionRepository, notifRepo portsrepo.NotificationRepository, opts ...TransferOption) portssvc.TransferSvcFacade {
	ss, ok := sessions.(*sessionService)
	if !ok {
		panic("transfer service requires the session store service")
	}
	s := &transferService{
		sessions:        ss,
		txnRepo:         txnRepo,
		notifRepo:       notifRepo,
		processingDelay: 2500 * time.Millisecond,
		maxPinAttempts:  3,
		pinLockout:      30 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.TransferSvcFacade = (*transferService)(nil)

// flowResponse snapshots a flow for the UI.
func flowResponse(f *transferFlow) dto.TransferFlowResponse {
	if f == nil {
		return dto.TransferFlowResponse{State: string(FlowComposing)}
	}
	resp := dto.TransferFlowResponse{
		State:     string(f.State()),
		Reference: f.Reference(),
	}
	form := f.Form()
	if form.FromAccount != "" {
		resp.Form = &form
	}
	if rec := f.Record(); rec != nil {
		r := dto.ToTransactionResponse(*rec)
		resp.Record = &r
	}
	return resp
}

// Compose implements portssvc.TransferSvcFacade: validates the full form
// against the session cache and moves the flow to reviewing. Validation
// failures are field-targeted and keep the flow composing.
func (s *transferService) Compose(ctx context.Context, identityID string, req dto.ComposeTransferRequest) (dto.TransferFlowResponse, error) {
	sess, err := s.sessions.sessionFor(ctx, identityID)
	if err != nil {
		return dto.TransferFlowResponse{}, err
	}

	if !req.Confirmed {
		return flowResponse(sess.Flow()), fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrConfirmationMissing)
	}
	if req.Amount.LessThan(minimumTransfer) {
		return flowResponse(sess.Flow()), fmt.Errorf("%w: %s", apperrors.ErrAmountBelowMinimum, ErrAmountMinimum)
	}
	account, ok := sess.AccountByName(req.FromAccount)
	if !ok {
		return flowResponse(sess.Flow()), fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrUnknownSource)
	}
	if req.Amount.GreaterThan(account.Balance) {
		return flowResponse(sess.Flow()), fmt.Errorf("%w: %s", apperrors.ErrInsufficientBalance, ErrInsufficientFunds)
	}

	flow := sess.Flow()
	if flow == nil {
		flow, err = newTransferFlow()
		if err != nil {
			return dto.TransferFlowResponse{}, err
		}
		sess.SetFlow(flow)
	}

	form := dto.ComposeTransferView{
		FromAccount:   req.FromAccount,
		Amount:        req.Amount,
		RecipientBank: req.RecipientBank,
		RecipientName: req.RecipientName,
		AccountNumber: req.AccountNumber,
		RoutingNumber: req.RoutingNumber,
		BankAddress:   req.BankAddress,
		TransferType:  req.TransferType,
		Memo:          req.Memo,
	}
	if err := flow.toReviewing(form); err != nil {
		return flowResponse(flow), err
	}
	return flowResponse(flow), nil
}

// Confirm implements portssvc.TransferSvcFacade: the user acknowledged the
// summary, move on to the PIN challenge.
func (s *transferService) Confirm(ctx context.Context, identityID string) (dto.TransferFlowResponse, error) {
	sess, err := s.sessions.sessionFor(ctx, identityID)
	if err != nil {
		return dto.TransferFlowResponse{}, err
	}
	flow := sess.Flow()
	if flow == nil {
		return flowResponse(nil), apperrors.ErrFlowState
	}
	if err := flow.confirm(); err != nil {
		return flowResponse(flow), err
	}
	return flowResponse(flow), nil
}

// Authorize implements portssvc.TransferSvcFacade: checks the transfer PIN,
// waits out the processing delay (cancelable, tied to this flow instance)
// and commits the settlement as one ledger transaction.
func (s *transferService) Authorize(ctx context.Context, identityID string, req dto.AuthorizeTransferRequest) (dto.TransferFlowResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	sess, err := s.sessions.sessionFor(ctx, identityID)
	if err != nil {
		return dto.TransferFlowResponse{}, err
	}
	flow := sess.Flow()
	if flow == nil {
		return flowResponse(nil), apperrors.ErrFlowState
	}

	identity := sess.Identity()
	if identity.TransferPIN == nil {
		return flowResponse(flow), fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrNoTransferPin)
	}
	if err := flow.beginAuthorize(req.PIN, identity.TransferPIN, s.maxPinAttempts, s.pinLockout); err != nil {
		return flowResponse(flow), err
	}

	// The delay exists purely to drive the loading indicator; canceling the
	// flow (or the request) before it elapses aborts the ledger writes.
	commitCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	flow.setCancel(cancel)

	select {
	case <-time.After(s.processingDelay):
	case <-commitCtx.Done():
		flow.revertToComposing()
		return flowResponse(flow), nil
	}

	form := flow.Form()
	record := domain.Transaction{
		TransactionID: uuid.NewString(),
		Reference:     flow.Reference(),
		Type:          domain.TransferTxn,
		Amount:        form.Amount,
		AccountName:   form.FromAccount,
		Description:   form.Memo,
		Status:        domain.TxnCompleted,
		IdentityID:    identityID,
		Recipient:     form.RecipientName,
		Bank:          form.RecipientBank,
		AccountNumber: form.AccountNumber,
		RoutingNumber: form.RoutingNumber,
		BankAddress:   form.BankAddress,
		TransferType:  form.TransferType,
		CreatedAt:     time.Now().UTC(),
	}
	if record.Description == "" {
		record.Description = "External transfer"
	}

	if err := s.txnRepo.CommitSettlement(commitCtx, record, form.FromAccount, form.Amount.Neg()); err != nil {
		flow.fail()
		logger.Error("Transfer settlement failed", slog.String("reference", record.Reference), slog.String("error", err.Error()))
		return flowResponse(flow), fmt.Errorf("%w: %v", apperrors.ErrCommitFailed, err)
	}

	sess.Apply(
		ApplyBalanceChange{AccountName: form.FromAccount, Change: form.Amount.Neg()},
		AppendTransaction{Record: record},
	)
	flow.settle(record)

	s.appendSettlementNotice(ctx, sess, record)

	logger.Info("Transfer settled",
		slog.String("reference", record.Reference),
		slog.String("account", record.AccountName),
		slog.String("amount", record.Amount.String()),
	)
	return flowResponse(flow), nil
}

// appendSettlementNotice posts an inbox entry for the settled transfer.
// Best-effort: an inbox failure never fails the settlement.
func (s *transferService) appendSettlementNotice(ctx context.Context, sess *Session, record domain.Transaction) {
	notice := domain.Notification{
		NotificationID: uuid.NewString(),
		IdentityID:     record.IdentityID,
		Title:          "Transfer completed",
		Body:           fmt.Sprintf("Your transfer %s of $%s from %s has been completed.", record.Reference, record.Amount.StringFixed(2), record.AccountName),
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.notifRepo.AppendNotification(ctx, notice); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Failed to append settlement notice", slog.String("error", err.Error()))
		return
	}
	sess.Apply(AppendNotification{Notification: notice})
}

// Cancel implements portssvc.TransferSvcFacade: aborts the flow back to
// composing with the form retained. An in-flight commit delay is canceled
// so the ledger writes never fire; a settled flow cannot be canceled.
func (s *transferService) Cancel(ctx context.Context, identityID string) (dto.TransferFlowResponse, error) {
	sess, err := s.sessions.sessionFor(ctx, identityID)
	if err != nil {
		return dto.TransferFlowResponse{}, err
	}
	flow := sess.Flow()
	if flow == nil {
		return flowResponse(nil), nil
	}
	if err := flow.cancel(); err != nil {
		return flowResponse(flow), err
	}
	return flowResponse(flow), nil
}

// Finish implements portssvc.TransferSvcFacade: the explicit acknowledgment
// after settlement. Drops the flow instance so every field (and the PIN
// entry) is reset; idempotent when no flow is active.
func (s *transferService) Finish(ctx context.Context, identityID string) (dto.TransferFlowResponse, error) {
	sess, err := s.sessions.sessionFor(ctx, identityID)
	if err != nil {
		return dto.TransferFlowResponse{}, err
	}
	flow := sess.Flow()
	if flow == nil {
		return flowResponse(nil), nil
	}
	if flow.State() != FlowSettled {
		return flowResponse(flow), apperrors.ErrFlowState
	}
	sess.SetFlow(nil)
	return flowResponse(nil), nil
}

// Current implements portssvc.TransferSvcFacade.
func (s *transferService) Current(ctx context.Context, identityID string) (dto.TransferFlowResponse, error) {
	sess, err := s.sessions.sessionFor(ctx, identityID)
	if err != nil {
		return dto.TransferFlowResponse{}, err
	}
	return flowResponse(sess.Flow()), nil
}

// Deposit implements portssvc.TransferSvcFacade: the simpler credit
// workflow. A positive amount is committed as a deposit record plus a
// credit to the named account, in one ledger transaction.
func (s *transferService) Deposit(ctx context.Context, identityID string, req dto.DepositRequest) (dto.TransactionResponse, error) {
	sess, err := s.sessions.sessionFor(ctx, identityID)
	if err != nil {
		return dto.TransactionResponse{}, err
	}

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return dto.TransactionResponse{}, fmt.Errorf("%w: deposit amount must be positive", apperrors.ErrValidation)
	}
	if _, ok := sess.AccountByName(req.Account); !ok {
		return dto.TransactionResponse{}, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrUnknownSource)
	}

	ref, err := utils.NewTransferReference()
	if err != nil {
		return dto.TransactionResponse{}, err
	}
	record := domain.Transaction{
		TransactionID: uuid.NewString(),
		Reference:     ref,
		Type:          domain.DepositTxn,
		Amount:        req.Amount,
		AccountName:   req.Account,
		Description:   "Funds deposit",
		Status:        domain.TxnCompleted,
		IdentityID:    identityID,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.txnRepo.CommitSettlement(ctx, record, req.Account, req.Amount); err != nil {
		return dto.TransactionResponse{}, fmt.Errorf("%w: %v", apperrors.ErrCommitFailed, err)
	}

	sess.Apply(
		ApplyBalanceChange{AccountName: req.Account, Change: req.Amount},
		AppendTransaction{Record: record},
	)
	return dto.ToTransactionResponse(record), nil
}
