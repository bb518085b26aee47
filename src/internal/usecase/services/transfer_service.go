package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/api-sage/upi-payment-processor/src/internal/adapter/http/models"
	"github.com/api-sage/upi-payment-processor/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/upi-payment-processor/src/internal/commons"
	"github.com/api-sage/upi-payment-processor/src/internal/domain"
	"github.com/api-sage/upi-payment-processor/src/internal/logger"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

const (
	failureReasonInvalidAmount       = "amount must be greater than zero"
	failureReasonSelfTransfer        = "sender and receiver cannot be the same account"
	failureReasonSenderNotFound      = "sender account not found"
	failureReasonReceiverNotFound    = "receiver account not found"
	failureReasonAccountInactive     = "account is not active"
	failureReasonInsufficientBalance = "insufficient balance"
)

// TransferService moves funds between two bank accounts. Business-rule
// failures are soft: the attempt is recorded in the ledger with status
// FAILED and no error is returned. Errors surface only for storage faults.
type TransferService struct {
	transferRepo repo_interfaces.TransferRepository
	accountRepo  repo_interfaces.AccountRepository
}

func NewTransferService(
	transferRepo repo_interfaces.TransferRepository,
	accountRepo repo_interfaces.AccountRepository,
) *TransferService {
	return &TransferService{
		transferRepo: transferRepo,
		accountRepo:  accountRepo,
	}
}

var transferRefCounter uint32

func (s *TransferService) TransferFunds(ctx context.Context, req models.TransferRequest) (commons.Response[models.TransferResponse], error) {
	logger.Info("transfer service transfer funds request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.TransferResponse]("validation failed", err.Error()), err
	}

	senderHandle := strings.TrimSpace(req.SenderHandle)
	receiverHandle := strings.TrimSpace(req.ReceiverHandle)
	amount := req.Amount.Round(2)

	failureReason, err := s.applyTransfer(ctx, senderHandle, receiverHandle, amount)
	if err != nil {
		return commons.ErrorResponse[models.TransferResponse]("failed to process transfer", "Unable to process transfer right now"), err
	}

	entry := domain.Transfer{
		SenderHandle:   senderHandle,
		ReceiverHandle: receiverHandle,
		Amount:         amount,
		Status:         domain.TransferStatusSuccess,
	}
	if narration := strings.TrimSpace(req.Narration); narration != "" {
		entry.Narration = &narration
	}
	if failureReason != "" {
		entry.Status = domain.TransferStatusFailed
		entry.FailureReason = &failureReason
	}

	recorded, err := s.recordWithReference(ctx, entry)
	if err != nil {
		logger.Error("transfer service record ledger entry failed", err, logger.Fields{
			"senderHandle":   senderHandle,
			"receiverHandle": receiverHandle,
		})
		return commons.ErrorResponse[models.TransferResponse]("failed to process transfer", "Unable to record transfer right now"), err
	}

	response := mapTransferToResponse(recorded)
	if recorded.Status == domain.TransferStatusFailed {
		logger.Info("transfer service transfer recorded as failed", logger.Fields{
			"transferId": recorded.ID,
			"reason":     failureReason,
		})
		return commons.FailureResponse(failureReason, response), nil
	}

	logger.Info("transfer service transfer funds success", logger.Fields{
		"transferId":     recorded.ID,
		"senderHandle":   senderHandle,
		"receiverHandle": receiverHandle,
	})
	return commons.SuccessResponse("Transfer successful", response), nil
}

// applyTransfer runs the business checks and, when they all pass, the
// atomic debit+credit. A non-empty reason means the attempt failed without
// touching either balance; a non-nil error means storage is unavailable.
func (s *TransferService) applyTransfer(ctx context.Context, senderHandle string, receiverHandle string, amount decimal.Decimal) (string, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return failureReasonInvalidAmount, nil
	}
	if senderHandle == receiverHandle {
		return failureReasonSelfTransfer, nil
	}

	sender, err := s.accountRepo.GetByHandle(ctx, senderHandle)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return failureReasonSenderNotFound, nil
		}
		return "", err
	}
	receiver, err := s.accountRepo.GetByHandle(ctx, receiverHandle)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return failureReasonReceiverNotFound, nil
		}
		return "", err
	}

	if !sender.IsActive() || !receiver.IsActive() {
		return failureReasonAccountInactive, nil
	}
	if sender.Balance.LessThan(amount) {
		return failureReasonInsufficientBalance, nil
	}

	if err := s.accountRepo.TransferBalances(ctx, senderHandle, receiverHandle, amount); err != nil {
		// The pre-checks can race with a concurrent debit; the posting
		// re-checks inside its critical section and reports the loser.
		switch {
		case errors.Is(err, domain.ErrInsufficientBalance):
			return failureReasonInsufficientBalance, nil
		case errors.Is(err, domain.ErrRecordNotFound):
			return failureReasonSenderNotFound, nil
		case errors.Is(err, domain.ErrAccountInactive):
			return failureReasonAccountInactive, nil
		}
		return "", err
	}

	return "", nil
}

func (s *TransferService) recordWithReference(ctx context.Context, entry domain.Transfer) (domain.Transfer, error) {
	var recorded domain.Transfer
	var err error
	for attempt := 0; attempt < 5; attempt++ {
		entry.Reference = generateTransferReference()
		recorded, err = s.transferRepo.Record(ctx, entry)
		if err == nil {
			return recorded, nil
		}
		if !isUniqueViolation(err) {
			return domain.Transfer{}, err
		}
	}
	return domain.Transfer{}, err
}

func (s *TransferService) GetTransfer(ctx context.Context, id int64) (commons.Response[models.TransferResponse], error) {
	logger.Info("transfer service get transfer request", logger.Fields{
		"transferId": id,
	})

	if id <= 0 {
		return commons.ErrorResponse[models.TransferResponse]("validation failed", "id must be a positive integer"), fmt.Errorf("id must be a positive integer")
	}

	transfer, err := s.transferRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.TransferResponse]("Transfer not found"), err
		}
		logger.Error("transfer service get transfer failed", err, logger.Fields{
			"transferId": id,
		})
		return commons.ErrorResponse[models.TransferResponse]("failed to get transfer", "Unable to fetch transfer right now"), err
	}

	return commons.SuccessResponse("transfer fetched successfully", mapTransferToResponse(transfer)), nil
}

func (s *TransferService) ListTransfers(ctx context.Context, senderHandle string, status string) (commons.Response[[]models.TransferResponse], error) {
	logger.Info("transfer service list transfers request", logger.Fields{
		"senderHandle": senderHandle,
		"status":       status,
	})

	senderHandle = strings.TrimSpace(senderHandle)
	status = strings.ToUpper(strings.TrimSpace(status))

	var (
		transfers []domain.Transfer
		err       error
	)
	switch {
	case senderHandle != "":
		transfers, err = s.transferRepo.ListBySender(ctx, senderHandle)
	case status != "":
		if status != string(domain.TransferStatusSuccess) && status != string(domain.TransferStatusFailed) {
			return commons.ErrorResponse[[]models.TransferResponse]("validation failed", "status must be SUCCESS or FAILED"), fmt.Errorf("status must be SUCCESS or FAILED")
		}
		transfers, err = s.transferRepo.ListByStatus(ctx, domain.TransferStatus(status))
	default:
		transfers, err = s.transferRepo.ListAll(ctx)
	}
	if err != nil {
		logger.Error("transfer service list transfers failed", err, nil)
		return commons.ErrorResponse[[]models.TransferResponse]("failed to list transfers", "Unable to fetch transfers right now"), err
	}

	responses := make([]models.TransferResponse, 0, len(transfers))
	for _, transfer := range transfers {
		responses = append(responses, mapTransferToResponse(transfer))
	}
	return commons.SuccessResponse("transfers fetched successfully", responses), nil
}

func mapTransferToResponse(transfer domain.Transfer) models.TransferResponse {
	return models.TransferResponse{
		ID:             transfer.ID,
		Reference:      transfer.Reference,
		SenderHandle:   transfer.SenderHandle,
		ReceiverHandle: transfer.ReceiverHandle,
		Amount:         transfer.Amount.StringFixed(2),
		Narration:      valueOrEmpty(transfer.Narration),
		FailureReason:  valueOrEmpty(transfer.FailureReason),
		Status:         string(transfer.Status),
		CreatedAt:      transfer.CreatedAt.Format(time.RFC3339),
	}
}

func generateTransferReference() string {
	now := time.Now().UTC()
	base := now.Format("20060102150405") + fmt.Sprintf("%09d", now.Nanosecond())
	counter := atomic.AddUint32(&transferRefCounter, 1) % 10000000
	suffix := fmt.Sprintf("%07d", counter)
	return base + suffix
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == "23505"
	}
	return false
}

func valueOrEmpty(value *string) string {
	if value == nil {
		return ""
	}
	return strings.TrimSpace(*value)
}
