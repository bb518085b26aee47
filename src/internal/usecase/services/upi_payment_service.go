package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/api-sage/upi-payment-processor/src/internal/adapter/http/models"
	"github.com/api-sage/upi-payment-processor/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/upi-payment-processor/src/internal/commons"
	"github.com/api-sage/upi-payment-processor/src/internal/domain"
	"github.com/api-sage/upi-payment-processor/src/internal/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// UPIPaymentService runs the two-phase UPI flow: InitiatePayment persists a
// PENDING transaction without touching balances, VerifyPayment settles or
// rejects it exactly once. A wrong pin or an insufficient balance at verify
// time moves the transaction to FAILED terminally; it is not retryable.
type UPIPaymentService struct {
	upiRepo     repo_interfaces.UPITransactionRepository
	accountRepo repo_interfaces.AccountRepository
}

func NewUPIPaymentService(
	upiRepo repo_interfaces.UPITransactionRepository,
	accountRepo repo_interfaces.AccountRepository,
) *UPIPaymentService {
	return &UPIPaymentService{
		upiRepo:     upiRepo,
		accountRepo: accountRepo,
	}
}

func (s *UPIPaymentService) InitiatePayment(ctx context.Context, req models.InitiateUPIPaymentRequest) (commons.Response[models.UPITransactionResponse], error) {
	logger.Info("upi payment service initiate request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	txn, response, err := s.createPendingTransaction(ctx, req)
	if err != nil {
		return response, err
	}

	logger.Info("upi payment service initiate success", logger.Fields{
		"transactionId": txn.ID,
		"senderHandle":  txn.SenderHandle,
	})
	return commons.SuccessResponse("Payment initiated", mapUPITransactionToResponse(txn)), nil
}

func (s *UPIPaymentService) VerifyPayment(ctx context.Context, req models.VerifyUPIPaymentRequest) (commons.Response[models.UPITransactionResponse], error) {
	logger.Info("upi payment service verify request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.UPITransactionResponse]("validation failed", err.Error()), err
	}

	txn, err := s.upiRepo.GetByID(ctx, req.TransactionID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.UPITransactionResponse]("Transaction not found"), err
		}
		logger.Error("upi payment service verify lookup failed", err, logger.Fields{
			"transactionId": req.TransactionID,
		})
		return commons.ErrorResponse[models.UPITransactionResponse]("failed to verify payment", "Unable to verify payment right now"), err
	}

	if !txn.IsPending() {
		logger.Info("upi payment service verify rejected non-pending transaction", logger.Fields{
			"transactionId": txn.ID,
			"status":        txn.Status,
		})
		return commons.ErrorResponse[models.UPITransactionResponse]("Transaction already processed"), domain.ErrAlreadyProcessed
	}

	sender, err := s.accountRepo.GetByHandle(ctx, txn.SenderHandle)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.UPITransactionResponse]("Sender account not found"), err
		}
		logger.Error("upi payment service verify sender lookup failed", err, logger.Fields{
			"transactionId": txn.ID,
		})
		return commons.ErrorResponse[models.UPITransactionResponse]("failed to verify payment", "Unable to verify payment right now"), err
	}

	if !s.pinMatches(sender, strings.TrimSpace(req.Pin)) {
		failed, failErr := s.failTransaction(ctx, txn.ID, "invalid pin")
		if failErr != nil {
			return commons.ErrorResponse[models.UPITransactionResponse]("failed to verify payment", "Unable to verify payment right now"), failErr
		}
		return commons.FailureResponse("Invalid pin", mapUPITransactionToResponse(failed)), domain.ErrInvalidPin
	}

	settled, err := s.upiRepo.Settle(ctx, txn.ID, txn.SenderHandle, txn.Amount)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInsufficientBalance), errors.Is(err, domain.ErrAccountInactive):
			failed, failErr := s.failTransaction(ctx, txn.ID, "insufficient balance at settlement")
			if failErr != nil {
				return commons.ErrorResponse[models.UPITransactionResponse]("failed to verify payment", "Unable to verify payment right now"), failErr
			}
			return commons.FailureResponse("Insufficient balance", mapUPITransactionToResponse(failed)), domain.ErrInsufficientBalance
		case errors.Is(err, domain.ErrAlreadyProcessed):
			return commons.ErrorResponse[models.UPITransactionResponse]("Transaction already processed"), err
		case errors.Is(err, domain.ErrRecordNotFound):
			return commons.ErrorResponse[models.UPITransactionResponse]("Transaction not found"), err
		}
		logger.Error("upi payment service settle failed", err, logger.Fields{
			"transactionId": txn.ID,
		})
		return commons.ErrorResponse[models.UPITransactionResponse]("failed to verify payment", "Unable to verify payment right now"), err
	}

	logger.Info("upi payment service verify success", logger.Fields{
		"transactionId": settled.ID,
		"senderHandle":  settled.SenderHandle,
	})
	return commons.SuccessResponse("Payment successful", mapUPITransactionToResponse(settled)), nil
}

// MakePayment is the one-shot flow: the initiation checks followed by
// immediate settlement, with no pin step in between.
func (s *UPIPaymentService) MakePayment(ctx context.Context, req models.InitiateUPIPaymentRequest) (commons.Response[models.UPITransactionResponse], error) {
	logger.Info("upi payment service make payment request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	txn, response, err := s.createPendingTransaction(ctx, req)
	if err != nil {
		return response, err
	}

	settled, err := s.upiRepo.Settle(ctx, txn.ID, txn.SenderHandle, txn.Amount)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientBalance) || errors.Is(err, domain.ErrAccountInactive) {
			failed, failErr := s.failTransaction(ctx, txn.ID, "insufficient balance at settlement")
			if failErr != nil {
				return commons.ErrorResponse[models.UPITransactionResponse]("failed to process payment", "Unable to process payment right now"), failErr
			}
			return commons.FailureResponse("Insufficient balance", mapUPITransactionToResponse(failed)), domain.ErrInsufficientBalance
		}
		logger.Error("upi payment service make payment settle failed", err, logger.Fields{
			"transactionId": txn.ID,
		})
		return commons.ErrorResponse[models.UPITransactionResponse]("failed to process payment", "Unable to process payment right now"), err
	}

	logger.Info("upi payment service make payment success", logger.Fields{
		"transactionId": settled.ID,
		"senderHandle":  settled.SenderHandle,
	})
	return commons.SuccessResponse("UPI payment successful", mapUPITransactionToResponse(settled)), nil
}

func (s *UPIPaymentService) GetTransaction(ctx context.Context, id int64) (commons.Response[models.UPITransactionResponse], error) {
	if id <= 0 {
		return commons.ErrorResponse[models.UPITransactionResponse]("validation failed", "id must be a positive integer"), fmt.Errorf("id must be a positive integer")
	}

	txn, err := s.upiRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.UPITransactionResponse]("Transaction not found"), err
		}
		logger.Error("upi payment service get transaction failed", err, logger.Fields{
			"transactionId": id,
		})
		return commons.ErrorResponse[models.UPITransactionResponse]("failed to get transaction", "Unable to fetch transaction right now"), err
	}

	return commons.SuccessResponse("transaction fetched successfully", mapUPITransactionToResponse(txn)), nil
}

func (s *UPIPaymentService) ListTransactions(ctx context.Context, senderHandle string, status string) (commons.Response[[]models.UPITransactionResponse], error) {
	senderHandle = strings.TrimSpace(senderHandle)
	status = strings.ToUpper(strings.TrimSpace(status))

	var (
		txns []domain.UPITransaction
		err  error
	)
	switch {
	case senderHandle != "":
		txns, err = s.upiRepo.ListBySender(ctx, senderHandle)
	case status != "":
		if !isUPITransactionStatus(status) {
			return commons.ErrorResponse[[]models.UPITransactionResponse]("validation failed", "status must be PENDING, SUCCESS or FAILED"), fmt.Errorf("status must be PENDING, SUCCESS or FAILED")
		}
		txns, err = s.upiRepo.ListByStatus(ctx, domain.UPITransactionStatus(status))
	default:
		txns, err = s.upiRepo.ListAll(ctx)
	}
	if err != nil {
		logger.Error("upi payment service list transactions failed", err, nil)
		return commons.ErrorResponse[[]models.UPITransactionResponse]("failed to list transactions", "Unable to fetch transactions right now"), err
	}

	responses := make([]models.UPITransactionResponse, 0, len(txns))
	for _, txn := range txns {
		responses = append(responses, mapUPITransactionToResponse(txn))
	}
	return commons.SuccessResponse("transactions fetched successfully", responses), nil
}

// createPendingTransaction runs the initiation checks shared by the
// two-phase and one-shot flows. No transaction is persisted unless every
// check passes, and no balance is touched here.
func (s *UPIPaymentService) createPendingTransaction(ctx context.Context, req models.InitiateUPIPaymentRequest) (domain.UPITransaction, commons.Response[models.UPITransactionResponse], error) {
	if err := req.Validate(); err != nil {
		return domain.UPITransaction{}, commons.ErrorResponse[models.UPITransactionResponse]("validation failed", err.Error()), err
	}

	senderHandle := strings.TrimSpace(req.SenderHandle)
	receiverHandle := strings.TrimSpace(req.ReceiverHandle)

	if !models.IsUPIHandle(receiverHandle) {
		return domain.UPITransaction{}, commons.ErrorResponse[models.UPITransactionResponse]("Invalid UPI handle format", "receiverHandle must match local@provider"), domain.ErrInvalidUPIHandle
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return domain.UPITransaction{}, commons.ErrorResponse[models.UPITransactionResponse]("Invalid amount", "amount must be greater than zero"), domain.ErrInvalidAmount
	}

	sender, err := s.accountRepo.GetByHandle(ctx, senderHandle)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return domain.UPITransaction{}, commons.ErrorResponse[models.UPITransactionResponse]("Sender account not found"), err
		}
		logger.Error("upi payment service sender lookup failed", err, logger.Fields{
			"senderHandle": senderHandle,
		})
		return domain.UPITransaction{}, commons.ErrorResponse[models.UPITransactionResponse]("failed to initiate payment", "Unable to initiate payment right now"), err
	}

	amount := req.Amount.Round(2)
	if sender.Balance.LessThan(amount) {
		return domain.UPITransaction{}, commons.ErrorResponse[models.UPITransactionResponse]("Insufficient balance"), domain.ErrInsufficientBalance
	}

	txn := domain.UPITransaction{
		Reference:      uuid.NewString(),
		SenderHandle:   senderHandle,
		ReceiverHandle: receiverHandle,
		Amount:         amount,
		Status:         domain.UPITransactionStatusPending,
	}
	if remarks := strings.TrimSpace(req.Remarks); remarks != "" {
		txn.Remarks = &remarks
	}

	created, err := s.upiRepo.Create(ctx, txn)
	if err != nil {
		logger.Error("upi payment service create transaction failed", err, logger.Fields{
			"senderHandle": senderHandle,
		})
		return domain.UPITransaction{}, commons.ErrorResponse[models.UPITransactionResponse]("failed to initiate payment", "Unable to initiate payment right now"), err
	}

	return created, commons.Response[models.UPITransactionResponse]{}, nil
}

func (s *UPIPaymentService) failTransaction(ctx context.Context, id int64, reason string) (domain.UPITransaction, error) {
	logger.Info("upi payment service marking transaction failed", logger.Fields{
		"transactionId": id,
		"reason":        reason,
	})

	failed, err := s.upiRepo.UpdateStatus(ctx, id, domain.UPITransactionStatusFailed)
	if err != nil {
		logger.Error("upi payment service mark failed errored", err, logger.Fields{
			"transactionId": id,
		})
		return domain.UPITransaction{}, err
	}
	return failed, nil
}

func (s *UPIPaymentService) pinMatches(account domain.Account, pin string) bool {
	if account.PinHash == nil || pin == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(*account.PinHash), []byte(pin)) == nil
}

func isUPITransactionStatus(status string) bool {
	switch domain.UPITransactionStatus(status) {
	case domain.UPITransactionStatusPending, domain.UPITransactionStatusSuccess, domain.UPITransactionStatusFailed:
		return true
	}
	return false
}

func mapUPITransactionToResponse(txn domain.UPITransaction) models.UPITransactionResponse {
	return models.UPITransactionResponse{
		ID:             txn.ID,
		Reference:      txn.Reference,
		SenderHandle:   txn.SenderHandle,
		ReceiverHandle: txn.ReceiverHandle,
		Amount:         txn.Amount.StringFixed(2),
		Remarks:        valueOrEmpty(txn.Remarks),
		Status:         string(txn.Status),
		CreatedAt:      txn.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      txn.UpdatedAt.Format(time.RFC3339),
	}
}
