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
	"golang.org/x/crypto/bcrypt"
)

type AccountService struct {
	accountRepo repo_interfaces.AccountRepository
}

func NewAccountService(accountRepo repo_interfaces.AccountRepository) *AccountService {
	return &AccountService{accountRepo: accountRepo}
}

func (s *AccountService) OpenAccount(ctx context.Context, req models.OpenAccountRequest) (commons.Response[models.AccountResponse], error) {
	logger.Info("account service open account request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("account service open account validation failed", err, nil)
		return commons.ErrorResponse[models.AccountResponse]("validation failed", err.Error()), err
	}

	handle := strings.TrimSpace(req.Handle)
	if handle == "" {
		handle = generateAccountNumber()
	}

	if _, err := s.accountRepo.GetByHandle(ctx, handle); err == nil {
		err := fmt.Errorf("an account with handle %s already exists", handle)
		return commons.ErrorResponse[models.AccountResponse]("validation failed", err.Error()), err
	} else if !errors.Is(err, domain.ErrRecordNotFound) {
		logger.Error("account service open account existing handle check failed", err, logger.Fields{
			"handle": handle,
		})
		return commons.ErrorResponse[models.AccountResponse]("failed to open account", "Unable to open account right now"), err
	}

	account := domain.Account{
		Handle:  handle,
		Balance: req.InitialDeposit.Round(2),
		Status:  domain.AccountStatusActive,
	}

	if pin := strings.TrimSpace(req.Pin); pin != "" {
		hashed, err := hashPin(pin)
		if err != nil {
			logger.Error("account service open account hash pin failed", err, nil)
			return commons.ErrorResponse[models.AccountResponse]("failed to open account", "failed to hash pin"), err
		}
		account.PinHash = &hashed
	}

	created, err := s.accountRepo.Upsert(ctx, account)
	if err != nil {
		logger.Error("account service open account repository failed", err, logger.Fields{
			"handle": handle,
		})
		return commons.ErrorResponse[models.AccountResponse]("failed to open account", "Unable to open account right now"), err
	}

	logger.Info("account service open account success", logger.Fields{
		"accountId": created.ID,
		"handle":    created.Handle,
	})
	return commons.SuccessResponse("account opened successfully", mapAccountToResponse(created)), nil
}

func (s *AccountService) GetAccount(ctx context.Context, handle string) (commons.Response[models.AccountResponse], error) {
	logger.Info("account service get account request", logger.Fields{
		"handle": handle,
	})

	handle = strings.TrimSpace(handle)
	if handle == "" {
		return commons.ErrorResponse[models.AccountResponse]("validation failed", "handle is required"), fmt.Errorf("handle is required")
	}

	account, err := s.accountRepo.GetByHandle(ctx, handle)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.AccountResponse]("Account not found"), err
		}
		logger.Error("account service get account failed", err, logger.Fields{
			"handle": handle,
		})
		return commons.ErrorResponse[models.AccountResponse]("failed to get account", "Unable to fetch account right now"), err
	}

	return commons.SuccessResponse("account fetched successfully", mapAccountToResponse(account)), nil
}

func (s *AccountService) ListAccounts(ctx context.Context) (commons.Response[[]models.AccountResponse], error) {
	accounts, err := s.accountRepo.List(ctx)
	if err != nil {
		logger.Error("account service list accounts failed", err, nil)
		return commons.ErrorResponse[[]models.AccountResponse]("failed to list accounts", "Unable to fetch accounts right now"), err
	}

	responses := make([]models.AccountResponse, 0, len(accounts))
	for _, account := range accounts {
		responses = append(responses, mapAccountToResponse(account))
	}
	return commons.SuccessResponse("accounts fetched successfully", responses), nil
}

func (s *AccountService) DepositFunds(ctx context.Context, req models.DepositFundsRequest) (commons.Response[models.AccountResponse], error) {
	logger.Info("account service deposit funds request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("account service deposit funds validation failed", err, nil)
		return commons.ErrorResponse[models.AccountResponse]("validation failed", err.Error()), err
	}

	handle := strings.TrimSpace(req.Handle)
	if err := s.accountRepo.DepositFunds(ctx, handle, req.Amount.Round(2)); err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			return commons.ErrorResponse[models.AccountResponse]("Account not found"), err
		case errors.Is(err, domain.ErrAccountInactive):
			return commons.ErrorResponse[models.AccountResponse]("validation failed", "account is not active"), err
		}
		logger.Error("account service deposit funds failed", err, logger.Fields{
			"handle": handle,
		})
		return commons.ErrorResponse[models.AccountResponse]("failed to deposit funds", "Unable to deposit funds right now"), err
	}

	account, err := s.accountRepo.GetByHandle(ctx, handle)
	if err != nil {
		logger.Error("account service deposit funds reload failed", err, logger.Fields{
			"handle": handle,
		})
		return commons.ErrorResponse[models.AccountResponse]("failed to deposit funds", "Unable to fetch account right now"), err
	}

	logger.Info("account service deposit funds success", logger.Fields{
		"handle":  handle,
		"balance": account.Balance,
	})
	return commons.SuccessResponse("deposit successful", mapAccountToResponse(account)), nil
}

// DeactivateAccount is the soft delete: ledger entries keep referencing the
// handle, so the record stays and only stops accepting fund movements.
func (s *AccountService) DeactivateAccount(ctx context.Context, handle string) (commons.Response[models.AccountResponse], error) {
	logger.Info("account service deactivate account request", logger.Fields{
		"handle": handle,
	})

	handle = strings.TrimSpace(handle)
	if handle == "" {
		return commons.ErrorResponse[models.AccountResponse]("validation failed", "handle is required"), fmt.Errorf("handle is required")
	}

	account, err := s.accountRepo.GetByHandle(ctx, handle)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.AccountResponse]("Account not found"), err
		}
		logger.Error("account service deactivate lookup failed", err, logger.Fields{
			"handle": handle,
		})
		return commons.ErrorResponse[models.AccountResponse]("failed to deactivate account", "Unable to deactivate account right now"), err
	}

	account.Status = domain.AccountStatusInactive
	updated, err := s.accountRepo.Upsert(ctx, account)
	if err != nil {
		logger.Error("account service deactivate update failed", err, logger.Fields{
			"handle": handle,
		})
		return commons.ErrorResponse[models.AccountResponse]("failed to deactivate account", "Unable to deactivate account right now"), err
	}

	logger.Info("account service deactivate account success", logger.Fields{
		"handle": handle,
	})
	return commons.SuccessResponse("account deactivated successfully", mapAccountToResponse(updated)), nil
}

func mapAccountToResponse(account domain.Account) models.AccountResponse {
	return models.AccountResponse{
		ID:        account.ID,
		Handle:    account.Handle,
		Balance:   account.Balance.StringFixed(2),
		HasPin:    account.PinHash != nil,
		Status:    string(account.Status),
		CreatedAt: account.CreatedAt.Format(time.RFC3339),
		UpdatedAt: account.UpdatedAt.Format(time.RFC3339),
	}
}

func generateAccountNumber() string {
	return fmt.Sprintf("%010d", time.Now().UnixNano()%10_000_000_000)
}

func hashPin(pin string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash pin: %w", err)
	}
	return string(hashed), nil
}
