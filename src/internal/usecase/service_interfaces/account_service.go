package service_interfaces

import (
	"context"

	"github.com/api-sage/upi-payment-processor/src/internal/adapter/http/models"
	"github.com/api-sage/upi-payment-processor/src/internal/commons"
)

type AccountService interface {
	OpenAccount(ctx context.Context, req models.OpenAccountRequest) (commons.Response[models.AccountResponse], error)
	GetAccount(ctx context.Context, handle string) (commons.Response[models.AccountResponse], error)
	ListAccounts(ctx context.Context) (commons.Response[[]models.AccountResponse], error)
	DepositFunds(ctx context.Context, req models.DepositFundsRequest) (commons.Response[models.AccountResponse], error)
	DeactivateAccount(ctx context.Context, handle string) (commons.Response[models.AccountResponse], error)
}
