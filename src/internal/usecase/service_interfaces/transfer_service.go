package service_interfaces

import (
	"context"

	"github.com/api-sage/upi-payment-processor/src/internal/adapter/http/models"
	"github.com/api-sage/upi-payment-processor/src/internal/commons"
)

type TransferService interface {
	TransferFunds(ctx context.Context, req models.TransferRequest) (commons.Response[models.TransferResponse], error)
	GetTransfer(ctx context.Context, id int64) (commons.Response[models.TransferResponse], error)
	ListTransfers(ctx context.Context, senderHandle string, status string) (commons.Response[[]models.TransferResponse], error)
}
