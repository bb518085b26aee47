package service_interfaces

import (
	"context"

	"github.com/api-sage/upi-payment-processor/src/internal/adapter/http/models"
	"github.com/api-sage/upi-payment-processor/src/internal/commons"
)

type UPIPaymentService interface {
	InitiatePayment(ctx context.Context, req models.InitiateUPIPaymentRequest) (commons.Response[models.UPITransactionResponse], error)
	VerifyPayment(ctx context.Context, req models.VerifyUPIPaymentRequest) (commons.Response[models.UPITransactionResponse], error)
	MakePayment(ctx context.Context, req models.InitiateUPIPaymentRequest) (commons.Response[models.UPITransactionResponse], error)
	GetTransaction(ctx context.Context, id int64) (commons.Response[models.UPITransactionResponse], error)
	ListTransactions(ctx context.Context, senderHandle string, status string) (commons.Response[[]models.UPITransactionResponse], error)
}
