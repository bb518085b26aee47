package repo_interfaces

import (
	"context"

	"github.com/api-sage/upi-payment-processor/src/internal/domain"
	"github.com/shopspring/decimal"
)

type UPITransactionRepository interface {
	Create(ctx context.Context, txn domain.UPITransaction) (domain.UPITransaction, error)
	GetByID(ctx context.Context, id int64) (domain.UPITransaction, error)
	UpdateStatus(ctx context.Context, id int64, status domain.UPITransactionStatus) (domain.UPITransaction, error)
	ListAll(ctx context.Context) ([]domain.UPITransaction, error)
	ListBySender(ctx context.Context, senderHandle string) ([]domain.UPITransaction, error)
	ListByStatus(ctx context.Context, status domain.UPITransactionStatus) ([]domain.UPITransaction, error)

	// Settle debits the sender and flips the transaction to SUCCESS as one
	// unit. Returns ErrInsufficientBalance with everything unchanged when
	// the sender balance no longer covers the amount.
	Settle(ctx context.Context, id int64, senderHandle string, amount decimal.Decimal) (domain.UPITransaction, error)
}
