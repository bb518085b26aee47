package repo_interfaces

import (
	"context"

	"github.com/api-sage/upi-payment-processor/src/internal/domain"
)

// TransferRepository is the append-only transfer ledger. Record assigns the
// next sequential id starting at 1 (any caller-supplied id is ignored) and
// stamps the entry; entries are never mutated or removed afterwards.
type TransferRepository interface {
	Record(ctx context.Context, transfer domain.Transfer) (domain.Transfer, error)
	GetByID(ctx context.Context, id int64) (domain.Transfer, error)
	ListAll(ctx context.Context) ([]domain.Transfer, error)
	ListBySender(ctx context.Context, senderHandle string) ([]domain.Transfer, error)
	ListByStatus(ctx context.Context, status domain.TransferStatus) ([]domain.Transfer, error)
}
