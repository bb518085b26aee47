package repo_interfaces

import (
	"context"

	"github.com/api-sage/upi-payment-processor/src/internal/domain"
	"github.com/shopspring/decimal"
)

// AccountRepository owns account balance state. Upsert overwrites any
// existing record with the same handle. The balance-mutation methods are
// the only way engines touch balances; each one is atomic in the backing
// store so a check-and-debit can never be observed half-applied.
type AccountRepository interface {
	Upsert(ctx context.Context, account domain.Account) (domain.Account, error)
	GetByHandle(ctx context.Context, handle string) (domain.Account, error)
	Delete(ctx context.Context, handle string) error
	List(ctx context.Context) ([]domain.Account, error)

	// TransferBalances debits sender and credits receiver as one unit.
	// Returns ErrRecordNotFound, ErrAccountInactive or
	// ErrInsufficientBalance without mutating either balance.
	TransferBalances(ctx context.Context, senderHandle string, receiverHandle string, amount decimal.Decimal) error
	DebitAccount(ctx context.Context, handle string, amount decimal.Decimal) error
	DepositFunds(ctx context.Context, handle string, amount decimal.Decimal) error
}
