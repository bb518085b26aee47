package memory

import (
	"context"
	"sync"
	"time"

	"github.com/api-sage/upi-payment-processor/src/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UPITransactionRepository stores UPI transactions and settles them against
// the in-process account store. Settle re-checks the PENDING status under
// the store mutex so a transaction can be settled at most once even under
// concurrent verify calls.
type UPITransactionRepository struct {
	mu       sync.Mutex
	txns     map[int64]domain.UPITransaction
	order    []int64
	nextID   int64
	accounts *AccountRepository
}

func NewUPITransactionRepository(accounts *AccountRepository) *UPITransactionRepository {
	return &UPITransactionRepository{
		txns:     make(map[int64]domain.UPITransaction),
		nextID:   1,
		accounts: accounts,
	}
}

func (r *UPITransactionRepository) Create(_ context.Context, txn domain.UPITransaction) (domain.UPITransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	txn.ID = r.nextID
	r.nextID++
	if txn.Reference == "" {
		txn.Reference = uuid.NewString()
	}
	txn.CreatedAt = now
	txn.UpdatedAt = now

	r.txns[txn.ID] = txn
	r.order = append(r.order, txn.ID)
	return txn, nil
}

func (r *UPITransactionRepository) GetByID(_ context.Context, id int64) (domain.UPITransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	txn, ok := r.txns[id]
	if !ok {
		return domain.UPITransaction{}, domain.ErrRecordNotFound
	}
	return txn, nil
}

func (r *UPITransactionRepository) UpdateStatus(_ context.Context, id int64, status domain.UPITransactionStatus) (domain.UPITransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	txn, ok := r.txns[id]
	if !ok {
		return domain.UPITransaction{}, domain.ErrRecordNotFound
	}

	txn.Status = status
	txn.UpdatedAt = time.Now().UTC()
	r.txns[id] = txn
	return txn, nil
}

func (r *UPITransactionRepository) ListAll(_ context.Context) ([]domain.UPITransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.UPITransaction, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.txns[id])
	}
	return out, nil
}

func (r *UPITransactionRepository) ListBySender(_ context.Context, senderHandle string) ([]domain.UPITransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.UPITransaction, 0)
	for _, id := range r.order {
		if r.txns[id].SenderHandle == senderHandle {
			out = append(out, r.txns[id])
		}
	}
	return out, nil
}

func (r *UPITransactionRepository) ListByStatus(_ context.Context, status domain.UPITransactionStatus) ([]domain.UPITransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.UPITransaction, 0)
	for _, id := range r.order {
		if r.txns[id].Status == status {
			out = append(out, r.txns[id])
		}
	}
	return out, nil
}

func (r *UPITransactionRepository) Settle(ctx context.Context, id int64, senderHandle string, amount decimal.Decimal) (domain.UPITransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	txn, ok := r.txns[id]
	if !ok {
		return domain.UPITransaction{}, domain.ErrRecordNotFound
	}
	if !txn.IsPending() {
		return domain.UPITransaction{}, domain.ErrAlreadyProcessed
	}

	if err := r.accounts.DebitAccount(ctx, senderHandle, amount); err != nil {
		return domain.UPITransaction{}, err
	}

	txn.Status = domain.UPITransactionStatusSuccess
	txn.UpdatedAt = time.Now().UTC()
	r.txns[id] = txn
	return txn, nil
}
