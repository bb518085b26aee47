package memory

import (
	"context"
	"sync"
	"time"

	"github.com/api-sage/upi-payment-processor/src/internal/domain"
)

// TransferRepository is the in-process transfer ledger. Ids are assigned
// from a counter under the store mutex, starting at 1, and are never reused.
type TransferRepository struct {
	mu      sync.Mutex
	entries []domain.Transfer
	byID    map[int64]int
	nextID  int64
}

func NewTransferRepository() *TransferRepository {
	return &TransferRepository{
		byID:   make(map[int64]int),
		nextID: 1,
	}
}

func (r *TransferRepository) Record(_ context.Context, transfer domain.Transfer) (domain.Transfer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	transfer.ID = r.nextID
	r.nextID++
	transfer.CreatedAt = time.Now().UTC()

	r.byID[transfer.ID] = len(r.entries)
	r.entries = append(r.entries, transfer)
	return transfer, nil
}

func (r *TransferRepository) GetByID(_ context.Context, id int64) (domain.Transfer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx, ok := r.byID[id]
	if !ok {
		return domain.Transfer{}, domain.ErrRecordNotFound
	}
	return r.entries[idx], nil
}

func (r *TransferRepository) ListAll(_ context.Context) ([]domain.Transfer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.Transfer, len(r.entries))
	copy(out, r.entries)
	return out, nil
}

func (r *TransferRepository) ListBySender(_ context.Context, senderHandle string) ([]domain.Transfer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.Transfer, 0)
	for _, entry := range r.entries {
		if entry.SenderHandle == senderHandle {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (r *TransferRepository) ListByStatus(_ context.Context, status domain.TransferStatus) ([]domain.Transfer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.Transfer, 0)
	for _, entry := range r.entries {
		if entry.Status == status {
			out = append(out, entry)
		}
	}
	return out, nil
}
