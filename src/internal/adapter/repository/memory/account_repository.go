package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/api-sage/upi-payment-processor/src/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountRepository is the in-process account store. A per-handle lock table
// serializes every read-check-write sequence on a balance; TransferBalances
// acquires both handle locks in lexical order so two opposite transfers
// between the same pair cannot deadlock.
type AccountRepository struct {
	mu       sync.Mutex
	accounts map[string]domain.Account
	order    []string

	lockMu      sync.Mutex
	handleLocks map[string]*sync.Mutex
}

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{
		accounts:    make(map[string]domain.Account),
		handleLocks: make(map[string]*sync.Mutex),
	}
}

func (r *AccountRepository) Upsert(_ context.Context, account domain.Account) (domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	existing, ok := r.accounts[account.Handle]
	if ok {
		if account.ID == "" {
			account.ID = existing.ID
		}
		account.CreatedAt = existing.CreatedAt
	} else {
		if account.ID == "" {
			account.ID = uuid.NewString()
		}
		account.CreatedAt = now
		r.order = append(r.order, account.Handle)
	}
	account.UpdatedAt = now

	r.accounts[account.Handle] = account
	return account, nil
}

func (r *AccountRepository) GetByHandle(_ context.Context, handle string) (domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[handle]
	if !ok {
		return domain.Account{}, domain.ErrRecordNotFound
	}
	return account, nil
}

func (r *AccountRepository) Delete(_ context.Context, handle string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[handle]; !ok {
		return domain.ErrRecordNotFound
	}
	delete(r.accounts, handle)
	for i, h := range r.order {
		if h == handle {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *AccountRepository) List(_ context.Context) ([]domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.Account, 0, len(r.order))
	for _, handle := range r.order {
		out = append(out, r.accounts[handle])
	}
	return out, nil
}

func (r *AccountRepository) TransferBalances(_ context.Context, senderHandle string, receiverHandle string, amount decimal.Decimal) error {
	unlock := r.lockHandles(senderHandle, receiverHandle)
	defer unlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	sender, ok := r.accounts[senderHandle]
	if !ok {
		return domain.ErrRecordNotFound
	}
	receiver, ok := r.accounts[receiverHandle]
	if !ok {
		return domain.ErrRecordNotFound
	}
	if !sender.IsActive() || !receiver.IsActive() {
		return domain.ErrAccountInactive
	}
	if sender.Balance.LessThan(amount) {
		return domain.ErrInsufficientBalance
	}

	now := time.Now().UTC()
	sender.Balance = sender.Balance.Sub(amount)
	sender.UpdatedAt = now
	receiver.Balance = receiver.Balance.Add(amount)
	receiver.UpdatedAt = now

	r.accounts[senderHandle] = sender
	r.accounts[receiverHandle] = receiver
	return nil
}

func (r *AccountRepository) DebitAccount(_ context.Context, handle string, amount decimal.Decimal) error {
	unlock := r.lockHandles(handle)
	defer unlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[handle]
	if !ok {
		return domain.ErrRecordNotFound
	}
	if !account.IsActive() {
		return domain.ErrAccountInactive
	}
	if account.Balance.LessThan(amount) {
		return domain.ErrInsufficientBalance
	}

	account.Balance = account.Balance.Sub(amount)
	account.UpdatedAt = time.Now().UTC()
	r.accounts[handle] = account
	return nil
}

func (r *AccountRepository) DepositFunds(_ context.Context, handle string, amount decimal.Decimal) error {
	unlock := r.lockHandles(handle)
	defer unlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[handle]
	if !ok {
		return domain.ErrRecordNotFound
	}
	if !account.IsActive() {
		return domain.ErrAccountInactive
	}

	account.Balance = account.Balance.Add(amount)
	account.UpdatedAt = time.Now().UTC()
	r.accounts[handle] = account
	return nil
}

// lockHandles acquires the mutation locks for the given handles in lexical
// order and returns a function releasing them in reverse.
func (r *AccountRepository) lockHandles(handles ...string) func() {
	sorted := make([]string, 0, len(handles))
	seen := make(map[string]struct{}, len(handles))
	for _, h := range handles {
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		sorted = append(sorted, h)
	}
	sort.Strings(sorted)

	locks := make([]*sync.Mutex, 0, len(sorted))
	for _, h := range sorted {
		locks = append(locks, r.handleLock(h))
	}
	for _, l := range locks {
		l.Lock()
	}

	return func() {
		for i := len(locks) - 1; i >= 0; i-- {
			locks[i].Unlock()
		}
	}
}

func (r *AccountRepository) handleLock(handle string) *sync.Mutex {
	r.lockMu.Lock()
	defer r.lockMu.Unlock()

	lock, ok := r.handleLocks[handle]
	if !ok {
		lock = &sync.Mutex{}
		r.handleLocks[handle] = lock
	}
	return lock
}
