package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/api-sage/upi-payment-processor/src/internal/domain"
	"github.com/api-sage/upi-payment-processor/src/internal/logger"
	"github.com/shopspring/decimal"
)

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Upsert(ctx context.Context, account domain.Account) (domain.Account, error) {
	logger.Info("account repository upsert", logger.Fields{
		"handle": account.Handle,
		"status": account.Status,
	})

	const query = `
INSERT INTO accounts (handle, balance, pin_hash, status)
VALUES ($1, $2, $3, $4)
ON CONFLICT (handle) DO UPDATE
SET balance = EXCLUDED.balance,
    pin_hash = EXCLUDED.pin_hash,
    status = EXCLUDED.status,
    updated_at = NOW()
RETURNING id, created_at, updated_at`

	if err := r.db.QueryRowContext(
		ctx,
		query,
		account.Handle,
		account.Balance.StringFixed(2),
		account.PinHash,
		account.Status,
	).Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt); err != nil {
		logger.Error("account repository upsert failed", err, logger.Fields{
			"handle": account.Handle,
		})
		return domain.Account{}, fmt.Errorf("upsert account: %w", err)
	}

	logger.Info("account repository upsert success", logger.Fields{
		"accountId": account.ID,
		"handle":    account.Handle,
	})
	return account, nil
}

func (r *AccountRepository) GetByHandle(ctx context.Context, handle string) (domain.Account, error) {
	const query = `
SELECT id, handle, balance, pin_hash, status, created_at, updated_at
FROM accounts
WHERE handle = $1`

	var (
		account domain.Account
		balance string
		pinHash sql.NullString
	)
	if err := r.db.QueryRowContext(ctx, query, handle).Scan(
		&account.ID,
		&account.Handle,
		&balance,
		&pinHash,
		&account.Status,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Account{}, domain.ErrRecordNotFound
		}
		logger.Error("account repository get failed", err, logger.Fields{
			"handle": handle,
		})
		return domain.Account{}, fmt.Errorf("get account by handle: %w", err)
	}

	parsed, err := decimal.NewFromString(balance)
	if err != nil {
		return domain.Account{}, fmt.Errorf("parse account balance: %w", err)
	}
	account.Balance = parsed
	if pinHash.Valid {
		value := pinHash.String
		account.PinHash = &value
	}

	return account, nil
}

func (r *AccountRepository) Delete(ctx context.Context, handle string) error {
	logger.Info("account repository delete", logger.Fields{
		"handle": handle,
	})

	result, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE handle = $1`, handle)
	if err != nil {
		logger.Error("account repository delete failed", err, logger.Fields{
			"handle": handle,
		})
		return fmt.Errorf("delete account: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete account rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

func (r *AccountRepository) List(ctx context.Context) ([]domain.Account, error) {
	const query = `
SELECT id, handle, balance, pin_hash, status, created_at, updated_at
FROM accounts
ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		logger.Error("account repository list failed", err, nil)
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	accounts := make([]domain.Account, 0)
	for rows.Next() {
		var (
			account domain.Account
			balance string
			pinHash sql.NullString
		)
		if err := rows.Scan(
			&account.ID,
			&account.Handle,
			&balance,
			&pinHash,
			&account.Status,
			&account.CreatedAt,
			&account.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan account row: %w", err)
		}

		parsed, err := decimal.NewFromString(balance)
		if err != nil {
			return nil, fmt.Errorf("parse account balance: %w", err)
		}
		account.Balance = parsed
		if pinHash.Valid {
			value := pinHash.String
			account.PinHash = &value
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate account rows: %w", err)
	}

	return accounts, nil
}

func (r *AccountRepository) TransferBalances(ctx context.Context, senderHandle string, receiverHandle string, amount decimal.Decimal) error {
	logger.Info("account repository transfer balances", logger.Fields{
		"senderHandle":   senderHandle,
		"receiverHandle": receiverHandle,
		"amount":         amount,
	})

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("account repository begin tx failed", err, nil)
		return fmt.Errorf("begin transfer transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const debitQuery = `
UPDATE accounts
SET balance = balance - $2::numeric,
    updated_at = NOW()
WHERE handle = $1
  AND status = 'ACTIVE'
  AND balance >= $2::numeric`
	if err = r.execBalanceUpdate(ctx, tx, debitQuery, senderHandle, amount, true); err != nil {
		return err
	}

	const creditQuery = `
UPDATE accounts
SET balance = balance + $2::numeric,
    updated_at = NOW()
WHERE handle = $1
  AND status = 'ACTIVE'`
	if err = r.execBalanceUpdate(ctx, tx, creditQuery, receiverHandle, amount, false); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		logger.Error("account repository commit tx failed", err, nil)
		return fmt.Errorf("commit transfer transaction: %w", err)
	}

	logger.Info("account repository transfer balances success", logger.Fields{
		"senderHandle":   senderHandle,
		"receiverHandle": receiverHandle,
	})
	return nil
}

func (r *AccountRepository) DebitAccount(ctx context.Context, handle string, amount decimal.Decimal) error {
	logger.Info("account repository debit account", logger.Fields{
		"handle": handle,
		"amount": amount,
	})

	const query = `
UPDATE accounts
SET balance = balance - $2::numeric,
    updated_at = NOW()
WHERE handle = $1
  AND status = 'ACTIVE'
  AND balance >= $2::numeric`

	result, err := r.db.ExecContext(ctx, query, handle, amount.StringFixed(2))
	if err != nil {
		logger.Error("account repository debit account failed", err, logger.Fields{
			"handle": handle,
		})
		return fmt.Errorf("debit account: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("debit account rows affected: %w", err)
	}
	if rows == 0 {
		return r.classifyBalanceFailure(ctx, handle, true)
	}
	return nil
}

func (r *AccountRepository) DepositFunds(ctx context.Context, handle string, amount decimal.Decimal) error {
	logger.Info("account repository deposit funds", logger.Fields{
		"handle": handle,
		"amount": amount,
	})

	const query = `
UPDATE accounts
SET balance = balance + $2::numeric,
    updated_at = NOW()
WHERE handle = $1
  AND status = 'ACTIVE'`

	result, err := r.db.ExecContext(ctx, query, handle, amount.StringFixed(2))
	if err != nil {
		logger.Error("account repository deposit funds failed", err, logger.Fields{
			"handle": handle,
		})
		return fmt.Errorf("deposit funds: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deposit funds rows affected: %w", err)
	}
	if rows == 0 {
		return r.classifyBalanceFailure(ctx, handle, false)
	}
	return nil
}

func (r *AccountRepository) execBalanceUpdate(ctx context.Context, tx *sql.Tx, query string, handle string, amount decimal.Decimal, checksBalance bool) error {
	result, err := tx.ExecContext(ctx, query, handle, amount.StringFixed(2))
	if err != nil {
		return fmt.Errorf("execute balance update: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("balance update rows affected: %w", err)
	}
	if rows == 0 {
		return r.classifyBalanceFailure(ctx, handle, checksBalance)
	}
	return nil
}

// classifyBalanceFailure turns a zero-row conditional update into the
// sentinel that actually applies: missing account, inactive account, or
// insufficient balance.
func (r *AccountRepository) classifyBalanceFailure(ctx context.Context, handle string, checksBalance bool) error {
	account, err := r.GetByHandle(ctx, handle)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return domain.ErrRecordNotFound
		}
		return err
	}
	if !account.IsActive() {
		return domain.ErrAccountInactive
	}
	if checksBalance {
		return domain.ErrInsufficientBalance
	}
	return domain.ErrRecordNotFound
}
