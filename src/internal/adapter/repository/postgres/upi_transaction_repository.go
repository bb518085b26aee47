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

type UPITransactionRepository struct {
	db *sql.DB
}

func NewUPITransactionRepository(db *sql.DB) *UPITransactionRepository {
	return &UPITransactionRepository{db: db}
}

func (r *UPITransactionRepository) Create(ctx context.Context, txn domain.UPITransaction) (domain.UPITransaction, error) {
	logger.Info("upi transaction repository create", logger.Fields{
		"reference":      txn.Reference,
		"senderHandle":   txn.SenderHandle,
		"receiverHandle": txn.ReceiverHandle,
		"status":         txn.Status,
	})

	const query = `
INSERT INTO upi_transactions (reference, sender_handle, receiver_handle, amount, remarks, status)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, created_at, updated_at`

	if err := r.db.QueryRowContext(
		ctx,
		query,
		txn.Reference,
		txn.SenderHandle,
		txn.ReceiverHandle,
		txn.Amount.StringFixed(2),
		txn.Remarks,
		txn.Status,
	).Scan(&txn.ID, &txn.CreatedAt, &txn.UpdatedAt); err != nil {
		logger.Error("upi transaction repository create failed", err, logger.Fields{
			"reference": txn.Reference,
		})
		return domain.UPITransaction{}, fmt.Errorf("create upi transaction: %w", err)
	}

	logger.Info("upi transaction repository create success", logger.Fields{
		"transactionId": txn.ID,
		"reference":     txn.Reference,
	})
	return txn, nil
}

func (r *UPITransactionRepository) GetByID(ctx context.Context, id int64) (domain.UPITransaction, error) {
	const query = `
SELECT id, reference, sender_handle, receiver_handle, amount, remarks, status, created_at, updated_at
FROM upi_transactions
WHERE id = $1`

	txn, err := scanUPITransaction(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.UPITransaction{}, domain.ErrRecordNotFound
		}
		logger.Error("upi transaction repository get failed", err, logger.Fields{
			"transactionId": id,
		})
		return domain.UPITransaction{}, fmt.Errorf("get upi transaction by id: %w", err)
	}
	return txn, nil
}

func (r *UPITransactionRepository) UpdateStatus(ctx context.Context, id int64, status domain.UPITransactionStatus) (domain.UPITransaction, error) {
	logger.Info("upi transaction repository update status", logger.Fields{
		"transactionId": id,
		"status":        status,
	})

	const query = `
UPDATE upi_transactions
SET status = $2,
    updated_at = NOW()
WHERE id = $1
RETURNING id, reference, sender_handle, receiver_handle, amount, remarks, status, created_at, updated_at`

	txn, err := scanUPITransaction(r.db.QueryRowContext(ctx, query, id, status))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.UPITransaction{}, domain.ErrRecordNotFound
		}
		logger.Error("upi transaction repository update status failed", err, logger.Fields{
			"transactionId": id,
		})
		return domain.UPITransaction{}, fmt.Errorf("update upi transaction status: %w", err)
	}
	return txn, nil
}

func (r *UPITransactionRepository) ListAll(ctx context.Context) ([]domain.UPITransaction, error) {
	const query = `
SELECT id, reference, sender_handle, receiver_handle, amount, remarks, status, created_at, updated_at
FROM upi_transactions
ORDER BY id`

	return r.queryTransactions(ctx, query)
}

func (r *UPITransactionRepository) ListBySender(ctx context.Context, senderHandle string) ([]domain.UPITransaction, error) {
	const query = `
SELECT id, reference, sender_handle, receiver_handle, amount, remarks, status, created_at, updated_at
FROM upi_transactions
WHERE sender_handle = $1
ORDER BY id`

	return r.queryTransactions(ctx, query, senderHandle)
}

func (r *UPITransactionRepository) ListByStatus(ctx context.Context, status domain.UPITransactionStatus) ([]domain.UPITransaction, error) {
	const query = `
SELECT id, reference, sender_handle, receiver_handle, amount, remarks, status, created_at, updated_at
FROM upi_transactions
WHERE status = $1
ORDER BY id`

	return r.queryTransactions(ctx, query, status)
}

// Settle flips a PENDING transaction to SUCCESS and debits the sender in
// one database transaction, so the status transition and the balance
// mutation commit together or not at all.
func (r *UPITransactionRepository) Settle(ctx context.Context, id int64, senderHandle string, amount decimal.Decimal) (domain.UPITransaction, error) {
	logger.Info("upi transaction repository settle", logger.Fields{
		"transactionId": id,
		"senderHandle":  senderHandle,
		"amount":        amount,
	})

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("upi transaction repository begin tx failed", err, nil)
		return domain.UPITransaction{}, fmt.Errorf("begin settle transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const flipQuery = `
UPDATE upi_transactions
SET status = $2,
    updated_at = NOW()
WHERE id = $1
  AND status = $3
RETURNING id, reference, sender_handle, receiver_handle, amount, remarks, status, created_at, updated_at`

	var txn domain.UPITransaction
	txn, err = scanUPITransaction(tx.QueryRowContext(
		ctx,
		flipQuery,
		id,
		domain.UPITransactionStatusSuccess,
		domain.UPITransactionStatusPending,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// The guarded update matched nothing: either the transaction
			// does not exist or it already left PENDING.
			if _, getErr := r.GetByID(ctx, id); getErr != nil {
				err = getErr
			} else {
				err = domain.ErrAlreadyProcessed
			}
		}
		return domain.UPITransaction{}, err
	}

	const debitQuery = `
UPDATE accounts
SET balance = balance - $2::numeric,
    updated_at = NOW()
WHERE handle = $1
  AND status = 'ACTIVE'
  AND balance >= $2::numeric`

	var result sql.Result
	result, err = tx.ExecContext(ctx, debitQuery, senderHandle, amount.StringFixed(2))
	if err != nil {
		return domain.UPITransaction{}, fmt.Errorf("settle debit sender: %w", err)
	}
	var rows int64
	rows, err = result.RowsAffected()
	if err != nil {
		return domain.UPITransaction{}, fmt.Errorf("settle debit rows affected: %w", err)
	}
	if rows == 0 {
		err = domain.ErrInsufficientBalance
		return domain.UPITransaction{}, err
	}

	if err = tx.Commit(); err != nil {
		logger.Error("upi transaction repository commit settle failed", err, logger.Fields{
			"transactionId": id,
		})
		return domain.UPITransaction{}, fmt.Errorf("commit settle transaction: %w", err)
	}

	logger.Info("upi transaction repository settle success", logger.Fields{
		"transactionId": txn.ID,
		"senderHandle":  senderHandle,
	})
	return txn, nil
}

func (r *UPITransactionRepository) queryTransactions(ctx context.Context, query string, args ...any) ([]domain.UPITransaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error("upi transaction repository list failed", err, nil)
		return nil, fmt.Errorf("list upi transactions: %w", err)
	}
	defer rows.Close()

	txns := make([]domain.UPITransaction, 0)
	for rows.Next() {
		txn, err := scanUPITransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan upi transaction row: %w", err)
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate upi transaction rows: %w", err)
	}

	return txns, nil
}

func scanUPITransaction(row rowScanner) (domain.UPITransaction, error) {
	var (
		txn     domain.UPITransaction
		amount  string
		remarks sql.NullString
	)
	if err := row.Scan(
		&txn.ID,
		&txn.Reference,
		&txn.SenderHandle,
		&txn.ReceiverHandle,
		&amount,
		&remarks,
		&txn.Status,
		&txn.CreatedAt,
		&txn.UpdatedAt,
	); err != nil {
		return domain.UPITransaction{}, err
	}

	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		return domain.UPITransaction{}, fmt.Errorf("parse upi transaction amount: %w", err)
	}
	txn.Amount = parsed
	if remarks.Valid {
		value := remarks.String
		txn.Remarks = &value
	}

	return txn, nil
}
