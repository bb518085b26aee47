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

type TransferRepository struct {
	db *sql.DB
}

func NewTransferRepository(db *sql.DB) *TransferRepository {
	return &TransferRepository{db: db}
}

func (r *TransferRepository) Record(ctx context.Context, transfer domain.Transfer) (domain.Transfer, error) {
	logger.Info("transfer repository record", logger.Fields{
		"reference":      transfer.Reference,
		"senderHandle":   transfer.SenderHandle,
		"receiverHandle": transfer.ReceiverHandle,
		"status":         transfer.Status,
	})

	const query = `
INSERT INTO transfers (
	reference,
	sender_handle,
	receiver_handle,
	amount,
	narration,
	failure_reason,
	status
) VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, created_at`

	if err := r.db.QueryRowContext(
		ctx,
		query,
		transfer.Reference,
		transfer.SenderHandle,
		transfer.ReceiverHandle,
		transfer.Amount.StringFixed(2),
		transfer.Narration,
		transfer.FailureReason,
		transfer.Status,
	).Scan(&transfer.ID, &transfer.CreatedAt); err != nil {
		logger.Error("transfer repository record failed", err, logger.Fields{
			"reference": transfer.Reference,
		})
		return domain.Transfer{}, fmt.Errorf("record transfer: %w", err)
	}

	logger.Info("transfer repository record success", logger.Fields{
		"transferId": transfer.ID,
		"reference":  transfer.Reference,
	})
	return transfer, nil
}

func (r *TransferRepository) GetByID(ctx context.Context, id int64) (domain.Transfer, error) {
	const query = `
SELECT id, reference, sender_handle, receiver_handle, amount, narration, failure_reason, status, created_at
FROM transfers
WHERE id = $1`

	transfer, err := scanTransfer(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Transfer{}, domain.ErrRecordNotFound
		}
		logger.Error("transfer repository get failed", err, logger.Fields{
			"transferId": id,
		})
		return domain.Transfer{}, fmt.Errorf("get transfer by id: %w", err)
	}
	return transfer, nil
}

func (r *TransferRepository) ListAll(ctx context.Context) ([]domain.Transfer, error) {
	const query = `
SELECT id, reference, sender_handle, receiver_handle, amount, narration, failure_reason, status, created_at
FROM transfers
ORDER BY id`

	return r.queryTransfers(ctx, query)
}

func (r *TransferRepository) ListBySender(ctx context.Context, senderHandle string) ([]domain.Transfer, error) {
	const query = `
SELECT id, reference, sender_handle, receiver_handle, amount, narration, failure_reason, status, created_at
FROM transfers
WHERE sender_handle = $1
ORDER BY id`

	return r.queryTransfers(ctx, query, senderHandle)
}

func (r *TransferRepository) ListByStatus(ctx context.Context, status domain.TransferStatus) ([]domain.Transfer, error) {
	const query = `
SELECT id, reference, sender_handle, receiver_handle, amount, narration, failure_reason, status, created_at
FROM transfers
WHERE status = $1
ORDER BY id`

	return r.queryTransfers(ctx, query, status)
}

func (r *TransferRepository) queryTransfers(ctx context.Context, query string, args ...any) ([]domain.Transfer, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error("transfer repository list failed", err, nil)
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	defer rows.Close()

	transfers := make([]domain.Transfer, 0)
	for rows.Next() {
		transfer, err := scanTransfer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transfer row: %w", err)
		}
		transfers = append(transfers, transfer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transfer rows: %w", err)
	}

	return transfers, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransfer(row rowScanner) (domain.Transfer, error) {
	var (
		transfer      domain.Transfer
		amount        string
		narration     sql.NullString
		failureReason sql.NullString
	)
	if err := row.Scan(
		&transfer.ID,
		&transfer.Reference,
		&transfer.SenderHandle,
		&transfer.ReceiverHandle,
		&amount,
		&narration,
		&failureReason,
		&transfer.Status,
		&transfer.CreatedAt,
	); err != nil {
		return domain.Transfer{}, err
	}

	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		return domain.Transfer{}, fmt.Errorf("parse transfer amount: %w", err)
	}
	transfer.Amount = parsed
	if narration.Valid {
		value := narration.String
		transfer.Narration = &value
	}
	if failureReason.Valid {
		value := failureReason.String
		transfer.FailureReason = &value
	}

	return transfer, nil
}
