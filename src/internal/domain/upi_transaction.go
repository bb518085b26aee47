package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type UPITransactionStatus string

const (
	UPITransactionStatusPending UPITransactionStatus = "PENDING"
	UPITransactionStatusSuccess UPITransactionStatus = "SUCCESS"
	UPITransactionStatusFailed  UPITransactionStatus = "FAILED"
)

// UPITransaction is a two-phase payment: created PENDING at initiation and
// settled (SUCCESS) or rejected (FAILED) exactly once at PIN verification.
// The sender balance is debited only on the PENDING to SUCCESS transition.
type UPITransaction struct {
	ID             int64
	Reference      string
	SenderHandle   string
	ReceiverHandle string
	Amount         decimal.Decimal
	Remarks        *string
	Status         UPITransactionStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (t UPITransaction) IsPending() bool {
	return t.Status == UPITransactionStatusPending
}
