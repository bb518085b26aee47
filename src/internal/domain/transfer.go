package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransferStatus string

const (
	TransferStatusSuccess TransferStatus = "SUCCESS"
	TransferStatusFailed  TransferStatus = "FAILED"
)

// Transfer is a ledger entry for one attempted bank-to-bank transfer.
// Entries are append-only: the ledger assigns ID at record time and the
// record is never mutated afterwards. Failed attempts are recorded too, so
// the ledger is a complete audit trail.
type Transfer struct {
	ID             int64
	Reference      string
	SenderHandle   string
	ReceiverHandle string
	Amount         decimal.Decimal
	Narration      *string
	FailureReason  *string
	Status         TransferStatus
	CreatedAt      time.Time
}
