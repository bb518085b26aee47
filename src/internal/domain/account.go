package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type AccountStatus string

const (
	AccountStatusActive   AccountStatus = "ACTIVE"
	AccountStatusInactive AccountStatus = "INACTIVE"
	AccountStatusClosed   AccountStatus = "CLOSED"
)

// Account is a funds-holding record. Handle is the external-facing address:
// a ten-digit account number for bank accounts or a local@provider UPI id.
type Account struct {
	ID        string
	Handle    string
	Balance   decimal.Decimal
	PinHash   *string
	Status    AccountStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (a Account) IsActive() bool {
	return a.Status == AccountStatusActive
}
