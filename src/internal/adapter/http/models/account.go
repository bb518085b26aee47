package models

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

type OpenAccountRequest struct {
	Handle         string          `json:"handle"`
	InitialDeposit decimal.Decimal `json:"initialDeposit"`
	Pin            string          `json:"pin"`
}

func (r OpenAccountRequest) Validate() error {
	var errs []string

	handle := strings.TrimSpace(r.Handle)
	if handle != "" && !IsAccountNumber(handle) && !IsUPIHandle(handle) {
		errs = append(errs, "handle must be a ten-digit account number or a local@provider UPI id")
	}

	if r.InitialDeposit.LessThan(decimal.Zero) {
		errs = append(errs, "initialDeposit cannot be negative")
	}

	if pin := strings.TrimSpace(r.Pin); pin != "" && !isPin(pin) {
		errs = append(errs, "pin must be 4 to 6 digits")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type DepositFundsRequest struct {
	Handle string          `json:"handle"`
	Amount decimal.Decimal `json:"amount"`
}

func (r DepositFundsRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.Handle) == "" {
		errs = append(errs, "handle is required")
	}
	if r.Amount.LessThanOrEqual(decimal.Zero) {
		errs = append(errs, "amount must be greater than zero")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type AccountResponse struct {
	ID        string `json:"id"`
	Handle    string `json:"handle"`
	Balance   string `json:"balance"`
	HasPin    bool   `json:"hasPin"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func IsAccountNumber(value string) bool {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) != 10 {
		return false
	}
	return digitsOnly(trimmed)
}

func isPin(value string) bool {
	if len(value) < 4 || len(value) > 6 {
		return false
	}
	return digitsOnly(value)
}

func digitsOnly(value string) bool {
	for _, ch := range value {
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return true
}
