package models

import (
	"errors"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var upiHandlePattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+@[a-zA-Z]{2,}$`)

func IsUPIHandle(value string) bool {
	return upiHandlePattern.MatchString(strings.TrimSpace(value))
}

type InitiateUPIPaymentRequest struct {
	SenderHandle   string          `json:"senderHandle"`
	ReceiverHandle string          `json:"receiverHandle"`
	Amount         decimal.Decimal `json:"amount"`
	Remarks        string          `json:"remarks"`
}

func (r InitiateUPIPaymentRequest) Validate() error {
	if strings.TrimSpace(r.SenderHandle) == "" {
		return errors.New("senderHandle is required")
	}
	return nil
}

type VerifyUPIPaymentRequest struct {
	TransactionID int64  `json:"transactionId"`
	Pin           string `json:"pin"`
}

func (r VerifyUPIPaymentRequest) Validate() error {
	var errs []string

	if r.TransactionID <= 0 {
		errs = append(errs, "transactionId is required")
	}
	if strings.TrimSpace(r.Pin) == "" {
		errs = append(errs, "pin is required")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type UPITransactionResponse struct {
	ID             int64  `json:"id"`
	Reference      string `json:"reference"`
	SenderHandle   string `json:"senderHandle"`
	ReceiverHandle string `json:"receiverHandle"`
	Amount         string `json:"amount"`
	Remarks        string `json:"remarks,omitempty"`
	Status         string `json:"status"`
	CreatedAt      string `json:"createdAt"`
	UpdatedAt      string `json:"updatedAt"`
}
