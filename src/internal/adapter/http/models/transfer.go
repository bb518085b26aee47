package models

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// TransferRequest carries a bank-to-bank transfer intent. Validate rejects
// only malformed requests; business rules (non-positive amount, unknown
// accounts, insufficient balance) are judged by the engine so that every
// attempt still lands in the ledger.
type TransferRequest struct {
	SenderHandle   string          `json:"senderHandle"`
	ReceiverHandle string          `json:"receiverHandle"`
	Amount         decimal.Decimal `json:"amount"`
	Narration      string          `json:"narration"`
}

func (r TransferRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.SenderHandle) == "" {
		errs = append(errs, "senderHandle is required")
	}
	if strings.TrimSpace(r.ReceiverHandle) == "" {
		errs = append(errs, "receiverHandle is required")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type TransferResponse struct {
	ID             int64  `json:"id"`
	Reference      string `json:"reference"`
	SenderHandle   string `json:"senderHandle"`
	ReceiverHandle string `json:"receiverHandle"`
	Amount         string `json:"amount"`
	Narration      string `json:"narration,omitempty"`
	FailureReason  string `json:"failureReason,omitempty"`
	Status         string `json:"status"`
	CreatedAt      string `json:"createdAt"`
}
