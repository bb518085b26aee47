package services_test

import (
	"context"
	"testing"

	"github.com/api-sage/upi-payment-processor/src/internal/adapter/http/models"
	"github.com/api-sage/upi-payment-processor/src/internal/adapter/repository/memory"
	"github.com/api-sage/upi-payment-processor/src/internal/usecase/services"
	"github.com/shopspring/decimal"
)

type transferFixture struct {
	accounts  *memory.AccountRepository
	transfers *memory.TransferRepository
	svc       *services.TransferService
}

func newTransferFixture(t *testing.T, balances map[string]int64) transferFixture {
	t.Helper()

	accounts := memory.NewAccountRepository()
	accountSvc := services.NewAccountService(accounts)
	for handle, balance := range balances {
		if _, err := accountSvc.OpenAccount(context.Background(), models.OpenAccountRequest{
			Handle:         handle,
			InitialDeposit: decimal.NewFromInt(balance),
		}); err != nil {
			t.Fatalf("open account %s: %v", handle, err)
		}
	}

	transfers := memory.NewTransferRepository()
	return transferFixture{
		accounts:  accounts,
		transfers: transfers,
		svc:       services.NewTransferService(transfers, accounts),
	}
}

func (f transferFixture) balance(t *testing.T, handle string) string {
	t.Helper()
	account, err := f.accounts.GetByHandle(context.Background(), handle)
	if err != nil {
		t.Fatalf("get account %s: %v", handle, err)
	}
	return account.Balance.StringFixed(2)
}

func TestTransferServiceValidationError(t *testing.T) {
	f := newTransferFixture(t, nil)

	_, err := f.svc.TransferFunds(context.Background(), models.TransferRequest{})
	if err == nil {
		t.Fatal("expected validation error for empty transfer request")
	}
}

func TestTransferServiceSuccessfulTransfer(t *testing.T) {
	f := newTransferFixture(t, map[string]int64{"alice@upi": 100, "bob@upi": 50})

	resp, err := f.svc.TransferFunds(context.Background(), models.TransferRequest{
		SenderHandle:   "alice@upi",
		ReceiverHandle: "bob@upi",
		Amount:         decimal.NewFromInt(30),
		Narration:      "rent split",
	})
	if err != nil {
		t.Fatalf("transfer funds: %v", err)
	}
	if !resp.Success || resp.Data == nil {
		t.Fatalf("expected success response, got %+v", resp)
	}
	if resp.Data.Status != "SUCCESS" {
		t.Fatalf("expected SUCCESS status, got %q", resp.Data.Status)
	}
	if resp.Data.ID != 1 {
		t.Fatalf("expected first ledger entry id 1, got %d", resp.Data.ID)
	}
	if resp.Data.Reference == "" {
		t.Fatal("expected a transfer reference")
	}
	if resp.Data.Narration != "rent split" {
		t.Fatalf("expected narration to survive, got %q", resp.Data.Narration)
	}

	if got := f.balance(t, "alice@upi"); got != "70.00" {
		t.Fatalf("expected sender balance 70.00, got %s", got)
	}
	if got := f.balance(t, "bob@upi"); got != "80.00" {
		t.Fatalf("expected receiver balance 80.00, got %s", got)
	}
}

func TestTransferServiceInsufficientBalanceRecordsFailure(t *testing.T) {
	f := newTransferFixture(t, map[string]int64{"alice@upi": 10, "bob@upi": 0})

	resp, err := f.svc.TransferFunds(context.Background(), models.TransferRequest{
		SenderHandle:   "alice@upi",
		ReceiverHandle: "bob@upi",
		Amount:         decimal.NewFromInt(50),
	})
	if err != nil {
		t.Fatalf("business failure must not surface as an error: %v", err)
	}
	if resp.Success {
		t.Fatal("expected failed response")
	}
	if resp.Data == nil || resp.Data.Status != "FAILED" {
		t.Fatalf("expected FAILED ledger entry, got %+v", resp.Data)
	}
	if resp.Data.FailureReason != "insufficient balance" {
		t.Fatalf("expected insufficient balance reason, got %q", resp.Data.FailureReason)
	}

	if got := f.balance(t, "alice@upi"); got != "10.00" {
		t.Fatalf("expected sender balance untouched, got %s", got)
	}
	if got := f.balance(t, "bob@upi"); got != "0.00" {
		t.Fatalf("expected receiver balance untouched, got %s", got)
	}
}

func TestTransferServiceZeroAmountRecordsFailure(t *testing.T) {
	f := newTransferFixture(t, map[string]int64{"alice@upi": 10, "bob@upi": 0})

	resp, err := f.svc.TransferFunds(context.Background(), models.TransferRequest{
		SenderHandle:   "alice@upi",
		ReceiverHandle: "bob@upi",
		Amount:         decimal.Zero,
	})
	if err != nil {
		t.Fatalf("business failure must not surface as an error: %v", err)
	}
	if resp.Data == nil || resp.Data.Status != "FAILED" {
		t.Fatalf("expected FAILED ledger entry for zero amount, got %+v", resp.Data)
	}
	if resp.Data.FailureReason != "amount must be greater than zero" {
		t.Fatalf("unexpected failure reason %q", resp.Data.FailureReason)
	}
}

func TestTransferServiceSelfTransferRecordsFailure(t *testing.T) {
	f := newTransferFixture(t, map[string]int64{"alice@upi": 100})

	resp, err := f.svc.TransferFunds(context.Background(), models.TransferRequest{
		SenderHandle:   "alice@upi",
		ReceiverHandle: "alice@upi",
		Amount:         decimal.NewFromInt(10),
	})
	if err != nil {
		t.Fatalf("business failure must not surface as an error: %v", err)
	}
	if resp.Data == nil || resp.Data.Status != "FAILED" {
		t.Fatalf("expected FAILED ledger entry for self transfer, got %+v", resp.Data)
	}
	if got := f.balance(t, "alice@upi"); got != "100.00" {
		t.Fatalf("expected balance untouched, got %s", got)
	}
}

func TestTransferServiceUnknownSenderRecordsFailure(t *testing.T) {
	f := newTransferFixture(t, map[string]int64{"bob@upi": 0})

	resp, err := f.svc.TransferFunds(context.Background(), models.TransferRequest{
		SenderHandle:   "ghost@upi",
		ReceiverHandle: "bob@upi",
		Amount:         decimal.NewFromInt(10),
	})
	if err != nil {
		t.Fatalf("business failure must not surface as an error: %v", err)
	}
	if resp.Data == nil || resp.Data.FailureReason != "sender account not found" {
		t.Fatalf("expected sender not found reason, got %+v", resp.Data)
	}
}

func TestTransferServiceInactiveReceiverRecordsFailure(t *testing.T) {
	f := newTransferFixture(t, map[string]int64{"alice@upi": 100, "bob@upi": 0})

	accountSvc := services.NewAccountService(f.accounts)
	if _, err := accountSvc.DeactivateAccount(context.Background(), "bob@upi"); err != nil {
		t.Fatalf("deactivate receiver: %v", err)
	}

	resp, err := f.svc.TransferFunds(context.Background(), models.TransferRequest{
		SenderHandle:   "alice@upi",
		ReceiverHandle: "bob@upi",
		Amount:         decimal.NewFromInt(10),
	})
	if err != nil {
		t.Fatalf("business failure must not surface as an error: %v", err)
	}
	if resp.Data == nil || resp.Data.FailureReason != "account is not active" {
		t.Fatalf("expected inactive account reason, got %+v", resp.Data)
	}
	if got := f.balance(t, "alice@upi"); got != "100.00" {
		t.Fatalf("expected sender balance untouched, got %s", got)
	}
}

func TestTransferServiceLedgerIDsAreSequential(t *testing.T) {
	f := newTransferFixture(t, map[string]int64{"alice@upi": 100, "bob@upi": 0})
	ctx := context.Background()

	requests := []models.TransferRequest{
		{SenderHandle: "alice@upi", ReceiverHandle: "bob@upi", Amount: decimal.NewFromInt(10)},
		{SenderHandle: "alice@upi", ReceiverHandle: "bob@upi", Amount: decimal.NewFromInt(500)},
		{SenderHandle: "bob@upi", ReceiverHandle: "alice@upi", Amount: decimal.NewFromInt(5)},
	}
	for i, req := range requests {
		resp, err := f.svc.TransferFunds(ctx, req)
		if err != nil {
			t.Fatalf("transfer %d: %v", i, err)
		}
		if resp.Data == nil || resp.Data.ID != int64(i+1) {
			t.Fatalf("expected ledger id %d, got %+v", i+1, resp.Data)
		}
	}

	listResp, err := f.svc.ListTransfers(ctx, "", "")
	if err != nil {
		t.Fatalf("list transfers: %v", err)
	}
	if listResp.Data == nil || len(*listResp.Data) != 3 {
		t.Fatalf("expected 3 ledger entries, got %+v", listResp.Data)
	}
}

func TestTransferServiceListTransfersFilters(t *testing.T) {
	f := newTransferFixture(t, map[string]int64{"alice@upi": 100, "bob@upi": 0})
	ctx := context.Background()

	// One success, one failure.
	if _, err := f.svc.TransferFunds(ctx, models.TransferRequest{
		SenderHandle: "alice@upi", ReceiverHandle: "bob@upi", Amount: decimal.NewFromInt(10),
	}); err != nil {
		t.Fatalf("first transfer: %v", err)
	}
	if _, err := f.svc.TransferFunds(ctx, models.TransferRequest{
		SenderHandle: "bob@upi", ReceiverHandle: "alice@upi", Amount: decimal.NewFromInt(999),
	}); err != nil {
		t.Fatalf("second transfer: %v", err)
	}

	bySender, err := f.svc.ListTransfers(ctx, "alice@upi", "")
	if err != nil {
		t.Fatalf("list by sender: %v", err)
	}
	if bySender.Data == nil || len(*bySender.Data) != 1 {
		t.Fatalf("expected 1 transfer from alice, got %+v", bySender.Data)
	}

	failed, err := f.svc.ListTransfers(ctx, "", "failed")
	if err != nil {
		t.Fatalf("list by status: %v", err)
	}
	if failed.Data == nil || len(*failed.Data) != 1 {
		t.Fatalf("expected 1 failed transfer, got %+v", failed.Data)
	}

	if _, err := f.svc.ListTransfers(ctx, "", "BOGUS"); err == nil {
		t.Fatal("expected validation error for unknown status filter")
	}
}

func TestTransferServiceGetTransferNotFound(t *testing.T) {
	f := newTransferFixture(t, nil)

	resp, err := f.svc.GetTransfer(context.Background(), 42)
	if err == nil {
		t.Fatal("expected error for unknown transfer id")
	}
	if resp.Message != "Transfer not found" {
		t.Fatalf("expected Transfer not found, got %q", resp.Message)
	}
}
