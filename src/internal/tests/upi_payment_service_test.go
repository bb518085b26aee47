package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/api-sage/upi-payment-processor/src/internal/adapter/http/models"
	"github.com/api-sage/upi-payment-processor/src/internal/adapter/repository/memory"
	"github.com/api-sage/upi-payment-processor/src/internal/domain"
	"github.com/api-sage/upi-payment-processor/src/internal/usecase/services"
	"github.com/shopspring/decimal"
)

type upiFixture struct {
	accounts *memory.AccountRepository
	svc      *services.UPIPaymentService
}

func newUPIFixture(t *testing.T) upiFixture {
	t.Helper()

	accounts := memory.NewAccountRepository()
	accountSvc := services.NewAccountService(accounts)
	ctx := context.Background()

	if _, err := accountSvc.OpenAccount(ctx, models.OpenAccountRequest{
		Handle:         "alice@upi",
		InitialDeposit: decimal.NewFromInt(1000),
		Pin:            "1234",
	}); err != nil {
		t.Fatalf("open sender account: %v", err)
	}
	if _, err := accountSvc.OpenAccount(ctx, models.OpenAccountRequest{
		Handle:         "merchant@upi",
		InitialDeposit: decimal.Zero,
	}); err != nil {
		t.Fatalf("open receiver account: %v", err)
	}

	upiRepo := memory.NewUPITransactionRepository(accounts)
	return upiFixture{
		accounts: accounts,
		svc:      services.NewUPIPaymentService(upiRepo, accounts),
	}
}

func (f upiFixture) balance(t *testing.T, handle string) string {
	t.Helper()
	account, err := f.accounts.GetByHandle(context.Background(), handle)
	if err != nil {
		t.Fatalf("get account %s: %v", handle, err)
	}
	return account.Balance.StringFixed(2)
}

func (f upiFixture) initiate(t *testing.T, amount int64) int64 {
	t.Helper()
	resp, err := f.svc.InitiatePayment(context.Background(), models.InitiateUPIPaymentRequest{
		SenderHandle:   "alice@upi",
		ReceiverHandle: "merchant@upi",
		Amount:         decimal.NewFromInt(amount),
	})
	if err != nil {
		t.Fatalf("initiate payment: %v", err)
	}
	if resp.Data == nil || resp.Data.Status != "PENDING" {
		t.Fatalf("expected PENDING transaction, got %+v", resp.Data)
	}
	return resp.Data.ID
}

func TestUPIInitiatePaymentLeavesBalanceUntouched(t *testing.T) {
	f := newUPIFixture(t)

	f.initiate(t, 300)

	if got := f.balance(t, "alice@upi"); got != "1000.00" {
		t.Fatalf("initiation must not debit; balance is %s", got)
	}
}

func TestUPIInitiatePaymentInvalidHandle(t *testing.T) {
	f := newUPIFixture(t)

	_, err := f.svc.InitiatePayment(context.Background(), models.InitiateUPIPaymentRequest{
		SenderHandle:   "alice@upi",
		ReceiverHandle: "merchant@x", // provider part too short
		Amount:         decimal.NewFromInt(10),
	})
	if !errors.Is(err, domain.ErrInvalidUPIHandle) {
		t.Fatalf("expected ErrInvalidUPIHandle, got %v", err)
	}
}

func TestUPIInitiatePaymentInvalidAmount(t *testing.T) {
	f := newUPIFixture(t)

	_, err := f.svc.InitiatePayment(context.Background(), models.InitiateUPIPaymentRequest{
		SenderHandle:   "alice@upi",
		ReceiverHandle: "merchant@upi",
		Amount:         decimal.NewFromInt(-5),
	})
	if !errors.Is(err, domain.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestUPIInitiatePaymentInsufficientBalance(t *testing.T) {
	f := newUPIFixture(t)

	resp, err := f.svc.InitiatePayment(context.Background(), models.InitiateUPIPaymentRequest{
		SenderHandle:   "alice@upi",
		ReceiverHandle: "merchant@upi",
		Amount:         decimal.NewFromInt(5000),
	})
	if !errors.Is(err, domain.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
	if resp.Success {
		t.Fatal("expected failed response")
	}

	// Nothing is persisted when initiation is rejected.
	listResp, err := f.svc.ListTransactions(context.Background(), "", "")
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	if listResp.Data == nil || len(*listResp.Data) != 0 {
		t.Fatalf("expected no transactions, got %+v", listResp.Data)
	}
}

func TestUPIVerifyPaymentSettlesOnce(t *testing.T) {
	f := newUPIFixture(t)
	ctx := context.Background()

	id := f.initiate(t, 300)

	resp, err := f.svc.VerifyPayment(ctx, models.VerifyUPIPaymentRequest{
		TransactionID: id,
		Pin:           "1234",
	})
	if err != nil {
		t.Fatalf("verify payment: %v", err)
	}
	if resp.Data == nil || resp.Data.Status != "SUCCESS" {
		t.Fatalf("expected SUCCESS transaction, got %+v", resp.Data)
	}
	if got := f.balance(t, "alice@upi"); got != "700.00" {
		t.Fatalf("expected sender debited to 700.00, got %s", got)
	}

	// A second verify of the same transaction must be rejected without a
	// second debit.
	_, err = f.svc.VerifyPayment(ctx, models.VerifyUPIPaymentRequest{
		TransactionID: id,
		Pin:           "1234",
	})
	if !errors.Is(err, domain.ErrAlreadyProcessed) {
		t.Fatalf("expected ErrAlreadyProcessed on second verify, got %v", err)
	}
	if got := f.balance(t, "alice@upi"); got != "700.00" {
		t.Fatalf("balance changed on rejected verify: %s", got)
	}
}

func TestUPIVerifyPaymentWrongPinFailsTerminally(t *testing.T) {
	f := newUPIFixture(t)
	ctx := context.Background()

	id := f.initiate(t, 300)

	resp, err := f.svc.VerifyPayment(ctx, models.VerifyUPIPaymentRequest{
		TransactionID: id,
		Pin:           "9999",
	})
	if !errors.Is(err, domain.ErrInvalidPin) {
		t.Fatalf("expected ErrInvalidPin, got %v", err)
	}
	if resp.Data == nil || resp.Data.Status != "FAILED" {
		t.Fatalf("expected FAILED transaction after wrong pin, got %+v", resp.Data)
	}
	if got := f.balance(t, "alice@upi"); got != "1000.00" {
		t.Fatalf("wrong pin must not debit; balance is %s", got)
	}

	// FAILED is terminal: the correct pin cannot revive the transaction.
	_, err = f.svc.VerifyPayment(ctx, models.VerifyUPIPaymentRequest{
		TransactionID: id,
		Pin:           "1234",
	})
	if !errors.Is(err, domain.ErrAlreadyProcessed) {
		t.Fatalf("expected ErrAlreadyProcessed after terminal failure, got %v", err)
	}
}

func TestUPIVerifyPaymentInsufficientBalanceAtSettlement(t *testing.T) {
	f := newUPIFixture(t)
	ctx := context.Background()

	id := f.initiate(t, 800)

	// Drain the sender between initiation and verification.
	if err := f.accounts.DebitAccount(ctx, "alice@upi", decimal.NewFromInt(900)); err != nil {
		t.Fatalf("drain sender: %v", err)
	}

	resp, err := f.svc.VerifyPayment(ctx, models.VerifyUPIPaymentRequest{
		TransactionID: id,
		Pin:           "1234",
	})
	if !errors.Is(err, domain.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
	if resp.Data == nil || resp.Data.Status != "FAILED" {
		t.Fatalf("expected FAILED transaction, got %+v", resp.Data)
	}
}

func TestUPIVerifyPaymentUnknownTransaction(t *testing.T) {
	f := newUPIFixture(t)

	resp, err := f.svc.VerifyPayment(context.Background(), models.VerifyUPIPaymentRequest{
		TransactionID: 42,
		Pin:           "1234",
	})
	if !errors.Is(err, domain.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
	if resp.Message != "Transaction not found" {
		t.Fatalf("expected Transaction not found, got %q", resp.Message)
	}
}

func TestUPIMakePaymentSettlesImmediately(t *testing.T) {
	f := newUPIFixture(t)

	resp, err := f.svc.MakePayment(context.Background(), models.InitiateUPIPaymentRequest{
		SenderHandle:   "alice@upi",
		ReceiverHandle: "merchant@upi",
		Amount:         decimal.RequireFromString("250.75"),
	})
	if err != nil {
		t.Fatalf("make payment: %v", err)
	}
	if resp.Data == nil || resp.Data.Status != "SUCCESS" {
		t.Fatalf("expected SUCCESS transaction, got %+v", resp.Data)
	}
	if got := f.balance(t, "alice@upi"); got != "749.25" {
		t.Fatalf("expected sender balance 749.25, got %s", got)
	}
}

func TestUPIListTransactionsFilters(t *testing.T) {
	f := newUPIFixture(t)
	ctx := context.Background()

	pendingID := f.initiate(t, 100)
	settledID := f.initiate(t, 200)
	if _, err := f.svc.VerifyPayment(ctx, models.VerifyUPIPaymentRequest{
		TransactionID: settledID,
		Pin:           "1234",
	}); err != nil {
		t.Fatalf("verify payment: %v", err)
	}

	pending, err := f.svc.ListTransactions(ctx, "", "pending")
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if pending.Data == nil || len(*pending.Data) != 1 || (*pending.Data)[0].ID != pendingID {
		t.Fatalf("expected only transaction %d pending, got %+v", pendingID, pending.Data)
	}

	bySender, err := f.svc.ListTransactions(ctx, "alice@upi", "")
	if err != nil {
		t.Fatalf("list by sender: %v", err)
	}
	if bySender.Data == nil || len(*bySender.Data) != 2 {
		t.Fatalf("expected 2 transactions for alice, got %+v", bySender.Data)
	}

	if _, err := f.svc.ListTransactions(ctx, "", "BOGUS"); err == nil {
		t.Fatal("expected validation error for unknown status filter")
	}
}
