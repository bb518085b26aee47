package services_test

import (
	"context"
	"testing"

	"github.com/api-sage/upi-payment-processor/src/internal/adapter/http/models"
	"github.com/api-sage/upi-payment-processor/src/internal/adapter/repository/memory"
	"github.com/api-sage/upi-payment-processor/src/internal/usecase/services"
	"github.com/shopspring/decimal"
)

func TestAccountServiceOpenAccountValidationError(t *testing.T) {
	svc := services.NewAccountService(memory.NewAccountRepository())

	_, err := svc.OpenAccount(context.Background(), models.OpenAccountRequest{
		Handle: "not a handle",
	})
	if err == nil {
		t.Fatal("expected validation error for malformed handle")
	}
}

func TestAccountServiceOpenAccountGeneratesHandle(t *testing.T) {
	svc := services.NewAccountService(memory.NewAccountRepository())

	resp, err := svc.OpenAccount(context.Background(), models.OpenAccountRequest{
		InitialDeposit: decimal.NewFromInt(500),
	})
	if err != nil {
		t.Fatalf("open account: %v", err)
	}
	if !resp.Success || resp.Data == nil {
		t.Fatalf("expected success response with data, got %+v", resp)
	}
	if !models.IsAccountNumber(resp.Data.Handle) {
		t.Fatalf("expected a generated ten-digit handle, got %q", resp.Data.Handle)
	}
	if resp.Data.Balance != "500.00" {
		t.Fatalf("expected balance 500.00, got %q", resp.Data.Balance)
	}
	if resp.Data.HasPin {
		t.Fatal("expected no pin on account opened without one")
	}
}

func TestAccountServiceOpenAccountDuplicateHandle(t *testing.T) {
	svc := services.NewAccountService(memory.NewAccountRepository())
	ctx := context.Background()

	if _, err := svc.OpenAccount(ctx, models.OpenAccountRequest{Handle: "alice@upi"}); err != nil {
		t.Fatalf("open first account: %v", err)
	}

	resp, err := svc.OpenAccount(ctx, models.OpenAccountRequest{Handle: "alice@upi"})
	if err == nil {
		t.Fatal("expected error for duplicate handle")
	}
	if resp.Success {
		t.Fatal("expected failed response for duplicate handle")
	}
}

func TestAccountServiceGetAccountNotFound(t *testing.T) {
	svc := services.NewAccountService(memory.NewAccountRepository())

	resp, err := svc.GetAccount(context.Background(), "ghost@upi")
	if err == nil {
		t.Fatal("expected error for unknown handle")
	}
	if resp.Message != "Account not found" {
		t.Fatalf("expected Account not found, got %q", resp.Message)
	}
}

func TestAccountServiceDepositFunds(t *testing.T) {
	svc := services.NewAccountService(memory.NewAccountRepository())
	ctx := context.Background()

	if _, err := svc.OpenAccount(ctx, models.OpenAccountRequest{
		Handle:         "alice@upi",
		InitialDeposit: decimal.NewFromInt(100),
	}); err != nil {
		t.Fatalf("open account: %v", err)
	}

	resp, err := svc.DepositFunds(ctx, models.DepositFundsRequest{
		Handle: "alice@upi",
		Amount: decimal.RequireFromString("49.50"),
	})
	if err != nil {
		t.Fatalf("deposit funds: %v", err)
	}
	if resp.Data == nil || resp.Data.Balance != "149.50" {
		t.Fatalf("expected balance 149.50 after deposit, got %+v", resp.Data)
	}
}

func TestAccountServiceDepositFundsRejectsNonPositiveAmount(t *testing.T) {
	svc := services.NewAccountService(memory.NewAccountRepository())

	_, err := svc.DepositFunds(context.Background(), models.DepositFundsRequest{
		Handle: "alice@upi",
		Amount: decimal.Zero,
	})
	if err == nil {
		t.Fatal("expected validation error for zero deposit")
	}
}

func TestAccountServiceDeactivateAccount(t *testing.T) {
	svc := services.NewAccountService(memory.NewAccountRepository())
	ctx := context.Background()

	if _, err := svc.OpenAccount(ctx, models.OpenAccountRequest{Handle: "alice@upi"}); err != nil {
		t.Fatalf("open account: %v", err)
	}

	resp, err := svc.DeactivateAccount(ctx, "alice@upi")
	if err != nil {
		t.Fatalf("deactivate account: %v", err)
	}
	if resp.Data == nil || resp.Data.Status != "INACTIVE" {
		t.Fatalf("expected INACTIVE status, got %+v", resp.Data)
	}

	// Deactivated accounts stay listed; only fund movements stop.
	listResp, err := svc.ListAccounts(ctx)
	if err != nil {
		t.Fatalf("list accounts: %v", err)
	}
	if listResp.Data == nil || len(*listResp.Data) != 1 {
		t.Fatalf("expected deactivated account to remain listed, got %+v", listResp.Data)
	}

	if _, err := svc.DepositFunds(ctx, models.DepositFundsRequest{
		Handle: "alice@upi",
		Amount: decimal.NewFromInt(10),
	}); err == nil {
		t.Fatal("expected deposit to an inactive account to fail")
	}
}
