package models

import "testing"

func TestIsUPIHandle(t *testing.T) {
	valid := []string{
		"alice@upi",
		"alice.bob@okbank",
		"a_b-c.9@ab",
		"  padded@upi  ",
	}
	for _, handle := range valid {
		if !IsUPIHandle(handle) {
			t.Fatalf("expected %q to be a valid UPI handle", handle)
		}
	}

	invalid := []string{
		"",
		"@upi",
		"alice@",
		"alice@x",
		"alice@up1",
		"alice bob@upi",
		"alice@@upi",
		"alice",
	}
	for _, handle := range invalid {
		if IsUPIHandle(handle) {
			t.Fatalf("expected %q to be rejected", handle)
		}
	}
}

func TestIsAccountNumber(t *testing.T) {
	if !IsAccountNumber("0123456789") {
		t.Fatal("expected ten digits to be a valid account number")
	}
	for _, value := range []string{"123456789", "01234567890", "12345abcde", ""} {
		if IsAccountNumber(value) {
			t.Fatalf("expected %q to be rejected", value)
		}
	}
}
