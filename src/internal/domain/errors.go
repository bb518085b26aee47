package domain

import "errors"

var ErrRecordNotFound = errors.New("Record not found")
var ErrInsufficientBalance = errors.New("Insufficient balance")
var ErrInvalidAmount = errors.New("Amount must be greater than zero")
var ErrInvalidUPIHandle = errors.New("Invalid UPI handle format")
var ErrAlreadyProcessed = errors.New("Transaction already processed")
var ErrInvalidPin = errors.New("Invalid pin")
var ErrAccountInactive = errors.New("Account is not active")
