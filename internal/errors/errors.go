// Package errors defines the domain error type shared by all services.
// Every error carries a machine-checkable kind plus a human-readable
// message; handlers map kinds onto HTTP status codes in one place.
package errors

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Kind classifies a domain error independently of its message.
type Kind string

const (
	KindNotFound          Kind = "NOT_FOUND"
	KindInvalidOperation  Kind = "INVALID_OPERATION"
	KindInsufficientFunds Kind = "INSUFFICIENT_FUNDS"
	KindForbidden         Kind = "FORBIDDEN"
	KindInvalidState      Kind = "INVALID_STATE"
	KindConflict          Kind = "CONFLICT"
	KindUnauthenticated   Kind = "UNAUTHENTICATED"
	KindValidation        Kind = "VALIDATION"
	KindInternal          Kind = "INTERNAL"
)

// DomainError is the error type returned by services.
type DomainError struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is matches two domain errors by code, so sentinels below work with
// errors.Is even when a formatted variant was returned.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New builds a domain error with a fixed message.
func New(kind Kind, code, message string) *DomainError {
	return &DomainError{Kind: kind, Code: code, Message: message}
}

// Newf builds a domain error with a formatted message.
func Newf(kind Kind, code, format string, args ...interface{}) *DomainError {
	return &DomainError{Kind: kind, Code: code, Message: fmt.Sprintf(format, args...)}
}

var (
	ErrUserNotFound = &DomainError{
		Kind:    KindNotFound,
		Code:    "USER_NOT_FOUND",
		Message: "user not found",
	}
	ErrWalletNotFound = &DomainError{
		Kind:    KindNotFound,
		Code:    "WALLET_NOT_FOUND",
		Message: "wallet not found",
	}
	ErrTransactionNotFound = &DomainError{
		Kind:    KindNotFound,
		Code:    "TRANSACTION_NOT_FOUND",
		Message: "transaction not found",
	}
	ErrSelfTransfer = &DomainError{
		Kind:    KindInvalidOperation,
		Code:    "SELF_TRANSFER",
		Message: "cannot transfer to yourself",
	}
	ErrInvalidAmount = &DomainError{
		Kind:    KindInvalidOperation,
		Code:    "INVALID_AMOUNT",
		Message: "amount must be a positive value with at most 2 decimal places",
	}
	ErrInsufficientFunds = &DomainError{
		Kind:    KindInsufficientFunds,
		Code:    "INSUFFICIENT_FUNDS",
		Message: "insufficient funds",
	}
	ErrNotTransactionParty = &DomainError{
		Kind:    KindForbidden,
		Code:    "NOT_TRANSACTION_PARTY",
		Message: "you are not a party to this transaction",
	}
	ErrAlreadyReversed = &DomainError{
		Kind:    KindInvalidState,
		Code:    "ALREADY_REVERSED",
		Message: "this transaction has already been reversed",
	}
	ErrNotCompleted = &DomainError{
		Kind:    KindInvalidState,
		Code:    "NOT_COMPLETED",
		Message: "only completed transactions can be reversed",
	}
	ErrEmailTaken = &DomainError{
		Kind:    KindConflict,
		Code:    "EMAIL_TAKEN",
		Message: "email is already registered",
	}
	ErrInvalidCredentials = &DomainError{
		Kind:    KindUnauthenticated,
		Code:    "INVALID_CREDENTIALS",
		Message: "invalid email or password",
	}
)

// InsufficientFunds reports the balance seen under lock, formatted to two
// decimal places as it appears in every external representation.
func InsufficientFunds(balance string) *DomainError {
	return &DomainError{
		Kind:    KindInsufficientFunds,
		Code:    "INSUFFICIENT_FUNDS",
		Message: fmt.Sprintf("insufficient funds: current balance is %s", balance),
	}
}

// ReversalInsufficientFunds is the reversal-specific phrasing: the current
// holder of the funds is the original recipient.
func ReversalInsufficientFunds() *DomainError {
	return &DomainError{
		Kind:    KindInsufficientFunds,
		Code:    "INSUFFICIENT_FUNDS",
		Message: "recipient lacks funds to reverse this transaction",
	}
}

// KindOf extracts the kind of err, or KindInternal for unknown errors.
func KindOf(err error) Kind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// CodeOf extracts the code of err, or "INTERNAL" for unknown errors.
func CodeOf(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return "INTERNAL"
}

// HTTPStatus maps a domain error kind onto an HTTP status code.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return fiber.StatusNotFound
	case KindInvalidOperation, KindInsufficientFunds, KindInvalidState, KindValidation:
		return fiber.StatusBadRequest
	case KindForbidden:
		return fiber.StatusForbidden
	case KindConflict:
		return fiber.StatusConflict
	case KindUnauthenticated:
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}
