package models

import (
	"errors"
	"math"
	"net/http"
)

// Failure kinds shared by all ledger operations. Mirrors the on-chain
// program's error codes one to one.
var (
	ErrInsufficientBalance = errors.New("insufficient balance in proxy account")
	ErrBetNotExpired       = errors.New("bet has not expired yet")
	ErrBetExpired          = errors.New("bet has already expired") // reserved, no path raises this
	ErrBetNotActive        = errors.New("bet is not active")
	ErrInvalidBetAmount    = errors.New("invalid bet amount")
	ErrInvalidOdds         = errors.New("invalid odds")
	ErrMarketNotActive     = errors.New("market is not active")
	ErrUnauthorized        = errors.New("unauthorized access")
	ErrArithmeticOverflow  = errors.New("arithmetic overflow")
	ErrInvalidTimestamp    = errors.New("invalid timestamp")
	ErrRecordAlreadyExists = errors.New("record already exists")
	ErrDelegationInvalid   = errors.New("invalid or expired session token")
)

// StatusForError picks the HTTP status for a ledger failure.
func StatusForError(err error) int {
	switch {
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrDelegationInvalid):
		return http.StatusUnauthorized
	case errors.Is(err, ErrRecordAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, ErrInsufficientBalance),
		errors.Is(err, ErrBetNotExpired),
		errors.Is(err, ErrBetExpired),
		errors.Is(err, ErrBetNotActive),
		errors.Is(err, ErrInvalidBetAmount),
		errors.Is(err, ErrInvalidOdds),
		errors.Is(err, ErrMarketNotActive),
		errors.Is(err, ErrArithmeticOverflow),
		errors.Is(err, ErrInvalidTimestamp):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// All balance and counter mutations go through these; amounts wrap neither
// silently nor by panic, they surface ErrArithmeticOverflow.

func CheckedAdd(a, b uint64) (uint64, error) {
	if a > math.MaxUint64-b {
		return 0, ErrArithmeticOverflow
	}
	return a + b, nil
}

func CheckedSub(a, b uint64) (uint64, error) {
	if b > a {
		return 0, ErrArithmeticOverflow
	}
	return a - b, nil
}

func CheckedMul(a, b uint64) (uint64, error) {
	if a != 0 && b > math.MaxUint64/a {
		return 0, ErrArithmeticOverflow
	}
	return a * b, nil
}
