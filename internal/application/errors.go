package application

import "errors"

var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidSignature   = errors.New("payment verification failed")
	ErrInvalidUnlock      = errors.New("invalid unlock request")
	ErrNothingUnlocked    = errors.New("no assets could be unlocked")
	ErrForbidden          = errors.New("forbidden")
	ErrGateway            = errors.New("payment gateway error")
	ErrNotUnlocked        = errors.New("asset not unlocked for user")
	ErrUnknownCategory    = errors.New("unknown category")
	ErrSigningUnavailable = errors.New("download links unavailable")
)
