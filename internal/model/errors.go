package model

import "errors"

// Pre-flight validation errors: reported synchronously, no mutation, no network call.
var (
	ErrInvalidAction   = errors.New("invalid action")
	ErrInvalidResource = errors.New("invalid resource")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrRateLimited     = errors.New("rate limited")
)

// Reconciliation errors.
var (
	// ErrUnsupportedOperation means no endpoint accepts this transaction shape;
	// rejected locally before any network call.
	ErrUnsupportedOperation = errors.New("unsupported operation")

	// ErrUnsupportedRevert means the action has no defined inverse (regen).
	ErrUnsupportedRevert = errors.New("unsupported revert")

	// ErrServerRejected is an explicit server-side denial of a transaction.
	ErrServerRejected = errors.New("server rejected transaction")

	// ErrIntegrityViolation means the ledger checksum no longer matches the
	// last server-confirmed snapshot.
	ErrIntegrityViolation = errors.New("ledger integrity violation")
)
