package error

import (
	"errors"
	"fmt"
)

// Error codes for standardized API responses
const (
	// 4xxx - Client errors
	CodeInvalidRequest        = 4000
	CodeInvalidAmount         = 4001
	CodeInvalidStellarAccount = 4002
	CodeInvalidAssetCode      = 4003
	CodeDuplicateTransaction  = 4004
	CodeTransactionNotFound   = 4040
	CodeDlqEntryNotFound      = 4041
	CodeTransactionBusy       = 4230

	// 5xxx - Server errors
	CodeInternalServer     = 5000
	CodeOperationAborted   = 5001
	CodeDatabaseConnection = 5002
)

// Base error types
var (
	// ErrTransactionNotFound is returned when the requested transaction doesn't exist
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrDlqEntryNotFound is returned when the requested DLQ entry doesn't exist
	ErrDlqEntryNotFound = errors.New("dlq entry not found")

	// ErrNotFound is returned when a generic resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrTransactionBusy is returned when the per-transaction guard wait times out
	ErrTransactionBusy = errors.New("transaction is being processed by another worker")

	// ErrOperationAborted is returned when an atomic scope had to be rolled back,
	// including every audit write failure
	ErrOperationAborted = errors.New("operation aborted")

	// ErrAuditWriteFailed is returned when an audit log append fails; it always
	// aborts the enclosing scope
	ErrAuditWriteFailed = errors.New("audit log write failed")

	// ErrInvalidAmount is returned when the amount is not a valid positive decimal
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidStellarAccount is returned when the account address is malformed
	ErrInvalidStellarAccount = errors.New("invalid stellar account")

	// ErrInvalidAssetCode is returned when the asset code is empty or too long
	ErrInvalidAssetCode = errors.New("invalid asset code")

	// ErrInvalidStatusTransition is returned when a status change would violate
	// the monotonic transaction lifecycle
	ErrInvalidStatusTransition = errors.New("invalid status transition")

	// ErrMissingAnchorTransaction is returned when a transaction has no external
	// correlation id to verify against
	ErrMissingAnchorTransaction = errors.New("transaction has no anchor transaction id")

	// ErrDuplicateTransaction is returned when a transaction with the same ID already exists
	ErrDuplicateTransaction = errors.New("transaction with this ID already exists")

	// ErrVerificationUnavailable marks a transient verification failure that may
	// succeed on retry
	ErrVerificationUnavailable = errors.New("verification service unavailable")

	// ErrVerificationRejected marks a permanent verification failure that will
	// recur on retry
	ErrVerificationRejected = errors.New("verification rejected")

	// ErrDatabaseConnection is returned when there's a problem talking to the database
	ErrDatabaseConnection = errors.New("database connection error")

	// ErrInvalidRequest is returned when the request format is invalid
	ErrInvalidRequest = errors.New("invalid request")

	// ErrInternalServer is returned for unexpected server-side errors
	ErrInternalServer = errors.New("internal server error")
)

// ErrorCode returns standardized error codes for known errors
func ErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrInvalidAmount):
		return CodeInvalidAmount
	case errors.Is(err, ErrInvalidStellarAccount):
		return CodeInvalidStellarAccount
	case errors.Is(err, ErrInvalidAssetCode):
		return CodeInvalidAssetCode
	case errors.Is(err, ErrDuplicateTransaction):
		return CodeDuplicateTransaction
	case errors.Is(err, ErrTransactionNotFound):
		return CodeTransactionNotFound
	case errors.Is(err, ErrDlqEntryNotFound):
		return CodeDlqEntryNotFound
	case errors.Is(err, ErrTransactionBusy):
		return CodeTransactionBusy
	case errors.Is(err, ErrOperationAborted), errors.Is(err, ErrAuditWriteFailed):
		return CodeOperationAborted
	case errors.Is(err, ErrDatabaseConnection):
		return CodeDatabaseConnection
	case errors.Is(err, ErrInvalidRequest):
		return CodeInvalidRequest
	default:
		return CodeInternalServer
	}
}

// VerificationError carries the detail of a failed ledger verification attempt
type VerificationError struct {
	AnchorTransactionID string
	Transient           bool
	Reason              string
	Err                 error
}

// Error implements the error interface
func (e *VerificationError) Error() string {
	kind := "permanent"
	if e.Transient {
		kind = "transient"
	}
	return fmt.Sprintf("%s verification failure for anchor transaction %s: %s",
		kind, e.AnchorTransactionID, e.Reason)
}

// Unwrap returns the underlying error
func (e *VerificationError) Unwrap() error {
	return e.Err
}

// Is maps the error onto the transient/permanent sentinels
func (e *VerificationError) Is(target error) bool {
	if e.Transient {
		return target == ErrVerificationUnavailable
	}
	return target == ErrVerificationRejected
}

// LogFields returns a map of fields for structured logging
func (e *VerificationError) LogFields() map[string]any {
	fields := map[string]any{
		"error_type":            "verification_error",
		"anchor_transaction_id": e.AnchorTransactionID,
		"transient":             e.Transient,
		"reason":                e.Reason,
	}
	if e.Err != nil {
		fields["error"] = e.Err.Error()
	}
	return fields
}

// NewTransientVerificationError creates a verification error that the processor
// is allowed to retry with backoff
func NewTransientVerificationError(anchorTransactionID, reason string, err error) error {
	return &VerificationError{
		AnchorTransactionID: anchorTransactionID,
		Transient:           true,
		Reason:              reason,
		Err:                 err,
	}
}

// NewPermanentVerificationError creates a verification error that quarantines
// the transaction immediately
func NewPermanentVerificationError(anchorTransactionID, reason string, err error) error {
	return &VerificationError{
		AnchorTransactionID: anchorTransactionID,
		Transient:           false,
		Reason:              reason,
		Err:                 err,
	}
}

// OperationAbortedError reports a rolled-back atomic scope with the operation
// that owned it
type OperationAbortedError struct {
	Operation string
	Err       error
}

// Error implements the error interface
func (e *OperationAbortedError) Error() string {
	return fmt.Sprintf("%s aborted: %v", e.Operation, e.Err)
}

// Unwrap returns the underlying error
func (e *OperationAbortedError) Unwrap() error {
	return e.Err
}

// Is checks if the target error is ErrOperationAborted
func (e *OperationAbortedError) Is(target error) bool {
	return target == ErrOperationAborted
}

// LogFields returns a map of fields for structured logging
func (e *OperationAbortedError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "operation_aborted",
		"operation":  e.Operation,
		"error":      e.Err.Error(),
		"error_code": CodeOperationAborted,
	}
}

// NewOperationAbortedError wraps the cause of a rolled-back scope
func NewOperationAbortedError(operation string, err error) error {
	return &OperationAbortedError{Operation: operation, Err: err}
}

// IsNotFoundError checks if the error is any "not found" type of error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrTransactionNotFound) ||
		errors.Is(err, ErrDlqEntryNotFound)
}

// IsBusyError checks if the error is a guard timeout
func IsBusyError(err error) bool {
	return errors.Is(err, ErrTransactionBusy)
}

// IsOperationAborted checks if the error is a rolled-back atomic scope
func IsOperationAborted(err error) bool {
	return errors.Is(err, ErrOperationAborted)
}

// IsTransientVerificationError checks if the error is a retryable verification failure
func IsTransientVerificationError(err error) bool {
	return errors.Is(err, ErrVerificationUnavailable)
}

// IsPermanentVerificationError checks if the error is a non-retryable verification failure
func IsPermanentVerificationError(err error) bool {
	return errors.Is(err, ErrVerificationRejected)
}
