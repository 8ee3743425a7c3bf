package verification

import (
	"context"
)

// Client confirms a settlement transaction against the external ledger.
// This is the sole blockchain-facing boundary of the processor; retry policy
// lives entirely on the caller's side.
//
// Verify returns nil when the ledger confirms the transaction identified by
// the anchor (external correlation) id. Failures are reported as
// VerificationError values from the domain error package: transient ones
// (timeouts, I/O) may succeed on retry, permanent ones (validation,
// business-rule rejection) will not.
type Client interface {
	Verify(ctx context.Context, anchorTransactionID string) error
}
