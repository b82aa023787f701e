package ledger

import "errors"

// Sentinel errors for ledger failures. Callers branch with errors.Is; the
// wrapped messages carry the spreadsheet identity and a remediation hint.
var (
	// ErrNoMatchingHeaders means zero configured columns were found in the
	// live header row, so no part of a trade could be placed.
	ErrNoMatchingHeaders = errors.New("none of the configured columns match the sheet header row")

	// ErrPermissionDenied is a 401/403 from the backing store.
	ErrPermissionDenied = errors.New("ledger access denied")

	// ErrSheetNotFound means the configured sheet title has no match in the
	// spreadsheet metadata.
	ErrSheetNotFound = errors.New("ledger sheet not found")

	// ErrBackingStore covers every other transport failure.
	ErrBackingStore = errors.New("ledger store error")
)
