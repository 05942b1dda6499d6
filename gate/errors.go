package gate

import "errors"

// Sentinel errors returned by HybridGate.Authorize.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNoProfile    = errors.New("no profile for user")
)
