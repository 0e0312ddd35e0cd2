package sessiontransport

import "errors"

// ErrLoadSession wraps store failures that are not a client problem.
var ErrLoadSession = errors.New("sessiontransport: failed to load session")
