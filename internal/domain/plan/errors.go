package plan

import "errors"

// ErrInvalidTransition is returned for a lifecycle step the state
// machine does not allow.
var ErrInvalidTransition = errors.New("invalid plan status transition")
