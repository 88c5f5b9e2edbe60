package sigs

import "github.com/mixbytes/crowdsale/errors"

// ErrInvalidSequence is returned for replayed or out of order signatures.
var ErrInvalidSequence = errors.Register(120, "invalid sequence number")
