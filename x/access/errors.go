package access

import (
	"github.com/iov-one/authtoken/errors"
)

// x/access reserves 20 ~ 29.
var (
	ErrAlreadySet       = errors.Register(20, "owner already set")
	ErrNotOwner         = errors.Register(21, "not owner")
	ErrInvalidSignature = errors.Register(22, "invalid signature")
	ErrNonceMismatch    = errors.Register(23, "nonce mismatch")
)
