package access

import (
	authtoken "github.com/iov-one/authtoken"
	"github.com/iov-one/authtoken/crypto"
	"github.com/iov-one/authtoken/errors"
)

// CheckAuth verifies that sig was made by id over the call to function with
// given arguments, and that claimedNonce is the current nonce of id. Only if
// both hold, the nonce of id is advanced. A failed check never modifies the
// store.
//
// The arguments must include claimedNonce, so that the signature is bound to
// it.
func CheckAuth(
	ctx authtoken.Context,
	db authtoken.KVStore,
	id *crypto.PublicKey,
	sig *crypto.Signature,
	claimedNonce uint64,
	function string,
	args ...Arg,
) error {
	if err := id.Validate(); err != nil {
		return errors.Wrap(err, "identity")
	}

	payload, err := NewSignaturePayload(ctx, function, args...)
	if err != nil {
		return errors.Wrap(err, "payload")
	}
	signBytes, err := payload.SignBytes()
	if err != nil {
		return errors.Wrap(err, "sign bytes")
	}
	if !id.Verify(signBytes, sig) {
		return errors.Wrapf(ErrInvalidSignature, "%s signature of %q", id.Scheme(), function)
	}

	current, err := ReadNonce(db, id)
	if err != nil {
		return err
	}
	if claimedNonce != current {
		return errors.Wrapf(ErrNonceMismatch, "mismatch expected %d, got %d", current, claimedNonce)
	}

	if _, err := ReadAndIncrementNonce(db, id); err != nil {
		return errors.Wrap(err, "advance nonce")
	}
	return nil
}
