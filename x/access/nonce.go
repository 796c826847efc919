package access

import (
	"math"

	authtoken "github.com/iov-one/authtoken"
	"github.com/iov-one/authtoken/crypto"
	"github.com/iov-one/authtoken/errors"
)

// ReadNonce returns the nonce that must be used by the next request signed
// by given identity. If not yet present, nonce counting starts with zero.
func ReadNonce(db authtoken.ReadOnlyKVStore, id *crypto.PublicKey) (uint64, error) {
	if err := id.Validate(); err != nil {
		return 0, errors.Wrap(err, "nonce identity")
	}
	raw, err := db.Get(NonceKey(id).Bytes())
	if err != nil {
		return 0, errors.Wrap(err, "load nonce")
	}
	if raw == nil {
		return 0, nil
	}
	n, err := decodeNonce(raw)
	if err != nil {
		return 0, errors.Wrap(err, "stored nonce")
	}
	return n, nil
}

// ReadAndIncrementNonce returns the current nonce of given identity and
// persists the next value. It must only be called once all checks depending
// on the returned value have passed.
func ReadAndIncrementNonce(db authtoken.KVStore, id *crypto.PublicKey) (uint64, error) {
	n, err := ReadNonce(db, id)
	if err != nil {
		return 0, err
	}
	if n == math.MaxUint64 {
		return 0, errors.Wrap(errors.ErrOverflow, "nonce exhausted")
	}
	if err := writeNonce(db, id, n+1); err != nil {
		return 0, err
	}
	return n, nil
}

func writeNonce(db authtoken.KVStore, id *crypto.PublicKey, n uint64) error {
	if err := db.Set(NonceKey(id).Bytes(), encodeNonce(n)); err != nil {
		return errors.Wrap(err, "save nonce")
	}
	return nil
}
