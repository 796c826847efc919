package access

import (
	"github.com/iov-one/authtoken/crypto"
	"github.com/iov-one/authtoken/errors"
)

// keyPrefix namespaces every key written by this extension.
const keyPrefix = "authtoken:"

type keyKind byte

const (
	kindOwner keyKind = iota
	kindAdmins
	kindNonce
)

// DataStoreKey is a storage location of this extension. It is a tagged
// variant, Owner and Admins are singletons, Nonce is kept per identity.
type DataStoreKey struct {
	kind     keyKind
	identity *crypto.PublicKey
}

// OwnerKey points at the owner identity.
func OwnerKey() DataStoreKey {
	return DataStoreKey{kind: kindOwner}
}

// AdminsKey points at the admin set.
func AdminsKey() DataStoreKey {
	return DataStoreKey{kind: kindAdmins}
}

// NonceKey points at the nonce counter of given identity.
func NonceKey(id *crypto.PublicKey) DataStoreKey {
	return DataStoreKey{kind: kindNonce, identity: id}
}

// Bytes returns the raw key.
func (k DataStoreKey) Bytes() []byte {
	raw := append([]byte(keyPrefix), byte(k.kind))
	if k.kind == kindNonce {
		raw = append(raw, k.identity.Bytes()...)
	}
	return raw
}

// nonceRange returns the [start, end) range of all nonce keys.
func nonceRange() ([]byte, []byte) {
	start := append([]byte(keyPrefix), byte(kindNonce))
	end := append([]byte(keyPrefix), byte(kindNonce)+1)
	return start, end
}

// nonceIdentity extracts the identity from a raw nonce key.
func nonceIdentity(key []byte) (*crypto.PublicKey, error) {
	start, _ := nonceRange()
	if len(key) <= len(start) || string(key[:len(start)]) != string(start) {
		return nil, errors.Wrapf(errors.ErrModel, "not a nonce key: %X", key)
	}
	return crypto.ParsePublicKey(key[len(start):])
}
