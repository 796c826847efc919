package weavetest

import (
	"github.com/iov-one/authtoken/crypto"
)

// NewKey returns a random ed25519 signer.
func NewKey() *crypto.PrivateKey {
	return crypto.GenPrivKeyEd25519()
}

// NewSecpKey returns a random secp256k1 signer.
func NewSecpKey() *crypto.PrivateKey {
	return crypto.GenPrivKeySecp256k1()
}

// SeedKey returns a deterministic ed25519 signer. Different bytes produce
// different keys.
func SeedKey(b byte) *crypto.PrivateKey {
	seed := make([]byte, 32)
	for i := range seed {
		seed[i] = b
	}
	return crypto.PrivKeyEd25519FromSeed(seed)
}
