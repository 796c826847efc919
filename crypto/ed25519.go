package crypto

import (
	"golang.org/x/crypto/ed25519"

	"github.com/iov-one/authtoken/errors"
)

type ed25519PubKey []byte

var _ pubKey = ed25519PubKey(nil)

func newEd25519PubKey(raw []byte) (ed25519PubKey, error) {
	if len(raw) != ed25519.PublicKeySize {
		return nil, errors.Wrapf(errors.ErrInput, "ed25519 public key must be %d bytes, got %d", ed25519.PublicKeySize, len(raw))
	}
	return ed25519PubKey(append([]byte(nil), raw...)), nil
}

func (p ed25519PubKey) scheme() Scheme { return Ed25519 }
func (p ed25519PubKey) raw() []byte    { return p }

// verify verifies the signature was created with this message and public key
func (p ed25519PubKey) verify(message, sig []byte) bool {
	if len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(p), message, sig)
}

type ed25519PrivKey []byte

var _ privKey = ed25519PrivKey(nil)

func newEd25519PrivKey(raw []byte) (ed25519PrivKey, error) {
	if len(raw) != ed25519.PrivateKeySize {
		return nil, errors.Wrapf(errors.ErrInput, "ed25519 private key must be %d bytes, got %d", ed25519.PrivateKeySize, len(raw))
	}
	return ed25519PrivKey(append([]byte(nil), raw...)), nil
}

func (p ed25519PrivKey) scheme() Scheme { return Ed25519 }
func (p ed25519PrivKey) raw() []byte    { return p }

func (p ed25519PrivKey) sign(message []byte) ([]byte, error) {
	return ed25519.Sign(ed25519.PrivateKey(p), message), nil
}

func (p ed25519PrivKey) public() pubKey {
	pub := ed25519.PrivateKey(p).Public().(ed25519.PublicKey)
	return ed25519PubKey(pub)
}

// GenPrivKeyEd25519 returns a random new private key
func GenPrivKeyEd25519() *PrivateKey {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		panic(err)
	}
	return &PrivateKey{priv: ed25519PrivKey(priv)}
}

// PrivKeyEd25519FromSeed will deterministically generate a private key from
// a given seed. Use if you have a strong source of external randomness,
// or for deterministic keys in test cases.
//
// Panics if the seed is not exactly 32 bytes.
func PrivKeyEd25519FromSeed(seed []byte) *PrivateKey {
	priv := ed25519.NewKeyFromSeed(seed)
	return &PrivateKey{priv: ed25519PrivKey(priv)}
}
