package crypto

import (
	"crypto/sha256"
	"math/big"

	"github.com/btcsuite/btcd/btcec"

	"github.com/iov-one/authtoken/errors"
)

const (
	secp256k1PubKeySize  = 33
	secp256k1PrivKeySize = 32
)

var secp256k1HalfOrder = new(big.Int).Rsh(btcec.S256().N, 1)

// secp256k1PubKey is a compressed curve point.
type secp256k1PubKey []byte

var _ pubKey = secp256k1PubKey(nil)

func newSecp256k1PubKey(raw []byte) (secp256k1PubKey, error) {
	if len(raw) != secp256k1PubKeySize {
		return nil, errors.Wrapf(errors.ErrInput, "secp256k1 public key must be %d bytes compressed, got %d", secp256k1PubKeySize, len(raw))
	}
	if _, err := btcec.ParsePubKey(raw, btcec.S256()); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "secp256k1 public key: %s", err)
	}
	return secp256k1PubKey(append([]byte(nil), raw...)), nil
}

func (p secp256k1PubKey) scheme() Scheme { return Secp256k1 }
func (p secp256k1PubKey) raw() []byte    { return p }

// verify accepts only strict DER signatures with a low S value, so that a
// signature cannot be altered into another valid one.
func (p secp256k1PubKey) verify(message, sig []byte) bool {
	pub, err := btcec.ParsePubKey(p, btcec.S256())
	if err != nil {
		return false
	}
	parsed, err := btcec.ParseDERSignature(sig, btcec.S256())
	if err != nil {
		return false
	}
	if parsed.S.Cmp(secp256k1HalfOrder) > 0 {
		return false
	}
	hash := sha256.Sum256(message)
	return parsed.Verify(hash[:], pub)
}

type secp256k1PrivKey []byte

var _ privKey = secp256k1PrivKey(nil)

func newSecp256k1PrivKey(raw []byte) (secp256k1PrivKey, error) {
	if len(raw) != secp256k1PrivKeySize {
		return nil, errors.Wrapf(errors.ErrInput, "secp256k1 private key must be %d bytes, got %d", secp256k1PrivKeySize, len(raw))
	}
	d := new(big.Int).SetBytes(raw)
	if d.Sign() == 0 || d.Cmp(btcec.S256().N) >= 0 {
		return nil, errors.Wrap(errors.ErrInput, "secp256k1 private key out of range")
	}
	return secp256k1PrivKey(append([]byte(nil), raw...)), nil
}

func (p secp256k1PrivKey) scheme() Scheme { return Secp256k1 }
func (p secp256k1PrivKey) raw() []byte    { return p }

func (p secp256k1PrivKey) sign(message []byte) ([]byte, error) {
	priv, _ := btcec.PrivKeyFromBytes(btcec.S256(), p)
	hash := sha256.Sum256(message)
	sig, err := priv.Sign(hash[:])
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "secp256k1 sign: %s", err)
	}
	// Serialize always produces the low S form.
	return sig.Serialize(), nil
}

func (p secp256k1PrivKey) public() pubKey {
	_, pub := btcec.PrivKeyFromBytes(btcec.S256(), p)
	return secp256k1PubKey(pub.SerializeCompressed())
}

// GenPrivKeySecp256k1 returns a random new private key.
func GenPrivKeySecp256k1() *PrivateKey {
	priv, err := btcec.NewPrivateKey(btcec.S256())
	if err != nil {
		panic(err)
	}
	return &PrivateKey{priv: secp256k1PrivKey(priv.Serialize())}
}
