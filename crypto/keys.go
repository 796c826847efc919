package crypto

import (
	"bytes"
	"strings"

	"github.com/iov-one/authtoken/errors"
)

// Scheme identifies a signature algorithm.
type Scheme uint8

const (
	// Ed25519 keys are 32 bytes, signatures 64 bytes.
	Ed25519 Scheme = 1
	// Secp256k1 keys are 33 byte compressed points, signatures are DER
	// encoded with a low S value.
	Secp256k1 Scheme = 2
)

// String returns the scheme name as used on the command line.
func (s Scheme) String() string {
	switch s {
	case Ed25519:
		return "ed25519"
	case Secp256k1:
		return "secp256k1"
	default:
		return "unknown"
	}
}

// ParseScheme returns the scheme with given name.
func ParseScheme(name string) (Scheme, error) {
	switch strings.ToLower(name) {
	case "ed25519":
		return Ed25519, nil
	case "secp256k1":
		return Secp256k1, nil
	}
	return 0, errors.Wrapf(errors.ErrInput, "unknown signature scheme %q", name)
}

// Signer is the functionality we use from a private key
// No serializing to support hardware devices as well.
type Signer interface {
	Sign(message []byte) (*Signature, error)
	PublicKey() *PublicKey
}

// pubKey is implemented by every supported scheme.
type pubKey interface {
	scheme() Scheme
	raw() []byte
	verify(message, sig []byte) bool
}

// privKey is implemented by every supported scheme.
type privKey interface {
	scheme() Scheme
	raw() []byte
	sign(message []byte) ([]byte, error)
	public() pubKey
}

// PublicKey is an identity. The zero value is an empty key that never
// verifies anything.
type PublicKey struct {
	pub pubKey
}

// NewPublicKey validates raw key material of given scheme.
func NewPublicKey(s Scheme, raw []byte) (*PublicKey, error) {
	var (
		pub pubKey
		err error
	)
	switch s {
	case Ed25519:
		pub, err = newEd25519PubKey(raw)
	case Secp256k1:
		pub, err = newSecp256k1PubKey(raw)
	default:
		return nil, errors.Wrapf(errors.ErrType, "unsupported scheme %d", s)
	}
	if err != nil {
		return nil, err
	}
	return &PublicKey{pub: pub}, nil
}

// ParsePublicKey reads the binary form returned by Bytes.
func ParsePublicKey(b []byte) (*PublicKey, error) {
	if len(b) == 0 {
		return nil, errors.Wrap(errors.ErrEmpty, "public key")
	}
	return NewPublicKey(Scheme(b[0]), b[1:])
}

// Scheme returns the algorithm of this key, 0 for an empty key.
func (p *PublicKey) Scheme() Scheme {
	if p == nil || p.pub == nil {
		return 0
	}
	return p.pub.scheme()
}

// Raw returns the key material without the scheme tag.
func (p *PublicKey) Raw() []byte {
	if p == nil || p.pub == nil {
		return nil
	}
	return p.pub.raw()
}

// Bytes returns the scheme tag followed by the key material. This is the
// canonical binary form, used in signed payloads and as a storage key.
func (p *PublicKey) Bytes() []byte {
	if p == nil || p.pub == nil {
		return nil
	}
	raw := p.pub.raw()
	b := make([]byte, 0, 1+len(raw))
	b = append(b, byte(p.pub.scheme()))
	return append(b, raw...)
}

// Validate returns an error for an empty key.
func (p *PublicKey) Validate() error {
	if p == nil || p.pub == nil {
		return errors.Wrap(errors.ErrEmpty, "public key")
	}
	return nil
}

// Equals returns true if both keys are the same identity.
func (p *PublicKey) Equals(other *PublicKey) bool {
	return bytes.Equal(p.Bytes(), other.Bytes())
}

// Compare orders identities by their binary form.
func (p *PublicKey) Compare(other *PublicKey) int {
	return bytes.Compare(p.Bytes(), other.Bytes())
}

// Verify returns true if sig was created over message by this key.
func (p *PublicKey) Verify(message []byte, sig *Signature) bool {
	if p == nil || p.pub == nil || sig == nil {
		return false
	}
	if !p.Equals(sig.Pubkey) {
		return false
	}
	return p.pub.verify(message, sig.Sig)
}

// PrivateKey holds signing material of one of the supported schemes.
type PrivateKey struct {
	priv privKey
}

var _ Signer = (*PrivateKey)(nil)

// ParsePrivateKey reads the binary form returned by Bytes.
func ParsePrivateKey(b []byte) (*PrivateKey, error) {
	if len(b) == 0 {
		return nil, errors.Wrap(errors.ErrEmpty, "private key")
	}
	var (
		priv privKey
		err  error
	)
	switch s := Scheme(b[0]); s {
	case Ed25519:
		priv, err = newEd25519PrivKey(b[1:])
	case Secp256k1:
		priv, err = newSecp256k1PrivKey(b[1:])
	default:
		return nil, errors.Wrapf(errors.ErrType, "unsupported scheme %d", s)
	}
	if err != nil {
		return nil, err
	}
	return &PrivateKey{priv: priv}, nil
}

// Scheme returns the algorithm of this key.
func (p *PrivateKey) Scheme() Scheme {
	if p == nil || p.priv == nil {
		return 0
	}
	return p.priv.scheme()
}

// Bytes returns the scheme tag followed by the secret key material.
func (p *PrivateKey) Bytes() []byte {
	if p == nil || p.priv == nil {
		return nil
	}
	raw := p.priv.raw()
	b := make([]byte, 0, 1+len(raw))
	b = append(b, byte(p.priv.scheme()))
	return append(b, raw...)
}

// Sign returns a signature that carries the public key of the signer.
func (p *PrivateKey) Sign(message []byte) (*Signature, error) {
	if p == nil || p.priv == nil {
		return nil, errors.Wrap(errors.ErrEmpty, "private key")
	}
	sig, err := p.priv.sign(message)
	if err != nil {
		return nil, err
	}
	return &Signature{
		Pubkey: &PublicKey{pub: p.priv.public()},
		Sig:    sig,
	}, nil
}

// PublicKey returns the corresponding PublicKey
func (p *PrivateKey) PublicKey() *PublicKey {
	if p == nil || p.priv == nil {
		return nil
	}
	return &PublicKey{pub: p.priv.public()}
}

// Signature is a signature together with the identity that produced it, so
// that the signer can always be recovered from the signature alone.
type Signature struct {
	Pubkey *PublicKey
	Sig    []byte
}

// Identity returns the signer of this signature.
func (s *Signature) Identity() (*PublicKey, error) {
	if s == nil {
		return nil, errors.Wrap(errors.ErrEmpty, "signature")
	}
	if err := s.Pubkey.Validate(); err != nil {
		return nil, errors.Wrap(err, "signature identity")
	}
	if len(s.Sig) == 0 {
		return nil, errors.Wrap(errors.ErrEmpty, "signature")
	}
	return s.Pubkey, nil
}
