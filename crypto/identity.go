package crypto

import (
	"encoding/json"
	"strings"

	"github.com/stellar/go/strkey"

	"github.com/iov-one/authtoken/crypto/bech32"
	"github.com/iov-one/authtoken/errors"
)

// Secp256k1HRP is the bech32 human readable part of secp256k1 identities.
const Secp256k1HRP = "secp"

// String returns a human readable form of the identity. Ed25519 keys use the
// stellar account encoding ("G..."), secp256k1 keys use bech32.
func (p *PublicKey) String() string {
	switch p.Scheme() {
	case Ed25519:
		s, err := strkey.Encode(strkey.VersionByteAccountID, p.Raw())
		if err != nil {
			panic(err)
		}
		return s
	case Secp256k1:
		s, err := bech32.Encode(Secp256k1HRP, p.Raw())
		if err != nil {
			panic(err)
		}
		return s
	default:
		return ""
	}
}

// ParseIdentity reads a public key from its String form.
func ParseIdentity(text string) (*PublicKey, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.Wrap(errors.ErrEmpty, "identity")
	}
	if strings.HasPrefix(text, Secp256k1HRP+"1") {
		hrp, raw, err := bech32.Decode(text)
		if err != nil {
			return nil, errors.Wrapf(err, "identity %q", text)
		}
		if hrp != Secp256k1HRP {
			return nil, errors.Wrapf(errors.ErrInput, "unexpected prefix %q", hrp)
		}
		return NewPublicKey(Secp256k1, raw)
	}
	raw, err := strkey.Decode(strkey.VersionByteAccountID, text)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "identity %q: %s", text, err)
	}
	return NewPublicKey(Ed25519, raw)
}

// MarshalJSON serializes the identity as its String form.
func (p PublicKey) MarshalJSON() ([]byte, error) {
	if p.pub == nil {
		return []byte("null"), nil
	}
	return json.Marshal(p.String())
}

// UnmarshalJSON reads the identity from its String form.
func (p *PublicKey) UnmarshalJSON(raw []byte) error {
	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return errors.Wrapf(errors.ErrInput, "identity: %s", err)
	}
	key, err := ParseIdentity(text)
	if err != nil {
		return err
	}
	*p = *key
	return nil
}
