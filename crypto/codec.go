package crypto

import (
	"github.com/iov-one/authtoken/errors"
	"github.com/iov-one/authtoken/wire"
)

// Marshal encodes the key as defined by the PublicKey message.
func (p *PublicKey) Marshal() ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return wire.NewEncoder().Bytes(int(p.Scheme()), p.Raw()).Result(), nil
}

// Unmarshal decodes the PublicKey message.
func (p *PublicKey) Unmarshal(raw []byte) error {
	d := wire.NewDecoder(raw)
	var key *PublicKey
	for d.More() {
		field, err := d.Next()
		if err != nil {
			return errors.Wrap(err, "public key")
		}
		switch s := Scheme(field); s {
		case Ed25519, Secp256k1:
			b, err := d.Bytes()
			if err != nil {
				return errors.Wrap(err, "public key")
			}
			if key, err = NewPublicKey(s, b); err != nil {
				return err
			}
		default:
			if err := d.Skip(); err != nil {
				return errors.Wrap(err, "public key")
			}
		}
	}
	if key == nil {
		return errors.Wrap(errors.ErrEmpty, "public key")
	}
	*p = *key
	return nil
}

// Marshal encodes the signature as defined by the Signature message.
func (s *Signature) Marshal() ([]byte, error) {
	if _, err := s.Identity(); err != nil {
		return nil, err
	}
	e := wire.NewEncoder()
	if err := e.Message(1, s.Pubkey); err != nil {
		return nil, err
	}
	return e.Bytes(2, s.Sig).Result(), nil
}

// Unmarshal decodes the Signature message.
func (s *Signature) Unmarshal(raw []byte) error {
	var res Signature
	d := wire.NewDecoder(raw)
	for d.More() {
		field, err := d.Next()
		if err != nil {
			return errors.Wrap(err, "signature")
		}
		switch field {
		case 1:
			b, err := d.Bytes()
			if err != nil {
				return errors.Wrap(err, "signature pubkey")
			}
			res.Pubkey = &PublicKey{}
			if err := res.Pubkey.Unmarshal(b); err != nil {
				return errors.Wrap(err, "signature pubkey")
			}
		case 2:
			if res.Sig, err = d.Bytes(); err != nil {
				return errors.Wrap(err, "signature")
			}
		default:
			if err := d.Skip(); err != nil {
				return errors.Wrap(err, "signature")
			}
		}
	}
	if _, err := res.Identity(); err != nil {
		return err
	}
	*s = res
	return nil
}
