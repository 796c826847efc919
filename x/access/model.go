package access

import (
	"encoding/binary"
	"sort"

	authtoken "github.com/iov-one/authtoken"
	"github.com/iov-one/authtoken/crypto"
	"github.com/iov-one/authtoken/errors"
	"github.com/iov-one/authtoken/wire"
)

// AdminSet is the set of identities the owner delegated to. The value of an
// admin carries no information besides being present.
type AdminSet struct {
	admins []*crypto.PublicKey
}

// Add inserts the identity. Adding an existing admin is a no-op and returns
// false.
func (s *AdminSet) Add(id *crypto.PublicKey) bool {
	i := s.search(id)
	if i < len(s.admins) && s.admins[i].Equals(id) {
		return false
	}
	s.admins = append(s.admins, nil)
	copy(s.admins[i+1:], s.admins[i:])
	s.admins[i] = id
	return true
}

// Has returns true if given identity is an admin.
func (s *AdminSet) Has(id *crypto.PublicKey) bool {
	i := s.search(id)
	return i < len(s.admins) && s.admins[i].Equals(id)
}

func (s *AdminSet) search(id *crypto.PublicKey) int {
	return sort.Search(len(s.admins), func(i int) bool {
		return s.admins[i].Compare(id) >= 0
	})
}

// Len returns the number of admins.
func (s *AdminSet) Len() int {
	return len(s.admins)
}

// List returns all admins ordered by their binary form.
func (s *AdminSet) List() []*crypto.PublicKey {
	res := make([]*crypto.PublicKey, len(s.admins))
	copy(res, s.admins)
	return res
}

// Validate returns an error if the set is not sorted or holds duplicates or
// empty identities.
func (s *AdminSet) Validate() error {
	var errs error
	for i, a := range s.admins {
		if err := a.Validate(); err != nil {
			errs = errors.AppendField(errs, "Admins", err)
			continue
		}
		if i > 0 && s.admins[i-1].Compare(a) >= 0 {
			errs = errors.Append(errs, errors.Field("Admins", errors.ErrModel, "not sorted or not unique"))
		}
	}
	return errs
}

// Marshal encodes the set as defined by the AdminSet message.
func (s *AdminSet) Marshal() ([]byte, error) {
	e := wire.NewEncoder()
	for _, a := range s.admins {
		if err := e.Message(1, a); err != nil {
			return nil, errors.Wrap(err, "admin")
		}
	}
	return e.Result(), nil
}

// Unmarshal decodes the AdminSet message.
func (s *AdminSet) Unmarshal(raw []byte) error {
	var res AdminSet
	d := wire.NewDecoder(raw)
	for d.More() {
		field, err := d.Next()
		if err != nil {
			return errors.Wrap(err, "admin set")
		}
		if field != 1 {
			if err := d.Skip(); err != nil {
				return errors.Wrap(err, "admin set")
			}
			continue
		}
		b, err := d.Bytes()
		if err != nil {
			return errors.Wrap(err, "admin")
		}
		var a crypto.PublicKey
		if err := a.Unmarshal(b); err != nil {
			return errors.Wrap(err, "admin")
		}
		res.admins = append(res.admins, &a)
	}
	if err := res.Validate(); err != nil {
		return err
	}
	*s = res
	return nil
}

// loadAdmins returns the stored admin set, empty if never written.
func loadAdmins(db authtoken.ReadOnlyKVStore) (*AdminSet, error) {
	raw, err := db.Get(AdminsKey().Bytes())
	if err != nil {
		return nil, errors.Wrap(err, "load admins")
	}
	var set AdminSet
	if raw == nil {
		return &set, nil
	}
	if err := set.Unmarshal(raw); err != nil {
		return nil, errors.Wrap(err, "stored admins")
	}
	return &set, nil
}

func saveAdmins(db authtoken.KVStore, set *AdminSet) error {
	raw, err := set.Marshal()
	if err != nil {
		return err
	}
	return db.Set(AdminsKey().Bytes(), raw)
}

// loadOwner returns ErrNotFound if the owner was never set.
func loadOwner(db authtoken.ReadOnlyKVStore) (*crypto.PublicKey, error) {
	raw, err := db.Get(OwnerKey().Bytes())
	if err != nil {
		return nil, errors.Wrap(err, "load owner")
	}
	if raw == nil {
		return nil, errors.Wrap(errors.ErrNotFound, "owner")
	}
	var owner crypto.PublicKey
	if err := owner.Unmarshal(raw); err != nil {
		return nil, errors.Wrap(err, "stored owner")
	}
	return &owner, nil
}

func saveOwner(db authtoken.KVStore, owner *crypto.PublicKey) error {
	raw, err := owner.Marshal()
	if err != nil {
		return err
	}
	return db.Set(OwnerKey().Bytes(), raw)
}

// nonceSize is the length of a stored nonce, 8 bytes big endian.
const nonceSize = 8

func encodeNonce(n uint64) []byte {
	raw := make([]byte, nonceSize)
	binary.BigEndian.PutUint64(raw, n)
	return raw
}

func decodeNonce(raw []byte) (uint64, error) {
	if len(raw) != nonceSize {
		return 0, errors.Wrapf(errors.ErrModel, "nonce must be %d bytes, got %d", nonceSize, len(raw))
	}
	return binary.BigEndian.Uint64(raw), nil
}
