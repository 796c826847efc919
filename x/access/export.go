package access

import (
	"encoding/json"

	authtoken "github.com/iov-one/authtoken"
	"github.com/iov-one/authtoken/errors"
)

// Export returns the whole access state in a form that FromGenesis can load.
func Export(db authtoken.ReadOnlyKVStore) (*Genesis, error) {
	var gen Genesis

	owner, err := loadOwner(db)
	switch {
	case err == nil:
		gen.Owner = owner
	case !errors.ErrNotFound.Is(err):
		return nil, err
	}

	admins, err := loadAdmins(db)
	if err != nil {
		return nil, err
	}
	gen.Admins = admins.List()

	start, end := nonceRange()
	it, err := db.Iterator(start, end)
	if err != nil {
		return nil, errors.Wrap(err, "nonce iterator")
	}
	defer it.Close()
	for ; it.Valid(); it.Next() {
		id, err := nonceIdentity(it.Key())
		if err != nil {
			return nil, err
		}
		n, err := decodeNonce(it.Value())
		if err != nil {
			return nil, errors.Wrapf(err, "nonce of %s", id)
		}
		gen.Nonces = append(gen.Nonces, NonceEntry{Identity: id, Nonce: n})
	}
	return &gen, nil
}

// ExportOptions returns the access state as genesis options.
func ExportOptions(db authtoken.ReadOnlyKVStore) (authtoken.Options, error) {
	gen, err := Export(db)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(gen)
	if err != nil {
		return nil, errors.Wrap(errors.ErrModel, err.Error())
	}
	return authtoken.Options{OptionsKey: raw}, nil
}
