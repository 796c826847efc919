package access

import (
	authtoken "github.com/iov-one/authtoken"
	"github.com/iov-one/authtoken/crypto"
	"github.com/iov-one/authtoken/errors"
)

//----------------- Controller ------------------
//
// Controller functions are package level and stateless. Every mutating
// function works on a cache wrap of the given store and writes it back only
// when the whole operation succeeded.

// SetOwner sets the owner of the contract instance. The owner can be set only
// once, any later call fails with ErrAlreadySet.
func SetOwner(ctx authtoken.Context, db authtoken.CacheableKVStore, owner *crypto.PublicKey) error {
	if err := owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	cache := db.CacheWrap()
	defer cache.Discard()

	if err := setOwner(cache, owner); err != nil {
		return err
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(err, "write")
	}
	authtoken.GetLogger(ctx).Info("owner set", "owner", owner.String())
	return nil
}

func setOwner(db authtoken.KVStore, owner *crypto.PublicKey) error {
	switch current, err := loadOwner(db); {
	case err == nil:
		return errors.Wrapf(ErrAlreadySet, "owner is %s", current)
	case !errors.ErrNotFound.Is(err):
		return err
	}
	return saveOwner(db, owner)
}

// Owner returns the owner identity or ErrNotFound if it was not set yet.
func Owner(db authtoken.ReadOnlyKVStore) (*crypto.PublicKey, error) {
	return loadOwner(db)
}

// AddAdmin adds an admin on behalf of the owner. The signature must be made
// by the owner over the add_admin call with given admin and nonce, where
// nonce is the current nonce of the owner.
//
// A signature made by any other identity fails with ErrNotOwner before any
// signature verification takes place, so that it never consumes a nonce.
func AddAdmin(
	ctx authtoken.Context,
	db authtoken.CacheableKVStore,
	admin *crypto.PublicKey,
	sig *crypto.Signature,
	nonce uint64,
) error {
	if err := admin.Validate(); err != nil {
		return errors.Wrap(err, "admin")
	}
	signer, err := sig.Identity()
	if err != nil {
		return errors.Wrapf(ErrInvalidSignature, "cannot recover signer: %s", err)
	}

	cache := db.CacheWrap()
	defer cache.Discard()

	owner, err := loadOwner(cache)
	switch {
	case errors.ErrNotFound.Is(err):
		return errors.Wrap(ErrNotOwner, "owner not set")
	case err != nil:
		return err
	}
	if !signer.Equals(owner) {
		return errors.Wrapf(ErrNotOwner, "signed by %s", signer)
	}

	args := AddAdminArgs(admin, owner, nonce)
	if err := CheckAuth(ctx, cache, owner, sig, nonce, FunctionAddAdmin, args...); err != nil {
		return err
	}

	admins, err := loadAdmins(cache)
	if err != nil {
		return err
	}
	admins.Add(admin)
	if err := saveAdmins(cache, admins); err != nil {
		return err
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(err, "write")
	}
	authtoken.GetLogger(ctx).Info("admin added",
		"admin", admin.String(),
		"owner", owner.String(),
		"nonce", nonce)
	return nil
}

// GetAdmins returns all admins ordered by their binary form. The result is
// empty if no admin was ever added.
func GetAdmins(db authtoken.ReadOnlyKVStore) ([]*crypto.PublicKey, error) {
	admins, err := loadAdmins(db)
	if err != nil {
		return nil, err
	}
	return admins.List(), nil
}

// IsAdmin returns true if given identity was added as an admin.
func IsAdmin(db authtoken.ReadOnlyKVStore, id *crypto.PublicKey) (bool, error) {
	admins, err := loadAdmins(db)
	if err != nil {
		return false, err
	}
	return admins.Has(id), nil
}

// Nonce returns the nonce the next request signed by given identity must
// use. Zero for an identity that never made a request.
func Nonce(db authtoken.ReadOnlyKVStore, id *crypto.PublicKey) (uint64, error) {
	return ReadNonce(db, id)
}
