package access

import (
	"bytes"
	"testing"

	"github.com/tendermint/tendermint/libs/log"

	authtoken "github.com/iov-one/authtoken"
	"github.com/iov-one/authtoken/crypto"
	"github.com/iov-one/authtoken/errors"
	"github.com/iov-one/authtoken/store"
	"github.com/iov-one/authtoken/weavetest"
	"github.com/iov-one/authtoken/weavetest/assert"
)

func assertNonce(t testing.TB, db authtoken.ReadOnlyKVStore, id *crypto.PublicKey, want uint64) {
	t.Helper()
	got, err := Nonce(db, id)
	assert.Nil(t, err)
	assert.Equal(t, want, got)
}

func TestSetOwner(t *testing.T) {
	ctx := testContext(t)
	db := store.MemStore()
	first := weavetest.NewKey().PublicKey()
	second := weavetest.NewSecpKey().PublicKey()

	_, err := Owner(db)
	assert.IsErr(t, errors.ErrNotFound, err)

	assert.Nil(t, SetOwner(ctx, db, first))
	owner, err := Owner(db)
	assert.Nil(t, err)
	assert.Equal(t, true, owner.Equals(first))

	for _, id := range []*crypto.PublicKey{second, first} {
		assert.IsErr(t, ErrAlreadySet, SetOwner(ctx, db, id))
		owner, err := Owner(db)
		assert.Nil(t, err)
		assert.Equal(t, true, owner.Equals(first))
	}

	assert.IsErr(t, errors.ErrEmpty, SetOwner(ctx, store.MemStore(), nil))
}

func TestAddAdmin(t *testing.T) {
	owner := weavetest.NewKey()
	mallory := weavetest.NewKey()
	admin := weavetest.NewKey().PublicKey()

	cases := map[string]struct {
		// prepare returns the signature and nonce submitted with the
		// request, after adjusting the state as needed.
		prepare func(t testing.TB, ctx authtoken.Context, db authtoken.CacheableKVStore) (*crypto.Signature, uint64)
		noOwner bool
		wantErr *errors.Error
		// wantNonce is the owner nonce after the call.
		wantNonce uint64
	}{
		"owner signed with current nonce": {
			prepare: func(t testing.TB, ctx authtoken.Context, db authtoken.CacheableKVStore) (*crypto.Signature, uint64) {
				sig, err := SignAddAdmin(ctx, owner, admin, 0)
				assert.Nil(t, err)
				return sig, 0
			},
			wantNonce: 1,
		},
		"owner not set": {
			noOwner: true,
			prepare: func(t testing.TB, ctx authtoken.Context, db authtoken.CacheableKVStore) (*crypto.Signature, uint64) {
				sig, err := SignAddAdmin(ctx, owner, admin, 0)
				assert.Nil(t, err)
				return sig, 0
			},
			wantErr: ErrNotOwner,
		},
		"signed by a non owner": {
			prepare: func(t testing.TB, ctx authtoken.Context, db authtoken.CacheableKVStore) (*crypto.Signature, uint64) {
				sig, err := SignAddAdmin(ctx, mallory, admin, 0)
				assert.Nil(t, err)
				return sig, 0
			},
			wantErr: ErrNotOwner,
		},
		"invalid signature bytes": {
			prepare: func(t testing.TB, ctx authtoken.Context, db authtoken.CacheableKVStore) (*crypto.Signature, uint64) {
				sig, err := SignAddAdmin(ctx, owner, admin, 0)
				assert.Nil(t, err)
				sig.Sig[0] ^= 0xFF
				return sig, 0
			},
			wantErr: ErrInvalidSignature,
		},
		"signed for another admin": {
			prepare: func(t testing.TB, ctx authtoken.Context, db authtoken.CacheableKVStore) (*crypto.Signature, uint64) {
				sig, err := SignAddAdmin(ctx, owner, mallory.PublicKey(), 0)
				assert.Nil(t, err)
				return sig, 0
			},
			wantErr: ErrInvalidSignature,
		},
		"signed for another nonce than submitted": {
			prepare: func(t testing.TB, ctx authtoken.Context, db authtoken.CacheableKVStore) (*crypto.Signature, uint64) {
				sig, err := SignAddAdmin(ctx, owner, admin, 1)
				assert.Nil(t, err)
				return sig, 0
			},
			wantErr: ErrInvalidSignature,
		},
		"future nonce": {
			prepare: func(t testing.TB, ctx authtoken.Context, db authtoken.CacheableKVStore) (*crypto.Signature, uint64) {
				sig, err := SignAddAdmin(ctx, owner, admin, 1)
				assert.Nil(t, err)
				return sig, 1
			},
			wantErr: ErrNonceMismatch,
		},
		"stale nonce": {
			prepare: func(t testing.TB, ctx authtoken.Context, db authtoken.CacheableKVStore) (*crypto.Signature, uint64) {
				assert.Nil(t, writeNonce(db, owner.PublicKey(), 5))
				sig, err := SignAddAdmin(ctx, owner, admin, 4)
				assert.Nil(t, err)
				return sig, 4
			},
			wantErr:   ErrNonceMismatch,
			wantNonce: 5,
		},
		"signature without identity": {
			prepare: func(t testing.TB, ctx authtoken.Context, db authtoken.CacheableKVStore) (*crypto.Signature, uint64) {
				sig, err := SignAddAdmin(ctx, owner, admin, 0)
				assert.Nil(t, err)
				sig.Pubkey = nil
				return sig, 0
			},
			wantErr: ErrInvalidSignature,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			ctx := testContext(t)
			db := store.MemStore()
			if !tc.noOwner {
				assert.Nil(t, SetOwner(ctx, db, owner.PublicKey()))
			}
			sig, nonce := tc.prepare(t, ctx, db)

			err := AddAdmin(ctx, db, admin, sig, nonce)
			assert.IsErr(t, tc.wantErr, err)

			assertNonce(t, db, owner.PublicKey(), tc.wantNonce)
			assertNonce(t, db, mallory.PublicKey(), 0)

			isAdmin, err := IsAdmin(db, admin)
			assert.Nil(t, err)
			assert.Equal(t, tc.wantErr == nil, isAdmin)
		})
	}
}

func TestAddAdminCorruptAdminSet(t *testing.T) {
	ctx := testContext(t)
	db := store.MemStore()
	owner := weavetest.NewKey()
	admin := weavetest.NewKey().PublicKey()
	assert.Nil(t, SetOwner(ctx, db, owner.PublicKey()))
	assert.Nil(t, db.Set(AdminsKey().Bytes(), []byte{0xff, 0xff}))

	sig, err := SignAddAdmin(ctx, owner, admin, 0)
	assert.Nil(t, err)
	assert.IsErr(t, errors.ErrModel, AddAdmin(ctx, db, admin, sig, 0))

	// The nonce consumed by the signature check is rolled back together
	// with the failed write.
	assertNonce(t, db, owner.PublicKey(), 0)
	raw, err := db.Get(AdminsKey().Bytes())
	assert.Nil(t, err)
	assert.Equal(t, []byte{0xff, 0xff}, raw)
}

func TestAddAdminReplay(t *testing.T) {
	ctx := testContext(t)
	db := store.MemStore()
	owner := weavetest.NewSecpKey()
	admin := weavetest.NewKey().PublicKey()
	assert.Nil(t, SetOwner(ctx, db, owner.PublicKey()))

	sig, err := SignAddAdmin(ctx, owner, admin, 0)
	assert.Nil(t, err)
	assert.Nil(t, AddAdmin(ctx, db, admin, sig, 0))
	assertNonce(t, db, owner.PublicKey(), 1)

	assert.IsErr(t, ErrNonceMismatch, AddAdmin(ctx, db, admin, sig, 0))
	assertNonce(t, db, owner.PublicKey(), 1)

	// The same signature is worthless in another contract instance.
	otherCtx := testContext(t)
	otherDB := store.MemStore()
	assert.Nil(t, SetOwner(otherCtx, otherDB, owner.PublicKey()))
	assert.IsErr(t, ErrInvalidSignature, AddAdmin(otherCtx, otherDB, admin, sig, 0))
	assertNonce(t, otherDB, owner.PublicKey(), 0)
}

func TestAddAdminIsIdempotent(t *testing.T) {
	ctx := testContext(t)
	db := store.MemStore()
	owner := weavetest.NewKey()
	admin := weavetest.NewKey().PublicKey()
	assert.Nil(t, SetOwner(ctx, db, owner.PublicKey()))

	for nonce := uint64(0); nonce < 2; nonce++ {
		sig, err := SignAddAdmin(ctx, owner, admin, nonce)
		assert.Nil(t, err)
		assert.Nil(t, AddAdmin(ctx, db, admin, sig, nonce))
	}
	admins, err := GetAdmins(db)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(admins))
	assertNonce(t, db, owner.PublicKey(), 2)
}

func TestAddAdminLogs(t *testing.T) {
	var buf bytes.Buffer
	ctx := authtoken.WithLogger(testContext(t), log.NewTMLogger(&buf))
	db := store.MemStore()
	owner := weavetest.NewKey()
	admin := weavetest.NewKey().PublicKey()

	assert.Nil(t, SetOwner(ctx, db, owner.PublicKey()))
	sig, err := SignAddAdmin(ctx, owner, admin, 0)
	assert.Nil(t, err)
	assert.Nil(t, AddAdmin(ctx, db, admin, sig, 0))

	out := buf.String()
	for _, want := range []string{"owner set", "admin added", admin.String()} {
		if !bytes.Contains([]byte(out), []byte(want)) {
			t.Errorf("log output does not contain %q: %s", want, out)
		}
	}
}

func TestGetAdminsOrdered(t *testing.T) {
	ctx := testContext(t)
	db := store.MemStore()
	owner := weavetest.NewKey()
	assert.Nil(t, SetOwner(ctx, db, owner.PublicKey()))

	admins, err := GetAdmins(db)
	assert.Nil(t, err)
	assert.Equal(t, 0, len(admins))

	added := []*crypto.PublicKey{
		weavetest.NewSecpKey().PublicKey(),
		weavetest.SeedKey(9).PublicKey(),
		weavetest.SeedKey(3).PublicKey(),
	}
	for i, a := range added {
		sig, err := SignAddAdmin(ctx, owner, a, uint64(i))
		assert.Nil(t, err)
		assert.Nil(t, AddAdmin(ctx, db, a, sig, uint64(i)))
	}

	admins, err = GetAdmins(db)
	assert.Nil(t, err)
	assert.Equal(t, len(added), len(admins))
	for i := 1; i < len(admins); i++ {
		if admins[i-1].Compare(admins[i]) >= 0 {
			t.Fatalf("admins not ordered at %d", i)
		}
	}
	// ed25519 identities sort before secp256k1 ones.
	assert.Equal(t, crypto.Secp256k1, admins[2].Scheme())
}
