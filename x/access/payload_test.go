package access

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authtoken "github.com/iov-one/authtoken"
	"github.com/iov-one/authtoken/crypto"
	"github.com/iov-one/authtoken/errors"
	"github.com/iov-one/authtoken/weavetest"
)

func TestSignBytes(t *testing.T) {
	ctx := testContext(t)
	owner := weavetest.SeedKey(1).PublicKey()
	admin := weavetest.SeedKey(2).PublicKey()
	other := weavetest.SeedKey(3).PublicKey()

	signBytes := func(ctx authtoken.Context, function string, args ...Arg) []byte {
		t.Helper()
		p, err := NewSignaturePayload(ctx, function, args...)
		require.NoError(t, err)
		bz, err := p.SignBytes()
		require.NoError(t, err)
		return bz
	}

	base := signBytes(ctx, FunctionAddAdmin, AddAdminArgs(admin, owner, 7)...)
	// sha512 output
	assert.Len(t, base, 64)
	assert.Equal(t, base, signBytes(ctx, FunctionAddAdmin, AddAdminArgs(admin, owner, 7)...))

	otherNetwork := authtoken.WithContractID(
		authtoken.WithNetwork(context.Background(), "Public Global Stellar Network ; September 2015"),
		mustContractID(t, ctx))
	otherContract := authtoken.WithContractID(
		authtoken.WithNetwork(context.Background(), testNetwork),
		weavetest.RandomContractID(t))

	cases := map[string][]byte{
		"admin":    signBytes(ctx, FunctionAddAdmin, AddAdminArgs(other, owner, 7)...),
		"owner":    signBytes(ctx, FunctionAddAdmin, AddAdminArgs(admin, other, 7)...),
		"nonce":    signBytes(ctx, FunctionAddAdmin, AddAdminArgs(admin, owner, 8)...),
		"function": signBytes(ctx, "remove_admin", AddAdminArgs(admin, owner, 7)...),
		"network":  signBytes(otherNetwork, FunctionAddAdmin, AddAdminArgs(admin, owner, 7)...),
		"contract": signBytes(otherContract, FunctionAddAdmin, AddAdminArgs(admin, owner, 7)...),
		"arg kind": signBytes(ctx, FunctionAddAdmin, IdentityArg(admin), IdentityArg(owner), BytesArg([]byte{7})),
	}
	for changed, bz := range cases {
		if bytes.Equal(base, bz) {
			t.Errorf("changing %s does not change the sign bytes", changed)
		}
	}
}

func mustContractID(t testing.TB, ctx authtoken.Context) authtoken.ContractID {
	id, ok := authtoken.GetContractID(ctx)
	if !ok {
		t.Fatal("contract id not set")
	}
	return id
}

func TestPayloadEncoding(t *testing.T) {
	contract := weavetest.DecodeContractID(t, "0101010101010101010101010101010101010101010101010101010101010101")
	p := SignaturePayload{
		Function:   "f",
		ContractID: contract,
		Network:    "n",
		Args:       []Arg{NonceArg(1), BytesArg([]byte{0xAB})},
	}
	raw, err := p.Marshal()
	require.NoError(t, err)

	want := []byte{0x0a, 1, 'f', 0x12, 32}
	want = append(want, contract.Bytes()...)
	want = append(want, 0x1a, 1, 'n')
	want = append(want, 0x22, 2, 0x10, 1)
	want = append(want, 0x22, 3, 0x1a, 1, 0xAB)
	assert.Equal(t, want, raw)

	signBytes, err := p.SignBytes()
	require.NoError(t, err)
	assert.Equal(t, BuildSignBytes(raw), signBytes)
}

func TestSignaturePayloadErrors(t *testing.T) {
	owner := weavetest.NewKey().PublicKey()

	_, err := NewSignaturePayload(context.Background(), FunctionAddAdmin)
	assert.True(t, errors.ErrInput.Is(err))

	noContract := authtoken.WithNetwork(context.Background(), testNetwork)
	_, err = NewSignaturePayload(noContract, FunctionAddAdmin)
	assert.True(t, errors.ErrInput.Is(err))

	_, err = NewSignaturePayload(testContext(t), "add admin!")
	assert.True(t, errors.ErrInput.Is(err))

	p, err := NewSignaturePayload(testContext(t), FunctionAddAdmin, IdentityArg(&crypto.PublicKey{}), IdentityArg(owner))
	require.NoError(t, err)
	_, err = p.SignBytes()
	assert.True(t, errors.ErrEmpty.Is(err))

	var missing Arg
	_, err = missing.Marshal()
	assert.True(t, errors.ErrEmpty.Is(err))
}

func TestSignAddAdmin(t *testing.T) {
	ctx := testContext(t)
	for _, owner := range []*crypto.PrivateKey{weavetest.NewKey(), weavetest.NewSecpKey()} {
		admin := weavetest.NewKey().PublicKey()
		sig, err := SignAddAdmin(ctx, owner, admin, 3)
		require.NoError(t, err)

		p, err := NewSignaturePayload(ctx, FunctionAddAdmin, AddAdminArgs(admin, owner.PublicKey(), 3)...)
		require.NoError(t, err)
		bz, err := p.SignBytes()
		require.NoError(t, err)
		assert.True(t, owner.PublicKey().Verify(bz, sig))
	}
}
