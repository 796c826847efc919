package crypto

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/iov-one/authtoken/errors"
	"github.com/iov-one/authtoken/weavetest/assert"
)

func TestIdentityText(t *testing.T) {
	cases := map[string]struct {
		key    *PublicKey
		prefix string
	}{
		"ed25519": {
			key:    PrivKeyEd25519FromSeed(make([]byte, 32)).PublicKey(),
			prefix: "G",
		},
		"secp256k1": {
			key:    GenPrivKeySecp256k1().PublicKey(),
			prefix: "secp1",
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			text := tc.key.String()
			if !strings.HasPrefix(text, tc.prefix) {
				t.Fatalf("want %q prefix, got %q", tc.prefix, text)
			}
			parsed, err := ParseIdentity(text)
			assert.Nil(t, err)
			assert.Equal(t, true, parsed.Equals(tc.key))

			raw, err := json.Marshal(tc.key)
			assert.Nil(t, err)
			var fromJSON PublicKey
			assert.Nil(t, json.Unmarshal(raw, &fromJSON))
			assert.Equal(t, true, fromJSON.Equals(tc.key))
		})
	}
}

func TestParseIdentityErrors(t *testing.T) {
	cases := map[string]struct {
		text    string
		wantErr *errors.Error
	}{
		"empty":            {text: " ", wantErr: errors.ErrEmpty},
		"not an account":   {text: "hello", wantErr: errors.ErrInput},
		"broken bech32":    {text: "secp1qqqq", wantErr: errors.ErrInput},
		"wrong strkey ver": {text: "SAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA", wantErr: errors.ErrInput},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			_, err := ParseIdentity(tc.text)
			assert.IsErr(t, tc.wantErr, err)
		})
	}
}

func TestIdentityOrdering(t *testing.T) {
	a := PrivKeyEd25519FromSeed(make([]byte, 32)).PublicKey()
	seed := make([]byte, 32)
	seed[0] = 1
	b := PrivKeyEd25519FromSeed(seed).PublicKey()
	s := GenPrivKeySecp256k1().PublicKey()

	assert.Equal(t, 0, a.Compare(a))
	assert.Equal(t, -a.Compare(b), b.Compare(a))
	// The scheme tag orders ed25519 before secp256k1.
	assert.Equal(t, -1, a.Compare(s))
	assert.Equal(t, -1, b.Compare(s))
}

func TestSignatureCodec(t *testing.T) {
	for _, priv := range []*PrivateKey{GenPrivKeyEd25519(), GenPrivKeySecp256k1()} {
		sig, err := priv.Sign([]byte("payload"))
		assert.Nil(t, err)
		raw, err := sig.Marshal()
		assert.Nil(t, err)

		var read Signature
		assert.Nil(t, read.Unmarshal(raw))
		assert.Equal(t, sig.Sig, read.Sig)
		assert.Equal(t, true, read.Pubkey.Equals(priv.PublicKey()))
		assert.Equal(t, true, priv.PublicKey().Verify([]byte("payload"), &read))
	}

	var empty Signature
	assert.IsErr(t, errors.ErrEmpty, empty.Unmarshal(nil))
}

func TestParseScheme(t *testing.T) {
	s, err := ParseScheme("Ed25519")
	assert.Nil(t, err)
	assert.Equal(t, Ed25519, s)
	s, err = ParseScheme("secp256k1")
	assert.Nil(t, err)
	assert.Equal(t, Secp256k1, s)
	_, err = ParseScheme("rsa")
	assert.IsErr(t, errors.ErrInput, err)
}
