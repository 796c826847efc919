package weavetest

import (
	"crypto/rand"
	"testing"

	authtoken "github.com/iov-one/authtoken"
)

// RandomContractID returns a random contract identifier generated on the fly.
func RandomContractID(t testing.TB) authtoken.ContractID {
	var id authtoken.ContractID
	if _, err := rand.Read(id[:]); err != nil {
		t.Fatalf("cannot generate a random contract ID: %s", err)
	}
	return id
}

// DecodeContractID takes a hex encoded contract ID and returns its raw
// representation.
func DecodeContractID(t testing.TB, encoded string) authtoken.ContractID {
	t.Helper()
	id, err := authtoken.ParseContractID(encoded)
	if err != nil {
		t.Fatalf("cannot decode contract ID: %s", err)
	}
	return id
}
