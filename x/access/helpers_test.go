package access

import (
	"context"
	"testing"

	authtoken "github.com/iov-one/authtoken"
	"github.com/iov-one/authtoken/weavetest"
)

const testNetwork = "Test SDF Network ; September 2015"

// testContext returns a context scoped to a random contract instance on the
// test network.
func testContext(t testing.TB) authtoken.Context {
	ctx := authtoken.WithNetwork(context.Background(), testNetwork)
	return authtoken.WithContractID(ctx, weavetest.RandomContractID(t))
}
