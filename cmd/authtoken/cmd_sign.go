package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"io"

	authtoken "github.com/iov-one/authtoken"
	"github.com/iov-one/authtoken/x/access"
)

func cmdSignAddAdmin(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Sign a request to add an admin, using the owner private key. The hex encoded
signature is written to the output.

The signature is valid only for the given admin, the given nonce, and the
contract instance identified by the network and contract ID.
`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl = fl.String("key", defaultKeyPath(),
			"Path to the owner private key file. You can use AUTHTOKEN_PRIV_KEY environment variable to set it.")
		adminFl    = flIdentity(fl, "admin", "", "Identity of the admin to add.")
		nonceFl    = fl.Uint64("nonce", 0, "Current nonce of the owner.")
		networkFl  = fl.String("network", env("AUTHTOKEN_NETWORK", ""), "Network passphrase. You can use AUTHTOKEN_NETWORK environment variable to set it.")
		contractFl = flContractID(fl, "contract", env("AUTHTOKEN_CONTRACT", ""), "Hex encoded contract ID. You can use AUTHTOKEN_CONTRACT environment variable to set it.")
	)
	fl.Parse(args)

	if adminFl.key == nil {
		flagDie("-admin is required")
	}
	ctx, err := scopeContext(*networkFl, contractFl)
	if err != nil {
		return err
	}
	key, err := readKey(*keyPathFl)
	if err != nil {
		return err
	}

	sig, err := access.SignAddAdmin(ctx, key, adminFl.key, *nonceFl)
	if err != nil {
		return fmt.Errorf("cannot sign: %s", err)
	}
	raw, err := sig.Marshal()
	if err != nil {
		return fmt.Errorf("cannot serialize signature: %s", err)
	}
	_, err = fmt.Fprintln(output, hex.EncodeToString(raw))
	return err
}

// scopeContext returns a context bound to given contract instance.
func scopeContext(network string, contract *contractFlag) (authtoken.Context, error) {
	if !authtoken.IsValidNetwork(network) {
		return nil, fmt.Errorf("invalid network passphrase %q", network)
	}
	if !contract.set {
		return nil, fmt.Errorf("contract ID is required")
	}
	ctx := authtoken.WithNetwork(context.Background(), network)
	ctx = authtoken.WithContractID(ctx, contract.id)
	return authtoken.WithLogger(ctx, logger), nil
}
