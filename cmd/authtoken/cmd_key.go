package main

import (
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"os"

	"github.com/stellar/go/exp/crypto/derivation"

	"github.com/iov-one/authtoken/crypto"
)

func cmdKeygen(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Generate a new private key.

When successful a new file with binary content containing private key is
created. This command fails if the private key file already exists.

An ed25519 key can be derived from a hex encoded seed using a SLIP-10
derivation path instead of being random.
`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl = fl.String("key", defaultKeyPath(),
			"Path to the private key file. You can use AUTHTOKEN_PRIV_KEY environment variable to set it.")
		schemeFl = fl.String("scheme", "ed25519", "Signature scheme of the key: ed25519 or secp256k1.")
		seedFl   = flHex(fl, "seed", "", "Optional hex encoded seed to derive an ed25519 key from.")
		pathFl   = fl.String("path", derivation.StellarPrimaryAccountPath, "Derivation path used together with -seed.")
	)
	fl.Parse(args)

	if _, err := os.Stat(*keyPathFl); !os.IsNotExist(err) {
		// Do not allow to overwrite already existing private key. User
		// must manually delete it first to ensure we do not delete
		// such crucial data by an accident (bad command usage).
		return fmt.Errorf("private key file %q already exists, delete this file and try again", *keyPathFl)
	}

	scheme, err := crypto.ParseScheme(*schemeFl)
	if err != nil {
		return err
	}

	var key *crypto.PrivateKey
	switch {
	case len(*seedFl) != 0:
		if scheme != crypto.Ed25519 {
			return fmt.Errorf("key derivation is supported only for ed25519, got %s", scheme)
		}
		key, err = deriveKey(*seedFl, *pathFl)
		if err != nil {
			return err
		}
	case scheme == crypto.Ed25519:
		key = crypto.GenPrivKeyEd25519()
	default:
		key = crypto.GenPrivKeySecp256k1()
	}

	fd, err := os.OpenFile(*keyPathFl, os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("cannot create private key file: %s", err)
	}
	defer fd.Close()

	if _, err := fd.Write(key.Bytes()); err != nil {
		return fmt.Errorf("cannot write private key: %s", err)
	}
	if err := fd.Close(); err != nil {
		return fmt.Errorf("cannot close private key file: %s", err)
	}
	return nil
}

// deriveKey returns an ed25519 key derived from the seed, as described by
// SLIP-10.
func deriveKey(seed []byte, path string) (*crypto.PrivateKey, error) {
	k, err := derivation.DeriveForPath(path, seed)
	if err != nil {
		return nil, fmt.Errorf("cannot derive private key using path=%q: %s", path, err)
	}
	return crypto.PrivKeyEd25519FromSeed(k.Key), nil
}

func cmdKeyaddr(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print out the identity associated with your private key.
`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl = fl.String("key", defaultKeyPath(),
			"Path to the private key file. You can use AUTHTOKEN_PRIV_KEY environment variable to set it.")
	)
	fl.Parse(args)

	key, err := readKey(*keyPathFl)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(output, key.PublicKey())
	return err
}

func readKey(path string) (*crypto.PrivateKey, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read private key file: %s", err)
	}
	key, err := crypto.ParsePrivateKey(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid private key file: %s", err)
	}
	return key, nil
}
