package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/tendermint/tendermint/libs/log"

	authtoken "github.com/iov-one/authtoken"
	"github.com/iov-one/authtoken/crypto"
	"github.com/iov-one/authtoken/errors"
	"github.com/iov-one/authtoken/store/iavl"
	"github.com/iov-one/authtoken/x/access"
)

// dbName is the name of the database inside of the state directory.
const dbName = "authtoken"

var logger = log.NewFilter(log.NewTMLogger(log.NewSyncWriter(os.Stderr)), log.AllowInfo())

// openStore returns the latest committed state kept in given directory.
func openStore(dir string) (iavl.CommitStore, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return iavl.CommitStore{}, fmt.Errorf("cannot create state directory: %s", err)
	}
	db, err := iavl.NewCommitStore(dir, dbName)
	if err != nil {
		return iavl.CommitStore{}, err
	}
	if err := db.LoadLatestVersion(); err != nil {
		db.Close()
		return iavl.CommitStore{}, err
	}
	return db, nil
}

// execute runs fn against the state kept in given directory and commits a new
// version if fn succeeds.
func execute(dir string, fn func(db authtoken.CacheableKVStore) error) error {
	db, err := openStore(dir)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := fn(db.Adapter()); err != nil {
		return err
	}
	id, err := db.Commit()
	if err != nil {
		return fmt.Errorf("cannot commit: %s", err)
	}
	logger.Debug("state committed", "version", id.Version, "hash", fmt.Sprintf("%X", id.Hash))
	return nil
}

// query runs fn against the state kept in given directory.
func query(dir string, fn func(db authtoken.ReadOnlyKVStore) error) error {
	db, err := openStore(dir)
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(db.Adapter())
}

func flagDie(description string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, description, args...)
	fmt.Fprintln(os.Stderr)
	os.Exit(2)
}

func cmdInit(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Load the initial state from a genesis file.

The genesis file declares the network and contract ID of the instance and the
"authtoken" app state: an owner, admins and nonces. The network and contract ID
are stored with the state and bind every signed request verified against it.
`)
		fl.PrintDefaults()
	}
	var (
		dbFl      = fl.String("db", defaultDBPath(), "State directory. You can use AUTHTOKEN_DB environment variable to set it.")
		genesisFl = fl.String("genesis", "genesis.json", "Path to the genesis file.")
	)
	fl.Parse(args)

	gen, err := authtoken.LoadGenesis(*genesisFl)
	if err != nil {
		return err
	}
	initializer := authtoken.ChainInitializers(&access.Initializer{})
	return execute(*dbFl, func(db authtoken.CacheableKVStore) error {
		cache := db.CacheWrap()
		defer cache.Discard()
		if err := authtoken.SaveScope(cache, gen.Scope()); err != nil {
			return err
		}
		if err := initializer.FromGenesis(gen.AppState, cache); err != nil {
			return err
		}
		if err := cache.Write(); err != nil {
			return err
		}
		logger.Info("genesis loaded", "network", gen.Network, "contract", gen.ContractID.String())
		return nil
	})
}

func cmdSetOwner(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Set the owner of the contract instance. The owner can be set only once.
`)
		fl.PrintDefaults()
	}
	var (
		dbFl    = fl.String("db", defaultDBPath(), "State directory. You can use AUTHTOKEN_DB environment variable to set it.")
		ownerFl = flIdentity(fl, "owner", "", "Identity of the owner.")
	)
	fl.Parse(args)

	if ownerFl.key == nil {
		flagDie("-owner is required")
	}
	ctx := authtoken.WithLogger(context.Background(), logger)
	return execute(*dbFl, func(db authtoken.CacheableKVStore) error {
		return access.SetOwner(ctx, db, ownerFl.key)
	})
}

func cmdAddAdmin(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Add an admin. The request must be signed by the owner, see sign-add-admin.

The signature is verified against the network and contract ID stored by init.
Network and contract flags are optional and only checked against the stored
values.
`)
		fl.PrintDefaults()
	}
	var (
		dbFl       = fl.String("db", defaultDBPath(), "State directory. You can use AUTHTOKEN_DB environment variable to set it.")
		adminFl    = flIdentity(fl, "admin", "", "Identity of the admin to add.")
		sigFl      = flHex(fl, "sig", "", "Hex encoded owner signature.")
		nonceFl    = fl.Uint64("nonce", 0, "Nonce the signature was made with.")
		networkFl  = fl.String("network", env("AUTHTOKEN_NETWORK", ""), "Expected network passphrase. You can use AUTHTOKEN_NETWORK environment variable to set it.")
		contractFl = flContractID(fl, "contract", env("AUTHTOKEN_CONTRACT", ""), "Expected hex encoded contract ID. You can use AUTHTOKEN_CONTRACT environment variable to set it.")
	)
	fl.Parse(args)

	if adminFl.key == nil {
		flagDie("-admin is required")
	}
	if len(*sigFl) == 0 {
		flagDie("-sig is required")
	}
	var sig crypto.Signature
	if err := sig.Unmarshal(*sigFl); err != nil {
		return fmt.Errorf("cannot deserialize signature: %s", err)
	}
	return execute(*dbFl, func(db authtoken.CacheableKVStore) error {
		ctx, err := storedScopeContext(db, *networkFl, contractFl)
		if err != nil {
			return err
		}
		return access.AddAdmin(ctx, db, adminFl.key, &sig, *nonceFl)
	})
}

// storedScopeContext returns a context bound to the contract instance the
// state belongs to. Network and contract, when given, must match it.
func storedScopeContext(db authtoken.ReadOnlyKVStore, network string, contract *contractFlag) (authtoken.Context, error) {
	scope, err := authtoken.LoadScope(db)
	if err != nil {
		if errors.ErrNotFound.Is(err) {
			return nil, fmt.Errorf("state has no contract scope, run init first")
		}
		return nil, err
	}
	if network != "" && network != scope.Network {
		return nil, fmt.Errorf("network %q does not match the state network %q", network, scope.Network)
	}
	if contract.set && contract.id != scope.ContractID {
		return nil, fmt.Errorf("contract %s does not match the state contract %s", contract.id, scope.ContractID)
	}
	ctx := scope.Context(context.Background())
	return authtoken.WithLogger(ctx, logger), nil
}

func cmdAdmins(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print all admins, one identity per line.
`)
		fl.PrintDefaults()
	}
	var (
		dbFl = fl.String("db", defaultDBPath(), "State directory. You can use AUTHTOKEN_DB environment variable to set it.")
	)
	fl.Parse(args)

	return query(*dbFl, func(db authtoken.ReadOnlyKVStore) error {
		admins, err := access.GetAdmins(db)
		if err != nil {
			return err
		}
		for _, a := range admins {
			if _, err := fmt.Fprintln(output, a); err != nil {
				return err
			}
		}
		return nil
	})
}

func cmdNonce(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print the nonce the next request signed by given identity must use.
`)
		fl.PrintDefaults()
	}
	var (
		dbFl = fl.String("db", defaultDBPath(), "State directory. You can use AUTHTOKEN_DB environment variable to set it.")
		idFl = flIdentity(fl, "id", "", "Identity to print the nonce of.")
	)
	fl.Parse(args)

	if idFl.key == nil {
		flagDie("-id is required")
	}
	return query(*dbFl, func(db authtoken.ReadOnlyKVStore) error {
		n, err := access.Nonce(db, idFl.key)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(output, n)
		return err
	})
}

func cmdExport(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print the whole state as JSON that can be used as the "authtoken" genesis app
state.
`)
		fl.PrintDefaults()
	}
	var (
		dbFl = fl.String("db", defaultDBPath(), "State directory. You can use AUTHTOKEN_DB environment variable to set it.")
	)
	fl.Parse(args)

	return query(*dbFl, func(db authtoken.ReadOnlyKVStore) error {
		gen, err := access.Export(db)
		if err != nil {
			return err
		}
		raw, err := json.MarshalIndent(gen, "", "\t")
		if err != nil {
			return fmt.Errorf("cannot serialize: %s", err)
		}
		_, err = fmt.Fprintln(output, string(raw))
		return err
	})
}
