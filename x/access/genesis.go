package access

import (
	authtoken "github.com/iov-one/authtoken"
	"github.com/iov-one/authtoken/crypto"
	"github.com/iov-one/authtoken/errors"
)

// OptionsKey is the key of this extension in the genesis app state.
const OptionsKey = "authtoken"

// Genesis is the genesis and export representation of the access state.
type Genesis struct {
	Owner  *crypto.PublicKey   `json:"owner,omitempty"`
	Admins []*crypto.PublicKey `json:"admins,omitempty"`
	Nonces []NonceEntry        `json:"nonces,omitempty"`
}

// NonceEntry is the nonce of a single identity.
type NonceEntry struct {
	Identity *crypto.PublicKey `json:"identity"`
	Nonce    uint64            `json:"nonce"`
}

// Validate returns an error if the state cannot be loaded.
func (g *Genesis) Validate() error {
	var errs error
	if g.Owner == nil && len(g.Admins) != 0 {
		errs = errors.Append(errs, errors.Field("Owner", errors.ErrInput, "admins require an owner"))
	}
	for _, a := range g.Admins {
		errs = errors.AppendField(errs, "Admins", a.Validate())
	}
	for _, n := range g.Nonces {
		errs = errors.AppendField(errs, "Nonces", n.Identity.Validate())
	}
	return errs
}

// Initializer fulfils the Initializer interface to load data from the
// genesis file
type Initializer struct{}

var _ authtoken.Initializer = (*Initializer)(nil)

// FromGenesis will parse initial owner, admins and nonces from genesis and
// save them in the database. A missing options key is a no-op.
func (*Initializer) FromGenesis(opts authtoken.Options, db authtoken.KVStore) error {
	var gen Genesis
	if err := opts.ReadOptions(OptionsKey, &gen); err != nil {
		return err
	}
	if err := gen.Validate(); err != nil {
		return errors.Wrap(err, "genesis")
	}
	if gen.Owner != nil {
		if err := setOwner(db, gen.Owner); err != nil {
			return err
		}
	}
	if len(gen.Admins) != 0 {
		admins, err := loadAdmins(db)
		if err != nil {
			return err
		}
		for _, a := range gen.Admins {
			admins.Add(a)
		}
		if err := saveAdmins(db, admins); err != nil {
			return err
		}
	}
	for _, n := range gen.Nonces {
		current, err := ReadNonce(db, n.Identity)
		if err != nil {
			return err
		}
		// Nonces never move backwards.
		if n.Nonce < current {
			return errors.Wrapf(errors.ErrState, "nonce of %s is already %d", n.Identity, current)
		}
		if err := writeNonce(db, n.Identity, n.Nonce); err != nil {
			return err
		}
	}
	return nil
}
