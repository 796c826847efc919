package authtoken

import (
	"github.com/iov-one/authtoken/errors"
	"github.com/iov-one/authtoken/wire"
)

// _at: is a prefix for data kept outside of any extension.
const scopeKey = "_at:scope"

// Scope identifies the contract instance a state belongs to. It is declared
// once by the genesis and every signed request is verified against it.
type Scope struct {
	Network    string
	ContractID ContractID
}

// Validate returns an error if the scope cannot bind a signature.
func (s Scope) Validate() error {
	var errs error
	if !IsValidNetwork(s.Network) {
		errs = errors.AppendField(errs, "Network", errors.ErrInput)
	}
	if s.ContractID == (ContractID{}) {
		errs = errors.AppendField(errs, "ContractID", errors.ErrEmpty)
	}
	return errs
}

// Context returns a context bound to this contract instance.
func (s Scope) Context(parent Context) Context {
	ctx := WithNetwork(parent, s.Network)
	return WithContractID(ctx, s.ContractID)
}

// Scope returns the contract instance this genesis declares.
func (g Genesis) Scope() Scope {
	return Scope{Network: g.Network, ContractID: g.ContractID}
}

// SaveScope stores the scope of the state kept in db. It can be saved only
// once, saving the same scope again is a no-op.
func SaveScope(db KVStore, s Scope) error {
	if err := s.Validate(); err != nil {
		return errors.Wrap(err, "scope")
	}
	current, err := LoadScope(db)
	switch {
	case errors.ErrNotFound.Is(err):
	case err != nil:
		return err
	case current == s:
		return nil
	default:
		return errors.Wrapf(errors.ErrState, "state belongs to contract %s on %q", current.ContractID, current.Network)
	}
	raw := wire.NewEncoder().
		String(1, s.Network).
		Bytes(2, s.ContractID.Bytes()).
		Result()
	if err := db.Set([]byte(scopeKey), raw); err != nil {
		return errors.Wrap(err, "save scope")
	}
	return nil
}

// LoadScope returns the stored scope or ErrNotFound if none was saved.
func LoadScope(db ReadOnlyKVStore) (Scope, error) {
	raw, err := db.Get([]byte(scopeKey))
	if err != nil {
		return Scope{}, errors.Wrap(err, "load scope")
	}
	if raw == nil {
		return Scope{}, errors.Wrap(errors.ErrNotFound, "scope")
	}
	var s Scope
	d := wire.NewDecoder(raw)
	for d.More() {
		field, err := d.Next()
		if err != nil {
			return Scope{}, errors.Wrap(err, "scope")
		}
		switch field {
		case 1:
			s.Network, err = d.String()
		case 2:
			var b []byte
			if b, err = d.Bytes(); err == nil {
				if len(b) != ContractIDLength {
					return Scope{}, errors.Wrapf(errors.ErrModel, "contract id of %d bytes", len(b))
				}
				copy(s.ContractID[:], b)
			}
		default:
			err = d.Skip()
		}
		if err != nil {
			return Scope{}, errors.Wrap(err, "scope")
		}
	}
	if err := s.Validate(); err != nil {
		return Scope{}, errors.Wrap(errors.ErrModel, err.Error())
	}
	return s, nil
}
