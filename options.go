package authtoken

import (
	"encoding/json"
	"io/ioutil"

	"github.com/iov-one/authtoken/errors"
)

// Options are the module options
// Each extension can look up it's key and parse the json as desired
type Options map[string]json.RawMessage

// ReadOptions reads the values stored under a given key,
// and parses the json into the given obj.
// Returns an error if it cannot parse.
// Noop and no error if key is missing
func (o Options) ReadOptions(key string, obj interface{}) error {
	msg := o[key]
	if len(msg) == 0 {
		return nil
	}
	if err := json.Unmarshal(msg, obj); err != nil {
		return errors.Wrapf(errors.ErrInput, "options %q: %s", key, err)
	}
	return nil
}

// Initializer implementations are used to initialize
// extensions from genesis file contents
type Initializer interface {
	FromGenesis(Options, KVStore) error
}

// Genesis file format. Network and ContractID define the scope every
// request is signed for, AppState is handed over to the initializers.
type Genesis struct {
	Network    string     `json:"network"`
	ContractID ContractID `json:"contract_id"`
	AppState   Options    `json:"app_state"`
}

// Validate returns an error if the genesis cannot be used to run a contract
// instance.
func (g Genesis) Validate() error {
	return g.Scope().Validate()
}

// Context returns a context scoped to the network and contract instance
// described by this genesis.
func (g Genesis) Context(parent Context) Context {
	return g.Scope().Context(parent)
}

// LoadGenesis reads a genesis file and validates it.
func LoadGenesis(path string) (*Genesis, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "loading genesis file")
	}
	var gen Genesis
	if err := json.Unmarshal(raw, &gen); err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	if err := gen.Validate(); err != nil {
		return nil, errors.Wrap(err, "genesis")
	}
	return &gen, nil
}

// ChainInitializers lets you initialize many extensions with one function
func ChainInitializers(inits ...Initializer) Initializer {
	return chainInitializer{inits}
}

type chainInitializer struct {
	inits []Initializer
}

// FromGenesis will pass opts to all Initializers in the list,
// aborting at the first error.
func (c chainInitializer) FromGenesis(opts Options, kv KVStore) error {
	for _, i := range c.inits {
		if err := i.FromGenesis(opts, kv); err != nil {
			return err
		}
	}
	return nil
}
