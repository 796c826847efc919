package authtoken

import (
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/iov-one/authtoken/errors"
)

// ContractIDLength is the size in bytes of a contract instance identifier.
const ContractIDLength = 32

// ContractID identifies a single deployed contract instance. It is part of
// every signed request so that a signature cannot be replayed against another
// instance of the same contract.
type ContractID [ContractIDLength]byte

// ParseContractID decodes a hex encoded contract identifier.
func ParseContractID(raw string) (ContractID, error) {
	var id ContractID
	b, err := hex.DecodeString(raw)
	if err != nil {
		return id, errors.Wrap(errors.ErrInput, err.Error())
	}
	if len(b) != ContractIDLength {
		return id, errors.Wrapf(errors.ErrInput, "contract id must be %d bytes, got %d", ContractIDLength, len(b))
	}
	copy(id[:], b)
	return id, nil
}

// Bytes returns the raw representation.
func (c ContractID) Bytes() []byte {
	return c[:]
}

// String returns the upper case hex representation.
func (c ContractID) String() string {
	return strings.ToUpper(hex.EncodeToString(c[:]))
}

// MarshalJSON provides a hex representation for JSON.
func (c ContractID) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON parses a hex representation.
func (c *ContractID) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return errors.Wrap(err, "parse string")
	}
	id, err := ParseContractID(s)
	if err != nil {
		return err
	}
	*c = id
	return nil
}
