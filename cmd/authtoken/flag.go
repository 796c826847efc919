package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"

	authtoken "github.com/iov-one/authtoken"
	"github.com/iov-one/authtoken/crypto"
)

// flIdentity returns a value that is being initialized with given default
// value and optionally overwritten by a command line argument if provided.
// This function follows Go's flag package convention.
// If given value cannot be deserialized to required type, process is
// terminated.
func flIdentity(fl *flag.FlagSet, name, defaultVal, usage string) *identityFlag {
	var id identityFlag
	if defaultVal != "" {
		if err := id.Set(defaultVal); err != nil {
			fmt.Fprintf(os.Stderr, "Cannot parse %q identity flag value. %s", name, err)
			os.Exit(2)
		}
	}
	fl.Var(&id, name, usage)
	return &id
}

type identityFlag struct {
	key *crypto.PublicKey
}

func (i *identityFlag) String() string {
	if i == nil || i.key == nil {
		return ""
	}
	return i.key.String()
}

func (i *identityFlag) Set(raw string) error {
	key, err := crypto.ParseIdentity(raw)
	if err != nil {
		return err
	}
	i.key = key
	return nil
}

// flContractID returns a value that is being initialized with given default
// value and optionally overwritten by a command line argument if provided.
// If given value cannot be deserialized to required type, process is
// terminated.
func flContractID(fl *flag.FlagSet, name, defaultVal, usage string) *contractFlag {
	var c contractFlag
	if defaultVal != "" {
		if err := c.Set(defaultVal); err != nil {
			fmt.Fprintf(os.Stderr, "Cannot parse %q contract ID flag value. %s", name, err)
			os.Exit(2)
		}
	}
	fl.Var(&c, name, usage)
	return &c
}

type contractFlag struct {
	id  authtoken.ContractID
	set bool
}

func (c *contractFlag) String() string {
	if c == nil || !c.set {
		return ""
	}
	return c.id.String()
}

func (c *contractFlag) Set(raw string) error {
	id, err := authtoken.ParseContractID(raw)
	if err != nil {
		return err
	}
	c.id = id
	c.set = true
	return nil
}

// flHex returns a value that is being initialized with given default value
// and optionally overwritten by a command line argument if provided.
// If given value cannot be deserialized to required type, process is
// terminated.
func flHex(fl *flag.FlagSet, name, defaultVal, usage string) *flagbyte {
	var b flagbyte
	if defaultVal != "" {
		if err := b.Set(defaultVal); err != nil {
			fmt.Fprintf(os.Stderr, "Cannot parse %q hex encoded flag value. %s", name, err)
			os.Exit(2)
		}
	}
	fl.Var(&b, name, usage)
	return &b
}

type flagbyte []byte

func (b flagbyte) String() string {
	return hex.EncodeToString(b)
}

func (b *flagbyte) Set(raw string) error {
	val, err := hex.DecodeString(raw)
	if err != nil {
		return err
	}
	*b = val
	return nil
}
