package authtoken

import (
	"context"

	"github.com/tendermint/tendermint/libs/log"
)

// Context is the context passed through every operation of this module.
//
// Extensions add their own information using keys private to their package.
// There should exist two functions for every XYZ of type T that we want to
// support in Context:
//
//   WithXYZ(Context, T) Context
//   GetXYZ(Context) (val T, ok bool)
//
// WithXYZ panics if the value was previously set, to avoid lower-level
// code overwriting the scope a request was signed for.
type Context = context.Context

type contextKey int // local to this package

const (
	contextKeyNetwork contextKey = iota
	contextKeyContract
	contextKeyLogger
)

var (
	// DefaultLogger is used for all context that have not
	// set anything themselves
	DefaultLogger = log.NewNopLogger()
)

// maxNetworkLength bounds the network passphrase.
const maxNetworkLength = 255

// IsValidNetwork returns true if given value can be used as a network
// passphrase.
func IsValidNetwork(network string) bool {
	return len(network) > 0 && len(network) <= maxNetworkLength
}

// WithNetwork sets the network passphrase for the Context.
// Panics if the network passphrase is invalid or was already set.
func WithNetwork(ctx Context, network string) Context {
	if _, ok := GetNetwork(ctx); ok {
		panic("Tried to change the network passphrase")
	}
	if !IsValidNetwork(network) {
		panic("Invalid network passphrase")
	}
	return context.WithValue(ctx, contextKeyNetwork, network)
}

// GetNetwork returns the network passphrase the current request is executed
// in.
func GetNetwork(ctx Context) (string, bool) {
	val, ok := ctx.Value(contextKeyNetwork).(string)
	return val, ok
}

// WithContractID sets the contract scope for the Context.
// Panics if it was already set.
func WithContractID(ctx Context, id ContractID) Context {
	if _, ok := GetContractID(ctx); ok {
		panic("Tried to change the contract id")
	}
	return context.WithValue(ctx, contextKeyContract, id)
}

// GetContractID returns the identifier of the contract instance that is
// executing the current request.
func GetContractID(ctx Context) (ContractID, bool) {
	val, ok := ctx.Value(contextKeyContract).(ContractID)
	return val, ok
}

// WithLogger sets the logger for this Context
func WithLogger(ctx Context, logger log.Logger) Context {
	return context.WithValue(ctx, contextKeyLogger, logger)
}

// WithLogInfo accepts keyvalue pairs, and returns another
// context like this, after passing all the keyvals to the
// Logger
func WithLogInfo(ctx Context, keyvals ...interface{}) Context {
	logger := GetLogger(ctx).With(keyvals...)
	return WithLogger(ctx, logger)
}

// GetLogger returns the currently set logger, or
// DefaultLogger if none was set
func GetLogger(ctx Context) log.Logger {
	val, ok := ctx.Value(contextKeyLogger).(log.Logger)
	if !ok {
		return DefaultLogger
	}
	return val
}
