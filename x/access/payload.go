package access

import (
	"crypto/sha512"
	"regexp"

	authtoken "github.com/iov-one/authtoken"
	"github.com/iov-one/authtoken/crypto"
	"github.com/iov-one/authtoken/errors"
	"github.com/iov-one/authtoken/wire"
)

// SignCodeV1 is the current way to prefix the bytes we use to build
// a signature
var SignCodeV1 = []byte{0, 0xCA, 0xFE, 1}

// FunctionAddAdmin is the function symbol signed by the owner to add an
// admin.
const FunctionAddAdmin = "add_admin"

var isFunction = regexp.MustCompile(`^[a-zA-Z0-9_]{1,32}$`).MatchString

type argKind uint8

const (
	argIdentity argKind = 1
	argNonce    argKind = 2
	argRaw      argKind = 3
)

// Arg is a single argument of a signed call. Use IdentityArg, NonceArg or
// BytesArg to create one.
type Arg struct {
	kind     argKind
	identity *crypto.PublicKey
	nonce    uint64
	raw      []byte
}

// IdentityArg returns an identity argument.
func IdentityArg(id *crypto.PublicKey) Arg {
	return Arg{kind: argIdentity, identity: id}
}

// NonceArg returns a nonce argument.
func NonceArg(n uint64) Arg {
	return Arg{kind: argNonce, nonce: n}
}

// BytesArg returns an opaque binary argument.
func BytesArg(b []byte) Arg {
	return Arg{kind: argRaw, raw: b}
}

// Marshal encodes the argument as defined by the Arg message.
func (a Arg) Marshal() ([]byte, error) {
	e := wire.NewEncoder()
	switch a.kind {
	case argIdentity:
		if err := a.identity.Validate(); err != nil {
			return nil, errors.Wrap(err, "identity argument")
		}
		e.Bytes(int(argIdentity), a.identity.Bytes())
	case argNonce:
		e.Uint64(int(argNonce), a.nonce)
	case argRaw:
		e.Bytes(int(argRaw), a.raw)
	default:
		return nil, errors.Wrap(errors.ErrEmpty, "argument")
	}
	return e.Result(), nil
}

// AddAdminArgs returns the arguments of an add_admin call. They bind the
// signature to the admin being added, the identity claiming ownership and
// the nonce consumed.
func AddAdminArgs(admin, owner *crypto.PublicKey, nonce uint64) []Arg {
	return []Arg{
		IdentityArg(admin),
		IdentityArg(owner),
		NonceArg(nonce),
	}
}

// SignaturePayload is what a privileged request is signed over. It is built
// the same way by the signer and by the verifier, so that the resulting bytes
// match exactly.
type SignaturePayload struct {
	Function   string
	ContractID authtoken.ContractID
	Network    string
	Args       []Arg
}

// NewSignaturePayload returns the payload of a call to given function,
// scoped to the contract instance and network found in the context.
func NewSignaturePayload(ctx authtoken.Context, function string, args ...Arg) (*SignaturePayload, error) {
	network, ok := authtoken.GetNetwork(ctx)
	if !ok {
		return nil, errors.Wrap(errors.ErrInput, "missing network in context")
	}
	contract, ok := authtoken.GetContractID(ctx)
	if !ok {
		return nil, errors.Wrap(errors.ErrInput, "missing contract id in context")
	}
	p := &SignaturePayload{
		Function:   function,
		ContractID: contract,
		Network:    network,
		Args:       args,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate returns an error if the payload cannot be signed.
func (p *SignaturePayload) Validate() error {
	var errs error
	if !isFunction(p.Function) {
		errs = errors.AppendField(errs, "Function", errors.ErrInput)
	}
	if !authtoken.IsValidNetwork(p.Network) {
		errs = errors.AppendField(errs, "Network", errors.ErrInput)
	}
	if p.ContractID == (authtoken.ContractID{}) {
		errs = errors.AppendField(errs, "ContractID", errors.ErrEmpty)
	}
	return errs
}

// Marshal encodes the payload as defined by the SignaturePayload message.
func (p *SignaturePayload) Marshal() ([]byte, error) {
	e := wire.NewEncoder().
		String(1, p.Function).
		Bytes(2, p.ContractID.Bytes()).
		String(3, p.Network)
	for i, a := range p.Args {
		if err := e.Message(4, a); err != nil {
			return nil, errors.Wrapf(err, "argument %d", i)
		}
	}
	return e.Result(), nil
}

// SignBytes returns the bytes a signature of this payload is made over.
func (p *SignaturePayload) SignBytes() ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	raw, err := p.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "payload")
	}
	return BuildSignBytes(raw), nil
}

/*
BuildSignBytes prefixes the encoded payload with the sign code version

version | payload
4bytes  | serialized SignaturePayload

This is then prehashed with sha512 before fed into
the public key signing/verification step
*/
func BuildSignBytes(payload []byte) []byte {
	output := make([]byte, 0, len(SignCodeV1)+len(payload))
	output = append(output, SignCodeV1...)
	output = append(output, payload...)

	// we take the sha512 hash of the result, so that we have a constant
	// length output to feed into every signature scheme
	hashed := sha512.Sum512(output)
	return hashed[:]
}

// SignRequest creates a signature of a call to given function, scoped to the
// contract instance and network found in the context.
func SignRequest(ctx authtoken.Context, signer crypto.Signer, function string, args ...Arg) (*crypto.Signature, error) {
	payload, err := NewSignaturePayload(ctx, function, args...)
	if err != nil {
		return nil, err
	}
	signBytes, err := payload.SignBytes()
	if err != nil {
		return nil, err
	}
	return signer.Sign(signBytes)
}

// SignAddAdmin creates the signature the owner must provide to add an admin.
// The signer is the claimed owner and nonce must be its current nonce.
func SignAddAdmin(ctx authtoken.Context, owner crypto.Signer, admin *crypto.PublicKey, nonce uint64) (*crypto.Signature, error) {
	args := AddAdminArgs(admin, owner.PublicKey(), nonce)
	return SignRequest(ctx, owner, FunctionAddAdmin, args...)
}
