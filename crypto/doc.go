/*
Package crypto implements the identities that may own or administer a
contract, and the signatures they produce.

An identity is a public key of one of the supported schemes. The set of
schemes is closed: ed25519 and secp256k1. Every signature carries the public
key of its signer, which makes the signer recoverable from the signature
alone.
*/
package crypto
