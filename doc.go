/*
Package authtoken defines the common interfaces shared by the access control
packages: the key value store contract, the request context and the genesis
options.

Context carries the scope every privileged request is signed for: the
network passphrase and the contract instance identifier. Both must be present
before any signature can be verified. The logger is carried in the context as
well and defaults to a no-op logger.

The access control logic itself lives in x/authtoken.
*/
package authtoken
