/*
Package access implements owner and admin access control for a single
contract instance.

The owner is set once and never changes. Only the owner can add admins, and
every such request must carry a signature made over the canonical request
payload together with the current nonce of the owner. A nonce is consumed
only by a request that passed all checks, so a failed request never burns a
nonce.

State mutations are executed on a cache wrap of the given store and written
back only on success.
*/
package access
