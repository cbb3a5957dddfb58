/*
Package custody derives the addresses of accounts that are owned by a module
rather than by a key holder.

An address is derived from a role tag, the identity it belongs to and a salt
that ties it to a record, using the program-derived-address construction:

	sha256(role ‖ identity ‖ salt... ‖ proof ‖ program ‖ "ProgramDerivedAddress")

The proof is a single byte. Derive returns the canonical proof, the highest
value that places the address off the ed25519 curve, so no private key can
ever exist for it. Records store only the proof and every later reference
recomputes the address from it.
*/
package custody
