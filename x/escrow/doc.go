/*
Package escrow implements a two party token swap.

A maker opens a deal with a taker, stating which asset type and amount each
of them owes. The maker's side is deposited when the deal is created. Once
the taker deposits their side the deal is fulfilled and each party can
withdraw what the other one deposited. When both holdings are empty the
maker closes the deal and gets the storage reserve back.

Funds are kept in custody accounts. Their addresses are derived from the
deal identifier and the party, and they are owned by a controller address
derived the same way. No party can sign for the controller; only this
package holds the capability to move custody funds, and it only uses it
inside withdraw and close.

Records store derivation proofs instead of addresses. Every time a record
or a custody account is referenced the address is recomputed and the proof
checked.
*/
package escrow
