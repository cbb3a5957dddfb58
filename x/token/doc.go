/*
Package token implements fungible assets and the accounts holding them.

An asset type is identified by the address of its Mint record. Balances are
kept in Account records, each bound to a single mint and owned by a single
address. The owner of an account may be a signer or a derived custody
address, in which case only the module holding the matching custody.Signer
can move its funds.

All balance changes go through the Controller. TransferExact moves an exact
amount between two accounts of the same asset type and fails without
touching any balance when the source cannot cover it.
*/
package token
