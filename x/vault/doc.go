/*
Package vault keeps tokens of a single user in an account only this package
can move funds out of.

The vault account and the state record of a user are derived from the
user's address. Opening a vault pays the configured minimum reserve into it
and withdrawals must leave that reserve in place. Withdrawals and close are
signed with the derived vault authority.
*/
package vault
