/*
Package x contains the extensions an application is built from.

Extensions implement common functionality (Handler, Decorator,
etc.) and are combined together to construct an application.
This package holds the authentication abstraction shared by all
of them, so that handlers never depend on a concrete signature
scheme.

Use package names to avoid stutter, eg. `escrow.CreateMsg` rather
than `escrow.CreateEscrowMsg`.
*/
package x
