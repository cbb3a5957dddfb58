/*
Package gconf implements a configuration store intended to be used as a
global, in-database configuration of extensions.

Each extension declares its own Configuration model. It is loaded from the
genesis file (the "conf" section, keyed by the package name) and saved
under a singleton key. Handlers read it with Load on every use, so a
configuration update takes effect with the next transaction.
*/
package gconf
