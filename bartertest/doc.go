/*
Package bartertest provides helpers for testing handlers and decorators:
mock authenticators, keys and temporary stores.
*/
package bartertest
