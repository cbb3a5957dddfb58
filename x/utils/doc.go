/*
Package utils contains decorators every application stack needs: logging,
panic recovery, action tagging and all-or-nothing staging of handler writes.
*/
package utils
