/*
Package orm provides an easy to use db wrapper

Break state space into prefixed sections called Buckets.
* Each bucket contains only one type of model.
* The primary key is provided by the caller, usually a derived address.
* Easy queries for one and iteration over a prefix.
*/
package orm
