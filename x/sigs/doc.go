/*
Package sigs provides basic authentication
middleware to verify the signatures on the transaction,
and maintain nonces for replay protection.

Every valid signature adds the condition of its public key to the context.
Its address is the address investors and gate owners are known by.
*/
package sigs
