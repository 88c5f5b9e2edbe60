// Package utils holds the decorators every transaction of the sale chain
// passes through before it reaches a message handler.
package utils
