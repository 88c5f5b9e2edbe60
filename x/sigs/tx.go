package sigs

import "github.com/mixbytes/crowdsale"

// SignedTx represents a transaction that contains signatures,
// which can be verified by the sigs Decorator
type SignedTx interface {
	crowdsale.Tx

	// GetSignBytes returns the canonical byte representation of the
	// transaction without its signatures.
	GetSignBytes() ([]byte, error)

	// GetSignatures returns the signature of signers who signed the Msg.
	GetSignatures() []*StdSignature
}
