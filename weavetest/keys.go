package weavetest

import (
	"github.com/mixbytes/crowdsale"
	"github.com/mixbytes/crowdsale/crypto"
)

func NewKey() *crypto.PrivateKey {
	return crypto.GenPrivKeyEd25519()
}

// NewCondition returns the signature condition of a fresh random key.
func NewCondition() crowdsale.Condition {
	return NewKey().PublicKey().Condition()
}
