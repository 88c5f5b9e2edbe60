package crypto

import (
	"crypto/rand"
	"fmt"

	"github.com/mixbytes/crowdsale/errors"
	"github.com/stellar/go/exp/crypto/derivation"
)

// CoinType is the SLIP-0044 coin type used in derivation paths. It is the
// testnet value, there is no registered one for sale chains.
const CoinType = 1

// KeyPath returns the hardened derivation path of the n-th key.
func KeyPath(n uint32) string {
	return fmt.Sprintf("m/44'/%d'/%d'", CoinType, n)
}

// DeriveKey returns the private key found at given path of the seed.
// Only hardened paths are supported by ed25519 derivation.
func DeriveKey(seed []byte, path string) (*PrivateKey, error) {
	if len(seed) < 16 {
		return nil, errors.Wrap(errors.ErrInput, "seed too short")
	}
	key, err := derivation.DeriveForPath(path, seed)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "derive %q: %s", path, err)
	}
	return PrivKeyEd25519FromSeed(key.Key), nil
}

// NewSeed returns a random seed to derive keys from.
func NewSeed() ([]byte, error) {
	seed := make([]byte, 32)
	if _, err := rand.Read(seed); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "random seed: %s", err)
	}
	return seed, nil
}
