package weavetest

import (
	"crypto/rand"
	"testing"

	"github.com/mixbytes/crowdsale"
)

// ParseAddress takes an address in a human readable format and returns its
// binary representation.
func ParseAddress(t testing.TB, encodedAddress string) crowdsale.Address {
	t.Helper()

	addr, err := crowdsale.ParseAddress(encodedAddress)
	if err != nil {
		t.Fatalf("cannot parse %q address: %s", encodedAddress, err)
	}
	return addr
}

// RandomAddr returns a valid random address generated on the fly.
func RandomAddr(t testing.TB) crowdsale.Address {
	raw := make([]byte, crowdsale.AddressLength)
	if _, err := rand.Read(raw); err != nil {
		t.Fatalf("cannot generate a random address: %s", err)
	}
	return crowdsale.Address(raw)
}
