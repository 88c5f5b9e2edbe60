package sigs

import (
	"testing"

	"github.com/mixbytes/crowdsale/weavetest/prototest"
)

func TestCodecProto(t *testing.T) {
	prototest.AssertMatches(t, "codec.proto",
		StdSignature{},
		UserData{},
	)
}
