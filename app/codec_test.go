package app_test

import (
	"testing"

	"github.com/mixbytes/crowdsale/app"
	"github.com/mixbytes/crowdsale/weavetest/prototest"
)

func TestCodecProto(t *testing.T) {
	prototest.AssertMatches(t, "codec.proto",
		app.ResultSet{},
	)
}
