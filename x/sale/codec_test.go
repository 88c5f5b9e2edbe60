package sale

import (
	"testing"

	"github.com/mixbytes/crowdsale/weavetest/prototest"
)

func TestCodecProto(t *testing.T) {
	prototest.AssertMatches(t, "codec.proto",
		BonusTier{},
		Params{},
		State{},
		Investment{},
		ChannelTotal{},
		Receipt{},
		Configuration{},
		ContributeMsg{},
		CheckTimeMsg{},
		SetTimeMsg{},
		ProvisionChannelsMsg{},
		UpdateConfigurationMsg{},
	)
}
