package app

import (
	"github.com/mixbytes/crowdsale"
	"github.com/mixbytes/crowdsale/x/cash"
	"github.com/mixbytes/crowdsale/x/funds"
	"github.com/mixbytes/crowdsale/x/multiowned"
	"github.com/mixbytes/crowdsale/x/sale"
	"github.com/mixbytes/crowdsale/x/token"
)

// messages knows every message that can be carried by a transaction or
// confirmed through a gate.
var messages = newMsgRegistry()

func newMsgRegistry() *crowdsale.MsgRegistry {
	reg := crowdsale.NewMsgRegistry()
	cash.RegisterMsgs(reg)
	token.RegisterMsgs(reg)
	funds.RegisterMsgs(reg)
	multiowned.RegisterMsgs(reg)
	sale.RegisterMsgs(reg)
	return reg
}

// Messages returns the registry of all messages supported by the
// application.
func Messages() *crowdsale.MsgRegistry {
	return messages
}
