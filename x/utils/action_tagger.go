package utils

import (
	"github.com/mixbytes/crowdsale"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	common "github.com/tendermint/tendermint/libs/common"
)

// ActionKey is the tag key set by ActionTagger.
const ActionKey = "action"

var actionsDelivered = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "crowdsale",
	Name:      "actions_delivered_total",
	Help:      "Successfully delivered messages by path.",
}, []string{"action"})

// ActionTagger tags every successfully delivered transaction with
// action=<message path>, so clients can subscribe to contributions,
// confirmations or refunds. Failed deliveries are not tagged.
//
// It also wraps the router executing confirmed gate actions, so an action
// run on behalf of a gate carries its own tag.
type ActionTagger struct{}

var _ crowdsale.Decorator = ActionTagger{}

func NewActionTagger() ActionTagger {
	return ActionTagger{}
}

func (ActionTagger) Check(ctx crowdsale.Context, db crowdsale.KVStore, tx crowdsale.Tx, next crowdsale.Checker) (*crowdsale.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

func (ActionTagger) Deliver(ctx crowdsale.Context, db crowdsale.KVStore, tx crowdsale.Tx, next crowdsale.Deliverer) (*crowdsale.DeliverResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	res, err := next.Deliver(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	path := msg.Path()
	res.Tags = append(res.Tags, common.KVPair{Key: []byte(ActionKey), Value: []byte(path)})
	actionsDelivered.WithLabelValues(path).Inc()
	return res, nil
}
