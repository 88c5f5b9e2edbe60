package utils

import (
	"github.com/mixbytes/crowdsale"
	"github.com/mixbytes/crowdsale/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var txPanics = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "crowdsale",
	Name:      "tx_panics_total",
	Help:      "Transactions aborted by a recovered panic.",
}, []string{"path"})

// Recovery is a decorator that turns a panic of any inner handler into an
// ErrPanic error, so a single broken transaction cannot stop the node.
// Recovered panics are logged with the message path and counted.
type Recovery struct{}

var _ crowdsale.Decorator = Recovery{}

func NewRecovery() Recovery {
	return Recovery{}
}

func (r Recovery) Check(ctx crowdsale.Context, store crowdsale.KVStore, tx crowdsale.Tx, next crowdsale.Checker) (_ *crowdsale.CheckResult, err error) {
	defer r.recovered(ctx, tx, &err)
	return next.Check(ctx, store, tx)
}

func (r Recovery) Deliver(ctx crowdsale.Context, store crowdsale.KVStore, tx crowdsale.Tx, next crowdsale.Deliverer) (_ *crowdsale.DeliverResult, err error) {
	defer r.recovered(ctx, tx, &err)
	return next.Deliver(ctx, store, tx)
}

// recovered must be deferred directly, recover only works in a deferred call.
func (Recovery) recovered(ctx crowdsale.Context, tx crowdsale.Tx, err *error) {
	p := recover()
	if p == nil {
		return
	}
	*err = errors.Wrapf(errors.ErrPanic, "%v", p)
	path := crowdsale.GetPath(tx)
	txPanics.WithLabelValues(path).Inc()
	crowdsale.GetLogger(ctx).Error("transaction panicked", "path", path, "panic", p)
}
