package sale

import (
	"math/big"

	"github.com/mixbytes/crowdsale/coin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	contributions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "crowdsale",
		Subsystem: "sale",
		Name:      "contributions_total",
		Help:      "Number of accepted contributions.",
	}, []string{"channel"})
	raisedGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "crowdsale",
		Subsystem: "sale",
		Name:      "raised",
		Help:      "Value raised so far, in the smallest unit.",
	})
	finalizations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "crowdsale",
		Subsystem: "sale",
		Name:      "finalized_total",
		Help:      "Number of sale finalizations by outcome.",
	}, []string{"outcome"})
)

func amountFloat(a *coin.Amount) float64 {
	f, _ := new(big.Float).SetInt(a.Big()).Float64()
	return f
}
