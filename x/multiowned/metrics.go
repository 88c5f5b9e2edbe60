package multiowned

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	confirmations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "crowdsale",
		Subsystem: "multiowned",
		Name:      "confirmations_total",
		Help:      "Number of accepted confirmations.",
	}, []string{"gate"})
	executions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "crowdsale",
		Subsystem: "multiowned",
		Name:      "executions_total",
		Help:      "Number of actions executed after reaching the threshold.",
	}, []string{"gate", "action"})
	ownerChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "crowdsale",
		Subsystem: "multiowned",
		Name:      "owner_changes_total",
		Help:      "Number of owner set and requirement changes.",
	}, []string{"gate", "change"})
)
