package utils

import (
	"time"

	"github.com/mixbytes/crowdsale"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var txDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "crowdsale",
	Name:      "tx_duration_seconds",
	Help:      "Time spent processing delivered transactions.",
	Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
}, []string{"path", "result"})

// Logging is a decorator to log messages as they pass through
type Logging struct{}

var _ crowdsale.Decorator = Logging{}

// NewLogging creates a Logging decorator
func NewLogging() Logging {
	return Logging{}
}

// Check logs failures as errors and successes at debug level.
func (r Logging) Check(ctx crowdsale.Context, store crowdsale.KVStore, tx crowdsale.Tx, next crowdsale.Checker) (*crowdsale.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, store, tx)
	var resLog string
	if err == nil {
		resLog = res.Log
	}
	logDuration(ctx, tx, start, resLog, err, true)
	return res, err
}

// Deliver logs failures as errors and successes at info level, and records
// the processing time.
func (r Logging) Deliver(ctx crowdsale.Context, store crowdsale.KVStore, tx crowdsale.Tx, next crowdsale.Deliverer) (*crowdsale.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	var resLog string
	if err == nil {
		resLog = res.Log
	}
	delta := logDuration(ctx, tx, start, resLog, err, false)

	result := "ok"
	if err != nil {
		result = "error"
	}
	txDuration.WithLabelValues(crowdsale.GetPath(tx), result).Observe(delta.Seconds())
	return res, err
}

// logDuration writes information about the time and result to the logger
func logDuration(ctx crowdsale.Context, tx crowdsale.Tx, start time.Time, msg string, err error, lowPrio bool) time.Duration {
	delta := time.Since(start)
	logger := crowdsale.GetLogger(ctx).With(
		"path", crowdsale.GetPath(tx),
		"duration", delta/time.Microsecond)

	// Message can be empty, the entry still carries the path and duration.
	switch {
	case err != nil:
		logger.With("err", err).Error(msg)
	case lowPrio:
		logger.Debug(msg)
	default:
		logger.Info(msg)
	}
	return delta
}
