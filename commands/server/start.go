package server

import (
	"net/http"

	"github.com/mixbytes/crowdsale/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"
	"github.com/tendermint/tendermint/abci/server"
	abci "github.com/tendermint/tendermint/abci/types"
	cmn "github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	flagBind    = "bind"
	flagDebug   = "debug"
	flagMetrics = "metrics"
)

// Options are the settings of a started application.
type Options struct {
	Home   string
	Logger log.Logger
	Debug  bool
	// Bind is the address the abci server listens on.
	Bind string
	// Metrics is the address of the prometheus endpoint. Empty disables it.
	Metrics string
}

// AppGenerator lets us lazily initialize app, using home dir
// and logger potentially initialized with other flags
type AppGenerator func(*Options) (abci.Application, error)

// ParseStartFlags reads the start command flags. Defaults are used for the
// flags not given.
func ParseStartFlags(home string, logger log.Logger, defaults Options, args []string) (*Options, error) {
	opts := defaults
	opts.Home = home
	opts.Logger = logger

	flags := pflag.NewFlagSet("start", pflag.ContinueOnError)
	flags.StringVar(&opts.Bind, flagBind, defaults.Bind, "address server listens on")
	flags.BoolVar(&opts.Debug, flagDebug, defaults.Debug, "call stack returned on error")
	flags.StringVar(&opts.Metrics, flagMetrics, defaults.Metrics, "address of the /metrics endpoint, empty to disable")
	if err := flags.Parse(args); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "flags: %s", err)
	}
	return &opts, nil
}

// StartCmd initializes the application, and runs the abci server until
// the process receives a termination signal.
func StartCmd(gen AppGenerator, opts *Options) error {
	app, err := gen(opts)
	if err != nil {
		return err
	}

	opts.Logger.Info("Starting ABCI app", "bind", opts.Bind)
	svr, err := server.NewServer(opts.Bind, "socket", app)
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot create listener: %s", err)
	}
	svr.SetLogger(opts.Logger.With("module", "abci-server"))
	if err := svr.Start(); err != nil {
		return errors.Wrapf(errors.ErrState, "cannot start server: %s", err)
	}

	if opts.Metrics != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		go func() {
			opts.Logger.Info("Serving metrics", "bind", opts.Metrics)
			if err := http.ListenAndServe(opts.Metrics, mux); err != nil {
				opts.Logger.Error("Metrics server stopped", "err", err)
			}
		}()
	}

	cmn.TrapSignal(opts.Logger, func() {
		svr.Stop()
	})
	// Run forever, TrapSignal exits the process.
	select {}
}
