/*
Package watch provides the command following a chain for events concerning
an address.
*/
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/phantasma-io/phantasma-go/cli/flags"
	"github.com/phantasma-io/phantasma-go/cli/options"
	"github.com/phantasma-io/phantasma-go/pkg/core/storage"
	"github.com/phantasma-io/phantasma-go/pkg/pharpc/result"
	"github.com/phantasma-io/phantasma-go/pkg/rpcclient/watcher"
	"github.com/phantasma-io/phantasma-go/pkg/services/metrics"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

// NewCommands returns 'watch' command.
func NewCommands() []cli.Command {
	watchFlags := []cli.Flag{
		flags.AddressFlag{
			Name:  "address, a",
			Usage: "address to watch (overrides configuration)",
		},
		cli.StringFlag{
			Name:  "chain, c",
			Usage: "chain to watch (overrides configuration)",
		},
		cli.StringFlag{
			Name:  "events, e",
			Usage: "comma-separated event kinds to report, TokenReceive by default",
		},
		cli.Uint64Flag{
			Name:  "start-height",
			Usage: "last height considered processed if there is no saved progress",
		},
		cli.StringFlag{
			Name:  "db",
			Usage: "BoltDB file keeping the progress (overrides configuration)",
		},
		options.Debug,
	}
	watchFlags = append(watchFlags, options.ConfigFlags...)
	watchFlags = append(watchFlags, options.RPC...)
	return []cli.Command{{
		Name:      "watch",
		Usage:     "Follow a chain and print events concerning an address",
		UsageText: "phantasma-go watch [--address P...] [--chain main] [--events TokenReceive,TokenSend] [--db file]",
		Action:    watch,
		Flags:     watchFlags,
	}}
}

// parseKinds splits a comma-separated list of event kinds.
func parseKinds(s string) []result.EventKind {
	var kinds []result.EventKind
	for _, k := range strings.Split(s, ",") {
		if k = strings.TrimSpace(k); k != "" {
			kinds = append(kinds, result.EventKind(k))
		}
	}
	return kinds
}

func newGraceContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func watch(ctx *cli.Context) error {
	cfg, err := options.GetConfigFromContext(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	wcfg := cfg.Watcher
	if a, ok := flags.AddressFromContext(ctx, "address"); ok {
		wcfg.Address = a.String()
	}
	if c := ctx.String("chain"); c != "" {
		wcfg.Chain = c
	}
	if db := ctx.String("db"); db != "" {
		wcfg.DBPath = db
	}
	if h := ctx.Uint64("start-height"); h != 0 {
		wcfg.StartHeight = h
	}
	if wcfg.Address == "" {
		return cli.NewExitError("no address to watch, use --address or set Watcher.Address", 1)
	}

	log, _, err := options.HandleLoggingParams(ctx.Bool("debug"), cfg.ApplicationConfiguration)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer func() { _ = log.Sync() }()

	gctx, cancel := newGraceContext()
	defer cancel()

	c, exitErr := options.NewRPCClient(gctx, cfg.RPC, log)
	if exitErr != nil {
		return exitErr
	}
	defer c.Close()

	store, err := storage.NewStore(wcfg.DBPath)
	if err != nil {
		return cli.NewExitError(fmt.Errorf("failed to open progress store: %w", err), 1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn("failed to close progress store", zap.Error(err))
		}
	}()

	w, err := watcher.New(c, store, watcher.Config{
		Chain:        wcfg.Chain,
		Address:      wcfg.Address,
		EventKinds:   parseKinds(ctx.String("events")),
		PollInterval: wcfg.PollInterval,
		StartHeight:  wcfg.StartHeight,
	}, log)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	prometheus := metrics.NewPrometheusService(cfg.ApplicationConfiguration.Prometheus, log)
	if err = prometheus.Start(); err != nil {
		return cli.NewExitError(fmt.Errorf("failed to start Prometheus service: %w", err), 1)
	}
	defer prometheus.ShutDown()

	log.Info("watching",
		zap.String("chain", wcfg.Chain),
		zap.String("address", wcfg.Address),
		zap.String("endpoint", c.Endpoint()))
	err = w.Run(gctx, func(m watcher.Match) error {
		fmt.Fprintln(ctx.App.Writer, formatMatch(m))
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return cli.NewExitError(err, 1)
	}
	log.Info("shutting down", zap.Uint64("watermark", w.Watermark()))
	return nil
}

func formatMatch(m watcher.Match) string {
	s := fmt.Sprintf("%d %s %s", m.Height, m.TxHash, m.Event.Kind)
	if m.Token != nil {
		s += fmt.Sprintf(" %s %s (%s)", m.Token.Amount, m.Token.Symbol, m.Token.ChainName)
	}
	return s
}
