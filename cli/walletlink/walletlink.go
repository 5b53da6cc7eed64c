/*
Package walletlink provides commands talking to a wallet over the link
protocol.
*/
package walletlink

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/phantasma-io/phantasma-go/cli/options"
	"github.com/phantasma-io/phantasma-go/pkg/config"
	"github.com/phantasma-io/phantasma-go/pkg/crypto/keys"
	"github.com/phantasma-io/phantasma-go/pkg/link"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

// NewCommands returns 'link' command.
func NewCommands() []cli.Command {
	linkFlags := []cli.Flag{
		cli.StringFlag{
			Name:  "host",
			Usage: "wallet link host:port (overrides configuration)",
		},
		cli.StringFlag{
			Name:  "dapp",
			Usage: "dapp ID to authorize as (overrides configuration)",
		},
		options.Debug,
	}
	linkFlags = append(linkFlags, options.ConfigFlags...)
	sendFlags := append([]cli.Flag{
		cli.StringFlag{
			Name:  "script",
			Usage: "hex-encoded script to execute",
		},
		cli.StringFlag{
			Name:  "chain, c",
			Value: "main",
			Usage: "chain to send the transaction to",
		},
		cli.StringFlag{
			Name:  "payload",
			Usage: "text payload attached to the transaction",
		},
	}, linkFlags...)
	return []cli.Command{{
		Name:  "link",
		Usage: "Use a wallet through the link protocol",
		Subcommands: []cli.Command{
			{
				Name:      "login",
				Usage:     "authorize in the wallet and show the account",
				UsageText: "phantasma-go link login [--host host:port] [--dapp id]",
				Action:    login,
				Flags:     linkFlags,
			},
			{
				Name:      "sign-data",
				Usage:     "ask the wallet to sign a text",
				UsageText: "phantasma-go link sign-data <text> [--host host:port] [--dapp id]",
				Action:    signData,
				Flags:     linkFlags,
			},
			{
				Name:      "send",
				Usage:     "ask the wallet to sign and broadcast a script",
				UsageText: "phantasma-go link send --script <hex> [--chain main] [--payload text]",
				Action:    sendTx,
				Flags:     sendFlags,
			},
		},
	}}
}

// NewSession creates a wallet session from the configuration.
func NewSession(cfg config.Config, log *zap.Logger) (*link.Session, error) {
	opts := link.Options{
		Host:           cfg.Link.Host,
		DappID:         cfg.Link.DappID,
		Nexus:          cfg.Nexus,
		Version:        cfg.Link.Version,
		RequestTimeout: cfg.Link.RequestTimeout,
		Logger:         log,
	}
	if cfg.Link.Platform != "" {
		p, err := link.ParsePlatformKind(cfg.Link.Platform)
		if err != nil {
			return nil, err
		}
		opts.Platform = p
	}
	if cfg.Link.Signature != "" {
		k, err := keys.ParseSignatureKind(cfg.Link.Signature)
		if err != nil {
			return nil, err
		}
		opts.Signature = k
	}
	return link.New(opts)
}

// session loads the configuration, connects to the wallet and logs in.
func session(gctx context.Context, ctx *cli.Context) (*link.Session, *zap.Logger, error) {
	cfg, err := options.GetConfigFromContext(ctx)
	if err != nil {
		return nil, nil, err
	}
	if h := ctx.String("host"); h != "" {
		cfg.Link.Host = h
	}
	if d := ctx.String("dapp"); d != "" {
		cfg.Link.DappID = d
	}
	log, _, err := options.HandleLoggingParams(ctx.Bool("debug"), cfg.ApplicationConfiguration)
	if err != nil {
		return nil, nil, err
	}
	s, err := NewSession(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	if err = s.Enable(gctx); err != nil {
		return nil, nil, err
	}
	if err = s.Login(gctx); err != nil {
		s.Close()
		return nil, nil, err
	}
	return s, log, nil
}

func login(ctx *cli.Context) error {
	gctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s, log, err := session(gctx, ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer func() { _ = log.Sync() }()
	defer s.Close()

	buf := bytes.NewBuffer(nil)
	tw := tabwriter.NewWriter(buf, 0, 4, 4, '\t', 0)
	_, _ = tw.Write([]byte("Wallet:\t" + s.WalletName() + "\n"))
	_, _ = tw.Write([]byte("Name:\t" + s.Name() + "\n"))
	_, _ = tw.Write([]byte("Address:\t" + s.Address() + "\n"))
	cache := s.Cache()
	for _, sym := range cache.Assets() {
		_, _ = tw.Write([]byte(sym + ":\t" + cache.Balance(sym).String() + "\n"))
		if ids := cache.NFTs(sym); len(ids) != 0 {
			_, _ = tw.Write([]byte("\tIDs: " + strings.Join(ids, ", ") + "\n"))
		}
	}
	_ = tw.Flush()
	fmt.Fprint(ctx.App.Writer, buf.String())
	return nil
}

func signData(ctx *cli.Context) error {
	args := ctx.Args()
	if len(args) == 0 {
		return cli.NewExitError("nothing to sign", 1)
	}
	gctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s, log, err := session(gctx, ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer func() { _ = log.Sync() }()
	defer s.Close()

	res, err := s.SignData(gctx, []byte(strings.Join(args, " ")))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	fmt.Fprintf(ctx.App.Writer, "Signature:\t%s\nRandom:\t%s\nData:\t%s\n", res.Signature, res.Random, res.Data)
	return nil
}

func sendTx(ctx *cli.Context) error {
	scriptHex := ctx.String("script")
	if scriptHex == "" {
		return cli.NewExitError("no script given, use --script", 1)
	}
	script, err := hex.DecodeString(strings.TrimPrefix(scriptHex, "0x"))
	if err != nil {
		return cli.NewExitError(fmt.Errorf("invalid script: %w", err), 1)
	}
	gctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s, log, err := session(gctx, ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer func() { _ = log.Sync() }()
	defer s.Close()

	h, err := s.SendTransaction(gctx, ctx.String("chain"), script, []byte(ctx.String("payload")))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	fmt.Fprintln(ctx.App.Writer, h.String())
	return nil
}
