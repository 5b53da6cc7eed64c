package wallet

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/phantasma-io/phantasma-go/cli/flags"
	"github.com/phantasma-io/phantasma-go/cli/options"
	"github.com/phantasma-io/phantasma-go/pkg/crypto/keys"
	"github.com/phantasma-io/phantasma-go/pkg/encoding/address"
	"github.com/phantasma-io/phantasma-go/pkg/rpcclient/actor"
	"github.com/urfave/cli"
)

var errNoScript = cli.NewExitError("no script given, use --script", 1)

// NewCommands returns 'wallet' command.
func NewCommands() []cli.Command {
	sendFlags := []cli.Flag{
		options.WIF,
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
		flags.AddressFlag{
			Name:  "expect",
			Usage: "fail unless the key belongs to this address",
		},
		options.Debug,
	}
	sendFlags = append(sendFlags, options.ConfigFlags...)
	sendFlags = append(sendFlags, options.RPC...)
	return []cli.Command{{
		Name:  "wallet",
		Usage: "Work with keys and transactions",
		Subcommands: []cli.Command{
			{
				Name:      "new",
				Usage:     "generate a new key",
				UsageText: "phantasma-go wallet new",
				Action:    newKey,
			},
			{
				Name:      "address",
				Usage:     "show the address of a key",
				UsageText: "phantasma-go wallet address [--wif key]",
				Action:    showAddress,
				Flags:     []cli.Flag{options.WIF},
			},
			{
				Name:      "validate",
				Usage:     "check whether the argument looks like an address or a private key",
				UsageText: "phantasma-go wallet validate <text>",
				Action:    validate,
			},
			{
				Name:  "send",
				Usage: "sign and broadcast a script, checking the hash reported by the node",
				UsageText: "phantasma-go wallet send --script <hex> [--chain main] [--payload text] " +
					"[--wif key] [--expect address] [-r endpoint]",
				Action: send,
				Flags:  sendFlags,
			},
		},
	}}
}

func newKey(ctx *cli.Context) error {
	kp, err := keys.NewKeyPair()
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	fmt.Fprintf(ctx.App.Writer, "Address:\t%s\nWIF:\t%s\n", kp.Address(), kp.WIF())
	return nil
}

func showAddress(ctx *cli.Context) error {
	kp, err := options.GetKeyPair(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	fmt.Fprintln(ctx.App.Writer, kp.Address().String())
	return nil
}

// validate decodes the argument as an address or a WIF key and reports the
// result of the quick textual predicates alongside.
func validate(ctx *cli.Context) error {
	args := ctx.Args()
	if len(args) == 0 {
		return cli.NewExitError("nothing to validate", 1)
	}
	s := args[0]
	if addr, err := address.FromString(s); err == nil {
		fmt.Fprintf(ctx.App.Writer, "valid address (%s)\n", kindName(addr.Kind()))
		fmt.Fprintf(ctx.App.Writer, "quick check:\t%t\n", address.IsValid(s))
		return nil
	}
	if _, err := keys.NewKeyPairFromWIF(s); err == nil {
		fmt.Fprintln(ctx.App.Writer, "valid private key")
		fmt.Fprintf(ctx.App.Writer, "quick check:\t%t\n", keys.IsValidPrivateKey(s))
		return nil
	}
	return cli.NewExitError("neither an address nor a private key", 1)
}

func kindName(k address.Kind) string {
	switch k {
	case address.User:
		return "user"
	case address.System:
		return "system"
	case address.Interop:
		return "interop"
	default:
		return "unknown"
	}
}

func send(ctx *cli.Context) error {
	if ctx.NArg() > 0 {
		return cli.NewExitError(fmt.Errorf("unexpected arguments: %s", strings.Join(ctx.Args(), " ")), 1)
	}
	scriptHex := ctx.String("script")
	if scriptHex == "" {
		return errNoScript
	}
	script, err := hex.DecodeString(strings.TrimPrefix(scriptHex, "0x"))
	if err != nil {
		return cli.NewExitError(fmt.Errorf("invalid script: %w", err), 1)
	}

	cfg, err := options.GetConfigFromContext(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	log, _, err := options.HandleLoggingParams(ctx.Bool("debug"), cfg.ApplicationConfiguration)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer func() { _ = log.Sync() }()

	kp, err := options.GetKeyPair(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	if expect, ok := flags.AddressFromContext(ctx, "expect"); ok && expect != kp.Address() {
		return cli.NewExitError(fmt.Errorf("key belongs to %s, not %s", kp.Address(), expect), 1)
	}

	gctx, cancel := options.GetTimeoutContext(ctx)
	defer cancel()

	c, exitErr := options.NewRPCClient(gctx, cfg.RPC, log)
	if exitErr != nil {
		return exitErr
	}
	defer c.Close()

	act, err := actor.New(c, kp, cfg.Nexus, actor.Options{Logger: log})
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	res, err := act.SignAndSendWithTextPayload(gctx, script, ctx.String("chain"), ctx.String("payload"))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	fmt.Fprintln(ctx.App.Writer, res.Hash.String())
	return nil
}
