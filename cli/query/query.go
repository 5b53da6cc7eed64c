package query

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/phantasma-io/phantasma-go/cli/options"
	"github.com/phantasma-io/phantasma-go/pkg/crypto/hash"
	"github.com/phantasma-io/phantasma-go/pkg/encoding/address"
	"github.com/phantasma-io/phantasma-go/pkg/encoding/unit"
	"github.com/phantasma-io/phantasma-go/pkg/pharpc/result"
	"github.com/urfave/cli"
)

var chainFlag = cli.StringFlag{
	Name:  "chain, c",
	Value: "main",
	Usage: "Chain name",
}

// NewCommands returns 'query' command.
func NewCommands() []cli.Command {
	queryFlags := append([]cli.Flag{}, options.ConfigFlags...)
	queryFlags = append(queryFlags, options.RPC...)
	heightFlags := append([]cli.Flag{chainFlag}, queryFlags...)
	queryTxFlags := append([]cli.Flag{
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: "Output full tx info and events",
		},
	}, queryFlags...)
	return []cli.Command{{
		Name:  "query",
		Usage: "Query data from the Phantasma node",
		Subcommands: []cli.Command{
			{
				Name:      "account",
				Usage:     "Show account name and balances",
				UsageText: "phantasma-go query account <address> [-r endpoint]",
				Action:    queryAccount,
				Flags:     queryFlags,
			},
			{
				Name:      "height",
				Usage:     "Show current chain height",
				UsageText: "phantasma-go query height [--chain name] [-r endpoint]",
				Action:    queryHeight,
				Flags:     heightFlags,
			},
			{
				Name:      "token",
				Usage:     "Show token info",
				UsageText: "phantasma-go query token <symbol> [-r endpoint]",
				Action:    queryToken,
				Flags:     queryFlags,
			},
			{
				Name:      "tx",
				Usage:     "Query tx status",
				UsageText: "phantasma-go query tx <hash> [-v] [-r endpoint]",
				Action:    queryTx,
				Flags:     queryTxFlags,
			},
			{
				Name:      "nexus",
				Usage:     "Show nexus name and chains",
				UsageText: "phantasma-go query nexus [-r endpoint]",
				Action:    queryNexus,
				Flags:     queryFlags,
			},
		},
	}}
}

func queryAccount(ctx *cli.Context) error {
	args := ctx.Args()
	if len(args) == 0 {
		return cli.NewExitError("address is missing", 1)
	}
	if _, err := address.FromString(args[0]); err != nil {
		return cli.NewExitError(fmt.Sprintf("invalid address %s: %s", args[0], err), 1)
	}

	gctx, cancel := options.GetTimeoutContext(ctx)
	defer cancel()

	c, exitErr := options.GetRPCClient(gctx, ctx)
	if exitErr != nil {
		return exitErr
	}
	defer c.Close()

	acc, err := c.GetAccount(gctx, args[0])
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	buf := bytes.NewBuffer(nil)
	tw := tabwriter.NewWriter(buf, 0, 4, 4, '\t', 0)
	_, _ = tw.Write([]byte("Address:\t" + acc.Address + "\n"))
	_, _ = tw.Write([]byte("Name:\t" + acc.Name + "\n"))
	for _, b := range acc.Balances {
		_, _ = tw.Write([]byte(fmt.Sprintf("%s:\t%s (%s)\n", b.Symbol, formatAmount(b), b.Chain)))
		if len(b.IDs) != 0 {
			_, _ = tw.Write([]byte("\tIDs: " + strings.Join(b.IDs, ", ") + "\n"))
		}
	}
	_ = tw.Flush()
	fmt.Fprint(ctx.App.Writer, buf.String())
	return nil
}

func formatAmount(b result.Balance) string {
	v, ok := unit.Parse(b.Amount)
	if !ok {
		return b.Amount
	}
	return unit.ToDecimal(v, b.Decimals).String()
}

func queryHeight(ctx *cli.Context) error {
	gctx, cancel := options.GetTimeoutContext(ctx)
	defer cancel()

	c, exitErr := options.GetRPCClient(gctx, ctx)
	if exitErr != nil {
		return exitErr
	}
	defer c.Close()

	h, err := c.GetBlockHeight(gctx, ctx.String("chain"))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	fmt.Fprintln(ctx.App.Writer, strconv.FormatUint(h, 10))
	return nil
}

func queryToken(ctx *cli.Context) error {
	args := ctx.Args()
	if len(args) == 0 {
		return cli.NewExitError("token symbol is missing", 1)
	}

	gctx, cancel := options.GetTimeoutContext(ctx)
	defer cancel()

	c, exitErr := options.GetRPCClient(gctx, ctx)
	if exitErr != nil {
		return exitErr
	}
	defer c.Close()

	tok, err := c.GetToken(gctx, strings.ToUpper(args[0]))
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	buf := bytes.NewBuffer(nil)
	tw := tabwriter.NewWriter(buf, 0, 4, 4, '\t', 0)
	_, _ = tw.Write([]byte("Symbol:\t" + tok.Symbol + "\n"))
	_, _ = tw.Write([]byte("Name:\t" + tok.Name + "\n"))
	_, _ = tw.Write([]byte("Decimals:\t" + strconv.Itoa(tok.Decimals) + "\n"))
	_, _ = tw.Write([]byte("Supply:\t" + supply(tok.CurrentSupply, tok.Decimals) + "\n"))
	_, _ = tw.Write([]byte("MaxSupply:\t" + supply(tok.MaxSupply, tok.Decimals) + "\n"))
	_, _ = tw.Write([]byte("Flags:\t" + tok.Flags + "\n"))
	_ = tw.Flush()
	fmt.Fprint(ctx.App.Writer, buf.String())
	return nil
}

func supply(s string, decimals int) string {
	return formatAmount(result.Balance{Amount: s, Decimals: decimals})
}

func queryTx(ctx *cli.Context) error {
	args := ctx.Args()
	if len(args) == 0 {
		return cli.NewExitError("Transaction hash is missing", 1)
	}

	txHash, err := hash.Parse(args[0])
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("Invalid tx hash: %s", args[0]), 1)
	}

	gctx, cancel := options.GetTimeoutContext(ctx)
	defer cancel()

	c, exitErr := options.GetRPCClient(gctx, ctx)
	if exitErr != nil {
		return exitErr
	}
	defer c.Close()

	tx, err := c.GetTransaction(gctx, txHash)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	dumpTransaction(ctx, tx)
	return nil
}

func dumpTransaction(ctx *cli.Context, tx *result.Transaction) {
	verbose := ctx.Bool("verbose")
	buf := bytes.NewBuffer(nil)

	// Ignore the errors below because `Write` to buffer doesn't return error.
	tw := tabwriter.NewWriter(buf, 0, 4, 4, '\t', 0)
	_, _ = tw.Write([]byte("Hash:\t" + tx.Hash + "\n"))
	_, _ = tw.Write([]byte("BlockHash:\t" + tx.BlockHash + "\n"))
	_, _ = tw.Write([]byte("BlockHeight:\t" + strconv.FormatUint(tx.BlockHeight, 10) + "\n"))
	_, _ = tw.Write([]byte(fmt.Sprintf("Success:\t%t\n", tx.IsHalted())))
	if verbose {
		_, _ = tw.Write([]byte("State:\t" + string(tx.State) + "\n"))
		_, _ = tw.Write([]byte("Expiration:\t" + strconv.FormatUint(uint64(tx.Expiration), 10) + "\n"))
		if tx.Fee != "" {
			_, _ = tw.Write([]byte("Fee:\t" + tx.Fee + "\n"))
		}
		_, _ = tw.Write([]byte("Script:\t" + tx.Script + "\n"))
		for _, e := range tx.Events {
			_, _ = tw.Write([]byte(fmt.Sprintf("Event:\t%s %s %s\n", e.Kind, e.Address, e.Contract)))
		}
	}
	_ = tw.Flush()
	fmt.Fprint(ctx.App.Writer, buf.String())
}

func queryNexus(ctx *cli.Context) error {
	gctx, cancel := options.GetTimeoutContext(ctx)
	defer cancel()

	c, exitErr := options.GetRPCClient(gctx, ctx)
	if exitErr != nil {
		return exitErr
	}
	defer c.Close()

	n, err := c.GetNexus(gctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	buf := bytes.NewBuffer(nil)
	tw := tabwriter.NewWriter(buf, 0, 4, 4, '\t', 0)
	_, _ = tw.Write([]byte("Name:\t" + n.Name + "\n"))
	_, _ = tw.Write([]byte("Protocol:\t" + strconv.FormatUint(uint64(n.Protocol), 10) + "\n"))
	for _, ch := range n.Chains {
		_, _ = tw.Write([]byte(fmt.Sprintf("Chain:\t%s %d\n", ch.Name, ch.Height)))
	}
	_ = tw.Flush()
	fmt.Fprint(ctx.App.Writer, buf.String())
	return nil
}
