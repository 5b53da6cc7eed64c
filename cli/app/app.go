package app

import (
	"fmt"
	"os"
	"runtime"

	"github.com/phantasma-io/phantasma-go/cli/query"
	"github.com/phantasma-io/phantasma-go/cli/wallet"
	"github.com/phantasma-io/phantasma-go/cli/walletlink"
	"github.com/phantasma-io/phantasma-go/cli/watch"
	"github.com/phantasma-io/phantasma-go/pkg/config"
	"github.com/urfave/cli"
)

func versionPrinter(c *cli.Context) {
	_, _ = fmt.Fprintf(c.App.Writer, "phantasma-go\nVersion: %s\nGoVersion: %s\n",
		config.Version,
		runtime.Version(),
	)
}

// New creates a phantasma-go instance of [cli.App] with all commands included.
func New() *cli.App {
	cli.VersionPrinter = versionPrinter
	ctl := cli.NewApp()
	ctl.Name = "phantasma-go"
	ctl.Version = config.Version
	ctl.Usage = "Go client for Phantasma nodes and wallets"
	ctl.ErrWriter = os.Stdout

	ctl.Commands = append(ctl.Commands, query.NewCommands()...)
	ctl.Commands = append(ctl.Commands, wallet.NewCommands()...)
	ctl.Commands = append(ctl.Commands, walletlink.NewCommands()...)
	ctl.Commands = append(ctl.Commands, watch.NewCommands()...)
	return ctl
}
