package main

import (
	"fmt"
	"os"

	"github.com/phantasma-io/phantasma-go/cli/app"
)

func main() {
	ctl := app.New()

	if err := ctl.Run(os.Args); err != nil {
		fmt.Fprintf(ctl.ErrWriter, "%s: %v\n", ctl.Name, err)
		os.Exit(1)
	}
}
