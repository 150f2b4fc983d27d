package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"

	kcli "github.com/orga-wallet/orgakey/cmd/orgakey/commands"
)

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "[orgakey] %v\n", err)
	os.Exit(1)
}

func main() {
	app := cli.NewApp()
	app.Name = "orgakey"
	app.Usage = "Manage the orga wallet private key."
	app.Commands = append(app.Commands, kcli.InitCommand)
	app.Commands = append(app.Commands, kcli.KeyCommands...)

	if err := app.Run(os.Args); err != nil {
		fatal(err)
	}
}
