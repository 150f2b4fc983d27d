package commands

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/orga-wallet/orgakey/config"
	"github.com/orga-wallet/orgakey/util"
)

var InitCommand = cli.Command{
	Name:  "init",
	Usage: "Initialize the wallet directory with a default configuration.",
	Flags: []cli.Flag{
		homeCliFlag,
		cli.BoolFlag{
			Name:  forceFlag,
			Usage: "Override existing configuration",
		},
	},
	Action: initHome,
}

func initHome(ctx *cli.Context) error {
	homePath, err := getHomeFlag(ctx)
	if err != nil {
		return err
	}
	force := ctx.Bool(forceFlag)

	cfgFile := config.ConfigFile(homePath)
	if util.FileExists(cfgFile) && !force {
		return fmt.Errorf("config file %s already exists", cfgFile)
	}

	if err := config.WriteConfig(config.DefaultConfig(), homePath); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", cfgFile, err)
	}

	fmt.Printf("Wallet directory initialized at %s\n", config.WalletDir(homePath))
	return nil
}
