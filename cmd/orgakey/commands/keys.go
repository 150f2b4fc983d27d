package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli"
	"go.uber.org/zap"

	"github.com/orga-wallet/orgakey/keyfile"
	"github.com/orga-wallet/orgakey/privkey"
	"github.com/orga-wallet/orgakey/util"
)

type KeyOutput struct {
	Address  string `json:"address"`
	Path     string `json:"path"`
	Mnemonic string `json:"mnemonic,omitempty"`
}

var KeyCommands = []cli.Command{
	AddressCommand,
	ExportCommand,
	WriteCommand,
	GenerateCommand,
}

var AddressCommand = cli.Command{
	Name:      "address",
	Aliases:   []string{"ad", "a", "addr"},
	Usage:     "Print the address of a key.",
	ArgsUsage: "[hex key or key file]",
	Flags:     append([]cli.Flag{homeCliFlag}, stdinCliFlags...),
	Action:    printAddress,
}

var ExportCommand = cli.Command{
	Name:      "export",
	Usage:     "Print a key as hex.",
	ArgsUsage: "[hex key or key file]",
	Flags:     append([]cli.Flag{homeCliFlag}, stdinCliFlags...),
	Action:    exportKey,
}

var WriteCommand = cli.Command{
	Name:    "write",
	Aliases: []string{"wr", "w"},
	Usage:   "Write a key to a key file.",
	Description: `Reads the key given by --input (hex key or key file), by --stdin
	or from the configured key file, and writes its raw 32 bytes to the output
	path, to the key file under --home when no output is given, or to stdout
	with --stdout. An existing key file is only replaced with --force.`,
	ArgsUsage: "[output]",
	Flags: append([]cli.Flag{
		homeCliFlag,
		cli.StringFlag{
			Name:  inputFlag,
			Usage: "The key to write, as hex or as the path of a key file",
		},
		cli.BoolFlag{
			Name:  stdoutFlag,
			Usage: "Write the raw key to stdout instead of a file",
		},
		cli.BoolFlag{
			Name:  forceFlag,
			Usage: "Overwrite an existing key file",
		},
		cli.DurationFlag{
			Name:  lockTimeoutFlag,
			Usage: "How long to wait for other writers of the key file",
			Value: defaultLockTimeout,
		},
	}, stdinCliFlags...),
	Action: writeKey,
}

var GenerateCommand = cli.Command{
	Name:      "generate",
	Aliases:   []string{"gen"},
	Usage:     "Create a key from a new mnemonic, or recover it from an existing one, and save it.",
	ArgsUsage: "[output]",
	Flags: append([]cli.Flag{
		homeCliFlag,
		cli.BoolFlag{
			Name:  recoverFlag,
			Usage: "Read an existing mnemonic from stdin instead of creating one",
		},
		cli.StringFlag{
			Name:  hdPathFlag,
			Usage: "The hd path used to derive the private key",
			Value: privkey.DefaultHDPath,
		},
		cli.BoolFlag{
			Name:  forceFlag,
			Usage: "Overwrite an existing key file",
		},
		cli.DurationFlag{
			Name:  lockTimeoutFlag,
			Usage: "How long to wait for other writers of the key file",
			Value: defaultLockTimeout,
		},
	}, stdinCliFlags[1:]...),
	Action: generateKey,
}

func printAddress(ctx *cli.Context) error {
	env, err := loadEnv(ctx)
	if err != nil {
		return err
	}
	defer env.close()

	pk, err := env.readKey(ctx, ctx.Args().First())
	if err != nil {
		return fmt.Errorf("failed to read the key: %w", err)
	}

	addr, err := pk.Address()
	if err != nil {
		return fmt.Errorf("failed to derive the address: %w", err)
	}

	fmt.Println(addr)
	return nil
}

func exportKey(ctx *cli.Context) error {
	env, err := loadEnv(ctx)
	if err != nil {
		return err
	}
	defer env.close()

	pk, err := env.readKey(ctx, ctx.Args().First())
	if err != nil {
		return fmt.Errorf("failed to read the key: %w", err)
	}

	h, err := pk.Hex()
	if err != nil {
		return err
	}

	fmt.Println(h)
	return nil
}

func writeKey(ctx *cli.Context) error {
	output := ctx.Args().First()
	if ctx.Bool(stdoutFlag) && output != "" {
		return fmt.Errorf("only one of --%s and an output path may be given", stdoutFlag)
	}

	env, err := loadEnv(ctx)
	if err != nil {
		return err
	}
	defer env.close()

	pk, err := env.readKey(ctx, ctx.String(inputFlag))
	if err != nil {
		return fmt.Errorf("failed to read the key: %w", err)
	}

	if ctx.Bool(stdoutFlag) {
		_, err := os.Stdout.Write(pk.Bytes())
		return err
	}

	path, err := env.saveKey(ctx, pk, output)
	if err != nil {
		return err
	}

	fmt.Printf("Key successfully written to %s\n", path)
	return nil
}

func generateKey(ctx *cli.Context) error {
	env, err := loadEnv(ctx)
	if err != nil {
		return err
	}
	defer env.close()

	var mnemonic string
	if ctx.Bool(recoverFlag) {
		data, err := readStdin(stdin, ctx.Uint(maxAttemptsFlag), ctx.Duration(timeoutFlag), env.logger)
		if err != nil {
			return fmt.Errorf("failed to read mnemonic: %w", err)
		}
		mnemonic = string(data)
	} else {
		mnemonic, err = privkey.NewMnemonic()
		if err != nil {
			return fmt.Errorf("failed to create mnemonic: %w", err)
		}
	}

	pk, err := privkey.FromMnemonic(normalizeMnemonic(mnemonic), "", ctx.String(hdPathFlag))
	if err != nil {
		return err
	}
	pk = pk.WithPrefix(env.cfg.NetworkPrefix)

	addr, err := pk.Address()
	if err != nil {
		return fmt.Errorf("failed to derive the address: %w", err)
	}

	path, err := env.saveKey(ctx, pk, ctx.Args().First())
	if err != nil {
		return err
	}

	out := KeyOutput{
		Address: addr,
		Path:    path,
	}
	if !ctx.Bool(recoverFlag) {
		out.Mnemonic = mnemonic
	}
	printRespJSON(out)

	return nil
}

// saveKey writes pk to output, to the configured key file, or to the default
// key file under home, in that order of preference.
func (env *keyEnv) saveKey(ctx *cli.Context, pk *privkey.PrivKey, output string) (string, error) {
	explicitFile, homeDir := util.CleanAndExpandPath(output), ""
	if explicitFile == "" {
		explicitFile = env.cfg.KeyFile
	}
	if explicitFile == "" {
		homeDir = env.home
	}

	path, err := keyfile.ResolvePath(explicitFile, homeDir)
	if err != nil {
		return "", err
	}

	force := ctx.Bool(forceFlag)
	if err := keyfile.SaveLocked(pk, explicitFile, homeDir, force, ctx.Duration(lockTimeoutFlag), env.logger); err != nil {
		return "", err
	}

	env.logger.Info("the key is saved",
		zap.String("path", path),
		zap.Bool("force", force),
	)

	return path, nil
}

// normalizeMnemonic collapses the whitespace of a pasted mnemonic.
func normalizeMnemonic(mnemonic string) string {
	return strings.Join(strings.Fields(mnemonic), " ")
}

func printRespJSON(resp interface{}) {
	jsonBytes, err := json.MarshalIndent(resp, "", "    ")
	if err != nil {
		fmt.Println("unable to decode response: ", err)
		return
	}

	fmt.Printf("New key is created "+
		"(mnemonic should be kept in a safe place for recovery):\n%s\n", jsonBytes)
}
