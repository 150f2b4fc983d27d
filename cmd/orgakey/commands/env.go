package commands

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli"
	"go.uber.org/zap"

	"github.com/orga-wallet/orgakey/config"
	"github.com/orga-wallet/orgakey/keyfile"
	"github.com/orga-wallet/orgakey/log"
	"github.com/orga-wallet/orgakey/privkey"
	"github.com/orga-wallet/orgakey/util"
)

var defaultHome, _ = util.HomeDir()

var homeCliFlag = cli.StringFlag{
	Name:  homeFlag,
	Usage: "The home directory holding the .orga-wallet directory",
	Value: defaultHome,
}

// keyEnv is what every key command needs before touching a key.
type keyEnv struct {
	home     string
	cfg      *config.Config
	logger   *zap.Logger
	closeLog func() error
}

func loadEnv(ctx *cli.Context) (*keyEnv, error) {
	homePath, err := getHomeFlag(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load home flag: %w", err)
	}

	cfg, err := config.LoadConfig(homePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config at %s: %w", homePath, err)
	}

	logger, closeLog, err := newLogger(homePath, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load the logger: %w", err)
	}

	return &keyEnv{
		home:     homePath,
		cfg:      cfg,
		logger:   logger,
		closeLog: closeLog,
	}, nil
}

// close flushes the logger and releases the log file, if any.
func (env *keyEnv) close() {
	_ = env.closeLog()
}

// newLogger logs into the wallet log file once the wallet directory exists,
// and to stderr only before that.
func newLogger(homePath string, cfg *config.Config) (*zap.Logger, func() error, error) {
	if util.FileExists(config.WalletDir(homePath)) {
		return log.NewRootLoggerWithFile(config.LogFile(homePath), cfg.LogFormat, cfg.LogLevel)
	}

	logger, err := log.NewRootLogger(cfg.LogFormat, cfg.LogLevel, os.Stderr)
	if err != nil {
		return nil, nil, err
	}

	return logger, logger.Sync, nil
}

func getHomeFlag(ctx *cli.Context) (string, error) {
	home := ctx.String(homeFlag)
	if home == "" {
		return util.HomeDir()
	}

	homePath, err := filepath.Abs(util.CleanAndExpandPath(home))
	if err != nil {
		return "", err
	}

	return homePath, nil
}

// readKey loads the key named by input: a hex string or a key file path.
// Without input the key comes from stdin when requested, or else from the
// configured key file.
func (env *keyEnv) readKey(ctx *cli.Context, input string) (*privkey.PrivKey, error) {
	var (
		pk  *privkey.PrivKey
		err error
	)

	switch {
	case ctx.Bool(stdinFlag) && input != "":
		return nil, fmt.Errorf("only one of --%s and an input key may be given", stdinFlag)
	case ctx.Bool(stdinFlag):
		pk, err = env.readKeyFromStdin(ctx)
	case input != "":
		pk, err = keyfile.Import(util.CleanAndExpandPath(input), env.logger)
	default:
		var keyPath string
		keyPath, err = env.cfg.KeyFilePath(env.home)
		if err != nil {
			return nil, err
		}
		pk, err = keyfile.Load(keyPath, false, env.logger)
	}
	if err != nil {
		return nil, err
	}

	return pk.WithPrefix(env.cfg.NetworkPrefix), nil
}

func (env *keyEnv) readKeyFromStdin(ctx *cli.Context) (*privkey.PrivKey, error) {
	data, err := readStdin(stdin, ctx.Uint(maxAttemptsFlag), ctx.Duration(timeoutFlag), env.logger)
	if err != nil {
		return nil, err
	}

	// stdin may carry the path of a key file instead of the key itself
	if path := string(bytes.TrimSpace(data)); path != "" && util.FileExists(path) {
		return keyfile.Load(path, false, env.logger)
	}

	return privkey.FromBytes(data)
}
