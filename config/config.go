package config

import (
	"fmt"
	"path/filepath"

	"github.com/jessevdk/go-flags"

	"github.com/orga-wallet/orgakey/keyfile"
	"github.com/orga-wallet/orgakey/log"
	"github.com/orga-wallet/orgakey/privkey"
	"github.com/orga-wallet/orgakey/util"
)

const (
	defaultLogLevel       = "info"
	defaultLogFormat      = "console"
	defaultLogFilename    = "orgakey.log"
	defaultConfigFileName = "orgakey.conf"
)

// Config is the wallet configuration stored under <home>/.orga-wallet.
type Config struct {
	LogLevel      string `long:"loglevel" description:"Logging level for all subsystems" choice:"debug" choice:"info" choice:"warn" choice:"error" choice:"fatal"`
	LogFormat     string `long:"logformat" description:"Encoding of log entries" choice:"auto" choice:"console" choice:"json" choice:"logfmt"`
	NetworkPrefix string `long:"networkprefix" description:"The bech32 prefix of derived account addresses"`
	KeyFile       string `long:"keyfile" description:"Path of the private key file, defaults to <home>/.orga-wallet/privkey"`
}

// LoadConfig loads the config file under homePath. A missing file yields the
// default configuration.
func LoadConfig(homePath string) (*Config, error) {
	cfg := DefaultConfig()

	cfgFile := ConfigFile(homePath)
	if !util.FileExists(cfgFile) {
		return cfg, nil
	}

	fileParser := flags.NewParser(cfg, flags.Default)
	err := flags.NewIniParser(fileParser).ParseFile(cfgFile)
	if err != nil {
		return nil, err
	}

	// Make sure everything we just loaded makes sense.
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}

	return cfg, nil
}

// WriteConfig stores cfg as the config file under homePath.
func WriteConfig(cfg *Config, homePath string) error {
	if err := util.MakeDirectory(WalletDir(homePath)); err != nil {
		return err
	}

	fileParser := flags.NewParser(cfg, flags.Default)

	return flags.NewIniParser(fileParser).WriteFile(ConfigFile(homePath), flags.IniIncludeComments|flags.IniIncludeDefaults)
}

// Validate checks the given configuration to be sane. The key file path is
// normalized.
func (cfg *Config) Validate() error {
	if _, err := log.ParseLevel(cfg.LogLevel); err != nil {
		return err
	}

	switch cfg.LogFormat {
	case "auto", "console", "json", "logfmt":
	default:
		return fmt.Errorf("unrecognized log format %q", cfg.LogFormat)
	}

	if cfg.NetworkPrefix == "" {
		return fmt.Errorf("the network prefix should not be empty")
	}

	cfg.KeyFile = util.CleanAndExpandPath(cfg.KeyFile)

	return nil
}

// KeyFilePath returns the configured key file, or the default one under
// homePath.
func (cfg *Config) KeyFilePath(homePath string) (string, error) {
	return keyfile.ResolvePath(cfg.KeyFile, homePath)
}

func WalletDir(homePath string) string {
	return filepath.Join(homePath, keyfile.WalletDirname)
}

func ConfigFile(homePath string) string {
	return filepath.Join(WalletDir(homePath), defaultConfigFileName)
}

func LogFile(homePath string) string {
	return filepath.Join(WalletDir(homePath), defaultLogFilename)
}

func DefaultConfig() *Config {
	return &Config{
		LogLevel:      defaultLogLevel,
		LogFormat:     defaultLogFormat,
		NetworkPrefix: privkey.DefaultPrefix,
	}
}
