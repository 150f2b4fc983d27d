package keyfile

import (
	"path/filepath"

	errorsmod "cosmossdk.io/errors"

	"github.com/orga-wallet/orgakey/util"
)

const (
	// WalletDirname is the directory holding the wallet files under a home
	// directory.
	WalletDirname = ".orga-wallet"

	keyFilename = "privkey"
)

// DefaultSubPath is where the key lives relative to a home directory.
var DefaultSubPath = filepath.Join(WalletDirname, keyFilename)

// GetFile returns explicitFile when set, otherwise homeDir joined with
// subPath. An empty homeDir falls back to the current user's home.
func GetFile(explicitFile, homeDir, subPath string) (string, error) {
	if explicitFile != "" {
		return explicitFile, nil
	}

	if subPath == "" {
		return "", errorsmod.Wrap(ErrPathResolution, "sub path must be provided")
	}

	if homeDir == "" {
		home, err := util.HomeDir()
		if err != nil {
			return "", errorsmod.Wrap(ErrPathResolution, err.Error())
		}
		homeDir = home
	}

	return filepath.Join(homeDir, subPath), nil
}

// ResolvePath locates the key file: explicitFile as is, or the default key
// file under homeDir.
func ResolvePath(explicitFile, homeDir string) (string, error) {
	return GetFile(explicitFile, homeDir, DefaultSubPath)
}
