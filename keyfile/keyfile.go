package keyfile

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/juju/fslock"
	"go.uber.org/zap"

	"github.com/orga-wallet/orgakey/privkey"
	"github.com/orga-wallet/orgakey/util"
)

const (
	keyFileMode = 0600
	lockSuffix  = ".lock"
)

// Save writes the raw key bytes to the target named by exactly one of
// explicitFile and homeDir. An existing file is only replaced when force is
// set. Missing parent directories are created.
//
// The existence check and the write are two separate steps; concurrent
// saves to the same path must be serialized by the caller, see SaveLocked.
func Save(pk *privkey.PrivKey, explicitFile, homeDir string, force bool, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	path, err := targetPath(explicitFile, homeDir)
	if err != nil {
		return err
	}

	_, err = os.Stat(path)
	switch {
	case err == nil && !force:
		return fmt.Errorf("%w: %w: %s", ErrSave, ErrRefuseOverwrite, path)
	case err == nil:
		logger.Info("overwriting the key file", zap.String("path", path))
	case os.IsNotExist(err):
		logger.Info("creating the key file", zap.String("path", path))
		if err := util.MakeDirectory(filepath.Dir(path)); err != nil {
			return fmt.Errorf("%w: %w", ErrSave, err)
		}
	default:
		return fmt.Errorf("%w: failed to stat %s: %w", ErrSave, path, err)
	}

	if err := writeKeyFile(path, pk.Bytes()); err != nil {
		return fmt.Errorf("%w: %w", ErrSave, err)
	}

	logger.Debug("the key file is written", zap.String("path", path))

	return nil
}

// SaveLocked is Save guarded by an advisory lock on a sibling "<path>.lock"
// file, so that saves from several processes to one path do not interleave.
// The lock file stays in place after a save. A save refused because the key
// file already exists touches nothing.
func SaveLocked(pk *privkey.PrivKey, explicitFile, homeDir string, force bool, timeout time.Duration, logger *zap.Logger) error {
	path, err := targetPath(explicitFile, homeDir)
	if err != nil {
		return err
	}
	if !force && util.FileExists(path) {
		return fmt.Errorf("%w: %w: %s", ErrSave, ErrRefuseOverwrite, path)
	}
	if err := util.MakeDirectory(filepath.Dir(path)); err != nil {
		return fmt.Errorf("%w: %w", ErrSave, err)
	}

	lock := fslock.New(path + lockSuffix)
	if err := lock.LockWithTimeout(timeout); err != nil {
		return fmt.Errorf("%w: failed to lock %s: %w", ErrSave, path, err)
	}
	defer lock.Unlock()

	return Save(pk, explicitFile, homeDir, force, logger)
}

// Load reads the key stored at path. When the file is missing or empty and
// createIfMissing is set, a fresh key is generated and saved there.
func Load(path string, createIfMissing bool, logger *zap.Logger) (*privkey.PrivKey, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil && len(data) > 0:
		pk, err := privkey.FromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoad, path, err)
		}
		return pk, nil
	case err != nil && !os.IsNotExist(err):
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	case !createIfMissing:
		if err == nil {
			return nil, fmt.Errorf("%w: %s is empty", ErrLoad, path)
		}
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}

	pk, err := privkey.Generate()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	// an empty file may be in the way
	if err := Save(pk, path, "", true, logger); err != nil {
		return nil, err
	}
	logger.Warn("a new key has been generated, back it up securely", zap.String("path", path))

	return pk, nil
}

// Import resolves user input naming a key: the path of a key file when such a
// file exists, otherwise a hex encoded key.
func Import(input string, logger *zap.Logger) (*privkey.PrivKey, error) {
	if util.FileExists(input) {
		return Load(input, false, logger)
	}

	return privkey.FromHex(input)
}

func targetPath(explicitFile, homeDir string) (string, error) {
	switch {
	case explicitFile == "" && homeDir == "":
		return "", fmt.Errorf("%w: must specify file or home", ErrSave)
	case explicitFile != "" && homeDir != "":
		return "", fmt.Errorf("%w: ambiguous target: specify only one of file or home", ErrSave)
	}

	path, err := ResolvePath(explicitFile, homeDir)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSave, err)
	}

	return path, nil
}

func writeKeyFile(path string, bz []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, keyFileMode)
	if err != nil {
		return fmt.Errorf("failed to open key file %s: %w", path, err)
	}

	if _, err := f.Write(bz); err != nil {
		f.Close()
		return fmt.Errorf("failed to write key file %s: %w", path, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("failed to flush key file %s: %w", path, err)
	}

	return f.Close()
}
