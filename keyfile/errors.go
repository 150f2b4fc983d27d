package keyfile

import (
	errorsmod "cosmossdk.io/errors"
)

// ModuleName is the codespace of the errors registered by this package.
const ModuleName = "keyfile"

var (
	// ErrPathResolution the key file location could not be determined
	ErrPathResolution = errorsmod.Register(ModuleName, 2, "failed to resolve key file path")

	// ErrSave the key could not be saved; every Save failure wraps it
	ErrSave = errorsmod.Register(ModuleName, 3, "failed to save key")

	// ErrRefuseOverwrite the target already exists and force is not set
	ErrRefuseOverwrite = errorsmod.Register(ModuleName, 4, "exists, refuse to overwrite")

	// ErrLoad the key file could not be read or parsed
	ErrLoad = errorsmod.Register(ModuleName, 5, "failed to load key")
)
