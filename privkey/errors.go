package privkey

import (
	errorsmod "cosmossdk.io/errors"
)

// ModuleName is the codespace of the errors registered by this package.
const ModuleName = "privkey"

var (
	// ErrInvalidLength the key material is not exactly KeySize bytes long
	ErrInvalidLength = errorsmod.Register(ModuleName, 2, "invalid private key length")

	// ErrInvalidHex the input is not a hex encoded private key
	ErrInvalidHex = errorsmod.Register(ModuleName, 3, "invalid private key hex")

	// ErrDerivation a value chained from the key bytes could not be derived
	ErrDerivation = errorsmod.Register(ModuleName, 4, "key derivation failed")

	// ErrInvalidMnemonic the mnemonic is not a valid BIP-39 phrase
	ErrInvalidMnemonic = errorsmod.Register(ModuleName, 5, "invalid mnemonic")
)
