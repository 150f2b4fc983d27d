package privkey

import (
	"bytes"
	"encoding/hex"
	"strings"

	errorsmod "cosmossdk.io/errors"
	"github.com/cometbft/cometbft/crypto"
	"github.com/cosmos/cosmos-sdk/crypto/hd"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/go-bip39"
)

const (
	mnemonicEntropySize = 256

	// maxGenerateAttempts bounds the rejection sampling in Generate. The
	// chance of a random 32-byte value being an invalid scalar is ~2^-128.
	maxGenerateAttempts = 8
)

// DefaultHDPath is the BIP-44 path used to derive keys from mnemonics when
// none is given.
var DefaultHDPath = hd.CreateHDPath(sdk.CoinType, 0, 0).String()

// FromHex parses a 64 character hex string. Surrounding whitespace is
// ignored.
func FromHex(s string) (*PrivKey, error) {
	s = strings.TrimSpace(s)
	if len(s) != hex.EncodedLen(KeySize) {
		return nil, errorsmod.Wrapf(ErrInvalidHex, "expected %d hex characters, got %d", hex.EncodedLen(KeySize), len(s))
	}

	bz, err := hex.DecodeString(s)
	if err != nil {
		return nil, errorsmod.Wrap(ErrInvalidHex, err.Error())
	}

	return New(bz)
}

// FromBytes accepts a key payload as stored in a key file: either the raw
// 32 bytes, or the key as hex text.
func FromBytes(data []byte) (*PrivKey, error) {
	if len(data) == 0 {
		return nil, errorsmod.Wrap(ErrInvalidLength, "empty input")
	}

	if len(data) == KeySize {
		return New(data)
	}

	text := bytes.TrimSpace(data)
	if len(text) == hex.EncodedLen(KeySize) {
		return FromHex(string(text))
	}

	return nil, errorsmod.Wrapf(ErrInvalidLength, "%d bytes is neither a raw nor a hex encoded key", len(data))
}

// Generate creates a new key from the operating system's CSPRNG. The key is
// guaranteed to hold a valid scalar.
func Generate() (*PrivKey, error) {
	var lastErr error
	for i := 0; i < maxGenerateAttempts; i++ {
		pk, err := New(crypto.CRandBytes(KeySize))
		if err != nil {
			return nil, err
		}
		if _, err := pk.SigningKey(); err != nil {
			lastErr = err
			continue
		}
		return pk, nil
	}

	return nil, errorsmod.Wrapf(ErrDerivation, "no valid scalar after %d attempts: %v", maxGenerateAttempts, lastErr)
}

// NewMnemonic returns a fresh 24 word BIP-39 mnemonic.
func NewMnemonic() (string, error) {
	entropySeed, err := bip39.NewEntropy(mnemonicEntropySize)
	if err != nil {
		return "", err
	}

	return bip39.NewMnemonic(entropySeed)
}

// FromMnemonic derives the secp256k1 key at hdPath from a BIP-39 mnemonic.
// An empty hdPath selects DefaultHDPath.
func FromMnemonic(mnemonic, bip39Passphrase, hdPath string) (*PrivKey, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, ErrInvalidMnemonic
	}
	if hdPath == "" {
		hdPath = DefaultHDPath
	}

	bz, err := hd.Secp256k1.Derive()(mnemonic, bip39Passphrase, hdPath)
	if err != nil {
		return nil, errorsmod.Wrapf(ErrDerivation, "failed to derive key at %s: %v", hdPath, err)
	}

	return New(bz)
}
